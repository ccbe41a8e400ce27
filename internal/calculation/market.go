package calculation

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/shopspring/decimal"
)

// ErrNonFiniteReturn is returned when a market model produces NaN or Inf.
var ErrNonFiniteReturn = errors.New("market model produced a non-finite return")

// MarketModel supplies the market perturbation added to every account's
// growth rate for one simulated year. One draw is shared by all accounts.
type MarketModel interface {
	NextPerturbation() (decimal.Decimal, error)
}

// FixedMarket is the deterministic model: no perturbation at all.
type FixedMarket struct{}

func (FixedMarket) NextPerturbation() (decimal.Decimal, error) { return decimal.Zero, nil }

// NormalMarket draws perturbations from a normal distribution with mean 0.
// A NormalMarket owns its random source and must not be shared between
// goroutines.
type NormalMarket struct {
	StdDev float64
	rng    *rand.Rand
}

// NewNormalMarket creates a normal market model with its own seeded source.
func NewNormalMarket(stdDev float64, seed int64) *NormalMarket {
	return &NormalMarket{
		StdDev: stdDev,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

func (nm *NormalMarket) NextPerturbation() (decimal.Decimal, error) {
	if nm.StdDev <= 0 {
		return decimal.Zero, nil
	}
	draw := nm.rng.NormFloat64() * nm.StdDev
	return checkedDecimal(draw)
}

// SequenceMarket replays a fixed list of perturbations, repeating the last
// one when the list runs out. Useful for stress paths and tests.
type SequenceMarket struct {
	Returns []float64
	next    int
}

func (sm *SequenceMarket) NextPerturbation() (decimal.Decimal, error) {
	if len(sm.Returns) == 0 {
		return decimal.Zero, nil
	}
	idx := sm.next
	if idx >= len(sm.Returns) {
		idx = len(sm.Returns) - 1
	} else {
		sm.next++
	}
	return checkedDecimal(sm.Returns[idx])
}

// MarketFor returns the deterministic model for volatility 0 and a seeded
// normal model otherwise.
func MarketFor(volatility float64, seed int64) MarketModel {
	if volatility <= 0 {
		return FixedMarket{}
	}
	return NewNormalMarket(volatility, seed)
}

func checkedDecimal(v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrNonFiniteReturn, v)
	}
	return decimal.NewFromFloat(v), nil
}
