package calculation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nanValue() float64 { return math.NaN() }

func TestFixedMarket(t *testing.T) {
	p, err := FixedMarket{}.NextPerturbation()
	require.NoError(t, err)
	assert.True(t, p.IsZero())
}

func TestNormalMarketIsSeeded(t *testing.T) {
	a := NewNormalMarket(0.15, 11)
	b := NewNormalMarket(0.15, 11)
	c := NewNormalMarket(0.15, 12)

	different := false
	for i := 0; i < 20; i++ {
		pa, err := a.NextPerturbation()
		require.NoError(t, err)
		pb, _ := b.NextPerturbation()
		pc, _ := c.NextPerturbation()
		assert.True(t, pa.Equal(pb))
		if !pa.Equal(pc) {
			different = true
		}
	}
	assert.True(t, different, "different seeds should give different paths")
}

func TestSequenceMarket(t *testing.T) {
	sm := &SequenceMarket{Returns: []float64{0.1, -0.1}}
	for _, want := range []string{"0.1", "-0.1", "-0.1", "-0.1"} {
		p, err := sm.NextPerturbation()
		require.NoError(t, err)
		assert.True(t, p.Equal(d(want)))
	}

	empty := &SequenceMarket{}
	p, err := empty.NextPerturbation()
	require.NoError(t, err)
	assert.True(t, p.IsZero())

	bad := &SequenceMarket{Returns: []float64{math.Inf(1)}}
	_, err = bad.NextPerturbation()
	assert.ErrorIs(t, err, ErrNonFiniteReturn)
}

func TestMarketFor(t *testing.T) {
	assert.IsType(t, FixedMarket{}, MarketFor(0, 1))
	assert.IsType(t, FixedMarket{}, MarketFor(-0.1, 1))
	assert.IsType(t, &NormalMarket{}, MarketFor(0.1, 1))
}
