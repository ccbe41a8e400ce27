package config

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

var (
	// ErrMissingParameter is returned when a required key is absent.
	ErrMissingParameter = errors.New("missing required parameter")
	// ErrInvalidParameter is returned for a value that is not numeric or is out of range.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Parameters is the flat key/value parameter map every input format is
// reduced to.
type Parameters map[string]float64

// Get returns the value for key, or 0 when it is absent.
func (p Parameters) Get(key string) float64 {
	return p[key]
}

// GetOr returns the value for key, or def when it is absent.
func (p Parameters) GetOr(key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// Has reports whether key is present.
func (p Parameters) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Require returns the value for key or an ErrMissingParameter naming it.
func (p Parameters) Require(key string) (float64, error) {
	v, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingParameter, key)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s is not a finite number", ErrInvalidParameter, key)
	}
	return v, nil
}

// Decimal returns the value for key as a decimal, or 0 when absent.
func (p Parameters) Decimal(key string) decimal.Decimal {
	return decimal.NewFromFloat(p.Get(key))
}

// DecimalOr returns the value for key as a decimal, or def when absent.
func (p Parameters) DecimalOr(key string, def float64) decimal.Decimal {
	return decimal.NewFromFloat(p.GetOr(key, def))
}

// Clone returns an independent copy.
func (p Parameters) Clone() Parameters {
	out := make(Parameters, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Keys returns the parameter names in sorted order.
func (p Parameters) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RequiredKeys lists the parameters every simulation needs.
var RequiredKeys = []string{
	"p1_start_age", "p2_start_age", "end_simulation_age",
	"inflation_rate", "annual_spend_goal",
	"bal_taxable", "bal_pretax_p1", "bal_pretax_p2", "bal_roth_p1", "bal_roth_p2",
	"growth_rate_taxable", "growth_rate_pretax_p1", "growth_rate_pretax_p2",
	"growth_rate_roth_p1", "growth_rate_roth_p2",
	"taxable_basis_ratio", "target_tax_bracket_rate",
}

// RequireAll checks every required key is present, reporting all missing ones.
func (p Parameters) RequireAll() error {
	var errs []error
	for _, key := range RequiredKeys {
		if _, err := p.Require(key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
