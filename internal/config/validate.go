package config

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// bounds is an inclusive [min, max] range; a nil max is unbounded.
type bounds struct {
	min float64
	max *float64
}

func between(min, max float64) bounds { return bounds{min: min, max: &max} }
func atLeast(min float64) bounds      { return bounds{min: min} }

func (b bounds) contains(v float64) bool {
	if v < b.min {
		return false
	}
	return b.max == nil || v <= *b.max
}

func (b bounds) String() string {
	if b.max == nil {
		return fmt.Sprintf(">= %g", b.min)
	}
	return fmt.Sprintf("between %g and %g", b.min, *b.max)
}

var (
	nonNegative = atLeast(0)
	growthRate  = between(-0.5, 0.5)
	assetRate   = between(0, 0.5)
	loanYears   = between(0, 50)
)

// parameterRanges are the accepted ranges of the fixed-name parameters.
var parameterRanges = map[string]bounds{
	"p1_start_age":       between(0, 100),
	"p2_start_age":       between(0, 100),
	"end_simulation_age": between(0, 120),
	"inflation_rate":     between(0, 0.5),

	"annual_spend_goal":       nonNegative,
	"target_tax_bracket_rate": between(0, 1),
	"previous_year_taxes":     nonNegative,

	"p1_employment_income":    nonNegative,
	"p1_employment_until_age": between(0, 100),
	"p2_employment_income":    nonNegative,
	"p2_employment_until_age": between(0, 100),
	"p1_ss_amount":            nonNegative,
	"p1_ss_start_age":         between(62, 75),
	"p2_ss_amount":            nonNegative,
	"p2_ss_start_age":         between(62, 75),
	"p1_pension":              nonNegative,
	"p1_pension_start_age":    between(0, 100),
	"p2_pension":              nonNegative,
	"p2_pension_start_age":    between(0, 100),

	"bal_taxable":   nonNegative,
	"bal_pretax_p1": nonNegative,
	"bal_pretax_p2": nonNegative,
	"bal_roth_p1":   nonNegative,
	"bal_roth_p2":   nonNegative,

	"growth_rate_taxable":   growthRate,
	"growth_rate_pretax_p1": growthRate,
	"growth_rate_pretax_p2": growthRate,
	"growth_rate_roth_p1":   growthRate,
	"growth_rate_roth_p2":   growthRate,
	"taxable_basis_ratio":   between(0, 1),

	"primary_home_value":              nonNegative,
	"primary_home_growth_rate":        assetRate,
	"primary_home_mortgage_principal": nonNegative,
	"primary_home_mortgage_rate":      assetRate,
	"primary_home_mortgage_years":     loanYears,

	"volatility":      between(0, 1),
	"num_simulations": between(1, MaxSimulations),
}

// rentalRanges apply to every rental_<i>_<field> key.
var rentalRanges = map[string]bounds{
	"value":              nonNegative,
	"income":             nonNegative,
	"growth_rate":        assetRate,
	"income_growth_rate": assetRate,
	"mortgage_principal": nonNegative,
	"mortgage_rate":      assetRate,
	"mortgage_years":     loanYears,
}

var rentalKey = regexp.MustCompile(`^rental_([0-9]+)_([a-z_]+)$`)

// MaxSimulations caps num_simulations for a single Monte Carlo request.
const MaxSimulations = 1000

// isPercentRate reports whether key may be given as a percentage (6.5 for 6.5%).
func isPercentRate(key string) bool {
	if key == "primary_home_mortgage_rate" {
		return true
	}
	m := rentalKey.FindStringSubmatch(key)
	return m != nil && m[2] == "mortgage_rate"
}

// ValidateParameters checks every present parameter against its range and
// reports all violations at once. Mortgage rates are checked after percent
// normalisation. Presence of required keys is checked by
// BuildSimulationConfig.
func ValidateParameters(params Parameters) error {
	var errs []error
	for _, key := range params.Keys() {
		v := params[key]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, fmt.Errorf("%w: %s is not a finite number", ErrInvalidParameter, key))
			continue
		}
		if isPercentRate(key) && v > 1 {
			v /= 100
		}

		b, ok := parameterRanges[key]
		if !ok {
			m := rentalKey.FindStringSubmatch(key)
			if m == nil {
				continue
			}
			if idx, err := strconv.Atoi(m[1]); err != nil || idx < 1 {
				errs = append(errs, fmt.Errorf("%w: %s has an invalid rental index", ErrInvalidParameter, key))
				continue
			}
			if b, ok = rentalRanges[m[2]]; !ok {
				continue
			}
		}
		if !b.contains(v) {
			errs = append(errs, fmt.Errorf("%w: %s must be %s, got %g", ErrInvalidParameter, key, b, v))
		}
	}

	if start, end := params.Get("p1_start_age"), params.Get("end_simulation_age"); params.Has("p1_start_age") && params.Has("end_simulation_age") && end < start {
		errs = append(errs, fmt.Errorf("%w: end_simulation_age %g is before p1_start_age %g", ErrInvalidParameter, end, start))
	}
	return errors.Join(errs...)
}
