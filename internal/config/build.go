package config

import (
	"fmt"

	"github.com/rpgo/household-sim/internal/domain"
	"github.com/shopspring/decimal"
)

// Defaults for optional parameters.
const (
	DefaultStartYear       = 2025
	DefaultSSStartAge      = 67
	DefaultPensionStartAge = 65
	DefaultVolatility      = 0.15
	DefaultSimulations     = 100
)

// MonteCarloOptions are the batch settings carried in a parameter map.
type MonteCarloOptions struct {
	Volatility     float64
	NumSimulations int
	Seed           int64 // 0 means draw a fresh seed per batch
}

// MonteCarloSettings reads volatility, num_simulations and seed, falling
// back to the defaults when absent.
func MonteCarloSettings(params Parameters) MonteCarloOptions {
	return MonteCarloOptions{
		Volatility:     params.GetOr("volatility", DefaultVolatility),
		NumSimulations: int(params.GetOr("num_simulations", DefaultSimulations)),
		Seed:           int64(params.Get("seed")),
	}
}

// BuildSimulationConfig assembles a typed configuration without logging.
func BuildSimulationConfig(params Parameters, startYear int) (*domain.SimulationConfig, error) {
	return NewInputParser().BuildSimulationConfig(params, startYear)
}

// BuildSimulationConfig assembles the typed configuration from a parameter
// map. Required keys must be present; optional keys take their documented
// defaults. Mortgage rates above 1 are read as percentages and a warning is
// logged for each.
func (ip *InputParser) BuildSimulationConfig(params Parameters, startYear int) (*domain.SimulationConfig, error) {
	if err := params.RequireAll(); err != nil {
		return nil, err
	}

	inflation := params.Get("inflation_rate")
	cfg := &domain.SimulationConfig{
		StartYear: startYear,
		Person1:   buildPerson(params, "p1"),
		Person2:   buildPerson(params, "p2"),
		EndAge:    int(params.Get("end_simulation_age")),

		InflationRate:        params.Decimal("inflation_rate"),
		AnnualSpendGoal:      params.Decimal("annual_spend_goal"),
		PreviousYearTaxes:    params.Decimal("previous_year_taxes"),
		TargetTaxBracketRate: params.Decimal("target_tax_bracket_rate"),
		TaxableBasisRatio:    params.Decimal("taxable_basis_ratio"),

		Balances: domain.AccountBalances{
			Taxable:  params.Decimal("bal_taxable"),
			PretaxP1: params.Decimal("bal_pretax_p1"),
			PretaxP2: params.Decimal("bal_pretax_p2"),
			RothP1:   params.Decimal("bal_roth_p1"),
			RothP2:   params.Decimal("bal_roth_p2"),
		},
		GrowthRates: domain.AccountBalances{
			Taxable:  params.Decimal("growth_rate_taxable"),
			PretaxP1: params.Decimal("growth_rate_pretax_p1"),
			PretaxP2: params.Decimal("growth_rate_pretax_p2"),
			RothP1:   params.Decimal("growth_rate_roth_p1"),
			RothP2:   params.Decimal("growth_rate_roth_p2"),
		},

		PrimaryHome: domain.PrimaryHome{
			Value:      params.Decimal("primary_home_value"),
			GrowthRate: params.DecimalOr("primary_home_growth_rate", inflation),
			Mortgage:   ip.loanTerms(params, "primary_home_mortgage"),
		},
	}

	for i := 1; ; i++ {
		prefix := fmt.Sprintf("rental_%d", i)
		if !params.Has(prefix+"_value") && !params.Has(prefix+"_mortgage_principal") {
			break
		}
		cfg.Rentals = append(cfg.Rentals, domain.RentalAsset{
			ID:               i,
			Value:            params.Decimal(prefix + "_value"),
			Income:           params.Decimal(prefix + "_income"),
			GrowthRate:       params.DecimalOr(prefix+"_growth_rate", inflation),
			IncomeGrowthRate: params.DecimalOr(prefix+"_income_growth_rate", inflation),
			Mortgage:         ip.loanTerms(params, prefix+"_mortgage"),
		})
	}

	if cfg.EndAge < cfg.Person1.StartAge {
		return nil, fmt.Errorf("%w: end_simulation_age %d is before p1_start_age %d", ErrInvalidParameter, cfg.EndAge, cfg.Person1.StartAge)
	}
	return cfg, nil
}

func buildPerson(params Parameters, p string) domain.Person {
	return domain.Person{
		StartAge: int(params.Get(p + "_start_age")),
		Income: domain.IncomeProfile{
			EmploymentIncome:   params.Decimal(p + "_employment_income"),
			EmploymentUntilAge: int(params.Get(p + "_employment_until_age")),
			SSAmount:           params.Decimal(p + "_ss_amount"),
			SSStartAge:         int(params.GetOr(p+"_ss_start_age", DefaultSSStartAge)),
			Pension:            params.Decimal(p + "_pension"),
			PensionStartAge:    int(params.GetOr(p+"_pension_start_age", DefaultPensionStartAge)),
		},
	}
}

// loanTerms reads <prefix>_principal/_rate/_years. It returns nil when the
// terms do not describe a loan.
func (ip *InputParser) loanTerms(params Parameters, prefix string) *domain.LoanTerms {
	rateKey := prefix + "_rate"
	rate := params.Get(rateKey)
	if rate > 1 {
		ip.logger.Warnf("%s %g looks like a percentage; using %g", rateKey, rate, rate/100)
		rate /= 100
	}

	terms := &domain.LoanTerms{
		Principal:  params.Decimal(prefix + "_principal"),
		AnnualRate: decimal.NewFromFloat(rate),
		Years:      params.Decimal(prefix + "_years"),
	}
	if !terms.HasLoan() {
		return nil
	}
	return terms
}
