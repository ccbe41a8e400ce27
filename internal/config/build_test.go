package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSimulationConfigFromExample(t *testing.T) {
	cfg, err := BuildSimulationConfig(CreateExampleParameters(), DefaultStartYear)
	require.NoError(t, err)

	assert.Equal(t, 2025, cfg.StartYear)
	assert.Equal(t, 65, cfg.Person1.StartAge)
	assert.Equal(t, 61, cfg.Person2.StartAge)
	assert.Equal(t, 95, cfg.EndAge)
	assert.Equal(t, 31, cfg.Years())
	assert.Equal(t, 70, cfg.Person1.Income.SSStartAge)
	assert.Equal(t, 67, cfg.Person1.Income.EmploymentUntilAge)
	assert.True(t, cfg.Balances.Total().Equal(decimal.NewFromInt(3320000)))
	assert.True(t, cfg.TargetTaxBracketRate.Equal(decimal.RequireFromString("0.24")))
	assert.Nil(t, cfg.PrimaryHome.Mortgage)
	assert.Empty(t, cfg.Rentals)
}

func TestBuildSimulationConfigMissingKey(t *testing.T) {
	params := CreateExampleParameters()
	delete(params, "bal_roth_p2")
	delete(params, "inflation_rate")

	_, err := BuildSimulationConfig(params, DefaultStartYear)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingParameter)
	assert.Contains(t, err.Error(), "bal_roth_p2")
	assert.Contains(t, err.Error(), "inflation_rate")
}

func TestBuildSimulationConfigDefaults(t *testing.T) {
	params := CreateExampleParameters()
	for _, key := range []string{"p1_ss_start_age", "p2_pension_start_age", "primary_home_growth_rate", "p1_employment_until_age", "previous_year_taxes"} {
		delete(params, key)
	}

	cfg, err := BuildSimulationConfig(params, 2030)
	require.NoError(t, err)
	assert.Equal(t, DefaultSSStartAge, cfg.Person1.Income.SSStartAge)
	assert.Equal(t, DefaultPensionStartAge, cfg.Person2.Income.PensionStartAge)
	assert.Equal(t, 0, cfg.Person1.Income.EmploymentUntilAge)
	assert.True(t, cfg.PreviousYearTaxes.IsZero())
	assert.True(t, cfg.PrimaryHome.GrowthRate.Equal(cfg.InflationRate), "home growth defaults to inflation")
}

func TestBuildSimulationConfigMortgagePercentHeuristic(t *testing.T) {
	params := CreateExampleParameters()
	params["primary_home_mortgage_principal"] = 400000
	params["primary_home_mortgage_rate"] = 6.5
	params["primary_home_mortgage_years"] = 30

	logger := &recordingLogger{}
	parser := NewInputParser()
	parser.SetLogger(logger)

	cfg, err := parser.BuildSimulationConfig(params, DefaultStartYear)
	require.NoError(t, err)
	require.NotNil(t, cfg.PrimaryHome.Mortgage)
	assert.True(t, cfg.PrimaryHome.Mortgage.AnnualRate.Equal(decimal.RequireFromString("0.065")))
	require.Len(t, logger.warnings, 1)
	assert.Contains(t, logger.warnings[0], "primary_home_mortgage_rate")
}

func TestBuildSimulationConfigRentals(t *testing.T) {
	params := CreateExampleParameters()
	params["rental_1_value"] = 500000
	params["rental_1_income"] = 30000
	params["rental_1_mortgage_principal"] = 200000
	params["rental_1_mortgage_rate"] = 0.05
	params["rental_1_mortgage_years"] = 15
	params["rental_2_value"] = 250000
	params["rental_2_growth_rate"] = 0.04
	// Index 4 is unreachable once index 3 is missing.
	params["rental_4_value"] = 999999

	cfg, err := BuildSimulationConfig(params, DefaultStartYear)
	require.NoError(t, err)
	require.Len(t, cfg.Rentals, 2)

	r1, r2 := cfg.Rentals[0], cfg.Rentals[1]
	assert.Equal(t, 1, r1.ID)
	assert.True(t, r1.Income.Equal(decimal.NewFromInt(30000)))
	require.NotNil(t, r1.Mortgage)
	assert.True(t, r1.Mortgage.Years.Equal(decimal.NewFromInt(15)))
	assert.True(t, r1.GrowthRate.Equal(cfg.InflationRate))

	assert.Equal(t, 2, r2.ID)
	assert.True(t, r2.Income.IsZero())
	assert.Nil(t, r2.Mortgage)
	assert.True(t, r2.GrowthRate.Equal(decimal.RequireFromString("0.04")))
}

func TestBuildSimulationConfigRejectsEndBeforeStart(t *testing.T) {
	params := CreateExampleParameters()
	params["end_simulation_age"] = 60
	_, err := BuildSimulationConfig(params, DefaultStartYear)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestMonteCarloSettings(t *testing.T) {
	defaults := MonteCarloSettings(Parameters{})
	assert.Equal(t, DefaultVolatility, defaults.Volatility)
	assert.Equal(t, DefaultSimulations, defaults.NumSimulations)
	assert.Equal(t, int64(0), defaults.Seed)

	set := MonteCarloSettings(Parameters{"volatility": 0.2, "num_simulations": 250, "seed": 42})
	assert.Equal(t, 0.2, set.Volatility)
	assert.Equal(t, 250, set.NumSimulations)
	assert.Equal(t, int64(42), set.Seed)
}
