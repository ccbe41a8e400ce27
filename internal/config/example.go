package config

// CreateExampleParameters returns the reference household: a 65/61 couple,
// both still working, with $3.32M across taxable, pretax and Roth accounts
// and a $200k spending goal through age 95.
func CreateExampleParameters() Parameters {
	return Parameters{
		"p1_start_age":            65,
		"p2_start_age":            61,
		"end_simulation_age":      95,
		"inflation_rate":          0.03,
		"annual_spend_goal":       200000,
		"target_tax_bracket_rate": 0.24,
		"previous_year_taxes":     0,

		"p1_employment_income":    150000,
		"p1_employment_until_age": 67,
		"p2_employment_income":    150000,
		"p2_employment_until_age": 65,
		"p1_ss_amount":            45000,
		"p1_ss_start_age":         70,
		"p2_ss_amount":            45000,
		"p2_ss_start_age":         65,
		"p1_pension":              0,
		"p1_pension_start_age":    67,
		"p2_pension":              0,
		"p2_pension_start_age":    65,

		"bal_taxable":   700000,
		"bal_pretax_p1": 1250000,
		"bal_pretax_p2": 1250000,
		"bal_roth_p1":   60000,
		"bal_roth_p2":   60000,

		"growth_rate_taxable":   0.07,
		"growth_rate_pretax_p1": 0.07,
		"growth_rate_pretax_p2": 0.07,
		"growth_rate_roth_p1":   0.07,
		"growth_rate_roth_p2":   0.07,
		"taxable_basis_ratio":   0.75,

		"primary_home_value":              0,
		"primary_home_growth_rate":        0.03,
		"primary_home_mortgage_principal": 0,
		"primary_home_mortgage_rate":      0,
		"primary_home_mortgage_years":     0,
	}
}
