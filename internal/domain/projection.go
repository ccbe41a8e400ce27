package domain

import (
	"github.com/shopspring/decimal"
)

// YearRecord is the ledger row for one simulated year. Records are built
// once by the engine and never modified afterwards.
type YearRecord struct {
	Year  int `json:"Year"`
	P1Age int `json:"P1_Age"`
	P2Age int `json:"P2_Age"`

	// Income Sources
	EmploymentP1 decimal.Decimal `json:"Employment_P1"`
	EmploymentP2 decimal.Decimal `json:"Employment_P2"`
	SSP1         decimal.Decimal `json:"SS_P1"`
	SSP2         decimal.Decimal `json:"SS_P2"`
	PensionP1    decimal.Decimal `json:"Pension_P1"`
	PensionP2    decimal.Decimal `json:"Pension_P2"`
	RMDP1        decimal.Decimal `json:"RMD_P1"`
	RMDP2        decimal.Decimal `json:"RMD_P2"`
	RentalIncome decimal.Decimal `json:"Rental_Income"`
	TotalIncome  decimal.Decimal `json:"Total_Income"`

	// Cash Need
	SpendGoal     decimal.Decimal `json:"Spend_Goal"`
	PreviousTaxes decimal.Decimal `json:"Previous_Taxes"`
	CashNeed      decimal.Decimal `json:"Cash_Need"`

	// Withdrawals and Conversions
	WDPretaxP1     decimal.Decimal `json:"WD_PreTax_P1"`
	WDPretaxP2     decimal.Decimal `json:"WD_PreTax_P2"`
	WDTaxable      decimal.Decimal `json:"WD_Taxable"`
	WDRothP1       decimal.Decimal `json:"WD_Roth_P1"`
	WDRothP2       decimal.Decimal `json:"WD_Roth_P2"`
	RothConversion decimal.Decimal `json:"Roth_Conversion"`
	ConvP1         decimal.Decimal `json:"Conv_P1"`
	ConvP2         decimal.Decimal `json:"Conv_P2"`

	// Taxes (the bill is paid in the following year)
	OrdinaryIncome decimal.Decimal `json:"Ord_Income"`
	CapitalGains   decimal.Decimal `json:"Cap_Gains"`
	TaxBill        decimal.Decimal `json:"Tax_Bill"`
	TaxesPaid      decimal.Decimal `json:"Taxes_Paid"`

	// Balances (end of year, clamped at zero)
	BalPretaxP1  decimal.Decimal `json:"Bal_PreTax_P1"`
	BalPretaxP2  decimal.Decimal `json:"Bal_PreTax_P2"`
	BalRothP1    decimal.Decimal `json:"Bal_Roth_P1"`
	BalRothP2    decimal.Decimal `json:"Bal_Roth_P2"`
	BalTaxable   decimal.Decimal `json:"Bal_Taxable"`
	PrimaryHome  decimal.Decimal `json:"Primary_Home"`
	RentalAssets decimal.Decimal `json:"Rental_Assets"`
	NetWorth     decimal.Decimal `json:"Net_Worth"`

	// MarketReturn is the taxable account's realised return in percent.
	MarketReturn decimal.Decimal `json:"Market_Return"`
}

// TotalWithdrawals sums the five account withdrawals (conversions excluded).
func (r YearRecord) TotalWithdrawals() decimal.Decimal {
	return r.WDPretaxP1.Add(r.WDPretaxP2).Add(r.WDTaxable).Add(r.WDRothP1).Add(r.WDRothP2)
}

// RothTotal is the combined Roth balance.
func (r YearRecord) RothTotal() decimal.Decimal { return r.BalRothP1.Add(r.BalRothP2) }

// PretaxTotal is the combined pretax balance.
func (r YearRecord) PretaxTotal() decimal.Decimal { return r.BalPretaxP1.Add(r.BalPretaxP2) }

// LiquidNetWorth is the sum of the investment account balances.
func (r YearRecord) LiquidNetWorth() decimal.Decimal {
	return r.RothTotal().Add(r.PretaxTotal()).Add(r.BalTaxable)
}

// LedgerColumns is the canonical column order of a ledger export.
var LedgerColumns = []string{
	"Year", "P1_Age", "P2_Age",
	"Employment_P1", "Employment_P2", "SS_P1", "SS_P2", "Pension_P1", "Pension_P2",
	"RMD_P1", "RMD_P2", "Rental_Income", "Total_Income",
	"Spend_Goal", "Previous_Taxes", "Cash_Need",
	"WD_PreTax_P1", "WD_PreTax_P2", "WD_Taxable", "WD_Roth_P1", "WD_Roth_P2",
	"Roth_Conversion", "Conv_P1", "Conv_P2",
	"Ord_Income", "Cap_Gains", "Tax_Bill", "Taxes_Paid",
	"Bal_PreTax_P1", "Bal_PreTax_P2", "Bal_Roth_P1", "Bal_Roth_P2", "Bal_Taxable",
	"Primary_Home", "Rental_Assets", "Net_Worth", "Market_Return",
}

// LedgerValues returns the record's values in LedgerColumns order.
func (r YearRecord) LedgerValues() []decimal.Decimal {
	return []decimal.Decimal{
		decimal.NewFromInt(int64(r.Year)), decimal.NewFromInt(int64(r.P1Age)), decimal.NewFromInt(int64(r.P2Age)),
		r.EmploymentP1, r.EmploymentP2, r.SSP1, r.SSP2, r.PensionP1, r.PensionP2,
		r.RMDP1, r.RMDP2, r.RentalIncome, r.TotalIncome,
		r.SpendGoal, r.PreviousTaxes, r.CashNeed,
		r.WDPretaxP1, r.WDPretaxP2, r.WDTaxable, r.WDRothP1, r.WDRothP2,
		r.RothConversion, r.ConvP1, r.ConvP2,
		r.OrdinaryIncome, r.CapitalGains, r.TaxBill, r.TaxesPaid,
		r.BalPretaxP1, r.BalPretaxP2, r.BalRothP1, r.BalRothP2, r.BalTaxable,
		r.PrimaryHome, r.RentalAssets, r.NetWorth, r.MarketReturn,
	}
}

// LedgerRow renders the record in LedgerColumns order. Money is shown in
// whole dollars; the market return keeps two decimals.
func (r YearRecord) LedgerRow() []string {
	values := r.LedgerValues()
	last := len(values) - 1
	row := make([]string, len(values))
	for i, v := range values {
		if i == last {
			row[i] = v.StringFixed(2)
		} else {
			row[i] = v.StringFixed(0)
		}
	}
	return row
}

// RunResult is the ordered ledger of one simulation run.
type RunResult []YearRecord

// Final returns the last record, or false for an empty run.
func (rr RunResult) Final() (YearRecord, bool) {
	if len(rr) == 0 {
		return YearRecord{}, false
	}
	return rr[len(rr)-1], true
}

// FinalNetWorth is the last year's net worth, zero for an empty run.
func (rr RunResult) FinalNetWorth() decimal.Decimal {
	last, ok := rr.Final()
	if !ok {
		return decimal.Zero
	}
	return last.NetWorth
}

// Scenario is one labelled strategy run.
type Scenario struct {
	Name     string    `json:"name"`
	Strategy string    `json:"strategy"`
	Records  RunResult `json:"results"`
}

// ScenarioComparison holds the side-by-side ledgers of the built-in strategies.
type ScenarioComparison struct {
	Config    *SimulationConfig `json:"config"`
	Scenarios []Scenario        `json:"scenarios"`
}

// Scenario looks up a scenario by strategy name.
func (sc *ScenarioComparison) Scenario(strategy string) (*Scenario, bool) {
	for i := range sc.Scenarios {
		if sc.Scenarios[i].Strategy == strategy {
			return &sc.Scenarios[i], true
		}
	}
	return nil, false
}
