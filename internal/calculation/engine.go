package calculation

import (
	"context"
	"errors"
	"fmt"

	"github.com/rpgo/household-sim/internal/domain"
	"github.com/rpgo/household-sim/pkg/money"
	"github.com/shopspring/decimal"
)

// ErrInvalidConfig is returned when a configuration cannot be simulated at all.
var ErrInvalidConfig = errors.New("invalid simulation configuration")

var (
	rentalYieldBase    = decimal.NewFromInt(500000)
	rentalMonthlyYield = decimal.NewFromInt(2000)
	hundred            = decimal.NewFromInt(100)
	one                = decimal.NewFromInt(1)
)

// SimulationEngine runs the year-by-year household projection.
type SimulationEngine struct {
	TaxCalc *TaxCalculator
	Debug   bool // Log a per-year breakdown at debug level
	Logger  Logger
}

// NewSimulationEngine creates an engine over the default tax schedule.
func NewSimulationEngine() *SimulationEngine {
	return &SimulationEngine{
		TaxCalc: NewTaxCalculator(),
		Logger:  NopLogger{},
	}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (se *SimulationEngine) SetLogger(l Logger) {
	if l == nil {
		se.Logger = NopLogger{}
		return
	}
	se.Logger = l
}

func (se *SimulationEngine) log() Logger {
	if se.Logger == nil {
		return NopLogger{}
	}
	return se.Logger
}

// rentalState is the mutable per-run view of a rental property.
type rentalState struct {
	id               int
	value            decimal.Decimal
	income           decimal.Decimal
	growthRate       decimal.Decimal
	incomeGrowthRate decimal.Decimal
	mortgage         *Mortgage
}

// runState owns every value that changes from one simulated year to the next.
type runState struct {
	year           int
	p1Age          int
	p2Age          int
	balances       domain.AccountBalances
	homeValue      decimal.Decimal
	homeMortgage   *Mortgage
	rentals        []rentalState
	inflationIndex decimal.Decimal
	previousTaxes  decimal.Decimal
}

func newRunState(cfg *domain.SimulationConfig) *runState {
	st := &runState{
		year:           cfg.StartYear,
		p1Age:          cfg.Person1.StartAge,
		p2Age:          cfg.Person2.StartAge,
		balances:       cfg.Balances,
		homeValue:      cfg.PrimaryHome.Value,
		inflationIndex: one,
		previousTaxes:  cfg.PreviousYearTaxes,
	}
	if cfg.PrimaryHome.Mortgage.HasLoan() {
		st.homeMortgage = NewMortgage("primary_home", *cfg.PrimaryHome.Mortgage)
	}
	for _, r := range cfg.Rentals {
		rs := rentalState{
			id:               r.ID,
			value:            r.Value,
			income:           r.Income,
			growthRate:       r.GrowthRate,
			incomeGrowthRate: r.IncomeGrowthRate,
		}
		if r.Mortgage.HasLoan() {
			rs.mortgage = NewMortgage(fmt.Sprintf("rental_%d", r.ID), *r.Mortgage)
		}
		st.rentals = append(st.rentals, rs)
	}
	return st
}

// mortgages returns every loan of the household, primary home first.
func (st *runState) mortgages() []*Mortgage {
	var out []*Mortgage
	if st.homeMortgage != nil {
		out = append(out, st.homeMortgage)
	}
	for i := range st.rentals {
		if st.rentals[i].mortgage != nil {
			out = append(out, st.rentals[i].mortgage)
		}
	}
	return out
}

// Run simulates from the configured start ages until person 1 passes the end
// age. Each iteration grows accounts and property, recognises income and
// RMDs, services mortgages, executes the strategy and computes the tax bill
// that is paid out of the following year's cash need.
func (se *SimulationEngine) Run(ctx context.Context, cfg *domain.SimulationConfig, strategy WithdrawalStrategy, market MarketModel) (domain.RunResult, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil configuration", ErrInvalidConfig)
	}
	if strategy == nil {
		return nil, fmt.Errorf("%w: nil withdrawal strategy", ErrInvalidConfig)
	}
	if cfg.EndAge < cfg.Person1.StartAge {
		return nil, fmt.Errorf("%w: end_simulation_age %d is before p1_start_age %d", ErrInvalidConfig, cfg.EndAge, cfg.Person1.StartAge)
	}
	if market == nil {
		market = FixedMarket{}
	}
	st := newRunState(cfg)
	records := make(domain.RunResult, 0, cfg.Years())

	for st.p1Age <= cfg.EndAge {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		perturbation, err := market.NextPerturbation()
		if err != nil {
			return nil, fmt.Errorf("year %d: %w", st.year+1, err)
		}
		records = append(records, se.simulateYear(cfg, st, strategy, perturbation))
	}

	return records, nil
}

func (se *SimulationEngine) simulateYear(cfg *domain.SimulationConfig, st *runState, strategy WithdrawalStrategy, perturbation decimal.Decimal) domain.YearRecord {
	st.year++

	// 1. Account growth, one shared market draw
	marketReturn := cfg.GrowthRates.Taxable.Add(perturbation)
	st.balances.Taxable = grow(st.balances.Taxable, cfg.GrowthRates.Taxable.Add(perturbation))
	st.balances.PretaxP1 = grow(st.balances.PretaxP1, cfg.GrowthRates.PretaxP1.Add(perturbation))
	st.balances.PretaxP2 = grow(st.balances.PretaxP2, cfg.GrowthRates.PretaxP2.Add(perturbation))
	st.balances.RothP1 = grow(st.balances.RothP1, cfg.GrowthRates.RothP1.Add(perturbation))
	st.balances.RothP2 = grow(st.balances.RothP2, cfg.GrowthRates.RothP2.Add(perturbation))

	// 2. Real estate
	st.homeValue = grow(st.homeValue, cfg.PrimaryHome.GrowthRate)
	rentalIncome, rentalValue := st.growRentals()

	// 3. Income sources and RMDs
	p1, p2 := cfg.Person1.Income, cfg.Person2.Income
	income := IncomeSources{
		EmploymentP1: activeWhile(st.p1Age < p1.EmploymentUntilAge, p1.EmploymentIncome, st.inflationIndex),
		EmploymentP2: activeWhile(st.p2Age < p2.EmploymentUntilAge, p2.EmploymentIncome, st.inflationIndex),
		RMDP1:        CalculateRMD(st.balances.PretaxP1, st.p1Age),
		RMDP2:        CalculateRMD(st.balances.PretaxP2, st.p2Age),
	}
	ssP1 := activeWhile(st.p1Age >= p1.SSStartAge, p1.SSAmount, st.inflationIndex)
	ssP2 := activeWhile(st.p2Age >= p2.SSStartAge, p2.SSAmount, st.inflationIndex)
	pensionP1 := activeWhile(st.p1Age >= p1.PensionStartAge, p1.Pension, st.inflationIndex)
	pensionP2 := activeWhile(st.p2Age >= p2.PensionStartAge, p2.Pension, st.inflationIndex)
	income.SocialSecurity = ssP1.Add(ssP2)
	income.Pension = pensionP1.Add(pensionP2)

	// 4. Mortgages and cash need
	mortgagePayments := decimal.Zero
	for _, m := range st.mortgages() {
		if !m.PaidOff() {
			mortgagePayments = mortgagePayments.Add(m.Advance(12))
		}
	}
	spendGoal := cfg.AnnualSpendGoal.Mul(st.inflationIndex)
	previousTaxes := st.previousTaxes
	cashNeed := spendGoal.Add(mortgagePayments).Add(previousTaxes)

	// 5. Strategy
	res := strategy.Execute(StrategyInput{
		P1Age:             st.p1Age,
		P2Age:             st.p2Age,
		CashNeed:          cashNeed,
		Balances:          st.balances,
		Income:            income,
		InflationIndex:    st.inflationIndex,
		TargetBracketRate: cfg.TargetTaxBracketRate,
	})

	st.balances.PretaxP1 = st.balances.PretaxP1.Sub(income.RMDP1).Sub(res.WDPretaxP1).Sub(res.ConvP1)
	st.balances.PretaxP2 = st.balances.PretaxP2.Sub(income.RMDP2).Sub(res.WDPretaxP2).Sub(res.ConvP2)
	st.balances.RothP1 = st.balances.RothP1.Add(res.ConvP1).Sub(res.WDRothP1)
	st.balances.RothP2 = st.balances.RothP2.Add(res.ConvP2).Sub(res.WDRothP2)
	st.balances.Taxable = st.balances.Taxable.Sub(res.WDTaxable)

	// 6. Taxes, paid next year
	ordinaryIncome := money.Sum(income.Automatic(), res.WDPretaxP1, res.WDPretaxP2, res.RothConversion(), rentalIncome)
	capitalGains := res.WDTaxable.Mul(one.Sub(cfg.TaxableBasisRatio))
	taxBill := se.TaxCalc.CalculateTax(ordinaryIncome, capitalGains, st.inflationIndex)
	st.previousTaxes = taxBill.Round(compoundPrecision)

	// 7. Record
	clamped := st.balances.Clamped()
	realEstate := money.NonNegative(st.homeValue).Add(money.NonNegative(rentalValue))
	netWorth := clamped.Total().Add(realEstate)

	record := domain.YearRecord{
		Year:  st.year,
		P1Age: st.p1Age,
		P2Age: st.p2Age,

		EmploymentP1: money.Cents(income.EmploymentP1),
		EmploymentP2: money.Cents(income.EmploymentP2),
		SSP1:         money.Cents(ssP1),
		SSP2:         money.Cents(ssP2),
		PensionP1:    money.Cents(pensionP1),
		PensionP2:    money.Cents(pensionP2),
		RMDP1:        money.Cents(income.RMDP1),
		RMDP2:        money.Cents(income.RMDP2),
		RentalIncome: money.Cents(rentalIncome),
		TotalIncome:  money.Cents(income.Automatic().Add(rentalIncome)),

		SpendGoal:     money.Cents(spendGoal),
		PreviousTaxes: money.Cents(previousTaxes),
		CashNeed:      money.Cents(cashNeed),

		WDPretaxP1:     money.Cents(res.WDPretaxP1),
		WDPretaxP2:     money.Cents(res.WDPretaxP2),
		WDTaxable:      money.Cents(res.WDTaxable),
		WDRothP1:       money.Cents(res.WDRothP1),
		WDRothP2:       money.Cents(res.WDRothP2),
		RothConversion: money.Cents(res.RothConversion()),
		ConvP1:         money.Cents(res.ConvP1),
		ConvP2:         money.Cents(res.ConvP2),

		OrdinaryIncome: money.Cents(ordinaryIncome),
		CapitalGains:   money.Cents(capitalGains),
		TaxBill:        money.Cents(taxBill),
		TaxesPaid:      decimal.Zero,

		BalPretaxP1:  money.Cents(clamped.PretaxP1),
		BalPretaxP2:  money.Cents(clamped.PretaxP2),
		BalRothP1:    money.Cents(clamped.RothP1),
		BalRothP2:    money.Cents(clamped.RothP2),
		BalTaxable:   money.Cents(clamped.Taxable),
		PrimaryHome:  money.Cents(money.NonNegative(st.homeValue)),
		RentalAssets: money.Cents(money.NonNegative(rentalValue)),
		NetWorth:     money.Cents(netWorth),
		MarketReturn: marketReturn.Mul(hundred).Round(2),
	}

	if se.Debug {
		se.log().Debugf("%d ages %d/%d: need=%s income=%s wd=%s conv=%s tax=%s net_worth=%s",
			record.Year, record.P1Age, record.P2Age,
			record.CashNeed.StringFixed(0), record.TotalIncome.StringFixed(0),
			res.TotalWithdrawals().StringFixed(0), record.RothConversion.StringFixed(0),
			record.TaxBill.StringFixed(0), record.NetWorth.StringFixed(0))
	}

	// 8. Advance
	st.p1Age++
	st.p2Age++
	st.inflationIndex = grow(st.inflationIndex, cfg.InflationRate)

	return record
}

// growRentals applies value growth to every rental and returns this year's
// total rental income and total rental value.
func (st *runState) growRentals() (income, value decimal.Decimal) {
	income, value = decimal.Zero, decimal.Zero
	for i := range st.rentals {
		r := &st.rentals[i]
		r.value = grow(r.value, r.growthRate)
		value = value.Add(r.value)

		if r.income.IsZero() {
			// Declared income absent: rent is $2,000/month per $500k of value.
			if r.value.IsPositive() {
				income = income.Add(money.Annual(r.value.Div(rentalYieldBase).Mul(rentalMonthlyYield)))
			}
			continue
		}
		r.income = grow(r.income, r.incomeGrowthRate)
		income = income.Add(r.income)
	}
	return income, value
}

// grow applies one period of growth at rate. The result is rounded to
// compoundPrecision places, as compound does for loan factors, so values
// carried across years keep a bounded number of digits.
func grow(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(one.Add(rate)).Round(compoundPrecision)
}

// activeWhile returns amount scaled by the inflation index when active, else zero.
func activeWhile(active bool, amount, inflationIndex decimal.Decimal) decimal.Decimal {
	if !active {
		return decimal.Zero
	}
	return amount.Mul(inflationIndex)
}
