package calculation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rpgo/household-sim/internal/domain"
	"github.com/rpgo/household-sim/pkg/money"
	"github.com/shopspring/decimal"
)

// StrategyKind names a built-in withdrawal strategy.
type StrategyKind string

const (
	// StrategyStandard draws pretax, then taxable, then Roth.
	StrategyStandard StrategyKind = "standard"
	// StrategyTaxableFirst draws taxable, then Roth, then pretax.
	StrategyTaxableFirst StrategyKind = "taxable_first"
)

// ErrUnknownStrategy is returned for a strategy name that is not built in.
var ErrUnknownStrategy = errors.New("unknown withdrawal strategy")

// StrategyKinds lists the built-in strategies in display order.
func StrategyKinds() []StrategyKind {
	return []StrategyKind{StrategyStandard, StrategyTaxableFirst}
}

// IncomeSources is the automatic (non-discretionary) income of a year.
type IncomeSources struct {
	EmploymentP1   decimal.Decimal
	EmploymentP2   decimal.Decimal
	SocialSecurity decimal.Decimal
	Pension        decimal.Decimal
	RMDP1          decimal.Decimal
	RMDP2          decimal.Decimal
}

// Automatic is employment + Social Security + pension + RMDs.
func (is IncomeSources) Automatic() decimal.Decimal {
	return money.Sum(is.EmploymentP1, is.EmploymentP2, is.SocialSecurity, is.Pension, is.RMDP1, is.RMDP2)
}

// StrategyInput is everything a strategy may look at for one year.
type StrategyInput struct {
	P1Age             int
	P2Age             int
	CashNeed          decimal.Decimal
	Balances          domain.AccountBalances
	Income            IncomeSources
	InflationIndex    decimal.Decimal
	TargetBracketRate decimal.Decimal
}

// p1IsOlder reports whether person 1 is drawn first; ties favour person 1.
func (in StrategyInput) p1IsOlder() bool { return in.P1Age >= in.P2Age }

// StrategyResult holds one year's withdrawals and Roth conversions.
type StrategyResult struct {
	WDPretaxP1 decimal.Decimal
	WDPretaxP2 decimal.Decimal
	WDTaxable  decimal.Decimal
	WDRothP1   decimal.Decimal
	WDRothP2   decimal.Decimal
	ConvP1     decimal.Decimal
	ConvP2     decimal.Decimal
}

// RothConversion is the total converted this year.
func (sr StrategyResult) RothConversion() decimal.Decimal { return sr.ConvP1.Add(sr.ConvP2) }

// TotalWithdrawals sums the cash withdrawn from all accounts.
func (sr StrategyResult) TotalWithdrawals() decimal.Decimal {
	return money.Sum(sr.WDPretaxP1, sr.WDPretaxP2, sr.WDTaxable, sr.WDRothP1, sr.WDRothP2)
}

// WithdrawalStrategy decides how a year's cash need is funded and how much
// pretax money is converted to Roth.
type WithdrawalStrategy interface {
	Kind() StrategyKind
	Execute(in StrategyInput) StrategyResult
}

// NewWithdrawalStrategy resolves a strategy by name ("standard" or "taxable_first").
func NewWithdrawalStrategy(name string) (WithdrawalStrategy, error) {
	switch StrategyKind(strings.ToLower(strings.TrimSpace(name))) {
	case StrategyStandard, "":
		return StandardStrategy{}, nil
	case StrategyTaxableFirst:
		return TaxableFirstStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// StandardStrategy spends pretax money first (older spouse first), then the
// taxable account, then Roth (person 1 then person 2), and finally fills the
// target bracket with Roth conversions.
type StandardStrategy struct{}

func (StandardStrategy) Kind() StrategyKind { return StrategyStandard }

func (StandardStrategy) Execute(in StrategyInput) StrategyResult {
	res := zeroResult()
	b := in.Balances.Clamped()
	shortfall := in.CashNeed.Sub(in.Income.Automatic())

	if shortfall.IsPositive() {
		shortfall = drawPretax(in, b, &res, shortfall)

		res.WDTaxable = money.Take(shortfall, b.Taxable)
		shortfall = shortfall.Sub(res.WDTaxable)

		res.WDRothP1 = money.Take(shortfall, b.RothP1)
		shortfall = shortfall.Sub(res.WDRothP1)

		res.WDRothP2 = money.Take(shortfall, b.RothP2)
	}

	fillBracketWithConversions(in, b, &res)
	return res
}

// TaxableFirstStrategy treats RMDs as mandatory income, spends the taxable
// account first, then Roth, then pretax, keeping pretax money available for
// bracket-filling conversions.
type TaxableFirstStrategy struct{}

func (TaxableFirstStrategy) Kind() StrategyKind { return StrategyTaxableFirst }

func (TaxableFirstStrategy) Execute(in StrategyInput) StrategyResult {
	res := zeroResult()
	b := in.Balances.Clamped()
	remaining := money.NonNegative(in.CashNeed.Sub(in.Income.Automatic()))

	res.WDTaxable = money.Take(remaining, b.Taxable)
	remaining = remaining.Sub(res.WDTaxable)

	res.WDRothP1 = money.Take(remaining, b.RothP1)
	remaining = remaining.Sub(res.WDRothP1)

	res.WDRothP2 = money.Take(remaining, b.RothP2)
	remaining = remaining.Sub(res.WDRothP2)

	if remaining.IsPositive() {
		drawPretax(in, b, &res, remaining)
	}

	fillBracketWithConversions(in, b, &res)
	return res
}

func zeroResult() StrategyResult {
	return StrategyResult{
		WDPretaxP1: decimal.Zero,
		WDPretaxP2: decimal.Zero,
		WDTaxable:  decimal.Zero,
		WDRothP1:   decimal.Zero,
		WDRothP2:   decimal.Zero,
		ConvP1:     decimal.Zero,
		ConvP2:     decimal.Zero,
	}
}

// drawPretax takes up to need from the pretax accounts net of each owner's
// RMD, older spouse first, and returns the need left over.
func drawPretax(in StrategyInput, b domain.AccountBalances, res *StrategyResult, need decimal.Decimal) decimal.Decimal {
	availP1 := money.NonNegative(b.PretaxP1.Sub(in.Income.RMDP1))
	availP2 := money.NonNegative(b.PretaxP2.Sub(in.Income.RMDP2))

	if in.p1IsOlder() {
		res.WDPretaxP1 = money.Take(need, availP1)
		need = need.Sub(res.WDPretaxP1)
		res.WDPretaxP2 = money.Take(need, availP2)
		return need.Sub(res.WDPretaxP2)
	}
	res.WDPretaxP2 = money.Take(need, availP2)
	need = need.Sub(res.WDPretaxP2)
	res.WDPretaxP1 = money.Take(need, availP1)
	return need.Sub(res.WDPretaxP1)
}

// fillBracketWithConversions converts pretax money to Roth up to the top of
// the target bracket, older spouse's pretax pool first. Only pretax money
// left after RMDs and this year's pretax withdrawals can be converted.
func fillBracketWithConversions(in StrategyInput, b domain.AccountBalances, res *StrategyResult) {
	ordinary := money.Sum(
		in.Income.EmploymentP1, in.Income.EmploymentP2, in.Income.SocialSecurity, in.Income.Pension,
		in.Income.RMDP1, in.Income.RMDP2, res.WDPretaxP1, res.WDPretaxP2,
	)
	room := BracketRoom(ordinary, in.InflationIndex, in.TargetBracketRate)

	leftP1 := money.NonNegative(b.PretaxP1.Sub(in.Income.RMDP1).Sub(res.WDPretaxP1))
	leftP2 := money.NonNegative(b.PretaxP2.Sub(in.Income.RMDP2).Sub(res.WDPretaxP2))
	if !room.IsPositive() || !leftP1.Add(leftP2).IsPositive() {
		return
	}

	amount := money.Min(room, leftP1.Add(leftP2))
	if in.p1IsOlder() {
		res.ConvP1 = money.Min(amount, leftP1)
		res.ConvP2 = money.Min(amount.Sub(res.ConvP1), leftP2)
		return
	}
	res.ConvP2 = money.Min(amount, leftP2)
	res.ConvP1 = money.Min(amount.Sub(res.ConvP2), leftP1)
}
