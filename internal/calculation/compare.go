package calculation

import (
	"context"
	"fmt"

	"github.com/rpgo/household-sim/internal/domain"
)

// scenarioNames are the display labels of the built-in strategies.
var scenarioNames = map[StrategyKind]string{
	StrategyStandard:     "Standard (Pre-tax First)",
	StrategyTaxableFirst: "Taxable First",
}

// ScenarioName returns the display label for a strategy.
func ScenarioName(kind StrategyKind) string {
	if name, ok := scenarioNames[kind]; ok {
		return name
	}
	return string(kind)
}

// RunScenario runs one deterministic projection for the named strategy.
func (se *SimulationEngine) RunScenario(ctx context.Context, cfg *domain.SimulationConfig, strategyName string) (*domain.Scenario, error) {
	strategy, err := NewWithdrawalStrategy(strategyName)
	if err != nil {
		return nil, err
	}
	records, err := se.Run(ctx, cfg, strategy, FixedMarket{})
	if err != nil {
		return nil, fmt.Errorf("failed to run %s scenario: %w", strategy.Kind(), err)
	}
	return &domain.Scenario{
		Name:     ScenarioName(strategy.Kind()),
		Strategy: string(strategy.Kind()),
		Records:  records,
	}, nil
}

// RunComparison runs every built-in strategy deterministically over the same
// configuration so their ledgers can be compared side by side.
func (se *SimulationEngine) RunComparison(ctx context.Context, cfg *domain.SimulationConfig) (*domain.ScenarioComparison, error) {
	comparison := &domain.ScenarioComparison{Config: cfg}
	for _, kind := range StrategyKinds() {
		scenario, err := se.RunScenario(ctx, cfg, string(kind))
		if err != nil {
			return nil, err
		}
		se.log().Infof("%s: final net worth %s after %d years", scenario.Name,
			scenario.Records.FinalNetWorth().StringFixed(0), len(scenario.Records))
		comparison.Scenarios = append(comparison.Scenarios, *scenario)
	}
	return comparison, nil
}
