package core

import (
	"github.com/shopspring/decimal"
)

// HealthResult is the per-position output of the risk model. When the
// position carries no debt the health factor is meaningless and NoDebt
// marks the position as safe regardless of collateral.
type HealthResult struct {
	AccountId string     `json:"accountId"`
	Protocol  ProtocolId `json:"protocol"`

	HealthFactor decimal.Decimal `json:"healthFactor"`
	NoDebt       bool            `json:"noDebt"`

	CollateralValue   decimal.Decimal `json:"collateralValue"`
	WeightedValue     decimal.Decimal `json:"weightedValue"`
	DebtValue         decimal.Decimal `json:"debtValue"`
	LiquidatableValue decimal.Decimal `json:"liquidatableValue"`
}

func (h *HealthResult) IsLiquidatable() bool {
	return !h.NoDebt && h.HealthFactor.LessThan(ONE)
}

// RiskEngine computes per-position health. It holds configuration only;
// every computation is a pure function of its arguments.
type RiskEngine struct {
	requirementType   RequirementType
	thresholdOverride *decimal.Decimal
	formulas          map[ProtocolId]RiskFormula
}

type EngineOptFunc func(engine *RiskEngine)

func WithRequirementType(requirementType RequirementType) EngineOptFunc {
	return func(engine *RiskEngine) {
		engine.requirementType = requirementType
	}
}

// WithThresholdOverride replaces every per-asset liquidation threshold
// with a flat weight, for what-if threshold tuning.
func WithThresholdOverride(threshold decimal.Decimal) EngineOptFunc {
	return func(engine *RiskEngine) {
		engine.thresholdOverride = &threshold
	}
}

func WithFormula(protocol ProtocolId, formula RiskFormula) EngineOptFunc {
	return func(engine *RiskEngine) {
		engine.formulas[protocol] = formula
	}
}

func NewRiskEngine(opts ...EngineOptFunc) *RiskEngine {
	engine := &RiskEngine{
		requirementType: Maintenance,
		formulas:        map[ProtocolId]RiskFormula{},
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

func (e *RiskEngine) FormulaFor(protocol ProtocolId) RiskFormula {
	if formula, ok := e.formulas[protocol]; ok {
		return formula
	}
	return StandardFormula{}
}

// ComputeHealth values the position under the snapshot and returns its
// health factor. Positions with no debt (including empty positions)
// come back with the NoDebt sentinel set.
func (e *RiskEngine) ComputeHealth(position *Position, prices *PriceSnapshot) (*HealthResult, error) {
	if err := position.Validate(); err != nil {
		return nil, err
	}

	weighted, collateral, debt, err := e.FormulaFor(position.Protocol).HealthComponents(position, prices, e.requirementType, e.thresholdOverride)
	if err != nil {
		return nil, err
	}

	result := &HealthResult{
		AccountId:         position.AccountId,
		Protocol:          position.Protocol,
		CollateralValue:   collateral,
		WeightedValue:     weighted,
		DebtValue:         debt,
		LiquidatableValue: decimal.Zero,
	}

	if debt.LessThanOrEqual(ZERO_AMOUNT_THRESHOLD) {
		result.NoDebt = true
		return result, nil
	}

	result.HealthFactor = weighted.Div(debt)
	if result.HealthFactor.LessThan(ONE) {
		result.LiquidatableValue = collateral
	}
	return result, nil
}
