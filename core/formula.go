package core

import (
	"github.com/shopspring/decimal"
)

// RiskFormula computes the valuation components a protocol uses for
// solvency checks. Protocols with non-standard accounting register
// their own implementation; everything else uses StandardFormula.
type RiskFormula interface {
	// HealthComponents returns the risk-weighted collateral value, the
	// unweighted collateral value and the debt value of the position
	// under the given prices.
	HealthComponents(position *Position, prices *PriceSnapshot, requirementType RequirementType, thresholdOverride *decimal.Decimal) (weighted, collateral, debt decimal.Decimal, err error)
}

// StandardFormula values collateral at amount x price x weight and debt
// at amount x price, the accounting shared by zkLend-style protocols.
type StandardFormula struct{}

func (StandardFormula) HealthComponents(position *Position, prices *PriceSnapshot, requirementType RequirementType, thresholdOverride *decimal.Decimal) (decimal.Decimal, decimal.Decimal, decimal.Decimal, error) {
	weighted := decimal.Zero
	collateral := decimal.Zero
	debt := decimal.Zero

	for assetId, amount := range position.Collateral {
		price, err := prices.Get(assetId)
		if err != nil {
			return decimal.Zero, decimal.Zero, decimal.Zero, err
		}
		if !price.IsPositive() {
			return decimal.Zero, decimal.Zero, decimal.Zero, ErrInvalidPrice
		}

		weight := requirementType.GetCollateralWeight(position.RiskParams[assetId])
		if thresholdOverride != nil {
			weight = *thresholdOverride
		}

		value := amount.Mul(price)
		collateral = collateral.Add(value)
		weighted = weighted.Add(value.Mul(weight))
	}

	for assetId, amount := range position.Debt {
		price, err := prices.Get(assetId)
		if err != nil {
			return decimal.Zero, decimal.Zero, decimal.Zero, err
		}
		if !price.IsPositive() {
			return decimal.Zero, decimal.Zero, decimal.Zero, ErrInvalidPrice
		}
		debt = debt.Add(amount.Mul(price))
	}

	return weighted, collateral, debt, nil
}
