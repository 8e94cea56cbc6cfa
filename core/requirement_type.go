package core

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type RequirementType uint8

const (
	Initial RequirementType = iota
	Maintenance
	Equity
)

func (rt RequirementType) String() string {
	switch rt {
	case Initial:
		return "Initial"
	case Maintenance:
		return "Maintenance"
	case Equity:
		return "Equity"
	default:
		return "Unknown"
	}
}

func ParseRequirementType(s string) (RequirementType, error) {
	switch s {
	case "initial":
		return Initial, nil
	case "maintenance":
		return Maintenance, nil
	case "equity":
		return Equity, nil
	default:
		return Maintenance, errors.Wrapf(InvalidConfig, "requirement type %q", s)
	}
}

// GetCollateralWeight selects the collateral weight for the requirement
// level: the collateral factor when opening positions, the liquidation
// threshold when checking solvency, and 1 for raw equity valuation.
func (rt RequirementType) GetCollateralWeight(params RiskParams) decimal.Decimal {
	switch rt {
	case Initial:
		return params.CollateralFactor
	case Maintenance:
		return params.LiquidationThreshold
	case Equity:
		return ONE
	default:
		return decimal.Zero
	}
}
