package core

import (
	"github.com/derisk-research/core/utils"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ShockScenario maps assets to synthetic price multipliers. Scenarios
// are validated on construction and immutable afterwards, so a run can
// never start with a malformed shock.
type ShockScenario struct {
	name        string
	multipliers map[string]decimal.Decimal
}

func NewShockScenario(name string, multipliers map[string]decimal.Decimal) (*ShockScenario, error) {
	copied := make(map[string]decimal.Decimal, len(multipliers))
	for assetId, multiplier := range multipliers {
		if !multiplier.IsPositive() {
			return nil, errors.Wrapf(ErrInvalidShock, "scenario %s, asset %s: %s", name, assetId, multiplier)
		}
		copied[assetId] = multiplier
	}
	return &ShockScenario{name: name, multipliers: copied}, nil
}

// IdentityScenario shocks nothing; running it must reproduce the
// unshocked report exactly.
func IdentityScenario(name string) *ShockScenario {
	return &ShockScenario{name: name, multipliers: map[string]decimal.Decimal{}}
}

func (s *ShockScenario) Name() string {
	return s.name
}

// Multiplier returns the shock for the asset, 1 when the asset is not
// part of the scenario.
func (s *ShockScenario) Multiplier(assetId string) decimal.Decimal {
	if multiplier, ok := s.multipliers[assetId]; ok {
		return multiplier
	}
	return ONE
}

func (s *ShockScenario) Assets() []string {
	return utils.SortedKeys(s.multipliers)
}

// ComposeScenarios folds several scenarios into one by multiplying the
// per-asset multipliers, for cumulative steps of a cascade chain.
func ComposeScenarios(name string, scenarios ...*ShockScenario) *ShockScenario {
	composed := map[string]decimal.Decimal{}
	for _, scenario := range scenarios {
		for assetId, multiplier := range scenario.multipliers {
			if existing, ok := composed[assetId]; ok {
				composed[assetId] = existing.Mul(multiplier)
			} else {
				composed[assetId] = multiplier
			}
		}
	}
	return &ShockScenario{name: name, multipliers: composed}
}
