package core

import (
	"github.com/derisk-research/core/utils"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// PriceSnapshot is an immutable view of asset prices at one instant.
// All computations receive an explicit snapshot; there is no shared
// price cache that could go stale underneath a running batch.
type PriceSnapshot struct {
	prices map[string]decimal.Decimal
}

func NewPriceSnapshot(prices map[string]decimal.Decimal) (*PriceSnapshot, error) {
	copied := make(map[string]decimal.Decimal, len(prices))
	for assetId, price := range prices {
		if !price.IsPositive() {
			return nil, errors.Wrapf(ErrInvalidPrice, "asset %s: %s", assetId, price)
		}
		copied[assetId] = price
	}
	return &PriceSnapshot{prices: copied}, nil
}

func (s *PriceSnapshot) Get(assetId string) (decimal.Decimal, error) {
	price, ok := s.prices[assetId]
	if !ok {
		return decimal.Zero, errors.Wrapf(ErrMissingPrice, "asset %s", assetId)
	}
	return price, nil
}

func (s *PriceSnapshot) Has(assetId string) bool {
	_, ok := s.prices[assetId]
	return ok
}

func (s *PriceSnapshot) Len() int {
	return len(s.prices)
}

func (s *PriceSnapshot) Assets() []string {
	return utils.SortedKeys(s.prices)
}

// WithShock derives a new snapshot with the scenario's multipliers
// applied. Assets absent from the scenario keep their original price.
// The receiver is left untouched.
func (s *PriceSnapshot) WithShock(scenario *ShockScenario) *PriceSnapshot {
	shocked := make(map[string]decimal.Decimal, len(s.prices))
	for assetId, price := range s.prices {
		shocked[assetId] = price.Mul(scenario.Multiplier(assetId))
	}
	return &PriceSnapshot{prices: shocked}
}

// Scale multiplies every price by the same positive constant. Health
// factors are invariant under Scale; it exists for numeraire changes.
func (s *PriceSnapshot) Scale(factor decimal.Decimal) (*PriceSnapshot, error) {
	if !factor.IsPositive() {
		return nil, errors.Wrapf(ErrInvalidPrice, "scale factor %s", factor)
	}
	scaled := make(map[string]decimal.Decimal, len(s.prices))
	for assetId, price := range s.prices {
		scaled[assetId] = price.Mul(factor)
	}
	return &PriceSnapshot{prices: scaled}, nil
}
