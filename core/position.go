package core

import (
	"context"

	"github.com/derisk-research/core/utils"
	"github.com/facebookgo/clock"
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProtocolId string

const (
	ProtocolZkLend    ProtocolId = "zklend"
	ProtocolNostra    ProtocolId = "nostra"
	ProtocolHashstack ProtocolId = "hashstack"
)

func (p ProtocolId) String() string {
	return string(p)
}

type (
	PositionStore interface {
		GetPosition(ctx context.Context, accountId string, protocol ProtocolId) (*Position, error)
		ListPositions(ctx context.Context, protocol ProtocolId) ([]*Position, error)
		UpsertPosition(ctx context.Context, position *Position) error
	}

	// Position is a read-only snapshot of one account's collateral and
	// debt on one protocol. The core never mutates a position after load.
	Position struct {
		Id        uuid.UUID  `json:"id"`
		AccountId string     `json:"accountId"`
		Protocol  ProtocolId `json:"protocol"`

		Collateral map[string]decimal.Decimal `json:"collateral"`
		Debt       map[string]decimal.Decimal `json:"debt"`
		RiskParams map[string]RiskParams      `json:"riskParams"`

		LastUpdate int64 `json:"lastUpdate"`
	}

	RiskParams struct {
		CollateralFactor     decimal.Decimal `json:"collateralFactor"`
		LiquidationThreshold decimal.Decimal `json:"liquidationThreshold"`
	}
)

func NewPosition(clk clock.Clock, accountId string, protocol ProtocolId) *Position {
	return &Position{
		Id:         uuid.Must(uuid.FromString(utils.GenUuidFromStrings(accountId, protocol.String()))),
		AccountId:  accountId,
		Protocol:   protocol,
		Collateral: map[string]decimal.Decimal{},
		Debt:       map[string]decimal.Decimal{},
		RiskParams: map[string]RiskParams{},
		LastUpdate: clk.Now().Unix(),
	}
}

func FindOrCreatePosition(ctx context.Context, clk clock.Clock, store PositionStore, accountId string, protocol ProtocolId) (*Position, error) {
	position, err := store.GetPosition(ctx, accountId, protocol)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			position = NewPosition(clk, accountId, protocol)
			if err = store.UpsertPosition(ctx, position); err != nil {
				return nil, err
			}
			return position, nil
		}
		return nil, err
	}
	return position, nil
}

func (p *Position) Clone() *Position {
	clone := &Position{
		Id:         p.Id,
		AccountId:  p.AccountId,
		Protocol:   p.Protocol,
		Collateral: make(map[string]decimal.Decimal, len(p.Collateral)),
		Debt:       make(map[string]decimal.Decimal, len(p.Debt)),
		RiskParams: make(map[string]RiskParams, len(p.RiskParams)),
		LastUpdate: p.LastUpdate,
	}
	for assetId, amount := range p.Collateral {
		clone.Collateral[assetId] = amount
	}
	for assetId, amount := range p.Debt {
		clone.Debt[assetId] = amount
	}
	for assetId, params := range p.RiskParams {
		clone.RiskParams[assetId] = params
	}
	return clone
}

// IsEmpty reports whether the position holds neither collateral nor debt
// above the dust threshold.
func (p *Position) IsEmpty() bool {
	for _, amount := range p.Collateral {
		if amount.GreaterThanOrEqual(DUST_BALANCE_THRESHOLD) {
			return false
		}
	}
	for _, amount := range p.Debt {
		if amount.GreaterThanOrEqual(DUST_BALANCE_THRESHOLD) {
			return false
		}
	}
	return true
}

// ReferencedAssets returns the sorted union of collateral and debt assets.
func (p *Position) ReferencedAssets() []string {
	seen := make(map[string]struct{}, len(p.Collateral)+len(p.Debt))
	for assetId := range p.Collateral {
		seen[assetId] = struct{}{}
	}
	for assetId := range p.Debt {
		seen[assetId] = struct{}{}
	}
	return utils.SortedKeys(seen)
}

func (p *Position) Validate() error {
	if p.AccountId == "" {
		return errors.Wrap(ErrInvalidPosition, "empty account id")
	}
	for assetId, amount := range p.Collateral {
		if amount.IsNegative() {
			return errors.Wrapf(ErrInvalidPosition, "negative collateral for %s", assetId)
		}
		params, ok := p.RiskParams[assetId]
		if !ok {
			return errors.Wrapf(ErrInvalidPosition, "no risk params for collateral %s", assetId)
		}
		if err := params.Validate(); err != nil {
			return errors.Wrapf(err, "asset %s", assetId)
		}
	}
	for assetId, amount := range p.Debt {
		if amount.IsNegative() {
			return errors.Wrapf(ErrInvalidPosition, "negative debt for %s", assetId)
		}
	}
	return nil
}

func (rp RiskParams) Validate() error {
	if !rp.CollateralFactor.IsPositive() || rp.CollateralFactor.GreaterThan(ONE) {
		return errors.Wrap(ErrInvalidPosition, "collateral factor out of range")
	}
	if rp.LiquidationThreshold.LessThan(rp.CollateralFactor) {
		return errors.Wrap(ErrInvalidPosition, "liquidation threshold below collateral factor")
	}
	if rp.LiquidationThreshold.GreaterThan(ONE) {
		return errors.Wrap(ErrInvalidPosition, "liquidation threshold out of range")
	}
	return nil
}
