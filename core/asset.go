package core

import (
	"context"

	"github.com/shopspring/decimal"
)

type (
	AssetStore interface {
		GetAsset(ctx context.Context, assetId string) (*Asset, error)
		ListAllAssets(ctx context.Context) ([]*Asset, error)
		UpsertAsset(ctx context.Context, asset *Asset) error
	}

	Asset struct {
		AssetId   string          `json:"assetId,omitempty"`
		Symbol    string          `json:"symbol,omitempty"`
		Name      string          `json:"name,omitempty"`
		Precision int32           `json:"precision,omitempty"`
		Dust      decimal.Decimal `json:"dust,omitempty"`
	}
)

// ScaleRawAmount converts an on-chain integer amount into token units.
func (a *Asset) ScaleRawAmount(raw decimal.Decimal) decimal.Decimal {
	return raw.Shift(-a.Precision)
}

// IsDust reports whether the amount is below the asset's dust threshold.
func (a *Asset) IsDust(amount decimal.Decimal) bool {
	return amount.LessThan(a.Dust)
}
