package core

import (
	"context"

	"github.com/shopspring/decimal"
)

type OracleSetup uint8

const (
	SnapshotSetup OracleSetup = iota
	StarknetSetup
)

func (os OracleSetup) String() string {
	switch os {
	case SnapshotSetup:
		return "Snapshot"
	case StarknetSetup:
		return "Starknet"
	default:
		return "Unknown"
	}
}

type PriceAdapter interface {
	GetPrice(ctx context.Context, assetId string) (decimal.Decimal, error)
}

type PriceAdapterMgr interface {
	GetPriceAdapter(setup OracleSetup) (PriceAdapter, error)
}

type snapshotAdapter struct {
	snapshot *PriceSnapshot
}

// NewSnapshotAdapter wraps an in-memory snapshot as a PriceAdapter, for
// replaying stored prices through the same path as a live oracle.
func NewSnapshotAdapter(snapshot *PriceSnapshot) PriceAdapter {
	return &snapshotAdapter{snapshot: snapshot}
}

func (a *snapshotAdapter) GetPrice(ctx context.Context, assetId string) (decimal.Decimal, error) {
	return a.snapshot.Get(assetId)
}

// LoadPriceSnapshot materializes a snapshot for the given assets. This
// is the only place the core touches an oracle; everything downstream
// works on the immutable snapshot.
func LoadPriceSnapshot(ctx context.Context, adapter PriceAdapter, assetIds []string) (*PriceSnapshot, error) {
	prices := make(map[string]decimal.Decimal, len(assetIds))
	for _, assetId := range assetIds {
		price, err := adapter.GetPrice(ctx, assetId)
		if err != nil {
			return nil, err
		}
		prices[assetId] = price
	}
	return NewPriceSnapshot(prices)
}
