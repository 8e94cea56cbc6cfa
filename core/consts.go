package core

import (
	"github.com/shopspring/decimal"
)

const (
	SECONDS_PER_YEAR = 31_536_000

	HOURS_PER_YEAR = 365.25 * 24

	DEFAULT_WORKER_COUNT = 8
)

var (
	ONE = decimal.NewFromInt(1)

	ZERO_AMOUNT_THRESHOLD  = decimal.Zero
	DUST_BALANCE_THRESHOLD = decimal.NewFromFloat(0.00000001)

	// Basis points scale used by on-chain APR feeds.
	BPS_SCALE = decimal.NewFromInt(10_000)
)

// Default liquidation-size histogram bucket edges, USD denominated.
// The last edge opens an unbounded bucket.
var DEFAULT_BUCKET_EDGES = []decimal.Decimal{
	decimal.Zero,
	decimal.NewFromInt(1_000),
	decimal.NewFromInt(10_000),
	decimal.NewFromInt(100_000),
	decimal.NewFromInt(1_000_000),
	decimal.NewFromInt(10_000_000),
}

// DefaultBucketEdges returns a copy so callers cannot mutate the defaults.
func DefaultBucketEdges() []decimal.Decimal {
	edges := make([]decimal.Decimal, len(DEFAULT_BUCKET_EDGES))
	copy(edges, DEFAULT_BUCKET_EDGES)
	return edges
}
