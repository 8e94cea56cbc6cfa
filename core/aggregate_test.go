package core

import (
	"testing"

	"github.com/facebookgo/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func liquidatableResult(accountId string, value int64) *HealthResult {
	return &HealthResult{
		AccountId:         accountId,
		Protocol:          ProtocolZkLend,
		HealthFactor:      decimal.NewFromFloat(0.8),
		CollateralValue:   decimal.NewFromInt(value),
		DebtValue:         decimal.NewFromInt(value),
		LiquidatableValue: decimal.NewFromInt(value),
	}
}

func TestAggregateEmpty(t *testing.T) {
	report := Aggregate(clock.NewMock(), "baseline", nil, nil, DefaultBucketEdges())

	assert.Equal(t, 0, report.TotalPositions)
	assert.Equal(t, 0, report.LiquidatableCount)
	assert.True(t, report.TotalAtRiskValue.IsZero())
	assert.Empty(t, report.Histogram)
	assert.Empty(t, report.Failed)
}

func TestAggregateBuckets(t *testing.T) {
	results := []*HealthResult{
		liquidatableResult("0xa", 500),        // [0, 1k)
		liquidatableResult("0xb", 5_000),      // [1k, 10k)
		liquidatableResult("0xc", 5_500),      // [1k, 10k)
		liquidatableResult("0xd", 20_000_000), // [10M, inf)
		{
			AccountId:       "0xe",
			Protocol:        ProtocolNostra,
			HealthFactor:    decimal.NewFromInt(2),
			CollateralValue: decimal.NewFromInt(100),
			DebtValue:       decimal.NewFromInt(40),
		},
	}

	report := Aggregate(clock.NewMock(), "crash", results, nil, DefaultBucketEdges())

	assert.Equal(t, 5, report.TotalPositions)
	assert.Equal(t, 4, report.LiquidatableCount)
	assert.True(t, report.TotalAtRiskValue.Equal(decimal.NewFromInt(20_011_000)),
		"expected 20011000, got %s", report.TotalAtRiskValue)

	require.Len(t, report.Histogram, len(DEFAULT_BUCKET_EDGES))
	assert.Equal(t, 1, report.Histogram[0].Count)
	assert.Equal(t, 2, report.Histogram[1].Count)
	assert.True(t, report.Histogram[1].Value.Equal(decimal.NewFromInt(10_500)))
	assert.Equal(t, 0, report.Histogram[2].Count)
	assert.Equal(t, 1, report.Histogram[5].Count)
	assert.Nil(t, report.Histogram[5].UpperEdge, "last bucket is unbounded")
}

func TestAggregateDeterministicOrder(t *testing.T) {
	clk := clock.NewMock()
	forward := []*HealthResult{
		liquidatableResult("0xa", 500),
		liquidatableResult("0xb", 5_000),
		liquidatableResult("0xc", 150_000),
	}
	reversed := []*HealthResult{forward[2], forward[0], forward[1]}

	first := Aggregate(clk, "crash", forward, nil, DefaultBucketEdges())
	second := Aggregate(clk, "crash", reversed, nil, DefaultBucketEdges())

	assert.Equal(t, first.Id, second.Id)
	assert.Equal(t, first.Histogram, second.Histogram)
	assert.True(t, first.TotalAtRiskValue.Equal(second.TotalAtRiskValue))
}

func TestAggregateSortsFailures(t *testing.T) {
	failures := []PositionFailure{
		{AccountId: "0xb", Protocol: ProtocolZkLend, Reason: "no price for asset"},
		{AccountId: "0xa", Protocol: ProtocolNostra, Reason: "no price for asset"},
	}

	report := Aggregate(clock.NewMock(), "crash", []*HealthResult{liquidatableResult("0xc", 1)}, failures, DefaultBucketEdges())

	require.Len(t, report.Failed, 2)
	assert.Equal(t, "0xa", report.Failed[0].AccountId)
	assert.Equal(t, "0xb", report.Failed[1].AccountId)
}

func TestValidateBucketEdges(t *testing.T) {
	tests := []struct {
		name    string
		edges   []decimal.Decimal
		wantErr bool
	}{
		{
			name:    "defaults",
			edges:   DefaultBucketEdges(),
			wantErr: false,
		},
		{
			name:    "empty",
			edges:   nil,
			wantErr: true,
		},
		{
			name:    "descending",
			edges:   []decimal.Decimal{decimal.NewFromInt(10), decimal.NewFromInt(1)},
			wantErr: true,
		},
		{
			name:    "duplicate",
			edges:   []decimal.Decimal{decimal.Zero, decimal.Zero},
			wantErr: true,
		},
		{
			name:    "negative",
			edges:   []decimal.Decimal{decimal.NewFromInt(-1), decimal.NewFromInt(1)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBucketEdges(tt.edges)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
