package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIrConfig() InterestRateConfig {
	return InterestRateConfig{
		OptimalUtilizationRate: decimal.NewFromFloat(0.8),
		PlateauInterestRate:    decimal.NewFromFloat(0.1),
		MaxInterestRate:        decimal.NewFromFloat(1.0),
	}
}

func TestInterestRateCurve(t *testing.T) {
	config := testIrConfig()

	tests := []struct {
		name     string
		ur       decimal.Decimal
		expected decimal.Decimal
	}{
		{
			name:     "zero utilization",
			ur:       decimal.Zero,
			expected: decimal.Zero,
		},
		{
			name:     "half of optimal",
			ur:       decimal.NewFromFloat(0.4),
			expected: decimal.NewFromFloat(0.05),
		},
		{
			name:     "at optimal",
			ur:       decimal.NewFromFloat(0.8),
			expected: decimal.NewFromFloat(0.1),
		},
		{
			name:     "full utilization",
			ur:       ONE,
			expected: decimal.NewFromFloat(1.0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := config.InterestRateCurve(tt.ur)
			assert.True(t, got.Equal(tt.expected), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestInterestRateConfigValidate(t *testing.T) {
	valid := testIrConfig()
	assert.NoError(t, valid.Validate())

	badOptimal := testIrConfig()
	badOptimal.OptimalUtilizationRate = ONE
	assert.ErrorIs(t, badOptimal.Validate(), ErrOptimalUr)

	badPlateau := testIrConfig()
	badPlateau.PlateauInterestRate = decimal.Zero
	assert.ErrorIs(t, badPlateau.Validate(), ErrPlateauIr)

	inverted := testIrConfig()
	inverted.PlateauInterestRate = decimal.NewFromFloat(2)
	assert.ErrorIs(t, inverted.Validate(), ErrPlateauGreaterThanMax)
}

func TestCalcInterestRate(t *testing.T) {
	config := testIrConfig()
	config.ProtocolIrFee = decimal.NewFromFloat(0.1)
	config.ProtocolFixedFeeApr = decimal.NewFromFloat(0.01)

	lending, borrowing, fees, err := config.CalcInterestRate(decimal.NewFromFloat(0.8))
	require.NoError(t, err)

	// base rate at optimal = 0.1
	assert.True(t, lending.Equal(decimal.NewFromFloat(0.08)), "expected 0.08, got %s", lending)
	assert.True(t, borrowing.Equal(decimal.NewFromFloat(0.12)), "expected 0.12, got %s", borrowing)
	assert.True(t, fees.Equal(decimal.NewFromFloat(0.02)), "expected 0.02, got %s", fees)
}

func TestInterestRateStateAccrual(t *testing.T) {
	state := NewInterestRateState(ProtocolHashstack)

	// First sample only seeds the timestamp.
	state.ApplySample("ETH", 100, 1_000_000, decimal.NewFromInt(500), decimal.NewFromInt(800))
	collateral, debt := state.Indices("ETH")
	assert.True(t, collateral.IsZero())
	assert.True(t, debt.IsZero())

	// One year later at 500/800 bps: indices grow by 0.05 and 0.08.
	state.ApplySample("ETH", 200, 1_000_000+SECONDS_PER_YEAR, decimal.NewFromInt(500), decimal.NewFromInt(800))
	collateral, debt = state.Indices("ETH")
	assert.True(t, collateral.Equal(decimal.NewFromFloat(0.05)), "expected 0.05, got %s", collateral)
	assert.True(t, debt.Equal(decimal.NewFromFloat(0.08)), "expected 0.08, got %s", debt)
	assert.Equal(t, uint64(200), state.CurrentBlock)

	// Samples that do not advance time accrue nothing.
	state.ApplySample("ETH", 201, 1_000_000+SECONDS_PER_YEAR, decimal.NewFromInt(500), decimal.NewFromInt(800))
	collateral, _ = state.Indices("ETH")
	assert.True(t, collateral.Equal(decimal.NewFromFloat(0.05)))
}

func TestAprToApy(t *testing.T) {
	assert.True(t, AprToApy(decimal.Zero).IsZero())

	apy := AprToApy(decimal.NewFromFloat(0.1))
	assert.True(t, apy.GreaterThan(decimal.NewFromFloat(0.1)), "compounding beats simple APR, got %s", apy)
	assert.True(t, apy.LessThan(decimal.NewFromFloat(0.11)))
}
