package core

import (
	"github.com/shopspring/decimal"
)

// InterestRateConfig describes a two-segment utilization curve: linear
// up to the optimal utilization rate, then linear from the plateau rate
// to the max rate.
type InterestRateConfig struct {
	OptimalUtilizationRate decimal.Decimal `json:"optimalUtilizationRate"`
	PlateauInterestRate    decimal.Decimal `json:"plateauInterestRate"`
	MaxInterestRate        decimal.Decimal `json:"maxInterestRate"`

	ProtocolFixedFeeApr decimal.Decimal `json:"protocolFixedFeeApr"`
	ProtocolIrFee       decimal.Decimal `json:"protocolIrFee"`
}

func (i *InterestRateConfig) Validate() error {
	optimalUr := i.OptimalUtilizationRate
	plateauIr := i.PlateauInterestRate
	maxIr := i.MaxInterestRate

	if optimalUr.LessThanOrEqual(decimal.Zero) || optimalUr.GreaterThanOrEqual(ONE) {
		return ErrOptimalUr
	}
	if plateauIr.LessThanOrEqual(decimal.Zero) {
		return ErrPlateauIr
	}
	if maxIr.LessThanOrEqual(decimal.Zero) {
		return ErrMaxIr
	}
	if plateauIr.GreaterThanOrEqual(maxIr) {
		return ErrPlateauGreaterThanMax
	}

	return nil
}

// CalcInterestRate returns the lending and borrowing APRs and the
// protocol fee APR at the given utilization ratio.
func (i *InterestRateConfig) CalcInterestRate(utilizationRatio decimal.Decimal) (decimal.Decimal, decimal.Decimal, decimal.Decimal, error) {
	baseRate := i.InterestRateCurve(utilizationRatio)

	lendingRate := baseRate.Mul(utilizationRatio)
	borrowingRate := baseRate.Mul(ONE.Add(i.ProtocolIrFee)).Add(i.ProtocolFixedFeeApr)
	protocolFeesApr := baseRate.Mul(i.ProtocolIrFee).Add(i.ProtocolFixedFeeApr)

	if lendingRate.LessThan(decimal.Zero) ||
		borrowingRate.LessThan(decimal.Zero) ||
		protocolFeesApr.LessThan(decimal.Zero) {
		return decimal.Zero, decimal.Zero, decimal.Zero, ErrNegativeInterestRate
	}

	return lendingRate, borrowingRate, protocolFeesApr, nil
}

func (i *InterestRateConfig) InterestRateCurve(utilizationRatio decimal.Decimal) decimal.Decimal {
	optimalUr := i.OptimalUtilizationRate
	plateauIr := i.PlateauInterestRate
	maxIr := i.MaxInterestRate

	if utilizationRatio.LessThanOrEqual(optimalUr) {
		// ur / optimal_ur * plateau_ir
		return utilizationRatio.Mul(plateauIr).Div(optimalUr)
	}
	// (ur - optimal_ur) / (1 - optimal_ur) * (max_ir - plateau_ir) + plateau_ir
	return utilizationRatio.Sub(optimalUr).
		Div(ONE.Sub(optimalUr)).
		Mul(maxIr.Sub(plateauIr)).
		Add(plateauIr)
}

// AprToApy converts an APR to an APY assuming hourly compounding.
func AprToApy(apr decimal.Decimal) decimal.Decimal {
	hoursPerYear := decimal.NewFromInt(HOURS_PER_YEAR)
	return ONE.Add(apr.Div(hoursPerYear)).Pow(hoursPerYear).Sub(ONE).Round(8)
}

// InterestRateState accrues cumulative collateral and debt interest
// indices per asset from on-chain APR samples quoted in basis points.
// The index for a period grows by apr_bps * seconds / seconds_per_year
// / 10000.
type InterestRateState struct {
	Protocol     ProtocolId `json:"protocol"`
	CurrentBlock uint64     `json:"currentBlock"`

	timestamps      map[string]int64
	collateralIndex map[string]decimal.Decimal
	debtIndex       map[string]decimal.Decimal
}

func NewInterestRateState(protocol ProtocolId) *InterestRateState {
	return &InterestRateState{
		Protocol:        protocol,
		timestamps:      map[string]int64{},
		collateralIndex: map[string]decimal.Decimal{},
		debtIndex:       map[string]decimal.Decimal{},
	}
}

// ApplySample advances the indices for one asset. The first sample for
// an asset only records its timestamp; accrual starts from the second.
func (s *InterestRateState) ApplySample(assetId string, block uint64, timestamp int64, supplyAprBps, borrowAprBps decimal.Decimal) {
	s.CurrentBlock = block

	last, ok := s.timestamps[assetId]
	s.timestamps[assetId] = timestamp
	if !ok || last == 0 {
		return
	}

	secondsPassed := timestamp - last
	if secondsPassed <= 0 {
		return
	}
	elapsed := decimal.NewFromInt(secondsPassed)
	secondsPerYear := decimal.NewFromInt(SECONDS_PER_YEAR)

	collateralChange := supplyAprBps.Mul(elapsed).Div(secondsPerYear).Div(BPS_SCALE)
	debtChange := borrowAprBps.Mul(elapsed).Div(secondsPerYear).Div(BPS_SCALE)

	s.collateralIndex[assetId] = s.collateralIndex[assetId].Add(collateralChange)
	s.debtIndex[assetId] = s.debtIndex[assetId].Add(debtChange)
}

// Indices returns the cumulative collateral and debt interest accrued
// for the asset so far.
func (s *InterestRateState) Indices(assetId string) (decimal.Decimal, decimal.Decimal) {
	return s.collateralIndex[assetId], s.debtIndex[assetId]
}
