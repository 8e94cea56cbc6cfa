package core

import (
	"context"
	"sort"
	"strconv"

	"github.com/derisk-research/core/utils"
	"github.com/facebookgo/clock"
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type (
	// ReportStore is implemented by the dashboard/storage side. The core
	// produces reports; it never persists them itself.
	ReportStore interface {
		InsertReport(ctx context.Context, report *AggregateReport) error
		GetReportById(ctx context.Context, reportId uuid.UUID) (*AggregateReport, error)
		GetLatestReport(ctx context.Context, scenario string) (*AggregateReport, error)
	}

	AggregateReport struct {
		Id       uuid.UUID `json:"id"`
		Scenario string    `json:"scenario"`

		TotalPositions    int `json:"totalPositions"`
		LiquidatableCount int `json:"liquidatableCount"`

		TotalAtRiskValue     decimal.Decimal `json:"totalAtRiskValue"`
		TotalCollateralValue decimal.Decimal `json:"totalCollateralValue"`
		TotalDebtValue       decimal.Decimal `json:"totalDebtValue"`

		Histogram []HistogramBucket `json:"histogram"`
		Failed    []PositionFailure `json:"failed"`

		CreatedAt int64 `json:"createdAt"`
	}

	// HistogramBucket covers [LowerEdge, UpperEdge); the last bucket of a
	// report is unbounded and has a nil UpperEdge.
	HistogramBucket struct {
		LowerEdge decimal.Decimal  `json:"lowerEdge"`
		UpperEdge *decimal.Decimal `json:"upperEdge,omitempty"`
		Count     int              `json:"count"`
		Value     decimal.Decimal  `json:"value"`
	}

	PositionFailure struct {
		AccountId string     `json:"accountId"`
		Protocol  ProtocolId `json:"protocol"`
		Reason    string     `json:"reason"`
		Err       error      `json:"-"`
	}
)

// ValidateBucketEdges rejects malformed histogram configuration before
// any computation starts.
func ValidateBucketEdges(edges []decimal.Decimal) error {
	if len(edges) == 0 {
		return errors.Wrap(InvalidConfig, "no bucket edges")
	}
	if edges[0].IsNegative() {
		return errors.Wrap(InvalidConfig, "negative bucket edge")
	}
	for i := 1; i < len(edges); i++ {
		if !edges[i].GreaterThan(edges[i-1]) {
			return errors.Wrap(InvalidConfig, "bucket edges not strictly ascending")
		}
	}
	return nil
}

// Aggregate rolls per-position health results into a protocol-level
// report. Results are sorted by (account, protocol) first so bucketing
// and totals are reproducible regardless of worker completion order.
func Aggregate(clk clock.Clock, scenario string, results []*HealthResult, failures []PositionFailure, edges []decimal.Decimal) *AggregateReport {
	sorted := make([]*HealthResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].AccountId != sorted[j].AccountId {
			return sorted[i].AccountId < sorted[j].AccountId
		}
		return sorted[i].Protocol < sorted[j].Protocol
	})

	sortedFailures := make([]PositionFailure, len(failures))
	copy(sortedFailures, failures)
	sort.Slice(sortedFailures, func(i, j int) bool {
		if sortedFailures[i].AccountId != sortedFailures[j].AccountId {
			return sortedFailures[i].AccountId < sortedFailures[j].AccountId
		}
		return sortedFailures[i].Protocol < sortedFailures[j].Protocol
	})

	createdAt := clk.Now().Unix()
	report := &AggregateReport{
		Id:                   uuid.Must(uuid.FromString(utils.GenUuidFromStrings(scenario, strconv.FormatInt(createdAt, 10)))),
		Scenario:             scenario,
		TotalPositions:       len(sorted),
		TotalAtRiskValue:     decimal.Zero,
		TotalCollateralValue: decimal.Zero,
		TotalDebtValue:       decimal.Zero,
		Failed:               sortedFailures,
		CreatedAt:            createdAt,
	}

	if len(sorted) > 0 {
		report.Histogram = newHistogram(edges)
	}

	for _, result := range sorted {
		report.TotalCollateralValue = report.TotalCollateralValue.Add(result.CollateralValue)
		report.TotalDebtValue = report.TotalDebtValue.Add(result.DebtValue)

		if !result.IsLiquidatable() {
			continue
		}
		report.LiquidatableCount++
		report.TotalAtRiskValue = report.TotalAtRiskValue.Add(result.LiquidatableValue)

		bucket := &report.Histogram[bucketIndex(result.LiquidatableValue, edges)]
		bucket.Count++
		bucket.Value = bucket.Value.Add(result.LiquidatableValue)
	}

	return report
}

func newHistogram(edges []decimal.Decimal) []HistogramBucket {
	buckets := make([]HistogramBucket, len(edges))
	for i := range edges {
		buckets[i] = HistogramBucket{
			LowerEdge: edges[i],
			Value:     decimal.Zero,
		}
		if i+1 < len(edges) {
			upper := edges[i+1]
			buckets[i].UpperEdge = &upper
		}
	}
	return buckets
}

// bucketIndex returns the last bucket whose lower edge does not exceed
// the value. Values below the first edge are clamped into bucket zero.
func bucketIndex(value decimal.Decimal, edges []decimal.Decimal) int {
	idx := 0
	for i, edge := range edges {
		if value.GreaterThanOrEqual(edge) {
			idx = i
		} else {
			break
		}
	}
	return idx
}
