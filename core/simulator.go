package core

import (
	"context"
	"sync"

	"github.com/facebookgo/clock"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// StressSimulator recomputes the whole position set under shocked
// prices. It is a pure orchestrator around the risk engine: all health
// math lives in RiskEngine, the simulator only fans out and aggregates.
type StressSimulator struct {
	engine *RiskEngine
	log    Log
	clk    clock.Clock

	workers     int
	bucketEdges []decimal.Decimal
}

type SimulatorOptFunc func(simulator *StressSimulator)

func WithWorkerCount(workers int) SimulatorOptFunc {
	return func(simulator *StressSimulator) {
		simulator.workers = workers
	}
}

func WithBucketEdges(edges []decimal.Decimal) SimulatorOptFunc {
	return func(simulator *StressSimulator) {
		simulator.bucketEdges = edges
	}
}

func NewStressSimulator(engine *RiskEngine, log Log, clk clock.Clock, opts ...SimulatorOptFunc) (*StressSimulator, error) {
	simulator := &StressSimulator{
		engine:      engine,
		log:         log,
		clk:         clk,
		workers:     DEFAULT_WORKER_COUNT,
		bucketEdges: DefaultBucketEdges(),
	}
	for _, opt := range opts {
		opt(simulator)
	}
	if simulator.workers < 1 {
		return nil, errors.Wrap(InvalidConfig, "worker count must be at least 1")
	}
	if err := ValidateBucketEdges(simulator.bucketEdges); err != nil {
		return nil, err
	}
	return simulator, nil
}

// EvaluateBaseline reports on the position set under unshocked prices.
func (s *StressSimulator) EvaluateBaseline(ctx context.Context, positions []*Position, prices *PriceSnapshot) (*AggregateReport, error) {
	return s.RunScenario(ctx, positions, prices, IdentityScenario("baseline"))
}

// RunScenario shocks the snapshot, recomputes every position's health
// and aggregates. Positions that fail individually (a missing price,
// an invalid position) are excluded from the totals and recorded in the
// report's Failed list; only cancellation aborts the whole batch.
func (s *StressSimulator) RunScenario(ctx context.Context, positions []*Position, prices *PriceSnapshot, scenario *ShockScenario) (*AggregateReport, error) {
	shocked := prices.WithShock(scenario)

	results, failures, err := s.computeBatch(ctx, positions, shocked)
	if err != nil {
		return nil, err
	}

	report := Aggregate(s.clk, scenario.Name(), results, failures, s.bucketEdges)
	s.log.Info().
		Str("scenario", scenario.Name()).
		Int("positions", report.TotalPositions).
		Int("liquidatable", report.LiquidatableCount).
		Int("failed", len(report.Failed)).
		Msgf("scenario evaluated, at-risk value %s", report.TotalAtRiskValue)
	return report, nil
}

// RunScenarios evaluates each scenario independently against the same
// base positions and prices.
func (s *StressSimulator) RunScenarios(ctx context.Context, positions []*Position, prices *PriceSnapshot, scenarios []*ShockScenario) ([]*AggregateReport, error) {
	reports := make([]*AggregateReport, 0, len(scenarios))
	for _, scenario := range scenarios {
		report, err := s.RunScenario(ctx, positions, prices, scenario)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// RunChain models a cascade as cumulative shocks: step i is evaluated
// under the composition of scenarios 0..i. Every step is valued against
// the same base position snapshot; forced liquidations between steps
// are not modeled.
func (s *StressSimulator) RunChain(ctx context.Context, positions []*Position, prices *PriceSnapshot, scenarios []*ShockScenario) ([]*AggregateReport, error) {
	reports := make([]*AggregateReport, 0, len(scenarios))
	cumulative := IdentityScenario("")
	for _, scenario := range scenarios {
		cumulative = ComposeScenarios(scenario.Name(), cumulative, scenario)
		report, err := s.RunScenario(ctx, positions, prices, cumulative)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// computeBatch maps the engine over the position set with a bounded
// worker pool. Each worker writes to its own slot, so no shared state is
// mutated. Cancellation discards all partial results.
func (s *StressSimulator) computeBatch(ctx context.Context, positions []*Position, prices *PriceSnapshot) ([]*HealthResult, []PositionFailure, error) {
	resultSlots := make([]*HealthResult, len(positions))
	failureSlots := make([]*PositionFailure, len(positions))

	workers := s.workers
	if workers > len(positions) {
		workers = len(positions)
	}

	jobs := make(chan int)
	go func() {
		defer close(jobs)
		for i := range positions {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					return
				}
				position := positions[idx]
				result, err := s.engine.ComputeHealth(position, prices)
				if err != nil {
					failureSlots[idx] = &PositionFailure{
						AccountId: position.AccountId,
						Protocol:  position.Protocol,
						Reason:    err.Error(),
						Err:       err,
					}
					s.log.Warn().
						Str("account", position.AccountId).
						Str("protocol", position.Protocol.String()).
						Err(err).
						Msg("position skipped")
					continue
				}
				resultSlots[idx] = result
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	results := make([]*HealthResult, 0, len(positions))
	failures := make([]PositionFailure, 0)
	for i := range positions {
		if resultSlots[i] != nil {
			results = append(results, resultSlots[i])
		}
		if failureSlots[i] != nil {
			failures = append(failures, *failureSlots[i])
		}
	}
	return results, failures, nil
}
