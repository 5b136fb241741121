package sim

import (
	"context"
	"io"
	"os"

	"github.com/san-kum/nbody/internal/dynamo"
	"github.com/san-kum/nbody/internal/integrators"
	"github.com/san-kum/nbody/internal/metrics"
	"github.com/san-kum/nbody/internal/physics"
)

// Simulator drives one n-body run: normalize momentum, report the energy,
// integrate, report the energy again.
type Simulator struct {
	reporter *Reporter
	metrics  []metrics.Metric
}

// New returns a Simulator that reports through r. A nil r discards reports.
func New(r *Reporter) *Simulator {
	if r == nil {
		r = NewReporter(nil)
	}
	return &Simulator{
		reporter: r,
		metrics:  make([]metrics.Metric, 0),
	}
}

func (s *Simulator) AddMetric(m metrics.Metric) { s.metrics = append(s.metrics, m) }

// Run simulates a copy of bodies; the caller's slice is never modified.
// Invalid input is rejected before any state is built. The context is
// checked between sampling chunks only.
func (s *Simulator) Run(ctx context.Context, bodies []physics.Body, cfg dynamo.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ref := physics.Handle(cfg.Reference)
	if err := physics.ValidateSystem(bodies, ref); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state := physics.Clone(bodies)
	integ := integrators.NewLeapfrog(len(state), cfg.Dt)
	pairs := integ.Pairs()

	if err := physics.OffsetMomentum(state, ref); err != nil {
		return nil, err
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result := &Result{
		Bodies:  state,
		Metrics: make(map[string]float64),
	}

	var err error
	result.InitialEnergy, err = s.reporter.Report(state, pairs)
	if err != nil {
		return nil, err
	}
	s.observe(0, state, pairs)

	chunk := cfg.Steps
	if cfg.SampleEvery > 0 {
		chunk = cfg.SampleEvery
	}
	for result.Steps < cfg.Steps {
		n := min(chunk, cfg.Steps-result.Steps)
		integ.Advance(state, n)
		result.Steps += n
		s.observe(result.Steps, state, pairs)

		if result.Steps < cfg.Steps {
			if err := ctx.Err(); err != nil {
				result.FinalEnergy = physics.Energy(state, pairs)
				s.collect(result)
				return result, err
			}
		}
	}

	result.FinalEnergy, err = s.reporter.Report(state, pairs)
	if err != nil {
		return nil, err
	}
	s.collect(result)

	return result, nil
}

func (s *Simulator) observe(step int, bodies []physics.Body, pairs []physics.Pair) {
	for _, m := range s.metrics {
		m.Observe(step, bodies, pairs)
	}
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// Run performs a full run of steps benchmark steps with the given reference
// body and writes both energy readings to standard output.
func Run(steps int, bodies []physics.Body, reference int) (*Result, error) {
	return RunTo(os.Stdout, steps, bodies, reference)
}

// RunTo is Run writing the energy readings to w.
func RunTo(w io.Writer, steps int, bodies []physics.Body, reference int) (*Result, error) {
	cfg := dynamo.DefaultConfig()
	cfg.Dt = physics.DefaultDt
	cfg.Steps = steps
	cfg.Reference = reference
	return New(NewReporter(w)).Run(context.Background(), bodies, cfg)
}
