package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/nbody/internal/dynamo"
	"github.com/san-kum/nbody/internal/metrics"
	"github.com/san-kum/nbody/internal/physics"
	"github.com/san-kum/nbody/internal/sim"
)

// Trial is the outcome of one timestep in a sweep.
type Trial struct {
	Dt          float64
	Steps       int
	FinalEnergy float64
	Drift       float64
	Stability   float64
}

// DtSweep integrates the same system over the same simulated span with a
// range of timesteps and compares the energy drift of each.
type DtSweep struct {
	dts    []float64
	radius float64
}

// NewDtSweep returns a sweep over dts. Bodies farther than radius from the
// origin count against a trial's stability.
func NewDtSweep(dts []float64, radius float64) *DtSweep {
	return &DtSweep{dts: dts, radius: radius}
}

// Search runs one trial per timestep. The span is base.Dt*base.Steps years;
// each trial takes as many steps as its dt needs to cover it. The best trial
// is the one with the lowest drift, the first one on ties.
func (s *DtSweep) Search(ctx context.Context, bodies []physics.Body, base dynamo.Config) ([]Trial, Trial, error) {
	if len(s.dts) == 0 {
		return nil, Trial{}, fmt.Errorf("%w: no timesteps to sweep", dynamo.ErrInvalidConfig)
	}
	if err := base.Validate(); err != nil {
		return nil, Trial{}, err
	}
	span := base.Dt * float64(base.Steps)

	trials := make([]Trial, 0, len(s.dts))
	best := Trial{Drift: math.Inf(1)}
	for _, dt := range s.dts {
		if err := ctx.Err(); err != nil {
			return trials, best, err
		}

		cfg := base
		cfg.Dt = dt
		cfg.SampleEvery = 0
		if dt > 0 {
			cfg.Steps = int(math.Round(span / dt))
		}

		drift := metrics.NewEnergyDrift()
		stability := metrics.NewStability(s.radius)
		runner := sim.New(nil)
		runner.AddMetric(drift)
		runner.AddMetric(stability)

		result, err := runner.Run(ctx, bodies, cfg)
		if err != nil {
			return trials, best, fmt.Errorf("dt %g: %w", dt, err)
		}

		t := Trial{
			Dt:          dt,
			Steps:       result.Steps,
			FinalEnergy: result.FinalEnergy,
			Drift:       result.Metrics[drift.Name()],
			Stability:   result.Metrics[stability.Name()],
		}
		trials = append(trials, t)
		if t.Drift < best.Drift {
			best = t
		}
	}
	return trials, best, nil
}
