package dynamo

import (
	"fmt"
	"math"
)

// Config holds the parameters of one simulation run.
//
// Reference is the index of the body whose velocity absorbs the system
// momentum; it defaults to 0, the central star. SampleEvery > 0 makes the
// simulator observe its metrics every SampleEvery steps; 0 observes only the
// first and last state.
type Config struct {
	Dt          float64
	Steps       int
	Reference   int
	SampleEvery int
}

func DefaultConfig() Config {
	return Config{
		Dt:          0.01,
		Steps:       1000,
		Reference:   0,
		SampleEvery: 0,
	}
}

func (c Config) Validate() error {
	if c.Dt <= 0 || math.IsNaN(c.Dt) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive and finite, got %v", ErrInvalidConfig, c.Dt)
	}
	if c.Steps < 0 {
		return fmt.Errorf("%w: steps must be non-negative, got %d", ErrInvalidConfig, c.Steps)
	}
	if c.SampleEvery < 0 {
		return fmt.Errorf("%w: sample interval must be non-negative, got %d", ErrInvalidConfig, c.SampleEvery)
	}
	return nil
}
