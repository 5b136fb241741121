package sim_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/nbody/internal/dynamo"
	"github.com/san-kum/nbody/internal/metrics"
	"github.com/san-kum/nbody/internal/physics"
	"github.com/san-kum/nbody/internal/sim"
)

// cancelAfter cancels its context once it has observed a step past limit.
type cancelAfter struct {
	limit  int
	cancel context.CancelFunc
	seen   []int
}

func (c *cancelAfter) Name() string { return "cancel" }
func (c *cancelAfter) Observe(step int, bodies []physics.Body, pairs []physics.Pair) {
	c.seen = append(c.seen, step)
	if step > c.limit {
		c.cancel()
	}
}
func (c *cancelAfter) Value() float64 { return float64(len(c.seen)) }
func (c *cancelAfter) Reset()         { c.seen = nil }

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("closed") }

var _ metrics.Metric = (*cancelAfter)(nil)

var _ = Describe("Simulator", func() {
	var (
		out  *bytes.Buffer
		s    *sim.Simulator
		cfg  dynamo.Config
		ctx  context.Context
		body []physics.Body
	)

	BeforeEach(func() {
		out = &bytes.Buffer{}
		s = sim.New(sim.NewReporter(out))
		cfg = dynamo.DefaultConfig()
		cfg.Steps = 10
		ctx = context.Background()
		body = physics.Jovian()
	})

	Describe("the benchmark scenario", func() {
		It("reports the energy before and after ten steps", func() {
			result, err := s.Run(ctx, body, cfg)
			Expect(err).NotTo(HaveOccurred())

			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			Expect(lines).To(Equal([]string{"-0.169075164", "-0.169073022"}))

			Expect(result.Steps).To(Equal(10))
			Expect(result.InitialEnergy).To(BeNumerically("<", 0))
			Expect(result.FinalEnergy).To(BeNumerically("~", result.InitialEnergy, 1e-4))
		})

		It("leaves the caller's bodies untouched", func() {
			before := physics.Clone(body)
			result, err := s.Run(ctx, body, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(body).To(Equal(before))
			Expect(result.Bodies).NotTo(Equal(before))
		})

		It("ends with zero total momentum", func() {
			result, err := s.Run(ctx, body, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(r3.Norm(physics.Momentum(result.Bodies))).To(BeNumerically("<", 1e-12))
		})

		It("is bit-for-bit deterministic", func() {
			cfg.Steps = 2000
			first, err := s.Run(ctx, body, cfg)
			Expect(err).NotTo(HaveOccurred())
			second, err := s.Run(ctx, body, cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(second.Bodies).To(Equal(first.Bodies))
			Expect(second.FinalEnergy).To(Equal(first.FinalEnergy))
		})

		It("does not depend on the sampling interval", func() {
			cfg.Steps = 1000
			plain, err := s.Run(ctx, body, cfg)
			Expect(err).NotTo(HaveOccurred())

			cfg.SampleEvery = 7
			sampled, err := s.Run(ctx, body, cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(sampled.Bodies).To(Equal(plain.Bodies))
			Expect(sampled.FinalEnergy).To(Equal(plain.FinalEnergy))
		})
	})

	Describe("metrics", func() {
		It("observes the first state, every sample and the last state", func() {
			trace := metrics.NewEnergyTrace(100)
			drift := metrics.NewEnergyDrift()
			s.AddMetric(trace)
			s.AddMetric(drift)

			cfg.Steps = 25
			cfg.SampleEvery = 10
			result, err := s.Run(ctx, body, cfg)
			Expect(err).NotTo(HaveOccurred())

			steps := []int{}
			for _, sample := range trace.Samples() {
				steps = append(steps, sample.Step)
			}
			Expect(steps).To(Equal([]int{0, 10, 20, 25}))
			Expect(result.Metrics).To(HaveKey("energy"))
			Expect(result.Metrics["energy"]).To(Equal(result.FinalEnergy))
			Expect(result.Metrics["energy_drift"]).To(BeNumerically("<", 1e-4))
		})

		It("resets metrics between runs", func() {
			trace := metrics.NewEnergyTrace(100)
			s.AddMetric(trace)
			_, err := s.Run(ctx, body, cfg)
			Expect(err).NotTo(HaveOccurred())
			_, err = s.Run(ctx, body, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(trace.Samples()).To(HaveLen(2))
		})
	})

	Describe("degenerate systems", func() {
		It("lets a single body drift with pure kinetic energy", func() {
			lone := []physics.Body{{Label: "lone", Pos: r3.Vec{X: 1}, Vel: r3.Vec{Y: 2}, Mass: 3}}
			cfg.Steps = 100

			result, err := s.Run(ctx, lone, cfg)
			Expect(err).NotTo(HaveOccurred())

			// the lone body is its own reference and is brought to rest
			Expect(result.Bodies[0].Vel).To(Equal(r3.Vec{}))
			Expect(result.InitialEnergy).To(Equal(0.0))
			Expect(result.Bodies[0].Pos).To(Equal(r3.Vec{X: 1}))
		})

		It("runs zero steps", func() {
			cfg.Steps = 0
			result, err := s.Run(ctx, body, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Steps).To(Equal(0))
			Expect(result.FinalEnergy).To(Equal(result.InitialEnergy))
		})
	})

	Describe("setup errors", func() {
		DescribeTable("rejects invalid input before mutating anything",
			func(mutate func([]physics.Body, *dynamo.Config) []physics.Body, want error) {
				bodies := mutate(body, &cfg)
				result, err := s.Run(ctx, bodies, cfg)
				Expect(err).To(MatchError(want))
				Expect(result).To(BeNil())
				Expect(out.Len()).To(BeZero())
			},
			Entry("empty system", func(b []physics.Body, c *dynamo.Config) []physics.Body {
				return nil
			}, dynamo.ErrEmptySystem),
			Entry("reference out of range", func(b []physics.Body, c *dynamo.Config) []physics.Body {
				c.Reference = 9
				return b
			}, dynamo.ErrReferenceIndex),
			Entry("zero reference mass", func(b []physics.Body, c *dynamo.Config) []physics.Body {
				b[0].Mass = 0
				return b
			}, dynamo.ErrDomain),
			Entry("zero planet mass", func(b []physics.Body, c *dynamo.Config) []physics.Body {
				b[3].Mass = 0
				return b
			}, dynamo.ErrInvalidBody),
			Entry("zero dt", func(b []physics.Body, c *dynamo.Config) []physics.Body {
				c.Dt = 0
				return b
			}, dynamo.ErrInvalidConfig),
			Entry("negative steps", func(b []physics.Body, c *dynamo.Config) []physics.Body {
				c.Steps = -1
				return b
			}, dynamo.ErrInvalidConfig),
		)

		It("surfaces write failures", func() {
			s = sim.New(sim.NewReporter(failingWriter{}))
			_, err := s.Run(ctx, body, cfg)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("cancellation", func() {
		It("stops between sampling chunks", func() {
			cctx, cancel := context.WithCancel(ctx)
			defer cancel()
			c := &cancelAfter{limit: 20, cancel: cancel}
			s.AddMetric(c)

			cfg.Steps = 1000
			cfg.SampleEvery = 10
			result, err := s.Run(cctx, body, cfg)
			Expect(err).To(MatchError(context.Canceled))
			Expect(result.Steps).To(Equal(30))
			Expect(strings.Count(out.String(), "\n")).To(Equal(1))
		})

		It("refuses an already canceled context", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := s.Run(cctx, body, cfg)
			Expect(err).To(MatchError(context.Canceled))
		})
	})
})

var _ = Describe("Reporter", func() {
	It("formats nine decimal places", func() {
		Expect(sim.FormatEnergy(-0.1690751640123)).To(Equal("-0.169075164"))
		Expect(sim.FormatEnergy(2)).To(Equal("2.000000000"))
	})

	It("discards output with a nil writer", func() {
		e, err := sim.NewReporter(nil).Report(physics.Jovian(), physics.BuildPairs(5))
		Expect(err).NotTo(HaveOccurred())
		Expect(e).To(BeNumerically("~", -0.169289903, 1e-9))
	})
})

var _ = Describe("Run", func() {
	It("writes the benchmark lines to the given writer", func() {
		var out bytes.Buffer
		bodies := physics.Jovian()
		before := physics.Clone(bodies)

		result, err := sim.RunTo(&out, 10, bodies, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(Equal("-0.169075164\n-0.169073022\n"))
		Expect(result.Steps).To(Equal(10))
		Expect(bodies).To(Equal(before))
	})

	It("writes to standard output", func() {
		r, w, err := os.Pipe()
		Expect(err).NotTo(HaveOccurred())
		stdout := os.Stdout
		os.Stdout = w
		DeferCleanup(func() { os.Stdout = stdout })

		bodies := physics.Jovian()
		before := physics.Clone(bodies)
		_, runErr := sim.Run(10, bodies, 0)
		os.Stdout = stdout
		Expect(w.Close()).To(Succeed())

		printed, err := io.ReadAll(r)
		Expect(err).NotTo(HaveOccurred())
		Expect(runErr).NotTo(HaveOccurred())
		Expect(string(printed)).To(Equal("-0.169075164\n-0.169073022\n"))
		Expect(bodies).To(Equal(before))
	})

	It("rejects a reference outside the bodies", func() {
		var out bytes.Buffer
		_, err := sim.RunTo(&out, 10, physics.Jovian(), 5)
		Expect(errors.Is(err, dynamo.ErrReferenceIndex)).To(BeTrue())
		Expect(out.Len()).To(BeZero())
	})
})
