package loop_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pidlab/internal/loop"
	"github.com/san-kum/pidlab/internal/pid"
	"github.com/san-kum/pidlab/internal/setpoint"
)

// firstOrder is the lag y' = u - y, output y.
type firstOrder struct{}

func (p *firstOrder) Derive(x loop.State, u, t float64) loop.State {
	return loop.State{u - x[0]}
}

func (p *firstOrder) StateDim() int               { return 1 }
func (p *firstOrder) Output(x loop.State) float64 { return x[0] }

// exploding produces NaN immediately.
type exploding struct{}

func (p *exploding) Derive(x loop.State, u, t float64) loop.State {
	return loop.State{math.NaN()}
}

func (p *exploding) StateDim() int               { return 1 }
func (p *exploding) Output(x loop.State) float64 { return x[0] }

// euler keeps the suite free of other packages.
type euler struct{}

func (e *euler) Step(p loop.Plant, x loop.State, u, t, dt float64) loop.State {
	dx := p.Derive(x, u, t)
	next := make(loop.State, len(x))
	for i := range x {
		next[i] = x[i] + dt*dx[i]
	}
	return next
}

// countMetric counts observed samples.
type countMetric struct{ n int }

func (m *countMetric) Name() string          { return "samples" }
func (m *countMetric) Observe(s loop.Sample) { m.n++ }
func (m *countMetric) Value() float64        { return float64(m.n) }
func (m *countMetric) Reset()                { m.n = 0 }

var _ = Describe("Runner", func() {
	var (
		ctrl *pid.Controller
		r    *loop.Runner
		cfg  loop.Config
	)

	BeforeEach(func() {
		var err error
		ctrl, err = pid.New(0.01, -100, 100)
		Expect(err).NotTo(HaveOccurred())
		ctrl.SetKp(5.0)
		ctrl.SetKi(10.0)

		r = loop.New(&firstOrder{}, &euler{}, ctrl, setpoint.NewConstant(1.0))
		cfg = loop.Config{Dt: 0.01, Duration: 5.0, ValidateState: true}
	})

	It("rejects a non-positive dt", func() {
		cfg.Dt = 0
		_, err := r.Run(context.Background(), loop.State{0}, cfg)
		Expect(err).To(HaveOccurred())
	})

	It("rejects a non-positive duration", func() {
		cfg.Duration = -1
		_, err := r.Run(context.Background(), loop.State{0}, cfg)
		Expect(err).To(HaveOccurred())
	})

	It("rejects a mismatched initial state", func() {
		_, err := r.Run(context.Background(), loop.State{0, 0}, cfg)
		Expect(err).To(MatchError(loop.ErrDimensionMismatch))
	})

	It("drives a first-order plant to the setpoint", func() {
		result, err := r.Run(context.Background(), loop.State{0}, cfg)
		Expect(err).NotTo(HaveOccurred())

		final := result.Outputs[len(result.Outputs)-1]
		Expect(final).To(BeNumerically("~", 1.0, 0.05))
	})

	It("records parallel trajectory slices", func() {
		result, err := r.Run(context.Background(), loop.State{0}, cfg)
		Expect(err).NotTo(HaveOccurred())

		steps := int(cfg.Duration / cfg.Dt)
		Expect(result.StepsTaken).To(Equal(steps))
		Expect(result.Times).To(HaveLen(steps))
		Expect(result.Setpoints).To(HaveLen(steps))
		Expect(result.Outputs).To(HaveLen(steps))
		Expect(result.Controls).To(HaveLen(steps))
		Expect(result.States).To(HaveLen(steps))
	})

	It("derives the tracking error from setpoints and outputs", func() {
		result, err := r.Run(context.Background(), loop.State{0}, cfg)
		Expect(err).NotTo(HaveOccurred())

		e := result.TrackingError()
		Expect(e).To(HaveLen(len(result.Times)))
		Expect(e[0]).To(Equal(result.Setpoints[0] - result.Outputs[0]))
	})

	It("collects metric values", func() {
		m := &countMetric{}
		r.AddMetric(m)

		result, err := r.Run(context.Background(), loop.State{0}, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Metrics["samples"]).To(Equal(float64(result.StepsTaken)))
	})

	It("stops when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := r.Run(ctx, loop.State{0}, cfg)
		Expect(err).To(MatchError(context.Canceled))
	})

	It("aborts on a NaN state and records the failure", func() {
		r = loop.New(&exploding{}, &euler{}, ctrl, setpoint.NewConstant(1.0))

		result, err := r.Run(context.Background(), loop.State{0}, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.StepsTaken).To(Equal(1))
		Expect(result.Errors).To(HaveLen(1))
		Expect(result.Errors[0]).To(MatchError(loop.ErrInvalidState))
	})

	Describe("RunWithCallback", func() {
		It("streams samples until the callback declines", func() {
			seen := 0
			err := r.RunWithCallback(context.Background(), loop.State{0}, cfg, func(s loop.Sample) bool {
				seen++
				return seen < 10
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(seen).To(Equal(10))
		})
	})

	Describe("None controller", func() {
		It("leaves the plant uncontrolled", func() {
			r = loop.New(&firstOrder{}, &euler{}, loop.NewNone(), setpoint.NewConstant(1.0))

			result, err := r.Run(context.Background(), loop.State{0}, cfg)
			Expect(err).NotTo(HaveOccurred())

			for _, u := range result.Controls {
				Expect(u).To(BeZero())
			}
			Expect(result.Outputs[len(result.Outputs)-1]).To(BeNumerically("~", 0.0, 1e-9))
		})
	})
})
