package trajectory_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dragsim/internal/dynamo"
	"github.com/san-kum/dragsim/internal/integrators"
	"github.com/san-kum/dragsim/internal/physics"
	"github.com/san-kum/dragsim/internal/trajectory"
)

type countingObserver struct {
	calls int
	lastT float64
}

func (c *countingObserver) OnStep(x dynamo.State, t float64) {
	c.calls++
	c.lastT = t
}

var _ = Describe("Newton", func() {
	var (
		ctx context.Context
		p   physics.Params
	)

	BeforeEach(func() {
		ctx = context.Background()
		p = physics.DefaultParams()
	})

	galileoLanding := func(p physics.Params) trajectory.Landing {
		_, landing, err := trajectory.Galileo(p.AlphaRad(), p.V0, p.G, p.X0, p.Y0, trajectory.GalileoOptions{})
		Expect(err).NotTo(HaveOccurred())
		return landing
	}

	It("lands short of the drag-free range", func() {
		tr, landing, err := trajectory.Newton(ctx, p, trajectory.NewtonOptions{})
		Expect(err).NotTo(HaveOccurred())

		Expect(tr.Model).To(Equal(trajectory.ModelNewton))
		Expect(landing.X).To(BeNumerically(">", 0))
		Expect(landing.X).To(BeNumerically("<", galileoLanding(p).X))
		Expect(landing.YMax).To(BeNumerically("<", galileoLanding(p).YMax))
	})

	It("snaps the final sample onto the interpolated landing point", func() {
		tr, landing, err := trajectory.Newton(ctx, p, trajectory.NewtonOptions{Dt: 1e-2})
		Expect(err).NotTo(HaveOccurred())

		last := tr.Last()
		Expect(last.Y).To(Equal(0.0))
		Expect(last.T).To(Equal(landing.T))
		Expect(last.X).To(Equal(landing.X))

		prev := tr.Samples[tr.Len()-2]
		Expect(prev.Y).To(BeNumerically(">=", 0))
		Expect(landing.T).To(BeNumerically(">=", prev.T))
		Expect(landing.T).To(BeNumerically("<=", prev.T+1e-2+1e-12))
		Expect(landing.YMax).To(Equal(tr.MaxHeight()))
	})

	It("records the initial sample and one sample per step", func() {
		obs := &countingObserver{}
		tr, _, err := trajectory.Newton(ctx, p, trajectory.NewtonOptions{
			Dt:        1e-3,
			Observers: []dynamo.Observer{obs},
		})
		Expect(err).NotTo(HaveOccurred())

		first := tr.Samples[0]
		Expect(first.T).To(Equal(0.0))
		Expect(first.X).To(Equal(0.0))
		Expect(first.Y).To(Equal(0.0))
		Expect(first.U).To(BeNumerically("~", math.Sqrt2/2, 1e-15))
		Expect(first.W).To(BeNumerically("~", math.Sqrt2/2, 1e-15))
		Expect(obs.calls).To(Equal(tr.Len()))
	})

	It("converges to the Galileo landing as drag and dt vanish", func() {
		p.C = 0
		want := galileoLanding(p)

		errAt := func(dt float64) (float64, float64) {
			_, landing, err := trajectory.Newton(ctx, p, trajectory.NewtonOptions{Dt: dt})
			Expect(err).NotTo(HaveOccurred())
			return math.Abs(landing.T - want.T), math.Abs(landing.X - want.X)
		}

		coarseT, coarseX := errAt(1e-2)
		fineT, fineX := errAt(1e-4)

		Expect(fineT).To(BeNumerically("<", coarseT))
		Expect(fineX).To(BeNumerically("<", coarseX))
		Expect(fineT).To(BeNumerically("<", 1e-6))
		Expect(fineX).To(BeNumerically("<", 1e-6))
	})

	It("shortens the range as the drag coefficient grows", func() {
		prev := galileoLanding(p).X
		for _, c := range []float64{0.01, 0.05, 0.15, 0.5, 2.0} {
			p.C = c
			_, landing, err := trajectory.Newton(ctx, p, trajectory.NewtonOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(landing.X).To(BeNumerically("<", prev), "c=%g", c)
			prev = landing.X
		}
	})

	It("fails with a ConvergenceError when t_max is too short", func() {
		tr, _, err := trajectory.Newton(ctx, p, trajectory.NewtonOptions{TMax: 0.01})
		Expect(tr).To(BeNil())
		Expect(errors.Is(err, dynamo.ErrConvergence)).To(BeTrue())

		var ce *dynamo.ConvergenceError
		Expect(errors.As(err, &ce)).To(BeTrue())
		Expect(ce.TMax).To(Equal(0.01))
		Expect(ce.LastY).To(BeNumerically(">", 0))
	})

	It("ignores the launch sample when looking for the crossing", func() {
		p.AlphaDeg = -10
		_, _, err := trajectory.Newton(ctx, p, trajectory.NewtonOptions{TMax: 1})
		Expect(errors.Is(err, dynamo.ErrConvergence)).To(BeTrue())
	})

	It("refines the apex with ExactApex", func() {
		p.C = 0
		_, sampled, err := trajectory.Newton(ctx, p, trajectory.NewtonOptions{Dt: 1e-2})
		Expect(err).NotTo(HaveOccurred())
		_, exact, err := trajectory.Newton(ctx, p, trajectory.NewtonOptions{Dt: 1e-2, ExactApex: true})
		Expect(err).NotTo(HaveOccurred())

		Expect(exact.YMax).To(BeNumerically(">=", sampled.YMax))
		Expect(exact.YMax).To(BeNumerically("~", galileoLanding(p).YMax, 1e-4))
		Expect(exact.YMax).To(BeNumerically("~", 0.5/(2*p.G), 1e-9))
	})

	It("runs with any registered integrator", func() {
		for _, name := range integrators.Names() {
			integ, err := integrators.ByName(name)
			Expect(err).NotTo(HaveOccurred())

			_, landing, err := trajectory.Newton(ctx, p, trajectory.NewtonOptions{Integrator: integ})
			Expect(err).NotTo(HaveOccurred(), name)
			Expect(landing.X).To(BeNumerically("~", 0.07, 0.05), name)
		}
	})

	It("stops on a cancelled context", func() {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, _, err := trajectory.Newton(cancelled, p, trajectory.NewtonOptions{})
		Expect(err).To(MatchError(context.Canceled))
	})

	It("reports a diverged state", func() {
		p.V0 = math.Inf(1)
		_, _, err := trajectory.Newton(ctx, p, trajectory.NewtonOptions{})
		Expect(errors.Is(err, dynamo.ErrInvalidState)).To(BeTrue())
	})

	DescribeTable("rejects non-finite step settings",
		func(opts trajectory.NewtonOptions) {
			tr, _, err := trajectory.Newton(ctx, p, opts)
			Expect(tr).To(BeNil())
			Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
		},
		Entry("NaN dt", trajectory.NewtonOptions{Dt: math.NaN()}),
		Entry("infinite dt", trajectory.NewtonOptions{Dt: math.Inf(1)}),
		Entry("NaN t_max", trajectory.NewtonOptions{TMax: math.NaN()}),
		Entry("infinite t_max", trajectory.NewtonOptions{TMax: math.Inf(1)}),
	)
})

var _ = Describe("Finalize", func() {
	It("moves only the last sample onto the ground", func() {
		raw := []trajectory.Sample{
			{T: 0, X: 0, Y: 0, U: 1, W: 1},
			{T: 0.1, X: 0.1, Y: 0.05, U: 1, W: 0},
			{T: 0.2, X: 0.2, Y: -0.05, U: 1, W: -1},
		}

		out := trajectory.Finalize(raw, trajectory.Landing{T: 0.15, X: 0.15})

		Expect(out).To(HaveLen(3))
		Expect(out[2]).To(Equal(trajectory.Sample{T: 0.15, X: 0.15, Y: 0, U: 1, W: -1}))
		Expect(out[:2]).To(Equal(raw[:2]))
		Expect(raw[2].Y).To(Equal(-0.05))
	})

	It("tolerates an empty sequence", func() {
		Expect(trajectory.Finalize(nil, trajectory.Landing{})).To(BeEmpty())
	})
})
