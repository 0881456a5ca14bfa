package trajectory_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dragsim/internal/dynamo"
	"github.com/san-kum/dragsim/internal/physics"
	"github.com/san-kum/dragsim/internal/trajectory"
)

var _ = Describe("Galileo", func() {
	const g = 9.81

	galileo := func(p physics.Params, opts trajectory.GalileoOptions) (*trajectory.Trajectory, trajectory.Landing, error) {
		return trajectory.Galileo(p.AlphaRad(), p.V0, p.G, p.X0, p.Y0, opts)
	}

	Context("with the default launch", func() {
		var (
			tr      *trajectory.Trajectory
			landing trajectory.Landing
		)

		BeforeEach(func() {
			var err error
			tr, landing, err = galileo(physics.DefaultParams(), trajectory.GalileoOptions{})
			Expect(err).NotTo(HaveOccurred())
		})

		It("reports the textbook landing values", func() {
			Expect(landing.X).To(BeNumerically("~", 0.10194, 1e-5))
			Expect(landing.T).To(BeNumerically("~", 0.14409, 1e-4))
			Expect(landing.T).To(BeNumerically("~", 2*math.Sin(math.Pi/4)/g, 1e-12))
			Expect(landing.YMax).To(BeNumerically("~", 0.02548, 1e-5))
		})

		It("samples 600 points ending exactly on the ground", func() {
			Expect(tr.Len()).To(Equal(trajectory.DefaultPoints))
			Expect(tr.Model).To(Equal(trajectory.ModelGalileo))

			last := tr.Last()
			Expect(last.Y).To(Equal(0.0))
			Expect(last.T).To(Equal(landing.T))
			Expect(last.X).To(Equal(landing.X))
			Expect(tr.Samples[0].T).To(Equal(0.0))
		})

		It("keeps times increasing", func() {
			ts := tr.Times()
			for i := 1; i < len(ts); i++ {
				Expect(ts[i]).To(BeNumerically(">", ts[i-1]))
			}
		})

		It("takes y_max from the samples", func() {
			Expect(landing.YMax).To(Equal(tr.MaxHeight()))
			Expect(landing.YMax).To(BeNumerically("<=", 0.5/(2*g)))
		})
	})

	DescribeTable("matches the range formula v0^2 sin(2a)/g",
		func(alphaDeg, v0 float64) {
			p := physics.DefaultParams()
			p.AlphaDeg, p.V0 = alphaDeg, v0

			_, landing, err := galileo(p, trajectory.GalileoOptions{})
			Expect(err).NotTo(HaveOccurred())

			want := v0 * v0 * math.Sin(2*p.AlphaRad()) / g
			Expect(math.Abs(landing.X-want) / want).To(BeNumerically("<", 1e-9))
		},
		Entry("shallow", 5.0, 3.0),
		Entry("default", 45.0, 1.0),
		Entry("steep", 80.0, 20.0),
		Entry("fast", 30.0, 250.0),
	)

	It("lands exactly at y = 0 from an elevated launch", func() {
		p := physics.DefaultParams()
		p.Y0 = 2.5

		tr, landing, err := galileo(p, trajectory.GalileoOptions{NPoints: 50})
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Len()).To(Equal(50))
		Expect(tr.Last().Y).To(Equal(0.0))

		b := p.V0 * math.Sin(p.AlphaRad())
		yAtLanding := p.Y0 + b*landing.T - 0.5*g*landing.T*landing.T
		Expect(yAtLanding).To(BeNumerically("~", 0, 1e-12))
	})

	It("reports the analytic apex when asked", func() {
		p := physics.DefaultParams()

		_, sampled, err := galileo(p, trajectory.GalileoOptions{NPoints: 4})
		Expect(err).NotTo(HaveOccurred())
		_, exact, err := galileo(p, trajectory.GalileoOptions{NPoints: 4, ExactApex: true})
		Expect(err).NotTo(HaveOccurred())

		Expect(exact.YMax).To(BeNumerically("~", 0.5/(2*g), 1e-15))
		Expect(sampled.YMax).To(BeNumerically("<", exact.YMax))
	})

	It("interpolates heights along the arc", func() {
		p := physics.DefaultParams()
		tr, landing, err := galileo(p, trajectory.GalileoOptions{NPoints: 2001})
		Expect(err).NotTo(HaveOccurred())

		// x = t/sqrt(2) and y = t/sqrt(2) - g t^2/2 at 45 degrees, v0 = 1.
		x := landing.X / 2
		t := x * math.Sqrt2
		y, ok := tr.HeightAt(x)
		Expect(ok).To(BeTrue())
		Expect(y).To(BeNumerically("~", x-0.5*g*t*t, 1e-6))

		_, ok = tr.HeightAt(landing.X + 0.1)
		Expect(ok).To(BeFalse())
	})

	DescribeTable("rejects degenerate launches with a DomainError",
		func(mutate func(*physics.Params)) {
			p := physics.DefaultParams()
			mutate(&p)

			tr, _, err := galileo(p, trajectory.GalileoOptions{})
			Expect(tr).To(BeNil())
			Expect(errors.Is(err, dynamo.ErrDomain)).To(BeTrue())

			var de *dynamo.DomainError
			Expect(errors.As(err, &de)).To(BeTrue())
			Expect(de.Reason).NotTo(BeEmpty())
		},
		Entry("vertical launch", func(p *physics.Params) { p.AlphaDeg = 90 }),
		Entry("negative discriminant", func(p *physics.Params) { p.Y0, p.V0 = -1, 0.1 }),
		Entry("no nonnegative root", func(p *physics.Params) { p.AlphaDeg, p.Y0 = -30, -0.01 }),
		Entry("no gravity", func(p *physics.Params) { p.G = 0 }),
	)
})
