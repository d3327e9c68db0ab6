package experiment_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/heatsim/internal/analytic"
	"github.com/san-kum/heatsim/internal/experiment"
	"github.com/san-kum/heatsim/internal/rod"
)

func rodParams(alpha, tFinal float64, nx int, dt float64) rod.Params {
	return rod.Params{
		Length:   1,
		Alpha:    alpha,
		TFinal:   tFinal,
		Points:   nx,
		Dt:       dt,
		Boundary: rod.Boundary{Left: 100, Right: 0},
		Initial:  rod.Uniform(20),
	}
}

func sineParams(alpha, tFinal float64, nx int, dt float64) rod.Params {
	p := rod.Params{
		Length:  1,
		Alpha:   alpha,
		TFinal:  tFinal,
		Points:  nx,
		Dt:      dt,
		Initial: analytic.Sine(1),
	}
	return p
}

func linearProfile(nx int) rod.Field {
	f := make(rod.Field, nx)
	for i := range f {
		f[i] = 100 * (1 - float64(i)/float64(nx-1))
	}
	return f
}

var _ = Describe("Registry", func() {
	It("lists both schemes in order", func() {
		Expect(experiment.NewRegistry().ListSchemes()).To(Equal([]string{"explicit", "implicit"}))
	})

	It("marks only the explicit scheme as conditionally stable", func() {
		r := experiment.NewRegistry()
		Expect(r.ConditionallyStable("explicit")).To(BeTrue())
		Expect(r.ConditionallyStable("implicit")).To(BeFalse())
	})

	It("rejects unknown schemes with a configuration error", func() {
		_, err := experiment.NewRegistry().GetStepper("crank-nicolson", rodParams(1e-4, 1, 11, 0.1))
		Expect(err).To(MatchError(rod.ErrConfig))
	})
})

var _ = Describe("Run", func() {
	It("reproduces the uniform-rod scenario", func() {
		rep, err := experiment.New(experiment.Config{
			Name:   "scenario",
			Scheme: "explicit",
			Params: rodParams(1e-4, 150, 51, 0.1),
		}).Run()
		Expect(err).NotTo(HaveOccurred())

		Expect(rep.Steps).To(Equal(1500))
		Expect(rep.Stability.Fourier).To(BeNumerically("~", 0.025, 1e-12))
		Expect(rep.Stability.Exceeded).To(BeFalse())
		Expect(rep.Final[0]).To(Equal(100.0))
		Expect(rep.Final[50]).To(Equal(0.0))
		for i := 1; i < 50; i++ {
			Expect(rep.Final[i]).To(BeNumerically(">", 0))
			Expect(rep.Final[i]).To(BeNumerically("<", 100))
			Expect(rep.Final[i]).To(BeNumerically("<=", rep.Final[i-1]))
		}
		Expect(rep.Metrics["bounded"]).To(Equal(1.0))
		Expect(rep.Verified()).To(BeFalse())
		Expect(rep.Positions).To(HaveLen(51))
	})

	DescribeTable("reaches the linear steady state",
		func(scheme string, dt float64) {
			rep, err := experiment.New(experiment.Config{
				Scheme: scheme,
				Params: rodParams(1e-2, 1500, 21, dt),
			}).Run()
			Expect(err).NotTo(HaveOccurred())

			want := linearProfile(21)
			for i := range want {
				Expect(rep.Final[i]).To(BeNumerically("~", want[i], 1e-2))
			}
		},
		Entry("explicit", "explicit", 0.1),
		Entry("implicit", "implicit", 1.0),
	)

	It("keeps the initial field when t_final is zero", func() {
		rep, err := experiment.New(experiment.Config{
			Scheme:      "implicit",
			Params:      rodParams(1e-4, 0, 11, 1),
			SampleEvery: 1,
		}).Run()
		Expect(err).NotTo(HaveOccurred())
		Expect(rep.Steps).To(BeZero())
		Expect(rep.Final).To(Equal(rep.Initial))
		Expect(rep.Snapshots).To(HaveLen(1))
	})

	It("records snapshots at the sampling interval", func() {
		rep, err := experiment.New(experiment.Config{
			Scheme:      "explicit",
			Params:      rodParams(1e-4, 250, 51, 0.1),
			SampleEvery: 10,
		}).Run()
		Expect(err).NotTo(HaveOccurred())
		Expect(rep.Snapshots).To(HaveLen(251))
		Expect(rep.Snapshots[0].Time).To(BeZero())
		Expect(rep.Snapshots[250].Time).To(BeNumerically("~", 250, 1e-9))
		Expect(rep.Snapshots[250].Field).To(Equal(rep.Final))
	})

	It("is deterministic", func() {
		cfg := experiment.Config{
			Scheme:      "explicit",
			Params:      rodParams(1e-4, 50, 51, 0.1),
			SampleEvery: 25,
		}
		a, err := experiment.New(cfg).Run()
		Expect(err).NotTo(HaveOccurred())
		b, err := experiment.New(cfg).Run()
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Final).To(Equal(b.Final))
		Expect(a.Snapshots).To(Equal(b.Snapshots))
	})

	It("rejects invalid parameters before stepping", func() {
		p := rodParams(1e-4, 10, 2, 0.1)
		_, err := experiment.New(experiment.Config{Scheme: "explicit", Params: p}).Run()
		var cerr *rod.ConfigError
		Expect(errors.As(err, &cerr)).To(BeTrue())
		Expect(cerr.Field).To(Equal("nx"))
	})

	Context("when the Fourier number exceeds the limit", func() {
		params := rodParams(1e-2, 10, 11, 1)

		It("warns and still runs by default", func() {
			rep, err := experiment.New(experiment.Config{Scheme: "explicit", Params: params}).Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(rep.Stability.Exceeded).To(BeTrue())
			Expect(rep.Stability.Fourier).To(BeNumerically("~", 1, 1e-12))
		})

		It("fails in strict mode", func() {
			_, err := experiment.New(experiment.Config{Scheme: "explicit", Params: params, Strict: true}).Run()
			Expect(err).To(MatchError(rod.ErrUnstable))
		})

		It("does not apply the limit to the implicit scheme", func() {
			rep, err := experiment.New(experiment.Config{Scheme: "implicit", Params: params, Strict: true}).Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(rep.Metrics["bounded"]).To(Equal(1.0))
		})
	})
})

var _ = Describe("Verification", func() {
	DescribeTable("tracks the decaying sine mode",
		func(scheme string, dt, tFinal, tol float64) {
			rep, err := experiment.New(experiment.Config{
				Scheme: scheme,
				Params: sineParams(1e-4, tFinal, 51, dt),
				Verify: true,
			}).Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(rep.Verified()).To(BeTrue())
			Expect(rep.Analytical).To(HaveLen(51))

			peak := math.Exp(-1e-4 * math.Pi * math.Pi * tFinal)
			Expect(rep.Analytical[25]).To(BeNumerically("~", peak, 1e-12))
			Expect(rep.MaxError).To(BeNumerically("<", tol))
			Expect(rep.RMSError).To(BeNumerically("<=", rep.MaxError))
		},
		Entry("explicit", "explicit", 0.1, 500.0, 1e-3),
		Entry("implicit", "implicit", 1.0, 1000.0, 1e-3),
	)

	It("refuses non-zero boundaries", func() {
		_, err := experiment.New(experiment.Config{
			Scheme: "explicit",
			Params: rodParams(1e-4, 10, 11, 0.1),
			Verify: true,
		}).Run()
		Expect(err).To(MatchError(rod.ErrConfig))
	})
})

var _ = Describe("Converge", func() {
	DescribeTable("reduces the error with every refinement",
		func(scheme string) {
			levels, err := experiment.Converge(experiment.Config{
				Name:   "study",
				Scheme: scheme,
				Params: sineParams(1e-4, 500, 11, 10),
			}, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(levels).To(HaveLen(3))

			Expect(levels[0].Points).To(Equal(11))
			Expect(levels[1].Points).To(Equal(21))
			Expect(levels[2].Points).To(Equal(41))
			Expect(levels[2].Dt).To(BeNumerically("~", 0.625, 1e-12))
			for i := range levels {
				Expect(levels[i].Fourier).To(BeNumerically("~", levels[0].Fourier, 1e-12))
			}
			for i := 1; i < len(levels); i++ {
				Expect(levels[i].MaxError).To(BeNumerically("<", levels[i-1].MaxError), "level %d", i)
				// dt shrinks with dx^2, so both schemes refine at second order in dx.
				Expect(levels[i].Order).To(BeNumerically("~", 2, 0.1), "level %d", i)
			}
		},
		Entry("explicit", "explicit"),
		Entry("implicit", "implicit"),
	)

	It("requires at least one level", func() {
		_, err := experiment.Converge(experiment.Config{Scheme: "explicit", Params: sineParams(1e-4, 1, 11, 1)}, 0)
		Expect(err).To(HaveOccurred())
	})
})
