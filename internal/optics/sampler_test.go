package optics

import (
	"context"
	"errors"
	"math"
	"math/cmplx"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fresnel/internal/aperture"
	"github.com/san-kum/fresnel/internal/quad"
)

const (
	lambda = 5e-7
	r      = 1e-4
)

var screen = [2]float64{-1e-4, 1e-4}

func newSampler(shape aperture.Shape, limits [2]float64, cfg Config) *Sampler {
	src, err := NewSource(lambda, 1, shape, limits)
	Expect(err).NotTo(HaveOccurred())
	return NewSampler(src, cfg, nil)
}

func smallMapConfig() Config {
	cfg := DefaultConfig()
	cfg.MapTerms = 12
	return cfg
}

var _ = Describe("Axis", func() {
	It("spans the limits inclusively", func() {
		xs, err := Axis(5, [2]float64{-2, 2})
		Expect(err).NotTo(HaveOccurred())
		Expect(xs).To(Equal([]float64{-2, -1, 0, 1, 2}))
	})

	It("centres a single point", func() {
		xs, err := Axis(1, [2]float64{-1, 3})
		Expect(err).NotTo(HaveOccurred())
		Expect(xs).To(Equal([]float64{1}))
	})

	It("rejects empty or inverted grids", func() {
		_, err := Axis(0, screen)
		Expect(err).To(MatchError(ErrConfiguration))
		_, err = Axis(10, [2]float64{1, -1})
		Expect(err).To(MatchError(ErrConfiguration))
	})
})

var _ = Describe("Sampler", func() {
	ctx := context.Background()

	Describe("Profile", func() {
		var s *Sampler

		BeforeEach(func() {
			s = newSampler(aperture.Square{HalfWidth: r}, [2]float64{-r, r}, DefaultConfig())
		})

		It("produces one sample per screen point", func() {
			p, err := s.Profile(ctx, 5e-3, 75, screen)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Samples).To(HaveLen(75))
			Expect(p.Samples[0].X).To(Equal(screen[0]))
			Expect(p.Samples[74].X).To(Equal(screen[1]))
			Expect(p.Samples[37].X).To(BeNumerically("~", 0, 1e-18))
			Expect(p.Distance).To(Equal(5e-3))
		})

		It("records the squared modulus of the amplitude", func() {
			p, err := s.Profile(ctx, 5e-3, 11, screen)
			Expect(err).NotTo(HaveOccurred())
			for _, smp := range p.Samples {
				a := cmplx.Abs(smp.Amplitude)
				Expect(smp.Intensity).To(BeNumerically("~", a*a, 1e-12*a*a+1e-30))
			}
		})

		It("is symmetric about the screen centre", func() {
			p, err := s.Profile(ctx, 5e-3, 75, screen)
			Expect(err).NotTo(HaveOccurred())
			_, ys := p.XY()
			peak := ys[p.Peak()]
			for i := range ys {
				Expect(ys[i]).To(BeNumerically("~", ys[len(ys)-1-i], 1e-9*peak))
			}
		})

		It("peaks off axis inside the near-field region", func() {
			// Fresnel number a²/(λz) = 4: the centre is a local minimum.
			p, err := s.Profile(ctx, 5e-3, 75, screen)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Peak()).To(BeElementOf(14, 60))
			Expect(p.Samples[37].Intensity).To(BeNumerically("<", p.Samples[36].Intensity))
		})

		It("peaks on axis once the Fresnel number drops below one", func() {
			p, err := s.Profile(ctx, 2e-2, 75, screen)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Peak()).To(BeElementOf(36, 37, 38))
		})

		It("propagates an invalid term count", func() {
			cfg := DefaultConfig()
			cfg.ProfileTerms = 99
			s := newSampler(nil, [2]float64{-r, r}, cfg)
			_, err := s.Profile(ctx, 5e-3, 5, screen)
			Expect(err).To(MatchError(quad.ErrInvalidTermCount))

			var se *SampleError
			Expect(errors.As(err, &se)).To(BeTrue())
			Expect(se.X).To(Equal(screen[0]))
		})

		It("rejects a zero distance before sampling", func() {
			_, err := s.Profile(ctx, 0, 5, screen)
			Expect(err).To(MatchError(ErrDomain))
		})

		It("works without an aperture shape", func() {
			s := newSampler(nil, [2]float64{-r, r}, DefaultConfig())
			p, err := s.Profile(ctx, 5e-3, 7, screen)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Samples).To(HaveLen(7))
		})
	})

	Describe("Map", func() {
		It("approaches the geometric area in the far field", func() {
			s := newSampler(aperture.Square{HalfWidth: r}, [2]float64{-r, r}, smallMapConfig())
			m, err := s.Map(ctx, 1e3, 1, [2]float64{-1e-6, 1e-6})
			Expect(err).NotTo(HaveOccurred())

			want := 4 * r * r / (1e3 * lambda)
			Expect(cmplx.Abs(m.Samples[0][0].Amplitude)).To(BeNumerically("~", want, 1e-3*want))
		})

		It("squares the intensity twice when requested", func() {
			cfg := smallMapConfig()
			cfg.SquareMapIntensity = false
			single, err := newSampler(aperture.Square{HalfWidth: r}, [2]float64{-r, r}, cfg).Map(ctx, 5e-3, 3, screen)
			Expect(err).NotTo(HaveOccurred())

			cfg.SquareMapIntensity = true
			double, err := newSampler(aperture.Square{HalfWidth: r}, [2]float64{-r, r}, cfg).Map(ctx, 5e-3, 3, screen)
			Expect(err).NotTo(HaveOccurred())

			for i := range single.Samples {
				for j := range single.Samples[i] {
					v := single.Samples[i][j].Intensity
					Expect(double.Samples[i][j].Intensity).To(BeNumerically("~", v*v, 1e-12*v*v))
				}
			}
		})

		It("is symmetric for a square aperture", func() {
			s := newSampler(aperture.Square{HalfWidth: r}, [2]float64{-r, r}, smallMapConfig())
			m, err := s.Map(ctx, 5e-3, 7, screen)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Samples).To(HaveLen(7))

			grid := m.Intensity()
			tol := 1e-8 * m.Max()
			for i := range grid {
				Expect(grid[i]).To(HaveLen(7))
				for j := range grid[i] {
					Expect(grid[i][j]).To(BeNumerically("~", grid[j][i], tol))
					Expect(grid[i][j]).To(BeNumerically("~", grid[6-i][j], tol))
				}
			}
		})

		It("gives identical results with parallel rows", func() {
			cfg := smallMapConfig()
			seq, err := newSampler(aperture.Triangle{HalfBase: r}, [2]float64{-0.5 * r, r}, cfg).Map(ctx, 2.5e-3, 6, screen)
			Expect(err).NotTo(HaveOccurred())

			cfg.Workers = 4
			par, err := newSampler(aperture.Triangle{HalfBase: r}, [2]float64{-0.5 * r, r}, cfg).Map(ctx, 2.5e-3, 6, screen)
			Expect(err).NotTo(HaveOccurred())
			Expect(par.Samples).To(Equal(seq.Samples))
		})

		It("honours a decoupled inner term count", func() {
			cfg := smallMapConfig()
			cfg.InnerTerms = 7
			s := newSampler(aperture.Square{HalfWidth: r}, [2]float64{-r, r}, cfg)
			_, err := s.Map(ctx, 5e-3, 2, screen)
			Expect(err).To(MatchError(quad.ErrInvalidTermCount))
		})

		It("surfaces circle bounds evaluated outside the radius", func() {
			s := newSampler(aperture.Circle{Radius: r}, [2]float64{-1.5 * r, 1.5 * r}, smallMapConfig())
			_, err := s.Map(ctx, 5e-3, 3, screen)
			Expect(err).To(MatchError(aperture.ErrDomain))

			var se *SampleError
			Expect(errors.As(err, &se)).To(BeTrue())
			Expect(se.X).To(Equal(screen[0]))
			Expect(se.Y).To(Equal(screen[0]))
		})

		It("reports the same failing point with parallel rows", func() {
			cfg := smallMapConfig()
			cfg.Workers = 3
			s := newSampler(aperture.Circle{Radius: r}, [2]float64{-1.5 * r, 1.5 * r}, cfg)
			_, err := s.Map(ctx, 5e-3, 4, screen)

			var se *SampleError
			Expect(errors.As(err, &se)).To(BeTrue())
			Expect(se.X).To(Equal(screen[0]))
		})

		It("detects inverted bounds past the triangle apex", func() {
			s := newSampler(aperture.Triangle{HalfBase: r}, [2]float64{-0.5 * r, 2 * r}, smallMapConfig())
			_, err := s.Map(ctx, 5e-3, 2, screen)
			Expect(err).To(MatchError(quad.ErrInvertedBounds))
		})

		It("requires an aperture shape", func() {
			s := newSampler(nil, [2]float64{-r, r}, smallMapConfig())
			_, err := s.Map(ctx, 5e-3, 2, screen)
			Expect(err).To(MatchError(ErrConfiguration))
		})

		It("stops on a cancelled context", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			s := newSampler(aperture.Square{HalfWidth: r}, [2]float64{-r, r}, smallMapConfig())
			_, err := s.Map(cctx, 5e-3, 3, screen)
			Expect(err).To(MatchError(context.Canceled))
		})

		It("keeps intensities finite and non-negative", func() {
			s := newSampler(aperture.Circle{Radius: r}, [2]float64{-r, r}, smallMapConfig())
			m, err := s.Map(ctx, 1e-2, 5, screen)
			Expect(err).NotTo(HaveOccurred())
			for _, row := range m.Intensity() {
				for _, v := range row {
					Expect(math.IsNaN(v) || math.IsInf(v, 0)).To(BeFalse())
					Expect(v).To(BeNumerically(">=", 0))
				}
			}
		})
	})
})
