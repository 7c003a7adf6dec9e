package optics

import (
	"math"
	"math/cmplx"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fresnel/internal/aperture"
)

var _ = Describe("Source", func() {
	square := aperture.Square{HalfWidth: 1e-4}

	It("accepts a consistent configuration", func() {
		src, err := NewSource(5e-7, 1, square, [2]float64{-1e-4, 1e-4})
		Expect(err).NotTo(HaveOccurred())
		Expect(src.WaveNumber()).To(BeNumerically("~", 2*math.Pi/5e-7, 1e-3))
	})

	DescribeTable("rejects inconsistent configurations",
		func(wavelength, field float64, limits [2]float64) {
			_, err := NewSource(wavelength, field, square, limits)
			Expect(err).To(MatchError(ErrConfiguration))
		},
		Entry("zero wavelength", 0.0, 1.0, [2]float64{-1, 1}),
		Entry("negative wavelength", -5e-7, 1.0, [2]float64{-1, 1}),
		Entry("infinite field", 5e-7, math.Inf(1), [2]float64{-1, 1}),
		Entry("equal limits", 5e-7, 1.0, [2]float64{1, 1}),
		Entry("inverted limits", 5e-7, 1.0, [2]float64{1, -1}),
	)
})

var _ = Describe("Kernel", func() {
	src := Source{Wavelength: 5e-7, FieldStrength: 1, Limits: [2]float64{-1e-4, 1e-4}}

	It("has unit modulus", func() {
		for _, d := range []float64{1e-6, 5e-3, 1.5e-2, 10} {
			k, err := src.Kernel(d)
			Expect(err).NotTo(HaveOccurred())
			for _, sx := range []float64{-1e-3, -1e-4, 0, 3e-5, 2e-3} {
				for _, ax := range []float64{-1e-4, 0, 7e-5} {
					Expect(cmplx.Abs(k.Phase(sx, ax))).To(BeNumerically("~", 1, 1e-12))
				}
			}
		}
	})

	It("matches the quadratic phase", func() {
		k, err := src.Kernel(5e-3)
		Expect(err).NotTo(HaveOccurred())
		want := src.WaveNumber() * 1e-8 / (2 * 5e-3)
		Expect(cmplx.Phase(k.Phase(1e-4, 0)) - math.Remainder(want, 2*math.Pi)).To(BeNumerically("~", 0, 1e-9))
		Expect(k.Phase(2e-5, 2e-5)).To(Equal(complex(1, 0)))
	})

	It("binds the screen coordinate by value", func() {
		k, _ := src.Kernel(5e-3)
		integrands := make([]Integrand, 0, 3)
		for _, x := range []float64{-1e-4, 0, 1e-4} {
			integrands = append(integrands, k.At(x))
		}
		Expect(integrands[0].Eval(0)).To(Equal(k.Phase(-1e-4, 0)))
		Expect(integrands[2].Eval(0)).To(Equal(k.Phase(1e-4, 0)))
	})

	DescribeTable("rejects non-positive distances",
		func(d float64) {
			_, err := src.Kernel(d)
			Expect(err).To(MatchError(ErrDomain))
		},
		Entry("zero", 0.0),
		Entry("negative", -1e-3),
		Entry("NaN", math.NaN()),
		Entry("infinite", math.Inf(1)),
	)
})
