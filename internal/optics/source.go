package optics

import (
	"fmt"
	"math"

	"github.com/san-kum/fresnel/internal/aperture"
)

// Source is the immutable configuration of one diffraction run.
type Source struct {
	Wavelength    float64
	FieldStrength float64
	// Aperture is nil when only the 1-D slit integral is needed.
	Aperture aperture.Shape
	// Limits bounds the outer integration variable.
	Limits [2]float64
}

func NewSource(wavelength, fieldStrength float64, shape aperture.Shape, limits [2]float64) (Source, error) {
	s := Source{
		Wavelength:    wavelength,
		FieldStrength: fieldStrength,
		Aperture:      shape,
		Limits:        limits,
	}
	return s, s.Validate()
}

func (s Source) Validate() error {
	if !(s.Wavelength > 0) || math.IsInf(s.Wavelength, 0) {
		return fmt.Errorf("%w: wavelength must be positive, got %g", ErrConfiguration, s.Wavelength)
	}
	if math.IsNaN(s.FieldStrength) || math.IsInf(s.FieldStrength, 0) {
		return fmt.Errorf("%w: field strength must be finite, got %g", ErrConfiguration, s.FieldStrength)
	}
	if !(s.Limits[0] < s.Limits[1]) {
		return fmt.Errorf("%w: aperture limits must be increasing, got [%g, %g]", ErrConfiguration, s.Limits[0], s.Limits[1])
	}
	return nil
}

// WaveNumber returns k = 2π/λ.
func (s Source) WaveNumber() float64 {
	return 2 * math.Pi / s.Wavelength
}
