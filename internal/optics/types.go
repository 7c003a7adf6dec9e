package optics

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Config holds the numerical settings of a Sampler.
type Config struct {
	// ProfileTerms is the Simpson term count of the 1-D profile integral.
	ProfileTerms int
	// MapTerms is the term count of the outer pass of the 2-D map integral.
	MapTerms int
	// InnerTerms is the term count of the inner pass; zero means MapTerms.
	InnerTerms int
	// SquareMapIntensity stores (|A|²)² for map samples instead of |A|².
	SquareMapIntensity bool
	// Workers is the number of concurrently evaluated rows; <= 1 is sequential.
	Workers int
}

func DefaultConfig() Config {
	return Config{
		ProfileTerms:       100,
		MapTerms:           50,
		SquareMapIntensity: true,
		Workers:            1,
	}
}

func (c Config) innerTerms() int {
	if c.InnerTerms == 0 {
		return c.MapTerms
	}
	return c.InnerTerms
}

// FieldSample is the field at one screen point.
type FieldSample struct {
	X         float64
	Y         float64
	Amplitude complex128
	Intensity float64
}

type Profile struct {
	Distance float64
	Samples  []FieldSample
	Elapsed  time.Duration
}

// XY splits the profile into screen coordinates and intensities.
func (p *Profile) XY() (xs, ys []float64) {
	xs = make([]float64, len(p.Samples))
	ys = make([]float64, len(p.Samples))
	for i, s := range p.Samples {
		xs[i] = s.X
		ys[i] = s.Intensity
	}
	return xs, ys
}

// Peak returns the index of the brightest sample, or -1 for an empty profile.
func (p *Profile) Peak() int {
	if len(p.Samples) == 0 {
		return -1
	}
	_, ys := p.XY()
	return floats.MaxIdx(ys)
}

// Map is a square grid of samples indexed [i][j], i along x and j along y.
type Map struct {
	Distance float64
	Axis     []float64
	Samples  [][]FieldSample
	Elapsed  time.Duration
}

func (m *Map) Intensity() [][]float64 {
	out := make([][]float64, len(m.Samples))
	for i, row := range m.Samples {
		out[i] = make([]float64, len(row))
		for j, s := range row {
			out[i][j] = s.Intensity
		}
	}
	return out
}

func (m *Map) Max() float64 {
	maxV := 0.0
	for _, row := range m.Samples {
		for _, s := range row {
			if s.Intensity > maxV {
				maxV = s.Intensity
			}
		}
	}
	return maxV
}

// Axis returns points evenly spaced coordinates from limits[0] to limits[1]
// inclusive. A single point sits at the centre.
func Axis(points int, limits [2]float64) ([]float64, error) {
	if points < 1 {
		return nil, fmt.Errorf("%w: point count must be positive, got %d", ErrConfiguration, points)
	}
	if !(limits[0] < limits[1]) {
		return nil, fmt.Errorf("%w: screen limits must be increasing, got [%g, %g]", ErrConfiguration, limits[0], limits[1])
	}
	if points == 1 {
		return []float64{(limits[0] + limits[1]) / 2}, nil
	}

	xs := make([]float64, points)
	step := (limits[1] - limits[0]) / float64(points-1)
	for i := range xs {
		xs[i] = limits[0] + float64(i)*step
	}
	xs[points-1] = limits[1]
	return xs, nil
}
