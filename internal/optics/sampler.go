package optics

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/fresnel/internal/quad"
	"go.uber.org/zap"
)

type Sampler struct {
	src Source
	cfg Config
	log *zap.Logger
}

func NewSampler(src Source, cfg Config, log *zap.Logger) *Sampler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sampler{src: src, cfg: cfg, log: log}
}

func (s *Sampler) Source() Source { return s.src }
func (s *Sampler) Config() Config { return s.cfg }

// Profile samples the intensity |A|² of the 1-D slit integral at points
// evenly spaced screen coordinates.
func (s *Sampler) Profile(ctx context.Context, distance float64, points int, screen [2]float64) (*Profile, error) {
	if err := s.src.Validate(); err != nil {
		return nil, err
	}
	kernel, err := s.src.Kernel(distance)
	if err != nil {
		return nil, err
	}
	xs, err := Axis(points, screen)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	samples := make([]FieldSample, points)
	lo, hi := s.src.Limits[0], s.src.Limits[1]

	err = forEachRow(ctx, points, s.cfg.Workers, func(i int) error {
		x := xs[i]
		amp, err := quad.Simpson(s.cfg.ProfileTerms, kernel.At(x).Eval, lo, hi)
		if err != nil {
			return &SampleError{X: x, Distance: distance, Wrapped: err}
		}
		samples[i] = FieldSample{X: x, Amplitude: amp, Intensity: intensity(amp)}
		return nil
	})
	if err != nil {
		s.log.Error("profile failed", zap.Float64("distance", distance), zap.Error(err))
		return nil, err
	}

	p := &Profile{Distance: distance, Samples: samples, Elapsed: time.Since(start)}
	s.log.Info("profile sampled",
		zap.Float64("distance", distance),
		zap.Int("points", points),
		zap.Duration("elapsed", p.Elapsed),
	)
	return p, nil
}

// Map samples a points×points grid over screen² using the separable double
// integral across the aperture. Amplitudes are scaled by E/(zλ).
func (s *Sampler) Map(ctx context.Context, distance float64, points int, screen [2]float64) (*Map, error) {
	if err := s.src.Validate(); err != nil {
		return nil, err
	}
	if s.src.Aperture == nil {
		return nil, fmt.Errorf("%w: 2-D map requires an aperture shape", ErrConfiguration)
	}
	kernel, err := s.src.Kernel(distance)
	if err != nil {
		return nil, err
	}
	axis, err := Axis(points, screen)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	scale := complex(s.src.FieldStrength/(distance*s.src.Wavelength), 0)
	samples := make([][]FieldSample, points)
	lo, hi := s.src.Limits[0], s.src.Limits[1]
	nx, ny := s.cfg.innerTerms(), s.cfg.MapTerms

	err = forEachRow(ctx, points, s.cfg.Workers, func(i int) error {
		row := make([]FieldSample, points)
		x := axis[i]
		xphase := kernel.At(x)
		for j, y := range axis {
			yphase := kernel.At(y)
			amp, err := quad.DoubleN(nx, ny, xphase.Eval, yphase.Eval, s.src.Aperture, lo, hi)
			if err != nil {
				return &SampleError{X: x, Y: y, Distance: distance, Wrapped: err}
			}
			amp *= scale
			v := intensity(amp)
			if s.cfg.SquareMapIntensity {
				v *= v
			}
			row[j] = FieldSample{X: x, Y: y, Amplitude: amp, Intensity: v}
		}
		samples[i] = row
		return nil
	})
	if err != nil {
		s.log.Error("map failed", zap.Float64("distance", distance), zap.Error(err))
		return nil, err
	}

	m := &Map{Distance: distance, Axis: axis, Samples: samples, Elapsed: time.Since(start)}
	s.log.Info("map sampled",
		zap.Float64("distance", distance),
		zap.Int("points", points),
		zap.String("aperture", s.src.Aperture.Kind().String()),
		zap.Int("workers", s.cfg.Workers),
		zap.Duration("elapsed", m.Elapsed),
	)
	return m, nil
}

func intensity(a complex128) float64 {
	return real(a)*real(a) + imag(a)*imag(a)
}
