package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/fresnel/internal/optics"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

type Mode int

const (
	ModeProfile Mode = iota
	ModeMap
)

func (m Mode) String() string {
	if m == ModeMap {
		return "map"
	}
	return "profile"
}

// Sink receives each completed distance. Implementations render or persist
// the result; a returned error aborts the sweep.
type Sink interface {
	Profile(p *optics.Profile) error
	Map(m *optics.Map) error
}

type Result struct {
	Distance float64
	Profile  *optics.Profile
	Map      *optics.Map
	Elapsed  time.Duration
}

// Intensities flattens the result row by row.
func (r Result) Intensities() []float64 {
	if r.Profile != nil {
		_, ys := r.Profile.XY()
		return ys
	}
	if r.Map == nil {
		return nil
	}
	var out []float64
	for _, row := range r.Map.Intensity() {
		out = append(out, row...)
	}
	return out
}

type Summary struct {
	Peak   float64
	Mean   float64
	StdDev float64
}

func (r Result) Summary() Summary {
	vs := r.Intensities()
	if len(vs) == 0 {
		return Summary{}
	}
	var s Summary
	for _, v := range vs {
		if v > s.Peak {
			s.Peak = v
		}
	}
	s.Mean, s.StdDev = stat.MeanStdDev(vs, nil)
	return s
}

// Distances returns 1z, 2z, ... n·z.
func Distances(z float64, n int) []float64 {
	if n < 1 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i+1) * z
	}
	return out
}

type Sweep struct {
	sampler *optics.Sampler
	mode    Mode
	points  int
	screen  [2]float64
	log     *zap.Logger
}

func New(sampler *optics.Sampler, mode Mode, points int, screen [2]float64, log *zap.Logger) *Sweep {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sweep{sampler: sampler, mode: mode, points: points, screen: screen, log: log}
}

// Run samples every distance in order. The first failure stops the sweep and
// is returned together with the results completed so far.
func (s *Sweep) Run(ctx context.Context, distances []float64, sink Sink) ([]Result, error) {
	if s.sampler == nil {
		return nil, fmt.Errorf("sweep: no sampler")
	}
	results := make([]Result, 0, len(distances))

	for i, d := range distances {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		start := time.Now()
		res := Result{Distance: d}

		switch s.mode {
		case ModeMap:
			m, err := s.sampler.Map(ctx, d, s.points, s.screen)
			if err != nil {
				return results, fmt.Errorf("sweep step %d (z=%g): %w", i+1, d, err)
			}
			res.Map = m
		default:
			p, err := s.sampler.Profile(ctx, d, s.points, s.screen)
			if err != nil {
				return results, fmt.Errorf("sweep step %d (z=%g): %w", i+1, d, err)
			}
			res.Profile = p
		}
		res.Elapsed = time.Since(start)

		if sink != nil {
			var err error
			if res.Map != nil {
				err = sink.Map(res.Map)
			} else {
				err = sink.Profile(res.Profile)
			}
			if err != nil {
				return results, fmt.Errorf("sweep sink (z=%g): %w", d, err)
			}
		}

		s.log.Info("distance complete",
			zap.String("mode", s.mode.String()),
			zap.Int("step", i+1),
			zap.Float64("distance", d),
			zap.Duration("elapsed", res.Elapsed),
		)
		results = append(results, res)
	}
	return results, nil
}
