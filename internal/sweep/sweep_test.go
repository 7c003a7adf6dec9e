package sweep

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/fresnel/internal/aperture"
	"github.com/san-kum/fresnel/internal/optics"
	"go.uber.org/goleak"
)

type recordingSink struct {
	profiles []float64
	maps     []float64
	fail     error
}

func (r *recordingSink) Profile(p *optics.Profile) error {
	r.profiles = append(r.profiles, p.Distance)
	return r.fail
}

func (r *recordingSink) Map(m *optics.Map) error {
	r.maps = append(r.maps, m.Distance)
	return r.fail
}

func newSampler(t *testing.T, shape aperture.Shape, cfg optics.Config) *optics.Sampler {
	t.Helper()
	src, err := optics.NewSource(5e-7, 1, shape, [2]float64{-1e-4, 1e-4})
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}
	return optics.NewSampler(src, cfg, nil)
}

func TestDistances(t *testing.T) {
	tests := []struct {
		z    float64
		n    int
		want []float64
	}{
		{5e-3, 3, []float64{5e-3, 1e-2, 1.5e-2}},
		{2.5e-3, 1, []float64{2.5e-3}},
		{1, 0, nil},
	}
	for _, tt := range tests {
		got := Distances(tt.z, tt.n)
		if len(got) != len(tt.want) {
			t.Fatalf("Distances(%g, %d) len = %d, want %d", tt.z, tt.n, len(got), len(tt.want))
		}
		for i := range got {
			if math.Abs(got[i]-tt.want[i]) > 1e-15 {
				t.Errorf("Distances(%g, %d)[%d] = %g, want %g", tt.z, tt.n, i, got[i], tt.want[i])
			}
		}
	}
}

func TestRunProfileSweep(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	s := New(newSampler(t, nil, optics.DefaultConfig()), ModeProfile, 9, [2]float64{-1e-4, 1e-4}, nil)
	sink := &recordingSink{}
	ds := Distances(5e-3, 3)

	results, err := s.Run(context.Background(), ds, sink)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, res := range results {
		if res.Distance != ds[i] {
			t.Errorf("result %d distance = %g, want %g", i, res.Distance, ds[i])
		}
		if res.Profile == nil || len(res.Profile.Samples) != 9 {
			t.Errorf("result %d: missing profile samples", i)
		}
		if res.Elapsed <= 0 {
			t.Errorf("result %d: elapsed not recorded", i)
		}
		sum := res.Summary()
		if sum.Peak <= 0 || sum.Mean <= 0 || sum.Mean > sum.Peak {
			t.Errorf("result %d: bad summary %+v", i, sum)
		}
	}
	if len(sink.profiles) != 3 || len(sink.maps) != 0 {
		t.Errorf("sink saw %d profiles and %d maps", len(sink.profiles), len(sink.maps))
	}
}

func TestRunMapSweep(t *testing.T) {
	cfg := optics.DefaultConfig()
	cfg.MapTerms = 10
	cfg.Workers = 2
	s := New(newSampler(t, aperture.Circle{Radius: 1e-4}, cfg), ModeMap, 4, [2]float64{-1e-4, 1e-4}, nil)
	sink := &recordingSink{}

	results, err := s.Run(context.Background(), []float64{5e-3, 1e-2}, sink)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 2 || results[1].Map == nil {
		t.Fatalf("unexpected results: %+v", results)
	}
	if got := len(results[0].Intensities()); got != 16 {
		t.Errorf("Intensities len = %d, want 16", got)
	}
	if len(sink.maps) != 2 {
		t.Errorf("sink saw %d maps, want 2", len(sink.maps))
	}
}

func TestRunAbortsOnFirstError(t *testing.T) {
	s := New(newSampler(t, nil, optics.DefaultConfig()), ModeProfile, 5, [2]float64{-1e-4, 1e-4}, nil)

	results, err := s.Run(context.Background(), []float64{5e-3, -1, 1e-2}, nil)
	if !errors.Is(err, optics.ErrDomain) {
		t.Fatalf("err = %v, want ErrDomain", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d completed results, want 1", len(results))
	}
}

func TestRunStopsOnSinkError(t *testing.T) {
	s := New(newSampler(t, nil, optics.DefaultConfig()), ModeProfile, 3, [2]float64{-1e-4, 1e-4}, nil)
	boom := errors.New("disk full")

	_, err := s.Run(context.Background(), Distances(5e-3, 3), &recordingSink{fail: boom})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := New(newSampler(t, nil, optics.DefaultConfig()), ModeProfile, 3, [2]float64{-1e-4, 1e-4}, nil)

	if _, err := s.Run(ctx, Distances(5e-3, 3), nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
