package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/san-kum/fresnel/internal/optics"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	vgdraw "gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const dpi = 96

var ErrFlatMap = errors.New("render: map has no intensity range")

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(12)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.X.Tick.Label.Font.Size = vg.Points(9)
	p.Y.Tick.Label.Font.Size = vg.Points(9)
	return p
}

func draw(p *plot.Plot, wPx, hPx int) image.Image {
	width := vg.Length(wPx) * vg.Inch / dpi
	height := vg.Length(hPx) * vg.Inch / dpi

	c := vgimg.New(width, height)
	p.Draw(vgdraw.New(c))
	return c.Image()
}

// ProfileImage plots intensity against screen position.
func ProfileImage(pr *optics.Profile, wPx, hPx int) (image.Image, error) {
	if len(pr.Samples) < 2 {
		return nil, fmt.Errorf("render: profile needs at least 2 samples, got %d", len(pr.Samples))
	}
	p := newPlot(fmt.Sprintf("Slit diffraction, z = %g m", pr.Distance), "screen position (m)", "intensity")
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(pr.Samples))
	for i, s := range pr.Samples {
		pts[i].X = s.X
		pts[i].Y = s.Intensity
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.Color = color.RGBA{B: 255, A: 255}
	p.Add(line)

	return draw(p, wPx, hPx), nil
}

// mapGrid exposes a Map as plotter.GridXYZ with columns along x.
type mapGrid struct{ m *optics.Map }

func (g mapGrid) Dims() (c, r int)   { return len(g.m.Axis), len(g.m.Axis) }
func (g mapGrid) Z(c, r int) float64 { return g.m.Samples[c][r].Intensity }
func (g mapGrid) X(c int) float64    { return g.m.Axis[c] }
func (g mapGrid) Y(r int) float64    { return g.m.Axis[r] }

// MapImage renders the intensity map as a heat map.
func MapImage(m *optics.Map, wPx, hPx int) (image.Image, error) {
	if len(m.Axis) < 2 {
		return nil, fmt.Errorf("render: heat map needs at least 2 points per axis, got %d", len(m.Axis))
	}
	lo, hi := m.Samples[0][0].Intensity, m.Samples[0][0].Intensity
	for _, row := range m.Samples {
		for _, s := range row {
			lo = min(lo, s.Intensity)
			hi = max(hi, s.Intensity)
		}
	}
	if hi == lo {
		return nil, ErrFlatMap
	}

	p := newPlot(fmt.Sprintf("Aperture diffraction, z = %g m", m.Distance), "x (m)", "y (m)")
	h := plotter.NewHeatMap(mapGrid{m}, palette.Heat(64, 1))
	h.Min, h.Max = lo, hi
	p.Add(h)

	return draw(p, wPx, hPx), nil
}

func SavePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return png.Encode(f, img)
}
