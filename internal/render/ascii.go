package render

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/fresnel/internal/optics"
)

// shades runs from dark to bright.
const shades = " .:-=+*#%@"

// ProfileASCII plots the profile normalised to its peak, so the axis reads
// as relative intensity.
func ProfileASCII(p *optics.Profile, width, height int) string {
	_, ys := p.XY()
	if len(ys) == 0 {
		return ""
	}
	peak := 0.0
	if i := p.Peak(); i >= 0 {
		peak = ys[i]
	}
	norm := make([]float64, len(ys))
	for i, v := range ys {
		if peak > 0 {
			norm[i] = v / peak
		}
	}
	return asciigraph.Plot(norm,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Precision(2),
		asciigraph.Caption(fmt.Sprintf("z = %g m, peak %.4g", p.Distance, peak)),
	)
}

// MapASCII shades each cell of the intensity map relative to its maximum.
// Rows run along y from top to bottom, columns along x.
func MapASCII(m *optics.Map) string {
	n := len(m.Axis)
	if n == 0 {
		return ""
	}
	peak := m.Max()
	var sb strings.Builder
	for j := n - 1; j >= 0; j-- {
		for i := 0; i < n; i++ {
			sb.WriteByte(shade(m.Samples[i][j].Intensity, peak))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func shade(v, peak float64) byte {
	if !(peak > 0) || !(v > 0) {
		return shades[0]
	}
	idx := int(v / peak * float64(len(shades)-1))
	if idx >= len(shades) {
		idx = len(shades) - 1
	}
	return shades[idx]
}
