package render

import (
	"errors"
	"image"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Gray16 maps a row-major intensity grid onto 16-bit grey levels, with the
// brightest cell at full scale. Non-finite cells are written black.
func Gray16(grid [][]float64) (*image.Gray16, error) {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return nil, errors.New("render: empty grid")
	}
	h, w := len(grid), len(grid[0])
	peak := 0.0
	for _, row := range grid {
		if len(row) != w {
			return nil, errors.New("render: ragged grid")
		}
		if m := floats.Max(row); m > peak && !math.IsInf(m, 1) {
			peak = m
		}
	}

	img := image.NewGray16(image.Rect(0, 0, w, h))
	if peak <= 0 {
		return img, nil
	}
	scale := 65535 / peak
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := grid[y][x]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			u := math.Round(v * scale)
			u = math.Max(0, math.Min(65535, u))
			i := y*img.Stride + 2*x
			img.Pix[i] = uint8(uint16(u) >> 8)
			img.Pix[i+1] = uint8(uint16(u))
		}
	}
	return img, nil
}
