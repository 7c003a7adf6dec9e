package config

import (
	"sort"

	"github.com/san-kum/fresnel/internal/aperture"
)

// ShapePreset holds the outer integration limits of an aperture shape, in
// units of its radius, and the recommended sweep distance unit.
type ShapePreset struct {
	LimitScale [2]float64
	ZInterval  float64
}

var ShapePresets = map[aperture.Kind]ShapePreset{
	aperture.KindCircle:   {LimitScale: [2]float64{-1, 1}, ZInterval: 5e-3},
	aperture.KindSquare:   {LimitScale: [2]float64{-1, 1}, ZInterval: 5e-3},
	aperture.KindTriangle: {LimitScale: [2]float64{-0.5, 1}, ZInterval: 2.5e-3},
}

// Limits scales the preset to an aperture of radius r.
func (p ShapePreset) Limits(r float64) [2]float64 {
	return [2]float64{p.LimitScale[0] * r, p.LimitScale[1] * r}
}

func preset(mode, shape string, mutate func(*Config)) *Config {
	cfg := DefaultConfig()
	cfg.Mode = mode
	cfg.Shape = shape
	if mutate != nil {
		mutate(cfg)
	}
	return cfg
}

var Presets = map[string]*Config{
	"slit": preset(ModeProfile, "square", nil),
	"slit-far": preset(ModeProfile, "square", func(c *Config) {
		c.ZInterval = 2e-2
	}),
	"circle":   preset(ModeMap, "circle", nil),
	"square":   preset(ModeMap, "square", nil),
	"triangle": preset(ModeMap, "triangle", nil),
	"quick": preset(ModeMap, "circle", func(c *Config) {
		c.Points = 25
		c.Terms.Map = 20
		c.Workers = 4
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
