package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/KevinWang15/go-json5"
	"github.com/san-kum/fresnel/internal/aperture"
	"github.com/san-kum/fresnel/internal/optics"
	"github.com/san-kum/fresnel/internal/sweep"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWavelength    = 5e-7
	DefaultFieldStrength = 1.0
	DefaultRadius        = 1e-4
	DefaultPoints        = 75
	DefaultSteps         = 3
	DefaultProfileTerms  = 100
	DefaultMapTerms      = 50

	ModeProfile = "profile"
	ModeMap     = "map"
)

var DefaultScreen = [2]float64{-1e-4, 1e-4}

type Config struct {
	Mode          string       `yaml:"mode" json:"mode"`
	Shape         string       `yaml:"shape" json:"shape"`
	Wavelength    float64      `yaml:"wavelength" json:"wavelength"`
	FieldStrength float64      `yaml:"field_strength" json:"field_strength"`
	Radius        float64      `yaml:"radius" json:"radius"`
	Limits        [2]float64   `yaml:"limits" json:"limits"`
	Screen        [2]float64   `yaml:"screen" json:"screen"`
	Points        int          `yaml:"points" json:"points"`
	ZInterval     float64      `yaml:"z_interval" json:"z_interval"`
	Steps         int          `yaml:"steps" json:"steps"`
	Distances     []float64    `yaml:"distances,omitempty" json:"distances,omitempty"`
	Workers       int          `yaml:"workers" json:"workers"`
	Terms         TermsConfig  `yaml:"terms" json:"terms"`
	Output        OutputConfig `yaml:"output" json:"output"`
	Log           LogConfig    `yaml:"log" json:"log"`
}

type TermsConfig struct {
	Profile            int  `yaml:"profile" json:"profile"`
	Map                int  `yaml:"map" json:"map"`
	Inner              int  `yaml:"inner" json:"inner"`
	SquareMapIntensity bool `yaml:"square_map_intensity" json:"square_map_intensity"`
}

type OutputConfig struct {
	Dir   string `yaml:"dir" json:"dir"`
	ASCII bool   `yaml:"ascii" json:"ascii"`
	PNG   bool   `yaml:"png" json:"png"`
	SVG   bool   `yaml:"svg" json:"svg"`
	Gray  bool   `yaml:"gray" json:"gray"`
	Save  bool   `yaml:"save" json:"save"`
}

type LogConfig struct {
	Level      string `yaml:"level" json:"level"`
	Format     string `yaml:"format" json:"format"`
	File       string `yaml:"file" json:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" json:"max_age_days"`
	Compress   bool   `yaml:"compress" json:"compress"`
}

func DefaultConfig() *Config {
	return &Config{
		Mode:          ModeProfile,
		Shape:         aperture.KindSquare.String(),
		Wavelength:    DefaultWavelength,
		FieldStrength: DefaultFieldStrength,
		Radius:        DefaultRadius,
		Screen:        DefaultScreen,
		Points:        DefaultPoints,
		Steps:         DefaultSteps,
		Workers:       1,
		Terms: TermsConfig{
			Profile:            DefaultProfileTerms,
			Map:                DefaultMapTerms,
			SquareMapIntensity: true,
		},
		Output: OutputConfig{
			Dir:   "fresnel-out",
			ASCII: true,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads a YAML or JSON5 file over the defaults. The format follows the
// file extension; anything other than .json or .json5 is parsed as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".json5":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Mode != ModeProfile && c.Mode != ModeMap {
		return fmt.Errorf("config: unknown mode %q (want %s or %s)", c.Mode, ModeProfile, ModeMap)
	}
	if _, err := aperture.ParseKind(c.Shape); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if !(c.Wavelength > 0) {
		return fmt.Errorf("config: wavelength must be positive, got %g", c.Wavelength)
	}
	if !(c.Radius > 0) {
		return fmt.Errorf("config: radius must be positive, got %g", c.Radius)
	}
	if c.Points < 1 {
		return fmt.Errorf("config: points must be positive, got %d", c.Points)
	}
	if !(c.Screen[0] < c.Screen[1]) {
		return fmt.Errorf("config: screen limits must be increasing, got %v", c.Screen)
	}
	if len(c.Distances) == 0 && c.Steps < 1 {
		return fmt.Errorf("config: steps must be positive when no distances are given, got %d", c.Steps)
	}
	for _, d := range c.Distances {
		if !(d > 0) {
			return fmt.Errorf("config: distances must be positive, got %g", d)
		}
	}
	return nil
}

func (c *Config) Kind() aperture.Kind {
	k, err := aperture.ParseKind(c.Shape)
	if err != nil {
		return aperture.KindSquare
	}
	return k
}

// ApertureLimits returns the configured limits, or the shape preset scaled
// to Radius when none are set.
func (c *Config) ApertureLimits() [2]float64 {
	if c.Limits != [2]float64{} {
		return c.Limits
	}
	return ShapePresets[c.Kind()].Limits(c.Radius)
}

// Z returns the sweep distance unit, defaulting to the shape preset.
func (c *Config) Z() float64 {
	if c.ZInterval > 0 {
		return c.ZInterval
	}
	return ShapePresets[c.Kind()].ZInterval
}

// SweepDistances returns the explicit distances or 1z, 2z, ... steps·z.
func (c *Config) SweepDistances() []float64 {
	if len(c.Distances) > 0 {
		out := make([]float64, len(c.Distances))
		copy(out, c.Distances)
		return out
	}
	return sweep.Distances(c.Z(), c.Steps)
}

// Source builds the diffraction source. Profile mode integrates a plain
// slit and carries no aperture shape.
func (c *Config) Source() (optics.Source, error) {
	var shape aperture.Shape
	if c.Mode == ModeMap {
		var err error
		shape, err = aperture.New(c.Kind(), c.Radius)
		if err != nil {
			return optics.Source{}, err
		}
	}
	return optics.NewSource(c.Wavelength, c.FieldStrength, shape, c.ApertureLimits())
}

func (c *Config) SamplerConfig() optics.Config {
	return optics.Config{
		ProfileTerms:       c.Terms.Profile,
		MapTerms:           c.Terms.Map,
		InnerTerms:         c.Terms.Inner,
		SquareMapIntensity: c.Terms.SquareMapIntensity,
		Workers:            c.Workers,
	}
}

func (c *Config) Clone() *Config {
	cp := *c
	if c.Distances != nil {
		cp.Distances = append([]float64(nil), c.Distances...)
	}
	return &cp
}
