package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/pkg/profile"
	"github.com/san-kum/fresnel/internal/config"
	"github.com/san-kum/fresnel/internal/observability"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	logFormat  string
	logFile    string
	cpuProfile string

	// run flags
	mode        string
	wavelength  float64
	field       float64
	points      int
	screen      []float64
	distances   []float64
	zInterval   float64
	steps       int
	workers     int
	terms       int
	innerTerms  int
	shape       string
	radius      float64
	limits      []float64
	squareMap   bool
	outDir      string
	asciiOut    bool
	pngOut      bool
	svgOut      bool
	grayOut     bool
	saveRun     bool
	exportPath  string
	writePath   string
	stopProfile = func() {}

	cfg *config.Config
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	cancel()
	stopProfile()
	observability.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "fresnel",
		Short:             "fresnel diffraction simulator",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE:              runMenu,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".fresnel", "directory for saved runs")
	pf.StringVar(&configFile, "config", "", "config file path (yaml or json5)")
	pf.StringVar(&preset, "preset", "", "start from a named preset")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", "", "log format (console, json)")
	pf.StringVar(&logFile, "log-file", "", "also write JSON logs to this file")
	pf.StringVar(&cpuProfile, "cpuprofile", "", "write a CPU profile into this directory")

	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "sweep 1-D slit diffraction profiles",
		RunE:  runMode(config.ModeProfile),
	}
	addRunFlags(profileCmd)

	mapCmd := &cobra.Command{
		Use:   "map",
		Short: "sweep 2-D aperture diffraction maps",
		RunE:  runMode(config.ModeMap),
	}
	addRunFlags(mapCmd)
	addMapFlags(mapCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep in the mode given by --config or --preset",
		RunE:  runMode(""),
	}
	addRunFlags(sweepCmd)
	addMapFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&mode, "mode", "", "override the configured mode (profile, map)")

	menuCmd := &cobra.Command{
		Use:   "menu",
		Short: "interactive menu",
		RunE:  runMenu,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "plot a saved run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a saved run's samples as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&exportPath, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list named presets",
		RunE:  listPresets,
	}
	presetsCmd.Flags().StringVarP(&writePath, "write", "w", "", "write the active --preset or --config as YAML to this file")

	rootCmd.AddCommand(profileCmd, mapCmd, sweepCmd, menuCmd, listCmd, showCmd, exportCmd, presetsCmd)
	return rootCmd
}

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&wavelength, "wavelength", config.DefaultWavelength, "wavelength (m)")
	f.Float64Var(&field, "field", config.DefaultFieldStrength, "electric field strength (N/C)")
	f.IntVar(&points, "points", config.DefaultPoints, "screen points per axis")
	f.Float64SliceVar(&screen, "screen", config.DefaultScreen[:], "screen limits min,max (m)")
	f.Float64SliceVar(&limits, "limits", nil, "outer aperture limits min,max (m); default per shape")
	f.Float64SliceVar(&distances, "distance", nil, "explicit distances (m); overrides --z/--steps")
	f.Float64Var(&zInterval, "z", 0, "sweep distance unit (m); default per shape")
	f.IntVar(&steps, "steps", config.DefaultSteps, "number of distances z, 2z, ...")
	f.IntVar(&workers, "workers", 1, "rows sampled in parallel")
	f.IntVar(&terms, "terms", 0, "Simpson terms (default 100 for profiles, 50 for maps)")
	f.StringVar(&outDir, "out", "", "directory for image output")
	f.BoolVar(&asciiOut, "ascii", true, "plot in the terminal")
	f.BoolVar(&pngOut, "png", false, "write PNG plots")
	f.BoolVar(&svgOut, "svg", false, "write SVG profile plots")
	f.BoolVar(&saveRun, "save", false, "store each distance as a run under --data")
}

func addMapFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&shape, "shape", "square", "aperture shape (circle, square, triangle)")
	f.Float64Var(&radius, "radius", config.DefaultRadius, "aperture radius or half-width (m)")
	f.IntVar(&innerTerms, "inner-terms", 0, "inner Simpson terms (0 = same as --terms)")
	f.BoolVar(&squareMap, "square-intensity", true, "square |A|² once more for map intensity")
	f.BoolVar(&grayOut, "gray", false, "also write a 16-bit greyscale PNG")
}

// setup loads the base configuration and installs logging and profiling.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	switch {
	case configFile != "":
		cfg, err = config.Load(configFile)
		if err != nil {
			return err
		}
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (see 'fresnel presets')", preset)
		}
	default:
		cfg = config.DefaultConfig()
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	if _, err = observability.Init(cfg.Log); err != nil {
		return err
	}

	if cpuProfile != "" {
		p := profile.Start(profile.CPUProfile, profile.ProfilePath(cpuProfile), profile.Quiet, profile.NoShutdownHook)
		stopProfile = p.Stop
		observability.L().Info("cpu profiling enabled", zap.String("dir", cpuProfile))
	}
	return nil
}
