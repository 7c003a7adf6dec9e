package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/san-kum/fresnel/internal/config"
	"github.com/san-kum/fresnel/internal/menu"
	"github.com/san-kum/fresnel/internal/observability"
	"github.com/san-kum/fresnel/internal/optics"
	"github.com/san-kum/fresnel/internal/render"
	"github.com/san-kum/fresnel/internal/storage"
	"github.com/san-kum/fresnel/internal/sweep"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runMode forces the given mode; an empty mode keeps the configured one
// unless --mode is set.
func runMode(m string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		switch {
		case m != "":
			cfg.Mode = m
		case mode != "":
			cfg.Mode = mode
		}
		if err := applyRunFlags(cmd, cfg); err != nil {
			return err
		}
		return runSweep(cmd.Context(), cmd.OutOrStdout(), cfg)
	}
}

func pair(name string, v []float64) ([2]float64, error) {
	if len(v) != 2 {
		return [2]float64{}, fmt.Errorf("--%s takes exactly two values, got %d", name, len(v))
	}
	return [2]float64{v[0], v[1]}, nil
}

// applyRunFlags overrides cfg with every run flag the user set explicitly.
func applyRunFlags(cmd *cobra.Command, c *config.Config) error {
	fl := cmd.Flags()
	set := fl.Changed

	if set("wavelength") {
		c.Wavelength = wavelength
	}
	if set("field") {
		c.FieldStrength = field
	}
	if set("points") {
		c.Points = points
	}
	if set("screen") {
		s, err := pair("screen", screen)
		if err != nil {
			return err
		}
		c.Screen = s
	}
	if set("limits") {
		l, err := pair("limits", limits)
		if err != nil {
			return err
		}
		c.Limits = l
	}
	if set("distance") {
		c.Distances = append([]float64(nil), distances...)
	}
	if set("z") {
		c.ZInterval = zInterval
	}
	if set("steps") {
		c.Steps = steps
	}
	if set("workers") {
		c.Workers = workers
	}
	if set("terms") {
		if c.Mode == config.ModeMap {
			c.Terms.Map = terms
		} else {
			c.Terms.Profile = terms
		}
	}
	if fl.Lookup("shape") != nil && set("shape") {
		c.Shape = shape
	}
	if fl.Lookup("radius") != nil && set("radius") {
		c.Radius = radius
	}
	if fl.Lookup("inner-terms") != nil && set("inner-terms") {
		c.Terms.Inner = innerTerms
	}
	if fl.Lookup("square-intensity") != nil && set("square-intensity") {
		c.Terms.SquareMapIntensity = squareMap
	}
	if fl.Lookup("gray") != nil && set("gray") {
		c.Output.Gray = grayOut
	}
	if set("out") {
		c.Output.Dir = outDir
	}
	if set("ascii") {
		c.Output.ASCII = asciiOut
	}
	if set("png") {
		c.Output.PNG = pngOut
	}
	if set("svg") {
		c.Output.SVG = svgOut
	}
	if set("save") {
		c.Output.Save = saveRun
	}
	return nil
}

func runSweep(ctx context.Context, out io.Writer, c *config.Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	src, err := c.Source()
	if err != nil {
		return err
	}

	log := observability.L()
	sweepMode := sweep.ModeProfile
	if c.Mode == config.ModeMap {
		sweepMode = sweep.ModeMap
	}
	sampler := optics.NewSampler(src, c.SamplerConfig(), log)
	sink := render.NewSink(render.Options{
		Dir:   c.Output.Dir,
		ASCII: c.Output.ASCII,
		PNG:   c.Output.PNG,
		SVG:   c.Output.SVG,
		Gray:  c.Output.Gray,
		Out:   out,
	})

	log.Info("sweep starting",
		zap.String("mode", c.Mode),
		zap.String("shape", c.Shape),
		zap.Float64("wavelength", c.Wavelength),
		zap.Float64s("distances", c.SweepDistances()),
	)
	start := time.Now()
	results, err := sweep.New(sampler, sweepMode, c.Points, c.Screen, log).Run(ctx, c.SweepDistances(), sink)
	for _, res := range results {
		printResult(out, res)
	}
	if err != nil {
		fmt.Fprintln(out, render.Error.Render("run aborted: "+err.Error()))
		return err
	}

	if c.Output.Save {
		if err := saveResults(out, c, results); err != nil {
			return err
		}
	}
	for _, f := range sink.Files() {
		fmt.Fprintf(out, "wrote %s\n", f)
	}
	fmt.Fprintf(out, "Execution complete in %s.\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func printResult(out io.Writer, res sweep.Result) {
	sum := res.Summary()
	fmt.Fprintln(out, render.Table(fmt.Sprintf("z = %g m", res.Distance), []render.Row{
		{Label: "distance", Value: fmt.Sprintf("%f m", res.Distance)},
		{Label: "time elapsed", Value: fmt.Sprintf("%f s", res.Elapsed.Seconds())},
		{Label: "peak intensity", Value: fmt.Sprintf("%.4g", sum.Peak)},
		{Label: "mean intensity", Value: fmt.Sprintf("%.4g", sum.Mean)},
	}))
}

func saveResults(out io.Writer, c *config.Config, results []sweep.Result) error {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	meta := storage.RunMetadata{
		Wavelength:    c.Wavelength,
		FieldStrength: c.FieldStrength,
		Limits:        c.ApertureLimits(),
		Screen:        c.Screen,
	}
	for _, res := range results {
		var id string
		var err error
		if res.Map != nil {
			meta.Shape = c.Shape
			meta.Terms = c.Terms.Map
			id, err = st.SaveMap(meta, res.Map)
		} else {
			meta.Terms = c.Terms.Profile
			id, err = st.SaveProfile(meta, res.Profile)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "saved run %s\n", id)
	}
	return nil
}

func runMenu(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for {
		sel, ok, err := menu.Run(cmd.InOrStdin(), out)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Exiting...")
			return nil
		}

		if err := runSweep(cmd.Context(), out, menuConfig(cfg, sel)); err != nil {
			observability.L().Error("menu run failed", zap.Error(err))
		}
		if cmd.Context().Err() != nil {
			return cmd.Context().Err()
		}
	}
}

// menuConfig applies a menu selection to a copy of base. Limits and z pinned
// by a config file or preset only survive while the shape stays the same.
func menuConfig(base *config.Config, sel menu.Selection) *config.Config {
	c := base.Clone()
	sel.Apply(c)
	if c.Kind() != base.Kind() {
		c.Limits = [2]float64{}
		c.ZInterval = 0
	}
	return c
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODE\tSHAPE\tTIME\tDISTANCE\tPOINTS\tPEAK")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%gm\t%d\t%.4g\n",
			run.ID,
			run.Mode,
			run.Shape,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Distance,
			run.Points,
			run.Peak,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, render.Table("run "+meta.ID, []render.Row{
		{Label: "mode", Value: meta.Mode},
		{Label: "shape", Value: meta.Shape},
		{Label: "wavelength", Value: fmt.Sprintf("%g m", meta.Wavelength)},
		{Label: "distance", Value: fmt.Sprintf("%g m", meta.Distance)},
		{Label: "elapsed", Value: fmt.Sprintf("%.3f ms", meta.ElapsedMs)},
		{Label: "timestamp", Value: meta.Timestamp.Format(time.RFC3339)},
	}))

	if meta.Mode == "map" {
		axis, grid, err := st.LoadMap(meta.ID)
		if err != nil {
			return err
		}
		m := &optics.Map{Distance: meta.Distance, Axis: axis, Samples: make([][]optics.FieldSample, len(grid))}
		for i, row := range grid {
			m.Samples[i] = make([]optics.FieldSample, len(row))
			for j, v := range row {
				m.Samples[i][j] = optics.FieldSample{X: axis[i], Y: axis[j], Intensity: v}
			}
		}
		fmt.Fprint(out, render.MapASCII(m))
		return nil
	}

	xs, ys, err := st.LoadProfile(meta.ID)
	if err != nil {
		return err
	}
	p := &optics.Profile{Distance: meta.Distance, Samples: make([]optics.FieldSample, len(xs))}
	for i := range xs {
		p.Samples[i] = optics.FieldSample{X: xs[i], Intensity: ys[i]}
	}
	fmt.Fprintln(out, render.ProfileASCII(p, 72, 15))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	src, err := os.Open(st.DataPath(meta))
	if err != nil {
		return err
	}
	defer src.Close()

	var dst io.Writer = cmd.OutOrStdout()
	if exportPath != "" {
		f, err := os.Create(exportPath)
		if err != nil {
			return err
		}
		defer f.Close()
		dst = f
	}
	_, err = io.Copy(dst, src)
	return err
}

func listPresets(cmd *cobra.Command, args []string) error {
	if writePath != "" {
		if err := config.Save(writePath, cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", writePath)
		return nil
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMODE\tSHAPE\tZ\tPOINTS\tTERMS")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		t := p.Terms.Profile
		if p.Mode == config.ModeMap {
			t = p.Terms.Map
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%gm\t%d\t%d\n", name, p.Mode, p.Shape, p.Z(), p.Points, t)
	}
	return w.Flush()
}
