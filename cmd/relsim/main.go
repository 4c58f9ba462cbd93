package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/relsim/internal/analysis"
	"github.com/san-kum/relsim/internal/config"
	"github.com/san-kum/relsim/internal/gr"
	"github.com/san-kum/relsim/internal/metrics"
	"github.com/san-kum/relsim/internal/nbody"
	"github.com/san-kum/relsim/internal/storage"
	"github.com/san-kum/relsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	correction string
	dt         float64
	duration   float64
	cStretch   float64
	every      int
	plotCol    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "relsim",
		Short: "post-newtonian n-body lab",
		Long:  "relsim simulates gravitational systems with optional general-relativistic corrections and measures the resulting orbital precession.",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".relsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a simulation and report precession",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&correction, "correction", "", "correction model: none|explicit|potential|implicit")
	runCmd.Flags().Float64Var(&dt, "dt", 0, "timestep override (yr)")
	runCmd.Flags().Float64Var(&duration, "time", 0, "duration override (yr)")
	runCmd.Flags().Float64Var(&cStretch, "cstretch", 1.0, "divide the speed of light by this factor (demos)")
	runCmd.Flags().IntVar(&every, "every", 0, "sample every N steps override")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "live terminal view of a simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().StringVar(&correction, "correction", "", "correction model")
	liveCmd.Flags().Float64Var(&cStretch, "cstretch", 1.0, "divide the speed of light by this factor")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run column",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotCol, "col", "sep", "column: sep|x|y")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(args []string) (*config.Config, string, error) {
	name := "mercury"
	if len(args) > 0 {
		name = args[0]
	}

	var cfg *config.Config
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", err
		}
		cfg = loaded
		name = configFile
	} else {
		preset := config.GetPreset(name)
		if preset == nil {
			return nil, "", fmt.Errorf("unknown preset %q (see `relsim presets`)", name)
		}
		copied := *preset
		cfg = &copied
	}

	if correction != "" {
		cfg.Correction = correction
	}
	if dt > 0 {
		cfg.Dt = dt
	}
	if duration > 0 {
		cfg.Duration = duration
	}
	if every > 0 {
		cfg.SampleEvery = every
	}
	if cStretch != 1.0 {
		cfg.C /= cStretch
	}
	return cfg, name, nil
}

func buildSystem(cfg *config.Config) (*nbody.System, error) {
	model, err := nbody.ParseCorrection(cfg.Correction)
	if err != nil {
		return nil, err
	}
	sys := nbody.NewSystem(cfg.GetBodies(), cfg.G, cfg.C)
	sys.Softening = cfg.Softening
	sys.Correction = model
	return sys, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(args)
	if err != nil {
		return err
	}
	sys, err := buildSystem(cfg)
	if err != nil {
		return err
	}

	var prec *analysis.Precession
	var elements analysis.Elements
	if len(sys.Bodies) >= 2 {
		prec = analysis.NewPrecession(0, 1)
		elements = analysis.Osculating(sys.Bodies[0], sys.Bodies[1], cfg.G)
	}

	steps := int(cfg.Duration / cfg.Dt)
	sampleEvery := cfg.SampleEvery
	if sampleEvery <= 0 {
		sampleEvery = 1
	}

	observed := []metrics.Metric{metrics.NewEnergyDrift(), metrics.NewMomentumDrift()}
	samples := make([]storage.Sample, 0, steps/sampleEvery+1)
	separations := make([]float64, 0, steps/sampleEvery+1)

	for _, m := range observed {
		m.Observe(sys)
	}
	for i := 0; i < steps; i++ {
		sys.Step(cfg.Dt)
		if prec != nil {
			prec.Observe(sys.Bodies, sys.Time())
		}
		if i%sampleEvery == 0 {
			for _, m := range observed {
				m.Observe(sys)
			}
			positions := make([]gr.Vec3, len(sys.Bodies))
			for j := range sys.Bodies {
				positions[j] = sys.Bodies[j].Pos
			}
			samples = append(samples, storage.Sample{Time: sys.Time(), Positions: positions})
			if len(sys.Bodies) >= 2 {
				separations = append(separations, sys.Bodies[1].Pos.Sub(sys.Bodies[0].Pos).Norm())
			}
		}
	}

	results := make(map[string]float64)
	for _, m := range observed {
		results[m.Name()] = m.Value()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "scenario\t%s\n", name)
	fmt.Fprintf(w, "correction\t%s\n", sys.Correction)
	fmt.Fprintf(w, "bodies\t%d\n", len(sys.Bodies))
	fmt.Fprintf(w, "steps\t%d\n", steps)
	for _, m := range observed {
		fmt.Fprintf(w, "%s\t%.3e\n", m.Name(), m.Value())
	}

	if prec != nil {
		measured := prec.RatePerOrbit()
		theory := analysis.TheoreticalRate(cfg.G, cfg.C, sys.Bodies[0].Mass,
			elements.SemiMajor, elements.Eccentricity)
		results["precession_rad_per_orbit"] = measured
		results["precession_theory"] = theory
		fmt.Fprintf(w, "perihelia\t%d\n", len(prec.Perihelia()))
		fmt.Fprintf(w, "precession\t%.6e rad/orbit\n", measured)
		fmt.Fprintf(w, "1PN theory\t%.6e rad/orbit\n", theory)
	}
	w.Flush()

	if len(separations) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(separations,
			asciigraph.Height(8), asciigraph.Width(70), asciigraph.Caption("separation (AU)")))
	}

	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	runID, err := store.Save(storage.RunMetadata{
		Correction: sys.Correction.String(),
		G:          cfg.G,
		C:          cfg.C,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Bodies:     len(sys.Bodies),
		Metrics:    results,
	}, samples)
	if err != nil {
		return err
	}
	fmt.Printf("\nsaved run %s\n", runID)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(args)
	if err != nil {
		return err
	}
	sys, err := buildSystem(cfg)
	if err != nil {
		return err
	}
	p := tea.NewProgram(viz.NewModel(sys, name, cfg.Dt))
	_, err = p.Run()
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCORRECTION\tBODIES\tDURATION\tPRECESSION")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.1f\t%.3e\n",
			run.ID, run.Correction, run.Bodies, run.Duration,
			run.Metrics["precession_rad_per_orbit"])
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	samples, err := store.LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(samples) < 2 {
		return fmt.Errorf("run %s has no samples", args[0])
	}

	series := make([]float64, 0, len(samples))
	for _, sample := range samples {
		if len(sample.Positions) < 2 {
			continue
		}
		rel := sample.Positions[1].Sub(sample.Positions[0])
		switch plotCol {
		case "x":
			series = append(series, rel.X)
		case "y":
			series = append(series, rel.Y)
		default:
			series = append(series, rel.Norm())
		}
	}

	fmt.Println(asciigraph.Plot(series,
		asciigraph.Height(12), asciigraph.Width(72), asciigraph.Caption(args[0]+" "+plotCol)))
	return nil
}
