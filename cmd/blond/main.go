package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/mvadai/blond/internal/analysis"
	"github.com/mvadai/blond/internal/beam"
	"github.com/mvadai/blond/internal/compute"
	"github.com/mvadai/blond/internal/config"
	"github.com/mvadai/blond/internal/metrics"
	"github.com/mvadai/blond/internal/storage"
	"github.com/mvadai/blond/internal/tui"
	"github.com/mvadai/blond/internal/turns"
	"github.com/mvadai/blond/internal/wake"
)

var (
	dataDir string
	// Machine
	tRev   float64
	nTurns int
	// Resonator
	shunt     float64
	frequency float64
	quality   float64
	// Beam
	nMacro    int
	intensity float64
	mean      float64
	sigma     float64
	seed      int64
	// Tracking
	backendName string
	tolerance   float64
	// Config file / preset
	configFile string
	preset     string
	// Live view
	frameRate int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "blond",
		Short: "resonator wake field tracking with the MuSiC algorithm",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".blond", "data directory")

	trackCmd := &cobra.Command{
		Use:   "track",
		Short: "run multi-turn wake tracking",
		RunE:  runTrack,
	}
	addPhysicsFlags(trackCmd)

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "compare MuSiC against the quadratic reference",
		RunE:  runValidate,
	}
	addPhysicsFlags(validateCmd)
	validateCmd.Flags().Float64Var(&tolerance, "tolerance", 1e-9, "relative tolerance")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "track with live wake visualization",
		RunE:  runLive,
	}
	addPhysicsFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	spectrumCmd := &cobra.Command{
		Use:   "spectrum",
		Short: "plot the resonator wake spectrum",
		RunE:  runSpectrum,
	}
	addPhysicsFlags(spectrumCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark MuSiC against the quadratic reference",
		RunE:  runBench,
	}
	addPhysicsFlags(benchCmd)

	rootCmd.AddCommand(trackCmd, validateCmd, liveCmd, listCmd, plotCmd,
		exportJSONCmd, spectrumCmd, presetsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addPhysicsFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&tRev, "t-rev", config.DefaultTRev, "revolution period [s]")
	cmd.Flags().IntVar(&nTurns, "turns", config.DefaultTurns, "number of turns")
	cmd.Flags().Float64Var(&shunt, "shunt", config.DefaultShuntImpedance, "shunt impedance [Ohm]")
	cmd.Flags().Float64Var(&frequency, "frequency", config.DefaultFrequency, "resonant frequency [Hz]")
	cmd.Flags().Float64Var(&quality, "quality", config.DefaultQuality, "quality factor")
	cmd.Flags().IntVar(&nMacro, "macroparticles", config.DefaultMacroparticles, "macro-particles")
	cmd.Flags().Float64Var(&intensity, "intensity", config.DefaultIntensity, "beam intensity [particles]")
	cmd.Flags().Float64Var(&mean, "mean", 0, "arrival time centroid [s]")
	cmd.Flags().Float64Var(&sigma, "sigma", config.DefaultSigma, "arrival time spread [s]")
	cmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	cmd.Flags().StringVar(&backendName, "backend", "auto", "compute backend (serial, parallel, auto)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig merges preset, config file and flags; flags win when set
// explicitly.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		*cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flagged := map[string]func(){
		"t-rev":          func() { cfg.Machine.TRev = tRev },
		"turns":          func() { cfg.Machine.Turns = nTurns },
		"shunt":          func() { cfg.Resonator.ShuntImpedance = shunt },
		"frequency":      func() { cfg.Resonator.Frequency = frequency },
		"quality":        func() { cfg.Resonator.Quality = quality },
		"macroparticles": func() { cfg.Beam.Macroparticles = nMacro },
		"intensity":      func() { cfg.Beam.Intensity = intensity },
		"mean":           func() { cfg.Beam.Mean = mean },
		"sigma":          func() { cfg.Beam.Sigma = sigma },
		"seed":           func() { cfg.Beam.Seed = seed },
		"backend":        func() { cfg.Tracking.Backend = backendName },
	}
	for name, apply := range flagged {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}

	return cfg, nil
}

// sampleBeam draws a gaussian bunch. Arrival times are left unsorted; the
// engine sorts on the first tracking call.
func sampleBeam(cfg *config.Config) *beam.Particles {
	rng := rand.New(rand.NewSource(cfg.Beam.Seed))
	dt := make([]float64, cfg.Beam.Macroparticles)
	de := make([]float64, cfg.Beam.Macroparticles)
	for i := range dt {
		dt[i] = cfg.Beam.Mean + cfg.Beam.Sigma*rng.NormFloat64()
	}
	return &beam.Particles{Dt: dt, DE: de}
}

func buildEngine(cfg *config.Config, b *beam.Particles) (*wake.Engine, error) {
	res := wake.Resonator{
		ShuntImpedance: cfg.Resonator.ShuntImpedance,
		AngularFreq:    cfg.Resonator.AngularFreq(),
		Quality:        cfg.Resonator.Quality,
	}
	engine, err := wake.New(b, res, cfg.Beam.Macroparticles, cfg.Beam.Intensity, cfg.Machine.TRev)
	if err != nil {
		return nil, err
	}
	engine.SetBackend(compute.ByName(cfg.Tracking.Backend))
	return engine, nil
}

func runTrack(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	b := sampleBeam(cfg)
	engine, err := buildEngine(cfg, b)
	if err != nil {
		return err
	}

	tracker := turns.New(engine, b)
	tracker.AddMetric(metrics.NewPeakVoltage())
	tracker.AddMetric(metrics.NewEnergySpread())
	tracker.AddMetric(metrics.NewCentroid())

	fmt.Printf("tracking %d macro-particles over %d turns...\n", b.N(), cfg.Machine.Turns)
	start := time.Now()

	result, err := tracker.Run(context.Background(), turns.Config{Turns: cfg.Machine.Turns})
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	meta := storage.RunMetadata{
		Turns:          cfg.Machine.Turns,
		TRev:           cfg.Machine.TRev,
		ShuntImpedance: cfg.Resonator.ShuntImpedance,
		Frequency:      cfg.Resonator.Frequency,
		Quality:        cfg.Resonator.Quality,
		Macroparticles: cfg.Beam.Macroparticles,
		Intensity:      cfg.Beam.Intensity,
		Seed:           cfg.Beam.Seed,
		Backend:        cfg.Tracking.Backend,
	}
	runID, err := st.Save(meta, result, b, engine.InducedVoltage())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6e\n", name, val)
	}

	fmt.Println()
	plotProfile(engine.InducedVoltage(), "induced voltage along the bunch [V]")

	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	bMusic := sampleBeam(cfg)
	bRef := bMusic.Clone()

	engMusic, err := buildEngine(cfg, bMusic)
	if err != nil {
		return err
	}
	engRef, err := buildEngine(cfg, bRef)
	if err != nil {
		return err
	}

	startMusic := time.Now()
	engMusic.TrackInitial()
	musicTime := time.Since(startMusic)

	startRef := time.Now()
	engRef.TrackReference()
	refTime := time.Since(startRef)

	vm := engMusic.InducedVoltage()
	vr := engRef.InducedVoltage()

	scale := turns.PeakAbs(vr)
	if scale == 0 {
		scale = 1
	}
	maxErr, sumErr := 0.0, 0.0
	for i := range vm {
		relErr := math.Abs(vm[i]-vr[i]) / scale
		sumErr += relErr
		if relErr > maxErr {
			maxErr = relErr
		}
	}
	meanErr := sumErr / float64(len(vm))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ALGORITHM\tCOST\tTIME")
	fmt.Fprintf(w, "music\tO(N)\t%v\n", musicTime)
	fmt.Fprintf(w, "reference\tO(N^2)\t%v\n", refTime)
	w.Flush()

	fmt.Printf("\nmax relative error:  %.3e\n", maxErr)
	fmt.Printf("mean relative error: %.3e\n", meanErr)

	if maxErr > tolerance {
		return fmt.Errorf("relative error %.3e exceeds tolerance %.3e", maxErr, tolerance)
	}
	fmt.Printf("within tolerance %.1e\n", tolerance)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	b := sampleBeam(cfg)
	engine, err := buildEngine(cfg, b)
	if err != nil {
		return err
	}

	return tui.Run(engine, b, cfg.Machine.Turns, frameRate)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tTURNS\tN\tFREQ\tQ\tBACKEND")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.3e\t%.1f\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Turns,
			run.Macroparticles,
			run.Frequency,
			run.Quality,
			run.Backend,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	_, de, induced, err := st.LoadParticles(runID)
	if err != nil {
		return err
	}
	first, _, _, err := st.LoadTurns(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("turns: %d, macro-particles: %d\n\n", meta.Turns, meta.Macroparticles)

	plotProfile(induced, "induced voltage along the bunch [V]")
	fmt.Println()
	plotProfile(de, "energy deviation along the bunch [eV]")
	if len(first) > 1 {
		fmt.Println()
		plotProfile(first, "leading-particle voltage per turn [V]")
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	dt, de, induced, err := st.LoadParticles(runID)
	if err != nil {
		return err
	}

	out := struct {
		storage.RunMetadata
		Dt             []float64 `json:"dt"`
		DE             []float64 `json:"de"`
		InducedVoltage []float64 `json:"induced_voltage"`
	}{*meta, dt, de, induced}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func runSpectrum(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	res := wake.Resonator{
		ShuntImpedance: cfg.Resonator.ShuntImpedance,
		AngularFreq:    cfg.Resonator.AngularFreq(),
		Quality:        cfg.Resonator.Quality,
	}
	coeffs, err := wake.DeriveCoefficients(res, cfg.Beam.Macroparticles, cfg.Beam.Intensity)
	if err != nil {
		return err
	}

	const n = 2048
	step := 1 / (16 * cfg.Resonator.Frequency)

	samples := analysis.SampleWake(coeffs, n, step)
	ps := analysis.PowerSpectrum(samples)
	freqs := analysis.FrequencyAxis(n, step)

	plotProfile(ps[:len(ps)/4], "wake spectrum magnitude")
	fmt.Printf("\nresonant frequency: %.4e Hz\n", cfg.Resonator.Frequency)
	fmt.Printf("spectrum peak:      %.4e Hz\n", analysis.PeakFrequency(ps, freqs))
	fmt.Printf("damped frequency:   %.4e Hz\n", coeffs.OmegaBar/(2*math.Pi))
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ALGORITHM\tN\tTIME\tPARTICLES/SEC")

	for _, n := range []int{1000, 10000, 100000} {
		elapsed, err := benchOnce(cfg, n, false)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "music\t%d\t%v\t%.0f\n", n, elapsed, float64(n)/elapsed.Seconds())
	}
	for _, n := range []int{1000, 3000} {
		elapsed, err := benchOnce(cfg, n, true)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "reference\t%d\t%v\t%.0f\n", n, elapsed, float64(n)/elapsed.Seconds())
	}
	return w.Flush()
}

func benchOnce(cfg *config.Config, n int, reference bool) (time.Duration, error) {
	sized := *cfg
	sized.Beam.Macroparticles = n

	b := sampleBeam(&sized)
	engine, err := buildEngine(&sized, b)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	if reference {
		engine.TrackReference()
	} else {
		engine.TrackInitial()
	}
	return time.Since(start), nil
}

func plotProfile(data []float64, caption string) {
	const width = 80
	plotted := data
	if len(data) > width {
		plotted = make([]float64, width)
		stride := float64(len(data)) / float64(width)
		for i := range plotted {
			plotted[i] = data[int(float64(i)*stride)]
		}
	}
	fmt.Println(asciigraph.Plot(plotted,
		asciigraph.Height(10),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	))
}
