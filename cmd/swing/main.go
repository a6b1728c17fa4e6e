package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/guptarohit/asciigraph"
	"github.com/joho/godotenv"
	"github.com/san-kum/swing/internal/analysis"
	"github.com/san-kum/swing/internal/config"
	"github.com/san-kum/swing/internal/dynamo"
	"github.com/san-kum/swing/internal/export"
	"github.com/san-kum/swing/internal/gui"
	"github.com/san-kum/swing/internal/metrics"
	"github.com/san-kum/swing/internal/pivot"
	"github.com/san-kum/swing/internal/remote"
	"github.com/san-kum/swing/internal/sim"
	"github.com/san-kum/swing/internal/storage"
	"github.com/san-kum/swing/internal/tui"
	"github.com/san-kum/swing/internal/viz"
	"github.com/spf13/cobra"
)

const debugLog = "swing-debug.log"

var (
	dataDir    string
	configFile string
	preset     string
	debug      bool

	steps    int
	saveRun  bool
	jsonOut  bool
	outPath  string
	frames   int
	width    float64
	height   float64
	scale    float64
	pivotAt  []float64
	dots     bool
	watchFor time.Duration
	orbit    float64
	cols     int
	rows     int
	phase    string
	poincare bool
	spectrum string
	addr     string

	logFile *os.File
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "swing",
		Short: "a double pendulum that hangs from your mouse",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logFile != nil {
				logFile.Close()
			}
		},
		RunE: runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".swing", "data directory for saved runs")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write lifecycle logs to "+debugLog)

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "animate in the terminal, pivot follows the mouse",
		RunE:  runTUI,
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "animate in a window, pivot follows the mouse",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return gui.Run(cfg)
		},
	}

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "stream frames to a plain terminal without mouse input",
		RunE:  runWatch,
	}
	watchCmd.Flags().DurationVar(&watchFor, "for", 0, "stop after this long (0 runs until interrupted)")
	watchCmd.Flags().Float64Var(&orbit, "orbit", 0, "move the pivot on a circle of this radius")
	watchCmd.Flags().IntVar(&cols, "cols", tui.DefaultCols, "canvas width in cells")
	watchCmd.Flags().IntVar(&rows, "rows", tui.DefaultRows, "canvas height in cells")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the pendulum to browsers over a websocket",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (default $SWING_ADDR or "+remote.DefaultAddr+")")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "integrate headlessly and summarise",
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&steps, "steps", 0, "number of frames (default from config)")
	runCmd.Flags().BoolVar(&saveRun, "save", false, "store the run under the data directory")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "print the summary as JSON")

	traceCmd := &cobra.Command{
		Use:   "trace",
		Short: "write the per-step state table as CSV",
		RunE:  runTrace,
	}
	traceCmd.Flags().IntVar(&steps, "steps", 0, "number of frames (default from config)")
	traceCmd.Flags().StringVar(&outPath, "out", "-", "output file, - for stdout")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render one frame to SVG",
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().IntVar(&frames, "frames", 0, "frames to run before capturing")
	snapshotCmd.Flags().StringVar(&outPath, "out", "-", "output file, - for stdout")
	snapshotCmd.Flags().Float64Var(&width, "width", 800, "viewport width")
	snapshotCmd.Flags().Float64Var(&height, "height", 600, "viewport height")
	snapshotCmd.Flags().Float64Var(&scale, "scale", 1, "device pixel ratio")
	snapshotCmd.Flags().Float64SliceVar(&pivotAt, "pivot", nil, "pivot position x,y (default centre, upper third)")
	snapshotCmd.Flags().BoolVar(&dots, "dots", false, "render through the braille canvas, one circle per dot")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tGRAVITY\tDAMPING\tθ1\tθ2\tTHEME")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%g\t%g\t%.3f\t%.3f\t%s\n",
					name, p.Params.Gravity, p.Params.Damping, p.InitState.Theta1, p.InitState.Theta2, p.Theme)
			}
			return w.Flush()
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&phase, "phase", "", "phase portrait axes, e.g. theta1,omega1")
	plotCmd.Flags().BoolVar(&poincare, "poincare", false, "Poincaré section (θ2, ω2) where θ1 swings through the vertical")
	plotCmd.Flags().StringVar(&spectrum, "spectrum", "", "magnitude spectrum of one axis, e.g. theta2")

	rootCmd.AddCommand(tuiCmd, guiCmd, watchCmd, serveCmd, runCmd, traceCmd, snapshotCmd, presetsCmd, listCmd, plotCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging routes the standard logger to a file under --debug and
// discards it otherwise, so log lines never corrupt a live terminal.
func setupLogging() error {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}
	f, err := tea.LogToFile(debugLog, "swing")
	if err != nil {
		return fmt.Errorf("open debug log: %w", err)
	}
	logFile = f
	return nil
}

// loadConfig applies --preset, then --config, over the defaults. A config
// file replaces the preset.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Printf("config: %+v", cfg.Params)
	return cfg, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return viz.Run(cfg)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = os.Getenv("SWING_ADDR")
	}
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	fmt.Fprintf(os.Stderr, "serving on %s\n", listenAddr())
	return remote.ListenAndServe(ctx, addr, cfg)
}

func listenAddr() string {
	if addr == "" {
		return remote.DefaultAddr
	}
	return addr
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	r, err := tui.NewLiveRenderer(os.Stdout, cfg, cols, rows)
	if err != nil {
		return err
	}
	r.Orbit = orbit

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if watchFor > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, watchFor)
		defer cancel()
	}
	return r.Run(ctx)
}

// headless runs the configured simulation for the --steps (or configured)
// number of frames with the standard metrics attached.
func headless(cfg *config.Config) (*sim.Simulation, *dynamo.Result, error) {
	s, err := sim.New(cfg.Params)
	if err != nil {
		return nil, nil, err
	}
	s.WithState(cfg.GetInitState())
	s.AddMetric(metrics.NewEnergy(s.Dynamics()))
	s.AddMetric(metrics.NewEnergyLoss(s.Dynamics()))
	s.AddMetric(metrics.NewPeakSpeed())

	simCfg := sim.DefaultConfig()
	simCfg.Steps = cfg.Steps
	if steps > 0 {
		simCfg.Steps = steps
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	result, err := s.Run(ctx, simCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("simulation failed: %w", err)
	}
	log.Printf("run: %d steps in %v", result.StepsTaken, time.Since(start))
	return s, result, nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, result, err := headless(cfg)
	if err != nil {
		return err
	}
	meta := storage.NewMetadata(preset, s.Params(), result)

	if saveRun {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(meta, result)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		meta.ID = runID
	}

	if jsonOut {
		return storage.ExportJSON(os.Stdout, meta)
	}

	final := s.State()
	if meta.ID != "" {
		fmt.Printf("run: %s\n", meta.ID)
	}
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("final: %s\n", final)
	fmt.Printf("finite: %v\n", final.IsValid())
	fmt.Println("\nmetrics:")
	for _, name := range []string{"energy", "energy_loss", "peak_speed"} {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}
	if lambda, err := analysis.LyapunovExponent(s.Params(), cfg.GetInitState(), result.StepsTaken, 1e-8); err == nil {
		fmt.Printf("  lyapunov: %.6f per step\n", lambda)
	}
	if period := analysis.NewSpectrum(result.States, analysis.Theta1).DominantPeriod(); period > 0 {
		fmt.Printf("  period: %.1f steps\n", period)
	}

	if len(result.States) > 1 {
		fmt.Println()
		fmt.Println(plotTheta1(result.States, "theta1 (angle of the upper link)"))
	}
	return nil
}

func plotTheta1(states []dynamo.State, caption string) string {
	data := make([]float64, len(states))
	for i, x := range states {
		data[i] = x.Theta1
	}
	return asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	_, result, err := headless(cfg)
	if err != nil {
		return err
	}

	return withOutput(outPath, func(w io.Writer) error {
		return storage.WriteCSV(w, result)
	})
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := export.SnapshotOptions{Width: width, Height: height, Scale: scale, Frames: frames}
	if len(pivotAt) > 0 {
		if len(pivotAt) != 2 {
			return fmt.Errorf("--pivot wants x,y, got %v", pivotAt)
		}
		opts.Pivot = &pivot.Point{X: pivotAt[0], Y: pivotAt[1]}
	}

	var doc string
	if dots {
		doc, err = export.BrailleSnapshot(cfg, opts)
	} else {
		var svg *export.SVG
		svg, _, err = export.Snapshot(cfg, opts)
		if svg != nil {
			doc = svg.String()
		}
	}
	if err != nil {
		return err
	}

	return withOutput(outPath, func(w io.Writer) error {
		_, err := io.WriteString(w, doc)
		return err
	})
}

func withOutput(path string, fn func(io.Writer) error) error {
	if path == "" || path == "-" {
		return fn(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", path)
	return nil
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tSTEPS\tGRAVITY\tDAMPING\tFINAL θ1")

	for _, run := range runs {
		name := run.Preset
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%g\t%g\t%.3f\n",
			run.ID,
			name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Params.Gravity,
			run.Params.Damping,
			run.Final.Theta1,
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
	states, energies, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("run %s has no recorded states", runID)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(states))
	fmt.Println(plotTheta1(states, "theta1 (angle of the upper link)"))
	fmt.Println()
	fmt.Println(asciigraph.Plot(energies,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("mechanical energy"),
	))
	if phase != "" {
		names := strings.Split(phase, ",")
		if len(names) != 2 || analysis.Axes[names[0]] == nil || analysis.Axes[names[1]] == nil {
			return fmt.Errorf("--phase wants two of theta1,theta2,omega1,omega2, got %q", phase)
		}
		portrait := analysis.NewPhasePortrait(states, analysis.Axes[names[0]], analysis.Axes[names[1]])
		fmt.Printf("\nphase portrait (%s vs %s):\n", names[1], names[0])
		fmt.Print(portrait.ToASCII(80, 24))
	}
	if poincare {
		section := analysis.NewPoincareSection(states)
		fmt.Printf("\npoincaré section, %d crossings (ω2 vs θ2):\n", len(section.Points))
		fmt.Print(section.ToASCII(80, 24))
	}
	if spectrum != "" {
		axis := analysis.Axes[spectrum]
		if axis == nil {
			return fmt.Errorf("--spectrum wants one of theta1,theta2,omega1,omega2, got %q", spectrum)
		}
		sp := analysis.NewSpectrum(states, axis)
		if sp == nil {
			return fmt.Errorf("run %s is too short for a spectrum", runID)
		}
		k := sp.Peak()
		fmt.Printf("\n%s spectrum, peak %.4f cycles/step (period %.1f steps):\n",
			spectrum, sp.Frequency(k), sp.DominantPeriod())
		fmt.Println(asciigraph.Plot(sp.Magnitude[1:],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("magnitude by frequency bin"),
		))
	}
	if len(meta.Errors) > 0 {
		fmt.Printf("\nerrors:\n  %s\n", strings.Join(meta.Errors, "\n  "))
	}
	return nil
}
