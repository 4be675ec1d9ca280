package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/umdetree/Ising2D-Wolff/internal/cli"
	"github.com/umdetree/Ising2D-Wolff/internal/config"
	"github.com/umdetree/Ising2D-Wolff/internal/plot"
	"github.com/umdetree/Ising2D-Wolff/internal/sampler"
	"github.com/umdetree/Ising2D-Wolff/internal/storage"
	"github.com/umdetree/Ising2D-Wolff/internal/viz"
)

const barWidth = 30

var (
	configFile   string
	preset       string
	seed         int64
	points       int
	sweeps       int
	workers      int
	scalingSizes []int
	imagesDir    string
	dataDir      string
	preview      bool
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("ising: ")

	rootCmd := newRootCmd()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cli.Report(os.Stderr, rootCmd, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ising-scan [flags] <size> <J> <beta_start> <beta_end> <mc_times>",
		Short: "Binder cumulant and finite-size scaling scans of the 2D Ising model",
		Long: `Binder cumulant and finite-size scaling scans of the 2D Ising model.

The positional arguments may be omitted when --preset or --config supplies
size, j and the scan section. Given arguments override both.`,
		Args:          cli.ExactArgsOrConfig(5),
		RunE:          runScan,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 draws a fresh one)")
	rootCmd.Flags().IntVar(&points, "points", sampler.DefaultPoints, "number of β values on the grid")
	rootCmd.Flags().IntVar(&sweeps, "sweeps", 1, "size² Wolff-step sweeps per trial")
	rootCmd.Flags().IntVar(&workers, "workers", 0, "concurrent scan points (0 = GOMAXPROCS)")
	rootCmd.Flags().IntSliceVar(&scalingSizes, "scaling-sizes", sampler.ScalingSizes, "lattice sizes of the scaling scan")
	rootCmd.Flags().StringVar(&imagesDir, "images", "./images", "output directory for plots")
	rootCmd.Flags().StringVar(&dataDir, "data", "", "record the scan curves under this directory")
	rootCmd.Flags().BoolVar(&preview, "preview", false, "print terminal charts of the Binder curves")
	cli.NumericArgs(rootCmd)

	return rootCmd
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := cli.LoadConfig(preset, configFile)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("points") {
		cfg.Scan.Points = points
	}
	if cmd.Flags().Changed("sweeps") {
		cfg.Scan.Sweeps = sweeps
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cmd.Flags().Changed("scaling-sizes") {
		cfg.Scan.ScalingSizes = scalingSizes
	}
	if cmd.Flags().Changed("images") {
		cfg.ImagesDir = imagesDir
	}
	if cmd.Flags().Changed("data") {
		cfg.DataDir = dataDir
	}

	if len(args) > 0 {
		if err := parseArgs(cfg, args); err != nil {
			return err
		}
	}

	if err := cfg.ValidateScan(); err != nil {
		return err
	}
	runSeed, err := cfg.ResolveSeed()
	if err != nil {
		return err
	}

	betas := sampler.BetaGrid(cfg.Scan.BetaStart, cfg.Scan.BetaEnd, cfg.Scan.Points)
	opts := sampler.Options{
		J:       cfg.J,
		MCTimes: cfg.Scan.MCTimes,
		Sweeps:  cfg.Scan.Sweeps,
		Seed:    uint64(runSeed),
		Workers: cfg.Workers,
	}

	fmt.Println(viz.Title.Render(fmt.Sprintf("wolff scan: J=%g, β∈[%g, %g), %d points, %d trials",
		cfg.J, cfg.Scan.BetaStart, cfg.Scan.BetaEnd, cfg.Scan.Points, cfg.Scan.MCTimes)))
	fmt.Println(viz.Metric("seed", runSeed))

	start := time.Now()
	binderSizes := sampler.BinderSizes(cfg.Size)
	opts.Progress = progress("binder")
	binderPoints, err := sampler.Scan(cmd.Context(), binderSizes, betas, opts)
	if err != nil {
		return err
	}
	binder := sampler.BinderCurves(binderPoints)

	if err := writePlot(filepath.Join(cfg.ImagesDir, "u4.bmp"), plot.Curves, plot.Figure{
		Title:  "Binder cumulant",
		XLabel: "T",
		YLabel: "U4",
	}, binder); err != nil {
		return err
	}

	summary := report(binder, binderPoints)

	if preview {
		for _, c := range binder {
			if chart := plot.Preview(fmt.Sprintf("U4, L=%d", c.Size), c.Y, 80, 8); chart != "" {
				fmt.Println()
				fmt.Println(chart)
			}
		}
		fmt.Println()
	}

	// Independent stream from the Binder scan even where sizes coincide.
	opts.Seed = uint64(runSeed) + 1
	opts.Progress = progress("scaling")
	scalingPoints, err := sampler.Scan(cmd.Context(), cfg.Scan.ScalingSizes, betas, opts)
	if err != nil {
		return err
	}
	scaling := sampler.ScalingCurves(scalingPoints)

	if err := writePlot(filepath.Join(cfg.ImagesDir, "scaling.png"), plot.Scatter, plot.Figure{
		Title:  "finite-size scaling",
		XLabel: "L·(T - Tc)/Tc",
		YLabel: "<|m|>·L^(1/8)",
	}, scaling); err != nil {
		return err
	}

	fmt.Println(viz.Separator(40))
	fmt.Println(viz.Metric("completed in", time.Since(start).Round(time.Millisecond)))

	if cfg.DataDir != "" {
		runID, err := record(cfg, runSeed, summary, binder, scaling)
		if err != nil {
			return err
		}
		fmt.Println(viz.Metric("run id", runID))
	}
	return nil
}

func parseArgs(cfg *config.Config, args []string) (err error) {
	if cfg.Size, err = cli.Uint("size", args[0]); err != nil {
		return err
	}
	if cfg.J, err = cli.Float("J", args[1]); err != nil {
		return err
	}
	if cfg.Scan.BetaStart, err = cli.Float("beta_start", args[2]); err != nil {
		return err
	}
	if cfg.Scan.BetaEnd, err = cli.Float("beta_end", args[3]); err != nil {
		return err
	}
	cfg.Scan.MCTimes, err = cli.Uint("mc_times", args[4])
	return err
}

// progress redraws a single status line; the last call ends it.
func progress(label string) func(done, total int) {
	return func(done, total int) {
		fmt.Printf("\r%s", viz.Progress(label, done, total, barWidth))
		if done == total {
			fmt.Println()
		}
	}
}

func writePlot(path string, draw func(string, plot.Figure, []plot.Series) error, fig plot.Figure, curves []sampler.Curve) error {
	series := make([]plot.Series, len(curves))
	for i, c := range curves {
		series[i] = plot.Series{Name: fmt.Sprintf("L=%d", c.Size), X: c.X, Y: c.Y}
	}

	err := draw(path, fig, series)
	if errors.Is(err, plot.ErrNoData) {
		log.Printf("no finite points, skipping %s", path)
		return nil
	}
	if err != nil {
		return err
	}
	log.Printf("wrote %s", path)
	return nil
}

// report prints the Binder crossings of consecutive sizes and the
// susceptibility peak per size, and returns them keyed for the run record.
func report(binder []sampler.Curve, points [][]sampler.Point) map[string]float64 {
	summary := map[string]float64{"exact_tc": sampler.CriticalTemperature}

	fmt.Println(viz.Metric("exact Tc", sampler.CriticalTemperature))
	for i := 1; i < len(binder); i++ {
		a, b := binder[i-1], binder[i]
		label := fmt.Sprintf("crossing L=%d/%d", a.Size, b.Size)
		tc, err := sampler.Crossing(a, b)
		if err != nil {
			fmt.Println(viz.MetricLabel.Render(label) + viz.Subtle.Render("none in range"))
			continue
		}
		fmt.Println(viz.Metric(label, fmt.Sprintf("%.4f (%+.2f%%)", tc, 100*(tc-sampler.CriticalTemperature)/sampler.CriticalTemperature)))
		summary[fmt.Sprintf("crossing_%d_%d", a.Size, b.Size)] = tc
	}

	for _, row := range points {
		if len(row) == 0 {
			continue
		}
		peak, chi := -1, math.Inf(-1)
		for i, p := range row {
			if v := p.Moments.Susceptibility(p.Beta, p.Size); v > chi {
				peak, chi = i, v
			}
		}
		if peak < 0 {
			continue
		}
		p := row[peak]
		fmt.Println(viz.Metric(fmt.Sprintf("χ peak L=%d", p.Size),
			fmt.Sprintf("T=%.4f χ=%.3f cluster=%.1f", p.Temperature(), chi, p.Moments.MeanClusterSize())))
		if t := p.Temperature(); !math.IsInf(t, 0) {
			summary[fmt.Sprintf("chi_peak_t_%d", p.Size)] = t
		}
	}
	return summary
}

func record(cfg *config.Config, runSeed int64, summary map[string]float64, binder, scaling []sampler.Curve) (string, error) {
	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return "", err
	}
	return st.SaveScan(storage.RunMetadata{
		Seed:      runSeed,
		Size:      cfg.Size,
		J:         cfg.J,
		BetaStart: cfg.Scan.BetaStart,
		BetaEnd:   cfg.Scan.BetaEnd,
		MCTimes:   cfg.Scan.MCTimes,
		Points:    cfg.Scan.Points,
		Summary:   summary,
	}, binder, scaling)
}
