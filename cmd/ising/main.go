package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/umdetree/Ising2D-Wolff/internal/cli"
	"github.com/umdetree/Ising2D-Wolff/internal/config"
	"github.com/umdetree/Ising2D-Wolff/internal/lattice"
	"github.com/umdetree/Ising2D-Wolff/internal/plot"
	"github.com/umdetree/Ising2D-Wolff/internal/sampler"
	"github.com/umdetree/Ising2D-Wolff/internal/storage"
	"github.com/umdetree/Ising2D-Wolff/internal/viz"
)

var (
	configFile     string
	preset         string
	seed           int64
	stepsPerSample int
	imagesDir      string
	dataDir        string
	watch          bool
	theme          string
	preview        bool
)

// main runs a single lattice for a fixed number of samples and plots its
// energy and magnetization. It exits with status 1 on any error.
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
		Use:   "ising [flags] <size> <J> <beta> <steps>",
		Short: "Wolff cluster time series of the 2D Ising model",
		Long: `Wolff cluster time series of the 2D Ising model.

The positional arguments may be omitted when --preset or --config supplies
size, j, beta and steps. Given arguments override both.`,
		Args:          cli.ExactArgsOrConfig(4),
		RunE:          runSeries,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 draws a fresh one)")
	rootCmd.Flags().IntVar(&stepsPerSample, "sweeps", 1, "Wolff steps between samples")
	rootCmd.Flags().StringVar(&imagesDir, "images", "./images", "output directory for plots")
	rootCmd.Flags().StringVar(&dataDir, "data", "", "record the run's series under this directory")
	rootCmd.Flags().BoolVar(&watch, "watch", false, "show the lattice live while sampling")
	rootCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "live view theme")
	rootCmd.Flags().BoolVar(&preview, "preview", false, "print terminal charts of the series")
	cli.NumericArgs(rootCmd)

	return rootCmd
}

func runSeries(cmd *cobra.Command, args []string) error {
	cfg, err := cli.LoadConfig(preset, configFile)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("sweeps") {
		cfg.StepsPerSample = stepsPerSample
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

	if err := cfg.Validate(); err != nil {
		return err
	}
	runSeed, err := cfg.ResolveSeed()
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewPCG(uint64(runSeed), 0))
	l, err := lattice.New(cfg.Size, cfg.J, cfg.Beta, rng)
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render(fmt.Sprintf("wolff time series: %d×%d, J=%g, β=%g", cfg.Size, cfg.Size, cfg.J, cfg.Beta)))
	fmt.Println(viz.Metric("seed", runSeed))

	start := time.Now()
	var series *sampler.Series
	if watch {
		rec := sampler.NewRecorder(l, rng, cfg.StepsPerSample, cfg.Steps)
		series, err = viz.Watch(cmd.Context(), rec, cfg.Steps, viz.GetTheme(theme))
	} else {
		series, err = sampler.RunSeries(cmd.Context(), l, rng, cfg.Steps, cfg.StepsPerSample)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Println(viz.Separator(40))
	fmt.Println(viz.Metric("samples", series.Len()))
	fmt.Println(viz.Metric("completed in", elapsed.Round(time.Millisecond)))
	fmt.Println(viz.Metric("final energy", fmt.Sprintf("%.4f", l.Energy())))
	fmt.Println(viz.Metric("final m", fmt.Sprintf("%+.6f", l.MagnetizationPerSite())))
	fmt.Println(viz.Metric("mean cluster size", fmt.Sprintf("%.2f", series.MeanClusterSize(cfg.StepsPerSample))))

	if preview {
		fmt.Println()
		fmt.Println(plot.Preview("Energy", series.Energy, 80, 10))
		fmt.Println()
		fmt.Println(plot.Preview("magnetic momentum", series.Magnetization, 80, 10))
	}

	if err := writePlots(cfg.ImagesDir, series); err != nil {
		return err
	}

	if cfg.DataDir != "" {
		st := storage.New(cfg.DataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.SaveSeries(storage.RunMetadata{
			Seed:           runSeed,
			Size:           cfg.Size,
			J:              cfg.J,
			Beta:           cfg.Beta,
			Steps:          cfg.Steps,
			StepsPerSample: cfg.StepsPerSample,
			Summary: map[string]float64{
				"final_energy":        l.Energy(),
				"final_magnetization": l.MagnetizationPerSite(),
				"mean_cluster_size":   series.MeanClusterSize(cfg.StepsPerSample),
			},
		}, series)
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
	if cfg.Beta, err = cli.Float("beta", args[2]); err != nil {
		return err
	}
	cfg.Steps, err = cli.Uint("steps", args[3])
	return err
}

func writePlots(dir string, series *sampler.Series) error {
	plots := []struct {
		file    string
		caption string
		label   string
		data    []float64
	}{
		{"energy.png", "E in Wolff", "Energy", series.Energy},
		{"mag_m.png", "m in Wolff", "magnetic momentum", series.Magnetization},
	}

	for _, p := range plots {
		path := filepath.Join(dir, p.file)
		err := plot.Line(path, plot.Figure{Title: p.caption, XLabel: "steps", YLabel: p.label}, p.data)
		if errors.Is(err, plot.ErrNoData) {
			log.Printf("no samples recorded, skipping %s", path)
			continue
		}
		if err != nil {
			return err
		}
		log.Printf("wrote %s", path)
	}
	return nil
}
