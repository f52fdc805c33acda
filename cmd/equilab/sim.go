package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/equilab/internal/analysis"
	"github.com/san-kum/equilab/internal/gui"
	"github.com/san-kum/equilab/internal/particles"
	"github.com/san-kum/equilab/internal/storage"
	"github.com/san-kum/equilab/internal/telemetry"
	"github.com/san-kum/equilab/internal/tui"
	"github.com/san-kum/equilab/internal/viz"
)

var (
	maxSteps         int
	untilEquilibrium bool
	noSave           bool
	runName          string
	watchDuration    time.Duration
	ensembleRuns     int
)

func simulationCommands(root *cobra.Command) []*cobra.Command {
	addSimulationFlags(root)

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive terminal simulator",
		RunE:  runTUI,
	}
	addSimulationFlags(tuiCmd)

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "graphical simulator window",
		RunE:  runGUI,
	}
	addSimulationFlags(guiCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the particle simulator headless and save the telemetry",
		RunE:  runHeadless,
	}
	addSimulationFlags(runCmd)
	runCmd.Flags().IntVar(&maxSteps, "steps", 2000, "maximum ticks")
	runCmd.Flags().BoolVar(&untilEquilibrium, "until-equilibrium", false, "stop at the first tick in equilibrium")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not write a run log")
	runCmd.Flags().StringVar(&runName, "name", "run", "run name prefix")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "live ANSI view of the simulator",
		RunE:  runWatch,
	}
	addSimulationFlags(watchCmd)
	watchCmd.Flags().BoolVar(&untilEquilibrium, "until-equilibrium", false, "stop once equilibrium is reached")
	watchCmd.Flags().DurationVar(&watchDuration, "duration", 0, "stop after this long (0 runs until interrupted)")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run one configuration over consecutive seeds in parallel",
		RunE:  runEnsemble,
	}
	addSimulationFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&ensembleRuns, "runs", 8, "number of seeds")
	ensembleCmd.Flags().IntVar(&maxSteps, "steps", 2000, "maximum ticks per run")

	return []*cobra.Command{tuiCmd, guiCmd, runCmd, watchCmd, ensembleCmd}
}

func runTUI(cmd *cobra.Command, args []string) error {
	sim, d, err := newSimulation()
	if err != nil {
		return err
	}
	defer d.Close()
	defer sim.Teardown()

	return tui.Run(sim, cfg.FPS, viz.GetTheme(themeName))
}

func runGUI(cmd *cobra.Command, args []string) error {
	sim, d, err := newSimulation()
	if err != nil {
		return err
	}
	defer d.Close()
	defer sim.Teardown()

	gui.Run(sim, cfg.FPS, viz.GetTheme(themeName), log)
	return nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	sim, d, err := newSimulation()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pcfg := sim.Config()
	fmt.Printf("running %d A + %d B + %d AB, target Kc %.2f...\n",
		pcfg.Counts.A, pcfg.Counts.B, pcfg.Counts.AB, pcfg.TargetKc)
	start := time.Now()

	res, err := sim.Run(ctx, maxSteps, untilEquilibrium)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	elapsed := time.Since(start)

	points := res.Trace
	fmt.Printf("completed in %v\n", elapsed)
	printResult(res)

	if len(points) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.PlotMany(speciesColumns(points),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue, asciigraph.Magenta),
			asciigraph.Caption("A (red)  B (blue)  AB (magenta)"),
		))
	}

	sum := analysis.Summarize(points, pcfg.TargetKc, pcfg.Tolerance)
	if sum.SettledAt >= 0 {
		fmt.Printf("first within tolerance at tick %d, %d crossings of the target\n", sum.SettledAt, sum.Crossings)
	}

	if noSave {
		return nil
	}
	runID, err := openStore().Save(storage.NewMetadata(runName, pcfg, res), points)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func printResult(res *particles.RunResult) {
	fmt.Printf("steps: %d\n", res.Steps)
	fmt.Printf("reactions: %d\n", res.Reactions)
	fmt.Printf("final: A=%d B=%d AB=%d\n", res.Final.A, res.Final.B, res.Final.AB)
	fmt.Printf("Kc: %s\n", tui.FormatKc(res.Kc))
	if res.Reached {
		fmt.Printf("equilibrium reached at tick %d\n", res.ReachedAt)
	} else {
		fmt.Println("equilibrium not reached")
	}
}

// speciesColumns splits telemetry into the A, B and AB series for PlotMany.
func speciesColumns(points []telemetry.Point) [][]float64 {
	cols := make([][]float64, 0, 3)
	for _, f := range []func(telemetry.Point) float64{telemetry.ColumnA, telemetry.ColumnB, telemetry.ColumnAB} {
		col := make([]float64, len(points))
		for i, p := range points {
			col[i] = f(p)
		}
		cols = append(cols, col)
	}
	return cols
}

func runWatch(cmd *cobra.Command, args []string) error {
	sim, d, err := newSimulation()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if watchDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, watchDuration)
		defer cancel()
	}

	pcfg := sim.Config()
	live := tui.NewLiveRenderer(os.Stdout, cfg.FPS, pcfg.Width, pcfg.Height)
	reached := make(chan struct{}, 1)

	runner := particles.NewRunner(sim, cfg.FPS, func(f particles.Frame) {
		live.OnFrame(f, sim.Particles())
		if f.Entered {
			select {
			case reached <- struct{}{}:
			default:
			}
		}
	})

	live.Start()
	defer live.Stop()
	runner.Start(ctx)

	for {
		select {
		case <-ctx.Done():
			runner.Stop()
			return nil
		case <-reached:
			if untilEquilibrium {
				runner.Stop()
				fmt.Printf("\nequilibrium reached at tick %d, Kc %s\n", sim.TimeStep(), tui.FormatKc(sim.Kc()))
				return nil
			}
		}
	}
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if ensembleRuns <= 0 {
		return fmt.Errorf("runs must be positive, got %d", ensembleRuns)
	}
	if cfg.Simulation.Seed == 0 {
		cfg.Simulation.Seed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pcfg := cfg.Particles()
	e := particles.NewEnsemble(pcfg, ensembleRuns, pcfg.Seed, particles.WithLogger(log))

	fmt.Printf("running %d seeds from %d, target Kc %.2f...\n", ensembleRuns, pcfg.Seed, pcfg.TargetKc)
	start := time.Now()
	results, err := e.Run(ctx, maxSteps, true)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSTEPS\tREACTIONS\tFINAL\tKC\tREACHED")
	reached, total := 0, 0
	for i, res := range results {
		if res == nil {
			continue
		}
		at := "-"
		if res.Reached {
			at = fmt.Sprintf("tick %d", res.ReachedAt)
			reached++
			total += res.ReachedAt
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%d/%d/%d\t%s\t%s\n",
			e.Seed(i), res.Steps, res.Reactions,
			res.Final.A, res.Final.B, res.Final.AB,
			tui.FormatKc(res.Kc), at)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d/%d reached equilibrium", reached, len(results))
	if reached > 0 {
		fmt.Printf(", mean tick %.1f", float64(total)/float64(reached))
	}
	fmt.Println()
	return nil
}
