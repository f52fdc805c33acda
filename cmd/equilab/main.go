package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/equilab/internal/config"
	"github.com/san-kum/equilab/internal/logutil"
	"github.com/san-kum/equilab/internal/notify"
	"github.com/san-kum/equilab/internal/particles"
	"github.com/san-kum/equilab/internal/storage"
	"github.com/san-kum/equilab/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	envFile    string
	preset     string
	themeName  string

	// simulation flags, applied over config when set
	countA  int
	countB  int
	countAB int
	target  float64
	speed   float64
	seed    int64
	fps     int
	chime   bool

	cfg *config.Config
	log *logutil.Logger
)

// main registers commands and runs the root command; with no subcommand the
// interactive terminal simulator starts.
func main() {
	rootCmd := &cobra.Command{
		Use:               "equilab",
		Short:             "chemical equilibrium lab",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE:              runTUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&envFile, "env", ".env", "dotenv file with EQUILAB_* overrides")

	rootCmd.AddCommand(solverCommands()...)
	rootCmd.AddCommand(simulationCommands(rootCmd)...)
	rootCmd.AddCommand(runCommands()...)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list simulation presets",
		RunE:  listPresets,
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the default config to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(presetsCmd, initConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addSimulationFlags registers the flags shared by every command that builds
// a simulator.
func addSimulationFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&countA, "a", 50, "initial reactant A particles")
	f.IntVar(&countB, "b", 50, "initial reactant B particles")
	f.IntVar(&countAB, "ab", 0, "initial product AB particles")
	f.Float64Var(&target, "target", particles.DefaultTargetKc, "target equilibrium constant")
	f.Float64Var(&speed, "speed", particles.DefaultSpeed, "reaction speed factor (1-10)")
	f.Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	f.IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&themeName, "theme", viz.ThemeClassic.Name, "color theme")
	f.BoolVar(&chime, "chime", false, "play a tone when equilibrium is reached")
}

// setup resolves configuration in order: defaults, config file, preset,
// dotenv/environment, then explicitly set flags.
func setup(cmd *cobra.Command, args []string) error {
	cfg = config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.Simulation = *p
	}

	if err := cfg.ApplyEnv(envFile); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	s := &cfg.Simulation
	if flags.Changed("a") {
		s.Counts.A = countA
	}
	if flags.Changed("b") {
		s.Counts.B = countB
	}
	if flags.Changed("ab") {
		s.Counts.AB = countAB
	}
	if flags.Changed("target") {
		s.TargetKc = target
	}
	if flags.Changed("speed") {
		s.Speed = speed
	}
	if flags.Changed("seed") {
		s.Seed = seed
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("chime") {
		cfg.Chime = chime
	}

	log = logutil.New(cfg.LogLevel)
	log.Debugf("config: data=%s target=%.2f counts=%+v", cfg.DataDir, s.TargetKc, s.Counts)
	return nil
}

// newSimulation validates the resolved config and builds a simulator wired to
// a notification dispatcher. The caller must Close the dispatcher.
func newSimulation() (*particles.Simulation, *notify.Dispatcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if cfg.Simulation.Seed == 0 {
		cfg.Simulation.Seed = time.Now().UnixNano()
	}

	d := notify.NewDispatcher(log, 16, notify.NewLogNotifier(log))
	if cfg.Chime {
		c := notify.NewChime()
		if err := c.Start(); err != nil {
			log.Warnf("chime disabled: %v", err)
		} else {
			d.Add(c)
		}
	}

	sim := particles.New(cfg.Particles(),
		particles.WithNotifier(d),
		particles.WithLogger(log),
	)
	return sim, d, nil
}

func openStore() *storage.Store {
	return storage.New(cfg.DataDir)
}

func listPresets(cmd *cobra.Command, args []string) error {
	fmt.Println("available presets:")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Printf("  %-14s A=%-3d B=%-3d AB=%-3d target=%.2f speed=%.0f\n",
			name, p.Counts.A, p.Counts.B, p.Counts.AB, p.TargetKc, p.Speed)
	}
	return nil
}
