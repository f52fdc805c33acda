package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/equilab/internal/chem"
	"github.com/san-kum/equilab/internal/particles"
	"github.com/san-kum/equilab/internal/telemetry"
)

const (
	DefaultDataDir  = ".equilab"
	DefaultLogLevel = "info"
	DefaultFPS      = 60
	DefaultK        = 4.0
	DefaultReactant = 1.0
	DefaultProduct  = 0.0
)

const (
	EnvDataDir  = "EQUILAB_DATA"
	EnvLogLevel = "EQUILAB_LOG_LEVEL"
	EnvSeed     = "EQUILAB_SEED"
)

type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Solver     SolverConfig     `yaml:"solver"`
	DataDir    string           `yaml:"data_dir"`
	LogLevel   string           `yaml:"log_level"`
	FPS        int              `yaml:"fps"`
	Chime      bool             `yaml:"chime"`
}

type SimulationConfig struct {
	Width     float64          `yaml:"width"`
	Height    float64          `yaml:"height"`
	Counts    particles.Counts `yaml:"counts"`
	TargetKc  float64          `yaml:"target_kc"`
	Speed     float64          `yaml:"speed"`
	Seed      int64            `yaml:"seed"`
	History   int              `yaml:"history"`
	Tolerance float64          `yaml:"tolerance"`
}

type SolverConfig struct {
	K           float64           `yaml:"k"`
	Reactant    float64           `yaml:"reactant"`
	Product     float64           `yaml:"product"`
	FourSpecies FourSpeciesConfig `yaml:"four_species"`
}

type FourSpeciesConfig struct {
	A float64 `yaml:"a"`
	B float64 `yaml:"b"`
	C float64 `yaml:"c"`
	D float64 `yaml:"d"`
}

func DefaultSimulation() SimulationConfig {
	d := particles.DefaultConfig()
	return SimulationConfig{
		Width:     d.Width,
		Height:    d.Height,
		Counts:    d.Counts,
		TargetKc:  d.TargetKc,
		Speed:     d.Speed,
		History:   telemetry.DefaultCapacity,
		Tolerance: d.Tolerance,
	}
}

func DefaultConfig() *Config {
	return &Config{
		Simulation: DefaultSimulation(),
		Solver: SolverConfig{
			K:           DefaultK,
			Reactant:    DefaultReactant,
			Product:     DefaultProduct,
			FourSpecies: FourSpeciesConfig{A: 1, B: 1},
		},
		DataDir:  DefaultDataDir,
		LogLevel: DefaultLogLevel,
		FPS:      DefaultFPS,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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

// ApplyEnv overrides DataDir, LogLevel and Simulation.Seed from the
// environment. Values in the given dotenv files (default ".env") are used
// when the variable is not set in the process environment. Missing files are
// skipped.
func (c *Config) ApplyEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	vars := map[string]string{}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		m, err := godotenv.Read(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		for k, v := range m {
			if _, seen := vars[k]; !seen {
				vars[k] = v
			}
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := vars[key]
		return v, ok && v != ""
	}

	if v, ok := lookup(EnvDataDir); ok {
		c.DataDir = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvSeed); ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvSeed, v, chem.ErrInvalidInput)
		}
		c.Simulation.Seed = seed
	}
	return nil
}

func (c *Config) Validate() error {
	s := c.Simulation
	if !(s.TargetKc > 0) {
		return fmt.Errorf("target_kc must be positive, got %v: %w", s.TargetKc, chem.ErrInvalidInput)
	}
	if s.Counts.A < 0 || s.Counts.B < 0 || s.Counts.AB < 0 {
		return fmt.Errorf("counts must be non-negative, got %+v: %w", s.Counts, chem.ErrInvalidInput)
	}
	if s.Speed < particles.MinSpeed || s.Speed > particles.MaxSpeed {
		return fmt.Errorf("speed must be in [%v, %v], got %v: %w",
			particles.MinSpeed, particles.MaxSpeed, s.Speed, chem.ErrInvalidInput)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d: %w", c.FPS, chem.ErrInvalidInput)
	}
	return nil
}

// Particles converts the simulation section. Zero geometry and tolerance
// fields fall back to the simulator defaults.
func (c *Config) Particles() particles.Config {
	d := particles.DefaultConfig()
	s := c.Simulation
	return particles.Config{
		Width:           s.Width,
		Height:          s.Height,
		Counts:          s.Counts,
		TargetKc:        s.TargetKc,
		Speed:           s.Speed,
		Tolerance:       s.Tolerance,
		CollisionRadius: d.CollisionRadius,
		HistoryCap:      s.History,
		Seed:            s.Seed,
	}
}

func (c *Config) Four() chem.FourSpecies {
	f := c.Solver.FourSpecies
	return chem.FourSpecies{A: f.A, B: f.B, C: f.C, D: f.D}
}
