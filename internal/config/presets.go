package config

import (
	"sort"

	"github.com/san-kum/equilab/internal/particles"
)

// Presets are named starting populations for the simulator.
var Presets = map[string]SimulationConfig{
	"balanced": withSim(func(s *SimulationConfig) {}),
	"excess-a": withSim(func(s *SimulationConfig) {
		s.Counts = particles.Counts{A: 80, B: 20}
	}),
	"product-rich": withSim(func(s *SimulationConfig) {
		s.Counts = particles.Counts{A: 10, B: 10, AB: 40}
		s.TargetKc = 4
	}),
	"high-k": withSim(func(s *SimulationConfig) {
		s.TargetKc = 10
	}),
	"slow": withSim(func(s *SimulationConfig) {
		s.Speed = 1
	}),
}

func withSim(f func(*SimulationConfig)) SimulationConfig {
	s := DefaultSimulation()
	f(&s)
	return s
}

func GetPreset(name string) *SimulationConfig {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return &p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
