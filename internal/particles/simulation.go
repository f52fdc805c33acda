package particles

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/equilab/internal/input"
	"github.com/san-kum/equilab/internal/logutil"
	"github.com/san-kum/equilab/internal/notify"
	"github.com/san-kum/equilab/internal/telemetry"
)

type Status int

const (
	Idle Status = iota
	Running
	// Stopped is Idle with the population preserved.
	Stopped
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "idle"
	}
}

type Option func(*Simulation)

// WithRand injects the random source used for placement, velocities and
// collision draws.
func WithRand(rng *rand.Rand) Option {
	return func(s *Simulation) { s.rng = rng }
}

func WithNotifier(n notify.Notifier) Option {
	return func(s *Simulation) { s.notifier = n }
}

func WithLogger(l *logutil.Logger) Option {
	return func(s *Simulation) { s.log = l }
}

type Simulation struct {
	cfg      Config
	rng      *rand.Rand
	notifier notify.Notifier
	log      *logutil.Logger

	particles []Particle
	status    Status
	reached   bool
	value     float64
	tick      int
	atoms     int
	history   *telemetry.Series
}

// Frame summarizes one tick for renderers.
type Frame struct {
	Tick      int
	Counts    Counts
	Kc        float64
	Reached   bool
	Entered   bool
	Left      bool
	Reactions int
}

// Point is the telemetry sample of the frame.
func (f Frame) Point() telemetry.Point {
	return telemetry.Point{Tick: f.Tick, A: f.Counts.A, B: f.Counts.B, AB: f.Counts.AB, Kc: f.Kc}
}

func New(cfg Config, opts ...Option) *Simulation {
	cfg = cfg.normalized()
	s := &Simulation{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(cfg.Seed))
	}
	if s.log == nil {
		s.log = logutil.Discard()
	}
	s.history = telemetry.NewSeries(cfg.HistoryCap)
	s.repopulate(cfg.Counts)
	return s
}

func (s *Simulation) Config() Config { return s.cfg }

// Start moves Idle or Stopped to Running. It reports false when already running.
func (s *Simulation) Start() bool {
	if s.status == Running {
		return false
	}
	s.status = Running
	return true
}

func (s *Simulation) Stop() {
	if s.status == Running {
		s.status = Stopped
	}
}

// Reset returns to Idle with a fresh population from the configured counts.
func (s *Simulation) Reset() {
	s.status = Idle
	s.clearEquilibrium()
	s.tick = 0
	s.history.Reset()
	s.repopulate(s.cfg.Counts)
}

// Teardown drops the population; the simulation must be Reset before reuse.
func (s *Simulation) Teardown() {
	s.status = Idle
	s.clearEquilibrium()
	s.tick = 0
	s.history.Reset()
	s.particles = nil
	s.atoms = 0
}

// SetCounts replaces the whole population. No particle identity survives.
func (s *Simulation) SetCounts(c Counts) {
	s.cfg.Counts = c.normalized()
	s.repopulate(s.cfg.Counts)
}

// SetTarget rejects non-positive or non-finite values and keeps the old target.
func (s *Simulation) SetTarget(kc float64) error {
	if err := input.Positive("target Kc", kc); err != nil {
		return err
	}
	s.cfg.TargetKc = kc
	return nil
}

// SetSpeed clamps to [MinSpeed, MaxSpeed]; NaN is ignored.
func (s *Simulation) SetSpeed(v float64) {
	if math.IsNaN(v) {
		return
	}
	s.cfg.Speed = clampSpeed(v)
	s.log.Debugf("reaction speed factor: %.0f", s.cfg.Speed)
}

func (s *Simulation) Status() Status { return s.status }
func (s *Simulation) TimeStep() int  { return s.tick }
func (s *Simulation) Atoms() int     { return s.atoms }
func (s *Simulation) Counts() Counts { return CountSpecies(s.particles) }
func (s *Simulation) Kc() float64    { return s.Counts().Kc() }

// Equilibrium reports whether the target is currently met and the latched Kc.
func (s *Simulation) Equilibrium() (bool, float64) { return s.reached, s.value }

func (s *Simulation) Particles() []Particle {
	out := make([]Particle, len(s.particles))
	copy(out, s.particles)
	return out
}

func (s *Simulation) History() []telemetry.Point { return s.history.Points() }

// Series exposes the telemetry buffer for chart columns.
func (s *Simulation) Series() *telemetry.Series { return s.history }

func (s *Simulation) repopulate(c Counts) {
	s.particles = populate(s.rng, c, s.cfg.Width, s.cfg.Height)
	s.atoms = c.Atoms()
}

func (s *Simulation) clearEquilibrium() {
	s.reached = false
	s.value = 0
}

func (s *Simulation) emit(kind notify.Kind, kc float64) {
	if s.notifier == nil {
		return
	}
	ev := notify.Event{
		Kind:   kind,
		Tick:   s.tick,
		Kc:     kc,
		Target: s.cfg.TargetKc,
		At:     time.Now(),
	}
	if err := s.notifier.Notify(context.Background(), ev); err != nil {
		s.log.Warnf("notify %s: %v", kind, err)
	}
}
