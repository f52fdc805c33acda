package particles

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/equilab/internal/analysis"
	"github.com/san-kum/equilab/internal/chem"
	"github.com/san-kum/equilab/internal/notify"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 200
	cfg.Height = 200
	cfg.Seed = 42
	return cfg
}

// manual builds a simulation around a hand-placed population.
func manual(cfg Config, ps ...Particle) *Simulation {
	s := New(cfg, WithRand(rand.New(rand.NewSource(1))))
	s.particles = ps
	s.atoms = CountSpecies(ps).Atoms()
	return s
}

func TestNewPopulation(t *testing.T) {
	s := New(testConfig())

	c := s.Counts()
	if c.A != 50 || c.B != 50 || c.AB != 0 {
		t.Errorf("expected 50/50/0, got %+v", c)
	}
	if s.Atoms() != 100 {
		t.Errorf("expected 100 atoms, got %d", s.Atoms())
	}
	if s.Status() != Idle {
		t.Errorf("expected idle, got %v", s.Status())
	}
	for _, p := range s.Particles() {
		if p.X < 0 || p.X > 200 || p.Y < 0 || p.Y > 200 {
			t.Fatalf("particle spawned outside canvas: %+v", p)
		}
	}
}

func TestNewNormalizesBadConfig(t *testing.T) {
	cfg := Config{
		Width:    math.NaN(),
		Height:   -1,
		Counts:   Counts{A: -5, B: 3},
		TargetKc: math.NaN(),
		Speed:    99,
	}
	s := New(cfg)

	got := s.Config()
	if got.Width != DefaultWidth || got.Height != DefaultHeight {
		t.Errorf("expected default canvas, got %gx%g", got.Width, got.Height)
	}
	if got.Speed != MaxSpeed {
		t.Errorf("expected speed clamped to %g, got %g", MaxSpeed, got.Speed)
	}
	if c := s.Counts(); c.A != 0 || c.B != 3 {
		t.Errorf("expected 0/3 population, got %+v", c)
	}

	f := s.Step()
	if f.Reached {
		t.Error("equilibrium must not be reached against an invalid target")
	}
}

func TestStartStopTransitions(t *testing.T) {
	s := New(testConfig())

	if !s.Start() {
		t.Fatal("expected first start to succeed")
	}
	if s.Start() {
		t.Error("expected start to be a no-op while running")
	}

	s.Step()
	before := s.Counts()

	s.Stop()
	if s.Status() != Stopped {
		t.Errorf("expected stopped, got %v", s.Status())
	}
	if after := s.Counts(); after != before {
		t.Errorf("stop must preserve population: %+v vs %+v", before, after)
	}

	if !s.Start() {
		t.Error("expected restart from stopped")
	}
}

func TestAtomInvariant(t *testing.T) {
	cfg := testConfig()
	cfg.Counts = Counts{A: 80, B: 60, AB: 10}
	cfg.TargetKc = 1000
	cfg.Speed = 10
	s := New(cfg)
	want := s.Atoms()

	for i := 0; i < 400; i++ {
		s.Step()
		c := s.Counts()
		if c.Atoms() != want {
			t.Fatalf("tick %d: atoms %d, want %d", i, c.Atoms(), want)
		}
		for _, p := range s.particles {
			if p.Species == Merged {
				t.Fatalf("tick %d: merged particle survived compaction", i)
			}
		}
	}
	if s.Counts().AB == 10 {
		t.Error("expected some reactions over 400 ticks")
	}
}

func TestNoDoubleConsumption(t *testing.T) {
	cfg := testConfig()
	cfg.Speed = MaxSpeed
	cfg.TargetKc = 100

	s := manual(cfg,
		Particle{X: 100, Y: 100, Species: ReactantA},
		Particle{X: 103, Y: 100, Species: ReactantB},
		Particle{X: 97, Y: 100, Species: ReactantB},
	)

	f := s.Step()
	if f.Reactions != 1 {
		t.Fatalf("expected 1 reaction, got %d", f.Reactions)
	}
	if c := s.Counts(); c.A != 0 || c.B != 1 || c.AB != 1 {
		t.Errorf("expected 0/1/1, got %+v", c)
	}

	ps := s.Particles()
	for _, p := range ps {
		if p.Species == ProductAB && (p.X < 98 || p.X > 102) {
			t.Errorf("expected product at a midpoint, got x=%g", p.X)
		}
	}
}

func TestCollisionRadiusIsStrict(t *testing.T) {
	cfg := testConfig()
	cfg.Speed = MaxSpeed
	cfg.TargetKc = 100

	s := manual(cfg,
		Particle{X: 50, Y: 50, Species: ReactantA},
		Particle{X: 60, Y: 50, Species: ReactantB},
	)
	if f := s.Step(); f.Reactions != 0 {
		t.Errorf("pair exactly at the radius must not react, got %d reactions", f.Reactions)
	}
}

func TestWallReflection(t *testing.T) {
	cfg := testConfig()
	s := manual(cfg,
		Particle{X: 0.5, Y: 100, VX: -1, VY: 0, Species: ReactantA},
		Particle{X: 100, Y: 199.5, VX: 0, VY: 1, Species: ProductAB},
	)

	s.Step()
	ps := s.Particles()
	if ps[0].VX != 1 {
		t.Errorf("expected vx flipped to 1, got %g", ps[0].VX)
	}
	if ps[0].VY != 0 {
		t.Errorf("reflection must be axis independent, vy=%g", ps[0].VY)
	}
	if ps[1].VY != -1 {
		t.Errorf("expected vy flipped to -1, got %g", ps[1].VY)
	}
}

func TestEquilibriumRenotifiesOnReentry(t *testing.T) {
	cfg := testConfig()
	var events []notify.Event
	s := New(cfg, WithNotifier(notify.Func(func(e notify.Event) { events = append(events, e) })))
	s.particles = []Particle{
		{X: 10, Y: 10, Species: ReactantA},
		{X: 150, Y: 150, Species: ReactantB},
		{X: 190, Y: 20, Species: ProductAB},
	}

	if f := s.Step(); !f.Entered || !f.Reached {
		t.Fatalf("expected to enter equilibrium, got %+v", f)
	}
	if ok, v := s.Equilibrium(); !ok || v != 1 {
		t.Errorf("expected latched Kc 1, got %v %g", ok, v)
	}

	if err := s.SetTarget(5); err != nil {
		t.Fatal(err)
	}
	if f := s.Step(); !f.Left || f.Reached {
		t.Fatalf("expected to leave equilibrium, got %+v", f)
	}
	if ok, v := s.Equilibrium(); ok || v != 0 {
		t.Errorf("expected cleared equilibrium, got %v %g", ok, v)
	}

	s.SetTarget(1)
	s.Step()
	s.Step()

	reached := 0
	for _, e := range events {
		if e.Kind == notify.EquilibriumReached {
			reached++
		}
	}
	if reached != 2 {
		t.Errorf("expected 2 reached notifications, got %d", reached)
	}
}

func TestSetTargetRejectsInvalid(t *testing.T) {
	s := New(testConfig())
	for _, v := range []float64{0, -2, math.NaN(), math.Inf(1)} {
		if err := s.SetTarget(v); !errors.Is(err, chem.ErrInvalidInput) {
			t.Errorf("SetTarget(%v): expected ErrInvalidInput, got %v", v, err)
		}
	}
	if s.Config().TargetKc != DefaultTargetKc {
		t.Errorf("target changed to %g", s.Config().TargetKc)
	}
}

func TestSetSpeed(t *testing.T) {
	s := New(testConfig())
	s.SetSpeed(0)
	if s.Config().Speed != MinSpeed {
		t.Errorf("expected %g, got %g", MinSpeed, s.Config().Speed)
	}
	s.SetSpeed(7)
	s.SetSpeed(math.NaN())
	if s.Config().Speed != 7 {
		t.Errorf("expected NaN to be ignored, got %g", s.Config().Speed)
	}
}

func TestSetCountsRepopulates(t *testing.T) {
	s := New(testConfig())
	s.SetCounts(Counts{A: 3, B: -1, AB: 4})

	if c := s.Counts(); c.A != 3 || c.B != 0 || c.AB != 4 {
		t.Errorf("expected 3/0/4, got %+v", c)
	}
	if s.Atoms() != 11 {
		t.Errorf("expected 11 atoms, got %d", s.Atoms())
	}

	s.Reset()
	if c := s.Counts(); c.A != 3 || c.AB != 4 {
		t.Errorf("reset must use the latest counts, got %+v", c)
	}
}

func TestTelemetryBounded(t *testing.T) {
	cfg := testConfig()
	cfg.HistoryCap = 10
	s := New(cfg)

	for i := 0; i < 25; i++ {
		s.Step()
	}

	h := s.History()
	if len(h) != 10 {
		t.Fatalf("expected 10 points, got %d", len(h))
	}
	if h[0].Tick != 15 || h[9].Tick != 24 {
		t.Errorf("expected ticks 15..24, got %d..%d", h[0].Tick, h[9].Tick)
	}
	if s.TimeStep() != 25 {
		t.Errorf("expected time step 25, got %d", s.TimeStep())
	}
}

func TestReachesEquilibriumThenResets(t *testing.T) {
	s := New(testConfig())

	res, err := s.Run(context.Background(), 20000, true)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !res.Reached {
		t.Fatalf("expected equilibrium within %d steps, final %+v Kc=%g", res.Steps, res.Final, res.Kc)
	}
	if math.Abs(res.Kc-1.0) >= 0.1 {
		t.Errorf("expected |Kc-1| < 0.1, got %g", res.Kc)
	}
	if res.ReachedAt < 0 {
		t.Error("expected reached tick to be recorded")
	}
	if s.Status() != Stopped {
		t.Errorf("expected stopped after run, got %v", s.Status())
	}

	s.Reset()
	if c := s.Counts(); c != (Counts{A: 50, B: 50}) {
		t.Errorf("expected 50/50/0 after reset, got %+v", c)
	}
	if ok, _ := s.Equilibrium(); ok {
		t.Error("expected equilibrium cleared after reset")
	}
	if s.TimeStep() != 0 || len(s.History()) != 0 {
		t.Errorf("expected counters cleared, tick=%d history=%d", s.TimeStep(), len(s.History()))
	}
}

func TestResetIdempotent(t *testing.T) {
	s := New(testConfig())
	s.Start()
	for i := 0; i < 50; i++ {
		s.Step()
	}

	s.Reset()
	c1, tick1, st1 := s.Counts(), s.TimeStep(), s.Status()
	ok1, v1 := s.Equilibrium()
	h1 := len(s.History())

	s.Reset()
	ok2, v2 := s.Equilibrium()
	if s.Counts() != c1 || s.TimeStep() != tick1 || s.Status() != st1 || ok1 != ok2 || v1 != v2 || len(s.History()) != h1 {
		t.Error("second reset changed observable state")
	}
}

func TestRunValidation(t *testing.T) {
	s := New(testConfig())
	if _, err := s.Run(context.Background(), 0, false); err == nil {
		t.Error("expected error for zero steps")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := s.Run(ctx, 10, false)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if res == nil || res.Steps != 0 {
		t.Errorf("expected empty partial result, got %+v", res)
	}
}

func TestTeardown(t *testing.T) {
	s := New(testConfig())
	s.Step()
	s.Teardown()

	if len(s.Particles()) != 0 || s.Atoms() != 0 || s.TimeStep() != 0 {
		t.Error("expected empty simulation after teardown")
	}
	s.Reset()
	if s.Counts().A != 50 {
		t.Error("expected reset to rebuild population after teardown")
	}
}

func TestCountsKc(t *testing.T) {
	tests := []struct {
		c    Counts
		want float64
	}{
		{Counts{A: 25, B: 25, AB: 25}, 1},
		{Counts{A: 10, B: 40, AB: 40}, 4},
		{Counts{A: 0, B: 5, AB: 3}, math.Inf(1)},
	}
	for _, tt := range tests {
		if got := tt.c.Kc(); got != tt.want {
			t.Errorf("%+v.Kc() = %g, want %g", tt.c, got, tt.want)
		}
	}
	if !math.IsNaN((Counts{}).Kc()) {
		t.Error("expected NaN for empty counts")
	}
}

func TestRunTraceCoversWholeRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42
	s := New(cfg)

	res, err := s.Run(context.Background(), 2000, false)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !res.Reached {
		t.Fatal("expected equilibrium within 2000 ticks")
	}

	if len(res.Trace) != res.Steps {
		t.Fatalf("expected %d trace points, got %d", res.Steps, len(res.Trace))
	}
	if res.Trace[0].Tick != 0 || res.Trace[len(res.Trace)-1].Tick != 1999 {
		t.Errorf("expected ticks 0..1999, got %d..%d", res.Trace[0].Tick, res.Trace[len(res.Trace)-1].Tick)
	}
	if len(s.History()) != cfg.HistoryCap {
		t.Errorf("expected history capped at %d, got %d", cfg.HistoryCap, len(s.History()))
	}

	sum := analysis.Summarize(res.Trace, cfg.TargetKc, cfg.Tolerance)
	if sum.SettledAt != res.ReachedAt {
		t.Errorf("expected settled tick %d, got %d", res.ReachedAt, sum.SettledAt)
	}
}

func TestStepLeavesStatusToCaller(t *testing.T) {
	s := New(testConfig())

	f := s.Step()
	if f.Tick != 0 || s.TimeStep() != 1 {
		t.Errorf("expected one tick from idle, got frame %d time step %d", f.Tick, s.TimeStep())
	}
	if s.Status() != Idle {
		t.Errorf("expected status untouched, got %v", s.Status())
	}
}
