package particles

import (
	"context"
	"sync"
	"time"
)

// Runner ticks a Simulation on a fixed interval from its own goroutine. Start
// is a no-op while a loop is live; Stop withdraws the pending tick and waits
// for the tick in flight to finish. onFrame runs on the loop goroutine and
// must not call Stop.
type Runner struct {
	mu       sync.Mutex
	sim      *Simulation
	interval time.Duration
	onFrame  func(Frame)

	cancel context.CancelFunc
	done   chan struct{}
}

func NewRunner(sim *Simulation, fps int, onFrame func(Frame)) *Runner {
	if fps <= 0 {
		fps = 60
	}
	return &Runner{
		sim:      sim,
		interval: time.Second / time.Duration(fps),
		onFrame:  onFrame,
	}
}

func (r *Runner) Start(ctx context.Context) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return false
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	r.sim.Start()

	go r.loop(ctx, r.done)
	return true
}

func (r *Runner) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	r.mu.Lock()
	r.sim.Stop()
	r.mu.Unlock()
}

// Running reports whether a loop is live.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

// Do runs fn with exclusive access to the simulation, between ticks.
func (r *Runner) Do(fn func(*Simulation)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.sim)
}

// Reset stops the loop and resets the simulation.
func (r *Runner) Reset() {
	r.Stop()
	r.Do(func(s *Simulation) { s.Reset() })
}

// Wait blocks until the current loop exits.
func (r *Runner) Wait() {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (r *Runner) loop(ctx context.Context, done chan struct{}) {
	defer func() {
		r.mu.Lock()
		if r.done == done {
			r.cancel()
			r.cancel, r.done = nil, nil
		}
		r.mu.Unlock()
		close(done)
	}()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		r.mu.Lock()
		if r.sim.Status() != Running {
			r.mu.Unlock()
			return
		}
		f := r.sim.Step()
		r.mu.Unlock()

		if r.onFrame != nil {
			r.onFrame(f)
		}
	}
}
