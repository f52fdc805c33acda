package notify

import (
	"context"
	"sync"
	"time"

	"github.com/san-kum/equilab/internal/logutil"
)

type Kind string

const (
	EquilibriumReached Kind = "equilibrium_reached"
	EquilibriumLost    Kind = "equilibrium_lost"
)

type Event struct {
	Kind   Kind      `json:"kind"`
	Tick   int       `json:"tick"`
	Kc     float64   `json:"kc"`
	Target float64   `json:"target"`
	At     time.Time `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, event Event) error
	Close() error
}

// Func adapts a plain function to Notifier.
type Func func(Event)

func (f Func) Notify(_ context.Context, e Event) error {
	f(e)
	return nil
}

func (f Func) Close() error { return nil }

type LogNotifier struct {
	log *logutil.Logger
}

func NewLogNotifier(log *logutil.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, e Event) error {
	switch e.Kind {
	case EquilibriumReached:
		n.log.Infof("equilibrium reached at tick %d: Kc=%.3f (target %.3f)", e.Tick, e.Kc, e.Target)
	default:
		n.log.Debugf("equilibrium lost at tick %d: Kc=%.3f (target %.3f)", e.Tick, e.Kc, e.Target)
	}
	return nil
}

func (n *LogNotifier) Close() error { return nil }

// Dispatcher queues events and fans them out to its sinks on a worker
// goroutine, so Notify never blocks the caller. A full queue drops the event.
type Dispatcher struct {
	mu     sync.RWMutex
	sinks  []Notifier
	events chan Event
	log    *logutil.Logger
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(log *logutil.Logger, buffer int, sinks ...Notifier) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	if log == nil {
		log = logutil.Discard()
	}
	d := &Dispatcher{
		sinks:  sinks,
		events: make(chan Event, buffer),
		log:    log,
	}
	d.wg.Add(1)
	go d.run()
	return d
}

func (d *Dispatcher) Add(n Notifier) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sinks = append(d.sinks, n)
}

func (d *Dispatcher) Notify(_ context.Context, e Event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return nil
	}
	select {
	case d.events <- e:
	default:
		d.log.Warnf("notification queue full, dropping %s at tick %d", e.Kind, e.Tick)
	}
	return nil
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for e := range d.events {
		d.mu.RLock()
		sinks := make([]Notifier, len(d.sinks))
		copy(sinks, d.sinks)
		d.mu.RUnlock()

		for _, s := range sinks {
			if err := s.Notify(context.Background(), e); err != nil {
				d.log.Errorf("notifier failed for %s: %v", e.Kind, err)
			}
		}
	}
}

// Close drains pending events and closes every sink.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.events)
	d.mu.Unlock()

	d.wg.Wait()

	d.mu.RLock()
	defer d.mu.RUnlock()
	var firstErr error
	for _, s := range d.sinks {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
