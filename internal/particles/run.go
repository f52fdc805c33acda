package particles

import (
	"context"
	"fmt"

	"github.com/san-kum/equilab/internal/telemetry"
)

type RunResult struct {
	Steps     int
	Reached   bool
	ReachedAt int
	Final     Counts
	Kc        float64
	Reactions int
	// Trace holds one point per executed tick. Unlike History it is not
	// capped, so it covers the approach to equilibrium on long runs.
	Trace []telemetry.Point
}

// Run ticks until maxSteps, context cancellation, or (with untilEquilibrium)
// the first tick that reaches the target. The simulation is left Stopped.
func (s *Simulation) Run(ctx context.Context, maxSteps int, untilEquilibrium bool) (*RunResult, error) {
	if maxSteps <= 0 {
		return nil, fmt.Errorf("max steps must be positive, got %d", maxSteps)
	}

	s.Start()
	defer s.Stop()

	res := &RunResult{ReachedAt: -1, Trace: make([]telemetry.Point, 0, min(maxSteps, 4096))}
	for i := 0; i < maxSteps; i++ {
		select {
		case <-ctx.Done():
			s.finish(res)
			return res, ctx.Err()
		default:
		}

		f := s.Step()
		res.Steps++
		res.Reactions += f.Reactions
		res.Trace = append(res.Trace, f.Point())
		if f.Entered && res.ReachedAt < 0 {
			res.ReachedAt = f.Tick
		}
		if untilEquilibrium && f.Reached {
			break
		}
	}

	s.finish(res)
	return res, nil
}

func (s *Simulation) finish(res *RunResult) {
	res.Final = s.Counts()
	res.Kc = res.Final.Kc()
	res.Reached, _ = s.Equilibrium()
}
