package particles

import (
	"context"
	"sync"
)

// Ensemble runs independent copies of one configuration, each with its own
// seed, seedStart + index.
type Ensemble struct {
	cfg       Config
	numRuns   int
	seedStart int64
	opts      []Option
}

// NewEnsemble builds an ensemble. Options must be safe to share between
// goroutines; WithRand is not.
func NewEnsemble(cfg Config, numRuns int, seedStart int64, opts ...Option) *Ensemble {
	return &Ensemble{cfg: cfg, numRuns: numRuns, seedStart: seedStart, opts: opts}
}

// Run executes every member headless. Results are indexed like the seeds. The
// first error, if any, is returned after all members finish.
func (e *Ensemble) Run(ctx context.Context, maxSteps int, untilEquilibrium bool) ([]*RunResult, error) {
	results := make([]*RunResult, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfg := e.cfg
			cfg.Seed = e.seedStart + int64(idx)

			sim := New(cfg, e.opts...)
			results[idx], errs[idx] = sim.Run(ctx, maxSteps, untilEquilibrium)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}

	return results, nil
}

// Seed returns the seed used by member i.
func (e *Ensemble) Seed(i int) int64 { return e.seedStart + int64(i) }
