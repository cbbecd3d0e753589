package sim

import (
	"context"
	"sync"
)

// Builder constructs an independent simulator and initial vector for
// one trajectory. Each goroutine gets its own model and state instance;
// the underlying element definitions are read-only after setup, so
// sharing them across builders is safe.
type Builder func(run int) (*Simulator, Vector, error)

// Ensemble evaluates many independent trajectories concurrently.
type Ensemble struct {
	build   Builder
	numRuns int
}

func NewEnsemble(build Builder, numRuns int) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			sim, x0, err := e.build(idx)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = sim.Run(ctx, x0, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
