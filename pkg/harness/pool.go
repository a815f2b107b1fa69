package harness

import (
	"context"
	"sync"
)

// task is one unit of harness work, identified by its position so results
// can be reassembled in corpus order after parallel execution.
type task[T any] struct {
	index int
	run   func(ctx context.Context) T
}

// runBounded executes tasks with at most maxConcurrent running at once and
// returns results indexed by task position. A cancelled context leaves the
// zero value in the remaining slots.
func runBounded[T any](ctx context.Context, maxConcurrent int, tasks []task[T]) []T {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	results := make([]T, len(tasks))
	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup

	for _, t := range tasks {
		wg.Add(1)
		go func(t task[T]) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			results[t.index] = t.run(ctx)
		}(t)
	}

	wg.Wait()
	return results
}
