package pool

import (
	"context"
	"sync"
)

// WorkerFunc processes one item and returns its value or an error.
type WorkerFunc[T, R any] func(ctx context.Context, item T) (R, error)

// Result is the outcome for one input item.
type Result[T, R any] struct {
	Item  T
	Value R
	Err   error
}

// Run processes items with numWorkers concurrent workers and returns one
// Result per item, in input order. Items that were never started because
// ctx was cancelled carry ctx.Err(). numWorkers below 1 is treated as 1.
func Run[T, R any](ctx context.Context, items []T, numWorkers int, workerFunc WorkerFunc[T, R]) []Result[T, R] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	results := make([]Result[T, R], len(items))
	for i, item := range items {
		results[i].Item = item
	}

	var wg sync.WaitGroup
	taskChan := make(chan int, numWorkers)
	started := make([]bool, len(items))

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range taskChan {
				if ctx.Err() != nil {
					continue
				}
				started[idx] = true
				results[idx].Value, results[idx].Err = workerFunc(ctx, items[idx])
			}
		}()
	}

OUT:
	for idx := range items {
		select {
		case taskChan <- idx:
		case <-ctx.Done():
			// Stop feeding tasks if the context is cancelled
			break OUT
		}
	}
	close(taskChan)
	wg.Wait()

	for idx := range results {
		if !started[idx] {
			results[idx].Err = ctx.Err()
		}
	}
	return results
}

// Errors returns the non-nil errors of results.
func Errors[T, R any](results []Result[T, R]) []error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}
