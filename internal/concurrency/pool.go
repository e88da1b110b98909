// Package concurrency provides the bounded worker pool the Merge Oracle
// runs its (tip, base) evaluations through.
package concurrency

import "context"

// Run evaluates fn over every item in items, at most workers at a time, and
// returns results in the same order as items. A cancelled ctx stops
// dispatching further queued items; items already dispatched still run to
// completion and their results are included.
func Run[T, R any](ctx context.Context, workers int, items []T, fn func(context.Context, T) R) []R {
	if workers < 1 {
		workers = 1
	}

	results := make([]R, len(items))
	sem := make(chan struct{}, workers)
	done := make(chan int, len(items))
	spawned := 0

	for i, item := range items {
		if ctx.Err() != nil {
			break
		}
		sem <- struct{}{}
		spawned++
		go func(i int, item T) {
			defer func() { <-sem }()
			results[i] = fn(ctx, item)
			done <- i
		}(i, item)
	}

	for i := 0; i < spawned; i++ {
		<-done
	}
	return results
}
