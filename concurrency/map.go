// Package concurrency implements the bounded-parallelism map of spec.md
// §4.D/§5: execute fn(item) for each item with at most limit in-flight
// invocations, preserving input order in the result and propagating
// cancellation to every in-flight call. golang.org/x/sync/errgroup is the
// idiomatic way to get both of these at once (WithContext for
// cancellation-on-first-error, SetLimit for the concurrency bound); the
// pack's closest domain analogue is dolthub-dolt's
// go/libraries/utils/async package, which wraps errgroup.Group the same
// way for its own chunk-store fan-out.
package concurrency

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Map runs fn(items[i]) for every i with at most limit concurrently
// in-flight, returning a results slice in input order. The first error
// returned by any fn cancels the group's context and is returned once all
// in-flight calls have unwound; spec.md §5's cancellation requirement is
// satisfied by fn observing ctx.Done() on its own suspension points, the
// same cooperative model the spec describes.
func Map[T, R any](ctx context.Context, items []T, limit int, fn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results, nil
	}

	eg, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}

	for i, item := range items {
		i, item := i, item
		eg.Go(func() error {
			r, err := fn(gctx, item)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
