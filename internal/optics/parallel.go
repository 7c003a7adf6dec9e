package optics

import (
	"context"
	"math"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// forEachRow calls fn for every row in [0, n). The error returned is always
// the one of the lowest failing row, whatever the worker count.
func forEachRow(ctx context.Context, n, workers int, fn func(i int) error) error {
	if workers <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	errs := make([]error, n)
	var firstFailed atomic.Int64
	firstFailed.Store(math.MaxInt64)

	var g errgroup.Group
	g.SetLimit(workers)

	// the group only bounds concurrency; errors land in errs so the lowest
	// failing row is reported rather than the first to finish.
	for i := 0; i < n; i++ {
		g.Go(func() error {
			// rows past a known failure cannot change the reported error.
			if int64(i) > firstFailed.Load() {
				return nil
			}
			if err := ctx.Err(); err != nil {
				errs[i] = err
			} else {
				errs[i] = fn(i)
			}
			if errs[i] != nil {
				for {
					cur := firstFailed.Load()
					if int64(i) >= cur || firstFailed.CompareAndSwap(cur, int64(i)) {
						break
					}
				}
			}
			return nil
		})
	}
	g.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
