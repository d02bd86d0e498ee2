package filter

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/teranos/locofilter/errors"
)

// MaxWorkers caps the default pool size
const MaxWorkers = 32

// DefaultWorkers returns min(32, NumCPU+4), the usual degree of parallelism
// for I/O bound work
func DefaultWorkers() int {
	return min(MaxWorkers, runtime.NumCPU()+4)
}

// Task processes one bucket key and returns its result.
// Returning an output error stops the whole pool; any other error is handed
// to the scheduler's failure converter and the pool keeps going.
type Task[T any] func(ctx context.Context, key string) (T, error)

// Schedule runs task over keys on a fixed pool of workers.
//
// Each worker takes keys from a shared channel and processes them one at a
// time, appending results to its own slice; nothing is shared between workers
// while they run. Results become visible only after every worker has
// finished, in no particular order.
//
// A bucket that fails (error other than an output error, or a panic) is turned
// into a result by onFail so its siblings are unaffected. An output error
// cancels the remaining work and is returned.
func Schedule[T any](ctx context.Context, workers int, keys []string, task Task[T], onFail func(key string, err error) T) ([]T, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	workers = min(workers, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan string)

	g.Go(func() error {
		defer close(jobs)
		for _, key := range keys {
			select {
			case jobs <- key:
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})

	perWorker := make([][]T, workers)
	for i := range workers {
		g.Go(func() error {
			for key := range jobs {
				if gctx.Err() != nil {
					return nil
				}
				res, err := runTask(gctx, key, task, onFail)
				if err != nil {
					return err
				}
				perWorker[i] = append(perWorker[i], res)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "run interrupted")
	}

	var results []T
	for _, rs := range perWorker {
		results = append(results, rs...)
	}
	return results, nil
}

// runTask calls task, converting panics and non-fatal errors with onFail
func runTask[T any](ctx context.Context, key string, task Task[T], onFail func(string, error) T) (res T, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = onFail(key, errors.Newf("panic: %v", r))
			err = nil
		}
	}()

	res, err = task(ctx, key)
	if err != nil && !errors.IsOutputError(err) {
		return onFail(key, err), nil
	}
	return res, err
}
