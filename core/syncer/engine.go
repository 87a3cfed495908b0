package syncer

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Run drains items with a fixed pool of workers and returns the final counters.
//
// Every item reaches exactly one outcome, so the returned Snapshot always satisfies
// Completed() == len(items). A failing item never stops the run: the failure is
// logged, the worker pauses for opts.Backoff and moves on. Once ctx is cancelled the
// remaining items are counted as errored without being handed to p.
func Run[T any](ctx context.Context, items []T, p Processor[T], opts Options[T]) Snapshot {
	workers := opts.Concurrency
	if workers < 1 {
		workers = 1
	}
	if workers > len(items) && len(items) > 0 {
		workers = len(items)
	}

	l := opts.Logger
	if l == nil {
		l = zap.NewNop()
	}
	wait := opts.Wait
	if wait == nil {
		wait = waitWithContext
	}

	queue := NewQueue(items)
	counters := &Counters{}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(worker int) {
			defer wg.Done()
			for {
				item, ok := queue.Next()
				if !ok {
					return
				}

				var (
					outcome Outcome
					err     error
				)
				if ctxErr := ctx.Err(); ctxErr != nil {
					outcome, err = OutcomeErrored, ctxErr
				} else {
					outcome, err = p.Process(ctx, item)
				}
				if err != nil {
					outcome = OutcomeErrored
				}

				seq := counters.Record(outcome)
				opts.Metrics.ObserveOutcome(outcome)

				if err != nil && ctx.Err() == nil {
					fields := []zap.Field{zap.Int("worker", worker)}
					if opts.Describe != nil {
						fields = append(fields, opts.Describe(item)...)
					}
					fields = append(fields, zap.Error(err))
					l.Error("Record failed", fields...)
					// The pause is only ever interrupted by cancellation, which the
					// next iteration observes through ctx.Err().
					_ = wait(ctx, opts.Backoff)
				}

				if opts.ProgressEvery > 0 && seq%int64(opts.ProgressEvery) == 0 {
					s := counters.Snapshot()
					l.Info("Progress",
						zap.Int64("completed", seq),
						zap.Int("total", queue.Len()),
						zap.Int("created", s.Created),
						zap.Int("skipped", s.Skipped),
						zap.Int("errored", s.Errored),
					)
				}
			}
		}(w)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		l.Warn("Run interrupted; unprocessed records counted as errored", zap.Error(err))
	}

	return counters.Snapshot()
}

// waitWithContext sleeps for delay unless ctx finishes first.
func waitWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
