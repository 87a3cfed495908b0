package syncer

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Outcome is the terminal state of one processed item.
type Outcome int

const (
	// OutcomeCreated means the item was written upstream (or would have been, in dry-run).
	OutcomeCreated Outcome = iota
	// OutcomeSkipped means the item was already present upstream.
	OutcomeSkipped
	// OutcomeErrored means processing failed; the error was logged and the run continued.
	OutcomeErrored
)

// String returns the label used in logs and metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Processor handles a single item. A non-nil error always counts as OutcomeErrored,
// whatever Outcome is returned alongside it.
type Processor[T any] interface {
	Process(ctx context.Context, item T) (Outcome, error)
}

// ProcessorFunc adapts a plain function to Processor.
type ProcessorFunc[T any] func(ctx context.Context, item T) (Outcome, error)

// Process calls f(ctx, item).
func (f ProcessorFunc[T]) Process(ctx context.Context, item T) (Outcome, error) {
	return f(ctx, item)
}

// Options controls a Run.
type Options[T any] struct {
	// Concurrency is the number of workers. Values below 1 mean 1.
	Concurrency int

	// ProgressEvery logs a progress snapshot after every N completed items.
	// Zero disables progress logging.
	ProgressEvery int

	// Backoff is the fixed pause a worker takes after a failed item.
	Backoff time.Duration

	// Logger receives progress and per-item failure logs. Nil means no logging.
	Logger *zap.Logger

	// Metrics, when set, counts outcomes.
	Metrics *Metrics

	// Describe returns the identifying fields logged next to a failed item.
	Describe func(item T) []zap.Field

	// Wait pauses for d or until ctx is done. Nil uses a timer.
	Wait func(ctx context.Context, d time.Duration) error
}

// Snapshot is a point-in-time copy of the run counters.
type Snapshot struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Errored int `json:"errored"`
}

// Completed returns the number of items that reached an outcome.
func (s Snapshot) Completed() int {
	return s.Created + s.Skipped + s.Errored
}
