package syncer

import "sync/atomic"

// Counters tracks outcomes across workers. Counters only ever increase.
type Counters struct {
	created   atomic.Int64
	skipped   atomic.Int64
	errored   atomic.Int64
	completed atomic.Int64
}

// Record increments the counter for o and returns the item's completion sequence
// number (1 for the first completed item, 2 for the second, ...).
func (c *Counters) Record(o Outcome) int64 {
	switch o {
	case OutcomeCreated:
		c.created.Add(1)
	case OutcomeSkipped:
		c.skipped.Add(1)
	default:
		c.errored.Add(1)
	}
	return c.completed.Add(1)
}

// Snapshot returns the current counter values.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Created: int(c.created.Load()),
		Skipped: int(c.skipped.Load()),
		Errored: int(c.errored.Load()),
	}
}
