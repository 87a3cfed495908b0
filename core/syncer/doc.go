// Package syncer provides a bounded-concurrency work-queue processor used to push
// a static dataset into a remote system.
//
// The engine is generic over the item type and knows nothing about what an item
// means. Domain packages supply a Processor that decides, per item, whether it was
// created upstream, skipped as already present, or failed.
//
// # Architecture
//
// 1. Queue: an arena of items plus an atomic cursor. Next hands each item to
//    exactly one worker; nothing is ever removed from or appended to the slice.
//
// 2. Workers: a fixed pool (Options.Concurrency) that repeatedly takes the next
//    item until the queue is drained. Workers only block inside the Processor or
//    during the fixed Backoff after a failure.
//
// 3. Counters: atomic, monotonic created/skipped/errored counters. Every item is
//    recorded exactly once, so created+skipped+errored always equals the number
//    of items once Run returns.
//
// 4. Metrics: optional Prometheus counters on a private registry.
//
// # Failure Handling
//
// A Processor error is never fatal. The engine logs it with the item's identifying
// fields (Options.Describe), waits Options.Backoff and continues. There is no
// compensation for partial work done before the failure.
//
// # Usage Example
//
//	snap := syncer.Run(ctx, records, processor, syncer.Options[dataset.Record]{
//	    Concurrency:   5,
//	    ProgressEvery: 50,
//	    Backoff:       200 * time.Millisecond,
//	    Logger:        log,
//	})
//	log.Info("done", zap.Int("created", snap.Created))
package syncer
