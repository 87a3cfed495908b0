package runner

import (
	"context"
	"fmt"
	"time"

	"ticketsync/core/logger"
	"ticketsync/core/syncer"
	"ticketsync/feature/tickets/dataset"
	"ticketsync/feature/tickets/dedup"
	"ticketsync/feature/tickets/fetch"
	"ticketsync/feature/tickets/identity"
	"ticketsync/feature/tickets/remote"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Reporter receives the summary of every finished run.
type Reporter interface {
	Report(ctx context.Context, s Summary) error
}

// Options configures a run.
type Options struct {
	BaseURL       string
	DryRun        bool
	Concurrency   int
	ProgressEvery int
	Backoff       time.Duration
	// Location decides the calendar day of upstream timestamps and the midnight
	// sent as a new ticket's createdAt.
	Location *time.Location
	// Password and Role are used for users created on the fly.
	Password string
	Role     string

	Logger    *zap.Logger
	Metrics   *syncer.Metrics
	Reporters []Reporter

	// Wait replaces the backoff sleep in tests.
	Wait func(ctx context.Context, d time.Duration) error
	// Now replaces the clock in tests.
	Now func() time.Time
}

// Run pushes records to api. It fails before touching any record when the
// customer listing is unavailable; every later failure is per record and only
// shows up in the summary counters.
func Run(ctx context.Context, records []dataset.Record, api remote.API, opts Options) (Summary, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	base := opts.Logger
	if base == nil {
		base = zap.NewNop()
	}

	runID := uuid.NewString()
	l := base.With(zap.String("run_id", runID))

	summary := Summary{
		RunID:     runID,
		StartedAt: now(),
		BaseURL:   opts.BaseURL,
		Dataset:   len(records),
		DryRun:    opts.DryRun,
	}
	l.Info("Starting sync",
		zap.Bool("dry_run", opts.DryRun),
		zap.String("base_url", opts.BaseURL),
		zap.Int("dataset", len(records)),
		zap.Int("concurrency", opts.Concurrency),
	)

	state, err := fetch.New(api, logger.WithComponent(l, "fetcher")).Fetch(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("fetch remote state: %w", err)
	}

	index, excluded := dedup.Seed(state.Tickets, dedup.LookupFromCustomers(state.Customers), loc)
	summary.KnownTickets = index.Len()
	summary.ExcludedTickets = excluded
	summary.TicketListingFailed = state.TicketsErr != nil
	if excluded > 0 {
		l.Debug("Excluded malformed upstream tickets", zap.Int("count", excluded))
	}

	resolver := identity.NewResolver(api, state.Customers, identity.Options{
		DryRun:   opts.DryRun,
		Password: opts.Password,
		Role:     opts.Role,
		Logger:   logger.WithComponent(l, "resolver"),
		Metrics:  opts.Metrics,
	})

	processor := &Processor{
		Index:    index,
		Resolver: resolver,
		Tickets:  api,
		DryRun:   opts.DryRun,
		Location: loc,
		Logger:   l,
	}

	snap := syncer.Run(ctx, records, processor, syncer.Options[dataset.Record]{
		Concurrency:   opts.Concurrency,
		ProgressEvery: opts.ProgressEvery,
		Backoff:       opts.Backoff,
		Logger:        logger.WithComponent(l, "engine"),
		Metrics:       opts.Metrics,
		Describe:      describeRecord,
		Wait:          opts.Wait,
	})

	summary.Created = snap.Created
	summary.Skipped = snap.Skipped
	summary.Errors = snap.Errored
	summary.UsersCreated, summary.CustomersCreated = resolver.Created()
	summary.FinishedAt = now()

	l.Info("Summary", summaryField(summary))

	// Reports outlive an interrupted run so the partial counts are not lost.
	reportCtx := context.WithoutCancel(ctx)
	for _, r := range opts.Reporters {
		if err := r.Report(reportCtx, summary); err != nil {
			l.Warn("Failed to record run summary", zap.Error(err))
		}
	}

	return summary, nil
}
