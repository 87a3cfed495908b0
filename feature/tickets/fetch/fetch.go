package fetch

import (
	"context"
	"errors"
	"fmt"

	"ticketsync/feature/tickets/remote"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrCustomerListing wraps a failed GET /customers. It is always fatal.
	ErrCustomerListing = errors.New("customer listing unavailable")
	// ErrTicketListing wraps a failed GET /support-ticket.
	ErrTicketListing = errors.New("ticket listing unavailable")
)

// API lists the upstream state a run is seeded from.
type API interface {
	ListCustomers(ctx context.Context) ([]remote.Customer, error)
	ListTickets(ctx context.Context) ([]remote.Ticket, error)
}

// State is the upstream snapshot taken before processing starts.
type State struct {
	Customers []remote.Customer
	Tickets   []remote.Ticket
	// TicketsErr is set when the ticket listing failed and Tickets is empty.
	TicketsErr error
}

// Fetcher pulls customers and tickets in parallel.
type Fetcher struct {
	api    API
	logger *zap.Logger
}

// New returns a Fetcher over api. A nil logger discards output.
func New(api API, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{api: api, logger: logger}
}

// Fetch returns once both listings have completed. A customer listing failure
// is returned wrapped in ErrCustomerListing. A ticket listing failure only
// degrades the result: it is logged, recorded in State.TicketsErr and the run
// continues with no known tickets.
func (f *Fetcher) Fetch(ctx context.Context) (State, error) {
	var (
		state      State
		ticketsErr error
	)

	g, ctxGroup := errgroup.WithContext(ctx)

	g.Go(func() error {
		customers, err := f.api.ListCustomers(ctxGroup)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCustomerListing, err)
		}
		state.Customers = customers
		return nil
	})

	g.Go(func() error {
		tickets, err := f.api.ListTickets(ctxGroup)
		if err != nil {
			ticketsErr = err
			return nil
		}
		state.Tickets = tickets
		return nil
	})

	if err := g.Wait(); err != nil {
		return State{}, err
	}

	if ticketsErr != nil {
		state.TicketsErr = fmt.Errorf("%w: %w", ErrTicketListing, ticketsErr)
		f.logger.Warn("Could not fetch existing tickets; continuing without duplicate detection", zap.Error(ticketsErr))
	}

	f.logger.Info("Fetched remote state",
		zap.Int("customers", len(state.Customers)),
		zap.Int("tickets", len(state.Tickets)),
	)
	return state, nil
}

// FetchStrict is Fetch for read-only reports, where a missing ticket listing is
// as fatal as a missing customer listing.
func (f *Fetcher) FetchStrict(ctx context.Context) (State, error) {
	state, err := f.Fetch(ctx)
	if err != nil {
		return State{}, err
	}
	if state.TicketsErr != nil {
		return State{}, state.TicketsErr
	}
	return state, nil
}
