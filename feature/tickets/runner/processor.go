package runner

import (
	"context"
	"time"

	"ticketsync/core/syncer"
	"ticketsync/feature/tickets/dataset"
	"ticketsync/feature/tickets/dedup"
	"ticketsync/feature/tickets/remote"

	"go.uber.org/zap"
)

// Resolver finds or creates the user and customer a record belongs to.
type Resolver interface {
	ResolveUser(ctx context.Context, name, email string) (remote.User, error)
	ResolveCustomer(ctx context.Context, user remote.User, companyName string) (remote.Customer, error)
}

// TicketCreator issues the final create call for a record.
type TicketCreator interface {
	CreateTicket(ctx context.Context, req remote.CreateTicketRequest) (remote.Ticket, error)
}

// Processor syncs a single dataset record.
type Processor struct {
	Index    *dedup.Index
	Resolver Resolver
	Tickets  TicketCreator
	DryRun   bool
	Location *time.Location
	Logger   *zap.Logger
}

var _ syncer.Processor[dataset.Record] = (*Processor)(nil)

// Process skips records whose fingerprint is already known, otherwise resolves
// the owning user and customer and creates the ticket. The fingerprint is only
// indexed after the create call succeeded.
func (p *Processor) Process(ctx context.Context, rec dataset.Record) (syncer.Outcome, error) {
	fp := dedup.FromRecord(rec)
	if p.Index.Contains(fp) {
		return syncer.OutcomeSkipped, nil
	}

	unlock := p.Index.Lock(fp)
	defer unlock()

	// Another worker may have created the same ticket while we waited.
	if p.Index.Contains(fp) {
		return syncer.OutcomeSkipped, nil
	}

	user, err := p.Resolver.ResolveUser(ctx, rec.ContactName(), rec.Email)
	if err != nil {
		return syncer.OutcomeErrored, err
	}
	customer, err := p.Resolver.ResolveCustomer(ctx, user, rec.Company)
	if err != nil {
		return syncer.OutcomeErrored, err
	}

	req := remote.CreateTicketRequest{
		CustomerID: customer.ID,
		Issue:      rec.Subject,
		Status:     string(rec.Status),
		CreatedAt:  rec.Created.In(p.Location).Format(time.RFC3339),
	}
	if p.DryRun {
		if p.Logger != nil {
			p.Logger.Debug("Would create ticket", zap.String("fingerprint", fp.String()))
		}
	} else if _, err := p.Tickets.CreateTicket(ctx, req); err != nil {
		return syncer.OutcomeErrored, err
	}

	p.Index.Add(fp)
	return syncer.OutcomeCreated, nil
}

// describeRecord names a record in failure logs.
func describeRecord(rec dataset.Record) []zap.Field {
	return []zap.Field{
		zap.Int("index", rec.Index),
		zap.String("company", rec.Company),
		zap.String("subject", rec.Subject),
		zap.String("email", rec.Email),
	}
}
