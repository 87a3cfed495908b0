package dedup

import (
	"strings"
	"time"

	"ticketsync/feature/tickets/dataset"
	"ticketsync/feature/tickets/remote"
)

// UnknownCompany stands in for the company of a ticket whose customer reference
// cannot be resolved.
const UnknownCompany = "UNKNOWN"

// Fingerprint identifies a ticket by what a human would call "the same ticket":
// same company, subject and status, opened on the same calendar day.
type Fingerprint struct {
	Company string
	Subject string
	Status  dataset.Status
	Day     dataset.Date
}

// String renders the fingerprint as company|subject|status|YYYY-MM-DD.
func (f Fingerprint) String() string {
	return strings.Join([]string{f.Company, f.Subject, string(f.Status), f.Day.String()}, "|")
}

// FromRecord fingerprints a dataset record using its own date.
func FromRecord(r dataset.Record) Fingerprint {
	return Fingerprint{
		Company: r.Company,
		Subject: r.Subject,
		Status:  r.Status,
		Day:     r.Created,
	}
}

// CompanyLookup maps a customer id to its company name.
type CompanyLookup func(customerID string) (string, bool)

// LookupFromCustomers builds a CompanyLookup over a customer listing.
func LookupFromCustomers(customers []remote.Customer) CompanyLookup {
	byID := make(map[string]string, len(customers))
	for _, c := range customers {
		if c.ID != "" {
			byID[c.ID] = strings.TrimSpace(c.CompanyName)
		}
	}
	return func(id string) (string, bool) {
		name, ok := byID[id]
		return name, ok
	}
}

// FromTicket fingerprints an upstream ticket. The calendar day of its creation
// timestamp is taken in loc. An error means the ticket has no usable timestamp
// and must be left out of the index.
func FromTicket(t remote.Ticket, lookup CompanyLookup, loc *time.Location) (Fingerprint, error) {
	created, err := t.Created()
	if err != nil {
		return Fingerprint{}, err
	}
	return Fingerprint{
		Company: companyOf(t.Customer, lookup),
		Subject: strings.TrimSpace(t.Issue),
		Status:  statusOf(t.Status),
		Day:     dataset.DateOf(created, loc),
	}, nil
}

func companyOf(ref remote.Ref, lookup CompanyLookup) string {
	if name := strings.TrimSpace(ref.CompanyName); ref.Embedded && name != "" {
		return name
	}
	if ref.ID != "" && lookup != nil {
		if name, ok := lookup(ref.ID); ok && name != "" {
			return name
		}
	}
	return UnknownCompany
}

// statusOf normalises known statuses and keeps anything else verbatim, which
// can never collide with a dataset record.
func statusOf(raw string) dataset.Status {
	if s, err := dataset.ParseStatus(raw); err == nil {
		return s
	}
	return dataset.Status(raw)
}
