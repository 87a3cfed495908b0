package audit

import (
	"sort"
	"time"

	"ticketsync/feature/tickets/dedup"
	"ticketsync/feature/tickets/remote"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Group is a set of upstream tickets sharing one fingerprint.
type Group struct {
	Fingerprint dedup.Fingerprint `json:"-"`
	Key         string            `json:"key"`
	// Keep is the first ticket seen in the listing; Duplicates are the rest.
	Keep       string   `json:"keep"`
	Duplicates []string `json:"duplicates"`
}

// Count is the number of tickets in the group.
func (g Group) Count() int {
	return 1 + len(g.Duplicates)
}

// Report summarises duplicate tickets found upstream.
type Report struct {
	Tickets   int     `json:"tickets"`
	Malformed int     `json:"malformed"`
	Groups    []Group `json:"groups"`
}

// Redundant is the number of tickets that could be removed without losing a
// fingerprint.
func (r Report) Redundant() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Duplicates)
	}
	return n
}

// Find groups tickets by fingerprint and returns only the groups with more than
// one ticket, ordered by key. Tickets without a usable timestamp are counted as
// malformed and left out.
func Find(tickets []remote.Ticket, customers []remote.Customer, loc *time.Location) Report {
	lookup := dedup.LookupFromCustomers(customers)
	report := Report{Tickets: len(tickets)}

	groups := make(map[dedup.Fingerprint]*Group)
	for _, t := range tickets {
		fp, err := dedup.FromTicket(t, lookup, loc)
		if err != nil {
			report.Malformed++
			continue
		}
		g, ok := groups[fp]
		if !ok {
			groups[fp] = &Group{Fingerprint: fp, Key: fp.String(), Keep: t.ID}
			continue
		}
		g.Duplicates = append(g.Duplicates, t.ID)
	}

	for _, g := range groups {
		if len(g.Duplicates) > 0 {
			report.Groups = append(report.Groups, *g)
		}
	}
	sort.Slice(report.Groups, func(i, j int) bool {
		return report.Groups[i].Key < report.Groups[j].Key
	})
	return report
}

// Log writes the report: one line per duplicate group and a closing total.
func (r Report) Log(l *zap.Logger) {
	for _, g := range r.Groups {
		l.Info("Duplicate tickets",
			zap.String("key", g.Key),
			zap.Int("count", g.Count()),
			zap.String("keep", g.Keep),
			zap.Strings("duplicates", g.Duplicates),
		)
	}
	l.Info("Audit complete", zap.Object("report", r))
}

func (r Report) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("tickets", r.Tickets)
	enc.AddInt("malformed", r.Malformed)
	enc.AddInt("groups", len(r.Groups))
	enc.AddInt("redundant", r.Redundant())
	return nil
}
