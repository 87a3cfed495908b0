package dedup

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ticketsync/feature/tickets/dataset"
	"ticketsync/feature/tickets/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record() dataset.Record {
	return dataset.Record{
		Company: "Acme",
		Email:   "ops@acme.test",
		Subject: "VPN down",
		Status:  dataset.StatusInProgress,
		Created: dataset.Date{Year: 2024, Month: time.March, Day: 5},
	}
}

func TestFingerprint_String(t *testing.T) {
	assert.Equal(t, "Acme|VPN down|in_progress|2024-03-05", FromRecord(record()).String())
}

func TestFromTicket(t *testing.T) {
	lookup := LookupFromCustomers([]remote.Customer{{ID: "c2", CompanyName: "Globex"}})

	tests := []struct {
		name        string
		ticket      remote.Ticket
		wantCompany string
		wantStatus  dataset.Status
		wantDay     string
	}{
		{
			name:        "embedded customer",
			ticket:      remote.Ticket{Customer: remote.Ref{ID: "c1", CompanyName: "Acme", Embedded: true}, Issue: "VPN down", Status: "in_progress", CreatedAt: "2024-03-05T09:00:00Z"},
			wantCompany: "Acme",
			wantStatus:  dataset.StatusInProgress,
			wantDay:     "2024-03-05",
		},
		{
			name:        "id resolved through listing",
			ticket:      remote.Ticket{Customer: remote.Ref{ID: "c2"}, Issue: "Printer", Status: "open", CreatedAt: "2024-03-05T23:59:59.999Z"},
			wantCompany: "Globex",
			wantStatus:  dataset.StatusOpen,
			wantDay:     "2024-03-05",
		},
		{
			name:        "unresolvable id",
			ticket:      remote.Ticket{Customer: remote.Ref{ID: "c9"}, Issue: "Printer", Status: "closed", CreatedAt: "2024-03-05T00:00:00Z"},
			wantCompany: UnknownCompany,
			wantStatus:  dataset.StatusClosed,
			wantDay:     "2024-03-05",
		},
		{
			name:        "no reference",
			ticket:      remote.Ticket{Issue: "Printer", Status: "archived", CreatedAt: "2024-03-05T00:00:00+02:00"},
			wantCompany: UnknownCompany,
			wantStatus:  dataset.Status("archived"),
			wantDay:     "2024-03-04",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp, err := FromTicket(tt.ticket, lookup, time.UTC)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCompany, fp.Company)
			assert.Equal(t, tt.wantStatus, fp.Status)
			assert.Equal(t, tt.wantDay, fp.Day.String())
		})
	}
}

func TestFromTicket_MatchesRecord(t *testing.T) {
	ticket := remote.Ticket{
		Customer:  remote.Ref{ID: "c1", CompanyName: "Acme", Embedded: true},
		Issue:     "VPN down",
		Status:    "in_progress",
		CreatedAt: "2024-03-05T00:00:00Z",
	}
	fp, err := FromTicket(ticket, nil, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, FromRecord(record()), fp)
}

func TestFromTicket_TrimsUpstreamCompany(t *testing.T) {
	tests := []struct {
		name   string
		ref    remote.Ref
		lookup CompanyLookup
	}{
		{"embedded", remote.Ref{ID: "c1", CompanyName: " Acme ", Embedded: true}, nil},
		{"listing", remote.Ref{ID: "c1"}, LookupFromCustomers([]remote.Customer{{ID: "c1", CompanyName: "Acme  "}})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := remote.Ticket{Customer: tt.ref, Issue: "VPN down", Status: "in_progress", CreatedAt: "2024-03-05T00:00:00Z"}
			fp, err := FromTicket(ticket, tt.lookup, time.UTC)
			require.NoError(t, err)
			assert.Equal(t, FromRecord(record()), fp)
		})
	}
}

func TestFromTicket_DayFollowsLocation(t *testing.T) {
	ticket := remote.Ticket{Issue: "x", Status: "open", CreatedAt: "2024-03-04T22:00:00Z"}
	loc := time.FixedZone("UTC+3", 3*60*60)

	fp, err := FromTicket(ticket, nil, loc)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", fp.Day.String())
}

func TestSeed_ExcludesMalformed(t *testing.T) {
	tickets := []remote.Ticket{
		{ID: "t1", Customer: remote.Ref{CompanyName: "Acme", Embedded: true}, Issue: "VPN down", Status: "in_progress", CreatedAt: "2024-03-05T10:00:00Z"},
		{ID: "t2", Issue: "VPN down", Status: "open", CreatedAt: "not a date"},
		{ID: "t3", Issue: "VPN down", Status: "open"},
		// Same fingerprint as t1.
		{ID: "t4", Customer: remote.Ref{CompanyName: "Acme", Embedded: true}, Issue: "VPN down", Status: "in_progress", CreatedAt: "2024-03-05T18:00:00Z"},
	}

	idx, excluded := Seed(tickets, nil, time.UTC)
	assert.Equal(t, 2, excluded)
	assert.Equal(t, 1, idx.Len())
	assert.True(t, idx.Contains(FromRecord(record())))
}

func TestIndex_AddContains(t *testing.T) {
	idx := NewIndex()
	fp := FromRecord(record())

	assert.False(t, idx.Contains(fp))
	assert.True(t, idx.Add(fp))
	assert.False(t, idx.Add(fp))
	assert.True(t, idx.Contains(fp))
	assert.Equal(t, 1, idx.Len())
}

func TestIndex_LockSerialisesSameFingerprint(t *testing.T) {
	idx := NewIndex()
	fp := FromRecord(record())

	var (
		inside  atomic.Int32
		maxSeen atomic.Int32
		added   atomic.Int32
		wg      sync.WaitGroup
	)
	for w := 0; w < 20; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := idx.Lock(fp)
			defer unlock()

			n := inside.Add(1)
			if n > maxSeen.Load() {
				maxSeen.Store(n)
			}
			if !idx.Contains(fp) {
				time.Sleep(time.Millisecond)
				idx.Add(fp)
				added.Add(1)
			}
			inside.Add(-1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen.Load())
	assert.Equal(t, int32(1), added.Load())
	assert.Empty(t, idx.locks)
}

func TestIndex_LockDifferentFingerprintsDoNotBlock(t *testing.T) {
	idx := NewIndex()
	a := FromRecord(record())
	b := a
	b.Subject = "Other"

	unlockA := idx.Lock(a)
	done := make(chan struct{})
	go func() {
		unlockB := idx.Lock(b)
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different fingerprint blocked")
	}
	unlockA()
}
