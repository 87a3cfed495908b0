package audit

import (
	"testing"
	"time"

	"ticketsync/feature/tickets/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func ticket(id, customerID, issue, status, createdAt string) remote.Ticket {
	return remote.Ticket{ID: id, Customer: remote.Ref{ID: customerID}, Issue: issue, Status: status, CreatedAt: createdAt}
}

func TestFind(t *testing.T) {
	customers := []remote.Customer{{ID: "c1", CompanyName: "Acme"}, {ID: "c2", CompanyName: "Globex"}}
	tickets := []remote.Ticket{
		ticket("t1", "c1", "VPN down", "open", "2024-03-05T08:00:00Z"),
		ticket("t2", "c1", "VPN down", "open", "2024-03-05T17:00:00Z"),
		ticket("t3", "c1", "VPN down", "open", "2024-03-06T08:00:00Z"),
		ticket("t4", "c2", "Mail", "closed", "2024-01-01T00:00:00Z"),
		ticket("t5", "c2", "Mail", "closed", "2024-01-01T12:00:00Z"),
		ticket("t6", "c2", "Mail", "closed", "2024-01-01T23:00:00Z"),
		ticket("t7", "c2", "Mail", "closed", "bad"),
	}

	report := Find(tickets, customers, time.UTC)

	assert.Equal(t, 7, report.Tickets)
	assert.Equal(t, 1, report.Malformed)
	require.Len(t, report.Groups, 2)

	assert.Equal(t, "Acme|VPN down|open|2024-03-05", report.Groups[0].Key)
	assert.Equal(t, "t1", report.Groups[0].Keep)
	assert.Equal(t, []string{"t2"}, report.Groups[0].Duplicates)

	assert.Equal(t, "Globex|Mail|closed|2024-01-01", report.Groups[1].Key)
	assert.Equal(t, 3, report.Groups[1].Count())
	assert.Equal(t, 3, report.Redundant())
}

func TestFind_NoDuplicates(t *testing.T) {
	report := Find([]remote.Ticket{ticket("t1", "c1", "a", "open", "2024-03-05T08:00:00Z")}, nil, time.UTC)
	assert.Empty(t, report.Groups)
	assert.Zero(t, report.Redundant())
}

func TestReport_Log(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	report := Find([]remote.Ticket{
		ticket("t1", "", "a", "open", "2024-03-05T08:00:00Z"),
		ticket("t2", "", "a", "open", "2024-03-05T09:00:00Z"),
	}, nil, time.UTC)

	report.Log(zap.New(core))

	groups := logs.FilterMessage("Duplicate tickets").All()
	require.Len(t, groups, 1)
	assert.Equal(t, "UNKNOWN|a|open|2024-03-05", groups[0].ContextMap()["key"])
	assert.Equal(t, 1, logs.FilterMessage("Audit complete").Len())
}
