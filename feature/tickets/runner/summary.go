package runner

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Summary is the final report of one run.
type Summary struct {
	RunID      string    `json:"runId"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	BaseURL    string    `json:"baseUrl"`

	Created          int  `json:"created"`
	Skipped          int  `json:"skipped"`
	Errors           int  `json:"errors"`
	UsersCreated     int  `json:"usersCreated"`
	CustomersCreated int  `json:"customersCreated"`
	Dataset          int  `json:"dataset"`
	DryRun           bool `json:"dryRun"`

	// KnownTickets is how many upstream fingerprints seeded the run.
	KnownTickets int `json:"knownTickets"`
	// ExcludedTickets counts upstream tickets that were malformed or lacked a usable timestamp.
	ExcludedTickets int `json:"excludedTickets"`
	// TicketListingFailed is set when the run proceeded without duplicate seeds.
	TicketListingFailed bool `json:"ticketListingFailed"`
}

// Processed is the number of records that reached an outcome.
func (s Summary) Processed() int {
	return s.Created + s.Skipped + s.Errors
}

// Duration is the wall time between start and finish.
func (s Summary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// MarshalLogObject lets a Summary be logged with zap.Object.
func (s Summary) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("created", s.Created)
	enc.AddInt("skipped", s.Skipped)
	enc.AddInt("errors", s.Errors)
	enc.AddInt("usersCreated", s.UsersCreated)
	enc.AddInt("customersCreated", s.CustomersCreated)
	enc.AddInt("dataset", s.Dataset)
	enc.AddBool("dryRun", s.DryRun)
	enc.AddDuration("duration", s.Duration())
	return nil
}

var _ zapcore.ObjectMarshaler = Summary{}

func summaryField(s Summary) zap.Field {
	return zap.Object("summary", s)
}
