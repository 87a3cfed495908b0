package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Status is the lifecycle state of a support ticket, in the remote API's spelling.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusClosed     Status = "closed"
)

// ParseStatus accepts the enumerated statuses case-insensitively, with either a
// hyphen or an underscore in "in-progress".
func ParseStatus(s string) (Status, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	switch Status(norm) {
	case StatusOpen, StatusInProgress, StatusClosed:
		return Status(norm), nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}

// Date is a calendar date without time or location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a DD/MM/YYYY date and rejects impossible days (31/02/2024).
func ParseDate(dmy string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(dmy), "/")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("date %q is not DD/MM/YYYY", dmy)
	}
	day, errD := strconv.Atoi(parts[0])
	month, errM := strconv.Atoi(parts[1])
	year, errY := strconv.Atoi(parts[2])
	if errD != nil || errM != nil || errY != nil {
		return Date{}, fmt.Errorf("date %q is not DD/MM/YYYY", dmy)
	}
	d := Date{Year: year, Month: time.Month(month), Day: day}
	t := d.In(time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return Date{}, fmt.Errorf("date %q does not exist", dmy)
	}
	return d, nil
}

// DateOf returns the calendar date of t as observed in loc.
func DateOf(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return Date{Year: y, Month: m, Day: d}
}

// In returns midnight of the date in loc.
func (d Date) In(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Record is one dataset entry: a ticket to be present upstream for a company.
type Record struct {
	// Index is the record's position in the dataset.
	Index   int
	Company string
	Email   string
	Subject string
	Status  Status
	Created Date
}

// ContactName is the name given to the user created for this record's email.
func (r Record) ContactName() string {
	return r.Company
}
