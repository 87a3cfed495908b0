package history

import (
	"context"
	"fmt"
	"time"

	"ticketsync/feature/tickets/runner"

	"gorm.io/gorm"
)

// Run is one recorded sync run.
type Run struct {
	ID               string    `gorm:"primaryKey;size:36"`
	StartedAt        time.Time `gorm:"index"`
	FinishedAt       time.Time
	BaseURL          string `gorm:"size:255"`
	DryRun           bool
	DatasetSize      int
	Created          int
	Skipped          int
	Errored          int
	UsersCreated     int
	CustomersCreated int
}

// TableName overrides the table name used by Run to `sync_runs`.
func (Run) TableName() string {
	return "sync_runs"
}

// FromSummary converts a finished run's summary into a history row.
func FromSummary(s runner.Summary) Run {
	return Run{
		ID:               s.RunID,
		StartedAt:        s.StartedAt.UTC(),
		FinishedAt:       s.FinishedAt.UTC(),
		BaseURL:          s.BaseURL,
		DryRun:           s.DryRun,
		DatasetSize:      s.Dataset,
		Created:          s.Created,
		Skipped:          s.Skipped,
		Errored:          s.Errors,
		UsersCreated:     s.UsersCreated,
		CustomersCreated: s.CustomersCreated,
	}
}

// Store persists runs in MySQL.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the sync_runs table.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&Run{}); err != nil {
		return fmt.Errorf("failed to migrate sync_runs: %w", err)
	}
	return nil
}

// Record inserts a run.
func (s *Store) Record(ctx context.Context, run Run) error {
	if err := s.db.WithContext(ctx).Create(&run).Error; err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}
	return nil
}

// Report records the summary of a finished run.
func (s *Store) Report(ctx context.Context, summary runner.Summary) error {
	return s.Record(ctx, FromSummary(summary))
}

var _ runner.Reporter = (*Store)(nil)

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	var runs []Run
	err := s.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}
