package cmd

import (
	"context"
	"errors"

	"ticketsync/core/database"
	"ticketsync/feature/tickets/history"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var historyLimit int

// historyCmd lists recorded sync runs.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent sync runs",
	Long:  `Lists the most recent sync runs recorded in the run history database, newest first.`,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of runs to show")
	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, l, err := bootstrap()
	if err != nil {
		return err
	}
	defer l.Sync()

	db, err := database.Connect(cfg.Database)
	if errors.Is(err, database.ErrDisabled) {
		return errors.New("run history is disabled; set DATABASE_ENABLED=true")
	}
	if err != nil {
		return err
	}

	runs, err := history.NewStore(db).Recent(ctx, historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		l.Info("No runs recorded yet")
		return nil
	}

	for _, r := range runs {
		l.Info("Run",
			zap.String("id", r.ID),
			zap.Time("started_at", r.StartedAt),
			zap.Duration("duration", r.FinishedAt.Sub(r.StartedAt)),
			zap.String("base_url", r.BaseURL),
			zap.Bool("dry_run", r.DryRun),
			zap.Int("dataset", r.DatasetSize),
			zap.Int("created", r.Created),
			zap.Int("skipped", r.Skipped),
			zap.Int("errors", r.Errored),
			zap.Int("users_created", r.UsersCreated),
			zap.Int("customers_created", r.CustomersCreated),
		)
	}
	return nil
}
