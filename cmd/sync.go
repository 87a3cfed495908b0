package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ticketsync/core/config"
	"ticketsync/core/database"
	"ticketsync/core/logger"
	"ticketsync/core/storage"
	"ticketsync/core/syncer"
	"ticketsync/feature/tickets/dataset"
	"ticketsync/feature/tickets/history"
	"ticketsync/feature/tickets/remote"
	"ticketsync/feature/tickets/runner"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the sync command
	syncDryRun      bool
	syncConcurrency int
	syncDataset     string
	syncBaseURL     string
	syncMetricsAddr string
)

// syncCmd pushes the dataset to the remote API.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize the ticket dataset with the remote API",
	Long: `Loads the ticket dataset, fetches existing customers and tickets from the remote API
and creates every ticket that is not already there, along with any missing user or customer.

Flags override the matching configuration values (SYNC_DRY_RUN, SYNC_CONCURRENCY,
SYNC_DATASET, REMOTE_BASE_URL).

Examples:
  # Preview what would be created
  ticketsync sync --dry-run

  # Sync a dataset stored in object storage with 10 workers
  ticketsync sync --dataset s3://datasets/tickets.json --concurrency 10`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Resolve and count without any mutating remote call")
	syncCmd.Flags().IntVar(&syncConcurrency, "concurrency", 0, "Number of workers (default from config, 5)")
	syncCmd.Flags().StringVar(&syncDataset, "dataset", "", "Dataset path or s3://bucket/object URI")
	syncCmd.Flags().StringVar(&syncBaseURL, "base-url", "", "Remote API base URL, e.g. http://localhost:3000/api")
	syncCmd.Flags().StringVar(&syncMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address during the run, e.g. :9090")

	RootCmd.AddCommand(syncCmd)
}

// applySyncFlags copies explicitly set flags over the loaded configuration.
func applySyncFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("dry-run") {
		cfg.Sync.DryRun = syncDryRun
	}
	if flags.Changed("concurrency") {
		cfg.Sync.Concurrency = syncConcurrency
	}
	if flags.Changed("dataset") {
		cfg.Sync.Dataset = syncDataset
	}
	if flags.Changed("base-url") {
		cfg.Remote.BaseURL = syncBaseURL
	}
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, l, err := bootstrap()
	if err != nil {
		return err
	}
	defer l.Sync()

	applySyncFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	loc, _ := cfg.Sync.Location()

	// Storage is only needed for s3:// datasets and report uploads.
	var store storage.Client
	if storage.IsObjectURI(cfg.Sync.Dataset) || cfg.Sync.ReportObject != "" {
		store, err = storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
	}

	records, err := dataset.NewLoader(store).Load(ctx, cfg.Sync.Dataset)
	if err != nil {
		return err
	}
	l.Info("Dataset loaded", zap.String("dataset", cfg.Sync.Dataset), zap.Int("records", len(records)))

	metrics := syncer.NewMetrics()
	if syncMetricsAddr != "" {
		shutdown := serveMetrics(syncMetricsAddr, metrics, l)
		defer shutdown()
	}

	client := remote.NewClient(cfg.Remote.BaseURL,
		remote.WithTimeout(cfg.Remote.Timeout()),
		remote.WithMaxRetries(cfg.Remote.MaxRetries),
		remote.WithLogger(logger.WithComponent(l, "remote")),
	)

	var reporters []runner.Reporter
	if cfg.Sync.ReportObject != "" {
		reporters = append(reporters, &runner.ObjectReport{
			Client: store,
			Bucket: cfg.Storage.Bucket,
			Object: cfg.Sync.ReportObject,
		})
	}
	if h := openHistory(ctx, cfg.Database, l); h != nil {
		reporters = append(reporters, h)
	}

	_, err = runner.Run(ctx, records, client, runner.Options{
		BaseURL:       client.BaseURL(),
		DryRun:        cfg.Sync.DryRun,
		Concurrency:   cfg.Sync.Concurrency,
		ProgressEvery: cfg.Sync.ProgressEvery,
		Backoff:       cfg.Sync.Backoff(),
		Location:      loc,
		Password:      cfg.Remote.UserPassword,
		Role:          cfg.Remote.UserRole,
		Logger:        l,
		Metrics:       metrics,
		Reporters:     reporters,
	})
	return err
}

// openHistory returns the run history store, or nil when history is disabled or
// unreachable. History never blocks a run.
func openHistory(ctx context.Context, cfg database.Config, l *zap.Logger) *history.Store {
	db, err := database.Connect(cfg)
	if errors.Is(err, database.ErrDisabled) {
		return nil
	}
	if err != nil {
		l.Warn("Run history unavailable", zap.Error(err))
		return nil
	}

	store := history.NewStore(db)
	if err := store.Migrate(ctx); err != nil {
		l.Warn("Run history unavailable", zap.Error(err))
		return nil
	}
	return store
}

// serveMetrics exposes metrics on addr until the returned func is called.
func serveMetrics(addr string, metrics *syncer.Metrics, l *zap.Logger) func() {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	go func() {
		l.Info("Serving metrics", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			l.Warn("Metrics server stopped", zap.Error(err))
		}
	}()

	return func() {
		_ = app.Shutdown()
	}
}
