package cmd

import (
	"fmt"
	"os"

	"ticketsync/core/config"
	"ticketsync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "ticketsync",
	Short: "Bulk support-ticket synchronization",
	Long: `ticketsync pushes a static dataset of support tickets to a remote support API.
It creates missing users and customers on the way and skips tickets that already exist.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format at debug level gives ISO8601 timestamps for CLI output.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

// bootstrap loads configuration from the working directory and builds the logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(l)
	return cfg, l, nil
}
