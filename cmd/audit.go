package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ticketsync/core/logger"
	"ticketsync/feature/tickets/audit"
	"ticketsync/feature/tickets/fetch"
	"ticketsync/feature/tickets/remote"

	"github.com/spf13/cobra"
)

var auditBaseURL string

// auditCmd reports duplicate tickets already present upstream.
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Report duplicate tickets on the remote API",
	Long: `Lists every group of upstream tickets that share company, subject, status and
creation day. Read-only: nothing is deleted.`,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().StringVar(&auditBaseURL, "base-url", "", "Remote API base URL")
	RootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, l, err := bootstrap()
	if err != nil {
		return err
	}
	defer l.Sync()

	if cmd.Flags().Changed("base-url") {
		cfg.Remote.BaseURL = auditBaseURL
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	loc, _ := cfg.Sync.Location()

	client := remote.NewClient(cfg.Remote.BaseURL,
		remote.WithTimeout(cfg.Remote.Timeout()),
		remote.WithMaxRetries(cfg.Remote.MaxRetries),
		remote.WithLogger(logger.WithComponent(l, "remote")),
	)

	state, err := fetch.New(client, l).FetchStrict(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch remote state: %w", err)
	}

	audit.Find(state.Tickets, state.Customers, loc).Log(l)
	return nil
}
