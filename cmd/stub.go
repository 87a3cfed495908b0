package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"ticketsync/core/loader"
	"ticketsync/feature/stubapi"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// stubCmd serves an in-memory support API.
var stubCmd = &cobra.Command{
	Use:   "stub",
	Short: "Serve an in-memory support API for local runs",
	Long: `Starts an HTTP server implementing the support API endpoints a sync run uses.
State is kept in memory and lost on exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := bootstrap()
		if err != nil {
			return err
		}
		defer l.Sync()

		app := stubapi.NewApp(l)

		mgr := loader.NewManager()
		mgr.Register(stubapi.NewFeature(stubapi.NewStore(bcrypt.DefaultCost), l))
		if err := mgr.LoadAll(app.Group(cfg.Server.RoutePrefix())); err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			l.Info("Starting stub server",
				zap.String("addr", cfg.Server.Addr()),
				zap.String("prefix", cfg.Server.RoutePrefix()),
			)
			errCh <- app.Listen(cfg.Server.Addr())
		}()

		// Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return err
		case <-c:
		}
		l.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(stubCmd)
}
