// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports a human friendly console
// encoding for interactive runs and JSON for log shipping.
//
// # Components
//
// Long running parts of a sync run (fetcher, resolver, engine) log through a child
// logger created with WithComponent, so every entry carries a "component" field
// next to the run's "run_id".
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: console (default) or json
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "console"})
//	log.Info("Sync started")
//
//	l := logger.WithComponent(log, "fetcher")
//	l.Warn("Ticket listing unavailable", zap.Error(err))
package logger
