package logger

import (
	"strings"

	"ticketsync/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a new zap logger based on the configuration.
func New(cfg *Config) (*zap.Logger, error) {
	var config zap.Config

	level := strings.ToLower(strings.TrimSpace(cfg.Level))
	if level == "debug" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
		// Production config defaults to info; honour warn/error when asked.
		var lvl zapcore.Level
		if err := lvl.Set(level); err == nil {
			config.Level = zap.NewAtomicLevelAt(lvl)
		}
	}

	// Set format based on configuration
	if cfg.Format == "console" {
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.DisableStacktrace = true
	} else {
		config.Encoding = "json"
	}

	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.MessageKey = "message"

	return config.Build()
}

// WithComponent returns a child logger tagged with the component name.
func WithComponent(l *zap.Logger, component string) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l.With(zap.String("component", component))
}

// WithRayID returns a child logger tagged with the request's ray id.
func WithRayID(l *zap.Logger, c *fiber.Ctx) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	if id := rayid.FromCtx(c); id != "" {
		return l.With(zap.String("ray_id", id))
	}
	return l
}
