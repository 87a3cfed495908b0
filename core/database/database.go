package database

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrDisabled is returned by Connect when run history is switched off.
var ErrDisabled = errors.New("database disabled")

// DSN builds the go-sql-driver/mysql data source name for cfg.
func DSN(cfg Config) string {
	// Special characters in the password must be URL encoded for the mysql driver.
	userInfo := url.UserPassword(cfg.User, cfg.Password).String()

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 10
	}

	return fmt.Sprintf("%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
		userInfo, cfg.Host, cfg.Port, cfg.Name, timeout, timeout, timeout)
}

// Connect establishes a connection to the MySQL database.
// It returns ErrDisabled without dialing when cfg.Enabled is false.
func Connect(cfg Config) (*gorm.DB, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 10
	}

	// Keep GORM quiet; failures surface through returned errors and the zap logger.
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(mysql.Open(DSN(cfg)), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
