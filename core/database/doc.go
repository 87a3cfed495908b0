// Package database handles the optional run-history database connection.
//
// It provides a wrapper around GORM to configure a MySQL connection based on the
// application's configuration. Run history is off by default; Connect returns
// ErrDisabled in that case so callers can skip recording without treating it as a
// failure.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if errors.Is(err, database.ErrDisabled) {
//	    // history not configured
//	}
package database
