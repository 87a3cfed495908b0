// Package config provides configuration management for ticketsync.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Defaults live next to the fields they configure, in
// `default` struct tags, and are registered by reflection.
//
// # Configuration Structure
//
// The Config struct is divided into subsections:
//   - Remote: base URL, timeouts and credentials for entities created upstream
//   - Sync: dataset location, dry-run, concurrency, progress and backoff settings
//   - Server: stub server port and prefix
//   - Storage: S3/MinIO credentials for object datasets and summary reports
//   - Database: optional MySQL run history
//   - Log: logging level and format
//
// Environment variables map to keys by replacing "." with "_", for example
// SYNC_CONCURRENCY=10 or REMOTE_BASE_URL=https://tickets.example.com/api.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Sync.Concurrency)
package config
