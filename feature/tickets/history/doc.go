// Package history keeps a record of finished sync runs in the sync_runs table.
//
// Recording is best effort. A run whose history write fails still succeeds.
package history
