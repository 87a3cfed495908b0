// Package audit reports tickets that already exist upstream more than once.
//
// It is read-only: duplicates are listed, never removed.
package audit
