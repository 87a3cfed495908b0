// Package runner wires the ticket sync together.
//
// A run fetches the upstream snapshot, seeds the duplicate index from it and
// drains the dataset through a worker pool. Each record ends up created,
// skipped or errored, and the run ends with exactly one Summary handed to every
// configured Reporter.
package runner
