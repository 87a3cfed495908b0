// Package dedup decides whether a ticket already exists upstream.
//
// Tickets are compared by Fingerprint, never persisted. Two tickets for the same
// company with the same subject and status opened on the same day are treated as
// one, even if they were genuinely distinct.
package dedup
