// Package identity resolves the users and customers a ticket hangs off.
//
// Users are keyed by email and customers by company name. Concurrent requests
// for the same key share one upstream round trip through singleflight, and the
// result is cached before any caller sees it, so a run never creates the same
// user or customer twice.
package identity
