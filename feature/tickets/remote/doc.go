// Package remote is the HTTP client for the support API that tickets are synced to.
//
// All paths are relative to a base URL such as http://localhost:3000/api. Reads are
// retried with exponential backoff on transport errors, 429 and 5xx responses;
// writes are sent exactly once and leave retry policy to the caller.
//
// A 404 surfaces as an *HTTPError that matches ErrNotFound under errors.Is.
package remote
