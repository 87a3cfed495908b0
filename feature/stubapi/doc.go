// Package stubapi is an in-memory implementation of the support API.
//
// It serves the endpoints a sync run uses:
//
//	GET  /customers
//	POST /customers
//	GET  /users/email/:email
//	POST /users
//	GET  /support-ticket
//	POST /support-ticket
//
// Ids are UUIDs and passwords are bcrypt-hashed. Listed tickets embed their
// customer as an object; created tickets reference it by id. State lives only as
// long as the process.
package stubapi
