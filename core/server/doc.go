// Package server holds the configuration of the stub HTTP server.
//
// The stub server (see feature/stubapi) is an in-memory stand-in for the remote
// ticket API. It is started by the "stub" command for local dry runs and is
// mounted directly by end-to-end tests.
//
// # Configuration
//
// The Config struct defines the listen port and the route prefix the API is
// mounted under (defaults to "/api", matching the remote service layout).
package server
