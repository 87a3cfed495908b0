// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - RayID: tags every request with an id, stored on the context and echoed in
//     the X-Ray-ID response header for tracing.
package middleware
