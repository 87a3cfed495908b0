// Package loader registers the features served over HTTP.
//
// Each feature implements Feature and mounts its own routes in Load. The Manager
// keeps registration order and skips features whose IsEnabled reports false.
package loader
