// Package fetch takes the upstream snapshot a sync run is seeded from.
package fetch
