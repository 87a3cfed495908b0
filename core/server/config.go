package server

import "strings"

// Config holds configuration for the stub HTTP server.
type Config struct {
	// Port is the port where the stub server will listen.
	Port string `mapstructure:"port" default:"3000"`
	// Prefix is the route prefix the stub API is mounted under.
	Prefix string `mapstructure:"prefix" default:"/api"`
}

// Addr returns the listen address for the configured port.
func (c Config) Addr() string {
	port := strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
	if port == "" {
		port = "3000"
	}
	return ":" + port
}

// RoutePrefix returns Prefix normalised to a leading slash and no trailing slash.
func (c Config) RoutePrefix() string {
	p := strings.Trim(strings.TrimSpace(c.Prefix), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
