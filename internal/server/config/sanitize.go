// Package config defines the server configuration structure.
package config

// Sanitize returns a copy of the config safe for logging.
//
// The current schema carries no embedded secrets; the copy exists so
// callers never log the live struct, and so future secret fields get
// masked in one place.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	sanitized := *cfg
	return &sanitized
}
