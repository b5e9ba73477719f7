// Package main provides the entry point for airsig-server.
//
// The server is the AirSig pairing service that provides:
//
//   - HTTP/HTTPS API for gesture sessions and matching
//   - Server-sent events for session status watching
//   - Prometheus metrics and health probes
//   - Optional Badger-backed session archive with restart recovery
//
// Usage:
//
//	airsig-server [flags]
//	airsig-server --config /path/to/config.yaml
//
// The server loads configuration, initializes infrastructure components,
// and starts the HTTP listener.
package main
