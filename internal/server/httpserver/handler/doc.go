// Package handler provides HTTP request handlers for AirSig.
//
// This package implements the REST endpoints for pairing sessions,
// gesture scoring, the session event stream, and health probes.
package handler
