// Package httpserver provides the HTTP/HTTPS server for AirSig.
//
// It uses the Go standard library net/http for implementation,
// providing the REST API for pairing sessions and gesture scoring,
// plus an SSE stream for session status changes.
package httpserver
