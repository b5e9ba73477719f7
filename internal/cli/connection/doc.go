// Package connection provides the HTTP client for airsig-cli.
//
// The client speaks the AirSig JSON envelope over HTTP/HTTPS and can
// hold a server-sent event stream open for session watching. Device
// identity travels in the X-Device-ID header.
package connection
