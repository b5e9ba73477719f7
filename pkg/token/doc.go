// Package token provides random identifier generation.
//
// It backs short-lived identifiers such as HTTP request IDs and device
// IDs. Output is Base64 RawURL encoded so it is safe in URLs and
// headers.
//
// Uses crypto/rand for CSPRNG.
package token
