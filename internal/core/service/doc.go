// Package service provides the domain services for AirSig.
//
// PairingService orchestrates the session-matching protocol between two
// independent devices over a shared session store; Recorder owns the
// local gesture recording buffer and its start/stop/reset lifecycle.
package service
