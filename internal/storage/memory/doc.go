// Package memory provides the in-memory session store for AirSig.
//
// It is the authority for the pairing protocol's concurrency guarantee:
// the waiting -> matched transition is a conditional update performed
// under the store lock, so two receivers racing for the same signature
// can never both win.
package memory
