// Package gesture implements the signature and matching engine.
//
// It reduces a noisy freehand path to a deterministic direction signature
// (the matching key for pairing sessions) and scores paths against the
// static template catalog for guidance feedback. Both reductions are
// invariant to translation and uniform scale but deliberately sensitive
// to rotation and drawing direction.
package gesture
