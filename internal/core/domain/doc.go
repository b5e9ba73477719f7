// Package domain defines the core domain models for AirSig.
//
// Domain models are pure value objects and entities without any
// IO dependencies or framework coupling: gesture paths, the static
// template catalog, transfer sessions, and the domain error taxonomy.
package domain
