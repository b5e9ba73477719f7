// Package main provides the entry point for airsig-cli.
//
// The CLI tool provides command-line access to an AirSig server for:
//
//   - Sending a payload behind a recorded gesture (send)
//   - Claiming a payload by replaying a gesture (receive)
//   - Acknowledging delivery (complete)
//   - Inspecting and watching sessions (status, watch)
//   - Scoring a recorded path against the template catalog (score)
//
// Usage:
//
//	airsig-cli [command] [flags]
//	airsig-cli send --trace circle.json --content "meet at noon"
//	airsig-cli receive --trace circle.json
//
// Gesture paths are read from JSON trace files recorded by a capture
// front end.
package main
