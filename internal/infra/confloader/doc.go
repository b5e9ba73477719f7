// Package confloader provides configuration loading for AirSig.
//
// It layers koanf sources so later ones override earlier ones:
//
//  1. Default values (seeded by the caller)
//  2. Configuration file (YAML)
//  3. Environment variables (AIRSIG_ prefix)
//  4. Command-line flags (loaded as a map by the caller)
//
// A companion Watcher reloads the file layer when it changes on disk.
package confloader
