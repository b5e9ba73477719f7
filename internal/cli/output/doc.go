// Package output provides output formatting for airsig-cli.
//
// This package handles all CLI output formatting:
//
//   - formatter.go: Formatter interface and factory
//   - table.go: Table rendering with wide mode support
//   - json.go: JSON output formatting
//
// Formatters support table and JSON output, and machine-readable
// output for scripting.
package output
