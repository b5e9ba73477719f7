// Package command provides CLI command definitions for airsig-cli.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: Root command and global flags
//   - session.go: send, receive, complete, status, watch
//   - gesture.go: score
//   - record.go: record, point-stream capture into a trace file
//   - trace.go: gesture trace file loading
//
// Commands follow a consistent pattern of parsing flags, calling the
// server over HTTP, and formatting output.
package command
