// Package logger provides structured logging for AirSig.
//
// This package wraps log/slog for structured JSON logging:
//
//   - logger.go: Logger configuration and initialization
//   - context.go: Context-aware logging with request IDs
//   - redact.go: Sensitive data redaction
//
// Features:
//
//   - JSON and text output formats
//   - Log level filtering with runtime adjustment
//   - Automatic masking of payload content and key material
//   - Context propagation for request tracing
package logger
