// Package domain defines the core domain models for AirSig.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
type DomainError struct {
	Code    string // Error code (e.g., "AS-SESS-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Signature / Input Errors (SIGN)
// ============================================================================

var (
	// ErrInsufficientPoints indicates the recorded path is too short to
	// produce a signature. Recoverable: the caller should keep recording.
	ErrInsufficientPoints = NewDomainError("AS-SIGN-4001", "not enough points for a gesture signature")

	// ErrEmptySignature indicates signature generation yielded the empty
	// sentinel for the given path.
	ErrEmptySignature = NewDomainError("AS-SIGN-4002", "gesture signature is empty")
)

// ============================================================================
// Session Errors (SESS)
// ============================================================================

var (
	// ErrSessionNotFound indicates the requested session was not found.
	ErrSessionNotFound = NewDomainError("AS-SESS-4040", "session not found")

	// ErrSessionExpired indicates the session TTL has lapsed.
	ErrSessionExpired = NewDomainError("AS-SESS-4041", "session expired")

	// ErrSessionConflict indicates the session ID already exists.
	ErrSessionConflict = NewDomainError("AS-SESS-4090", "session id conflict")

	// ErrStatusConflict indicates a conditional status transition lost the
	// race: the session was no longer in the expected status.
	ErrStatusConflict = NewDomainError("AS-SESS-4091", "session status conflict")

	// ErrInvalidTransition indicates a transition that the lifecycle
	// forbids (status only advances forward).
	ErrInvalidTransition = NewDomainError("AS-SESS-4002", "invalid session status transition")

	// ErrSessionValidation indicates session field validation failed.
	ErrSessionValidation = NewDomainError("AS-SESS-4001", "session validation failed")
)

// ============================================================================
// Crypto Errors (CRYP)
// ============================================================================

var (
	// ErrDecryptionFailed indicates authentication-tag mismatch or a
	// malformed ciphertext encoding. Callers recover by falling back to the
	// plaintext content stored alongside.
	ErrDecryptionFailed = NewDomainError("AS-CRYP-4001", "payload decryption failed")

	// ErrInvalidKey indicates a malformed or wrong-size encryption key.
	ErrInvalidKey = NewDomainError("AS-CRYP-4002", "invalid encryption key")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrInternalServer indicates an internal server error.
	ErrInternalServer = NewDomainError("AS-SYS-5000", "internal server error")

	// ErrStorageError indicates a storage layer error. Transient: callers
	// surface a retry affordance rather than failing hard.
	ErrStorageError = NewDomainError("AS-SYS-5001", "storage error")

	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = NewDomainError("AS-SYS-4000", "bad request")

	// ErrRateLimited indicates too many match attempts.
	ErrRateLimited = NewDomainError("AS-SYS-4290", "too many requests")
)

// ============================================================================
// Argument Errors (ARG)
// ============================================================================

var (
	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("AS-ARG-1001", "invalid argument")

	// ErrMissingArgument indicates a required argument is missing.
	ErrMissingArgument = NewDomainError("AS-ARG-1002", "missing required argument")
)
