package logger

import (
	"log/slog"
	"strings"
)

// Keys whose values carry the transferred payload. Fully redacted: the
// whole point of the system is that this content stays private.
var payloadKeys = []string{
	"content",
	"data_content",
	"plaintext",
	"encrypted_content",
}

// Key patterns that suggest key material or credentials. Partially
// masked so operators can still correlate records.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"key",
	"credential",
	"auth",
	"bearer",
}

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// redactSensitive checks if an attribute contains sensitive data
// and redacts it if necessary.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()
		keyLower := strings.ToLower(a.Key)

		for _, key := range payloadKeys {
			if keyLower == key {
				if strVal != "" {
					return slog.String(a.Key, redactedValue)
				}
				return a
			}
		}

		for _, pattern := range sensitiveKeyPatterns {
			if strings.Contains(keyLower, pattern) {
				if strVal != "" {
					return slog.String(a.Key, maskValue(strVal))
				}
				break
			}
		}
	}

	// Handle nested groups recursively
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// maskValue partially masks a sensitive value.
// Format: first 3 chars + "..." + last 3 chars.
func maskValue(value string) string {
	if len(value) <= 8 {
		return "***"
	}
	return value[:3] + "..." + value[len(value)-3:]
}

// RedactString manually redacts a string value.
// Use this when you need to mask a value before logging.
func RedactString(value string) string {
	if value == "" {
		return value
	}
	return maskValue(value)
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, k := range payloadKeys {
		if keyLower == k {
			return true
		}
	}
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}
