// Package validation holds small helpers for pointer fields and wire formats.
package validation

import (
	"strings"
	"time"
)

// ISOMillis is the ISO-8601 layout used on the wire: UTC with millisecond precision.
const ISOMillis = "2006-01-02T15:04:05.000Z07:00"

// StringPtrIfNotEmpty returns a pointer to s, or nil when s is empty.
func StringPtrIfNotEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// GetStringOrEmpty returns the string value or an empty string if nil.
func GetStringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// IsBlank reports whether s has no characters other than white space.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// FormatISOTime renders t in UTC using ISOMillis. The zero time renders as "".
func FormatISOTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(ISOMillis)
}
