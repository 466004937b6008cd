package errors

import (
	"strings"
	"unicode"
)

// ValidateViewID validates a view identifier from untrusted input (API
// payloads, graph files). The algorithms themselves treat IDs as opaque;
// these rules only guard the serialization and storage boundaries.
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - No control characters or null bytes
//   - Maximum length of 256 characters
func ValidateViewID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidGraph, "view ID cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidGraph, "view ID too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGraph, "view ID contains control characters")
		}
	}

	return nil
}

// ValidateRunID validates a run identifier used to look up stored results.
// Run IDs are UUIDs, but the store should reject obviously hostile input
// before it reaches a backend query.
func ValidateRunID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "run ID cannot be empty")
	}

	if len(id) > 64 {
		return New(ErrCodeInvalidInput, "run ID too long")
	}

	if strings.ContainsAny(id, "/\\\x00") {
		return New(ErrCodeInvalidInput, "run ID contains invalid characters")
	}

	return nil
}
