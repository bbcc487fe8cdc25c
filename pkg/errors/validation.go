package errors

import (
	"strings"
	"unicode"
)

// ValidateEntityID validates a project or requirement identifier for safety
// and correctness. Identifiers end up in cache keys, file names, and row
// handle IDs, so the rules are intentionally conservative:
//   - No empty IDs
//   - No control characters
//   - No path traversal sequences (.., //, backslash)
//   - Maximum length of 128 characters
func ValidateEntityID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidID, "id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "id contains invalid control characters")
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidID, "id contains whitespace")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidID, "id contains invalid sequence: %q", pattern)
		}
	}

	return nil
}

// ValidateOutputPath validates a user-supplied output path for artifact
// writing. It rejects empty paths and embedded null bytes; everything else
// is the filesystem's problem.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}
	if strings.ContainsRune(path, 0) {
		return New(ErrCodeInvalidInput, "output path contains null byte")
	}
	return nil
}
