package errors

import (
	"os"
	"strings"
	"unicode"
)

// ValidateSubPath validates a repository sub-path for safety.
// It rejects paths that could escape the working copy root.
//
// The validation rules are intentionally conservative:
//   - No control characters or null bytes
//   - No path traversal sequences (.., //)
//   - No absolute paths or backslashes
//   - Maximum length of 500 characters
//
// An empty sub-path is valid and means "the whole repository".
func ValidateSubPath(path string) error {
	if path == "" {
		return nil
	}

	if len(path) > 500 {
		return New(ErrCodeInvalidPath, "sub-path too long (max 500 characters)")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "sub-path contains invalid control characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "sub-path must be relative")
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(path, pattern) {
			return New(ErrCodeInvalidPath, "sub-path contains invalid sequence: %q", pattern)
		}
	}

	return nil
}

// ValidateTargetDir checks that dir is usable as a checkout target.
// The directory may be missing (it will be created by the backend) or exist
// empty; a directory with existing content is rejected so a checkout never
// overwrites unrelated files.
func ValidateTargetDir(dir string) error {
	if dir == "" {
		return New(ErrCodeInvalidInput, "target directory cannot be empty")
	}

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return Wrap(ErrCodeInvalidPath, err, "stat target directory %s", dir)
	}
	if !info.IsDir() {
		return New(ErrCodeTargetExists, "target %s exists and is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return Wrap(ErrCodeInvalidPath, err, "read target directory %s", dir)
	}
	if len(entries) > 0 {
		return New(ErrCodeTargetExists, "target directory %s is not empty", dir)
	}
	return nil
}
