package errors

import (
	"slices"
	"strings"
	"unicode"

	"github.com/matzehuels/anemcalc/pkg/formula"
)

// maxQueryLength bounds raw query text accepted from users.
const maxQueryLength = 128

// ValidateQuery validates raw text typed by a user before it reaches the
// name index. The index itself accepts any string; this guards the outer
// surfaces (CLI arguments, HTTP parameters) against garbage input.
//
// The rules:
//   - No empty or whitespace-only queries
//   - Maximum length of 128 characters
//   - No control characters or null bytes
func ValidateQuery(q string) error {
	if strings.TrimSpace(q) == "" {
		return New(ErrCodeInvalidInput, "component name cannot be empty")
	}

	if len(q) > maxQueryLength {
		return New(ErrCodeInvalidInput, "component name too long (max %d characters)", maxQueryLength)
	}

	for _, r := range q {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "component name contains invalid control characters")
		}
	}

	return nil
}

// ValidateComponentName validates a canonical name read from formula data.
// Canonical names must have a non-empty normalized key (see
// [formula.Normalize]), no surrounding whitespace and no control
// characters. This is the same rule [formula.NewIndex] enforces, so a
// name accepted here is never rejected when the index is built.
func ValidateComponentName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "component name cannot be empty")
	}

	if strings.TrimSpace(name) != name {
		return New(ErrCodeInvalidName, "component name %q has surrounding whitespace", name)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "component name %q contains control characters", name)
		}
	}
	if formula.Normalize(name) == "" {
		return New(ErrCodeInvalidName, "component name %q contains no cased letters", name)
	}

	return nil
}

// ValidateChoice checks that value is one of the allowed values, returning an
// error with the given code listing the allowed set otherwise.
func ValidateChoice(code Code, kind, value string, allowed []string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return New(code, "invalid %s %q (allowed: %s)", kind, value, strings.Join(allowed, ", "))
}

// ValidatePath validates a relative resource file name inside a data
// directory. It prevents path traversal out of the directory.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
