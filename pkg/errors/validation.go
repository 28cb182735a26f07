package errors

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	locCodeRegex     = regexp.MustCompile(`^[A-Z]{3}$`)
	carrierCodeRegex = regexp.MustCompile(`^[A-Z0-9]{2,3}$`)
	marketIDRegex    = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
)

// ValidateLocCode validates a three-letter airport or city code.
func ValidateLocCode(code string) error {
	if code == "" {
		return New(ErrCodeInvalidRefData, "location code cannot be empty")
	}
	if !locCodeRegex.MatchString(code) {
		return New(ErrCodeInvalidRefData, "invalid location code: %q", code)
	}
	return nil
}

// ValidateCarrierCode validates a two or three character carrier code.
func ValidateCarrierCode(code string) error {
	if !carrierCodeRegex.MatchString(code) {
		return New(ErrCodeInvalidRefData, "invalid carrier code: %q", code)
	}
	return nil
}

// ValidateMarketID validates a scenario market identifier.
// IDs become map keys and diagnostic labels, so they are kept printable.
func ValidateMarketID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidScenario, "market id cannot be empty")
	}
	if len(id) > 64 {
		return New(ErrCodeInvalidScenario, "market id too long (max 64 characters)")
	}
	if !marketIDRegex.MatchString(id) {
		return New(ErrCodeInvalidScenario, "invalid market id: %q", id)
	}
	return nil
}

// ValidatePath validates a relative file reference inside a scenario,
// such as the reference-data file it includes.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
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

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
