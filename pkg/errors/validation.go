package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

const maxIDLength = 256

// ValidateID validates an item or annotation identifier. Annotated item IDs
// default to their link text, so spaces are allowed; control characters are
// not.
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "id %q contains control characters", id)
		}
	}
	return nil
}

// ValidateDimension validates one extent of a rectangle: finite and not
// negative.
func ValidateDimension(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidScene, "%s must be a finite number", name)
	}
	if v < 0 {
		return New(ErrCodeInvalidScene, "%s cannot be negative (got %g)", name, v)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// youtubeCodeRegex matches YouTube video IDs.
var youtubeCodeRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidateYouTubeCode validates a YouTube video ID. It is embedded in
// thumbnail and player URLs, so only the ID alphabet is accepted.
func ValidateYouTubeCode(code string) error {
	if !youtubeCodeRegex.MatchString(code) {
		return New(ErrCodeInvalidDocument, "invalid YouTube video code: %q", code)
	}
	return nil
}
