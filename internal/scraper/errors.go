package scraper

import (
	"errors"
	"fmt"
)

// ErrEmptyKeyword is wrapped by ValidationError when no usable keyword was supplied.
var ErrEmptyKeyword = errors.New("keyword is empty")

// ValidationError reports input rejected before any request is issued.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// TransportError reports that no HTTP response was obtained: DNS failure,
// connection reset, timeout, cancellation or a truncated body.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// FetchFailedError reports a non-2xx upstream response.
type FetchFailedError struct {
	URL        string
	StatusCode int
	// Blocker names the bot protection vendor that answered, if recognised.
	Blocker string
}

func (e *FetchFailedError) Error() string {
	if e.Blocker != "" {
		return fmt.Sprintf("upstream returned status %d (blocked by %s)", e.StatusCode, e.Blocker)
	}
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// ValidateKeyword rejects empty and whitespace-only keywords.
func ValidateKeyword(keyword string) error {
	if isBlank(keyword) {
		return &ValidationError{Field: "keyword", Err: ErrEmptyKeyword}
	}
	return nil
}
