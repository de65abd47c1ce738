package models

import (
	"errors"
	"fmt"
)

// Error codes used across the loader, extractor and emitter.
const (
	ErrCodeFieldResolution     = "FIELD_RESOLUTION_FAILED"
	ErrCodeLoadTimeout         = "LOAD_TIMEOUT"
	ErrCodeNavigation          = "NAVIGATION_FAILED"
	ErrCodePaginationExhausted = "PAGINATION_EXHAUSTED"
	ErrCodeSinkWrite           = "SINK_WRITE_FAILED"
	ErrCodeBrowserCrash        = "BROWSER_CRASH"
	ErrCodeInvalidInput        = "INVALID_INPUT"
)

// ScrapeError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ScrapeError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// NewScrapeError creates a new ScrapeError.
func NewScrapeError(code, message string, err error) *ScrapeError {
	return &ScrapeError{Code: code, Message: message, Err: err}
}

// IsCode reports whether any ScrapeError in err's chain carries code.
func IsCode(err error, code string) bool {
	var se *ScrapeError
	for err != nil {
		if !errors.As(err, &se) {
			return false
		}
		if se.Code == code {
			return true
		}
		err = se.Err
	}
	return false
}
