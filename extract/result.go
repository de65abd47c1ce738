package extract

import (
	"fmt"

	"github.com/use-agent/dinescrape/browser"
	"github.com/use-agent/dinescrape/models"
)

// FieldResolutionError records why one field of one container could not be
// read. It never leaves this package except through logs.
type FieldResolutionError struct {
	Field   string
	Locator browser.Locator
	Err     error
}

func (e *FieldResolutionError) Error() string {
	return fmt.Sprintf("%s: field %q via %s: %v", models.ErrCodeFieldResolution, e.Field, e.Locator, e.Err)
}

func (e *FieldResolutionError) Unwrap() error {
	return e.Err
}

// Result is the outcome of resolving a single field.
type Result struct {
	Value string
	Err   *FieldResolutionError
}

// OK reports whether the field resolved.
func (r Result) OK() bool { return r.Err == nil }

// OrSentinel is where a failed resolution becomes models.Sentinel.
func (r Result) OrSentinel() string {
	if r.Err != nil {
		return models.Sentinel
	}
	return r.Value
}

func failed(f Field, err error) Result {
	return Result{Err: &FieldResolutionError{Field: f.Name, Locator: f.Locator, Err: err}}
}
