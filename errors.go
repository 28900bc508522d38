package loam

import (
	"errors"
	"fmt"
)

// AdapterError wraps a failure reported by a storage backend. It carries
// the adapter's registry name and the repository operation that
// dispatched the failing call.
type AdapterError struct {
	// Adapter is the backend's registry name, e.g. "sqlite".
	Adapter string

	// Op is the repository operation, e.g. "all" or "update_all".
	Op string

	// Err is the backend's error.
	Err error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("adapter %s: %s: %v", e.Adapter, e.Op, e.Err)
}

// Unwrap exposes the backend error to errors.Is and errors.As chains.
func (e *AdapterError) Unwrap() error {
	return e.Err
}

// IsAdapterError reports whether err is an AdapterError.
// Uses errors.As to handle wrapped errors.
func IsAdapterError(err error) bool {
	var ae *AdapterError
	return errors.As(err, &ae)
}

// NotSingleResultError reports an operation that required exactly one row
// but observed a different count: a get that matched several rows, or an
// entity update/delete whose key matched none.
type NotSingleResultError struct {
	// Source is the physical source the operation ran against.
	Source string

	// Op is the repository operation.
	Op string

	// Field and Value identify the key the operation matched on, when
	// the operation was keyed.
	Field string
	Value any

	// Count is the number of rows observed.
	Count int64
}

func (e *NotSingleResultError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s %q: expected one row for %s=%v, got %d",
			e.Op, e.Source, e.Field, e.Value, e.Count)
	}
	return fmt.Sprintf("%s %q: expected one row, got %d", e.Op, e.Source, e.Count)
}

// IsNotSingleResult reports whether err is a NotSingleResultError.
// Uses errors.As to handle wrapped errors.
func IsNotSingleResult(err error) bool {
	var nse *NotSingleResultError
	return errors.As(err, &nse)
}

// InvalidURLError reports a connection URL the repository cannot use.
type InvalidURLError struct {
	// URL is the offending URL as given.
	URL string

	// Reason says what is wrong with it.
	Reason string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid repository URL %q: %s", e.URL, e.Reason)
}

// IsInvalidURL reports whether err is an InvalidURLError.
// Uses errors.As to handle wrapped errors.
func IsInvalidURL(err error) bool {
	var ue *InvalidURLError
	return errors.As(err, &ue)
}
