package query

import (
	"errors"
	"fmt"
)

// NotQueryableError reports an input that cannot be resolved into a
// structured query.
type NotQueryableError struct {
	// Value is the offending input.
	Value any

	// Reason says why it does not resolve.
	Reason string
}

func (e *NotQueryableError) Error() string {
	return fmt.Sprintf("not queryable: %s (value: %v)", e.Reason, e.Value)
}

// IsNotQueryable reports whether err is a NotQueryableError.
// Uses errors.As to handle wrapped errors.
func IsNotQueryable(err error) bool {
	var nq *NotQueryableError
	return errors.As(err, &nq)
}

// ValidationError reports a query that references unknown or incompatible
// fields, uses an inadmissible expression form, or carries clauses the
// operation's shape forbids.
type ValidationError struct {
	// Source is the physical source the query targets, when known.
	Source string

	// Clause names the offending clause (where, select, order_by, ...).
	Clause string

	// Reason is the specific violation.
	Reason string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Source != "" && e.Clause != "":
		return fmt.Sprintf("invalid query on %q: %s: %s", e.Source, e.Clause, e.Reason)
	case e.Source != "":
		return fmt.Sprintf("invalid query on %q: %s", e.Source, e.Reason)
	default:
		return fmt.Sprintf("invalid query: %s", e.Reason)
	}
}

// IsValidation reports whether err is a ValidationError.
// Uses errors.As to handle wrapped errors.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
