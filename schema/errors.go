package schema

import (
	"errors"
	"fmt"
)

// InvalidEntityError reports a field whose value's inferred type is
// incompatible with the field's declared type.
type InvalidEntityError struct {
	// Source is the entity's physical source name.
	Source string

	// Field is the offending field.
	Field string

	// Inferred is the semantic type of the value the field carries.
	Inferred Type

	// Expected is the field's declared type.
	Expected Type
}

func (e *InvalidEntityError) Error() string {
	return fmt.Sprintf("invalid entity %q: field %q carries %s value, expected %s",
		e.Source, e.Field, e.Inferred, e.Expected)
}

// IsInvalidEntity reports whether err is an InvalidEntityError.
// Uses errors.As to handle wrapped errors.
func IsInvalidEntity(err error) bool {
	var ie *InvalidEntityError
	return errors.As(err, &ie)
}

// NoPrimaryKeyError reports an operation that requires a primary key the
// entity type does not declare, or a primary-key value the entity does not
// carry.
type NoPrimaryKeyError struct {
	// Source is the entity's physical source name.
	Source string

	// Reason distinguishes a missing declaration from a missing value.
	Reason string
}

func (e *NoPrimaryKeyError) Error() string {
	return fmt.Sprintf("no primary key for %q: %s", e.Source, e.Reason)
}

// IsNoPrimaryKey reports whether err is a NoPrimaryKeyError.
// Uses errors.As to handle wrapped errors.
func IsNoPrimaryKey(err error) bool {
	var npe *NoPrimaryKeyError
	return errors.As(err, &npe)
}
