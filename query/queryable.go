package query

import (
	"fmt"

	"github.com/loamdb/loam/schema"
)

// Queryable is the closed set of inputs resolvable into a structured query.
//
// This is a sealed interface - only types in this package implement it.
// Exactly three variants are admissible:
//   - Query: an existing structured query, returned unchanged
//   - Source: a physical source name, wrapped with empty clause lists
//   - Entity: an entity prototype, wrapped with its source and schema
//
// New variants extend this union; callers never type-check ad hoc.
type Queryable interface {
	queryable() // Marker method - seals interface to this package
}

func (Query) queryable() {}

// Source names a physical source (table or collection) directly. Queries
// resolved from a Source bind no entity type: field validation is skipped
// and whole-entity selects are unavailable.
type Source string

func (Source) queryable() {}

// Entity designates an entity type by prototype. The prototype's schema
// supplies the source name and field types for validation.
type Entity struct {
	Model schema.Model
}

func (Entity) queryable() {}

// Resolve converts any admissible queryable into a structured query.
//
// Resolve has no side effects. It fails with NotQueryableError only for
// the residual cases the type system cannot exclude: a nil queryable, an
// empty source name, a nil entity model, or a model reporting no source.
func Resolve(q Queryable) (Query, error) {
	switch v := q.(type) {
	case nil:
		return Query{}, &NotQueryableError{Value: nil, Reason: "nil queryable"}
	case Query:
		return v, nil
	case Source:
		if v == "" {
			return Query{}, &NotQueryableError{Value: v, Reason: "empty source name"}
		}
		return Query{From: From{Source: string(v)}}, nil
	case Entity:
		if v.Model == nil {
			return Query{}, &NotQueryableError{Value: v, Reason: "entity carries no model"}
		}
		src := v.Model.Source()
		if src == "" {
			return Query{}, &NotQueryableError{Value: v, Reason: "model reports no source"}
		}
		return Query{From: From{Source: src, Model: v.Model}}, nil
	default:
		return Query{}, &NotQueryableError{Value: q, Reason: fmt.Sprintf("unsupported queryable %T", q)}
	}
}
