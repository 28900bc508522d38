// Package query defines the structured query value the repository engine
// executes, the resolution of query-like inputs into that value, and the
// normalization and shape validation applied before adapter dispatch.
//
// ARCHITECTURE:
//
// The query value sits between application code and backend adapters:
//
//	[builder methods] → [Query] → [normalize] → [validate] → [adapter]
//
// Application code rarely constructs Query literals. It starts from a
// Queryable (a Source name, an Entity prototype, or an existing Query) and
// extends it with the clause methods, which copy rather than mutate.
//
// SEALED INTERFACES:
//
// Queryable and Expr are sealed interfaces using the marker method pattern.
// Only types in this package implement them.
//
// This enables:
//   - Exhaustive type switches in adapters compiling queries
//   - Compile-time safety against external extensions
//   - New variants by extending the union, never ad hoc type checks
//
// Example:
//
//	switch e := expr.(type) {
//	case query.Cmp:
//	    // field <op> value
//	case query.In:
//	    // field IN (values...)
//	case query.And, query.Or, query.Not:
//	    // boolean combinators
//	}
//
// VALIDATION SHAPES:
//
// Four validators cover the operation shapes the engine dispatches:
//   - Validate: generic reads. Every referenced field must exist on the
//     bound entity with a compatible operand type, every comparison must be
//     admitted by an API set, every preload must name an association.
//   - ValidateGet: primary-key fetches. The entity must declare an
//     integer-typed primary key.
//   - ValidateUpdate: bulk updates. Only from and where clauses allowed;
//     assignment pairs follow the widening compatibility rule.
//   - ValidateDelete: bulk deletes. Only from and where clauses allowed;
//     a select is tolerated only as the identity (whole rows).
//
// All validators are pure functions; they never dispatch.
package query
