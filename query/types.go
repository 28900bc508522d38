package query

import "github.com/loamdb/loam/schema"

// Query is the canonical structured form of one logical query.
//
// Clause lists are ordered; composition extends them by copy (see the
// builder methods in build.go). After Normalize, From names a known
// physical source and Select, if it was absent, is the whole bound entity.
type Query struct {
	From     From
	Wheres   []Expr
	Select   *Select
	OrderBys []OrderBy
	GroupBys []string
	Havings  []Expr
	Limit    *int
	Offset   *int
	Preloads []string
}

// From describes the query's source: the physical source name and, when the
// query was resolved from an entity, the entity prototype. Model is nil for
// bare-source queries.
type From struct {
	Source string
	Model  schema.Model
}

// Select names the fields a query projects. An empty Fields list is the
// identity projection: the whole bound entity. A nil *Select on a Query
// means no select was given.
type Select struct {
	Fields []string
}

// Identity reports whether the select projects whole rows.
func (s *Select) Identity() bool {
	return s == nil || len(s.Fields) == 0
}

// Direction orders an OrderBy clause.
type Direction int

const (
	DirAsc Direction = iota
	DirDesc
)

func (d Direction) String() string {
	if d == DirDesc {
		return "desc"
	}
	return "asc"
}

// OrderBy orders results by one field.
type OrderBy struct {
	Field string
	Dir   Direction
}

// Assign is one (field, value) pair of a bulk update.
type Assign struct {
	Field string
	Value any
}

// Op is a comparison operator in a Cmp expression.
type Op int

const (
	OpEq Op = iota
	OpNotEq
	OpLt
	OpLte
	OpGt
	OpGte
)

var opNames = map[Op]string{
	OpEq:    "=",
	OpNotEq: "!=",
	OpLt:    "<",
	OpLte:   "<=",
	OpGt:    ">",
	OpGte:   ">=",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "invalid"
}

// Expr represents a filter condition in where and having clauses.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in adapter compilers.
//
// Expression types:
//   - Cmp: field <op> literal value
//   - In: field ∈ literal values
//   - And: all expressions must hold
//   - Or: either expression must hold
//   - Not: negation
type Expr interface {
	exprNode() // Marker method - seals interface to this package
}

// Cmp compares a field against a literal value.
type Cmp struct {
	Field string
	Op    Op
	Value any
}

func (Cmp) exprNode() {}

// In holds when the field's value appears among Values. An empty Values
// list holds for no row.
type In struct {
	Field  string
	Values []any
}

func (In) exprNode() {}

// And holds when every expression holds. An empty Exprs list always holds.
// Entries in a Query's Wheres list are implicitly conjoined, so Normalize
// flattens top-level And nodes into the list.
type And struct {
	Exprs []Expr
}

func (And) exprNode() {}

// Or holds when either expression holds.
type Or struct {
	Left  Expr
	Right Expr
}

func (Or) exprNode() {}

// Not negates an expression.
type Not struct {
	Expr Expr
}

func (Not) exprNode() {}
