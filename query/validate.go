package query

import (
	"fmt"

	"github.com/loamdb/loam/schema"
)

// API describes the expression forms a repository binding admits in its
// queries. A comparison passes validation when any configured API admits
// its operator for the operand's inferred type. Untyped (nil) operands are
// always admitted; they never reach an API.
type API interface {
	Admits(op Op, operand schema.Type) bool
}

// StandardAPI is the default expression API: equality operators on every
// concrete type, ordering operators on numeric, string, and time operands.
type StandardAPI struct{}

func (StandardAPI) Admits(op Op, operand schema.Type) bool {
	switch op {
	case OpEq, OpNotEq:
		return operand != schema.TypeInvalid
	case OpLt, OpLte, OpGt, OpGte:
		return operand.Numeric() || operand == schema.TypeString || operand == schema.TypeTime
	default:
		return false
	}
}

// Validate checks a generic read query against its bound entity: every
// referenced field must exist with a compatible operand type, every
// comparison must be admitted by an API set, and every preload must name a
// declared association. A query binding no entity type passes vacuously -
// there is no schema to check against.
//
// Validate is a pure function; it never dispatches.
func Validate(q Query, apis ...API) error {
	v := newValidator(q, apis)
	if v.model == nil {
		return nil
	}

	if q.Select != nil {
		for _, f := range q.Select.Fields {
			if err := v.checkField(f, "select"); err != nil {
				return err
			}
		}
	}
	for _, e := range q.Wheres {
		if err := v.checkExpr(e, "where"); err != nil {
			return err
		}
	}
	for _, ob := range q.OrderBys {
		if err := v.checkField(ob.Field, "order_by"); err != nil {
			return err
		}
	}
	for _, f := range q.GroupBys {
		if err := v.checkField(f, "group_by"); err != nil {
			return err
		}
	}
	for _, e := range q.Havings {
		if err := v.checkExpr(e, "having"); err != nil {
			return err
		}
	}
	for _, name := range q.Preloads {
		if _, ok := v.model.Association(name); !ok {
			return v.fail("preload", "no association %q declared on %q", name, v.model.Source())
		}
	}
	return nil
}

// ValidateGet checks the shape requirements of a primary-key fetch: the
// query must bind an entity type that declares an integer-typed primary
// key.
func ValidateGet(q Query) error {
	if q.From.Model == nil {
		return &ValidationError{Source: q.From.Source, Reason: "get requires an entity-bound query"}
	}
	pk := q.From.Model.PrimaryKey()
	if pk == "" {
		return &schema.NoPrimaryKeyError{Source: q.From.Model.Source(), Reason: "type declares none"}
	}
	if t := q.From.Model.FieldType(pk); t != schema.TypeInteger {
		return &ValidationError{
			Source: q.From.Source,
			Reason: fmt.Sprintf("get requires an integer primary key, %q is %s", pk, t),
		}
	}
	return nil
}

// ValidateUpdate checks the bulk-update shape: the query may carry only
// from and where clauses, and every assignment pair must name a declared
// field whose declared type is compatible with the value's inferred type
// (the primary key and untyped values are exempt). A failing pair is an
// InvalidEntityError.
func ValidateUpdate(q Query, assigns []Assign, apis ...API) error {
	if err := checkBareShape(q, false); err != nil {
		return err
	}
	v := newValidator(q, apis)
	if v.model != nil {
		for _, e := range q.Wheres {
			if err := v.checkExpr(e, "where"); err != nil {
				return err
			}
		}
	}

	if len(assigns) == 0 {
		return &ValidationError{Source: q.From.Source, Clause: "set", Reason: "no assignments"}
	}
	if v.model == nil {
		return nil
	}
	pk := v.model.PrimaryKey()
	for _, a := range assigns {
		declared := v.model.FieldType(a.Field)
		if declared == schema.TypeInvalid {
			return v.fail("set", "unknown field %q", a.Field)
		}
		if a.Field == pk {
			continue
		}
		inferred := schema.Infer(a.Value)
		if inferred == schema.TypeUntyped {
			continue
		}
		if !schema.Compatible(inferred, declared) {
			return &schema.InvalidEntityError{
				Source:   v.model.Source(),
				Field:    a.Field,
				Inferred: inferred,
				Expected: declared,
			}
		}
	}
	return nil
}

// ValidateDelete checks the bulk-delete shape: the query may carry only
// from and where clauses. A select is tolerated only as the identity
// projection - deletes act on whole rows.
func ValidateDelete(q Query, apis ...API) error {
	if err := checkBareShape(q, true); err != nil {
		return err
	}
	v := newValidator(q, apis)
	if v.model == nil {
		return nil
	}
	for _, e := range q.Wheres {
		if err := v.checkExpr(e, "where"); err != nil {
			return err
		}
	}
	return nil
}

// checkBareShape rejects every clause except from and wheres. Update
// shapes forbid a select entirely; delete shapes tolerate the identity.
func checkBareShape(q Query, allowIdentitySelect bool) error {
	fail := func(clause string) error {
		return &ValidationError{Source: q.From.Source, Clause: clause, Reason: "clause not allowed in this operation"}
	}
	if q.Select != nil && !(allowIdentitySelect && q.Select.Identity()) {
		return fail("select")
	}
	if len(q.OrderBys) > 0 {
		return fail("order_by")
	}
	if len(q.GroupBys) > 0 {
		return fail("group_by")
	}
	if len(q.Havings) > 0 {
		return fail("having")
	}
	if q.Limit != nil {
		return fail("limit")
	}
	if q.Offset != nil {
		return fail("offset")
	}
	if len(q.Preloads) > 0 {
		return fail("preload")
	}
	return nil
}

// validator carries the query context through expression traversal.
type validator struct {
	source string
	model  schema.Model
	apis   []API
}

func newValidator(q Query, apis []API) *validator {
	if len(apis) == 0 {
		apis = []API{StandardAPI{}}
	}
	return &validator{source: q.From.Source, model: q.From.Model, apis: apis}
}

func (v *validator) fail(clause, format string, args ...any) error {
	return &ValidationError{Source: v.source, Clause: clause, Reason: fmt.Sprintf(format, args...)}
}

func (v *validator) checkField(name, clause string) error {
	if v.model.FieldType(name) == schema.TypeInvalid {
		return v.fail(clause, "unknown field %q", name)
	}
	return nil
}

// checkExpr recursively validates an expression node.
func (v *validator) checkExpr(e Expr, clause string) error {
	switch expr := e.(type) {
	case Cmp:
		return v.checkCmp(expr, clause)
	case *Cmp:
		return v.checkCmp(*expr, clause)
	case In:
		return v.checkIn(expr, clause)
	case *In:
		return v.checkIn(*expr, clause)
	case And:
		return v.checkAll(expr.Exprs, clause)
	case *And:
		return v.checkAll(expr.Exprs, clause)
	case Or:
		return v.checkPair(expr.Left, expr.Right, clause)
	case *Or:
		return v.checkPair(expr.Left, expr.Right, clause)
	case Not:
		return v.checkChild(expr.Expr, clause)
	case *Not:
		return v.checkChild(expr.Expr, clause)
	case nil:
		return v.fail(clause, "nil expression")
	default:
		return v.fail(clause, "unknown expression type %T", e)
	}
}

func (v *validator) checkCmp(c Cmp, clause string) error {
	if err := v.checkField(c.Field, clause); err != nil {
		return err
	}
	inferred := schema.Infer(c.Value)
	if inferred == schema.TypeUntyped {
		return nil
	}
	declared := v.model.FieldType(c.Field)
	if !schema.Compatible(inferred, declared) {
		return v.fail(clause, "field %q: %s operand is incompatible with %s column", c.Field, inferred, declared)
	}
	if !v.admitted(c.Op, inferred) {
		return v.fail(clause, "operator %s not admitted for %s operands", c.Op, inferred)
	}
	return nil
}

func (v *validator) checkIn(in In, clause string) error {
	if err := v.checkField(in.Field, clause); err != nil {
		return err
	}
	declared := v.model.FieldType(in.Field)
	for _, val := range in.Values {
		inferred := schema.Infer(val)
		if inferred == schema.TypeUntyped {
			continue
		}
		if !schema.Compatible(inferred, declared) {
			return v.fail(clause, "field %q: %s operand is incompatible with %s column", in.Field, inferred, declared)
		}
		// Membership is an equality test per element.
		if !v.admitted(OpEq, inferred) {
			return v.fail(clause, "operator in not admitted for %s operands", inferred)
		}
	}
	return nil
}

func (v *validator) checkAll(exprs []Expr, clause string) error {
	for _, e := range exprs {
		if err := v.checkExpr(e, clause); err != nil {
			return err
		}
	}
	return nil
}

func (v *validator) checkPair(left, right Expr, clause string) error {
	if left == nil || right == nil {
		return v.fail(clause, "or with missing operand")
	}
	if err := v.checkExpr(left, clause); err != nil {
		return err
	}
	return v.checkExpr(right, clause)
}

func (v *validator) checkChild(e Expr, clause string) error {
	if e == nil {
		return v.fail(clause, "not with missing operand")
	}
	return v.checkExpr(e, clause)
}

func (v *validator) admitted(op Op, operand schema.Type) bool {
	for _, api := range v.apis {
		if api.Admits(op, operand) {
			return true
		}
	}
	return false
}
