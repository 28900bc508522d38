package surreal

import (
	"fmt"
	"strings"

	"github.com/loamdb/loam/query"
	"github.com/loamdb/loam/schema"
)

// builder assembles one SurrealQL statement's text and named variables.
// The table travels as $tb so statements can address it with type::table
// and compose record ids with type::thing.
type builder struct {
	source string
	pk     string
	vars   map[string]any
	n      int
}

func newBuilder(source, pk string) *builder {
	return &builder{source: source, pk: pk, vars: map[string]any{"tb": source}}
}

// bindWhere adds a where literal under a generated name.
func (b *builder) bindWhere(value any) string {
	name := fmt.Sprintf("w%d", b.n)
	b.n++
	b.vars[name] = value
	return "$" + name
}

// bindSet adds a set value under a field-derived name.
func (b *builder) bindSet(field string, value any) string {
	name := "set_" + field
	b.vars[name] = value
	return "$" + name
}

// fieldName maps the entity's primary key field to the record id.
func (b *builder) fieldName(f string) string {
	if b.pk != "" && f == b.pk {
		return "id"
	}
	return f
}

func pkOf(m schema.Model) string {
	if m == nil {
		return ""
	}
	return m.PrimaryKey()
}

// stripRecordKey reduces a table:key string to the bare key so it can be
// recomposed with type::thing. Loaded string keys travel in table:key
// form.
func stripRecordKey(source string, v any) any {
	if s, ok := v.(string); ok {
		return strings.TrimPrefix(s, source+":")
	}
	return v
}

// buildSelect converts a normalized read query to a SurrealQL SELECT.
func buildSelect(q query.Query) (string, map[string]any, error) {
	if len(q.Havings) > 0 {
		return "", nil, fmt.Errorf("surreal: having clauses are not supported")
	}

	b := newBuilder(q.From.Source, pkOf(q.From.Model))

	fields := "*"
	if !q.Select.Identity() {
		names := make([]string, len(q.Select.Fields))
		for i, f := range q.Select.Fields {
			names[i] = b.fieldName(f)
		}
		fields = strings.Join(names, ", ")
	}

	var s strings.Builder
	fmt.Fprintf(&s, "SELECT %s FROM type::table($tb)", fields)

	if len(q.Wheres) > 0 {
		frag, err := b.conjunction(q.Wheres)
		if err != nil {
			return "", nil, fmt.Errorf("compile where: %w", err)
		}
		s.WriteString(" WHERE ")
		s.WriteString(frag)
	}

	if len(q.GroupBys) > 0 {
		names := make([]string, len(q.GroupBys))
		for i, f := range q.GroupBys {
			names[i] = b.fieldName(f)
		}
		s.WriteString(" GROUP BY ")
		s.WriteString(strings.Join(names, ", "))
	}

	if len(q.OrderBys) > 0 {
		parts := make([]string, len(q.OrderBys))
		for i, ob := range q.OrderBys {
			parts[i] = b.fieldName(ob.Field) + " " + strings.ToUpper(ob.Dir.String())
		}
		s.WriteString(" ORDER BY ")
		s.WriteString(strings.Join(parts, ", "))
	}

	if q.Limit != nil {
		s.WriteString(" LIMIT $limit")
		b.vars["limit"] = *q.Limit
	}
	if q.Offset != nil {
		s.WriteString(" START $start")
		b.vars["start"] = *q.Offset
	}

	return s.String(), b.vars, nil
}

// buildCreate converts an entity to a CREATE statement. A set primary key
// addresses the record through type::thing; an unset string key is left
// to the server, and genKey reports that the caller should read it back.
func buildCreate(m schema.Model) (stmt string, vars map[string]any, genKey bool, err error) {
	pk := m.PrimaryKey()
	b := newBuilder(m.Source(), pk)

	target := "type::table($tb)"
	if pk != "" {
		if v := m.Value(pk); v != nil {
			b.vars["id"] = stripRecordKey(b.source, v)
			target = "type::thing($tb, $id)"
		} else if t := m.FieldType(pk); t == schema.TypeString {
			genKey = true
		} else {
			return "", nil, false, fmt.Errorf("surreal: cannot generate a %s key for %q", t, m.Source())
		}
	}

	var sets []string
	for _, f := range m.FieldNames() {
		if f == pk {
			continue
		}
		if v := m.Value(f); v != nil {
			sets = append(sets, fmt.Sprintf("%s = %s", f, b.bindSet(f, v)))
		}
	}

	stmt = "CREATE " + target
	if len(sets) > 0 {
		stmt += " SET " + strings.Join(sets, ", ")
	}
	return stmt, b.vars, genKey, nil
}

// buildUpdateEntity converts an entity to an UPDATE of every non-key
// field, addressed by record id. Unset fields are cleared to NONE.
func buildUpdateEntity(m schema.Model) (string, map[string]any, error) {
	pk := m.PrimaryKey()
	if pk == "" {
		return "", nil, fmt.Errorf("%q declares no primary key", m.Source())
	}

	b := newBuilder(m.Source(), pk)
	b.vars["id"] = stripRecordKey(b.source, m.Value(pk))

	var sets []string
	for _, f := range m.FieldNames() {
		if f == pk {
			continue
		}
		if v := m.Value(f); v != nil {
			sets = append(sets, fmt.Sprintf("%s = %s", f, b.bindSet(f, v)))
		} else {
			sets = append(sets, f+" = NONE")
		}
	}
	if len(sets) == 0 {
		return "", nil, fmt.Errorf("%q declares no non-key fields", m.Source())
	}

	return "UPDATE type::thing($tb, $id) SET " + strings.Join(sets, ", "), b.vars, nil
}

// buildDeleteEntity converts an entity to a DELETE addressed by record
// id. RETURN BEFORE yields the deleted record so the caller can count it.
func buildDeleteEntity(m schema.Model) (string, map[string]any, error) {
	pk := m.PrimaryKey()
	if pk == "" {
		return "", nil, fmt.Errorf("%q declares no primary key", m.Source())
	}

	b := newBuilder(m.Source(), pk)
	b.vars["id"] = stripRecordKey(b.source, m.Value(pk))
	return "DELETE type::thing($tb, $id) RETURN BEFORE", b.vars, nil
}

// buildUpdateAll converts a bare-shape query and assignments to a bulk
// UPDATE.
func buildUpdateAll(q query.Query, assigns []query.Assign) (string, map[string]any, error) {
	if len(assigns) == 0 {
		return "", nil, fmt.Errorf("update %q without assignments", q.From.Source)
	}

	b := newBuilder(q.From.Source, pkOf(q.From.Model))

	sets := make([]string, len(assigns))
	for i, a := range assigns {
		if a.Value != nil {
			sets[i] = fmt.Sprintf("%s = %s", b.fieldName(a.Field), b.bindSet(a.Field, a.Value))
		} else {
			sets[i] = b.fieldName(a.Field) + " = NONE"
		}
	}

	var s strings.Builder
	s.WriteString("UPDATE type::table($tb) SET ")
	s.WriteString(strings.Join(sets, ", "))

	if len(q.Wheres) > 0 {
		frag, err := b.conjunction(q.Wheres)
		if err != nil {
			return "", nil, fmt.Errorf("compile where: %w", err)
		}
		s.WriteString(" WHERE ")
		s.WriteString(frag)
	}

	return s.String(), b.vars, nil
}

// buildDeleteAll converts a bare-shape query to a bulk DELETE.
func buildDeleteAll(q query.Query) (string, map[string]any, error) {
	b := newBuilder(q.From.Source, pkOf(q.From.Model))

	var s strings.Builder
	s.WriteString("DELETE type::table($tb)")

	if len(q.Wheres) > 0 {
		frag, err := b.conjunction(q.Wheres)
		if err != nil {
			return "", nil, fmt.Errorf("compile where: %w", err)
		}
		s.WriteString(" WHERE ")
		s.WriteString(frag)
	}

	s.WriteString(" RETURN BEFORE")
	return s.String(), b.vars, nil
}

// conjunction joins a where list with AND. Entries in the list are
// implicitly conjoined.
func (b *builder) conjunction(exprs []query.Expr) (string, error) {
	var frags []string
	for _, e := range exprs {
		frag, err := b.expr(e)
		if err != nil {
			return "", err
		}
		frags = append(frags, frag)
	}
	return strings.Join(frags, " AND "), nil
}

// expr compiles one expression node to a SurrealQL fragment. Composite
// nodes parenthesize themselves.
func (b *builder) expr(e query.Expr) (string, error) {
	switch expr := e.(type) {
	case query.Cmp:
		return b.cmp(expr)
	case *query.Cmp:
		return b.cmp(*expr)
	case query.In:
		return b.in(expr)
	case *query.In:
		return b.in(*expr)
	case query.And:
		return b.and(expr)
	case *query.And:
		return b.and(*expr)
	case query.Or:
		return b.or(expr)
	case *query.Or:
		return b.or(*expr)
	case query.Not:
		return b.not(expr)
	case *query.Not:
		return b.not(*expr)
	case nil:
		return "", fmt.Errorf("nil expression")
	default:
		return "", fmt.Errorf("unsupported expression type: %T", e)
	}
}

// cmp compiles a comparison. Nil operands compare against NONE; primary
// key comparisons compose the record id.
func (b *builder) cmp(c query.Cmp) (string, error) {
	field := b.fieldName(c.Field)

	if c.Value == nil {
		switch c.Op {
		case query.OpEq:
			return field + " = NONE", nil
		case query.OpNotEq:
			return field + " != NONE", nil
		default:
			return "", fmt.Errorf("operator %s does not take a nil operand", c.Op)
		}
	}

	if field == "id" {
		return fmt.Sprintf("id %s type::thing($tb, %s)", c.Op, b.bindWhere(stripRecordKey(b.source, c.Value))), nil
	}
	return fmt.Sprintf("%s %s %s", field, c.Op, b.bindWhere(c.Value)), nil
}

// in compiles membership. An empty value list holds for no record.
func (b *builder) in(in query.In) (string, error) {
	if len(in.Values) == 0 {
		return "false", nil
	}

	field := b.fieldName(in.Field)
	parts := make([]string, len(in.Values))
	for i, v := range in.Values {
		if field == "id" {
			parts[i] = fmt.Sprintf("type::thing($tb, %s)", b.bindWhere(stripRecordKey(b.source, v)))
		} else {
			parts[i] = b.bindWhere(v)
		}
	}
	return fmt.Sprintf("%s IN [%s]", field, strings.Join(parts, ", ")), nil
}

// and compiles a conjunction. An empty conjunction always holds.
func (b *builder) and(and query.And) (string, error) {
	if len(and.Exprs) == 0 {
		return "true", nil
	}
	frag, err := b.conjunction(and.Exprs)
	if err != nil {
		return "", err
	}
	return "(" + frag + ")", nil
}

func (b *builder) or(or query.Or) (string, error) {
	left, err := b.expr(or.Left)
	if err != nil {
		return "", err
	}
	right, err := b.expr(or.Right)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(%s OR %s)", left, right), nil
}

func (b *builder) not(not query.Not) (string, error) {
	frag, err := b.expr(not.Expr)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("!(%s)", frag), nil
}
