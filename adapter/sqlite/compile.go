package sqlite

import (
	"fmt"
	"strings"

	"github.com/loamdb/loam/query"
	"github.com/loamdb/loam/schema"
)

// compileAll converts a normalized read query to parameterized SQL.
// Returns (sql, params, error). Values are always bound as ? parameters,
// never interpolated into the statement.
func compileAll(q query.Query) (string, []any, error) {
	fields, err := selectedFields(q)
	if err != nil {
		return "", nil, err
	}

	var b strings.Builder
	var params []any

	b.WriteString("SELECT ")
	b.WriteString(identList(fields))
	b.WriteString(" FROM ")
	b.WriteString(quoteIdent(q.From.Source))

	if len(q.Wheres) > 0 {
		frag, ps, err := compileConjunction(q.Wheres)
		if err != nil {
			return "", nil, fmt.Errorf("compile where: %w", err)
		}
		b.WriteString(" WHERE ")
		b.WriteString(frag)
		params = append(params, ps...)
	}

	if len(q.GroupBys) > 0 {
		b.WriteString(" GROUP BY ")
		b.WriteString(identList(q.GroupBys))
	}

	if len(q.Havings) > 0 {
		frag, ps, err := compileConjunction(q.Havings)
		if err != nil {
			return "", nil, fmt.Errorf("compile having: %w", err)
		}
		b.WriteString(" HAVING ")
		b.WriteString(frag)
		params = append(params, ps...)
	}

	if len(q.OrderBys) > 0 {
		parts := make([]string, len(q.OrderBys))
		for i, ob := range q.OrderBys {
			parts[i] = quoteIdent(ob.Field) + " " + strings.ToUpper(ob.Dir.String())
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(parts, ", "))
	}

	if q.Limit != nil {
		b.WriteString(" LIMIT ?")
		params = append(params, *q.Limit)
	}
	if q.Offset != nil {
		b.WriteString(" OFFSET ?")
		params = append(params, *q.Offset)
	}

	return b.String(), params, nil
}

// selectedFields resolves the column list a read query scans: the select's
// fields, or every declared field when the select is the identity.
func selectedFields(q query.Query) ([]string, error) {
	if !q.Select.Identity() {
		return q.Select.Fields, nil
	}
	if q.From.Model == nil {
		return nil, fmt.Errorf("query on %q binds no entity type", q.From.Source)
	}
	return q.From.Model.FieldNames(), nil
}

// compileInsert converts an entity to an INSERT statement. Every declared
// field is written; an unset primary key is omitted so the backend can
// assign it. genKey reports whether the caller should read back a
// generated integer key.
func compileInsert(m schema.Model) (sql string, params []any, genKey bool) {
	pk := m.PrimaryKey()

	var cols []string
	for _, f := range m.FieldNames() {
		if f == pk && m.Value(f) == nil {
			genKey = m.FieldType(f) == schema.TypeInteger
			continue
		}
		cols = append(cols, quoteIdent(f))
		params = append(params, m.Value(f))
	}

	if len(cols) == 0 {
		return fmt.Sprintf("INSERT INTO %s DEFAULT VALUES", quoteIdent(m.Source())), nil, genKey
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	sql = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(m.Source()), strings.Join(cols, ", "), placeholders)
	return sql, params, genKey
}

// compileUpdateEntity converts an entity to an UPDATE of every non-key
// field, matched on the primary key.
func compileUpdateEntity(m schema.Model) (string, []any, error) {
	pk := m.PrimaryKey()
	if pk == "" {
		return "", nil, fmt.Errorf("%q declares no primary key", m.Source())
	}

	var sets []string
	var params []any
	for _, f := range m.FieldNames() {
		if f == pk {
			continue
		}
		sets = append(sets, quoteIdent(f)+" = ?")
		params = append(params, m.Value(f))
	}
	if len(sets) == 0 {
		return "", nil, fmt.Errorf("%q declares no non-key fields", m.Source())
	}

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		quoteIdent(m.Source()), strings.Join(sets, ", "), quoteIdent(pk))
	params = append(params, m.Value(pk))
	return sql, params, nil
}

// compileDeleteEntity converts an entity to a DELETE matched on the
// primary key.
func compileDeleteEntity(m schema.Model) (string, []any, error) {
	pk := m.PrimaryKey()
	if pk == "" {
		return "", nil, fmt.Errorf("%q declares no primary key", m.Source())
	}

	sql := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", quoteIdent(m.Source()), quoteIdent(pk))
	return sql, []any{m.Value(pk)}, nil
}

// compileUpdateAll converts a bare-shape query and assignments to a bulk
// UPDATE.
func compileUpdateAll(q query.Query, assigns []query.Assign) (string, []any, error) {
	if len(assigns) == 0 {
		return "", nil, fmt.Errorf("update %q without assignments", q.From.Source)
	}

	sets := make([]string, len(assigns))
	params := make([]any, len(assigns))
	for i, a := range assigns {
		sets[i] = quoteIdent(a.Field) + " = ?"
		params[i] = a.Value
	}

	var b strings.Builder
	fmt.Fprintf(&b, "UPDATE %s SET %s", quoteIdent(q.From.Source), strings.Join(sets, ", "))

	if len(q.Wheres) > 0 {
		frag, ps, err := compileConjunction(q.Wheres)
		if err != nil {
			return "", nil, fmt.Errorf("compile where: %w", err)
		}
		b.WriteString(" WHERE ")
		b.WriteString(frag)
		params = append(params, ps...)
	}

	return b.String(), params, nil
}

// compileDeleteAll converts a bare-shape query to a bulk DELETE.
func compileDeleteAll(q query.Query) (string, []any, error) {
	var b strings.Builder
	var params []any

	fmt.Fprintf(&b, "DELETE FROM %s", quoteIdent(q.From.Source))

	if len(q.Wheres) > 0 {
		frag, ps, err := compileConjunction(q.Wheres)
		if err != nil {
			return "", nil, fmt.Errorf("compile where: %w", err)
		}
		b.WriteString(" WHERE ")
		b.WriteString(frag)
		params = append(params, ps...)
	}

	return b.String(), params, nil
}

// compileConjunction joins a where list with AND. Entries in the list are
// implicitly conjoined.
func compileConjunction(exprs []query.Expr) (string, []any, error) {
	var frags []string
	var params []any

	for _, e := range exprs {
		frag, ps, err := compileExpr(e)
		if err != nil {
			return "", nil, err
		}
		frags = append(frags, frag)
		params = append(params, ps...)
	}

	return strings.Join(frags, " AND "), params, nil
}

// compileExpr compiles one expression node to a WHERE fragment.
// Composite nodes parenthesize themselves, so fragments compose without
// precedence surprises.
func compileExpr(e query.Expr) (string, []any, error) {
	switch expr := e.(type) {
	case query.Cmp:
		return compileCmp(expr)
	case *query.Cmp:
		return compileCmp(*expr)
	case query.In:
		return compileIn(expr)
	case *query.In:
		return compileIn(*expr)
	case query.And:
		return compileAnd(expr)
	case *query.And:
		return compileAnd(*expr)
	case query.Or:
		return compileOr(expr)
	case *query.Or:
		return compileOr(*expr)
	case query.Not:
		return compileNot(expr)
	case *query.Not:
		return compileNot(*expr)
	case nil:
		return "", nil, fmt.Errorf("nil expression")
	default:
		return "", nil, fmt.Errorf("unsupported expression type: %T", e)
	}
}

// compileCmp compiles a comparison to "field <op> ?". Nil operands use the
// SQL NULL forms: equality becomes IS NULL, inequality IS NOT NULL.
func compileCmp(c query.Cmp) (string, []any, error) {
	field := quoteIdent(c.Field)

	if c.Value == nil {
		switch c.Op {
		case query.OpEq:
			return field + " IS NULL", nil, nil
		case query.OpNotEq:
			return field + " IS NOT NULL", nil, nil
		default:
			return "", nil, fmt.Errorf("operator %s does not take a nil operand", c.Op)
		}
	}

	return fmt.Sprintf("%s %s ?", field, c.Op), []any{c.Value}, nil
}

// compileIn compiles membership to "field IN (?, ...)". An empty value
// list holds for no row.
func compileIn(in query.In) (string, []any, error) {
	if len(in.Values) == 0 {
		return "1 = 0", nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(in.Values)), ", ")
	return fmt.Sprintf("%s IN (%s)", quoteIdent(in.Field), placeholders), in.Values, nil
}

// compileAnd compiles a conjunction. An empty conjunction always holds.
func compileAnd(and query.And) (string, []any, error) {
	if len(and.Exprs) == 0 {
		return "1 = 1", nil, nil
	}

	frag, params, err := compileConjunction(and.Exprs)
	if err != nil {
		return "", nil, err
	}
	return "(" + frag + ")", params, nil
}

func compileOr(or query.Or) (string, []any, error) {
	left, leftParams, err := compileExpr(or.Left)
	if err != nil {
		return "", nil, err
	}
	right, rightParams, err := compileExpr(or.Right)
	if err != nil {
		return "", nil, err
	}

	return fmt.Sprintf("(%s OR %s)", left, right), append(leftParams, rightParams...), nil
}

func compileNot(not query.Not) (string, []any, error) {
	frag, params, err := compileExpr(not.Expr)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("NOT (%s)", frag), params, nil
}

// identList quotes and joins a column list.
func identList(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = quoteIdent(f)
	}
	return strings.Join(quoted, ", ")
}

// quoteIdent double-quotes an identifier, doubling embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
