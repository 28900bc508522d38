package query

// Option configures normalization.
type Option func(*normalizeOptions)

type normalizeOptions struct {
	skipSelect bool
}

// SkipSelect leaves an absent select absent instead of defaulting it to the
// whole bound entity. Bulk update and delete shapes normalize with this
// option: they act on rows, not projections.
func SkipSelect() Option {
	return func(o *normalizeOptions) { o.skipSelect = true }
}

// Normalize rewrites a query into its canonical, adapter-ready form:
//
//   - top-level And nodes in where and having lists are flattened into the
//     implicitly conjunctive list itself
//   - duplicate preload names are dropped, keeping first-occurrence order
//   - an absent select defaults to the whole bound entity, unless
//     SkipSelect is given
//
// Normalize fails when the query names no physical source, or when the
// default select is required but the query binds no entity type.
func Normalize(q Query, opts ...Option) (Query, error) {
	var o normalizeOptions
	for _, opt := range opts {
		opt(&o)
	}

	if q.From.Source == "" {
		return Query{}, &ValidationError{Reason: "query names no physical source"}
	}

	q.Wheres = flattenConjunctions(q.Wheres)
	q.Havings = flattenConjunctions(q.Havings)
	q.Preloads = dedupePreloads(q.Preloads)

	if q.Select == nil && !o.skipSelect {
		if q.From.Model == nil {
			return Query{}, &ValidationError{
				Source: q.From.Source,
				Clause: "select",
				Reason: "cannot select whole entity: query binds no entity type",
			}
		}
		q.Select = &Select{}
	}

	return q, nil
}

// flattenConjunctions splices the children of top-level And nodes into the
// list. The list itself is an implicit conjunction, so nesting carries no
// meaning. And nodes inside Or and Not are left alone.
func flattenConjunctions(exprs []Expr) []Expr {
	if !hasConjunction(exprs) {
		return exprs
	}
	flat := make([]Expr, 0, len(exprs))
	for _, e := range exprs {
		switch and := e.(type) {
		case And:
			flat = append(flat, flattenConjunctions(and.Exprs)...)
		case *And:
			if and != nil {
				flat = append(flat, flattenConjunctions(and.Exprs)...)
			}
		default:
			flat = append(flat, e)
		}
	}
	return flat
}

func hasConjunction(exprs []Expr) bool {
	for _, e := range exprs {
		switch e.(type) {
		case And, *And:
			return true
		}
	}
	return false
}

func dedupePreloads(names []string) []string {
	if len(names) < 2 {
		return names
	}
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
