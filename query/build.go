package query

import "slices"

// Clause methods extend a query by value: each returns a copy with one
// clause list grown, leaving the receiver untouched. Slices are clipped
// before appending so sibling queries built from a shared prefix never
// alias each other's backing arrays.

// Where returns a copy with expr appended to the where clauses.
func (q Query) Where(expr Expr) Query {
	q.Wheres = append(slices.Clip(q.Wheres), expr)
	return q
}

// SelectFields returns a copy projecting the named fields. With no
// arguments it sets the identity projection (whole rows).
func (q Query) SelectFields(fields ...string) Query {
	q.Select = &Select{Fields: fields}
	return q
}

// OrderBy returns a copy with an ordering appended.
func (q Query) OrderBy(field string, dir Direction) Query {
	q.OrderBys = append(slices.Clip(q.OrderBys), OrderBy{Field: field, Dir: dir})
	return q
}

// GroupBy returns a copy with grouping fields appended.
func (q Query) GroupBy(fields ...string) Query {
	q.GroupBys = append(slices.Clip(q.GroupBys), fields...)
	return q
}

// Having returns a copy with expr appended to the having clauses.
func (q Query) Having(expr Expr) Query {
	q.Havings = append(slices.Clip(q.Havings), expr)
	return q
}

// WithLimit returns a copy limited to n rows.
func (q Query) WithLimit(n int) Query {
	q.Limit = &n
	return q
}

// WithOffset returns a copy skipping n rows.
func (q Query) WithOffset(n int) Query {
	q.Offset = &n
	return q
}

// Preload returns a copy with association names appended to the preload
// list. Duplicates are dropped at Normalize.
func (q Query) Preload(names ...string) Query {
	q.Preloads = append(slices.Clip(q.Preloads), names...)
	return q
}

// Extend returns a copy of q carrying other's clauses as well: list
// clauses are appended in order, and other's select, limit, and offset
// replace q's when set. From is kept from q.
func (q Query) Extend(other Query) Query {
	q.Wheres = append(slices.Clip(q.Wheres), other.Wheres...)
	q.OrderBys = append(slices.Clip(q.OrderBys), other.OrderBys...)
	q.GroupBys = append(slices.Clip(q.GroupBys), other.GroupBys...)
	q.Havings = append(slices.Clip(q.Havings), other.Havings...)
	q.Preloads = append(slices.Clip(q.Preloads), other.Preloads...)
	if other.Select != nil {
		q.Select = other.Select
	}
	if other.Limit != nil {
		q.Limit = other.Limit
	}
	if other.Offset != nil {
		q.Offset = other.Offset
	}
	return q
}
