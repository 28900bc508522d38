package surreal

import (
	"context"
	"fmt"

	"github.com/loamdb/loam/adapter"
	"github.com/loamdb/loam/query"
)

// All executes a read query and decodes each result record into an entity
// of the query's bound type. Unselected fields and absent values stay
// unset.
//
// Returns an empty slice (not nil) when no records match.
func (a *Adapter) All(ctx context.Context, q query.Query) ([]adapter.Row, error) {
	if a.db == nil {
		return nil, errNotStarted
	}
	if q.From.Model == nil {
		return nil, fmt.Errorf("query on %q binds no entity type", q.From.Source)
	}

	stmt, vars, err := buildSelect(q)
	if err != nil {
		return nil, err
	}

	records, err := a.execute(ctx, stmt, vars)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.From.Source, err)
	}

	fields := q.Select.Fields
	if q.Select.Identity() {
		fields = q.From.Model.FieldNames()
	}

	rows := make([]adapter.Row, 0, len(records))
	for _, record := range records {
		entity := decodeEntity(q.From.Model, fields, record)
		rows = append(rows, adapter.NewRow(q.From.Source, entity))
	}
	return rows, nil
}
