package surreal

import (
	"context"
	"fmt"

	"github.com/loamdb/loam/query"
	"github.com/loamdb/loam/schema"
)

// Create inserts the entity. When the entity's string primary key is
// unset, SurrealDB assigns a record id and Create returns it in table:key
// form; otherwise Create returns nil.
func (a *Adapter) Create(ctx context.Context, m schema.Model) (any, error) {
	if a.db == nil {
		return nil, errNotStarted
	}

	stmt, vars, genKey, err := buildCreate(m)
	if err != nil {
		return nil, err
	}

	records, err := a.execute(ctx, stmt, vars)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", m.Source(), err)
	}

	if !genKey {
		return nil, nil
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("create %s returned no record", m.Source())
	}
	key, ok := fieldValue(schema.TypeString, records[0]["id"])
	if !ok {
		return nil, fmt.Errorf("create %s returned no usable key", m.Source())
	}
	return key, nil
}

// Update writes every non-key field of the entity to the record matching
// its primary key and returns the affected count.
func (a *Adapter) Update(ctx context.Context, m schema.Model) (int64, error) {
	if a.db == nil {
		return 0, errNotStarted
	}

	stmt, vars, err := buildUpdateEntity(m)
	if err != nil {
		return 0, err
	}

	records, err := a.execute(ctx, stmt, vars)
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", m.Source(), err)
	}
	return int64(len(records)), nil
}

// UpdateAll applies the assignments to every matching record and returns
// the affected count.
func (a *Adapter) UpdateAll(ctx context.Context, q query.Query, assigns []query.Assign) (int64, error) {
	if a.db == nil {
		return 0, errNotStarted
	}

	stmt, vars, err := buildUpdateAll(q, assigns)
	if err != nil {
		return 0, err
	}

	records, err := a.execute(ctx, stmt, vars)
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", q.From.Source, err)
	}
	return int64(len(records)), nil
}

// Delete removes the record matching the entity's primary key and returns
// the affected count.
func (a *Adapter) Delete(ctx context.Context, m schema.Model) (int64, error) {
	if a.db == nil {
		return 0, errNotStarted
	}

	stmt, vars, err := buildDeleteEntity(m)
	if err != nil {
		return 0, err
	}

	records, err := a.execute(ctx, stmt, vars)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", m.Source(), err)
	}
	return int64(len(records)), nil
}

// DeleteAll removes every matching record and returns the affected count.
func (a *Adapter) DeleteAll(ctx context.Context, q query.Query) (int64, error) {
	if a.db == nil {
		return 0, errNotStarted
	}

	stmt, vars, err := buildDeleteAll(q)
	if err != nil {
		return 0, err
	}

	records, err := a.execute(ctx, stmt, vars)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", q.From.Source, err)
	}
	return int64(len(records)), nil
}
