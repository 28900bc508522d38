package sqlite

import (
	"context"
	"fmt"

	"github.com/loamdb/loam/query"
	"github.com/loamdb/loam/schema"
)

// Create inserts the entity. When the entity's integer primary key is
// unset, SQLite assigns one and Create returns it as an int64; otherwise
// Create returns nil.
func (a *Adapter) Create(ctx context.Context, m schema.Model) (any, error) {
	if a.db == nil {
		return nil, errNotStarted
	}

	stmt, params, genKey := compileInsert(m)
	res, err := a.db.ExecContext(ctx, stmt, params...)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", m.Source(), err)
	}

	if !genKey {
		return nil, nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read generated key for %s: %w", m.Source(), err)
	}
	return id, nil
}

// Update writes every non-key field of the entity to the row matching its
// primary key and returns the affected count.
func (a *Adapter) Update(ctx context.Context, m schema.Model) (int64, error) {
	if a.db == nil {
		return 0, errNotStarted
	}

	stmt, params, err := compileUpdateEntity(m)
	if err != nil {
		return 0, err
	}
	return a.exec(ctx, "update", m.Source(), stmt, params)
}

// UpdateAll applies the assignments to every matching row and returns the
// affected count.
func (a *Adapter) UpdateAll(ctx context.Context, q query.Query, assigns []query.Assign) (int64, error) {
	if a.db == nil {
		return 0, errNotStarted
	}

	stmt, params, err := compileUpdateAll(q, assigns)
	if err != nil {
		return 0, err
	}
	return a.exec(ctx, "update", q.From.Source, stmt, params)
}

// Delete removes the row matching the entity's primary key and returns
// the affected count.
func (a *Adapter) Delete(ctx context.Context, m schema.Model) (int64, error) {
	if a.db == nil {
		return 0, errNotStarted
	}

	stmt, params, err := compileDeleteEntity(m)
	if err != nil {
		return 0, err
	}
	return a.exec(ctx, "delete", m.Source(), stmt, params)
}

// DeleteAll removes every matching row and returns the affected count.
func (a *Adapter) DeleteAll(ctx context.Context, q query.Query) (int64, error) {
	if a.db == nil {
		return 0, errNotStarted
	}

	stmt, params, err := compileDeleteAll(q)
	if err != nil {
		return 0, err
	}
	return a.exec(ctx, "delete", q.From.Source, stmt, params)
}

// exec runs a write statement and reports the affected row count.
func (a *Adapter) exec(ctx context.Context, op, source, stmt string, params []any) (int64, error) {
	res, err := a.db.ExecContext(ctx, stmt, params...)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", op, source, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read affected count for %s: %w", source, err)
	}
	return affected, nil
}
