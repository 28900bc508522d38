package loam

import (
	"context"
	"fmt"

	"github.com/loamdb/loam/adapter"
	"github.com/loamdb/loam/query"
	"github.com/loamdb/loam/schema"
)

// Get fetches the entity whose primary key equals id.
//
// The queryable must bind an entity type declaring an integer-typed
// primary key. Get derives a query restricting the key to id with limit 1,
// so extra where clauses on the input compose with the key match. Zero
// matching rows return (nil, nil). More than one row is a
// NotSingleResultError: limit 1 should make that impossible, but a backend
// violating it indicates a primary-key collision worth surfacing over
// silently picking a row.
func (r *Repo) Get(ctx context.Context, queryable query.Queryable, id int64) (schema.Model, error) {
	q, err := query.Resolve(queryable)
	if err != nil {
		return nil, err
	}
	if err := query.ValidateGet(q); err != nil {
		return nil, err
	}

	pk := q.From.Model.PrimaryKey()
	q = q.Where(query.Cmp{Field: pk, Op: query.OpEq, Value: id}).WithLimit(1)
	q, err = query.Normalize(q)
	if err != nil {
		return nil, err
	}
	if err := query.Validate(q, r.apis...); err != nil {
		return nil, err
	}

	rows, err := r.backend.All(ctx, q)
	if err != nil {
		return nil, &AdapterError{Adapter: r.backend.Name(), Op: "get", Err: err}
	}
	r.log.DebugContext(ctx, "get",
		"token", r.token(), "source", q.From.Source, "key", id, "rows", len(rows))

	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
		return rows[0].Entity(), nil
	default:
		return nil, &NotSingleResultError{
			Source: q.From.Source,
			Op:     "get",
			Field:  pk,
			Value:  id,
			Count:  int64(len(rows)),
		}
	}
}

// All fetches every row matching the queryable, in backend order. When the
// query requests preloads, the returned rows carry their association slots
// populated. No matches is an empty slice, never nil.
func (r *Repo) All(ctx context.Context, queryable query.Queryable) ([]adapter.Row, error) {
	q, err := query.Resolve(queryable)
	if err != nil {
		return nil, err
	}
	q, err = query.Normalize(q)
	if err != nil {
		return nil, err
	}
	if err := query.Validate(q, r.apis...); err != nil {
		return nil, err
	}

	rows, err := r.backend.All(ctx, q)
	if err != nil {
		return nil, &AdapterError{Adapter: r.backend.Name(), Op: "all", Err: err}
	}
	r.log.DebugContext(ctx, "all",
		"token", r.token(), "source", q.From.Source, "rows", len(rows))

	if len(q.Preloads) > 0 {
		return r.preload(ctx, q, rows)
	}
	return rows, nil
}

// Create inserts the entity. When the backend assigns a primary key (an
// integer autoincrement, a generated record id), Create returns a copy of
// the entity carrying it; otherwise the entity comes back unchanged.
func (r *Repo) Create(ctx context.Context, m schema.Model) (schema.Model, error) {
	if err := schema.ValidateEntity(m); err != nil {
		return nil, err
	}

	key, err := r.backend.Create(ctx, m)
	if err != nil {
		return nil, &AdapterError{Adapter: r.backend.Name(), Op: "create", Err: err}
	}
	r.log.DebugContext(ctx, "create",
		"token", r.token(), "source", m.Source(), "generated", key != nil)

	if key != nil {
		if pk := m.PrimaryKey(); pk != "" {
			return m.With(pk, key), nil
		}
	}
	return m, nil
}

// Update writes the entity's fields to the row matching its primary key.
// The entity's type must declare a key and the value must carry one.
// Anything but exactly one affected row is a NotSingleResultError: zero
// means the row is gone or was never created, which callers need to know
// about, not silently absorb.
func (r *Repo) Update(ctx context.Context, m schema.Model) error {
	pk, key, err := keyedEntity(m)
	if err != nil {
		return err
	}
	if err := schema.ValidateEntity(m); err != nil {
		return err
	}

	affected, err := r.backend.Update(ctx, m)
	if err != nil {
		return &AdapterError{Adapter: r.backend.Name(), Op: "update", Err: err}
	}
	r.log.DebugContext(ctx, "update",
		"token", r.token(), "source", m.Source(), "key", key, "affected", affected)

	if affected != 1 {
		return &NotSingleResultError{
			Source: m.Source(),
			Op:     "update",
			Field:  pk,
			Value:  key,
			Count:  affected,
		}
	}
	return nil
}

// UpdateAll applies the assignments to every row matching the queryable
// and returns the raw affected count. Bulk writes carry no single-row
// expectation: zero affected rows is a normal outcome.
func (r *Repo) UpdateAll(ctx context.Context, queryable query.Queryable, assigns []query.Assign) (int64, error) {
	q, err := query.Resolve(queryable)
	if err != nil {
		return 0, err
	}
	q, err = query.Normalize(q, query.SkipSelect())
	if err != nil {
		return 0, err
	}
	if err := query.ValidateUpdate(q, assigns, r.apis...); err != nil {
		return 0, err
	}

	affected, err := r.backend.UpdateAll(ctx, q, assigns)
	if err != nil {
		return 0, &AdapterError{Adapter: r.backend.Name(), Op: "update_all", Err: err}
	}
	r.log.DebugContext(ctx, "update_all",
		"token", r.token(), "source", q.From.Source, "affected", affected)
	return affected, nil
}

// Delete removes the row matching the entity's primary key, with the same
// key requirements and single-row guarantee as Update.
func (r *Repo) Delete(ctx context.Context, m schema.Model) error {
	pk, key, err := keyedEntity(m)
	if err != nil {
		return err
	}
	if err := schema.ValidateEntity(m); err != nil {
		return err
	}

	affected, err := r.backend.Delete(ctx, m)
	if err != nil {
		return &AdapterError{Adapter: r.backend.Name(), Op: "delete", Err: err}
	}
	r.log.DebugContext(ctx, "delete",
		"token", r.token(), "source", m.Source(), "key", key, "affected", affected)

	if affected != 1 {
		return &NotSingleResultError{
			Source: m.Source(),
			Op:     "delete",
			Field:  pk,
			Value:  key,
			Count:  affected,
		}
	}
	return nil
}

// DeleteAll removes every row matching the queryable and returns the raw
// affected count.
func (r *Repo) DeleteAll(ctx context.Context, queryable query.Queryable) (int64, error) {
	q, err := query.Resolve(queryable)
	if err != nil {
		return 0, err
	}
	q, err = query.Normalize(q, query.SkipSelect())
	if err != nil {
		return 0, err
	}
	if err := query.ValidateDelete(q, r.apis...); err != nil {
		return 0, err
	}

	affected, err := r.backend.DeleteAll(ctx, q)
	if err != nil {
		return 0, &AdapterError{Adapter: r.backend.Name(), Op: "delete_all", Err: err}
	}
	r.log.DebugContext(ctx, "delete_all",
		"token", r.token(), "source", q.From.Source, "affected", affected)
	return affected, nil
}

// keyedEntity extracts the primary-key field and value an entity write
// needs: the type must declare a key and the value must carry one. Both
// failures are NoPrimaryKeyErrors distinguished by reason.
func keyedEntity(m schema.Model) (field string, value any, err error) {
	pk := m.PrimaryKey()
	if pk == "" {
		return "", nil, &schema.NoPrimaryKeyError{Source: m.Source(), Reason: "type declares none"}
	}
	key := m.Value(pk)
	if key == nil {
		return "", nil, &schema.NoPrimaryKeyError{
			Source: m.Source(),
			Reason: fmt.Sprintf("entity carries no %q value", pk),
		}
	}
	return pk, key, nil
}
