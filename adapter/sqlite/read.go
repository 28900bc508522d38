package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/loamdb/loam/adapter"
	"github.com/loamdb/loam/query"
	"github.com/loamdb/loam/schema"
)

// All executes a read query and decodes each result row into an entity of
// the query's bound type. Unselected fields and NULL columns stay unset.
//
// Returns an empty slice (not nil) when no rows match.
func (a *Adapter) All(ctx context.Context, q query.Query) ([]adapter.Row, error) {
	if a.db == nil {
		return nil, errNotStarted
	}
	if q.From.Model == nil {
		return nil, fmt.Errorf("query on %q binds no entity type", q.From.Source)
	}

	stmt, params, err := compileAll(q)
	if err != nil {
		return nil, err
	}

	rows, err := a.db.QueryContext(ctx, stmt, params...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.From.Source, err)
	}
	defer rows.Close()

	fields, err := selectedFields(q)
	if err != nil {
		return nil, err
	}

	var out []adapter.Row
	for rows.Next() {
		entity, err := scanEntity(rows, q.From.Model, fields)
		if err != nil {
			return nil, err
		}
		out = append(out, adapter.NewRow(q.From.Source, entity))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", q.From.Source, err)
	}

	if out == nil {
		out = []adapter.Row{}
	}
	return out, nil
}

// scanEntity scans the current row into a copy of the prototype entity.
// Columns are scanned through typed null holders chosen by declared field
// type; NULL columns leave the field unset.
func scanEntity(rows *sql.Rows, proto schema.Model, fields []string) (schema.Model, error) {
	holders := make([]any, len(fields))
	for i, f := range fields {
		holders[i] = holderFor(proto.FieldType(f))
	}

	if err := rows.Scan(holders...); err != nil {
		return nil, fmt.Errorf("scan %s: %w", proto.Source(), err)
	}

	entity := proto
	for i, f := range fields {
		value, ok := holderValue(holders[i])
		if !ok {
			continue
		}
		entity = entity.With(f, value)
	}
	return entity, nil
}

// holderFor picks the scan destination for a declared field type.
func holderFor(t schema.Type) any {
	switch t {
	case schema.TypeInteger:
		return new(sql.NullInt64)
	case schema.TypeFloat:
		return new(sql.NullFloat64)
	case schema.TypeString:
		return new(sql.NullString)
	case schema.TypeBool:
		return new(sql.NullBool)
	case schema.TypeTime:
		return new(sql.NullTime)
	case schema.TypeBinary:
		return new([]byte)
	default:
		return new(any)
	}
}

// holderValue unwraps a scan destination. ok is false for NULL columns.
func holderValue(holder any) (value any, ok bool) {
	switch v := holder.(type) {
	case *sql.NullInt64:
		if !v.Valid {
			return nil, false
		}
		return v.Int64, true
	case *sql.NullFloat64:
		if !v.Valid {
			return nil, false
		}
		return v.Float64, true
	case *sql.NullString:
		if !v.Valid {
			return nil, false
		}
		return v.String, true
	case *sql.NullBool:
		if !v.Valid {
			return nil, false
		}
		return v.Bool, true
	case *sql.NullTime:
		if !v.Valid {
			return nil, false
		}
		return v.Time, true
	case *[]byte:
		if *v == nil {
			return nil, false
		}
		return *v, true
	case *any:
		if *v == nil {
			return nil, false
		}
		return *v, true
	default:
		return nil, false
	}
}
