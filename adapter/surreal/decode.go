package surreal

import (
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/loamdb/loam/schema"
)

// decodeEnvelope walks the per-statement results, failing on the first
// non-OK status, and concatenates the returned records.
func decodeEnvelope(res *[]surrealdb.QueryResult[[]map[string]any]) ([]map[string]any, error) {
	if res == nil {
		return nil, nil
	}

	var records []map[string]any
	for _, r := range *res {
		if r.Status != statusOK {
			if r.Error != nil {
				return nil, fmt.Errorf("statement failed: %s", r.Error.Message)
			}
			return nil, fmt.Errorf("statement failed with status %q", r.Status)
		}
		records = append(records, r.Result...)
	}
	return records, nil
}

// decodeEntity rebuilds an entity of the prototype's type from one result
// record. fields lists the entity fields to read; the primary key field
// reads from the record id.
func decodeEntity(proto schema.Model, fields []string, record map[string]any) schema.Model {
	pk := proto.PrimaryKey()

	entity := proto
	for _, f := range fields {
		name := f
		if pk != "" && f == pk {
			name = "id"
		}
		value, ok := fieldValue(proto.FieldType(f), record[name])
		if !ok {
			continue
		}
		entity = entity.With(f, value)
	}
	return entity
}

// fieldValue converts one wire value to the declared field type. ok is
// false for absent values and unconvertible shapes; those fields stay
// unset.
func fieldValue(t schema.Type, raw any) (any, bool) {
	if raw == nil {
		return nil, false
	}

	switch t {
	case schema.TypeInteger:
		return coerceInt(raw)

	case schema.TypeFloat:
		switch v := raw.(type) {
		case float64:
			return v, true
		case float32:
			return float64(v), true
		case int64:
			return float64(v), true
		case uint64:
			return float64(v), true
		case int:
			return float64(v), true
		}
		return nil, false

	case schema.TypeString:
		switch v := raw.(type) {
		case string:
			return v, true
		case models.RecordID:
			return v.String(), true
		case *models.RecordID:
			if v != nil {
				return v.String(), true
			}
		}
		return nil, false

	case schema.TypeBool:
		if v, ok := raw.(bool); ok {
			return v, true
		}
		return nil, false

	case schema.TypeTime:
		switch v := raw.(type) {
		case time.Time:
			return v, true
		case models.CustomDateTime:
			return v.Time, true
		case *models.CustomDateTime:
			if v != nil {
				return v.Time, true
			}
		case string:
			if parsed, err := time.Parse(time.RFC3339Nano, v); err == nil {
				return parsed, true
			}
			if parsed, err := time.Parse(time.RFC3339, v); err == nil {
				return parsed, true
			}
		}
		return nil, false

	case schema.TypeBinary:
		if v, ok := raw.([]byte); ok {
			return v, true
		}
		return nil, false

	default:
		return raw, true
	}
}

// coerceInt normalizes the integer shapes CBOR decoding produces. Record
// ids unwrap to their key part.
func coerceInt(raw any) (any, bool) {
	switch v := raw.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case uint64:
		return int64(v), true
	case float64:
		return int64(v), true
	case models.RecordID:
		return coerceInt(v.ID)
	case *models.RecordID:
		if v != nil {
			return coerceInt(v.ID)
		}
	}
	return nil, false
}
