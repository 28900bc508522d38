package loam

import (
	"context"
	"fmt"
	"time"

	"github.com/loamdb/loam/adapter"
	"github.com/loamdb/loam/query"
	"github.com/loamdb/loam/schema"
)

// preload populates the association slots q.Preloads requests on every
// row's primary entity. Associations are processed sequentially in request
// order; each one costs a single secondary fetch through All (recursively,
// so the secondary query is normalized, validated, and error-wrapped like
// any other read).
//
// Row count and order are always preserved. A row whose association
// matched nothing keeps an empty placeholder: an empty non-nil slice for
// has-many slots, nil for has-one and belongs-to slots.
func (r *Repo) preload(ctx context.Context, q query.Query, rows []adapter.Row) ([]adapter.Row, error) {
	if len(rows) == 0 {
		return rows, nil
	}

	proto := q.From.Model
	for _, name := range q.Preloads {
		assoc, ok := proto.Association(name)
		if !ok {
			return nil, &query.ValidationError{
				Source: q.From.Source,
				Clause: "preload",
				Reason: fmt.Sprintf("no association %q declared on %q", name, proto.Source()),
			}
		}
		var err error
		rows, err = r.preloadAssociation(ctx, q.From.Source, assoc, rows)
		if err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// preloadAssociation fetches the entities related through one association
// and splices them into each row's primary entity.
func (r *Repo) preloadAssociation(ctx context.Context, source string, assoc schema.Association, rows []adapter.Row) ([]adapter.Row, error) {
	if assoc.Target == nil {
		return nil, &query.ValidationError{
			Source: source,
			Clause: "preload",
			Reason: fmt.Sprintf("association %q has no target", assoc.Name),
		}
	}

	keys := ownerKeys(rows, assoc.OwnerKey)

	// related entities grouped by the key that ties them to their owner
	groups := make(map[any][]schema.Model, len(keys))
	if len(keys) > 0 {
		base, err := query.Resolve(query.Entity{Model: assoc.Target()})
		if err != nil {
			return nil, err
		}
		fetched, err := r.All(ctx, base.Where(query.In{Field: assoc.RelatedKey, Values: keys}))
		if err != nil {
			return nil, err
		}
		for _, row := range fetched {
			related := row.Entity()
			if related == nil {
				continue
			}
			key := lookupKey(related.Value(assoc.RelatedKey))
			if key == nil {
				continue
			}
			groups[key] = append(groups[key], related)
		}
	}

	out := make([]adapter.Row, len(rows))
	for i, row := range rows {
		owner := row.Entity()
		if owner == nil {
			out[i] = row
			continue
		}
		out[i] = row.WithSlot(row.Primary, splice(owner, assoc, groups))
	}
	return out, nil
}

// splice returns the owner with its association slot filled from groups.
func splice(owner schema.Model, assoc schema.Association, groups map[any][]schema.Model) schema.Model {
	group := groups[lookupKey(owner.Value(assoc.OwnerKey))]

	if assoc.Kind == schema.HasMany {
		if group == nil {
			group = []schema.Model{}
		}
		return owner.With(assoc.Name, group)
	}
	if len(group) == 0 {
		return owner.With(assoc.Name, nil)
	}
	return owner.With(assoc.Name, group[0])
}

// ownerKeys collects the distinct owner-side key values across rows,
// preserving first-seen order for a deterministic secondary query.
func ownerKeys(rows []adapter.Row, field string) []any {
	seen := make(map[any]bool, len(rows))
	keys := make([]any, 0, len(rows))
	for _, row := range rows {
		owner := row.Entity()
		if owner == nil {
			continue
		}
		key := lookupKey(owner.Value(field))
		if key == nil || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys
}

// lookupKey normalizes a key value for grouping. Integer kinds collapse to
// int64 and float32 to float64, so a key written as int matches the same
// key decoded from the backend as int64. Values that cannot serve as map
// keys normalize to nil and drop out of the preload.
func lookupKey(v any) any {
	switch k := v.(type) {
	case int64, float64, string, bool, time.Time:
		return k
	case int:
		return int64(k)
	case int8:
		return int64(k)
	case int16:
		return int64(k)
	case int32:
		return int64(k)
	case uint:
		return int64(k)
	case uint8:
		return int64(k)
	case uint16:
		return int64(k)
	case uint32:
		return int64(k)
	case uint64:
		return int64(k)
	case float32:
		return float64(k)
	case []byte:
		return string(k)
	default:
		return nil
	}
}
