package adapter

import "github.com/loamdb/loam/schema"

// Row is one result produced by Adapter.All. Entities are keyed by slot
// name: Primary names the slot holding the queried source's entity, and
// any further slots hold entities of related sources fetched alongside it.
type Row struct {
	Primary string
	Slots   map[string]schema.Model
}

// NewRow builds a single-slot row holding entity under name.
func NewRow(name string, entity schema.Model) Row {
	return Row{
		Primary: name,
		Slots:   map[string]schema.Model{name: entity},
	}
}

// Entity returns the entity in the primary slot, or nil when the slot is
// absent.
func (r Row) Entity() schema.Model {
	return r.Slots[r.Primary]
}

// WithSlot returns a copy of the row with entity stored under name. The
// receiver is unchanged.
func (r Row) WithSlot(name string, entity schema.Model) Row {
	slots := make(map[string]schema.Model, len(r.Slots)+1)
	for k, v := range r.Slots {
		slots[k] = v
	}
	slots[name] = entity
	return Row{Primary: r.Primary, Slots: slots}
}
