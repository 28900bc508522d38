package schema

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"golang.org/x/text/unicode/norm"
)

// Definition is the compiled schema of one entity type: its physical
// source, its declared fields and their types, its primary key, and its
// associations. Definitions are built once, typically at package level, and
// shared by every Record of the type.
type Definition struct {
	source string
	fields []string
	types  map[string]Type
	pk     string
	assocs map[string]Association
}

// Source returns the physical source name.
func (d *Definition) Source() string { return d.source }

// PrimaryKey returns the primary-key field name, or "" when none declared.
func (d *Definition) PrimaryKey() string { return d.pk }

// FieldNames returns the declared fields in declaration order.
func (d *Definition) FieldNames() []string { return slices.Clone(d.fields) }

// FieldType returns the declared type of a field, or TypeInvalid for a
// field the definition does not declare.
func (d *Definition) FieldType(name string) Type {
	t, ok := d.types[name]
	if !ok {
		return TypeInvalid
	}
	return t
}

// Association returns the association declared under name.
func (d *Definition) Association(name string) (Association, bool) {
	a, ok := d.assocs[name]
	return a, ok
}

// New constructs a Record carrying the given field values. Field names are
// NFC-normalized; an undeclared name is a construction-time error.
func (d *Definition) New(values map[string]any) (Record, error) {
	vals := make(map[string]any, len(values))
	for name, v := range values {
		name = norm.NFC.String(name)
		if _, ok := d.types[name]; !ok {
			return Record{}, fmt.Errorf("definition %q: unknown field %q", d.source, name)
		}
		vals[name] = v
	}
	return Record{def: d, values: vals}, nil
}

// MustNew is New, panicking on error. For fixtures whose field names are a
// programmer responsibility.
func (d *Definition) MustNew(values map[string]any) Record {
	r, err := d.New(values)
	if err != nil {
		panic(err)
	}
	return r
}

// Prototype returns an empty Record of this definition, usable wherever an
// entity prototype is expected.
func (d *Definition) Prototype() Record { return Record{def: d} }

// A Builder accumulates declarations for a Definition. Start with
// NewDefinition, finish with Build or MustBuild. Problems are collected
// along the way and reported together by Build.
type Builder struct {
	source string
	fields []string
	types  map[string]Type
	pk     string
	assocs []Association
	errs   []error
}

// NewDefinition starts a definition for the given physical source name.
// Source, field, and association names are NFC-normalized as declared.
func NewDefinition(source string) *Builder {
	return &Builder{
		source: norm.NFC.String(source),
		types:  make(map[string]Type),
	}
}

// Field declares a data field with its semantic type. TypeInvalid and
// TypeUntyped are not declarable.
func (b *Builder) Field(name string, t Type) *Builder {
	name = norm.NFC.String(name)
	if _, dup := b.types[name]; dup {
		b.errs = append(b.errs, fmt.Errorf("duplicate field %q", name))
		return b
	}
	if t == TypeInvalid || t == TypeUntyped {
		b.errs = append(b.errs, fmt.Errorf("field %q: type %s is not declarable", name, t))
		return b
	}
	b.fields = append(b.fields, name)
	b.types[name] = t
	return b
}

// PrimaryKey marks a declared field as the primary key.
func (b *Builder) PrimaryKey(name string) *Builder {
	name = norm.NFC.String(name)
	if b.pk != "" && b.pk != name {
		b.errs = append(b.errs, fmt.Errorf("primary key redeclared: %q then %q", b.pk, name))
		return b
	}
	b.pk = name
	return b
}

// Association declares a named association. The owner key must name a
// declared field; the related key's existence on the target is only
// checkable when the preloader builds the secondary query.
func (b *Builder) Association(a Association) *Builder {
	a.Name = norm.NFC.String(a.Name)
	b.assocs = append(b.assocs, a)
	return b
}

// Build compiles the accumulated declarations, reporting every collected
// problem at once.
func (b *Builder) Build() (*Definition, error) {
	errs := slices.Clone(b.errs)
	if b.source == "" {
		errs = append(errs, errors.New("source name is empty"))
	}
	if b.pk != "" {
		if _, ok := b.types[b.pk]; !ok {
			errs = append(errs, fmt.Errorf("primary key %q is not a declared field", b.pk))
		}
	}
	assocs := make(map[string]Association, len(b.assocs))
	for _, a := range b.assocs {
		if err := b.checkAssociation(assocs, a); err != nil {
			errs = append(errs, err)
			continue
		}
		assocs[a.Name] = a
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("definition %q: %w", b.source, errors.Join(errs...))
	}
	return &Definition{
		source: b.source,
		fields: slices.Clone(b.fields),
		types:  maps.Clone(b.types),
		pk:     b.pk,
		assocs: assocs,
	}, nil
}

func (b *Builder) checkAssociation(seen map[string]Association, a Association) error {
	if a.Name == "" {
		return errors.New("association with empty name")
	}
	if _, dup := seen[a.Name]; dup {
		return fmt.Errorf("duplicate association %q", a.Name)
	}
	if _, clash := b.types[a.Name]; clash {
		return fmt.Errorf("association %q collides with a declared field", a.Name)
	}
	if a.Target == nil {
		return fmt.Errorf("association %q has no target", a.Name)
	}
	if _, ok := b.types[a.OwnerKey]; !ok {
		return fmt.Errorf("association %q: owner key %q is not a declared field", a.Name, a.OwnerKey)
	}
	if a.RelatedKey == "" {
		return fmt.Errorf("association %q has no related key", a.Name)
	}
	return nil
}

// MustBuild is Build, panicking on error. Intended for package-level
// definitions whose validity is a programmer responsibility.
func (b *Builder) MustBuild() *Definition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

// Record is a ready-made Model implementation backed by a Definition and a
// value map. It is the builder-pattern counterpart to hand-written entity
// structs. The zero Record is valid and answers every reflection call with
// zero values.
type Record struct {
	def    *Definition
	values map[string]any
}

var _ Model = Record{}

func (r Record) Source() string {
	if r.def == nil {
		return ""
	}
	return r.def.source
}

func (r Record) PrimaryKey() string {
	if r.def == nil {
		return ""
	}
	return r.def.pk
}

func (r Record) FieldNames() []string {
	if r.def == nil {
		return nil
	}
	return r.def.FieldNames()
}

func (r Record) FieldType(name string) Type {
	if r.def == nil {
		return TypeInvalid
	}
	return r.def.FieldType(name)
}

func (r Record) Value(name string) any {
	return r.values[name]
}

// With returns a copy with one field or association slot replaced. Names
// are NFC-normalized; undeclared names are stored as association slots so
// the method stays total.
func (r Record) With(name string, value any) Model {
	vals := make(map[string]any, len(r.values)+1)
	maps.Copy(vals, r.values)
	vals[norm.NFC.String(name)] = value
	return Record{def: r.def, values: vals}
}

func (r Record) Association(name string) (Association, bool) {
	if r.def == nil {
		return Association{}, false
	}
	return r.def.Association(name)
}
