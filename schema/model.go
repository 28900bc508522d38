package schema

// Model is the reflection contract every persistable entity implements.
//
// The repository engine consumes entities exclusively through this
// interface. All methods are total: they return zero values for
// inapplicable inputs rather than failing. Entity values are immutable;
// With returns a modified copy and leaves the receiver untouched.
type Model interface {
	// Source returns the physical source (table or collection) name the
	// entity maps to.
	Source() string

	// PrimaryKey returns the primary-key field name, or "" when the
	// entity type declares none.
	PrimaryKey() string

	// FieldNames returns the declared data fields in declaration order.
	FieldNames() []string

	// FieldType returns the declared type of a field, or TypeInvalid for
	// a field the entity does not declare.
	FieldType(name string) Type

	// Value returns the current value of a field or association slot, or
	// nil when unset or undeclared.
	Value(name string) any

	// With returns a copy of the entity with one field or association
	// slot replaced.
	With(name string, value any) Model

	// Association returns the association declared under name and
	// whether one exists.
	Association(name string) (Association, bool)
}

// AssociationKind selects the key direction and slot shape of an
// association.
type AssociationKind int

const (
	// BelongsTo: the owning entity carries the key; the slot holds one
	// related entity or nil.
	BelongsTo AssociationKind = iota

	// HasOne: the related entity carries the key; the slot holds one
	// related entity or nil.
	HasOne

	// HasMany: the related entity carries the key; the slot holds a list
	// of related entities, empty when none match.
	HasMany
)

func (k AssociationKind) String() string {
	switch k {
	case BelongsTo:
		return "belongs_to"
	case HasOne:
		return "has_one"
	case HasMany:
		return "has_many"
	default:
		return "invalid"
	}
}

// Association describes a named link from an owning entity type to a
// related entity type. The preloader resolves it into a secondary query:
// fetch related entities whose RelatedKey value appears among the owners'
// OwnerKey values, then splice them into the slot named Name.
type Association struct {
	// Name is the slot on the owning entity the related entities are
	// spliced into.
	Name string

	// Kind selects the key direction and slot shape.
	Kind AssociationKind

	// Target returns a prototype of the related entity. It is a
	// constructor rather than a value so mutually associated types can
	// reference one another.
	Target func() Model

	// OwnerKey is the field on the owning entity whose values key the
	// secondary fetch.
	OwnerKey string

	// RelatedKey is the field on the related entity matched against the
	// collected owner key values.
	RelatedKey string
}
