package schema

// ValidateEntity checks every declared field of an entity against the
// entity's own schema. A field/value pair is valid when the field is the
// primary key, the value infers as untyped, or the inferred type is
// compatible with the declared type. The first failing pair is returned as
// an InvalidEntityError.
//
// ValidateEntity is a pure function with no side effects.
func ValidateEntity(m Model) error {
	pk := m.PrimaryKey()
	for _, field := range m.FieldNames() {
		if field == pk {
			continue
		}
		inferred := Infer(m.Value(field))
		if inferred == TypeUntyped {
			continue
		}
		if declared := m.FieldType(field); !Compatible(inferred, declared) {
			return &InvalidEntityError{
				Source:   m.Source(),
				Field:    field,
				Inferred: inferred,
				Expected: declared,
			}
		}
	}
	return nil
}
