// Package schema defines the reflection contract entity types expose to the
// repository engine, the semantic type system used for compatibility checks,
// and a builder for assembling entity definitions at runtime.
//
// The engine never inspects Go structs directly. Every persistable entity
// implements Model, a small interface answering schema questions: physical
// source, primary key, declared fields and their types, current field
// values. Entity values are immutable; With returns a modified copy.
//
// Two implementation paths exist:
//   - Hand-written: a struct type implements Model directly. Failing to
//     implement a method is a compile-time error, never a runtime surprise.
//   - Built: NewDefinition assembles a Definition, and Definition.New
//     produces Record values backed by it. Adequate for tests, tooling, and
//     schemas only known at runtime.
//
// Type compatibility is a widening relation, not equality. An integer
// literal may be stored in a float column, a nil value in any column, and a
// primary-key field is exempt from the check entirely. See Compatible.
package schema
