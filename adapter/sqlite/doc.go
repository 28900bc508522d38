// Package sqlite implements the adapter contract on SQLite via
// mattn/go-sqlite3.
//
// Options.Database is the database file path; ":memory:" opens an
// in-memory database. Host, Port, and credentials are meaningless for a
// file database and are ignored.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds (override with
//     the busy_timeout URL parameter)
//   - foreign_keys=ON: enforce referential integrity
//
// The connection pool is capped at a single connection. SQLite allows one
// writer at a time; a second connection would surface SQLITE_BUSY instead
// of queueing, and for in-memory databases it would silently open a second
// empty database.
//
// # Statement Generation
//
// Statements are compiled from query values by a type switch over the
// sealed expression union. Every literal is bound as a ? parameter, never
// interpolated. Identifiers are double-quoted.
//
// NULL columns load as unset fields (nil values), and unset fields write
// as NULL. Integer columns load as int64. An unset integer primary key is
// omitted from inserts so SQLite assigns it; the assigned value is read
// back with LastInsertId.
package sqlite
