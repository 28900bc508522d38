// Package surreal implements the adapter contract on SurrealDB over its
// WebSocket RPC API.
//
// Options map to the connection like so: Host and Port name the server
// (port defaults to 8000), Database selects the SurrealDB database, and
// the namespace URL parameter selects the namespace (default "loam").
// Credentials sign in as a root user when a username is present.
//
// # Statement Generation
//
// Statements are compiled from query values into SurrealQL with named
// variables; literals are never interpolated. Tables are addressed with
// type::table($tb) and records with type::thing($tb, $id).
//
// The entity's primary key field maps to the record id: it is written as
// the record address rather than a SET field, compared in where clauses
// through type::thing, and read back from the record's id. A string
// primary key loads in table:key form; creating an entity with an unset
// string key returns the key SurrealDB generated. SurrealDB cannot
// generate integer keys, so creating with an unset integer key fails.
//
// Unset fields are omitted from writes (absent fields are NONE, which is
// also how nil equality compares). Update and delete statements return
// the touched records (RETURN BEFORE for deletes); affected counts are
// the length of that result.
//
// Having clauses have no SurrealQL equivalent and fail compilation.
package surreal
