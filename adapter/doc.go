// Package adapter defines the contract between repositories and
// database-specific backends.
//
// A repository never speaks SQL (or any other query language) itself. It
// normalizes and validates queries, then hands them to an Adapter, which
// owns statement generation, parameter binding, and result decoding for
// one backend. The engine treats every adapter identically; swapping
// backends is a configuration change, not a code change.
//
// # Contract
//
// Adapters are stateful: Start opens the connection described by Options,
// Stop releases it. Between those calls the read and write methods may be
// used from multiple goroutines; implementations guard shared state.
//
// Read results come back as Rows rather than raw column tuples. Each Row
// holds named entity slots: the primary slot carries an entity of the
// queried source, and additional slots carry related entities when a query
// fetched more than one source at a time. Slot names make multi-source
// rows self-describing; callers never depend on positional layout.
//
// Write methods report raw affected counts. Deciding whether a count is
// acceptable (for example, that updating one entity touched exactly one
// row) is repository policy, not adapter policy.
//
// # Registration
//
// Backend packages register a constructor under a short name from their
// init function, mirroring database/sql driver registration:
//
//	func init() {
//		adapter.Register("sqlite", func() adapter.Adapter { return New() })
//	}
//
// Importing a backend package for side effects is enough to make it
// available to repositories by name.
package adapter
