// Package loam is a repository execution engine: entities described
// through a reflection contract are read and written through a uniform
// repository surface, while storage mechanics live in swappable backend
// adapters.
//
// ARCHITECTURE:
//
// A Repo is one running binding to one backend. Every operation follows
// the same pipeline:
//
//	[queryable] → resolve → normalize → validate → [adapter] → interpret → (preload)
//
// Resolution turns any admissible input (a query value, a source name, an
// entity prototype) into a structured query. Normalization canonicalizes
// it. Validation checks it against the entity's declared schema before
// anything reaches the backend, so a locally invalid query never causes a
// partial write. The adapter executes it; the engine interprets counts and
// row shapes, enforcing the single-row guarantees the backend cannot.
//
// OPERATIONS:
//
//   - Get fetches one entity by integer primary key; zero matches is
//     (nil, nil), more than one is a NotSingleResultError.
//   - All fetches every matching row and preloads requested associations.
//   - Create inserts an entity and folds a backend-generated key into the
//     returned value.
//   - Update and Delete write one entity by its primary key and require
//     exactly one affected row.
//   - UpdateAll and DeleteAll are bulk forms returning raw counts.
//
// STARTUP:
//
// A Repo starts from a Binding: a name, a loam:// connection URL, and an
// adapter name resolved through the adapter registry. Bindings come either
// from code or from a YAML config file loaded with LoadConfig; Config
// validates every binding before any connection is attempted. Start opens
// one binding, StartBinding picks one out of a config by name.
//
// CONCURRENCY:
//
// A Repo holds no per-call mutable state; any number of goroutines may
// share one. The engine adds no retries, timeouts, or buffering: blocking
// and cancellation live inside the adapter the context is handed to.
//
// ERRORS:
//
// Every failure mode is a typed error with an errors.As predicate:
// query.NotQueryableError, query.ValidationError, schema.NoPrimaryKeyError,
// schema.InvalidEntityError, AdapterError, NotSingleResultError,
// InvalidURLError. Backend errors always surface wrapped in AdapterError;
// adapters never leak their own error types across the boundary.
package loam
