package adapter

import (
	"context"

	"github.com/loamdb/loam/query"
	"github.com/loamdb/loam/schema"
)

// Options carries the connection settings an adapter needs to start.
// Repositories fill it from a parsed connection URL. Params holds
// adapter-specific settings the URL carried as query parameters; adapters
// ignore keys they do not recognize.
type Options struct {
	Username string
	Password string
	Host     string
	Port     int
	Database string
	Params   map[string]string
}

// Adapter is implemented by every storage backend.
//
// Queries passed to All, UpdateAll, and DeleteAll are already normalized
// and validated by the repository; adapters may assume the query's From
// names a source and that every referenced field exists on its schema.
// Entities passed to Create, Update, and Delete likewise arrive
// validated against their declared field types.
type Adapter interface {
	// Name reports the name the adapter registered under, e.g. "sqlite".
	Name() string

	// Start opens the connection described by opts. Calling any other
	// method before a successful Start is a programming error.
	Start(ctx context.Context, opts Options) error

	// Stop releases the connection. Safe to call on a never-started or
	// already-stopped adapter.
	Stop(ctx context.Context) error

	// All executes a read query and returns the matching rows in
	// backend order.
	All(ctx context.Context, q query.Query) ([]Row, error)

	// Create inserts the entity and returns the primary key value the
	// backend assigned, or nil when the entity supplied its own key (or
	// declares none).
	Create(ctx context.Context, model schema.Model) (any, error)

	// Update writes the entity's non-key fields to the row matching its
	// primary key and returns the number of rows affected.
	Update(ctx context.Context, model schema.Model) (int64, error)

	// UpdateAll applies the assignments to every row matching the query
	// and returns the number of rows affected.
	UpdateAll(ctx context.Context, q query.Query, assigns []query.Assign) (int64, error)

	// Delete removes the row matching the entity's primary key and
	// returns the number of rows affected.
	Delete(ctx context.Context, model schema.Model) (int64, error)

	// DeleteAll removes every row matching the query and returns the
	// number of rows affected.
	DeleteAll(ctx context.Context, q query.Query) (int64, error)
}
