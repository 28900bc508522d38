package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loamdb/loam/adapter"
	"github.com/loamdb/loam/query"
	"github.com/loamdb/loam/schema"
)

var postDef = schema.NewDefinition("posts").
	Field("id", schema.TypeInteger).
	Field("title", schema.TypeString).
	Field("views", schema.TypeInteger).
	Field("rating", schema.TypeFloat).
	Field("published", schema.TypeBool).
	Field("created_at", schema.TypeTime).
	PrimaryKey("id").
	MustBuild()

func postQuery(t *testing.T) query.Query {
	t.Helper()
	q, err := query.Resolve(query.Entity{Model: postDef.Prototype()})
	require.NoError(t, err)
	return q
}

func bareQuery(t *testing.T, source string) query.Query {
	t.Helper()
	q, err := query.Resolve(query.Source(source))
	require.NoError(t, err)
	return q
}

func normalized(t *testing.T, q query.Query, opts ...query.Option) query.Query {
	t.Helper()
	n, err := query.Normalize(q, opts...)
	require.NoError(t, err)
	return n
}

// startedAdapter opens an in-memory database with a posts table matching
// postDef.
func startedAdapter(t *testing.T) *Adapter {
	t.Helper()

	a := New()
	require.NoError(t, a.Start(context.Background(), adapter.Options{Database: ":memory:"}))
	t.Cleanup(func() { _ = a.Stop(context.Background()) })

	_, err := a.db.Exec(`CREATE TABLE posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT,
		views INTEGER,
		rating REAL,
		published BOOLEAN,
		created_at DATETIME
	)`)
	require.NoError(t, err)
	return a
}
