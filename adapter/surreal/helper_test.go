package surreal

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loamdb/loam/query"
	"github.com/loamdb/loam/schema"
)

var postDef = schema.NewDefinition("posts").
	Field("id", schema.TypeInteger).
	Field("title", schema.TypeString).
	Field("views", schema.TypeInteger).
	Field("rating", schema.TypeFloat).
	Field("published", schema.TypeBool).
	PrimaryKey("id").
	MustBuild()

var noteDef = schema.NewDefinition("notes").
	Field("key", schema.TypeString).
	Field("body", schema.TypeString).
	PrimaryKey("key").
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
