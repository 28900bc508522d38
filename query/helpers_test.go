package query

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loamdb/loam/schema"
)

// postDefinition declares the entity most tests query against.
func postDefinition(t *testing.T) *schema.Definition {
	t.Helper()
	def, err := schema.NewDefinition("posts").
		Field("id", schema.TypeInteger).
		Field("title", schema.TypeString).
		Field("views", schema.TypeInteger).
		Field("rating", schema.TypeFloat).
		Field("published", schema.TypeBool).
		PrimaryKey("id").
		Association(schema.Association{
			Name:       "comments",
			Kind:       schema.HasMany,
			Target:     func() schema.Model { return commentDefinition(t).Prototype() },
			OwnerKey:   "id",
			RelatedKey: "post_id",
		}).
		Build()
	require.NoError(t, err)
	return def
}

func commentDefinition(t *testing.T) *schema.Definition {
	t.Helper()
	def, err := schema.NewDefinition("comments").
		Field("id", schema.TypeInteger).
		Field("post_id", schema.TypeInteger).
		Field("body", schema.TypeString).
		PrimaryKey("id").
		Build()
	require.NoError(t, err)
	return def
}

func postQuery(t *testing.T) Query {
	t.Helper()
	q, err := Resolve(Entity{Model: postDefinition(t).Prototype()})
	require.NoError(t, err)
	return q
}
