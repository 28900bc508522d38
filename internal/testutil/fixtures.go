// Package testutil carries the fixtures repository tests share: entity
// definitions and a scripted stub adapter.
package testutil

import "github.com/loamdb/loam/schema"

// PostDefinition returns the posts schema most repository tests run
// against: an integer primary key, a spread of field types, and a
// has-many association to comments. Each call builds a fresh definition.
func PostDefinition() *schema.Definition {
	return schema.NewDefinition("posts").
		Field("id", schema.TypeInteger).
		Field("title", schema.TypeString).
		Field("views", schema.TypeInteger).
		Field("rating", schema.TypeFloat).
		Field("published", schema.TypeBool).
		PrimaryKey("id").
		Association(schema.Association{
			Name:       "comments",
			Kind:       schema.HasMany,
			Target:     func() schema.Model { return CommentDefinition().Prototype() },
			OwnerKey:   "id",
			RelatedKey: "post_id",
		}).
		MustBuild()
}

// CommentDefinition returns the comments schema, carrying the belongs-to
// side of the posts association.
func CommentDefinition() *schema.Definition {
	return schema.NewDefinition("comments").
		Field("id", schema.TypeInteger).
		Field("post_id", schema.TypeInteger).
		Field("body", schema.TypeString).
		PrimaryKey("id").
		Association(schema.Association{
			Name:       "post",
			Kind:       schema.BelongsTo,
			Target:     func() schema.Model { return PostDefinition().Prototype() },
			OwnerKey:   "post_id",
			RelatedKey: "id",
		}).
		MustBuild()
}

// KeylessDefinition returns a schema declaring no primary key, for tests
// exercising the no-primary-key failure paths.
func KeylessDefinition() *schema.Definition {
	return schema.NewDefinition("audit_entries").
		Field("event", schema.TypeString).
		Field("at", schema.TypeTime).
		MustBuild()
}
