package surreal

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loamdb/loam/query"
	"github.com/loamdb/loam/schema"
)

func TestBuildStatements(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	cases := []struct {
		name  string
		build func(t *testing.T) (string, map[string]any, error)
		vars  map[string]any
	}{
		{
			name: "select_identity",
			build: func(t *testing.T) (string, map[string]any, error) {
				return buildSelect(normalized(t, postQuery(t)))
			},
			vars: map[string]any{"tb": "posts"},
		},
		{
			name: "select_filtered",
			build: func(t *testing.T) (string, map[string]any, error) {
				q := postQuery(t).
					Where(query.Cmp{Field: "views", Op: query.OpGte, Value: 5}).
					OrderBy("views", query.DirDesc).
					WithLimit(3).
					WithOffset(6)
				return buildSelect(normalized(t, q))
			},
			vars: map[string]any{"tb": "posts", "w0": 5, "limit": 3, "start": 6},
		},
		{
			name: "select_projected",
			build: func(t *testing.T) (string, map[string]any, error) {
				return buildSelect(normalized(t, postQuery(t).SelectFields("id", "title")))
			},
			vars: map[string]any{"tb": "posts"},
		},
		{
			name: "select_by_key",
			build: func(t *testing.T) (string, map[string]any, error) {
				q := postQuery(t).Where(query.Cmp{Field: "id", Op: query.OpEq, Value: 7})
				return buildSelect(normalized(t, q))
			},
			vars: map[string]any{"tb": "posts", "w0": 7},
		},
		{
			name: "select_composite",
			build: func(t *testing.T) (string, map[string]any, error) {
				q := postQuery(t).
					Where(query.Or{
						Left:  query.Cmp{Field: "title", Op: query.OpEq, Value: "a"},
						Right: query.Not{Expr: query.In{Field: "views", Values: []any{1, 2}}},
					}).
					Where(query.Cmp{Field: "rating", Op: query.OpNotEq, Value: nil})
				return buildSelect(normalized(t, q))
			},
			vars: map[string]any{"tb": "posts", "w0": "a", "w1": 1, "w2": 2},
		},
		{
			name: "select_keys_in",
			build: func(t *testing.T) (string, map[string]any, error) {
				q := postQuery(t).Where(query.In{Field: "id", Values: []any{7, "posts:9"}})
				return buildSelect(normalized(t, q))
			},
			vars: map[string]any{"tb": "posts", "w0": 7, "w1": "9"},
		},
		{
			name: "select_grouped",
			build: func(t *testing.T) (string, map[string]any, error) {
				q := postQuery(t).SelectFields("published").GroupBy("published")
				return buildSelect(normalized(t, q))
			},
			vars: map[string]any{"tb": "posts"},
		},
		{
			name: "select_empty_in",
			build: func(t *testing.T) (string, map[string]any, error) {
				return buildSelect(normalized(t, postQuery(t).Where(query.In{Field: "views"})))
			},
			vars: map[string]any{"tb": "posts"},
		},
		{
			name: "create_generated_key",
			build: func(t *testing.T) (string, map[string]any, error) {
				stmt, vars, _, err := buildCreate(noteDef.MustNew(map[string]any{"body": "hello"}))
				return stmt, vars, err
			},
			vars: map[string]any{"tb": "notes", "set_body": "hello"},
		},
		{
			name: "create_explicit_key",
			build: func(t *testing.T) (string, map[string]any, error) {
				m := noteDef.MustNew(map[string]any{"key": "notes:k1", "body": "hello"})
				stmt, vars, _, err := buildCreate(m)
				return stmt, vars, err
			},
			vars: map[string]any{"tb": "notes", "id": "k1", "set_body": "hello"},
		},
		{
			name: "update_entity",
			build: func(t *testing.T) (string, map[string]any, error) {
				m := postDef.MustNew(map[string]any{"id": 7, "title": "revised"})
				return buildUpdateEntity(m)
			},
			vars: map[string]any{"tb": "posts", "id": 7, "set_title": "revised"},
		},
		{
			name: "delete_entity",
			build: func(t *testing.T) (string, map[string]any, error) {
				return buildDeleteEntity(postDef.MustNew(map[string]any{"id": 7}))
			},
			vars: map[string]any{"tb": "posts", "id": 7},
		},
		{
			name: "update_all",
			build: func(t *testing.T) (string, map[string]any, error) {
				q := bareQuery(t, "posts").
					Where(query.Cmp{Field: "published", Op: query.OpEq, Value: false})
				assigns := []query.Assign{{Field: "title", Value: "archived"}}
				return buildUpdateAll(normalized(t, q, query.SkipSelect()), assigns)
			},
			vars: map[string]any{"tb": "posts", "w0": false, "set_title": "archived"},
		},
		{
			name: "delete_all",
			build: func(t *testing.T) (string, map[string]any, error) {
				q := bareQuery(t, "posts").
					Where(query.Cmp{Field: "views", Op: query.OpLt, Value: 10})
				return buildDeleteAll(normalized(t, q, query.SkipSelect()))
			},
			vars: map[string]any{"tb": "posts", "w0": 10},
		},
		{
			name: "delete_all_unfiltered",
			build: func(t *testing.T) (string, map[string]any, error) {
				return buildDeleteAll(normalized(t, bareQuery(t, "posts"), query.SkipSelect()))
			},
			vars: map[string]any{"tb": "posts"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stmt, vars, err := tc.build(t)
			require.NoError(t, err)

			g.Assert(t, tc.name, []byte(stmt))
			assert.Equal(t, tc.vars, vars)
		})
	}
}

func TestBuildCreateGeneratedKeyFlag(t *testing.T) {
	_, _, genKey, err := buildCreate(noteDef.MustNew(map[string]any{"body": "x"}))
	require.NoError(t, err)
	assert.True(t, genKey, "unset string key is assigned by the server")

	_, _, genKey, err = buildCreate(noteDef.MustNew(map[string]any{"key": "k1"}))
	require.NoError(t, err)
	assert.False(t, genKey, "explicit key is never regenerated")
}

func TestBuildCreateRejectsUnsetIntegerKey(t *testing.T) {
	_, _, _, err := buildCreate(postDef.MustNew(map[string]any{"title": "x"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot generate a integer key")
}

func TestBuildSelectRejectsHaving(t *testing.T) {
	q := postQuery(t).
		GroupBy("published").
		Having(query.Cmp{Field: "views", Op: query.OpGt, Value: 1})
	_, _, err := buildSelect(normalized(t, q))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "having clauses are not supported")
}

func TestBuildCmpNilOrderedOperand(t *testing.T) {
	b := newBuilder("posts", "id")
	_, err := b.cmp(query.Cmp{Field: "views", Op: query.OpGte, Value: nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil operand")
}

func TestBuildUpdateAllRequiresAssignments(t *testing.T) {
	q := normalized(t, bareQuery(t, "posts"), query.SkipSelect())
	_, _, err := buildUpdateAll(q, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without assignments")
}

func TestBuildUpdateEntityRequiresNonKeyFields(t *testing.T) {
	soloDef := schema.NewDefinition("counters").
		Field("id", schema.TypeInteger).
		PrimaryKey("id").
		MustBuild()

	_, _, err := buildUpdateEntity(soloDef.MustNew(map[string]any{"id": 1}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no non-key fields")
}

func TestStripRecordKey(t *testing.T) {
	assert.Equal(t, "k1", stripRecordKey("notes", "notes:k1"))
	assert.Equal(t, "k1", stripRecordKey("notes", "k1"))
	assert.Equal(t, 7, stripRecordKey("posts", 7))
	assert.Equal(t, "other:k1", stripRecordKey("notes", "other:k1"))
}
