package sqlite

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loamdb/loam/query"
	"github.com/loamdb/loam/schema"
)

func TestCompileStatements(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	cases := []struct {
		name    string
		compile func(t *testing.T) (string, []any, error)
		params  []any
	}{
		{
			name: "all_identity",
			compile: func(t *testing.T) (string, []any, error) {
				return compileAll(normalized(t, postQuery(t)))
			},
		},
		{
			name: "all_filtered",
			compile: func(t *testing.T) (string, []any, error) {
				q := postQuery(t).
					Where(query.Cmp{Field: "title", Op: query.OpEq, Value: "intro"}).
					Where(query.Cmp{Field: "views", Op: query.OpGt, Value: 10}).
					SelectFields("id", "title").
					OrderBy("views", query.DirDesc).
					OrderBy("id", query.DirAsc).
					WithLimit(5).
					WithOffset(2)
				return compileAll(normalized(t, q))
			},
			params: []any{"intro", 10, 5, 2},
		},
		{
			name: "all_composite",
			compile: func(t *testing.T) (string, []any, error) {
				q := postQuery(t).
					Where(query.Or{
						Left:  query.Cmp{Field: "title", Op: query.OpEq, Value: "a"},
						Right: query.Not{Expr: query.In{Field: "views", Values: []any{1, 2, 3}}},
					}).
					Where(query.Cmp{Field: "rating", Op: query.OpEq, Value: nil})
				return compileAll(normalized(t, q))
			},
			params: []any{"a", 1, 2, 3},
		},
		{
			name: "all_grouped",
			compile: func(t *testing.T) (string, []any, error) {
				q := postQuery(t).
					SelectFields("published").
					GroupBy("published").
					Having(query.Cmp{Field: "views", Op: query.OpGte, Value: 100})
				return compileAll(normalized(t, q))
			},
			params: []any{100},
		},
		{
			name: "all_empty_in",
			compile: func(t *testing.T) (string, []any, error) {
				q := postQuery(t).Where(query.In{Field: "views"})
				return compileAll(normalized(t, q))
			},
		},
		{
			name: "insert_generated_key",
			compile: func(t *testing.T) (string, []any, error) {
				m := postDef.MustNew(map[string]any{"title": "intro", "views": 3})
				stmt, params, _ := compileInsert(m)
				return stmt, params, nil
			},
			params: []any{"intro", 3, nil, nil, nil},
		},
		{
			name: "insert_explicit_key",
			compile: func(t *testing.T) (string, []any, error) {
				m := postDef.MustNew(map[string]any{"id": 7, "title": "intro"})
				stmt, params, _ := compileInsert(m)
				return stmt, params, nil
			},
			params: []any{7, "intro", nil, nil, nil, nil},
		},
		{
			name: "update_entity",
			compile: func(t *testing.T) (string, []any, error) {
				m := postDef.MustNew(map[string]any{"id": 7, "title": "revised", "views": 9})
				return compileUpdateEntity(m)
			},
			params: []any{"revised", 9, nil, nil, nil, 7},
		},
		{
			name: "delete_entity",
			compile: func(t *testing.T) (string, []any, error) {
				m := postDef.MustNew(map[string]any{"id": 7})
				return compileDeleteEntity(m)
			},
			params: []any{7},
		},
		{
			name: "update_all",
			compile: func(t *testing.T) (string, []any, error) {
				q := bareQuery(t, "posts").
					Where(query.Cmp{Field: "published", Op: query.OpEq, Value: false})
				assigns := []query.Assign{
					{Field: "title", Value: "archived"},
					{Field: "views", Value: 0},
				}
				return compileUpdateAll(normalized(t, q, query.SkipSelect()), assigns)
			},
			params: []any{"archived", 0, false},
		},
		{
			name: "delete_all",
			compile: func(t *testing.T) (string, []any, error) {
				q := bareQuery(t, "posts").
					Where(query.Cmp{Field: "views", Op: query.OpLt, Value: 10})
				return compileDeleteAll(normalized(t, q, query.SkipSelect()))
			},
			params: []any{10},
		},
		{
			name: "delete_all_unfiltered",
			compile: func(t *testing.T) (string, []any, error) {
				return compileDeleteAll(normalized(t, bareQuery(t, "posts"), query.SkipSelect()))
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stmt, params, err := tc.compile(t)
			require.NoError(t, err)

			g.Assert(t, tc.name, []byte(stmt))
			assert.Equal(t, tc.params, params)
		})
	}
}

func TestCompileInsertGeneratedKeyFlag(t *testing.T) {
	_, _, genKey := compileInsert(postDef.MustNew(map[string]any{"title": "a"}))
	assert.True(t, genKey, "unset integer key should be generated")

	_, _, genKey = compileInsert(postDef.MustNew(map[string]any{"id": 3, "title": "a"}))
	assert.False(t, genKey, "explicit key is never regenerated")

	tagDef := schema.NewDefinition("tags").
		Field("name", schema.TypeString).
		PrimaryKey("name").
		MustBuild()
	_, _, genKey = compileInsert(tagDef.Prototype())
	assert.False(t, genKey, "string keys are not generated by sqlite")
}

func TestCompileCmpNilOperand(t *testing.T) {
	frag, params, err := compileCmp(query.Cmp{Field: "title", Op: query.OpNotEq, Value: nil})
	require.NoError(t, err)
	assert.Equal(t, `"title" IS NOT NULL`, frag)
	assert.Empty(t, params)

	_, _, err = compileCmp(query.Cmp{Field: "views", Op: query.OpLt, Value: nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil operand")
}

func TestCompileEmptyConjunction(t *testing.T) {
	frag, params, err := compileExpr(query.And{})
	require.NoError(t, err)
	assert.Equal(t, "1 = 1", frag)
	assert.Empty(t, params)
}

func TestCompileUpdateEntityRequiresNonKeyFields(t *testing.T) {
	soloDef := schema.NewDefinition("counters").
		Field("id", schema.TypeInteger).
		PrimaryKey("id").
		MustBuild()

	_, _, err := compileUpdateEntity(soloDef.MustNew(map[string]any{"id": 1}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no non-key fields")
}

func TestCompileUpdateAllRequiresAssignments(t *testing.T) {
	q := normalized(t, bareQuery(t, "posts"), query.SkipSelect())
	_, _, err := compileUpdateAll(q, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without assignments")
}

func TestSelectedFieldsRequiresModelForIdentity(t *testing.T) {
	q := normalized(t, bareQuery(t, "posts"), query.SkipSelect())
	_, err := selectedFields(q)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "binds no entity type")
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"title"`, quoteIdent("title"))
	assert.Equal(t, `"odd""name"`, quoteIdent(`odd"name`))
}
