package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loamdb/loam/adapter"
	"github.com/loamdb/loam/query"
)

func TestStubRecordsCallsInOrder(t *testing.T) {
	stub := &StubAdapter{}
	ctx := context.Background()

	require.NoError(t, stub.Start(ctx, adapter.Options{Database: "app"}))
	assert.True(t, stub.Started())

	q := query.Query{From: query.From{Source: "posts"}}
	_, err := stub.All(ctx, q)
	require.NoError(t, err)

	affected, err := stub.Delete(ctx, PostDefinition().MustNew(map[string]any{"id": 1}))
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected, "unscripted single-entity writes succeed")

	require.NoError(t, stub.Stop(ctx))
	assert.False(t, stub.Started())

	assert.Equal(t, []string{"start", "all", "delete", "stop"}, stub.Ops())
	assert.Equal(t, "posts", stub.Calls()[1].Query.From.Source)
}

func TestStubScriptedResults(t *testing.T) {
	stub := &StubAdapter{
		AllFn: func(q query.Query) ([]adapter.Row, error) {
			entity := PostDefinition().MustNew(map[string]any{"id": int64(7)})
			return []adapter.Row{adapter.NewRow(q.From.Source, entity)}, nil
		},
		UpdateAllFn: func(query.Query, []query.Assign) (int64, error) { return 42, nil },
	}
	ctx := context.Background()

	rows, err := stub.All(ctx, query.Query{From: query.From{Source: "posts"}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(7), rows[0].Entity().Value("id"))

	affected, err := stub.UpdateAll(ctx, query.Query{}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42), affected)
}

func TestFixtureAssociationsResolve(t *testing.T) {
	post := PostDefinition()
	comments, ok := post.Association("comments")
	require.True(t, ok)
	assert.Equal(t, "comments", comments.Target().Source())

	comment := CommentDefinition()
	owner, ok := comment.Association("post")
	require.True(t, ok)
	assert.Equal(t, "posts", owner.Target().Source())

	assert.Empty(t, KeylessDefinition().PrimaryKey())
}
