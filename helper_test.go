package loam

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loamdb/loam/adapter"
	"github.com/loamdb/loam/internal/testutil"
	"github.com/loamdb/loam/query"
	"github.com/loamdb/loam/schema"
)

const stubURL = "loam://app@localhost/app"

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// startedRepo binds a repo to the stub with quiet logs and deterministic
// tokens.
func startedRepo(t *testing.T, stub *testutil.StubAdapter, opts ...Option) *Repo {
	t.Helper()

	opts = append([]Option{
		WithAdapter(stub),
		WithLogger(quietLogger()),
		WithTokenGenerator(func() string { return "tok-fixed" }),
	}, opts...)

	r, err := Start(context.Background(), Binding{Name: "test", URL: stubURL}, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Stop(context.Background()) })
	return r
}

func post(t *testing.T, values map[string]any) schema.Record {
	t.Helper()
	r, err := testutil.PostDefinition().New(values)
	require.NoError(t, err)
	return r
}

func comment(t *testing.T, values map[string]any) schema.Record {
	t.Helper()
	r, err := testutil.CommentDefinition().New(values)
	require.NoError(t, err)
	return r
}

func postEntity(t *testing.T) query.Entity {
	t.Helper()
	return query.Entity{Model: testutil.PostDefinition().Prototype()}
}

// postRows wraps entities as single-slot rows the way a backend would.
func postRows(entities ...schema.Model) []adapter.Row {
	rows := make([]adapter.Row, len(entities))
	for i, e := range entities {
		rows[i] = adapter.NewRow("posts", e)
	}
	return rows
}
