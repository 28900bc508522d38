package loam

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/loamdb/loam/adapter/sqlite"
	"github.com/loamdb/loam/internal/testutil"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "loam.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
bindings:
  - name: primary
    url: loam://app@localhost/app.db
    adapter: sqlite
  - name: replica
    url: loam://app@replica.internal:8000/app?namespace=prod
    adapter: surreal
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.Bindings, 2)
	assert.Equal(t, Binding{
		Name:    "primary",
		URL:     "loam://app@localhost/app.db",
		Adapter: "sqlite",
	}, cfg.Bindings[0])
	assert.Equal(t, "replica", cfg.Bindings[1].Name)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `
bindings:
  - name: primary
    url: loam://app@localhost/app.db
    adaptor: sqlite
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name     string
		bindings []Binding
		want     []string
	}{
		{
			name: "valid",
			bindings: []Binding{
				{Name: "primary", URL: "loam://app@localhost/app.db", Adapter: "sqlite"},
			},
		},
		{
			name: "no bindings",
			want: []string{"config declares no bindings"},
		},
		{
			name: "missing name",
			bindings: []Binding{
				{URL: "loam://app@localhost/app.db", Adapter: "sqlite"},
			},
			want: []string{"bindings[0]: name is required"},
		},
		{
			name: "duplicate names",
			bindings: []Binding{
				{Name: "primary", URL: "loam://app@localhost/a.db", Adapter: "sqlite"},
				{Name: "primary", URL: "loam://app@localhost/b.db", Adapter: "sqlite"},
			},
			want: []string{"primary: duplicate binding name"},
		},
		{
			name: "missing url",
			bindings: []Binding{
				{Name: "primary", Adapter: "sqlite"},
			},
			want: []string{"primary: url is required"},
		},
		{
			name: "malformed url",
			bindings: []Binding{
				{Name: "primary", URL: "postgres://app@localhost/app", Adapter: "sqlite"},
			},
			want: []string{`scheme must be "loam"`},
		},
		{
			name: "missing adapter",
			bindings: []Binding{
				{Name: "primary", URL: "loam://app@localhost/app.db"},
			},
			want: []string{"primary: adapter is required"},
		},
		{
			name: "unregistered adapter",
			bindings: []Binding{
				{Name: "primary", URL: "loam://app@localhost/app.db", Adapter: "oracle"},
			},
			want: []string{`unknown adapter "oracle"`},
		},
		{
			name: "all problems reported at once",
			bindings: []Binding{
				{Name: "primary", Adapter: "oracle"},
				{Name: "primary", URL: "loam://app@localhost/app.db", Adapter: "sqlite"},
			},
			want: []string{
				"primary: url is required",
				`unknown adapter "oracle"`,
				"primary: duplicate binding name",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Bindings: tt.bindings}
			err := cfg.Validate()
			if len(tt.want) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.want {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestConfigValidateSurfacesURLError(t *testing.T) {
	cfg := &Config{Bindings: []Binding{
		{Name: "primary", URL: "loam://localhost/app.db", Adapter: "sqlite"},
	}}

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, IsInvalidURL(err))
}

func TestConfigBindingLookup(t *testing.T) {
	cfg := &Config{Bindings: []Binding{
		{Name: "primary", URL: "loam://app@localhost/a.db", Adapter: "sqlite"},
		{Name: "replica", URL: "loam://app@localhost/b.db", Adapter: "sqlite"},
	}}

	b, ok := cfg.Binding("replica")
	require.True(t, ok)
	assert.Equal(t, "loam://app@localhost/b.db", b.URL)

	_, ok = cfg.Binding("standby")
	assert.False(t, ok)
}

func TestStartBinding(t *testing.T) {
	cfg := &Config{Bindings: []Binding{
		{Name: "primary", URL: stubURL, Adapter: "stub"},
	}}

	stub := &testutil.StubAdapter{}
	r, err := StartBinding(context.Background(), cfg, "primary",
		WithAdapter(stub), WithLogger(quietLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Stop(context.Background()) })

	assert.Equal(t, "primary", r.Name())
	assert.True(t, stub.Started())
}

func TestStartBindingUnknownName(t *testing.T) {
	cfg := &Config{}
	_, err := StartBinding(context.Background(), cfg, "primary")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no binding "primary"`)
}
