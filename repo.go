package loam

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/loamdb/loam/adapter"
	"github.com/loamdb/loam/query"
)

// Binding names one repository configuration: which backend to use and
// how to reach it. It is the YAML unit of config files (see Config) and
// the argument to Start.
type Binding struct {
	// Name identifies the binding in config files and log lines.
	Name string `yaml:"name"`

	// URL is the connection descriptor, parsed by ParseURL.
	URL string `yaml:"url"`

	// Adapter is the backend's registry name, e.g. "sqlite".
	Adapter string `yaml:"adapter"`
}

// Repo is a running repository binding: one started adapter plus the
// expression API sets its queries may use.
//
// A Repo holds no per-call mutable state. Any number of goroutines may
// issue operations against one Repo concurrently; connection handling and
// locking are the adapter's concern.
type Repo struct {
	name    string
	backend adapter.Adapter
	apis    []query.API
	log     *slog.Logger
	token   func() string
}

// Option configures a Repo at Start.
type Option func(*Repo)

// WithLogger routes the repo's log lines through l instead of
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Repo) { r.log = l }
}

// WithAPIs replaces the expression API sets admissible in this repo's
// queries. The default is query.StandardAPI alone.
func WithAPIs(apis ...query.API) Option {
	return func(r *Repo) { r.apis = apis }
}

// WithTokenGenerator replaces the per-operation log token source. The
// default generates UUIDv7 tokens, which sort by creation time. Tests use
// fixed generators for deterministic log assertions.
func WithTokenGenerator(gen func() string) Option {
	return func(r *Repo) { r.token = gen }
}

// WithAdapter supplies a backend instance directly, bypassing the registry
// lookup of Binding.Adapter. The instance must be unstarted; Start starts
// it.
func WithAdapter(a adapter.Adapter) Option {
	return func(r *Repo) { r.backend = a }
}

// Start opens the binding: it parses the connection URL, constructs the
// named adapter (unless WithAdapter supplied one), and starts it with the
// parsed options. A malformed URL is an InvalidURLError; an adapter that
// fails to start surfaces as an AdapterError wrapping the cause.
func Start(ctx context.Context, b Binding, opts ...Option) (*Repo, error) {
	connOpts, err := ParseURL(b.URL)
	if err != nil {
		return nil, err
	}

	r := &Repo{
		name:  b.Name,
		apis:  []query.API{query.StandardAPI{}},
		token: func() string { return uuid.Must(uuid.NewV7()).String() },
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.backend == nil {
		if b.Adapter == "" {
			return nil, errors.New("binding names no adapter")
		}
		r.backend, err = adapter.New(b.Adapter)
		if err != nil {
			return nil, err
		}
	}

	if r.log == nil {
		r.log = slog.Default()
	}
	r.log = r.log.With("component", "repo", "binding", r.name)

	if err := r.backend.Start(ctx, connOpts); err != nil {
		return nil, &AdapterError{Adapter: r.backend.Name(), Op: "start", Err: err}
	}

	r.log.InfoContext(ctx, "binding started",
		"adapter", r.backend.Name(),
		"database", connOpts.Database,
	)
	return r, nil
}

// StartBinding starts the named binding from a loaded config.
func StartBinding(ctx context.Context, cfg *Config, name string, opts ...Option) (*Repo, error) {
	b, ok := cfg.Binding(name)
	if !ok {
		return nil, fmt.Errorf("config declares no binding %q", name)
	}
	return Start(ctx, b, opts...)
}

// Name returns the binding name the repo was started with.
func (r *Repo) Name() string {
	return r.name
}

// Stop tears the binding down. Safe to call more than once when the
// adapter's Stop is idempotent, which the contract requires.
func (r *Repo) Stop(ctx context.Context) error {
	if err := r.backend.Stop(ctx); err != nil {
		return &AdapterError{Adapter: r.backend.Name(), Op: "stop", Err: err}
	}
	r.log.InfoContext(ctx, "binding stopped")
	return nil
}

// Ping verifies the binding can reach its backend. Adapters expose
// connectivity checks through an optional interface; for backends without
// one, a successful Start is the only health signal and Ping reports
// nothing new.
func (r *Repo) Ping(ctx context.Context) error {
	p, ok := r.backend.(interface{ Ping(context.Context) error })
	if !ok {
		return nil
	}
	if err := p.Ping(ctx); err != nil {
		return &AdapterError{Adapter: r.backend.Name(), Op: "ping", Err: err}
	}
	return nil
}
