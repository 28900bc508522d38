package surreal

import (
	"context"
	"errors"
	"fmt"

	"github.com/surrealdb/surrealdb.go"

	"github.com/loamdb/loam/adapter"
)

const (
	defaultPort      = 8000
	defaultNamespace = "loam"
	statusOK         = "OK"
)

var errNotStarted = errors.New("surreal: adapter not started")

func init() {
	adapter.Register("surreal", func() adapter.Adapter { return New() })
}

// Adapter executes queries against a SurrealDB server. The zero value is
// unusable; construct with New and call Start before use.
type Adapter struct {
	db *surrealdb.DB
}

var _ adapter.Adapter = (*Adapter)(nil)

// New returns an unstarted SurrealDB adapter.
func New() *Adapter {
	return &Adapter{}
}

// Name reports the registry name.
func (a *Adapter) Name() string {
	return "surreal"
}

// Start connects to the server, signs in when credentials are present,
// and selects the namespace and database.
func (a *Adapter) Start(ctx context.Context, opts adapter.Options) error {
	if a.db != nil {
		return errors.New("surreal: adapter already started")
	}
	if opts.Host == "" {
		return errors.New("surreal: options name no host")
	}
	if opts.Database == "" {
		return errors.New("surreal: options name no database")
	}

	port := opts.Port
	if port == 0 {
		port = defaultPort
	}
	endpoint := fmt.Sprintf("ws://%s:%d", opts.Host, port)

	db, err := surrealdb.FromEndpointURLString(ctx, endpoint)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", endpoint, err)
	}

	if opts.Username != "" {
		_, err = db.SignIn(ctx, &surrealdb.Auth{
			Username: opts.Username,
			Password: opts.Password,
		})
		if err != nil {
			_ = db.Close(ctx)
			return fmt.Errorf("failed to sign in: %w", err)
		}
	}

	namespace := opts.Params["namespace"]
	if namespace == "" {
		namespace = defaultNamespace
	}
	if err := db.Use(ctx, namespace, opts.Database); err != nil {
		_ = db.Close(ctx)
		return fmt.Errorf("failed to select %s/%s: %w", namespace, opts.Database, err)
	}

	a.db = db
	return nil
}

// Stop closes the connection. Safe to call on a never-started or
// already-stopped adapter.
func (a *Adapter) Stop(ctx context.Context) error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close(ctx)
	a.db = nil
	return err
}

// Ping verifies the connection by asking the server for its version.
func (a *Adapter) Ping(ctx context.Context) error {
	if a.db == nil {
		return errNotStarted
	}
	if _, err := a.db.Version(ctx); err != nil {
		return fmt.Errorf("failed to reach server: %w", err)
	}
	return nil
}

// execute runs one statement and returns the records of its result.
func (a *Adapter) execute(ctx context.Context, stmt string, vars map[string]any) ([]map[string]any, error) {
	if a.db == nil {
		return nil, errNotStarted
	}

	res, err := surrealdb.Query[[]map[string]any](ctx, a.db, stmt, vars)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return decodeEnvelope(res)
}
