package testutil

import (
	"context"
	"sync"

	"github.com/loamdb/loam/adapter"
	"github.com/loamdb/loam/query"
	"github.com/loamdb/loam/schema"
)

// StubAdapter is a scripted adapter.Adapter for repository tests. Each
// dispatch method records its call, then delegates to the matching
// function field when one is set.
//
// Unscripted methods succeed with neutral results: All returns no rows,
// Create generates no key, Update and Delete report one affected row (the
// count single-entity writes expect), and the bulk methods report zero.
// Tests script only the behavior under test.
//
// Thread-safety: the call log is mutex-guarded, so concurrent operations
// against one stub are safe.
type StubAdapter struct {
	StartErr error
	StopErr  error

	AllFn       func(q query.Query) ([]adapter.Row, error)
	CreateFn    func(m schema.Model) (any, error)
	UpdateFn    func(m schema.Model) (int64, error)
	UpdateAllFn func(q query.Query, assigns []query.Assign) (int64, error)
	DeleteFn    func(m schema.Model) (int64, error)
	DeleteAllFn func(q query.Query) (int64, error)

	mu      sync.Mutex
	started bool
	calls   []Call
}

// Call records one dispatch the stub received.
type Call struct {
	// Op is the adapter method name: start, stop, all, create, update,
	// update_all, delete, delete_all.
	Op string

	// Query is set for all, update_all, and delete_all dispatches.
	Query query.Query

	// Model is set for create, update, and delete dispatches.
	Model schema.Model

	// Assigns is set for update_all dispatches.
	Assigns []query.Assign

	// Options is set for start dispatches.
	Options adapter.Options
}

var _ adapter.Adapter = (*StubAdapter)(nil)

func (s *StubAdapter) Name() string { return "stub" }

func (s *StubAdapter) Start(_ context.Context, opts adapter.Options) error {
	s.record(Call{Op: "start", Options: opts})
	if s.StartErr != nil {
		return s.StartErr
	}
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()
	return nil
}

func (s *StubAdapter) Stop(context.Context) error {
	s.record(Call{Op: "stop"})
	s.mu.Lock()
	s.started = false
	s.mu.Unlock()
	return s.StopErr
}

func (s *StubAdapter) All(_ context.Context, q query.Query) ([]adapter.Row, error) {
	s.record(Call{Op: "all", Query: q})
	if s.AllFn != nil {
		return s.AllFn(q)
	}
	return []adapter.Row{}, nil
}

func (s *StubAdapter) Create(_ context.Context, m schema.Model) (any, error) {
	s.record(Call{Op: "create", Model: m})
	if s.CreateFn != nil {
		return s.CreateFn(m)
	}
	return nil, nil
}

func (s *StubAdapter) Update(_ context.Context, m schema.Model) (int64, error) {
	s.record(Call{Op: "update", Model: m})
	if s.UpdateFn != nil {
		return s.UpdateFn(m)
	}
	return 1, nil
}

func (s *StubAdapter) UpdateAll(_ context.Context, q query.Query, assigns []query.Assign) (int64, error) {
	s.record(Call{Op: "update_all", Query: q, Assigns: assigns})
	if s.UpdateAllFn != nil {
		return s.UpdateAllFn(q, assigns)
	}
	return 0, nil
}

func (s *StubAdapter) Delete(_ context.Context, m schema.Model) (int64, error) {
	s.record(Call{Op: "delete", Model: m})
	if s.DeleteFn != nil {
		return s.DeleteFn(m)
	}
	return 1, nil
}

func (s *StubAdapter) DeleteAll(_ context.Context, q query.Query) (int64, error) {
	s.record(Call{Op: "delete_all", Query: q})
	if s.DeleteAllFn != nil {
		return s.DeleteAllFn(q)
	}
	return 0, nil
}

// Started reports whether the stub is between a successful Start and a
// Stop.
func (s *StubAdapter) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Calls returns a copy of the recorded calls in dispatch order.
func (s *StubAdapter) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// Ops returns just the recorded method names, in dispatch order.
func (s *StubAdapter) Ops() []string {
	calls := s.Calls()
	ops := make([]string, len(calls))
	for i, c := range calls {
		ops[i] = c.Op
	}
	return ops
}

// LastCall returns the most recent recorded call. It panics when nothing
// was dispatched; tests calling it expect at least one dispatch.
func (s *StubAdapter) LastCall() Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		panic("testutil: no calls recorded")
	}
	return s.calls[len(s.calls)-1]
}

func (s *StubAdapter) record(c Call) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, c)
}
