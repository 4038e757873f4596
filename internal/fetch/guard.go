// Package fetch owns the per-view data records and makes sure only the
// latest request for a view is allowed to write its result.
package fetch

import (
	"context"
	"sync"

	"github.com/hammamikhairi/recipemate/internal/domain"
	"github.com/hammamikhairi/recipemate/internal/logger"
)

// Op produces the items for a view.
type Op[T any] func(ctx context.Context) ([]T, error)

// Observer is told about every fetch. Implementations must not block.
type Observer interface {
	FetchStarted(key domain.ViewKey)
	FetchSettled(key domain.ViewKey, status domain.ViewStatus, kind domain.ErrorKind)
	FetchDiscarded(key domain.ViewKey)
}

// Option configures a guard.
type Option func(*config)

type config struct {
	observer     Observer
	emptyMessage func(domain.ViewKey) string
	errorMessage func(domain.ViewKey, error) string
}

// WithObserver reports fetch outcomes to o.
func WithObserver(o Observer) Option {
	return func(c *config) { c.observer = o }
}

// WithEmptyMessage sets the message shown when a fetch returns no items.
func WithEmptyMessage(fn func(domain.ViewKey) string) Option {
	return func(c *config) { c.emptyMessage = fn }
}

// WithErrorMessage sets how a failed fetch is described to the user.
func WithErrorMessage(fn func(domain.ViewKey, error) string) Option {
	return func(c *config) { c.errorMessage = fn }
}

// Result is what a Run left behind.
type Result[T any] struct {
	State   domain.ViewState[T]
	Token   uint64
	Applied bool // false when a newer request superseded this one
	Err     error
}

type entry[T any] struct {
	state domain.ViewState[T]
	token uint64
}

// Guard is a session-scoped table of ViewStates keyed by view. Concurrent
// runs on one key are ordered by request token, not by arrival. Runs on
// different keys are independent. Safe for concurrent use.
type Guard[T any] struct {
	mu    sync.Mutex
	views map[domain.ViewKey]*entry[T]
	cfg   config
	log   *logger.Logger
}

// New creates an empty guard.
func New[T any](log *logger.Logger, opts ...Option) *Guard[T] {
	g := &Guard[T]{
		views: make(map[domain.ViewKey]*entry[T]),
		cfg: config{
			emptyMessage: func(domain.ViewKey) string { return "No results." },
			errorMessage: func(_ domain.ViewKey, err error) string { return err.Error() },
		},
		log: log,
	}
	for _, o := range opts {
		o(&g.cfg)
	}
	return g
}

// Run issues op for key and applies its outcome if no newer Run for the
// same key has started in the meantime. A previous in-flight op is not
// cancelled. Run blocks until op returns; there is no timeout.
func (g *Guard[T]) Run(ctx context.Context, key domain.ViewKey, op Op[T]) Result[T] {
	g.mu.Lock()
	e := g.entryLocked(key)
	e.token++
	token := e.token
	e.state.Status = domain.StatusLoading
	e.state.ErrorMessage = ""
	e.state.ErrKind = domain.KindNone
	g.mu.Unlock()

	g.log.Debug("fetch %s: issued token %d", key, token)
	if g.cfg.observer != nil {
		g.cfg.observer.FetchStarted(key)
	}

	items, err := op(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()

	if e.token != token {
		g.log.Debug("fetch %s: discarding token %d (latest %d)", key, token, e.token)
		if g.cfg.observer != nil {
			g.cfg.observer.FetchDiscarded(key)
		}
		return Result[T]{State: e.state.Clone(), Token: token, Err: err}
	}

	switch kind := domain.KindOf(err); {
	case err == nil && len(items) > 0:
		e.state.Status = domain.StatusSuccess
		e.state.Items = items
	case err == nil || kind == domain.KindEmptyResult:
		// An empty answer is authoritative: the old list no longer matches.
		e.state.Status = domain.StatusError
		e.state.Items = nil
		e.state.ErrorMessage = g.cfg.emptyMessage(key)
		e.state.ErrKind = domain.KindEmptyResult
	default:
		// Items are retained so a transient failure keeps the last good list.
		e.state.Status = domain.StatusError
		e.state.ErrorMessage = g.cfg.errorMessage(key, err)
		e.state.ErrKind = kind
		g.log.Warn("fetch %s failed: %v", key, err)
	}

	if g.cfg.observer != nil {
		g.cfg.observer.FetchSettled(key, e.state.Status, e.state.ErrKind)
	}
	return Result[T]{State: e.state.Clone(), Token: token, Applied: true, Err: err}
}

// State returns a snapshot of the view. Unknown keys are Idle.
func (g *Guard[T]) State(key domain.ViewKey) domain.ViewState[T] {
	g.mu.Lock()
	defer g.mu.Unlock()
	if e, ok := g.views[key]; ok {
		return e.state.Clone()
	}
	return domain.ViewState[T]{Status: domain.StatusIdle}
}

// Update applies an optimistic change to the view's items. It does not
// touch the request token, so an in-flight fetch still lands afterwards.
// An edit that empties a settled view leaves it in the same EmptyResult
// state a fetch with no items would.
func (g *Guard[T]) Update(key domain.ViewKey, fn func(items []T) []T) domain.ViewState[T] {
	g.mu.Lock()
	defer g.mu.Unlock()

	e := g.entryLocked(key)
	e.state.Items = fn(e.state.Items)

	switch {
	case e.state.Status == domain.StatusLoading:
		// The pending fetch decides.
	case len(e.state.Items) > 0:
		e.state.Status = domain.StatusSuccess
		e.state.ErrorMessage = ""
		e.state.ErrKind = domain.KindNone
	case e.state.Status != domain.StatusIdle:
		e.state.Status = domain.StatusError
		e.state.Items = nil
		e.state.ErrorMessage = g.cfg.emptyMessage(key)
		e.state.ErrKind = domain.KindEmptyResult
	}
	return e.state.Clone()
}

// Reset returns the view to Idle with no items. Pending runs are superseded.
func (g *Guard[T]) Reset(key domain.ViewKey) {
	g.mu.Lock()
	defer g.mu.Unlock()

	e := g.entryLocked(key)
	e.token++
	e.state = domain.ViewState[T]{Status: domain.StatusIdle}
}

// Ensure registers key as Idle if it has no record yet.
func (g *Guard[T]) Ensure(keys ...domain.ViewKey) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, k := range keys {
		g.entryLocked(k)
	}
}

func (g *Guard[T]) entryLocked(key domain.ViewKey) *entry[T] {
	e, ok := g.views[key]
	if !ok {
		e = &entry[T]{state: domain.ViewState[T]{Status: domain.StatusIdle}}
		g.views[key] = e
	}
	return e
}
