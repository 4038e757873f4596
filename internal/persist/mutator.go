// Package persist writes saved recipes and shopping items to the remote store.
package persist

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hammamikhairi/recipemate/internal/domain"
	"github.com/hammamikhairi/recipemate/internal/logger"
)

// Op names a mutation for busy flags and metrics.
type Op string

const (
	OpSave       Op = "save_recipe"
	OpAddItem    Op = "add_item"
	OpRemoveItem Op = "remove_item"
)

// Notification texts.
const (
	MsgSaved        = "Recipe saved successfully!"
	MsgSaveFailed   = "Failed to save recipe"
	MsgItemAdded    = "Item added"
	MsgAddFailed    = "Failed to add item"
	MsgItemRemoved  = "Item removed"
	MsgRemoveFailed = "Failed to remove item"
)

// Observer is told how every mutation ended.
type Observer interface {
	MutationSettled(op Op, err error)
}

// Option configures a Mutator.
type Option func(*Mutator)

// WithObserver reports mutation outcomes to o.
func WithObserver(o Observer) Option {
	return func(m *Mutator) { m.observer = o }
}

// Mutator adds and removes documents in the saved_recipes and shopping_list
// collections. The store does not deduplicate adds. Removal is by value:
// every document whose item field equals the label is deleted. The
// lookup and the deletes are not isolated from concurrent writers.
type Mutator struct {
	store    domain.DocumentStore
	notifier domain.Notifier
	observer Observer
	log      *logger.Logger

	mu    sync.Mutex
	busy  map[Op]int
	saved map[string]bool // summary keys known to be saved this session
}

// NewMutator creates a Mutator.
func NewMutator(store domain.DocumentStore, notifier domain.Notifier, log *logger.Logger, opts ...Option) *Mutator {
	m := &Mutator{
		store:    store,
		notifier: notifier,
		log:      log,
		busy:     make(map[Op]int),
		saved:    make(map[string]bool),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// SaveRecipe appends the summary to saved_recipes and returns the new document id.
func (m *Mutator) SaveRecipe(ctx context.Context, summary domain.RecipeSummary) (string, error) {
	done := m.begin(OpSave)
	defer done()

	id, err := m.store.Add(ctx, domain.CollectionSavedRecipes, summary.Fields())
	if err != nil {
		return "", m.fail(ctx, OpSave, MsgSaveFailed, err)
	}

	m.mu.Lock()
	m.saved[summary.Key()] = true
	m.mu.Unlock()

	m.succeed(ctx, OpSave, MsgSaved)
	m.log.Info("saved recipe %q as %s", summary.Title, id)
	return id, nil
}

// AddShoppingItem appends a shopping item. Blank labels are rejected
// without touching the store.
func (m *Mutator) AddShoppingItem(ctx context.Context, label string) (string, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", fmt.Errorf("add item: empty label: %w", domain.ErrInvalidInput)
	}

	done := m.begin(OpAddItem)
	defer done()

	id, err := m.store.Add(ctx, domain.CollectionShoppingList, map[string]string{domain.FieldItem: label})
	if err != nil {
		return "", m.fail(ctx, OpAddItem, MsgAddFailed, err)
	}
	m.succeed(ctx, OpAddItem, MsgItemAdded)
	m.log.Debug("added shopping item %q as %s", label, id)
	return id, nil
}

// RemoveShoppingItem deletes every shopping document labelled label. The
// label is trimmed the same way AddShoppingItem trims it. Nothing matching
// is a no-op, not an error.
func (m *Mutator) RemoveShoppingItem(ctx context.Context, label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return fmt.Errorf("remove item: empty label: %w", domain.ErrInvalidInput)
	}

	done := m.begin(OpRemoveItem)
	defer done()

	docs, err := m.store.FindWhere(ctx, domain.CollectionShoppingList, domain.FieldItem, label)
	if err != nil {
		return m.fail(ctx, OpRemoveItem, MsgRemoveFailed, err)
	}
	for _, d := range docs {
		if err := m.store.Delete(ctx, domain.CollectionShoppingList, d.ID); err != nil {
			return m.fail(ctx, OpRemoveItem, MsgRemoveFailed, err)
		}
	}

	if len(docs) > 0 {
		m.succeed(ctx, OpRemoveItem, MsgItemRemoved)
	} else if m.observer != nil {
		m.observer.MutationSettled(OpRemoveItem, nil)
	}
	m.log.Debug("removed %d shopping documents for %q", len(docs), label)
	return nil
}

// IsAlreadySaved checks the summary against this session's saved list.
// The store is not queried.
func (m *Mutator) IsAlreadySaved(summary domain.RecipeSummary) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved[summary.Key()]
}

// SyncSaved replaces the local saved index with a freshly loaded list.
func (m *Mutator) SyncSaved(items []domain.RecipeSummary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = make(map[string]bool, len(items))
	for _, it := range items {
		m.saved[it.Key()] = true
	}
}

// Busy reports whether op has a store call in flight.
func (m *Mutator) Busy(op Op) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.busy[op] > 0
}

func (m *Mutator) begin(op Op) func() {
	m.mu.Lock()
	m.busy[op]++
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		m.busy[op]--
		m.mu.Unlock()
	}
}

func (m *Mutator) succeed(ctx context.Context, op Op, msg string) {
	m.notify(ctx, msg, false)
	if m.observer != nil {
		m.observer.MutationSettled(op, nil)
	}
}

func (m *Mutator) fail(ctx context.Context, op Op, msg string, err error) error {
	err = domain.StoreFailure(string(op), err)
	m.log.Warn("%s failed: %v", op, err)
	m.notify(ctx, msg, true)
	if m.observer != nil {
		m.observer.MutationSettled(op, err)
	}
	return err
}

func (m *Mutator) notify(ctx context.Context, msg string, urgent bool) {
	if m.notifier == nil {
		return
	}
	var err error
	if urgent {
		err = m.notifier.NotifyUrgent(ctx, msg)
	} else {
		err = m.notifier.Notify(ctx, msg)
	}
	if err != nil {
		m.log.Warn("notify %q: %v", msg, err)
	}
}
