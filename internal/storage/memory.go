// Package storage provides remote document store implementations.
package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/hammamikhairi/recipemate/internal/domain"
	"github.com/hammamikhairi/recipemate/internal/logger"
)

// Compile-time interface check.
var _ domain.DocumentStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory document store. Safe for concurrent access.
// Documents are listed in insertion order.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memCollection
	log         *logger.Logger
}

type memCollection struct {
	order []string
	docs  map[string]map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]*memCollection),
		log:         log,
	}
}

// ListAll returns every document in the collection.
func (s *MemoryStore) ListAll(ctx context.Context, collection string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collection]
	if !ok {
		return nil, nil
	}
	out := make([]domain.Document, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, domain.Document{ID: id, Fields: copyFields(c.docs[id])})
	}
	s.log.Debug("listing %s, count=%d", collection, len(out))
	return out, nil
}

// Add stores a new document and returns its generated id. Equal documents
// are stored twice.
func (s *MemoryStore) Add(ctx context.Context, collection string, fields map[string]string) (string, error) {
	return s.put(collection, uuid.NewString(), fields), nil
}

// Put stores a document under a caller-chosen id, replacing any previous one.
func (s *MemoryStore) Put(ctx context.Context, collection, id string, fields map[string]string) error {
	s.put(collection, id, fields)
	return nil
}

func (s *MemoryStore) put(collection, id string, fields map[string]string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collection]
	if !ok {
		c = &memCollection{docs: make(map[string]map[string]string)}
		s.collections[collection] = c
	}
	if _, exists := c.docs[id]; !exists {
		c.order = append(c.order, id)
	}
	c.docs[id] = copyFields(fields)
	s.log.Debug("stored %s/%s", collection, id)
	return id
}

// FindWhere returns the documents whose field equals value.
func (s *MemoryStore) FindWhere(ctx context.Context, collection, field, value string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collection]
	if !ok {
		return nil, nil
	}
	var out []domain.Document
	for _, id := range c.order {
		if v, ok := c.docs[id][field]; ok && v == value {
			out = append(out, domain.Document{ID: id, Fields: copyFields(c.docs[id])})
		}
	}
	return out, nil
}

// Delete removes a document by id. Deleting a missing document is not an error.
func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collection]
	if !ok {
		return nil
	}
	if _, ok := c.docs[id]; !ok {
		return nil
	}
	delete(c.docs, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	s.log.Debug("deleted %s/%s", collection, id)
	return nil
}

// Get returns a document by id.
func (s *MemoryStore) Get(ctx context.Context, collection, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collection]
	if !ok {
		return nil, domain.ErrNotFound
	}
	fields, ok := c.docs[id]
	if !ok {
		s.log.Debug("document not found: %s/%s", collection, id)
		return nil, domain.ErrNotFound
	}
	return &domain.Document{ID: id, Fields: copyFields(fields)}, nil
}

func copyFields(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
