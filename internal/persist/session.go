package persist

import (
	"context"
	"sync"

	"github.com/hammamikhairi/recipemate/internal/domain"
)

// DetailSession tracks the save affordance of one open detail view.
// Once a save succeeds the session stays saved until it is discarded.
type DetailSession struct {
	m       *Mutator
	summary domain.RecipeSummary

	mu     sync.Mutex
	saved  bool
	saving bool
}

// OpenDetail starts a session for summary. A recipe already in the local
// saved list starts out saved.
func (m *Mutator) OpenDetail(summary domain.RecipeSummary) *DetailSession {
	return &DetailSession{m: m, summary: summary, saved: m.IsAlreadySaved(summary)}
}

// Summary returns the recipe this session belongs to.
func (s *DetailSession) Summary() domain.RecipeSummary { return s.summary }

// IsSaved reports whether the recipe has been saved in this session.
func (s *DetailSession) IsSaved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved
}

// CanSave reports whether the save control should be enabled.
func (s *DetailSession) CanSave() bool {
	return !s.IsSaved() && !s.m.Busy(OpSave)
}

// Save stores the recipe once. Calls made after a successful save, or while
// one is in flight, return saved=false and do nothing.
func (s *DetailSession) Save(ctx context.Context) (saved bool, err error) {
	s.mu.Lock()
	if s.saved || s.saving {
		s.mu.Unlock()
		return false, nil
	}
	s.saving = true
	s.mu.Unlock()

	_, err = s.m.SaveRecipe(ctx, s.summary)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	if err != nil {
		return false, err
	}
	s.saved = true
	return true, nil
}
