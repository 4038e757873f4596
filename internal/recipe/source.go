package recipe

import (
	"context"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hammamikhairi/recipemate/internal/domain"
	"github.com/hammamikhairi/recipemate/internal/logger"
)

// DefaultDetailCacheSize bounds the local detail cache.
const DefaultDetailCacheSize = 64

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithDetailCacheSize sets how many fetched details are remembered.
// A non-positive size disables the cache.
func WithDetailCacheSize(n int) SourceOption {
	return func(s *Source) { s.cacheSize = n }
}

// Source puts the search service, the remote store and the local detail
// cache behind one query surface. Search failures come back as
// domain.ErrSourceUnavailable and store failures as domain.ErrStoreUnavailable.
type Source struct {
	search    domain.SearchService
	store     domain.DocumentStore
	cache     *lru.Cache[string, domain.RecipeDetails]
	cacheSize int
	log       *logger.Logger
}

// NewSource creates a Source.
func NewSource(search domain.SearchService, store domain.DocumentStore, log *logger.Logger, opts ...SourceOption) (*Source, error) {
	s := &Source{
		search:    search,
		store:     store,
		cacheSize: DefaultDetailCacheSize,
		log:       log,
	}
	for _, o := range opts {
		o(s)
	}
	if s.cacheSize > 0 {
		cache, err := lru.New[string, domain.RecipeDetails](s.cacheSize)
		if err != nil {
			return nil, err
		}
		s.cache = cache
	}
	return s, nil
}

// SearchByQuery sends a text query to the search service. A blank query
// browses the store's recipe collection instead and never reaches the service.
func (s *Source) SearchByQuery(ctx context.Context, query string) ([]domain.RecipeSummary, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		s.log.Debug("source: blank query, browsing store")
		return s.LoadAllFromStore(ctx)
	}
	out, err := s.search.Search(ctx, q)
	if err != nil {
		return nil, domain.SourceFailure("search", err)
	}
	return out, nil
}

// SearchByCategory lists a category from the search service, keyed by the
// lower-cased name.
func (s *Source) SearchByCategory(ctx context.Context, category string) ([]domain.RecipeSummary, error) {
	out, err := s.search.SearchByCategory(ctx, strings.ToLower(strings.TrimSpace(category)))
	if err != nil {
		return nil, domain.SourceFailure("category", err)
	}
	return out, nil
}

// LoadSaved lists the saved_recipes collection.
func (s *Source) LoadSaved(ctx context.Context) ([]domain.RecipeSummary, error) {
	return s.loadCollection(ctx, domain.CollectionSavedRecipes)
}

// LoadAllFromStore lists the recipes collection.
func (s *Source) LoadAllFromStore(ctx context.Context) ([]domain.RecipeSummary, error) {
	return s.loadCollection(ctx, domain.CollectionRecipes)
}

func (s *Source) loadCollection(ctx context.Context, collection string) ([]domain.RecipeSummary, error) {
	docs, err := s.store.ListAll(ctx, collection)
	if err != nil {
		return nil, domain.StoreFailure("list "+collection, err)
	}
	out := make([]domain.RecipeSummary, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.SummaryFromDocument(d))
	}
	return out, nil
}

// FetchDetails resolves a summary into details. Summaries without an external
// id come back immediately with nil instructions. On a failed fetch the last
// cached details (or the bare summary) are returned together with the error,
// so callers always have something to show.
func (s *Source) FetchDetails(ctx context.Context, summary domain.RecipeSummary) (domain.RecipeDetails, error) {
	fallback := domain.RecipeDetails{RecipeSummary: summary}
	if !summary.HasExternalID() {
		return fallback, nil
	}

	d, err := s.search.Details(ctx, summary.ID)
	if err != nil {
		if cached, ok := s.cached(summary.ID); ok {
			s.log.Warn("source: details %s failed, using cached copy: %v", summary.ID, err)
			return cached, domain.SourceFailure("details", err)
		}
		return fallback, domain.SourceFailure("details", err)
	}

	out := domain.RecipeDetails{RecipeSummary: summary, Instructions: d.Instructions}
	if s.cache != nil && out.Instructions != nil {
		s.cache.Add(summary.ID, out)
	}
	return out, nil
}

// CachedDetails returns previously fetched details for id.
func (s *Source) CachedDetails(id string) (domain.RecipeDetails, bool) {
	return s.cached(id)
}

func (s *Source) cached(id string) (domain.RecipeDetails, bool) {
	if s.cache == nil {
		return domain.RecipeDetails{}, false
	}
	return s.cache.Get(id)
}
