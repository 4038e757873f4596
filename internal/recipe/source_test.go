package recipe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/recipemate/internal/domain"
	"github.com/hammamikhairi/recipemate/internal/logger"
	"github.com/hammamikhairi/recipemate/internal/storage"
)

// stubSearch records calls and returns canned answers.
type stubSearch struct {
	results      []domain.RecipeSummary
	err          error
	detailErr    error
	instructions string
	searches     []string
	categories   []string
	details      int
}

func (s *stubSearch) Search(_ context.Context, q string) ([]domain.RecipeSummary, error) {
	s.searches = append(s.searches, q)
	return s.results, s.err
}

func (s *stubSearch) SearchByCategory(_ context.Context, c string) ([]domain.RecipeSummary, error) {
	s.categories = append(s.categories, c)
	return s.results, s.err
}

func (s *stubSearch) Details(_ context.Context, id string) (*domain.RecipeDetails, error) {
	s.details++
	if s.detailErr != nil {
		return nil, s.detailErr
	}
	text := s.instructions
	return &domain.RecipeDetails{RecipeSummary: domain.NewRecipeSummary(id, "", ""), Instructions: &text}, nil
}

// failingStore fails every call.
type failingStore struct{ domain.DocumentStore }

func (failingStore) ListAll(context.Context, string) ([]domain.Document, error) {
	return nil, errors.New("connection refused")
}

func newSource(t *testing.T, search domain.SearchService, store domain.DocumentStore) *Source {
	t.Helper()
	src, err := NewSource(search, store, logger.New(logger.LevelOff, nil))
	require.NoError(t, err)
	return src
}

func TestSearchByQueryUsesService(t *testing.T) {
	stub := &stubSearch{results: []domain.RecipeSummary{
		domain.NewRecipeSummary("1", "a", ""),
		domain.NewRecipeSummary("2", "b", ""),
		domain.NewRecipeSummary("3", "c", ""),
	}}
	src := newSource(t, stub, storage.NewMemoryStore(logger.New(logger.LevelOff, nil)))

	got, err := src.SearchByQuery(context.Background(), "  pasta ")
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, []string{"pasta"}, stub.searches)
}

func TestBlankQueryBrowsesStore(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(logger.New(logger.LevelOff, nil))
	_, err := store.Add(ctx, domain.CollectionRecipes, map[string]string{"title": "Soup", "image": "s.png"})
	require.NoError(t, err)
	_, err = store.Add(ctx, domain.CollectionRecipes, map[string]string{"image": "x.png"})
	require.NoError(t, err)

	stub := &stubSearch{}
	src := newSource(t, stub, store)

	got, err := src.SearchByQuery(ctx, "   ")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Soup", got[0].Title)
	assert.Equal(t, domain.UntitledRecipe, got[1].Title)
	assert.False(t, got[0].HasExternalID())
	assert.Empty(t, stub.searches, "search service must not be called")
}

func TestSearchByCategoryLowercases(t *testing.T) {
	stub := &stubSearch{}
	src := newSource(t, stub, storage.NewMemoryStore(logger.New(logger.LevelOff, nil)))

	_, err := src.SearchByCategory(context.Background(), "Main Course")
	require.NoError(t, err)
	assert.Equal(t, []string{"main course"}, stub.categories)
}

func TestFailuresAreClassified(t *testing.T) {
	ctx := context.Background()
	stub := &stubSearch{err: errors.New("dial tcp: timeout")}
	src := newSource(t, stub, failingStore{})

	_, err := src.SearchByQuery(ctx, "pasta")
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)

	_, err = src.SearchByCategory(ctx, "dessert")
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)

	_, err = src.LoadSaved(ctx)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Contains(t, err.Error(), "connection refused")

	_, err = src.SearchByQuery(ctx, "")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestFetchDetailsWithoutIDSkipsService(t *testing.T) {
	stub := &stubSearch{}
	src := newSource(t, stub, storage.NewMemoryStore(logger.New(logger.LevelOff, nil)))

	d, err := src.FetchDetails(context.Background(), domain.NewRecipeSummary("", "Soup", ""))
	require.NoError(t, err)
	assert.Nil(t, d.Instructions)
	assert.Equal(t, domain.InstructionsPending, d.InstructionsText())
	assert.Zero(t, stub.details)
}

func TestFetchDetailsFallsBackToCache(t *testing.T) {
	ctx := context.Background()
	stub := &stubSearch{instructions: "Stir."}
	src := newSource(t, stub, storage.NewMemoryStore(logger.New(logger.LevelOff, nil)))
	summary := domain.NewRecipeSummary("42", "Risotto", "r.jpg")

	d, err := src.FetchDetails(ctx, summary)
	require.NoError(t, err)
	assert.Equal(t, "Stir.", d.InstructionsText())
	assert.Equal(t, "Risotto", d.Title, "summary fields are kept from the caller")

	stub.detailErr = errors.New("503")
	d, err = src.FetchDetails(ctx, summary)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	assert.Equal(t, "Stir.", d.InstructionsText())

	d, err = src.FetchDetails(ctx, domain.NewRecipeSummary("43", "Other", ""))
	assert.Error(t, err)
	assert.Nil(t, d.Instructions)
}

func TestDetailCacheDisabled(t *testing.T) {
	src, err := NewSource(&stubSearch{instructions: "x"}, storage.NewMemoryStore(logger.New(logger.LevelOff, nil)),
		logger.New(logger.LevelOff, nil), WithDetailCacheSize(0))
	require.NoError(t, err)

	_, err = src.FetchDetails(context.Background(), domain.NewRecipeSummary("1", "a", ""))
	require.NoError(t, err)
	_, ok := src.CachedDetails("1")
	assert.False(t, ok)
}
