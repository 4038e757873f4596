// Package recipe provides the recipe query surface and an offline catalog.
package recipe

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/hammamikhairi/recipemate/internal/domain"
	"github.com/hammamikhairi/recipemate/internal/logger"
)

// Compile-time interface check.
var _ domain.SearchService = (*MemoryCatalog)(nil)

type catalogEntry struct {
	summary      domain.RecipeSummary
	dishTypes    []string
	instructions string
}

// MemoryCatalog is an in-memory search service used when no API key is
// configured. Safe for concurrent reads.
type MemoryCatalog struct {
	mu      sync.RWMutex
	entries map[string]catalogEntry
	log     *logger.Logger
}

// NewMemoryCatalog creates a catalog preloaded with built-in recipes.
func NewMemoryCatalog(log *logger.Logger) *MemoryCatalog {
	c := &MemoryCatalog{
		entries: make(map[string]catalogEntry),
		log:     log,
	}
	c.seed()
	return c
}

// Add registers a recipe under the given dish types.
func (c *MemoryCatalog) Add(summary domain.RecipeSummary, instructions string, dishTypes ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	types := make([]string, len(dishTypes))
	for i, t := range dishTypes {
		types[i] = strings.ToLower(t)
	}
	c.entries[summary.ID] = catalogEntry{summary: summary, dishTypes: types, instructions: instructions}
}

// Search returns recipes whose title contains the query, ordered by title.
func (c *MemoryCatalog) Search(ctx context.Context, query string) ([]domain.RecipeSummary, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	c.log.Debug("catalog: searching for %q", q)

	var out []domain.RecipeSummary
	for _, e := range c.entries {
		if strings.Contains(strings.ToLower(e.summary.Title), q) {
			out = append(out, e.summary)
		}
	}
	sortByTitle(out)
	return out, nil
}

// SearchByCategory returns recipes tagged with the dish type.
func (c *MemoryCatalog) SearchByCategory(ctx context.Context, category string) ([]domain.RecipeSummary, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	want := strings.ToLower(category)
	var out []domain.RecipeSummary
	for _, e := range c.entries {
		for _, t := range e.dishTypes {
			if t == want {
				out = append(out, e.summary)
				break
			}
		}
	}
	sortByTitle(out)
	c.log.Debug("catalog: category %q -> %d", want, len(out))
	return out, nil
}

// Details returns a recipe with its instructions.
func (c *MemoryCatalog) Details(ctx context.Context, id string) (*domain.RecipeDetails, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[id]
	if !ok {
		return nil, domain.SourceFailure("details", domain.ErrNotFound)
	}
	text := e.instructions
	return &domain.RecipeDetails{RecipeSummary: e.summary, Instructions: &text}, nil
}

func sortByTitle(s []domain.RecipeSummary) {
	sort.Slice(s, func(i, j int) bool { return s[i].Title < s[j].Title })
}

// seed populates the catalog with built-in recipes.
func (c *MemoryCatalog) seed() {
	builtins := []struct {
		id, title, image, instructions string
		types                          []string
	}{
		{"716429", "Pasta with Garlic, Scallions, Cauliflower & Breadcrumbs", "https://img.spoonacular.com/recipes/716429-312x231.jpg",
			"Boil the pasta. Toast the breadcrumbs in butter. Saute garlic and scallions, add the cauliflower, then toss everything together.",
			[]string{"main course"}},
		{"715538", "Bruschetta Style Pork & Pasta", "https://img.spoonacular.com/recipes/715538-312x231.jpg",
			"Sear the pork, fold through chopped tomatoes and basil, and serve over cooked pasta.",
			[]string{"main course"}},
		{"642583", "Farfalle with Peas, Ham and Cream", "https://img.spoonacular.com/recipes/642583-312x231.jpg",
			"Cook the farfalle. Warm ham and peas in cream, season, and combine.",
			[]string{"main course"}},
		{"633547", "Baked Cheese Manicotti", "https://img.spoonacular.com/recipes/633547-312x231.jpg",
			"Fill the manicotti with ricotta, cover with sauce and mozzarella, and bake for 40 minutes.",
			[]string{"main course"}},
		{"639637", "Classic Tiramisu", "https://img.spoonacular.com/recipes/639637-312x231.jpg",
			"Dip ladyfingers in coffee, layer with mascarpone cream, dust with cocoa and chill overnight.",
			[]string{"dessert"}},
		{"632660", "Apricot Glazed Apple Tart", "https://img.spoonacular.com/recipes/632660-312x231.jpg",
			"Line a tin with pastry, arrange sliced apples, bake, and brush with warm apricot jam.",
			[]string{"dessert"}},
		{"641803", "Easy Guacamole", "https://img.spoonacular.com/recipes/641803-312x231.jpg",
			"Mash avocados with lime, salt, onion and cilantro.",
			[]string{"appetizer"}},
		{"645714", "Greek Salad", "https://img.spoonacular.com/recipes/645714-312x231.jpg",
			"Combine tomato, cucumber, onion, olives and feta. Dress with olive oil and oregano.",
			[]string{"salad"}},
		{"644387", "Garlicky Kale Soup", "https://img.spoonacular.com/recipes/644387-312x231.jpg",
			"Sweat garlic and onion, add stock and kale, simmer for 15 minutes.",
			[]string{"soup"}},
		{"663050", "Strawberry Lemonade", "https://img.spoonacular.com/recipes/663050-312x231.jpg",
			"Blend strawberries with lemon juice and sugar, strain, and top up with cold water.",
			[]string{"beverage"}},
	}

	for _, b := range builtins {
		types := make([]string, len(b.types))
		copy(types, b.types)
		c.entries[b.id] = catalogEntry{
			summary:      domain.NewRecipeSummary(b.id, b.title, b.image),
			dishTypes:    types,
			instructions: b.instructions,
		}
	}
	c.log.Debug("catalog: seeded %d recipes", len(builtins))
}
