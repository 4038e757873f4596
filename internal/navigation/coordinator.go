// Package navigation holds the tab/overlay state machine.
package navigation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/hammamikhairi/recipemate/internal/domain"
	"github.com/hammamikhairi/recipemate/internal/logger"
)

var categories = []string{"Appetizer", "Dessert", "Main Course", "Salad", "Soup", "Beverage"}

// Categories returns the browsable category names in display order.
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

// Coordinator owns the NavigationState. It is changed only by user actions.
//
//	Tab(n) --openCategory--> Category(name)   (only from Tab(Categories))
//	Tab(n) --openRecipe----> Detail(r)
//	Category --openRecipe--> Detail(r), remembering the category
//	back: Detail -> Category (if it came from one) or Tab; Category -> Tab
type Coordinator struct {
	mu       sync.Mutex
	state    domain.NavigationState
	cameFrom *domain.Overlay // category under the current Detail overlay
	log      *logger.Logger
}

// NewCoordinator starts at Tab(Home) with no overlay.
func NewCoordinator(log *logger.Logger) *Coordinator {
	return &Coordinator{
		state: domain.NavigationState{ActiveTab: domain.TabHome},
		log:   log,
	}
}

// State returns the current navigation state.
func (c *Coordinator) State() domain.NavigationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SelectTab switches tabs. Not allowed while an overlay is showing.
func (c *Coordinator) SelectTab(tab domain.Tab) (domain.NavigationState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Overlay.Kind != domain.OverlayNone {
		return c.state, fmt.Errorf("select %s over %s overlay: %w", tab, c.state.Overlay.Kind, domain.ErrInvalidTransition)
	}
	c.state.ActiveTab = tab
	c.log.Debug("nav: tab %s", tab)
	return c.state, nil
}

// OpenRecipe shows a Detail overlay from a tab or from a Category overlay.
func (c *Coordinator) OpenRecipe(summary domain.RecipeSummary) (domain.NavigationState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state.Overlay.Kind {
	case domain.OverlayNone:
		c.cameFrom = nil
	case domain.OverlayCategory:
		prev := c.state.Overlay
		c.cameFrom = &prev
	default:
		return c.state, fmt.Errorf("open recipe over %s overlay: %w", c.state.Overlay.Kind, domain.ErrInvalidTransition)
	}
	c.state.Overlay = domain.Overlay{Kind: domain.OverlayDetail, Recipe: summary}
	c.log.Debug("nav: detail %q", summary.Title)
	return c.state, nil
}

// OpenCategory shows a Category overlay. Only allowed from Tab(Categories).
func (c *Coordinator) OpenCategory(name string) (domain.NavigationState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return c.state, fmt.Errorf("open category: empty name: %w", domain.ErrInvalidInput)
	}
	if c.state.Overlay.Kind != domain.OverlayNone || c.state.ActiveTab != domain.TabCategories {
		return c.state, fmt.Errorf("open category from %s: %w", c.describe(), domain.ErrInvalidTransition)
	}
	c.state.Overlay = domain.Overlay{Kind: domain.OverlayCategory, Category: name}
	c.log.Debug("nav: category %q", name)
	return c.state, nil
}

// Back clears the innermost overlay. A Detail opened from a Category returns
// to that Category. With no overlay, Back does nothing and reports false.
func (c *Coordinator) Back() (domain.NavigationState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state.Overlay.Kind {
	case domain.OverlayNone:
		return c.state, false
	case domain.OverlayDetail:
		if c.cameFrom != nil {
			c.state.Overlay = *c.cameFrom
			c.cameFrom = nil
			return c.state, true
		}
	}
	c.state.Overlay = domain.Overlay{}
	c.cameFrom = nil
	return c.state, true
}

// Reset returns to Tab(Home) with no overlay.
func (c *Coordinator) Reset() domain.NavigationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = domain.NavigationState{ActiveTab: domain.TabHome}
	c.cameFrom = nil
	return c.state
}

// Breadcrumb renders the state for a status bar, e.g. "Categories > Dessert > Tiramisu".
func (c *Coordinator) Breadcrumb() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.describe()
}

func (c *Coordinator) describe() string {
	parts := []string{c.state.ActiveTab.String()}
	if c.cameFrom != nil {
		parts = append(parts, c.cameFrom.Category)
	}
	switch c.state.Overlay.Kind {
	case domain.OverlayCategory:
		parts = append(parts, c.state.Overlay.Category)
	case domain.OverlayDetail:
		parts = append(parts, c.state.Overlay.Recipe.Title)
	}
	return strings.Join(parts, " > ")
}
