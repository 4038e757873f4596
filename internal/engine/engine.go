// Package engine implements the session controller: every user action is a
// short script over navigation, the recipe source, and the store mutator.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/hammamikhairi/recipemate/internal/domain"
	"github.com/hammamikhairi/recipemate/internal/fetch"
	"github.com/hammamikhairi/recipemate/internal/logger"
	"github.com/hammamikhairi/recipemate/internal/navigation"
	"github.com/hammamikhairi/recipemate/internal/persist"
	"github.com/hammamikhairi/recipemate/internal/recipe"
)

// Messages shown in place of a list or as notifications.
const (
	MsgNoRecipes   = "No recipes found. Try a different search."
	MsgNoSaved     = "No saved recipes."
	MsgNoShopping  = "No items in the shopping list."
	MsgNoProfile   = "No profile found."
	MsgSignedOut   = "Signed out successfully"
	MsgNeedsSignIn = "Please sign in to see your profile."
	MsgEmptyLabel  = "Enter an item name"

	MsgDetailFailed = "Failed to fetch instructions"
)

// Option configures the controller.
type Option func(*Controller)

// WithFetchObserver reports every view fetch to o.
func WithFetchObserver(o fetch.Observer) Option {
	return func(c *Controller) { c.fetchObs = o }
}

// WithMutationObserver reports every store mutation to o.
func WithMutationObserver(o persist.Observer) Option {
	return func(c *Controller) { c.mutObs = o }
}

// WithDetailListener calls fn whenever a detail fetch for the open overlay
// settles. fn runs on the fetching goroutine.
func WithDetailListener(fn func(DetailView)) Option {
	return func(c *Controller) { c.onDetail = fn }
}

// Deps are the collaborators a Controller is built from.
type Deps struct {
	Source   *recipe.Source
	Store    domain.DocumentStore
	Identity domain.IdentityProvider
	Notifier domain.Notifier
}

// DetailView is a snapshot of the open detail overlay.
type DetailView struct {
	Details domain.RecipeDetails
	Loading bool
	Saved   bool
	CanSave bool
}

// Controller owns the per-view state tables and the navigation state for one
// session. Safe for concurrent use: fetches for one view are ordered by the
// guards, and fetches for different views are independent.
type Controller struct {
	source   *recipe.Source
	store    domain.DocumentStore
	identity domain.IdentityProvider
	notifier domain.Notifier
	nav      *navigation.Coordinator
	mutator  *persist.Mutator
	log      *logger.Logger

	fetchObs fetch.Observer
	mutObs   persist.Observer
	onDetail func(DetailView)

	recipes  *fetch.Guard[domain.RecipeSummary] // home, saved, categories
	shopping *fetch.Guard[domain.ShoppingItem]
	profile  *fetch.Guard[domain.Profile]

	mu            sync.Mutex
	lastQuery     string
	categoryNames map[domain.ViewKey]string
	detail        *detailState
	loads         sync.WaitGroup // background detail fetches
}

type detailState struct {
	gen     uint64
	details domain.RecipeDetails
	loading bool
	session *persist.DetailSession
}

// New creates a controller with the given dependencies and options.
func New(deps Deps, log *logger.Logger, opts ...Option) *Controller {
	c := &Controller{
		source:        deps.Source,
		store:         deps.Store,
		identity:      deps.Identity,
		notifier:      deps.Notifier,
		nav:           navigation.NewCoordinator(log.WithField("component", "nav")),
		log:           log,
		categoryNames: make(map[domain.ViewKey]string),
	}
	for _, opt := range opts {
		opt(c)
	}

	var mutOpts []persist.Option
	if c.mutObs != nil {
		mutOpts = append(mutOpts, persist.WithObserver(c.mutObs))
	}
	c.mutator = persist.NewMutator(deps.Store, deps.Notifier, log.WithField("component", "persist"), mutOpts...)

	guardOpts := []fetch.Option{
		fetch.WithEmptyMessage(c.emptyMessage),
		fetch.WithErrorMessage(errorMessage),
	}
	if c.fetchObs != nil {
		guardOpts = append(guardOpts, fetch.WithObserver(c.fetchObs))
	}
	glog := log.WithField("component", "fetch")
	c.recipes = fetch.New[domain.RecipeSummary](glog, guardOpts...)
	c.shopping = fetch.New[domain.ShoppingItem](glog, guardOpts...)
	c.profile = fetch.New[domain.Profile](glog, guardOpts...)

	c.recipes.Ensure(domain.ViewHome, domain.ViewSaved)
	c.shopping.Ensure(domain.ViewShopping)
	c.profile.Ensure(domain.ViewProfile)
	return c
}

// ── Fetching views ───────────────────────────────────────────────

// Search runs a query into the Home view. A blank query browses the store's
// recipe collection. With no overlay showing, the Home tab is selected.
func (c *Controller) Search(ctx context.Context, query string) fetch.Result[domain.RecipeSummary] {
	if c.nav.State().Overlay.Kind == domain.OverlayNone {
		c.nav.SelectTab(domain.TabHome)
	}
	return c.LoadHome(ctx, query)
}

// LoadHome runs a query into the Home view without touching navigation.
func (c *Controller) LoadHome(ctx context.Context, query string) fetch.Result[domain.RecipeSummary] {
	c.mu.Lock()
	c.lastQuery = query
	c.mu.Unlock()

	return c.recipes.Run(ctx, domain.ViewHome, func(ctx context.Context) ([]domain.RecipeSummary, error) {
		return c.source.SearchByQuery(ctx, query)
	})
}

// LoadSaved refreshes the Saved view and the local saved index.
func (c *Controller) LoadSaved(ctx context.Context) fetch.Result[domain.RecipeSummary] {
	res := c.recipes.Run(ctx, domain.ViewSaved, c.source.LoadSaved)
	if res.Applied && res.Err == nil {
		c.mutator.SyncSaved(res.State.Items)
	}
	return res
}

// LoadShopping refreshes the Shopping view. Documents with equal labels are
// shown once.
func (c *Controller) LoadShopping(ctx context.Context) fetch.Result[domain.ShoppingItem] {
	return c.shopping.Run(ctx, domain.ViewShopping, func(ctx context.Context) ([]domain.ShoppingItem, error) {
		docs, err := c.store.ListAll(ctx, domain.CollectionShoppingList)
		if err != nil {
			return nil, domain.StoreFailure("list shopping", err)
		}
		seen := make(map[string]bool, len(docs))
		var out []domain.ShoppingItem
		for _, d := range docs {
			label := d.Fields[domain.FieldItem]
			if seen[label] {
				continue
			}
			seen[label] = true
			out = append(out, domain.ShoppingItem{RemoteID: d.ID, Label: label})
		}
		return out, nil
	})
}

// LoadProfile reads users/<uid> for the signed-in user.
func (c *Controller) LoadProfile(ctx context.Context) fetch.Result[domain.Profile] {
	return c.profile.Run(ctx, domain.ViewProfile, func(ctx context.Context) ([]domain.Profile, error) {
		uid, err := c.identity.CurrentUserID(ctx)
		if err != nil {
			return nil, err
		}
		doc, err := c.store.Get(ctx, domain.CollectionUsers, uid)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, domain.StoreFailure("load profile", err)
		}
		return []domain.Profile{{
			UserID:   uid,
			UserName: doc.Fields["userName"],
			Email:    doc.Fields["email"],
		}}, nil
	})
}

// LoadCategory fetches the recipes of a category view.
func (c *Controller) LoadCategory(ctx context.Context, name string) fetch.Result[domain.RecipeSummary] {
	return c.recipes.Run(ctx, domain.CategoryView(name), func(ctx context.Context) ([]domain.RecipeSummary, error) {
		return c.source.SearchByCategory(ctx, name)
	})
}

// LoadTab loads the data behind tab and reports whether a result was
// applied. Home is loaded only while it has never been loaded; Categories
// has nothing to load.
func (c *Controller) LoadTab(ctx context.Context, tab domain.Tab) bool {
	switch tab {
	case domain.TabHome:
		if c.recipes.State(domain.ViewHome).Status == domain.StatusIdle {
			return c.LoadHome(ctx, "").Applied
		}
	case domain.TabSaved:
		return c.LoadSaved(ctx).Applied
	case domain.TabShopping:
		return c.LoadShopping(ctx).Applied
	case domain.TabProfile:
		return c.LoadProfile(ctx).Applied
	}
	return false
}

// ── Navigation ───────────────────────────────────────────────────
//
// Each transition comes in two forms: SwitchTab and OpenCategory only move,
// and the caller runs the matching Load* wherever it likes; SelectTab and
// BrowseCategory do both in sequence.

// SwitchTab changes tabs without loading anything.
func (c *Controller) SwitchTab(tab domain.Tab) (domain.NavigationState, error) {
	return c.nav.SelectTab(tab)
}

// SelectTab switches tabs and loads the tab's data.
func (c *Controller) SelectTab(ctx context.Context, tab domain.Tab) (domain.NavigationState, error) {
	state, err := c.SwitchTab(tab)
	if err != nil {
		return state, err
	}
	c.LoadTab(ctx, tab)
	return state, nil
}

// OpenCategory shows a Category overlay without loading it.
func (c *Controller) OpenCategory(name string) (domain.NavigationState, error) {
	state, err := c.nav.OpenCategory(name)
	if err != nil {
		return state, err
	}
	c.mu.Lock()
	c.categoryNames[domain.CategoryView(state.Overlay.Category)] = state.Overlay.Category
	c.mu.Unlock()
	return state, nil
}

// BrowseCategory opens a Category overlay and fetches its recipes.
func (c *Controller) BrowseCategory(ctx context.Context, name string) (fetch.Result[domain.RecipeSummary], error) {
	state, err := c.OpenCategory(name)
	if err != nil {
		return fetch.Result[domain.RecipeSummary]{}, err
	}
	return c.LoadCategory(ctx, state.Overlay.Category), nil
}

// OpenDetail shows the detail overlay and returns at once. Instructions are
// fetched in the background; the detail listener hears when they land. A
// failed fetch leaves the previous or cached instructions in place.
func (c *Controller) OpenDetail(ctx context.Context, summary domain.RecipeSummary) (DetailView, error) {
	if _, err := c.nav.OpenRecipe(summary); err != nil {
		return DetailView{}, err
	}

	initial := domain.RecipeDetails{RecipeSummary: summary}
	if cached, ok := c.source.CachedDetails(summary.ID); ok && summary.HasExternalID() {
		initial.Instructions = cached.Instructions
	}

	c.mu.Lock()
	gen := c.nextDetailGenLocked()
	c.detail = &detailState{
		gen:     gen,
		details: initial,
		loading: summary.HasExternalID(),
		session: c.mutator.OpenDetail(summary),
	}
	c.mu.Unlock()

	if summary.HasExternalID() {
		c.loads.Add(1)
		go func() {
			defer c.loads.Done()
			c.loadDetail(ctx, gen, summary)
		}()
	}
	view, _ := c.Detail()
	return view, nil
}

// loadDetail fetches instructions for the detail overlay generation gen.
// The result is dropped if the overlay was closed or replaced meanwhile.
func (c *Controller) loadDetail(ctx context.Context, gen uint64, summary domain.RecipeSummary) {
	details, err := c.source.FetchDetails(ctx, summary)

	c.mu.Lock()
	current := c.detail != nil && c.detail.gen == gen
	if current {
		c.detail.loading = false
		if details.Instructions != nil {
			c.detail.details.Instructions = details.Instructions
		}
	}
	c.mu.Unlock()

	if !current {
		c.log.Debug("detail %s settled after the overlay changed; discarding", summary.Key())
		return
	}
	if err != nil {
		c.log.Warn("instructions for %q unavailable: %v", summary.Title, err)
		c.notify(ctx, MsgDetailFailed, false)
	}
	if c.onDetail != nil {
		if view, ok := c.Detail(); ok {
			c.onDetail(view)
		}
	}
}

func (c *Controller) nextDetailGenLocked() uint64 {
	if c.detail == nil {
		return 1
	}
	return c.detail.gen + 1
}

// closeDetailLocked drops the detail session and supersedes its fetch.
func (c *Controller) closeDetailLocked() {
	if c.detail != nil {
		c.detail = &detailState{gen: c.detail.gen + 1}
	}
}

// Detail returns the open detail overlay, if any.
func (c *Controller) Detail() (DetailView, bool) {
	if c.nav.State().Overlay.Kind != domain.OverlayDetail {
		return DetailView{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.detail
	if d == nil || d.session == nil {
		return DetailView{}, false
	}
	return DetailView{
		Details: d.details,
		Loading: d.loading,
		Saved:   d.session.IsSaved(),
		CanSave: d.session.CanSave(),
	}, true
}

// Back closes the innermost overlay. Leaving a detail overlay discards its
// save session and any fetch still in flight for it.
func (c *Controller) Back() (domain.NavigationState, bool) {
	before := c.nav.State().Overlay.Kind
	state, ok := c.nav.Back()
	if ok && before == domain.OverlayDetail {
		c.mu.Lock()
		c.closeDetailLocked()
		c.mu.Unlock()
	}
	return state, ok
}

// Refresh reloads whatever view is on screen and waits for it.
func (c *Controller) Refresh(ctx context.Context) {
	state := c.nav.State()
	switch state.Overlay.Kind {
	case domain.OverlayDetail:
		c.mu.Lock()
		if c.detail == nil || c.detail.session == nil {
			c.mu.Unlock()
			return
		}
		c.detail.gen++
		c.detail.loading = state.Overlay.Recipe.HasExternalID()
		gen := c.detail.gen
		c.mu.Unlock()
		c.loadDetail(ctx, gen, state.Overlay.Recipe)
		return
	case domain.OverlayCategory:
		c.LoadCategory(ctx, state.Overlay.Category)
		return
	}
	switch state.ActiveTab {
	case domain.TabHome:
		c.mu.Lock()
		q := c.lastQuery
		c.mu.Unlock()
		c.LoadHome(ctx, q)
	case domain.TabSaved:
		c.LoadSaved(ctx)
	case domain.TabShopping:
		c.LoadShopping(ctx)
	case domain.TabProfile:
		c.LoadProfile(ctx)
	}
}

// ── Mutations ────────────────────────────────────────────────────

// ToggleSaved saves the recipe in the open detail overlay. It does nothing
// after the first successful save in that overlay.
func (c *Controller) ToggleSaved(ctx context.Context) (bool, error) {
	c.mu.Lock()
	d := c.detail
	c.mu.Unlock()
	if d == nil || d.session == nil || c.nav.State().Overlay.Kind != domain.OverlayDetail {
		return false, fmt.Errorf("save: no recipe open: %w", domain.ErrInvalidTransition)
	}

	saved, err := d.session.Save(ctx)
	if err != nil || !saved {
		return saved, err
	}
	summary := d.session.Summary()
	c.recipes.Update(domain.ViewSaved, func(items []domain.RecipeSummary) []domain.RecipeSummary {
		return append(items, summary)
	})
	return true, nil
}

// AddShoppingItem adds label to the shopping list and shows it immediately.
func (c *Controller) AddShoppingItem(ctx context.Context, label string) error {
	id, err := c.mutator.AddShoppingItem(ctx, label)
	if errors.Is(err, domain.ErrInvalidInput) {
		c.notify(ctx, MsgEmptyLabel, true)
		return err
	}
	if err != nil {
		return err
	}
	label = strings.TrimSpace(label)
	c.shopping.Update(domain.ViewShopping, func(items []domain.ShoppingItem) []domain.ShoppingItem {
		for _, it := range items {
			if it.Label == label {
				return items
			}
		}
		return append(items, domain.ShoppingItem{RemoteID: id, Label: label})
	})
	return nil
}

// RemoveShoppingItem deletes every entry labelled label and drops it from view.
func (c *Controller) RemoveShoppingItem(ctx context.Context, label string) error {
	err := c.mutator.RemoveShoppingItem(ctx, label)
	if errors.Is(err, domain.ErrInvalidInput) {
		c.notify(ctx, MsgEmptyLabel, true)
		return err
	}
	if err != nil {
		return err
	}
	label = strings.TrimSpace(label)
	c.shopping.Update(domain.ViewShopping, func(items []domain.ShoppingItem) []domain.ShoppingItem {
		out := items[:0:0]
		for _, it := range items {
			if it.Label != label {
				out = append(out, it)
			}
		}
		return out
	})
	return nil
}

// SignOut signs the user out and returns to the Home tab.
func (c *Controller) SignOut(ctx context.Context) error {
	if err := c.identity.SignOut(ctx); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	c.mu.Lock()
	c.closeDetailLocked()
	c.mu.Unlock()

	c.nav.Reset()
	c.profile.Reset(domain.ViewProfile)
	c.notify(ctx, MsgSignedOut, false)
	c.log.Info("signed out")
	return nil
}

// ── Read side ────────────────────────────────────────────────────

// Navigation returns the navigation state.
func (c *Controller) Navigation() domain.NavigationState { return c.nav.State() }

// Breadcrumb renders the navigation state for a status bar.
func (c *Controller) Breadcrumb() string { return c.nav.Breadcrumb() }

// RecipeView returns a recipe list view (Home, Saved or a category).
func (c *Controller) RecipeView(key domain.ViewKey) domain.ViewState[domain.RecipeSummary] {
	return c.recipes.State(key)
}

// ShoppingView returns the shopping list view.
func (c *Controller) ShoppingView() domain.ViewState[domain.ShoppingItem] {
	return c.shopping.State(domain.ViewShopping)
}

// ProfileView returns the profile view.
func (c *Controller) ProfileView() domain.ViewState[domain.Profile] {
	return c.profile.State(domain.ViewProfile)
}

// ActiveStatus returns the fetch status of the view on screen.
func (c *Controller) ActiveStatus() domain.ViewStatus {
	key := c.nav.State().ActiveView()
	switch key {
	case domain.ViewShopping:
		if c.Busy(persist.OpAddItem) || c.Busy(persist.OpRemoveItem) {
			return domain.StatusLoading
		}
		return c.ShoppingView().Status
	case domain.ViewProfile:
		return c.ProfileView().Status
	case domain.ViewCategories:
		return domain.StatusSuccess
	case domain.ViewDetail:
		if d, ok := c.Detail(); ok && d.Loading || c.Busy(persist.OpSave) {
			return domain.StatusLoading
		}
		return domain.StatusSuccess
	default:
		return c.recipes.State(key).Status
	}
}

// Busy reports whether a store mutation of kind op is in flight. The
// client uses it to refuse a second add or remove while one is pending.
func (c *Controller) Busy(op persist.Op) bool { return c.mutator.Busy(op) }

// VisibleRecipes returns the recipe list on screen, or nil when the active
// view is not a recipe list.
func (c *Controller) VisibleRecipes() []domain.RecipeSummary {
	key := c.nav.State().ActiveView()
	if key == domain.ViewHome || key == domain.ViewSaved || key.IsCategory() {
		return c.recipes.State(key).Items
	}
	return nil
}

func (c *Controller) emptyMessage(key domain.ViewKey) string {
	switch {
	case key == domain.ViewSaved:
		return MsgNoSaved
	case key == domain.ViewShopping:
		return MsgNoShopping
	case key == domain.ViewProfile:
		return MsgNoProfile
	case key.IsCategory():
		c.mu.Lock()
		name := c.categoryNames[key]
		c.mu.Unlock()
		return fmt.Sprintf("No recipes found for %q.", name)
	default:
		return MsgNoRecipes
	}
}

func errorMessage(_ domain.ViewKey, err error) string {
	switch domain.KindOf(err) {
	case domain.KindSourceUnavailable:
		return "Recipe service unavailable: " + domain.Cause(err)
	case domain.KindStoreUnavailable:
		return "Could not reach your data: " + domain.Cause(err)
	case domain.KindNotAuthenticated:
		return MsgNeedsSignIn
	default:
		return err.Error()
	}
}

func (c *Controller) notify(ctx context.Context, msg string, urgent bool) {
	if c.notifier == nil {
		return
	}
	var err error
	if urgent {
		err = c.notifier.NotifyUrgent(ctx, msg)
	} else {
		err = c.notifier.Notify(ctx, msg)
	}
	if err != nil {
		c.log.Warn("notify %q: %v", msg, err)
	}
}
