package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/hammamikhairi/recipemate/internal/domain"
	"github.com/hammamikhairi/recipemate/internal/identity"
	"github.com/hammamikhairi/recipemate/internal/logger"
	"github.com/hammamikhairi/recipemate/internal/persist"
	"github.com/hammamikhairi/recipemate/internal/recipe"
	"github.com/hammamikhairi/recipemate/internal/storage"
)

// stubSearch answers from canned maps and counts calls. A query listed in
// gates blocks until its channel is closed.
type stubSearch struct {
	mu           sync.Mutex
	byQuery      map[string][]domain.RecipeSummary
	byCategory   map[string][]domain.RecipeSummary
	instructions map[string]string
	fail         error
	failDetails  error
	gates        map[string]chan struct{}
	detailGates  map[string]chan struct{}
	started      chan string
	calls        int
	detailCalls  int
}

func newStubSearch() *stubSearch {
	return &stubSearch{
		byQuery:      make(map[string][]domain.RecipeSummary),
		byCategory:   make(map[string][]domain.RecipeSummary),
		instructions: make(map[string]string),
		gates:        make(map[string]chan struct{}),
		detailGates:  make(map[string]chan struct{}),
	}
}

func (s *stubSearch) Search(ctx context.Context, q string) ([]domain.RecipeSummary, error) {
	s.mu.Lock()
	s.calls++
	gate := s.gates[q]
	out, fail := s.byQuery[q], s.fail
	s.mu.Unlock()

	if s.started != nil {
		s.started <- q
	}
	if gate != nil {
		<-gate
	}
	return out, fail
}

func (s *stubSearch) SearchByCategory(ctx context.Context, c string) ([]domain.RecipeSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.byCategory[c], s.fail
}

func (s *stubSearch) Details(ctx context.Context, id string) (*domain.RecipeDetails, error) {
	s.mu.Lock()
	s.detailCalls++
	gate := s.detailGates[id]
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDetails != nil {
		return nil, s.failDetails
	}
	text := s.instructions[id]
	return &domain.RecipeDetails{RecipeSummary: domain.NewRecipeSummary(id, "", ""), Instructions: &text}, nil
}

func (s *stubSearch) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (n *recordingNotifier) Notify(_ context.Context, msg string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
	return nil
}

func (n *recordingNotifier) NotifyUrgent(ctx context.Context, msg string) error {
	return n.Notify(ctx, msg)
}

func (n *recordingNotifier) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.msgs) == 0 {
		return ""
	}
	return n.msgs[len(n.msgs)-1]
}

type fixture struct {
	ctl      *Controller
	search   *stubSearch
	store    *storage.MemoryStore
	notifier *recordingNotifier
	ident    *identity.Static
}

func setupController(t *testing.T, opts ...Option) (*fixture, context.Context) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	search := newStubSearch()
	store := storage.NewMemoryStore(log)
	src, err := recipe.NewSource(search, store, log)
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	n := &recordingNotifier{}
	ident := identity.NewStatic("uid-1")
	ctl := New(Deps{Source: src, Store: store, Identity: ident, Notifier: n}, log, opts...)
	return &fixture{ctl: ctl, search: search, store: store, notifier: n, ident: ident}, context.Background()
}

func pastaResults() []domain.RecipeSummary {
	return []domain.RecipeSummary{
		domain.NewRecipeSummary("716429", "Pasta with Garlic", "a.jpg"),
		domain.NewRecipeSummary("715538", "Bruschetta Pasta", "b.jpg"),
		domain.NewRecipeSummary("642583", "Farfalle", "c.jpg"),
	}
}

func TestSearchThenBlankQueryUsesStore(t *testing.T) {
	f, ctx := setupController(t)
	f.search.byQuery["pasta"] = pastaResults()
	f.store.Add(ctx, domain.CollectionRecipes, map[string]string{"title": "Stored Soup"})

	res := f.ctl.Search(ctx, "pasta")
	if res.State.Status != domain.StatusSuccess || len(res.State.Items) != 3 {
		t.Fatalf("expected success with 3 items, got %s with %d", res.State.Status, len(res.State.Items))
	}
	if f.search.callCount() != 1 {
		t.Fatalf("expected 1 search call, got %d", f.search.callCount())
	}

	res = f.ctl.Search(ctx, "")
	if f.search.callCount() != 1 {
		t.Fatalf("blank query must not reach the search service, calls=%d", f.search.callCount())
	}
	if len(res.State.Items) != 1 || res.State.Items[0].Title != "Stored Soup" {
		t.Fatalf("expected store recipes, got %+v", res.State.Items)
	}
}

func TestEmptyResultVersusTransportFailure(t *testing.T) {
	f, ctx := setupController(t)
	f.search.byQuery["pasta"] = pastaResults()

	res := f.ctl.Search(ctx, "zzzznotarecipe")
	if res.State.Status != domain.StatusError || res.State.ErrKind != domain.KindEmptyResult {
		t.Fatalf("expected empty-result error, got %+v", res.State)
	}
	if res.State.ErrorMessage != MsgNoRecipes {
		t.Fatalf("unexpected empty message %q", res.State.ErrorMessage)
	}

	f.ctl.Search(ctx, "pasta")
	f.search.fail = errors.New("dial tcp: i/o timeout")
	res = f.ctl.Search(ctx, "pasta")
	if res.State.ErrKind != domain.KindSourceUnavailable {
		t.Fatalf("expected source unavailable, got %s", res.State.ErrKind)
	}
	if res.State.ErrorMessage == MsgNoRecipes {
		t.Fatal("transport failure must be distinguishable from an empty result")
	}
	if len(res.State.Items) != 3 {
		t.Fatalf("failure should retain the previous list, got %d items", len(res.State.Items))
	}
}

func TestStaleSearchIsDiscarded(t *testing.T) {
	f, ctx := setupController(t)
	f.search.byQuery["slow"] = []domain.RecipeSummary{domain.NewRecipeSummary("1", "Slow", "")}
	f.search.byQuery["fast"] = []domain.RecipeSummary{domain.NewRecipeSummary("2", "Fast", "")}
	gate := make(chan struct{})
	f.search.gates["slow"] = gate
	f.search.started = make(chan string, 2)

	slowDone := make(chan struct{})
	go func() {
		f.ctl.Search(ctx, "slow")
		close(slowDone)
	}()
	<-f.search.started

	res := f.ctl.Search(ctx, "fast")
	<-f.search.started
	if !res.Applied {
		t.Fatal("latest request should apply")
	}

	close(gate)
	<-slowDone

	got := f.ctl.RecipeView(domain.ViewHome)
	if got.Status != domain.StatusSuccess || len(got.Items) != 1 || got.Items[0].Title != "Fast" {
		t.Fatalf("stale result overwrote the newer one: %+v", got)
	}
}

func TestCategoryDetailBack(t *testing.T) {
	f, ctx := setupController(t)
	tiramisu := domain.NewRecipeSummary("639637", "Classic Tiramisu", "")
	f.search.byCategory["dessert"] = []domain.RecipeSummary{tiramisu}
	f.search.instructions["639637"] = "Layer and chill."

	if _, err := f.ctl.BrowseCategory(ctx, "Dessert"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("category from Home should be rejected, got %v", err)
	}

	if _, err := f.ctl.SelectTab(ctx, domain.TabCategories); err != nil {
		t.Fatalf("select: %v", err)
	}
	res, err := f.ctl.BrowseCategory(ctx, "Dessert")
	if err != nil {
		t.Fatalf("browse: %v", err)
	}
	if len(res.State.Items) != 1 {
		t.Fatalf("expected 1 dessert, got %d", len(res.State.Items))
	}
	if got := f.ctl.VisibleRecipes(); len(got) != 1 {
		t.Fatalf("category list should be visible, got %v", got)
	}

	if _, err := f.ctl.OpenDetail(ctx, tiramisu); err != nil {
		t.Fatalf("open: %v", err)
	}
	f.ctl.loads.Wait()
	view, _ := f.ctl.Detail()
	if view.Details.InstructionsText() != "Layer and chill." || view.Loading {
		t.Fatalf("unexpected detail view: %+v", view)
	}
	if f.ctl.Navigation().TabBarVisible() {
		t.Fatal("tab bar should be hidden under an overlay")
	}
	if _, err := f.ctl.SelectTab(ctx, domain.TabSaved); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("tab switch under overlay should fail, got %v", err)
	}

	state, _ := f.ctl.Back()
	if state.Overlay.Kind != domain.OverlayCategory || state.Overlay.Category != "Dessert" {
		t.Fatalf("expected Category(Dessert), got %+v", state)
	}
	if _, ok := f.ctl.Detail(); ok {
		t.Fatal("detail should be closed")
	}

	state, _ = f.ctl.Back()
	if state.Overlay.Kind != domain.OverlayNone || state.ActiveTab != domain.TabCategories {
		t.Fatalf("expected Tab(Categories), got %+v", state)
	}
}

func TestEmptyCategoryMessage(t *testing.T) {
	f, ctx := setupController(t)
	f.ctl.SelectTab(ctx, domain.TabCategories)

	res, err := f.ctl.BrowseCategory(ctx, "Soup")
	if err != nil {
		t.Fatalf("browse: %v", err)
	}
	if res.State.ErrorMessage != `No recipes found for "Soup".` {
		t.Fatalf("unexpected message %q", res.State.ErrorMessage)
	}
}

func TestToggleSavedOnce(t *testing.T) {
	f, ctx := setupController(t)
	r := domain.NewRecipeSummary("716429", "Pasta with Garlic", "a.jpg")

	if _, err := f.ctl.ToggleSaved(ctx); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("save without detail should fail, got %v", err)
	}

	f.ctl.OpenDetail(ctx, r)
	f.ctl.loads.Wait()
	for i, want := range []bool{true, false} {
		saved, err := f.ctl.ToggleSaved(ctx)
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		if saved != want {
			t.Fatalf("save %d: got saved=%v, want %v", i, saved, want)
		}
	}

	view, _ := f.ctl.Detail()
	if !view.Saved || view.CanSave {
		t.Fatalf("save affordance should be disabled: %+v", view)
	}
	docs, _ := f.store.ListAll(ctx, domain.CollectionSavedRecipes)
	if len(docs) != 1 {
		t.Fatalf("expected 1 saved document, got %d", len(docs))
	}
	if items := f.ctl.RecipeView(domain.ViewSaved).Items; len(items) != 1 {
		t.Fatalf("saved view should be updated optimistically, got %d", len(items))
	}
	if f.notifier.last() != persist.MsgSaved {
		t.Fatalf("unexpected notification %q", f.notifier.last())
	}

	// Reopening a known recipe starts out saved.
	f.ctl.Back()
	view, _ = f.ctl.OpenDetail(ctx, r)
	f.ctl.loads.Wait()
	if !view.Saved {
		t.Fatal("reopened recipe should be marked saved")
	}
}

func TestDetailWithoutExternalID(t *testing.T) {
	f, ctx := setupController(t)

	view, err := f.ctl.OpenDetail(ctx, domain.NewRecipeSummary("", "Stored Soup", ""))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if f.search.detailCalls != 0 {
		t.Fatal("no details call expected without an external id")
	}
	if view.Details.InstructionsText() != domain.InstructionsPending {
		t.Fatalf("expected placeholder, got %q", view.Details.InstructionsText())
	}
}

func TestDetailFailureKeepsCachedInstructions(t *testing.T) {
	f, ctx := setupController(t)
	r := domain.NewRecipeSummary("42", "Risotto", "")
	f.search.instructions["42"] = "Stir constantly."

	f.ctl.OpenDetail(ctx, r)
	f.ctl.loads.Wait()
	f.ctl.Back()

	f.search.mu.Lock()
	f.search.failDetails = errors.New("503 Service Unavailable")
	f.search.mu.Unlock()
	view, err := f.ctl.OpenDetail(ctx, r)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if view.Details.InstructionsText() != "Stir constantly." {
		t.Fatalf("cached instructions lost: %q", view.Details.InstructionsText())
	}
	f.ctl.loads.Wait()
	if f.notifier.last() != MsgDetailFailed {
		t.Fatalf("expected %q notification, got %q", MsgDetailFailed, f.notifier.last())
	}

	f.ctl.Refresh(ctx)
	view, _ = f.ctl.Detail()
	if view.Details.InstructionsText() != "Stir constantly." || view.Loading {
		t.Fatalf("refresh failure should keep instructions: %+v", view)
	}
}

func TestOpenDetailDoesNotWaitForInstructions(t *testing.T) {
	settled := make(chan DetailView, 1)
	f, ctx := setupController(t, WithDetailListener(func(v DetailView) { settled <- v }))
	r := domain.NewRecipeSummary("716429", "Pasta with Garlic", "")
	f.search.instructions["716429"] = "Boil, then toss."
	gate := make(chan struct{})
	f.search.detailGates["716429"] = gate

	view, err := f.ctl.OpenDetail(ctx, r)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !view.Loading || view.Details.Instructions != nil {
		t.Fatalf("expected a loading detail, got %+v", view)
	}
	if got := f.ctl.ActiveStatus(); got != domain.StatusLoading {
		t.Fatalf("expected loading status, got %s", got)
	}

	close(gate)
	view = <-settled
	if view.Loading || view.Details.InstructionsText() != "Boil, then toss." {
		t.Fatalf("unexpected settled detail: %+v", view)
	}
	f.ctl.loads.Wait()
}

func TestDetailFetchForReplacedRecipeIsDiscarded(t *testing.T) {
	f, ctx := setupController(t)
	slow := domain.NewRecipeSummary("1", "Slow Stew", "")
	quick := domain.NewRecipeSummary("2", "Quick Salad", "")
	f.search.instructions["1"] = "Simmer all day."
	f.search.instructions["2"] = "Toss."
	gate := make(chan struct{})
	f.search.detailGates["1"] = gate

	f.ctl.OpenDetail(ctx, slow)
	f.ctl.Back()
	if _, err := f.ctl.OpenDetail(ctx, quick); err != nil {
		t.Fatalf("open: %v", err)
	}
	close(gate)
	f.ctl.loads.Wait()

	view, ok := f.ctl.Detail()
	if !ok {
		t.Fatal("second detail should still be open")
	}
	if view.Details.Title != "Quick Salad" || view.Details.InstructionsText() != "Toss." || view.Loading {
		t.Fatalf("late result leaked into the open detail: %+v", view)
	}
}

func TestBackDuringDetailFetchDiscardsResult(t *testing.T) {
	f, ctx := setupController(t)
	r := domain.NewRecipeSummary("1", "Slow Stew", "")
	gate := make(chan struct{})
	f.search.detailGates["1"] = gate
	f.search.failDetails = errors.New("timeout")

	f.ctl.OpenDetail(ctx, r)
	if _, ok := f.ctl.Back(); !ok {
		t.Fatal("back should close the detail")
	}
	close(gate)
	f.ctl.loads.Wait()

	if _, ok := f.ctl.Detail(); ok {
		t.Fatal("closed detail came back")
	}
	if nav := f.ctl.Navigation(); nav.Overlay.Kind != domain.OverlayNone || nav.ActiveTab != domain.TabHome {
		t.Fatalf("navigation changed by a late fetch: %+v", nav)
	}
	if f.notifier.last() == MsgDetailFailed {
		t.Fatal("a discarded fetch should not notify")
	}
}

func TestNavigationWithoutLoading(t *testing.T) {
	f, ctx := setupController(t)
	f.search.byCategory["dessert"] = []domain.RecipeSummary{domain.NewRecipeSummary("639637", "Classic Tiramisu", "")}

	if _, err := f.ctl.SwitchTab(domain.TabCategories); err != nil {
		t.Fatalf("switch: %v", err)
	}
	state, err := f.ctl.OpenCategory("Dessert")
	if err != nil {
		t.Fatalf("open category: %v", err)
	}
	key := domain.CategoryView(state.Overlay.Category)
	if f.search.callCount() != 0 || f.ctl.RecipeView(key).Status != domain.StatusIdle {
		t.Fatal("moving should not fetch")
	}

	if !f.ctl.LoadCategory(ctx, state.Overlay.Category).Applied {
		t.Fatal("category load should apply")
	}
	if got := f.ctl.VisibleRecipes(); len(got) != 1 {
		t.Fatalf("expected 1 dessert, got %v", got)
	}

	f.ctl.Back()
	if f.ctl.LoadTab(ctx, domain.TabCategories) {
		t.Fatal("the Categories tab has nothing to load")
	}
}

func TestRemovingLastItemShowsEmptyMessage(t *testing.T) {
	f, ctx := setupController(t)

	if err := f.ctl.AddShoppingItem(ctx, "milk"); err != nil {
		t.Fatalf("add: %v", err)
	}
	f.ctl.LoadShopping(ctx)
	if err := f.ctl.RemoveShoppingItem(ctx, " milk "); err != nil {
		t.Fatalf("remove: %v", err)
	}

	v := f.ctl.ShoppingView()
	if v.Status != domain.StatusError || v.ErrKind != domain.KindEmptyResult || v.ErrorMessage != MsgNoShopping || len(v.Items) != 0 {
		t.Fatalf("expected the empty-list state, got %+v", v)
	}
	if docs, _ := f.store.FindWhere(ctx, domain.CollectionShoppingList, domain.FieldItem, "milk"); len(docs) != 0 {
		t.Fatalf("%d milk documents left", len(docs))
	}

	if err := f.ctl.AddShoppingItem(ctx, "eggs"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if v := f.ctl.ShoppingView(); v.Status != domain.StatusSuccess || v.ErrorMessage != "" {
		t.Fatalf("adding should restore the list, got %+v", v)
	}
}

// slowAddStore holds every Add until release is closed.
type slowAddStore struct {
	*storage.MemoryStore
	started chan struct{}
	release chan struct{}
}

func (s slowAddStore) Add(ctx context.Context, coll string, fields map[string]string) (string, error) {
	s.started <- struct{}{}
	<-s.release
	return s.MemoryStore.Add(ctx, coll, fields)
}

func TestShoppingStatusWhileAddPending(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := slowAddStore{
		MemoryStore: storage.NewMemoryStore(log),
		started:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	src, _ := recipe.NewSource(newStubSearch(), store, log)
	ctl := New(Deps{Source: src, Store: store, Identity: identity.NewStatic("u")}, log)
	ctx := context.Background()

	store.MemoryStore.Add(ctx, domain.CollectionShoppingList, map[string]string{domain.FieldItem: "eggs"})
	if _, err := ctl.SelectTab(ctx, domain.TabShopping); err != nil {
		t.Fatal(err)
	}
	if got := ctl.ActiveStatus(); got != domain.StatusSuccess {
		t.Fatalf("expected success, got %s", got)
	}

	done := make(chan error, 1)
	go func() { done <- ctl.AddShoppingItem(ctx, "milk") }()
	<-store.started
	if !ctl.Busy(persist.OpAddItem) || ctl.ActiveStatus() != domain.StatusLoading {
		t.Fatal("a pending add should show as busy")
	}

	close(store.release)
	if err := <-done; err != nil {
		t.Fatalf("add: %v", err)
	}
	if ctl.Busy(persist.OpAddItem) || ctl.ActiveStatus() != domain.StatusSuccess {
		t.Fatal("busy flag should clear")
	}
	if got := ctl.ShoppingView().Items; len(got) != 2 {
		t.Fatalf("expected 2 items, got %v", got)
	}
}

func TestShoppingList(t *testing.T) {
	f, ctx := setupController(t)

	for _, label := range []string{"milk", "milk", "eggs"} {
		if err := f.ctl.AddShoppingItem(ctx, label); err != nil {
			t.Fatalf("add %s: %v", label, err)
		}
	}
	if got := f.ctl.ShoppingView().Items; len(got) != 2 {
		t.Fatalf("expected 2 visible items, got %v", got)
	}

	res := f.ctl.LoadShopping(ctx)
	if len(res.State.Items) != 2 {
		t.Fatalf("duplicates should collapse by label, got %v", res.State.Items)
	}

	if err := f.ctl.RemoveShoppingItem(ctx, "milk"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	docs, _ := f.store.FindWhere(ctx, domain.CollectionShoppingList, domain.FieldItem, "milk")
	if len(docs) != 0 {
		t.Fatalf("expected all milk documents removed, %d left", len(docs))
	}
	if got := f.ctl.ShoppingView().Items; len(got) != 1 || got[0].Label != "eggs" {
		t.Fatalf("unexpected shopping view: %v", got)
	}
	if err := f.ctl.RemoveShoppingItem(ctx, "milk"); err != nil {
		t.Fatalf("second remove should be a no-op, got %v", err)
	}

	if err := f.ctl.AddShoppingItem(ctx, "  "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if f.notifier.last() != MsgEmptyLabel {
		t.Fatalf("unexpected notification %q", f.notifier.last())
	}
}

func TestEmptyShoppingAndSaved(t *testing.T) {
	f, ctx := setupController(t)

	if res := f.ctl.LoadShopping(ctx); res.State.ErrorMessage != MsgNoShopping {
		t.Fatalf("unexpected shopping message %q", res.State.ErrorMessage)
	}
	if _, err := f.ctl.SelectTab(ctx, domain.TabSaved); err != nil {
		t.Fatal(err)
	}
	if got := f.ctl.RecipeView(domain.ViewSaved); got.ErrorMessage != MsgNoSaved {
		t.Fatalf("unexpected saved message %q", got.ErrorMessage)
	}
}

func TestProfileAndSignOut(t *testing.T) {
	f, ctx := setupController(t)
	f.store.Put(ctx, domain.CollectionUsers, "uid-1", map[string]string{"userName": "sam", "email": "sam@example.com"})

	if _, err := f.ctl.SelectTab(ctx, domain.TabProfile); err != nil {
		t.Fatal(err)
	}
	p := f.ctl.ProfileView()
	if p.Status != domain.StatusSuccess || p.Items[0].UserName != "sam" {
		t.Fatalf("unexpected profile view: %+v", p)
	}

	if err := f.ctl.SignOut(ctx); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if f.notifier.last() != MsgSignedOut {
		t.Fatalf("unexpected notification %q", f.notifier.last())
	}
	if nav := f.ctl.Navigation(); nav.ActiveTab != domain.TabHome {
		t.Fatalf("sign out should return Home, got %s", nav.ActiveTab)
	}
	if f.ctl.ProfileView().Status != domain.StatusIdle {
		t.Fatal("profile should be idle after sign out")
	}

	res := f.ctl.LoadProfile(ctx)
	if res.State.ErrKind != domain.KindNotAuthenticated || res.State.ErrorMessage != MsgNeedsSignIn {
		t.Fatalf("expected not-authenticated state, got %+v", res.State)
	}
}

func TestStoreFailureIsStoreUnavailable(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := brokenStore{storage.NewMemoryStore(log)}
	src, _ := recipe.NewSource(newStubSearch(), store, log)
	ctl := New(Deps{Source: src, Store: store, Identity: identity.NewStatic("u")}, log)

	res := ctl.LoadSaved(context.Background())
	if res.State.ErrKind != domain.KindStoreUnavailable {
		t.Fatalf("expected store unavailable, got %s", res.State.ErrKind)
	}
}

type brokenStore struct{ *storage.MemoryStore }

func (brokenStore) ListAll(context.Context, string) ([]domain.Document, error) {
	return nil, errors.New("permission denied")
}
