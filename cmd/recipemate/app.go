package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/hammamikhairi/recipemate/internal/conversation"
	"github.com/hammamikhairi/recipemate/internal/display"
	"github.com/hammamikhairi/recipemate/internal/domain"
	"github.com/hammamikhairi/recipemate/internal/engine"
	"github.com/hammamikhairi/recipemate/internal/logger"
	"github.com/hammamikhairi/recipemate/internal/metrics"
	"github.com/hammamikhairi/recipemate/internal/navigation"
	"github.com/hammamikhairi/recipemate/internal/persist"
)

// Profile-tab notices.
var notices = map[string][]string{
	"about": {
		"RecipeMate helps you find recipes, save favourites and keep a shopping list.",
		"Recipe data comes from an external search service; your lists live in your own store.",
	},
	"privacy": {
		"We store your saved recipes, shopping list and profile (name and email) in the configured store.",
		"Search queries are sent to the recipe service. Nothing else leaves your machine.",
	},
	"gdpr": {
		"You can ask for a copy of your data or for its deletion at any time.",
		"Signing out removes your session from this device; stored documents stay until deleted.",
	},
}

// cliApp runs navigation on the input loop and every fetch or store write on
// its own goroutine, so a slow request never holds up 'back'.
type cliApp struct {
	ctl     *engine.Controller
	parser  *conversation.CommandParser
	metrics *metrics.Collector
	log     *logger.Logger
	ui      *display.UI

	renderMu sync.Mutex
}

func (a *cliApp) run(ctx context.Context) {
	a.ui.PrintChat("Welcome! Search for something, or pick a tab: home, categories, saved, shopping, profile.")
	a.ctl.Search(ctx, "")
	a.render()

	uiCh := a.ui.InputChan()
	for {
		var input string
		select {
		case <-ctx.Done():
			return
		case v, ok := <-uiCh:
			if !ok {
				return
			}
			input = v
		}

		intent, err := a.parser.Parse(ctx, input)
		if err != nil {
			a.log.Error("parsing input: %v", err)
			continue
		}
		a.log.Debug("intent: %s (payload=%q)", intent.Type, intent.Payload)
		if intent.Type == domain.IntentQuit {
			a.ui.PrintChat("Bye!")
			return
		}
		a.handleIntent(ctx, intent)
	}
}

func (a *cliApp) handleIntent(ctx context.Context, intent *domain.Intent) {
	switch intent.Type {
	case domain.IntentHelp:
		a.showHelp()
	case domain.IntentSearch:
		if a.ctl.Navigation().Overlay.Kind == domain.OverlayNone {
			a.ctl.SwitchTab(domain.TabHome)
		}
		// A newer search supersedes this one.
		a.load(domain.ViewHome, func() bool { return a.ctl.LoadHome(ctx, intent.Payload).Applied })
	case domain.IntentSelectTab:
		a.selectTab(ctx, intent.Payload)
	case domain.IntentOpen:
		a.open(ctx, intent.Payload)
	case domain.IntentCategory:
		a.browseCategory(ctx, intent.Payload)
	case domain.IntentBack:
		if _, ok := a.ctl.Back(); !ok {
			a.ui.PrintHint("Nothing to go back to.")
			return
		}
		a.render()
	case domain.IntentSave:
		if a.ctl.Busy(persist.OpSave) {
			a.ui.PrintHint("Still saving...")
			return
		}
		go a.save(ctx)
	case domain.IntentAddItem:
		a.mutateShopping(persist.OpAddItem, func() error { return a.ctl.AddShoppingItem(ctx, intent.Payload) })
	case domain.IntentRemoveItem:
		a.mutateShopping(persist.OpRemoveItem, func() error { return a.ctl.RemoveShoppingItem(ctx, intent.Payload) })
	case domain.IntentRefresh:
		go func() {
			a.ctl.Refresh(ctx)
			a.render()
		}()
	case domain.IntentList:
		a.render()
	case domain.IntentSignOut:
		if err := a.ctl.SignOut(ctx); err != nil {
			a.ui.PrintUrgent(err.Error())
			return
		}
		a.render()
	case domain.IntentInfo:
		a.ui.PrintHeading(strings.ToUpper(intent.Payload[:1]) + intent.Payload[1:])
		for _, l := range notices[intent.Payload] {
			a.ui.PrintText(l)
		}
	default:
		if intent.Payload != "" {
			a.ui.PrintHint(fmt.Sprintf("Unknown command %q. Type 'help' for commands.", truncateStr(intent.Payload, 40)))
		}
	}
}

func (a *cliApp) selectTab(ctx context.Context, name string) {
	tab, ok := domain.TabFromString(name)
	if !ok {
		a.ui.PrintHint("Unknown tab " + name)
		return
	}
	state, err := a.ctl.SwitchTab(tab)
	if err != nil {
		a.transitionError(err)
		return
	}
	a.load(state.ActiveView(), func() bool { return a.ctl.LoadTab(ctx, tab) })
}

func (a *cliApp) browseCategory(ctx context.Context, name string) {
	state, err := a.ctl.OpenCategory(name)
	if err != nil {
		a.transitionError(err)
		return
	}
	category := state.Overlay.Category
	a.load(domain.CategoryView(category), func() bool { return a.ctl.LoadCategory(ctx, category).Applied })
}

// load shows the view now and again once fetch has applied a result, if
// the user is still looking at it.
func (a *cliApp) load(key domain.ViewKey, fetch func() bool) {
	a.renderIf(key)
	go func() {
		if fetch() {
			a.renderIf(key)
		}
	}()
}

// mutateShopping runs a shopping list write in the background. A second
// write of the same kind is refused while one is in flight.
func (a *cliApp) mutateShopping(op persist.Op, write func() error) {
	if a.ctl.Busy(op) {
		a.ui.PrintHint("Still updating the shopping list...")
		return
	}
	go func() {
		if err := write(); err == nil {
			a.renderIf(domain.ViewShopping)
		}
	}()
}

// detailSettled re-renders the detail overlay once its instructions land.
func (a *cliApp) detailSettled(engine.DetailView) {
	a.renderIf(domain.ViewDetail)
}

// open picks the Nth entry of the list on screen: a recipe, or a category
// on the Categories tab.
func (a *cliApp) open(ctx context.Context, payload string) {
	n, err := strconv.Atoi(payload)
	if err != nil || n < 1 {
		a.ui.PrintHint("Pick a number from the list.")
		return
	}

	if a.ctl.Navigation().ActiveView() == domain.ViewCategories {
		cats := navigation.Categories()
		if n > len(cats) {
			a.ui.PrintHint(fmt.Sprintf("Pick a number between 1 and %d.", len(cats)))
			return
		}
		a.browseCategory(ctx, cats[n-1])
		return
	}

	items := a.ctl.VisibleRecipes()
	if n > len(items) {
		if len(items) == 0 {
			a.ui.PrintHint("There is nothing to open here.")
		} else {
			a.ui.PrintHint(fmt.Sprintf("Pick a number between 1 and %d.", len(items)))
		}
		return
	}
	if _, err := a.ctl.OpenDetail(ctx, items[n-1]); err != nil {
		a.transitionError(err)
		return
	}
	a.render()
}

func (a *cliApp) save(ctx context.Context) {
	saved, err := a.ctl.ToggleSaved(ctx)
	switch {
	case errors.Is(err, domain.ErrInvalidTransition):
		a.ui.PrintHint("Open a recipe first.")
	case err == nil && saved:
		a.renderIf(domain.ViewDetail)
	case err != nil:
		// The failure notification has already been shown.
	case !saved:
		a.ui.PrintHint("Already saved.")
	}
}

func (a *cliApp) transitionError(err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidTransition):
		a.ui.PrintHint("Not from here. Use 'back' first, or open the Categories tab for categories.")
	case errors.Is(err, domain.ErrInvalidInput):
		a.ui.PrintHint("That needs a name.")
	default:
		a.ui.PrintUrgent(err.Error())
	}
}

// renderIf re-renders when key is the view on screen.
func (a *cliApp) renderIf(key domain.ViewKey) {
	if a.ctl.Navigation().ActiveView() == key {
		a.render()
	}
}

// render prints the view on screen.
func (a *cliApp) render() {
	a.renderMu.Lock()
	defer a.renderMu.Unlock()

	nav := a.ctl.Navigation()
	key := nav.ActiveView()
	a.ui.Println("")

	switch {
	case key == domain.ViewDetail:
		a.renderDetail()
	case key == domain.ViewCategories:
		a.ui.PrintHeading("Categories")
		for i, c := range navigation.Categories() {
			a.ui.PrintItem(i+1, c, "")
		}
	case key == domain.ViewShopping:
		v := a.ctl.ShoppingView()
		a.ui.PrintHeading("Shopping list")
		if a.renderStatus(v.Status, v.ErrorMessage, len(v.Items)) {
			for i, it := range v.Items {
				a.ui.PrintItem(i+1, it.Label, "")
			}
		}
	case key == domain.ViewProfile:
		v := a.ctl.ProfileView()
		a.ui.PrintHeading("Profile")
		if a.renderStatus(v.Status, v.ErrorMessage, len(v.Items)) && len(v.Items) > 0 {
			a.ui.PrintText("Name:  " + v.Items[0].UserName)
			a.ui.PrintText("Email: " + v.Items[0].Email)
		}
		a.ui.PrintHint("about / privacy / gdpr / sign out")
	default:
		title := nav.ActiveTab.String()
		if nav.Overlay.Kind == domain.OverlayCategory {
			title = nav.Overlay.Category
		}
		v := a.ctl.RecipeView(key)
		a.ui.PrintHeading(title)
		if a.renderStatus(v.Status, v.ErrorMessage, len(v.Items)) {
			for i, r := range v.Items {
				meta := ""
				if !r.HasExternalID() {
					meta = "(from your collection)"
				}
				a.ui.PrintItem(i+1, r.Title, meta)
			}
		}
	}
}

// renderStatus prints loading and error lines and reports whether the
// items should be listed. A failed refresh keeps showing the last list.
func (a *cliApp) renderStatus(status domain.ViewStatus, msg string, n int) bool {
	switch status {
	case domain.StatusIdle:
		a.ui.PrintHint("Nothing loaded yet. Type 'refresh'.")
		return false
	case domain.StatusLoading:
		a.ui.PrintHint("Loading...")
		return n > 0
	case domain.StatusError:
		a.ui.PrintUrgent(msg)
		return n > 0
	}
	return true
}

func (a *cliApp) renderDetail() {
	d, ok := a.ctl.Detail()
	if !ok {
		return
	}
	a.ui.PrintHeading(d.Details.Title)
	if d.Details.ImageURL != "" {
		a.ui.PrintHint(d.Details.ImageURL)
	}
	if d.Loading {
		a.ui.PrintHint("Loading instructions...")
	}
	a.ui.PrintText(d.Details.InstructionsText())
	switch {
	case d.Saved:
		a.ui.PrintHint("Saved. 'back' to return.")
	case d.CanSave:
		a.ui.PrintHint("'save' to keep it, 'back' to return.")
	}
}

func (a *cliApp) showHelp() {
	a.ui.PrintHeading("Commands:")
	a.ui.PrintText("search <text>     Search recipes (blank: browse your collection)")
	a.ui.PrintText("home / categories / saved / shopping / profile   Switch tabs")
	a.ui.PrintText("1, 2, 3...        Open an entry from the list")
	a.ui.PrintText("category <name>   Browse a category (from the Categories tab)")
	a.ui.PrintText("back (or Esc)     Close the recipe or category")
	a.ui.PrintText("save              Save the open recipe")
	a.ui.PrintText("add <item>        Add to the shopping list")
	a.ui.PrintText("remove <item>     Remove every matching shopping item")
	a.ui.PrintText("refresh / ls      Reload / reprint the current view")
	a.ui.PrintText("about / privacy / gdpr / sign out")
	a.ui.PrintText("quit              Exit")
}

// logMetrics writes the session's counters to the log on exit.
func (a *cliApp) logMetrics() {
	families, err := a.metrics.Registry().Gather()
	if err != nil {
		a.log.Warn("gathering metrics: %v", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			value := m.GetCounter().GetValue()
			if m.GetGauge() != nil {
				value = m.GetGauge().GetValue()
			}
			a.log.Info("metric %s{%s} %g", mf.GetName(), strings.Join(labels, ","), value)
		}
	}
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
