// RecipeMate: search recipes, browse categories, keep favourites and a
// shopping list from the terminal.
//
// Usage:
//
//	recipemate [-verbose] [-quiet] [-log-file path] [-env file] [-migrate]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"time"

	"github.com/hammamikhairi/recipemate/internal/config"
	"github.com/hammamikhairi/recipemate/internal/conversation"
	"github.com/hammamikhairi/recipemate/internal/display"
	"github.com/hammamikhairi/recipemate/internal/domain"
	"github.com/hammamikhairi/recipemate/internal/engine"
	"github.com/hammamikhairi/recipemate/internal/identity"
	"github.com/hammamikhairi/recipemate/internal/logger"
	"github.com/hammamikhairi/recipemate/internal/metrics"
	"github.com/hammamikhairi/recipemate/internal/recipe"
	"github.com/hammamikhairi/recipemate/internal/search"
	"github.com/hammamikhairi/recipemate/internal/storage"
)

func main() {
	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", ".recipemate-logs/recipemate.log", "file to write logs to (use \"stderr\" to log to console)")
	envFile := flag.String("env", ".env", "dotenv file to read settings from")
	migrate := flag.Bool("migrate", false, "create the postgres documents table (and the local profile) before starting")
	flag.Parse()

	logLevel := logger.LevelNormal
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	// Logs go to a file by default so the prompt stays clean.
	var logOut io.Writer = os.Stderr
	if *logFile != "" && *logFile != "stderr" {
		if dir := filepath.Dir(*logFile); dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", *logFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}
	// database/sql drivers log through the standard logger.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)

	cfg, err := config.Load(*envFile)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := openStore(ctx, cfg, *migrate, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	var searchSvc domain.SearchService
	if cfg.Offline() {
		searchSvc = recipe.NewMemoryCatalog(log.WithField("component", "catalog"))
		log.Info("search: no %s set, using the offline catalog", config.EnvSearchAPIKey)
	} else {
		searchSvc = search.NewClient(cfg.SearchAPIKey, log.WithField("component", "search"),
			search.WithBaseURL(cfg.SearchURL),
			search.WithRateLimit(cfg.SearchRPS, 1),
		)
		log.Info("search: using %s", cfg.SearchURL)
	}

	source, err := recipe.NewSource(searchSvc, store, log.WithField("component", "source"),
		recipe.WithDetailCacheSize(cfg.DetailCacheSize))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ident, err := openIdentity(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	collector := metrics.NewCollector()

	// The notifier prints through the UI, which needs the controller for its
	// status bar; ui is assigned below before anything is printed.
	var ui *display.UI
	notifier := conversation.NewCLINotifier(log, func(format string, a ...any) {
		ui.Printf(format, a...)
	})

	// Detail fetches finish on their own goroutine and re-render through app.
	var app *cliApp
	ctl := engine.New(engine.Deps{
		Source:   source,
		Store:    store,
		Identity: ident,
		Notifier: notifier,
	}, log,
		engine.WithFetchObserver(collector),
		engine.WithMutationObserver(collector),
		engine.WithDetailListener(func(v engine.DetailView) {
			if app != nil {
				app.detailSettled(v)
			}
		}),
	)

	ui = display.NewUI(ctl, func() (string, bool, bool) {
		n, ok := notifier.Last(5 * time.Second)
		return n.Text, n.Urgent, ok
	})

	app = &cliApp{
		ctl:     ctl,
		parser:  conversation.NewCommandParser(log),
		metrics: collector,
		log:     log,
		ui:      ui,
	}

	fmt.Print(display.RenderBanner(display.TermWidth(), "find something good to cook"))
	fmt.Println(display.BannerStyle.Render("  Type 'help' for commands, 'quit' to exit."))
	fmt.Println()

	go func() {
		ui.WaitReady()
		app.run(ctx)
		ui.Quit()
	}()

	// Bubble Tea owns the terminal and blocks until quit.
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
	}
	cancel()
	app.logMetrics()
}

// openStore builds the configured DocumentStore and its cleanup func.
func openStore(ctx context.Context, cfg config.Config, migrate bool, log *logger.Logger) (domain.DocumentStore, func() error, error) {
	slog := log.WithField("component", "store")
	switch cfg.Store {
	case config.StorePostgres:
		pg, err := storage.OpenPostgres(ctx, cfg.PostgresDSN, slog)
		if err != nil {
			return nil, nil, err
		}
		if migrate {
			err := pg.Migrate(ctx)
			if err == nil && cfg.IDToken == "" {
				err = seedLocalProfile(ctx, pg)
			}
			if err != nil {
				pg.Close()
				return nil, nil, err
			}
		}
		log.Info("store: postgres")
		return pg, pg.Close, nil
	case config.StoreREST:
		rs, err := storage.NewRESTStore(storage.RESTConfig{URL: cfg.RESTURL, APIKey: cfg.RESTKey}, slog)
		if err != nil {
			return nil, nil, err
		}
		log.Info("store: rest at %s", cfg.RESTURL)
		return rs, func() error { return nil }, nil
	default:
		mem := storage.NewMemoryStore(slog)
		seedMemoryStore(ctx, mem)
		log.Info("store: in-memory (nothing is persisted)")
		return mem, func() error { return nil }, nil
	}
}

// seedMemoryStore gives the in-memory backend a browsable recipe collection
// and a profile for the local user.
func seedMemoryStore(ctx context.Context, mem *storage.MemoryStore) {
	for _, r := range []domain.RecipeSummary{
		domain.NewRecipeSummary("", "Grandma's Lentil Soup", ""),
		domain.NewRecipeSummary("", "Weeknight Fried Rice", ""),
		domain.NewRecipeSummary("639637", "Classic Tiramisu", "https://img.spoonacular.com/recipes/639637-312x231.jpg"),
	} {
		mem.Add(ctx, domain.CollectionRecipes, r.Fields())
	}
	seedLocalProfile(ctx, mem)
}

const localUser = "local"

// keyedStore is a store that can write a document under a chosen id.
type keyedStore interface {
	Put(ctx context.Context, collection, id string, fields map[string]string) error
}

// seedLocalProfile writes users/local for the signed-in-by-default user.
func seedLocalProfile(ctx context.Context, store keyedStore) error {
	name := os.Getenv("USER")
	if name == "" {
		name = "cook"
	}
	return store.Put(ctx, domain.CollectionUsers, localUser, map[string]string{
		"userName": name,
		"email":    name + "@localhost",
	})
}

// openIdentity reads the configured ID token, or signs in a local user when
// none is set.
func openIdentity(cfg config.Config, log *logger.Logger) (domain.IdentityProvider, error) {
	if cfg.IDToken == "" {
		return identity.NewStatic(localUser), nil
	}
	return identity.NewTokenProvider(cfg.IDToken, log.WithField("component", "identity"))
}
