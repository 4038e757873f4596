// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreREST     = "rest"
)

// Environment variable names.
const (
	EnvSearchAPIKey = "RECIPEMATE_SEARCH_API_KEY"
	EnvSearchURL    = "RECIPEMATE_SEARCH_URL"
	EnvSearchRPS    = "RECIPEMATE_SEARCH_RPS"
	EnvStore        = "RECIPEMATE_STORE"
	EnvPostgresDSN  = "RECIPEMATE_POSTGRES_DSN"
	EnvRESTURL      = "RECIPEMATE_REST_URL"
	EnvRESTKey      = "RECIPEMATE_REST_KEY"
	EnvIDToken      = "RECIPEMATE_ID_TOKEN"
	EnvDetailCache  = "RECIPEMATE_DETAIL_CACHE"
)

// Config is the full runtime configuration.
type Config struct {
	SearchAPIKey    string
	SearchURL       string
	SearchRPS       float64
	Store           string
	PostgresDSN     string
	RESTURL         string
	RESTKey         string
	IDToken         string
	DetailCacheSize int
}

// Offline reports whether no search API key is configured.
func (c Config) Offline() bool { return c.SearchAPIKey == "" }

// Load reads files (default ".env") into the environment, without overriding
// variables already set, and builds a Config. Missing files are ignored.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	cfg := Config{
		SearchAPIKey:    os.Getenv(EnvSearchAPIKey),
		SearchURL:       envOr(EnvSearchURL, "https://api.spoonacular.com"),
		Store:           strings.ToLower(envOr(EnvStore, StoreMemory)),
		PostgresDSN:     os.Getenv(EnvPostgresDSN),
		RESTURL:         os.Getenv(EnvRESTURL),
		RESTKey:         os.Getenv(EnvRESTKey),
		IDToken:         os.Getenv(EnvIDToken),
		DetailCacheSize: 64,
	}

	if v := os.Getenv(EnvSearchRPS); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", EnvSearchRPS, err)
		}
		cfg.SearchRPS = rps
	}
	if v := os.Getenv(EnvDetailCache); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", EnvDetailCache, err)
		}
		cfg.DetailCacheSize = n
	}
	return cfg, nil
}

// Validate checks that the selected backend has what it needs.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("config: store %q needs %s", c.Store, EnvPostgresDSN)
		}
	case StoreREST:
		if c.RESTURL == "" || c.RESTKey == "" {
			return fmt.Errorf("config: store %q needs %s and %s", c.Store, EnvRESTURL, EnvRESTKey)
		}
	default:
		return fmt.Errorf("config: unknown store %q", c.Store)
	}
	if c.SearchRPS < 0 {
		return fmt.Errorf("config: %s must not be negative", EnvSearchRPS)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
