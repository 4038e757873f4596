// Package search provides the HTTP client for the external recipe-search
// service (Spoonacular-compatible complexSearch and information endpoints).
package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/hammamikhairi/recipemate/internal/domain"
	"github.com/hammamikhairi/recipemate/internal/logger"
)

// Compile-time interface check.
var _ domain.SearchService = (*Client)(nil)

// DefaultBaseURL is the public search API.
const DefaultBaseURL = "https://api.spoonacular.com"

// NoInstructions is returned when the service has no instructions for a recipe.
const NoInstructions = "No instructions available."

// ── Client ───────────────────────────────────────────────────────

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL overrides the service root.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithRateLimit paces outgoing requests to rps with the given burst.
// A non-positive rps leaves requests unpaced.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// Client talks to the recipe-search API. Failures of any kind (transport,
// non-200 status, unparseable payload) are reported as
// domain.ErrSourceUnavailable with the cause attached. Nothing is retried.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	log     *logger.Logger
}

// NewClient creates a search client. The key is sent as a header and never
// appears in logged URLs.
func NewClient(apiKey string, log *logger.Logger, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		http:    &http.Client{},
		log:     log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Search runs a free-text query.
func (c *Client) Search(ctx context.Context, query string) ([]domain.RecipeSummary, error) {
	params := url.Values{}
	params.Set("query", query)
	return c.complexSearch(ctx, "search", params)
}

// SearchByCategory lists recipes of a dish type. The category is sent lower-cased.
func (c *Client) SearchByCategory(ctx context.Context, category string) ([]domain.RecipeSummary, error) {
	params := url.Values{}
	params.Set("type", strings.ToLower(category))
	return c.complexSearch(ctx, "category", params)
}

// Details fetches a recipe's full information, including instructions.
func (c *Client) Details(ctx context.Context, id string) (*domain.RecipeDetails, error) {
	body, err := c.get(ctx, "/recipes/"+url.PathEscape(id)+"/information", nil)
	if err != nil {
		return nil, domain.SourceFailure("details", err)
	}

	doc := gjson.ParseBytes(body)
	instructions := doc.Get("instructions").String()
	if strings.TrimSpace(instructions) == "" {
		instructions = NoInstructions
	}

	recipeID := doc.Get("id").String()
	if recipeID == "" {
		recipeID = id
	}
	details := &domain.RecipeDetails{
		RecipeSummary: domain.NewRecipeSummary(recipeID, doc.Get("title").String(), doc.Get("image").String()),
		Instructions:  &instructions,
	}
	c.log.Debug("search: details %s (%d chars of instructions)", id, len(instructions))
	return details, nil
}

func (c *Client) complexSearch(ctx context.Context, op string, params url.Values) ([]domain.RecipeSummary, error) {
	body, err := c.get(ctx, "/recipes/complexSearch", params)
	if err != nil {
		return nil, domain.SourceFailure(op, err)
	}

	results := gjson.GetBytes(body, "results")
	if !results.IsArray() {
		return nil, domain.SourceFailure(op, fmt.Errorf("search: payload has no results array"))
	}

	var out []domain.RecipeSummary
	results.ForEach(func(_, r gjson.Result) bool {
		out = append(out, domain.NewRecipeSummary(
			r.Get("id").String(),
			r.Get("title").String(),
			r.Get("image").String(),
		))
		return true
	})
	c.log.Debug("search: %s %s -> %d results", op, params.Encode(), len(out))
	return out, nil
}

// get performs a GET and returns the body of a 200 response carrying valid JSON.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("search: rate limit: %w", err)
		}
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("search: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("search: read response: %w", err)
	}
	c.log.Debug("search: GET %s -> %s in %s", reqURL, resp.Status, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search: API %s: %s", resp.Status, truncate(string(body), 120))
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("search: response is not valid JSON")
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
