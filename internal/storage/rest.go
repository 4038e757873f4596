package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/recipemate/internal/domain"
	"github.com/hammamikhairi/recipemate/internal/logger"
)

// Compile-time interface check.
var _ domain.DocumentStore = (*RESTStore)(nil)

// RESTConfig configures a RESTStore.
type RESTConfig struct {
	URL        string // base URL, e.g. https://<project>.supabase.co
	APIKey     string
	Table      string // defaults to "documents"
	HTTPClient *http.Client
}

// RESTStore talks to a PostgREST endpoint exposing the documents table
// (collection, id, fields jsonb, created_at).
type RESTStore struct {
	baseURL string
	apiKey  string
	table   string
	http    *http.Client
	log     *logger.Logger
}

type restDoc struct {
	Collection string         `json:"collection,omitempty"`
	ID         string         `json:"id"`
	Fields     map[string]any `json:"fields"`
}

// NewRESTStore creates a PostgREST-backed store.
func NewRESTStore(cfg RESTConfig, log *logger.Logger) (*RESTStore, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("rest store: URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("rest store: APIKey is required")
	}
	if cfg.Table == "" {
		cfg.Table = "documents"
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &RESTStore{
		baseURL: strings.TrimSuffix(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		table:   cfg.Table,
		http:    httpClient,
		log:     log,
	}, nil
}

// ListAll returns every document in the collection, oldest first.
func (s *RESTStore) ListAll(ctx context.Context, collection string) ([]domain.Document, error) {
	params := url.Values{}
	params.Set("select", "id,fields")
	params.Set("collection", "eq."+collection)
	params.Set("order", "created_at.asc")
	return s.query(ctx, params)
}

// Add inserts a new document under a client-generated id.
func (s *RESTStore) Add(ctx context.Context, collection string, fields map[string]string) (string, error) {
	id := uuid.NewString()
	doc := restDoc{Collection: collection, ID: id, Fields: toAny(fields)}
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("rest store: marshal document: %w", err)
	}
	if _, err := s.do(ctx, http.MethodPost, nil, body); err != nil {
		return "", err
	}
	s.log.Debug("stored %s/%s via rest", collection, id)
	return id, nil
}

// FindWhere filters on a top-level key of the fields object.
func (s *RESTStore) FindWhere(ctx context.Context, collection, field, value string) ([]domain.Document, error) {
	params := url.Values{}
	params.Set("select", "id,fields")
	params.Set("collection", "eq."+collection)
	params.Set("fields->>"+field, "eq."+value)
	params.Set("order", "created_at.asc")
	return s.query(ctx, params)
}

// Delete removes a document by id.
func (s *RESTStore) Delete(ctx context.Context, collection, id string) error {
	params := url.Values{}
	params.Set("collection", "eq."+collection)
	params.Set("id", "eq."+id)
	_, err := s.do(ctx, http.MethodDelete, params, nil)
	return err
}

// Get returns a document by id.
func (s *RESTStore) Get(ctx context.Context, collection, id string) (*domain.Document, error) {
	params := url.Values{}
	params.Set("select", "id,fields")
	params.Set("collection", "eq."+collection)
	params.Set("id", "eq."+id)
	params.Set("limit", "1")
	docs, err := s.query(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, domain.ErrNotFound
	}
	return &docs[0], nil
}

func (s *RESTStore) query(ctx context.Context, params url.Values) ([]domain.Document, error) {
	body, err := s.do(ctx, http.MethodGet, params, nil)
	if err != nil {
		return nil, err
	}
	var rows []restDoc
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("rest store: unmarshal response: %w", err)
	}
	out := make([]domain.Document, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Document{ID: r.ID, Fields: toStrings(r.Fields)})
	}
	return out, nil
}

func (s *RESTStore) do(ctx context.Context, method string, params url.Values, body []byte) ([]byte, error) {
	reqURL := fmt.Sprintf("%s/rest/v1/%s", s.baseURL, s.table)
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("rest store: create request: %w", err)
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=minimal")
	}

	s.log.Debug("rest store: %s %s", method, reqURL)

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rest store: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("rest store: read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("rest store: %s: %s", resp.Status, apiErr.Message)
		}
		return nil, fmt.Errorf("rest store: %s", resp.Status)
	}
	return respBody, nil
}

func toAny(in map[string]string) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func toStrings(in map[string]any) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		switch tv := v.(type) {
		case string:
			out[k] = tv
		case nil:
			out[k] = ""
		default:
			out[k] = fmt.Sprint(tv)
		}
	}
	return out
}
