// Package sheets is the HTTP client for the spreadsheet-backed library
// backend. All operations go through a single web-app endpoint that speaks a
// {status, data, message} JSON envelope.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/xeenaps/shelf/internal/library"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the default HTTP request timeout. Extraction can
	// involve a server-side scrape, so this is generous.
	DefaultTimeout = 60 * time.Second

	// RateLimit caps request throughput; the spreadsheet web app throttles
	// aggressively above a few requests per second.
	RateLimit = 4.0

	// DefaultPageLimit is the page size used when a caller passes 0.
	DefaultPageLimit = 25

	// MaxResponseSize bounds response bodies read into memory.
	MaxResponseSize = 32 * 1024 * 1024
)

// Client is a rate-limited HTTP client for the library backend.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	endpoint   string
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint sets the backend web-app URL.
func WithEndpoint(url string) Option {
	return func(c *Client) {
		c.endpoint = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a backend client. The endpoint comes from the
// SHELF_BACKEND_URL environment variable unless set via WithEndpoint.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
	}

	if ep := os.Getenv("SHELF_BACKEND_URL"); ep != "" {
		c.endpoint = ep
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// post sends an action payload and decodes the response envelope.
func (c *Client) post(ctx context.Context, action string, payload any) (*envelope, error) {
	if c.endpoint == "" {
		return nil, ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	return decodeEnvelope(resp, action)
}

// get sends a query-parameter request and decodes the response envelope.
func (c *Client) get(ctx context.Context, params url.Values) (*envelope, error) {
	if c.endpoint == "" {
		return nil, ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	return decodeEnvelope(resp, params.Get("action"))
}

func decodeEnvelope(resp *http.Response, action string) (*envelope, error) {
	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Action:     action,
			Message:    fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if env.Status == statusError {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Action:     action,
			Message:    env.Message,
		}
	}
	if env.Status != statusSuccess {
		return nil, fmt.Errorf("%w: unexpected status %q", ErrInvalidResponse, env.Status)
	}

	return &env, nil
}

// List fetches one page of items with the given filters and sort order.
func (c *Client) List(ctx context.Context, p ListParams) (*PagedItems, error) {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.SortBy == "" {
		p.SortBy = "createdAt"
	}
	if p.SortOrder == "" {
		p.SortOrder = "desc"
	}

	params := url.Values{}
	params.Set("action", actionGetLibrary)
	params.Set("page", strconv.Itoa(p.Page))
	params.Set("limit", strconv.Itoa(p.Limit))
	params.Set("sortBy", p.SortBy)
	params.Set("sortOrder", p.SortOrder)
	if p.Search != "" {
		params.Set("search", p.Search)
	}
	if p.Type != "" && p.Type != "All" {
		params.Set("type", p.Type)
	}
	if p.IsFavorite {
		params.Set("isFavorite", "true")
	}
	if p.IsBookmarked {
		params.Set("isBookmarked", "true")
	}

	env, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var page PagedItems
	if err := json.Unmarshal(env.Data, &page); err != nil {
		return nil, fmt.Errorf("%w: parsing page: %v", ErrInvalidResponse, err)
	}
	return &page, nil
}

// Save upserts an item by id, optionally attaching a file payload. The
// remote record is overwritten wholesale; there is no versioning.
func (c *Client) Save(ctx context.Context, item library.Item, file *FilePayload) error {
	_, err := c.post(ctx, actionSaveItem, saveRequest{
		Action: actionSaveItem,
		Item:   item,
		File:   file,
	})
	return err
}

// Delete removes an item by id.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.post(ctx, actionDeleteItem, map[string]string{
		"action": actionDeleteItem,
		"id":     id,
	})
	return err
}

// ExtractURL asks the backend to scrape a URL and return captured text.
func (c *Client) ExtractURL(ctx context.Context, pageURL string) (*Extraction, error) {
	env, err := c.post(ctx, actionExtractOnly, extractRequest{
		Action: actionExtractOnly,
		URL:    pageURL,
	})
	if err != nil {
		return nil, err
	}
	return decodeExtraction(env)
}

// ExtractFile ships a base64-encoded file for server-side text extraction.
func (c *Client) ExtractFile(ctx context.Context, file FilePayload) (*Extraction, error) {
	env, err := c.post(ctx, actionExtractOnly, extractRequest{
		Action:   actionExtractOnly,
		FileData: file.FileData,
		FileName: file.FileName,
		MimeType: file.MimeType,
	})
	if err != nil {
		return nil, err
	}
	return decodeExtraction(env)
}

func decodeExtraction(env *envelope) (*Extraction, error) {
	var ext Extraction
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &ext); err != nil {
			return nil, fmt.Errorf("%w: parsing extraction: %v", ErrInvalidResponse, err)
		}
	}
	return &ext, nil
}

// IdentifierSearch looks up authoritative metadata for a DOI, ISBN, PMID or
// similar identifier. Returns ErrNotFound when the backend has no match.
func (c *Client) IdentifierSearch(ctx context.Context, id string) (*library.Patch, error) {
	env, err := c.post(ctx, actionIdentifierSearch, map[string]string{
		"action": actionIdentifierSearch,
		"id":     id,
	})
	if err != nil {
		return nil, err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, ErrNotFound
	}

	var patch library.Patch
	if err := json.Unmarshal(env.Data, &patch); err != nil {
		return nil, fmt.Errorf("%w: parsing identifier result: %v", ErrInvalidResponse, err)
	}
	if patch.IsZero() {
		return nil, ErrNotFound
	}
	return &patch, nil
}

// SetupDatabase runs the backend's idempotent schema setup.
func (c *Client) SetupDatabase(ctx context.Context) error {
	_, err := c.post(ctx, actionSetupDatabase, map[string]string{
		"action": actionSetupDatabase,
	})
	return err
}

// AIProxy forwards a prompt to the named provider and returns its raw text
// response. The caller is responsible for parsing.
func (c *Client) AIProxy(ctx context.Context, provider, model, prompt string) (string, error) {
	env, err := c.post(ctx, actionAIProxy, aiProxyRequest{
		Action:   actionAIProxy,
		Provider: provider,
		Model:    model,
		Prompt:   prompt,
	})
	if err != nil {
		return "", err
	}

	var text string
	if err := json.Unmarshal(env.Data, &text); err != nil {
		return "", fmt.Errorf("%w: parsing proxy response: %v", ErrInvalidResponse, err)
	}
	return text, nil
}
