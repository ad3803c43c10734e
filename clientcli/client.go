package clientcli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sagarc03/herostore"
)

// DefaultTimeout is the default HTTP client timeout.
const DefaultTimeout = 30 * time.Second

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 16 << 20

// Client performs operations against a herostore server.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a new Client with the given config and options.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	// Apply defaults
	cfg = cfg.WithDefaults()

	endpoint := strings.TrimSuffix(cfg.Endpoint, "/")
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}

	c := &Client{
		config: &Config{
			Endpoint: endpoint,
			Timeout:  cfg.Timeout,
		},
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}

	// Apply options
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Endpoint returns the normalized server URL.
func (c *Client) Endpoint() string {
	return c.config.Endpoint
}

// List fetches every hero.
func (c *Client) List(ctx context.Context) ([]herostore.Hero, error) {
	var heroes []herostore.Hero
	if err := c.doJSON(ctx, http.MethodGet, "/heroes", nil, nil, &heroes); err != nil {
		return nil, fmt.Errorf("list heroes: %w", err)
	}
	return heroes, nil
}

// Get fetches the hero with the given id.
func (c *Client) Get(ctx context.Context, id int) (herostore.Hero, error) {
	var hero herostore.Hero
	if err := c.doJSON(ctx, http.MethodGet, heroPath(id), nil, nil, &hero); err != nil {
		return herostore.Hero{}, fmt.Errorf("get hero %d: %w", id, err)
	}
	return hero, nil
}

// Create stores a new hero and returns it with its final id.
//
// The server may answer a failed create with 200 and a plain-text body;
// that is reported as an *APIError like any other failure.
func (c *Client) Create(ctx context.Context, opts CreateOptions) (herostore.Hero, error) {
	if opts.Hero.Name == "" {
		return herostore.Hero{}, fmt.Errorf("create hero: %w", ErrEmptyName)
	}

	var query url.Values
	if opts.IDOverride != nil {
		query = url.Values{"id": []string{strconv.Itoa(*opts.IDOverride)}}
	}

	var hero herostore.Hero
	if err := c.doJSON(ctx, http.MethodPost, "/heroes", query, opts.Hero, &hero); err != nil {
		return herostore.Hero{}, fmt.Errorf("create hero %q: %w", opts.Hero.Name, err)
	}
	return hero, nil
}

// Update replaces the stored hero that has hero.ID.
// Updated is false when no hero has the id.
func (c *Client) Update(ctx context.Context, hero herostore.Hero) (UpdateResult, error) {
	var result UpdateResult
	if err := c.doJSON(ctx, http.MethodPut, "/heroes", nil, hero, &result); err != nil {
		return UpdateResult{}, fmt.Errorf("update hero %d: %w", hero.ID, err)
	}
	return result, nil
}

// Delete removes heroes by id, one request per id.
// A missing hero is reported as Deleted false with a nil Err.
func (c *Client) Delete(ctx context.Context, ids []int) ([]DeleteResult, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("delete: %w", ErrNoIDs)
	}

	results := make([]DeleteResult, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("delete: %w", err)
		}
		results = append(results, c.deleteSingle(ctx, id))
	}
	return results, nil
}

func (c *Client) deleteSingle(ctx context.Context, id int) DeleteResult {
	resp, body, err := c.do(ctx, http.MethodDelete, heroPath(id), nil, nil)
	if err != nil {
		return DeleteResult{ID: id, Err: err}
	}

	// 404 carries the same JSON body with deleted=false
	if (resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNotFound) && isJSON(resp) {
		var result DeleteResult
		if jsonErr := json.Unmarshal(body, &result); jsonErr != nil {
			return DeleteResult{ID: id, Err: fmt.Errorf("%w: %w", ErrUnexpected, jsonErr)}
		}
		result.ID = id
		return result
	}

	return DeleteResult{ID: id, Err: parseServerError(resp.StatusCode, body)}
}

// HasDeleteErrors returns true if any delete result has an error.
func HasDeleteErrors(results []DeleteResult) bool {
	for i := range results {
		if results[i].Err != nil {
			return true
		}
	}
	return false
}

// Load creates many heroes in one request through POST /heroes/data.
func (c *Client) Load(ctx context.Context, heroes []herostore.Hero) (herostore.BulkResult, error) {
	var result herostore.BulkResult
	if err := c.doJSON(ctx, http.MethodPost, "/heroes/data", nil, heroes, &result); err != nil {
		return herostore.BulkResult{}, fmt.Errorf("load heroes: %w", err)
	}
	return result, nil
}

// Health reports whether the server answers its liveness probe.
func (c *Client) Health(ctx context.Context) error {
	resp, body, err := c.do(ctx, http.MethodGet, "/healthz", nil, nil)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return parseServerError(resp.StatusCode, body)
	}
	return nil
}

// doJSON sends in as a JSON body and decodes a 200 JSON response into out.
// Anything else is returned as an *APIError.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, in, out any) error {
	resp, body, err := c.do(ctx, method, path, query, in)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK || !isJSON(resp) {
		return parseServerError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode body: %w", ErrUnexpected, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in any) (*http.Response, []byte, error) {
	target := c.config.Endpoint + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, nil, fmt.Errorf("read response: %w", err)
	}

	return resp, body, nil
}

func heroPath(id int) string {
	return "/heroes/" + strconv.Itoa(id)
}

func isJSON(resp *http.Response) bool {
	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// parseServerError extracts error message from server response.
func parseServerError(statusCode int, body []byte) error {
	return &APIError{
		StatusCode: statusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return "server error: " + strconv.Itoa(e.StatusCode) + " - " + e.Body
}

// Is reports whether target matches this error.
// It matches if target is an *APIError with the same StatusCode.
func (e *APIError) Is(target error) bool {
	var t *APIError
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return t.StatusCode == e.StatusCode
}

// IsNotFound returns true if the error is a 404.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsDuplicate reports whether the body carries the duplicate-name message.
// Compat servers answer a duplicate create with 200, so the status alone is not enough.
func (e *APIError) IsDuplicate() bool {
	return e.StatusCode == http.StatusConflict || strings.Contains(e.Body, herostore.ErrDuplicateName.Error())
}

// Sentinel errors for common API error conditions.
// Use errors.Is() to check for these conditions.
var (
	// ErrNotFound is returned when the requested hero does not exist (404, strict mode).
	ErrNotFound = &APIError{StatusCode: http.StatusNotFound}

	// ErrBadRequest is returned for a malformed id or body (400, strict mode).
	ErrBadRequest = &APIError{StatusCode: http.StatusBadRequest}

	// ErrConflict is returned for a duplicate name or taken id (409, strict mode).
	ErrConflict = &APIError{StatusCode: http.StatusConflict}

	// ErrTeapot is how compat-mode servers report list, get and update failures (418).
	ErrTeapot = &APIError{StatusCode: http.StatusTeapot}

	// ErrUnavailable is returned when the server cannot reach its storage (503, strict mode).
	ErrUnavailable = &APIError{StatusCode: http.StatusServiceUnavailable}
)
