// Package vithai provides a client for the Vithai sermon library API.
package vithai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/vaarthai/vithai/internal/models"
	"github.com/vaarthai/vithai/internal/search"
)

// DefaultURL is used when no base URL is configured.
const DefaultURL = "http://localhost:3000"

// Client is a Vithai API client. It holds no credential of its own;
// mutating calls take the bearer token explicitly.
type Client struct {
	BaseURL    string
	ConfigDir  string
	HTTPClient *http.Client
}

// NewClient creates a new client. The config directory comes from
// VITHAI_CONFIG, else ~/.vithai.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}

	configDir := os.Getenv("VITHAI_CONFIG")
	if configDir == "" {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".vithai")
	}

	return &Client{
		BaseURL:    baseURL,
		ConfigDir:  configDir,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("vithai error %d", e.StatusCode)
	}
	return fmt.Sprintf("vithai error %d: %s", e.StatusCode, e.Message)
}

// HTTPStatus returns the response status code.
func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}

// doRequest performs an HTTP request, JSON-encoding in when non-nil and
// decoding the response into out when non-nil.
func (c *Client) doRequest(ctx context.Context, method, path, token string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		json.Unmarshal(respBody, &errResp)
		return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(respBody, out)
}

// ListMessages returns the full catalog in display order.
func (c *Client) ListMessages(ctx context.Context) ([]models.Message, error) {
	var messages []models.Message
	if err := c.doRequest(ctx, http.MethodGet, "/api/messages", "", nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// GetMessage returns a top-level message or sub-message by id.
func (c *Client) GetMessage(ctx context.Context, id string) (*models.Message, error) {
	var m models.Message
	if err := c.doRequest(ctx, http.MethodGet, "/api/messages/"+url.PathEscape(id), "", nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoginRequest is the request body for admin login.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token string `json:"token"`
}

// Login exchanges the admin password for a bearer token.
func (c *Client) Login(ctx context.Context, password string) (string, error) {
	var resp LoginResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/login", "", LoginRequest{Password: password}, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// CreateMessage stores m as a new top-level message. The server assigns the id.
func (c *Client) CreateMessage(ctx context.Context, token string, m models.Message) (*models.Message, error) {
	m.ID = ""
	var created models.Message
	if err := c.doRequest(ctx, http.MethodPost, "/api/messages", token, m, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateMessage merges patch into the message with the given id.
func (c *Client) UpdateMessage(ctx context.Context, token, id string, patch models.MessagePatch) (*models.Message, error) {
	var updated models.Message
	if err := c.doRequest(ctx, http.MethodPut, "/api/messages/"+url.PathEscape(id), token, patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteMessage removes a top-level message. Unknown ids succeed.
func (c *Client) DeleteMessage(ctx context.Context, token, id string) error {
	var resp struct {
		Success bool `json:"success"`
	}
	return c.doRequest(ctx, http.MethodDelete, "/api/messages/"+url.PathEscape(id), token, nil, &resp)
}

// Verse returns the daily verse in lang.
func (c *Client) Verse(ctx context.Context, lang models.Language) (*models.DailyVerse, error) {
	var v models.DailyVerse
	if err := c.doRequest(ctx, http.MethodGet, "/api/verse?lang="+url.QueryEscape(string(lang)), "", nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// SearchRequest is the request body for provider-ranked search.
type SearchRequest struct {
	Query      string             `json:"query"`
	Candidates []search.Candidate `json:"candidates,omitempty"`
}

// SearchResponse lists message ids, most relevant first.
type SearchResponse struct {
	IDs []string `json:"ids"`
}

// Rank asks the server's provider to order candidates by relevance to
// query. It satisfies search.Ranker.
func (c *Client) Rank(ctx context.Context, query string, candidates []search.Candidate) ([]string, error) {
	var resp SearchResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/search", "", SearchRequest{Query: query, Candidates: candidates}, &resp); err != nil {
		return nil, err
	}
	return resp.IDs, nil
}

// StringsResponse holds the UI strings for one language.
type StringsResponse struct {
	Lang    models.Language   `json:"lang"`
	Strings map[string]string `json:"strings"`
}

// Strings returns the UI strings for lang.
func (c *Client) Strings(ctx context.Context, lang models.Language) (*StringsResponse, error) {
	var resp StringsResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/strings?lang="+url.QueryEscape(string(lang)), "", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StatsResponse summarises the catalog.
type StatsResponse struct {
	Messages   int    `json:"messages"`
	Containers int    `json:"containers"`
	Tracks     int    `json:"tracks"`
	LatestDate string `json:"latest_date,omitempty"`
}

// Stats returns catalog statistics.
func (c *Client) Stats(ctx context.Context) (*StatsResponse, error) {
	var resp StatsResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/stats", "", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// HealthResponse is the response from the health endpoint.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	Checks    map[string]interface{} `json:"checks"`
	Timestamp string                 `json:"timestamp"`
}

// Health checks server health.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/health", "", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
