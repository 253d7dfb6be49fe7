// Package api provides the HTTP client for the ClauseCompass decision-engine
// backend. It covers authentication, document listing, and the two query
// protocols: persistent knowledge-base evaluation and dynamic evaluation
// with uploaded documents.
//
// Errors fall into two distinct categories: *APIError for non-200 responses
// (status code plus the server's detail message) and *ConnectionError when
// no response could be obtained at all. Callers must not conflate the two in
// user-facing output.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/nightmare-tech/chatty-insurance/internal/config"
	"github.com/nightmare-tech/chatty-insurance/internal/constants"
	"github.com/nightmare-tech/chatty-insurance/internal/logging"
)

// Backend defines the decision-engine operations the CLI depends on.
// *Client implements it; tests substitute a recording mock.
type Backend interface {
	// Login exchanges credentials for an access token
	Login(ctx context.Context, username, password string) (string, error)

	// Register creates a new user account
	Register(ctx context.Context, userID, email, password string) error

	// ListDocuments returns the filenames available in the persistent KB
	ListDocuments(ctx context.Context, token string) ([]string, error)

	// Evaluate runs a query against the persistent KB, scoped to sourceFiles
	Evaluate(ctx context.Context, token, query string, sourceFiles []string) (json.RawMessage, error)

	// EvaluateWithDocs uploads the files at paths and runs a one-time query against them
	EvaluateWithDocs(ctx context.Context, token, query string, paths []string) (json.RawMessage, error)
}

// Ensure Client implements the Backend interface
var _ Backend = (*Client)(nil)

// APIError represents a non-200 response from the backend
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d - %s", e.StatusCode, e.Detail)
}

// ConnectionError represents a transport failure: no response was received
type ConnectionError struct {
	BaseURL string
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error to API at %s", e.BaseURL)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// errorResponse is the backend's error body shape
type errorResponse struct {
	Detail string `json:"detail"`
}

// loginResponse is the POST /login success body
type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// registerRequest is the POST /register body
type registerRequest struct {
	UserID   string `json:"userid"`
	EmailID  string `json:"emailid"`
	Password string `json:"password"`
}

// documentsResponse is the GET /documents success body
type documentsResponse struct {
	Documents []string `json:"documents"`
}

// evaluateRequest is the POST /evaluate body
type evaluateRequest struct {
	QueryText   string   `json:"query_text"`
	SourceFiles []string `json:"source_files"`
}

// Client is the decision-engine HTTP client
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a backend client from configuration. With Verbose set,
// all HTTP traffic is logged through a debug RoundTripper with credentials
// redacted.
func NewClient(cfg *config.Config) *Client {
	transport := http.DefaultTransport

	if cfg.Verbose {
		logger := logging.New(logging.Options{
			Level:  logging.LevelDebug,
			Format: logging.FormatText,
		})
		httpLogger := logging.NewHTTPLogger(logger)
		transport = logging.NewLoggingRoundTripper(http.DefaultTransport, httpLogger, true)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   constants.DefaultQueryTimeout,
			Transport: transport,
		},
		baseURL: cfg.BaseURL,
	}
}

// BaseURL returns the backend base URL the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// newRequest builds a request with the common headers. An empty token means
// an unauthenticated endpoint.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, token string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do executes the request, mapping transport failures to *ConnectionError
// and non-200 statuses to *APIError with the server's detail message.
func (c *Client) do(req *http.Request, fallbackDetail string) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ConnectionError{BaseURL: c.baseURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectionError{BaseURL: c.baseURL, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Detail:     detailFromBody(body, fallbackDetail),
		}
	}

	return body, nil
}

// detailFromBody extracts the detail field from an error body, falling back
// to a generic message when absent or unparseable.
func detailFromBody(body []byte, fallback string) string {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Detail != "" {
		return errResp.Detail
	}
	return fallback
}

// Login exchanges credentials for an access token (form-encoded, per the
// backend's OAuth2 password-flow login endpoint).
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultAuthTimeout)
	defer cancel()

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := c.newRequest(ctx, http.MethodPost, constants.LoginPath, strings.NewReader(form.Encode()), "")
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req, "Invalid credentials")
	if err != nil {
		return "", err
	}

	var loginResp loginResponse
	if err := json.Unmarshal(body, &loginResp); err != nil {
		return "", fmt.Errorf("failed to parse login response: %w", err)
	}
	if loginResp.AccessToken == "" {
		return "", fmt.Errorf("login response missing access token")
	}
	return loginResp.AccessToken, nil
}

// Register creates a new user account
func (c *Client) Register(ctx context.Context, userID, email, password string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultAuthTimeout)
	defer cancel()

	jsonData, err := json.Marshal(registerRequest{
		UserID:   userID,
		EmailID:  email,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, constants.RegisterPath, bytes.NewBuffer(jsonData), "")
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	_, err = c.do(req, "Unknown error")
	return err
}

// ListDocuments returns the filenames available in the persistent KB
func (c *Client) ListDocuments(ctx context.Context, token string) ([]string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, constants.DocumentsPath, nil, token)
	if err != nil {
		return nil, err
	}

	body, err := c.do(req, "Unknown error")
	if err != nil {
		return nil, err
	}

	var docsResp documentsResponse
	if err := json.Unmarshal(body, &docsResp); err != nil {
		return nil, fmt.Errorf("failed to parse documents response: %w", err)
	}
	return docsResp.Documents, nil
}

// Evaluate runs a query against the persistent KB. sourceFiles scopes the
// query to specific documents; empty means the whole KB. The response body
// is returned as raw JSON for structural rendering.
func (c *Client) Evaluate(ctx context.Context, token, query string, sourceFiles []string) (json.RawMessage, error) {
	if sourceFiles == nil {
		sourceFiles = []string{}
	}
	jsonData, err := json.Marshal(evaluateRequest{
		QueryText:   query,
		SourceFiles: sourceFiles,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, constants.PersistentPath, bytes.NewBuffer(jsonData), token)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req, "Unknown error")
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}
