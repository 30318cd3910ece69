// Package github is a small client for the GitHub REST v3 contents API,
// enough to keep a blog's files in a repository.
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// Sentinel errors. APIError unwraps to one of the status errors.
var (
	ErrNoToken      = errors.New("GitHub token not set")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrRequest      = errors.New("request failed")
)

// Defaults.
const (
	DefaultBaseURL           = "https://api.github.com"
	DefaultBranch            = "main"
	DefaultRequestsPerSecond = 5
	DefaultTimeout           = 30 * time.Second

	maxResponseSize = 50 << 20 // contents API serves files up to 100MB as raw only
	acceptHeader    = "application/vnd.github.v3+json"
)

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string // GitHub's "message" field, or the status text
	Err        error  // status class sentinel
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: HTTP %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status of an APIError in err's chain, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Client talks to one repository and branch.
// A Client is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	owner      string
	repo       string
	branch     string
	token      string
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the personal access token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

// WithBaseURL sets the API root, e.g. a test server or GitHub Enterprise.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithBranch sets the branch files are read from and committed to.
func WithBranch(branch string) Option {
	return func(c *Client) { c.branch = branch }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit caps outgoing requests per second. rps <= 0 disables the limit.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithLogger sets the request logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for owner/repo.
func NewClient(owner, repo string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    DefaultBaseURL,
		owner:      owner,
		repo:       repo,
		branch:     DefaultBranch,
		limiter:    rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), 1),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasToken reports whether requests can be authenticated.
func (c *Client) HasToken() bool {
	return c.token != ""
}

// Repo returns "owner/repo".
func (c *Client) Repo() string {
	return c.owner + "/" + c.repo
}

// Branch returns the branch the client works on.
func (c *Client) Branch() string {
	return c.branch
}

// File is a repository file.
type File struct {
	Path    string
	SHA     string
	Content []byte
}

type contentResponse struct {
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

type writeRequest struct {
	Message string `json:"message"`
	Content string `json:"content,omitempty"`
	SHA     string `json:"sha,omitempty"`
	Branch  string `json:"branch"`
}

// GetFile downloads a file. A missing file is an APIError wrapping ErrNotFound.
func (c *Client) GetFile(ctx context.Context, path string) (*File, error) {
	var resp contentResponse
	if err := c.do(ctx, http.MethodGet, c.contentsEndpoint(path, true), nil, &resp); err != nil {
		return nil, err
	}

	// GitHub wraps base64 content at 60 columns.
	raw := strings.Join(strings.Fields(resp.Content), "")
	content, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrRequest, path, err)
	}

	return &File{Path: resp.Path, SHA: resp.SHA, Content: content}, nil
}

// FileSHA returns the blob SHA of a file, or "" when it does not exist.
func (c *Client) FileSHA(ctx context.Context, path string) (string, error) {
	var resp contentResponse
	err := c.do(ctx, http.MethodGet, c.contentsEndpoint(path, true), nil, &resp)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return resp.SHA, nil
}

// PutFile creates or updates a file with one commit and returns the new
// blob SHA. sha must be the current blob SHA when the file exists.
func (c *Client) PutFile(ctx context.Context, path string, content []byte, message, sha string) (string, error) {
	req := writeRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		SHA:     sha,
		Branch:  c.branch,
	}

	var resp struct {
		Content contentResponse `json:"content"`
	}
	if err := c.do(ctx, http.MethodPut, c.contentsEndpoint(path, false), req, &resp); err != nil {
		return "", err
	}
	return resp.Content.SHA, nil
}

// DeleteFile removes a file with one commit.
func (c *Client) DeleteFile(ctx context.Context, path, message, sha string) error {
	req := writeRequest{Message: message, SHA: sha, Branch: c.branch}
	return c.do(ctx, http.MethodDelete, c.contentsEndpoint(path, false), req, nil)
}

// CheckRepo verifies the token can see the repository.
func (c *Client) CheckRepo(ctx context.Context) error {
	endpoint := "/repos/" + url.PathEscape(c.owner) + "/" + url.PathEscape(c.repo)
	return c.do(ctx, http.MethodGet, endpoint, nil, nil)
}

// contentsEndpoint builds /repos/{owner}/{repo}/contents/{path}, escaping
// each path segment. Reads are pinned to the configured branch.
func (c *Client) contentsEndpoint(path string, read bool) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	endpoint := "/repos/" + url.PathEscape(c.owner) + "/" + url.PathEscape(c.repo) +
		"/contents/" + strings.Join(segments, "/")
	if read {
		endpoint += "?ref=" + url.QueryEscape(c.branch)
	}
	return endpoint
}

// do sends one request. body is JSON encoded when non-nil; out receives the
// decoded response when non-nil and the response has a body.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	if c.token == "" {
		return ErrNoToken
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encoding body: %v", ErrRequest, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequest, err)
	}
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", acceptHeader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrRequest, method, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrRequest, err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("github request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, data)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrRequest, err)
	}
	return nil
}

// newAPIError reads GitHub's "message" field, falling back to the status text.
func newAPIError(status int, body []byte) *APIError {
	msg := ""
	if gjson.ValidBytes(body) {
		msg = gjson.GetBytes(body, "message").String()
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	var sentinel error
	switch {
	case status == http.StatusNotFound:
		sentinel = ErrNotFound
	case status == http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case status == http.StatusForbidden:
		sentinel = ErrForbidden
	case status == http.StatusConflict || status == http.StatusUnprocessableEntity:
		sentinel = ErrConflict
	default:
		sentinel = ErrRequest
	}

	return &APIError{StatusCode: status, Message: msg, Err: sentinel}
}
