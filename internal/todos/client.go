package todos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service is the set of remote operations the sync engine depends on.
// *Client implements it; tests substitute fakes.
type Service interface {
	ListTasks(ctx context.Context) ([]Task, error)
	CreateTask(ctx context.Context, task NewTask) (Task, error)
	UpdateTaskCompletion(ctx context.Context, id int64, isCompleted bool) error
	DeleteTask(ctx context.Context, id int64) error
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// Client talks to the todo REST API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *slog.Logger
}

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL   = "http://localhost:8000"
	defaultUserAgent = "taskdeck/0.1"
	requestTimeout   = 5 * time.Second
	requestIDHeader  = "X-Request-ID"
	todosPath        = "/todos/"
)

// Option customises a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the logger used for request outcomes.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds a Client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListTasks retrieves every task in backend order.
func (c *Client) ListTasks(ctx context.Context) ([]Task, error) {
	const op = "list tasks"
	var records []wireTask
	if err := c.do(ctx, op, http.MethodGet, todosPath, nil, &records); err != nil {
		return nil, err
	}
	tasks, err := decodeList(records)
	if err != nil {
		return nil, &MalformedResponseError{Op: op, Path: todosPath, Err: err}
	}
	return tasks, nil
}

// GetTask retrieves a single task.
func (c *Client) GetTask(ctx context.Context, id int64) (Task, error) {
	const op = "get task"
	path := taskPath(id)
	var record wireTask
	if err := c.do(ctx, op, http.MethodGet, path, nil, &record); err != nil {
		return Task{}, err
	}
	task, err := record.task()
	if err != nil {
		return Task{}, &MalformedResponseError{Op: op, Path: path, Err: err}
	}
	return task, nil
}

// CreateTask posts a new task and returns it with its backend-assigned id.
// The title is sent as given.
func (c *Client) CreateTask(ctx context.Context, task NewTask) (Task, error) {
	const op = "create task"
	var record wireTask
	if err := c.do(ctx, op, http.MethodPost, todosPath, task, &record); err != nil {
		return Task{}, err
	}
	created, err := record.task()
	if err != nil {
		return Task{}, &MalformedResponseError{Op: op, Path: todosPath, Err: err}
	}
	return created, nil
}

// UpdateTaskCompletion sets the completion flag of an existing task.
func (c *Client) UpdateTaskCompletion(ctx context.Context, id int64, isCompleted bool) error {
	return c.do(ctx, "update task", http.MethodPatch, taskPath(id), completionPatch{IsCompleted: isCompleted}, nil)
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, "delete task", http.MethodDelete, taskPath(id), nil, nil)
}

func taskPath(id int64) string {
	return "/todos/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, op, method, path string, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})

	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), payload)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "op", op, "method", method, "path", path, "request_id", requestID, "error", err)
		return &TransportError{Op: op, Method: method, Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("request complete", "op", op, "method", method, "path", path,
		"request_id", requestID, "status", resp.StatusCode, "duration", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		return &TransportError{
			Op:         op,
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("status %d", resp.StatusCode),
		}
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &MalformedResponseError{Op: op, Path: path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
