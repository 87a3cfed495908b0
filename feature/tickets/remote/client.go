package remote

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// API is the subset of the remote service a sync run talks to.
type API interface {
	ListCustomers(ctx context.Context) ([]Customer, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (User, error)
	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (Customer, error)
	ListTickets(ctx context.Context) ([]Ticket, error)
	CreateTicket(ctx context.Context, req CreateTicketRequest) (Ticket, error)
}

// Client talks JSON over HTTP to the support API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	logger     *zap.Logger
}

var _ API = (*Client)(nil)

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithMaxRetries bounds how often a GET is retried. Zero disables retries.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithRetryDelay sets the first retry delay and the cap for exponential growth.
func WithRetryDelay(base, max time.Duration) Option {
	return func(c *Client) {
		c.baseDelay = base
		c.maxDelay = max
	}
}

// WithLogger attaches a logger for retry diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the API rooted at baseURL, e.g. http://host/api.
func NewClient(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "http://localhost:3000/api"
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		maxRetries: 3,
		baseDelay:  100 * time.Millisecond,
		maxDelay:   2 * time.Second,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalised root the client sends requests to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) ListCustomers(ctx context.Context) ([]Customer, error) {
	var out []Customer
	if err := c.doJSON(ctx, http.MethodGet, "/customers", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetUserByEmail returns an error matching ErrNotFound when no user has email.
func (c *Client) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var out User
	err := c.doJSON(ctx, http.MethodGet, "/users/email/"+url.PathEscape(email), nil, &out)
	return out, err
}

func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (User, error) {
	var out User
	err := c.doJSON(ctx, http.MethodPost, "/users", req, &out)
	return out, err
}

func (c *Client) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (Customer, error) {
	var out Customer
	err := c.doJSON(ctx, http.MethodPost, "/customers", req, &out)
	return out, err
}

func (c *Client) ListTickets(ctx context.Context) ([]Ticket, error) {
	var out []Ticket
	if err := c.doJSON(ctx, http.MethodGet, "/support-ticket", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTicket accepts both the wrapped {"ticket": {...}} response and a bare ticket.
func (c *Client) CreateTicket(ctx context.Context, req CreateTicketRequest) (Ticket, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodPost, "/support-ticket", req, &raw); err != nil {
		return Ticket{}, err
	}
	if len(raw) == 0 {
		return Ticket{}, nil
	}

	var wrapped struct {
		Ticket *Ticket `json:"ticket"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Ticket != nil {
		return *wrapped.Ticket, nil
	}
	var bare Ticket
	if err := json.Unmarshal(raw, &bare); err != nil {
		return Ticket{}, err
	}
	return bare, nil
}

// doJSON sends one request and decodes a 2xx body into out. Only GETs are
// retried, on transport errors, 429 and 5xx.
func (c *Client) doJSON(ctx context.Context, method, requestPath string, body, out any) error {
	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}
	retries := 0
	if method == http.MethodGet {
		retries = c.maxRetries
	}

	for attempt := 0; ; attempt++ {
		var bodyReader io.Reader
		if bodyBytes != nil {
			bodyReader = bytes.NewReader(bodyBytes)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+requestPath, bodyReader)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if attempt < retries && ctx.Err() == nil {
				c.logger.Debug("Retrying request", zap.String("method", method), zap.String("path", requestPath), zap.Int("attempt", attempt+1), zap.Error(err))
				if waitErr := waitWithContext(ctx, c.retryDelay(attempt+1, "")); waitErr != nil {
					return waitErr
				}
				continue
			}
			return err
		}
		payload, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return readErr
		}

		if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
			if out == nil || len(bytes.TrimSpace(payload)) == 0 {
				return nil
			}
			return json.Unmarshal(payload, out)
		}

		if (resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500) && attempt < retries {
			c.logger.Debug("Retrying request", zap.String("method", method), zap.String("path", requestPath), zap.Int("attempt", attempt+1), zap.Int("status", resp.StatusCode))
			if waitErr := waitWithContext(ctx, c.retryDelay(attempt+1, resp.Header.Get("Retry-After"))); waitErr != nil {
				return waitErr
			}
			continue
		}

		var errPayload struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(payload, &errPayload)
		return &HTTPError{
			Method:     method,
			Path:       requestPath,
			StatusCode: resp.StatusCode,
			Message:    errPayload.Message,
			Body:       truncate(string(payload), 512),
		}
	}
}

func (c *Client) retryDelay(attempt int, retryAfterHeader string) time.Duration {
	maxDelay := c.maxDelay
	if maxDelay <= 0 {
		maxDelay = 2 * time.Second
	}
	if retryAfter := parseRetryAfter(retryAfterHeader); retryAfter > 0 {
		return min(retryAfter, maxDelay)
	}
	delay := c.baseDelay
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= maxDelay {
			return maxDelay
		}
	}
	return min(delay, maxDelay)
}

func parseRetryAfter(header string) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}
	if ts, err := http.ParseTime(header); err == nil {
		if delta := time.Until(ts); delta > 0 {
			return delta
		}
	}
	return 0
}

func waitWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
