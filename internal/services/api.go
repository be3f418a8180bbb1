package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/skipify/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	DefaultReadTimeout   = 8 * time.Second
	DefaultUploadTimeout = 15 * time.Second
)

// Client performs requests against the skipify API.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	limiter       *rate.Limiter
	logger        *log.Logger
	readTimeout   time.Duration
	uploadTimeout time.Duration
}

// ClientOption configures a [Client].
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying client. Its Transport is wrapped, never replaced.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *log.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTimeouts overrides the read and upload deadlines. Non-positive values keep the defaults.
func WithTimeouts(read, upload time.Duration) ClientOption {
	return func(c *Client) {
		if read > 0 {
			c.readTimeout = read
		}
		if upload > 0 {
			c.uploadTimeout = upload
		}
	}
}

// WithRateLimit caps outgoing requests per second. Zero disables the limiter.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// NewClient creates a client for baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = "http://127.0.0.1:5000"
	}

	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    &http.Client{},
		logger:        log.New(io.Discard),
		readTimeout:   DefaultReadTimeout,
		uploadTimeout: DefaultUploadTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClientFromConfig builds a client from the [api] section.
func NewClientFromConfig(cfg shared.APIConfig, logger *log.Logger) *Client {
	return NewClient(cfg.BaseURL,
		WithLogger(logger),
		WithTimeouts(cfg.ReadTimeout, cfg.UploadTimeout),
		WithRateLimit(cfg.RateLimit),
	)
}

// BaseURL returns the API root the client targets.
func (c *Client) BaseURL() string { return c.baseURL }

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// request describes one call.
type request struct {
	method      string
	path        string
	credential  string
	anonymous   bool // auth endpoints carry no bearer
	body        io.Reader
	contentType string
	timeout     time.Duration
}

// jsonBody encodes v for a request body.
func jsonBody(v any) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return bytes.NewReader(data), nil
}

// send performs r and returns the raw response. Only transport-level failures are errors here;
// status codes are left to the caller.
func (c *Client) send(ctx context.Context, r request) (*APIResponse, error) {
	if !r.anonymous && r.credential == "" {
		return nil, shared.Unauthenticated()
	}

	timeout := r.timeout
	if timeout <= 0 {
		timeout = c.readTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil, classify(ctx, err)
			}
			// Wait fails early when the next token lies past the deadline.
			return nil, shared.Timeout(err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, r.body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	start := time.Now()
	resp, err := c.clientFor(r).Do(req)
	if err != nil {
		failure := classify(ctx, err)
		c.logger.Warn("request failed", "method", r.method, "path", r.path, "kind", failure.Kind, "error", err)
		return nil, failure
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(ctx, err)
	}

	c.logger.Debug("request complete", "method", r.method, "path", r.path, "status", resp.StatusCode, "elapsed", time.Since(start))

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// do performs r, maps non-2xx to [shared.Rejected] and decodes a 2xx body into out when out is non-nil.
func (c *Client) do(ctx context.Context, r request, out any) error {
	resp, err := c.send(ctx, r)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		failure := shared.Rejected(resp.StatusCode, errorDetail(resp.Body))
		c.logger.Warn("request rejected", "method", r.method, "path", r.path, "status", resp.StatusCode, "detail", failure.Detail)
		return failure
	}

	if out != nil && len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, out); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
		}
	}
	return nil
}

// Raw performs an authenticated request and returns the response without interpreting the status.
func (c *Client) Raw(ctx context.Context, credential, method, path string, body []byte) (*APIResponse, error) {
	r := request{method: method, path: path, credential: credential}
	if len(body) > 0 {
		r.body = bytes.NewReader(body)
		r.contentType = "application/json"
	}
	return c.send(ctx, r)
}

// clientFor returns an http.Client whose transport attaches the request's bearer credential.
func (c *Client) clientFor(r request) *http.Client {
	if r.anonymous {
		return c.httpClient
	}

	hc := *c.httpClient
	hc.Transport = &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: r.credential, TokenType: "Bearer"}),
		Base:   c.httpClient.Transport,
	}
	return &hc
}

// classify maps a transport error to a failure kind.
func classify(ctx context.Context, err error) *shared.Failure {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return shared.Timeout(err)
	}
	return shared.Unreachable(err)
}

// errorDetail extracts the "error" field from a JSON error body.
func errorDetail(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Error
}
