package fetcher

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// HTTPOptions configures the HTTP client.
type HTTPOptions struct {
	UserAgent      string
	Timeout        time.Duration
	KeepAlive      bool
	DefaultHeaders map[string]string
	RateLimit      rate.Limit
	RateBurst      int
}

// HTTPClient implements Client using net/http with rate limiting and
// request/response logging. It performs exactly one attempt per call;
// retries, if desired, are the caller's responsibility.
type HTTPClient struct {
	client  *http.Client
	opts    HTTPOptions
	limiter *rate.Limiter
}

// Ensure HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a new HTTPClient with the given options.
func NewHTTPClient(opts HTTPOptions) *HTTPClient {
	if opts.Timeout == 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "licenses-cli/1.0"
	}
	if opts.RateLimit == 0 {
		opts.RateLimit = 5
	}
	if opts.RateBurst == 0 {
		opts.RateBurst = 5
	}
	transport := &http.Transport{
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DisableKeepAlives:   !opts.KeepAlive,
	}
	return &HTTPClient{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		opts:    opts,
		limiter: rate.NewLimiter(opts.RateLimit, opts.RateBurst),
	}
}

func (c *HTTPClient) do(ctx context.Context, method, rawURL string, body []byte, headers map[string]string) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "rate limiter wait")
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	for k, v := range c.opts.DefaultHeaders {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	zap.L().Debug("http request",
		zap.String("method", method),
		zap.String("url", rawURL),
		zap.Int("body_bytes", len(body)),
	)

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)
	if err != nil {
		zap.L().Error("http request failed",
			zap.String("method", method),
			zap.String("url", rawURL),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, eris.Wrapf(err, "%s %s", method, rawURL)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "read body of %s %s", method, rawURL)
	}

	logFn := zap.L().Debug
	if resp.StatusCode >= http.StatusBadRequest {
		logFn = zap.L().Error
	}
	logFn("http response",
		zap.String("method", method),
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Int("body_bytes", len(respBody)),
		zap.Duration("duration", duration),
	)

	return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}

// Get issues a GET request with optional query parameters.
func (c *HTTPClient) Get(ctx context.Context, rawURL string, query url.Values) (*Response, error) {
	if len(query) > 0 {
		rawURL = rawURL + "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, rawURL, nil, nil)
}

// Post issues a POST request with a raw body and explicit headers.
func (c *HTTPClient) Post(ctx context.Context, rawURL string, body []byte, headers map[string]string) (*Response, error) {
	return c.do(ctx, http.MethodPost, rawURL, body, headers)
}

// Put issues a PUT request with a raw body and explicit headers.
func (c *HTTPClient) Put(ctx context.Context, rawURL string, body []byte, headers map[string]string) (*Response, error) {
	return c.do(ctx, http.MethodPut, rawURL, body, headers)
}

// Patch issues a PATCH request with a raw body and explicit headers.
func (c *HTTPClient) Patch(ctx context.Context, rawURL string, body []byte, headers map[string]string) (*Response, error) {
	return c.do(ctx, http.MethodPatch, rawURL, body, headers)
}
