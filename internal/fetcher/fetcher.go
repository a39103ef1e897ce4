package fetcher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/rotisserie/eris"
)

// Client defines the interface for talking to the remote portal.
type Client interface {
	// Get issues a GET request with optional query parameters.
	Get(ctx context.Context, rawURL string, query url.Values) (*Response, error)

	// Post issues a POST request with a raw body and explicit headers.
	Post(ctx context.Context, rawURL string, body []byte, headers map[string]string) (*Response, error)

	// Put issues a PUT request with a raw body and explicit headers.
	Put(ctx context.Context, rawURL string, body []byte, headers map[string]string) (*Response, error)

	// Patch issues a PATCH request with a raw body and explicit headers.
	Patch(ctx context.Context, rawURL string, body []byte, headers map[string]string) (*Response, error)
}

// Response holds a fully-read HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the response carries a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// JSON unmarshals the response body into v. An empty body is left as-is.
func (r *Response) JSON(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return eris.Wrap(err, "fetcher: unmarshal response body")
	}
	return nil
}
