package client

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-careforms/pkg/contract"
)

// DefaultTimeout bounds a single service call. Document generation on the
// HRA endpoints can take minutes.
const DefaultTimeout = 5 * time.Minute

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithContract validates payloads against the given contract. Passing nil
// disables validation.
func WithContract(doc *contract.Contract) Option {
	return func(c *Client) {
		c.contract = doc
	}
}

// WithTimeout caps each request. Zero disables the per-request deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout >= 0 {
			c.timeout = timeout
		}
	}
}

// WithRequestIDs overrides the request id generator.
func WithRequestIDs(next func() string) Option {
	return func(c *Client) {
		if next != nil {
			c.requestID = next
		}
	}
}
