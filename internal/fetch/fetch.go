// Package fetch retrieves a remote Markdown document over HTTP so the CLI's
// fetch command can hand it to the chunking pipeline without a shell pipe.
package fetch

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// DefaultTimeout bounds a single fetch.
const DefaultTimeout = 30 * time.Second

// FetchError reports a failed document retrieval with enough context to
// decide whether retrying makes sense.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch: GET %s failed with status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch: GET %s failed: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether a FetchError is worth retrying: 5xx
// responses and transport-level failures (StatusCode == 0) are, 4xx
// responses are not.
func IsRetryable(err error) bool {
	var fe *FetchError
	if !errors.As(err, &fe) {
		return false
	}
	return fe.StatusCode >= 500 || fe.StatusCode == 0
}

// Client retrieves remote documents with a standard retry policy, tagging
// every request with a correlation ID for log correlation.
type Client struct {
	client *resty.Client
}

// NewClient builds a Client with the given timeout (DefaultTimeout if zero).
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := resty.New().
		SetTimeout(timeout).
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second)

	c.AddRetryCondition(func(r *resty.Response, err error) bool {
		return err != nil || r.StatusCode() >= 500
	})

	return &Client{client: c}
}

// Get retrieves url's body as text, returning the correlation ID used for
// the request alongside the body.
func (c *Client) Get(url string) (body string, correlationID string, err error) {
	correlationID = uuid.NewString()

	resp, err := c.client.R().
		SetHeader("X-Correlation-ID", correlationID).
		Get(url)
	if err != nil {
		return "", correlationID, &FetchError{URL: url, Err: err}
	}
	if resp.StatusCode() >= 400 {
		return "", correlationID, &FetchError{URL: url, StatusCode: resp.StatusCode(), Err: fmt.Errorf("HTTP %d", resp.StatusCode())}
	}
	return resp.String(), correlationID, nil
}
