package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Profile carries the source-specific request headers for one upstream,
// including any cookie jar and session tokens. It is plain configuration:
// the client applies it verbatim and never synthesizes header values.
type Profile struct {
	Headers map[string]string
}

// RequestError reports a connection-level failure (DNS, refused, timeout).
type RequestError struct {
	URL string
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: status code %d", e.URL, e.StatusCode)
}

// Client issues single GET requests against the upstream sources. It holds
// no retry policy; retries belong to the pipeline that calls it.
type Client struct {
	httpClient *http.Client
}

func New() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Get performs one GET against urlStr with the profile headers applied and
// returns the raw response body. Failures are typed: *RequestError for
// connection-level problems, *StatusError for any non-2xx response.
func (c *Client) Get(ctx context.Context, urlStr string, profile Profile) ([]byte, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL %s: %w", urlStr, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid URL scheme %s: only http and https allowed", parsedURL.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for URL %s: %w", urlStr, err)
	}
	for name, value := range profile.Headers {
		req.Header.Set(name, value)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{URL: urlStr, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &StatusError{URL: urlStr, StatusCode: res.StatusCode}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &RequestError{URL: urlStr, Err: err}
	}
	return body, nil
}
