// Package github queries the GitHub repository search API.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ca-srg/hexocat/internal/types"
	"github.com/ca-srg/hexocat/internal/useragent"
)

// DefaultBaseURL is the public GitHub REST API.
const DefaultBaseURL = "https://api.github.com"

// ErrSearchFailed is returned for every failed search: transport errors,
// non-2xx responses and undecodable bodies alike.
var ErrSearchFailed = errors.New("github: repository search failed")

// StatusError reports a non-2xx response from the search endpoint.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %s", e.Status)
}

// Client issues unauthenticated repository searches.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	transport http.RoundTripper
}

// WithTransport replaces the transport underneath the User-Agent and tracing layers.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *clientOptions) { o.transport = rt }
}

// NewClient returns a client for the API rooted at baseURL. Every request
// carries userAgent as its User-Agent header. No timeout is set; callers
// bound a search with the context they pass to SearchRepositories.
func NewClient(baseURL, userAgent string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	o := clientOptions{transport: http.DefaultTransport}
	for _, opt := range opts {
		opt(&o)
	}

	transport := otelhttp.NewTransport(useragent.NewTransport(userAgent, o.transport))
	return &Client{
		baseURL:    u,
		httpClient: &http.Client{Transport: transport},
	}, nil
}

// SearchRepositories runs GET /search/repositories?q=<query>&per_page=<perPage>.
// The query is sent as given. Any failure wraps ErrSearchFailed.
func (c *Client) SearchRepositories(ctx context.Context, query string, perPage int) (*types.SearchResult, error) {
	endpoint := c.baseURL.JoinPath("search", "repositories")
	params := url.Values{}
	params.Set("q", query)
	params.Set("per_page", strconv.Itoa(perPage))
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status})
	}

	var envelope searchEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrSearchFailed, err)
	}
	result, err := envelope.result()
	if err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrSearchFailed, err)
	}
	return result, nil
}

var (
	errMissingItems   = errors.New("response has no items field")
	errIncompleteItem = errors.New("repository is missing name, html_url or owner.login")
)

// searchEnvelope tells an absent items field apart from an empty one.
type searchEnvelope struct {
	Items *[]types.Repository `json:"items"`
}

func (e searchEnvelope) result() (*types.SearchResult, error) {
	if e.Items == nil {
		return nil, errMissingItems
	}
	for i, repo := range *e.Items {
		if repo.Name == "" || repo.HTMLURL == "" || repo.Owner.Login == "" {
			return nil, fmt.Errorf("item %d: %w", i, errIncompleteItem)
		}
	}
	return &types.SearchResult{Items: *e.Items}, nil
}
