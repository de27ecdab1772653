package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchBody = `{
  "total_count": 2,
  "incomplete_results": false,
  "items": [
    {"id": 2325298, "name": "linux", "html_url": "https://github.com/torvalds/linux",
     "description": "Linux kernel source tree", "stargazers_count": 1,
     "owner": {"login": "torvalds", "html_url": "https://github.com/torvalds", "id": 1024025}},
    {"name": "linux-mirror", "html_url": "https://github.com/example/linux-mirror",
     "description": null, "owner": {"login": "example", "html_url": "https://github.com/example"}}
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(srv.URL, "hexocat-bot")
	require.NoError(t, err)
	return client
}

func TestSearchRepositoriesRequest(t *testing.T) {
	var gotPath, gotQuery, gotPerPage, gotAgent, gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		gotPerPage = r.URL.Query().Get("per_page")
		gotAgent = r.Header.Get("User-Agent")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items": []}`))
	})

	_, err := client.SearchRepositories(context.Background(), "rust lang", 10)
	require.NoError(t, err)

	assert.Equal(t, "/search/repositories", gotPath)
	assert.Equal(t, "rust lang", gotQuery)
	assert.Equal(t, "10", gotPerPage)
	assert.Equal(t, "hexocat-bot", gotAgent)
	assert.Empty(t, gotAuth)
}

func TestSearchRepositoriesDecodesInOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(searchBody))
	})

	result, err := client.SearchRepositories(context.Background(), "linux", 10)
	require.NoError(t, err)
	require.Len(t, result.Items, 2)

	first := result.Items[0]
	assert.Equal(t, "linux", first.Name)
	assert.Equal(t, "https://github.com/torvalds/linux", first.HTMLURL)
	assert.Equal(t, "torvalds", first.Owner.Login)
	assert.Equal(t, "https://github.com/torvalds", first.Owner.HTMLURL)
	assert.Equal(t, "Linux kernel source tree", first.DescriptionOrDefault())

	second := result.Items[1]
	assert.Equal(t, "linux-mirror", second.Name)
	assert.Nil(t, second.Description)
	assert.Equal(t, "-", second.DescriptionOrDefault())
}

func TestSearchRepositoriesEmptyItems(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total_count": 0, "items": []}`))
	})

	result, err := client.SearchRepositories(context.Background(), "nosuchrepo", 10)
	require.NoError(t, err)
	assert.Empty(t, result.Items)
}

func TestSearchRepositoriesFailures(t *testing.T) {
	t.Run("non-2xx status", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message": "API rate limit exceeded"}`, http.StatusForbidden)
		})

		_, err := client.SearchRepositories(context.Background(), "linux", 10)
		require.ErrorIs(t, err, ErrSearchFailed)

		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	})

	t.Run("malformed body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"items": [`))
		})

		_, err := client.SearchRepositories(context.Background(), "linux", 10)
		require.ErrorIs(t, err, ErrSearchFailed)
	})

	t.Run("missing items envelope", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"message": "API rate limit exceeded"}`))
		})

		_, err := client.SearchRepositories(context.Background(), "linux", 10)
		require.ErrorIs(t, err, ErrSearchFailed)
		require.ErrorIs(t, err, errMissingItems)
	})

	t.Run("null items", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"items": null}`))
		})

		_, err := client.SearchRepositories(context.Background(), "linux", 10)
		require.ErrorIs(t, err, ErrSearchFailed)
	})

	t.Run("incomplete item", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"items": [{"name": "linux"}]}`))
		})

		_, err := client.SearchRepositories(context.Background(), "linux", 10)
		require.ErrorIs(t, err, ErrSearchFailed)
		require.ErrorIs(t, err, errIncompleteItem)
	})

	t.Run("network failure", func(t *testing.T) {
		client, err := NewClient("http://search.invalid", "hexocat-bot", WithTransport(failingTransport{}))
		require.NoError(t, err)

		_, err = client.SearchRepositories(context.Background(), "linux", 10)
		require.ErrorIs(t, err, ErrSearchFailed)
		require.ErrorIs(t, err, errConnectionRefused)
	})
}

var errConnectionRefused = errors.New("connection refused")

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errConnectionRefused
}
