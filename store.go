package hackernews

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Store is the remote hierarchical key-value store items, users and lists are read from.
// Get returns the raw payload stored under path, or ErrNotFound when the path holds no value.
// Implementations are shared by all concurrent fetches and must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, path string) ([]byte, error)
}

// DefaultStoreURL is the root of the public Hacker News store.
const DefaultStoreURL = "https://hacker-news.firebaseio.com/v0"

const (
	// defaultRequestTimeout bounds the wait for response headers of a single request.
	defaultRequestTimeout = 10 * time.Second
	// defaultResourceTimeout bounds a single request from dial to the last body byte.
	defaultResourceTimeout = 30 * time.Second
)

// HTTPStore reads paths from the store's REST interface, where every path is served
// as a JSON document at <base>/<path>.json. The http.Client and the optional rate
// limiter are configured once and shared read-only by all requests.
type HTTPStore struct {
	client          *http.Client
	baseURL         string
	limiter         *rate.Limiter
	requestTimeout  time.Duration
	resourceTimeout time.Duration
}

// NewHTTPStore constructs an HTTPStore. Without WithHTTPClient a dedicated client is built
// with the configured request and resource timeouts. An unparsable base URL is a
// configuration error and fails construction.
func NewHTTPStore(opts ...HTTPStoreOption) (*HTTPStore, error) {
	store := &HTTPStore{
		baseURL:         DefaultStoreURL,
		requestTimeout:  defaultRequestTimeout,
		resourceTimeout: defaultResourceTimeout,
	}

	for _, opt := range opts {
		opt(store)
	}

	if _, err := url.ParseRequestURI(store.baseURL); err != nil {
		return nil, fmt.Errorf("hackernews: store url: %w", err)
	}

	store.baseURL = strings.TrimRight(store.baseURL, "/")

	if store.client == nil {
		store.client = newHTTPClient(store.requestTimeout, store.resourceTimeout)
	}

	return store, nil
}

// newHTTPClient builds a client whose transport gives up on slow response headers after
// requestTimeout and whose whole exchange, body included, is capped at resourceTimeout.
func newHTTPClient(requestTimeout, resourceTimeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = requestTimeout

	return &http.Client{
		Transport: transport,
		Timeout:   resourceTimeout,
	}
}

// Get fetches the JSON document stored at path. A JSON null or an empty body means the
// path holds no value and is reported as ErrNotFound.
func (s *HTTPStore) Get(ctx context.Context, path string) ([]byte, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	endpoint := s.baseURL + "/" + strings.TrimPrefix(path, "/") + ".json"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if isAbsent(body) {
		return nil, ErrNotFound
	}

	return body, nil
}

// isAbsent reports whether a payload carries no value at all.
func isAbsent(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
