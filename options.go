package hackernews

import (
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Option type defines the functional options pattern used to configure a Client instance.
type Option func(c *Client)

// WithStore option assigns the remote store the Client reads every path from.
// Providing a store is required; the same store is shared by all concurrent fetches.
func WithStore(store Store) Option {
	return func(c *Client) {
		c.store = store
	}
}

// WithLogger option sets the logger receiving the per-fetch log line.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.log = logger
	}
}

// WithConcurrency option caps how many item fetches of one batch run at the same time.
// Zero or a negative value, the default, launches every fetch of a batch at once.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		c.concurrency = n
	}
}

// WithItemTranscoder option replaces the decoder used for item payloads.
func WithItemTranscoder(t Transcoder[Item]) Option {
	return func(c *Client) {
		c.items = t
	}
}

// WithUserTranscoder option replaces the decoder used for user payloads.
func WithUserTranscoder(t Transcoder[User]) Option {
	return func(c *Client) {
		c.users = t
	}
}

// HTTPStoreOption configures an HTTPStore.
type HTTPStoreOption func(s *HTTPStore)

// WithHTTPClient option makes the store send requests through client instead of building
// its own. The caller is then responsible for the client's timeouts.
func WithHTTPClient(client *http.Client) HTTPStoreOption {
	return func(s *HTTPStore) {
		s.client = client
	}
}

// WithStoreURL option points the store at another root, e.g. a test server.
func WithStoreURL(baseURL string) HTTPStoreOption {
	return func(s *HTTPStore) {
		s.baseURL = baseURL
	}
}

// WithRateLimiter option makes every request wait for limiter before it is sent.
// Waiting honors the request context.
func WithRateLimiter(limiter *rate.Limiter) HTTPStoreOption {
	return func(s *HTTPStore) {
		s.limiter = limiter
	}
}

// WithTimeouts option sets the per-request header timeout and the per-request total
// timeout of the store's own http.Client. Non-positive values keep the defaults.
func WithTimeouts(request, resource time.Duration) HTTPStoreOption {
	return func(s *HTTPStore) {
		if request > 0 {
			s.requestTimeout = request
		}
		if resource > 0 {
			s.resourceTimeout = resource
		}
	}
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(s *RedisStore)

// WithRedisClient option assigns the redis client used by the RedisStore to communicate with redis.
// This client is responsible for executing the read script against the redis instance.
// Providing a valid redis client is required for the store to function correctly.
func WithRedisClient(rdb redis.UniversalClient) RedisStoreOption {
	return func(s *RedisStore) {
		s.rdb = rdb
	}
}

// WithScript option specifies the Lua script used to read a path from redis.
// If no script is provided through this option, the RedisStore falls back to its default script.
// The script receives the prefixed key as KEYS[1] and the list size as ARGV[1].
func WithScript(src *redis.Script) RedisStoreOption {
	return func(s *RedisStore) {
		s.readCommand = src
	}
}

// WithListSize option configures the maximum number of ids read from a mirrored list.
// If this option is not provided, the RedisStore uses its internal default of 500.
func WithListSize(size int) RedisStoreOption {
	return func(s *RedisStore) {
		s.size = size
	}
}

// WithKeyPrefix option sets the prefix prepended to every path to form its redis key.
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// SearcherOption configures a Searcher.
type SearcherOption func(s *Searcher)

// WithFetcher option sets the batch fetcher search hits are resolved through. Required.
func WithFetcher(f Fetcher[Item]) SearcherOption {
	return func(s *Searcher) {
		s.fetcher = f
	}
}

// WithSearchURL option points the searcher at another search index root.
func WithSearchURL(baseURL string) SearcherOption {
	return func(s *Searcher) {
		s.baseURL = baseURL
	}
}

// WithSearchHTTPClient option sets the client used for index requests.
func WithSearchHTTPClient(client *http.Client) SearcherOption {
	return func(s *Searcher) {
		s.client = client
	}
}

// WithSearchLogger option sets the logger used when a search response is discarded.
func WithSearchLogger(logger zerolog.Logger) SearcherOption {
	return func(s *Searcher) {
		s.log = logger
	}
}

// FormSenderOption configures a FormSender.
type FormSenderOption func(s *FormSender)

// WithSiteURL option points the sender at another site root.
func WithSiteURL(siteURL string) FormSenderOption {
	return func(s *FormSender) {
		s.siteURL = siteURL
	}
}

// WithSenderLogger option sets the logger used for one line per action.
func WithSenderLogger(logger zerolog.Logger) FormSenderOption {
	return func(s *FormSender) {
		s.log = logger
	}
}
