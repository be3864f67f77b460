package hackernews

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Client reads items, users and lists from a remote Store and decodes them.
// Every single-path read performs exactly one store request, never retries, and reports
// failures as a *FetchError. The store and decoders are configured once at construction
// and shared read-only by all concurrent calls.
type Client struct {
	store       Store
	log         zerolog.Logger
	items       Transcoder[Item]
	users       Transcoder[User]
	ids         Transcoder[[]ItemID]
	maxID       Transcoder[ItemID]
	concurrency int
	batch       *BatchFetcher
}

// NewClient function constructs a fully configured Client instance.
// It applies all provided functional options, validates required dependencies,
// and initializes default values for any optional configuration not explicitly set.
// The function returns an error only when mandatory configuration is missing.
func NewClient(opts ...Option) (*Client, error) {
	client := &Client{log: log.Logger}

	for _, opt := range opts {
		opt(client)
	}

	if client.store == nil {
		return nil, ErrEmptyStore
	}

	if client.items == nil {
		client.items = defaultTranscoder[Item]{}
	}

	if client.users == nil {
		client.users = defaultTranscoder[User]{}
	}

	client.ids = defaultTranscoder[[]ItemID]{}
	client.maxID = defaultTranscoder[ItemID]{}
	client.batch = NewBatchFetcher(client, client.concurrency, client.log)

	return client, nil
}

var (
	defaultClient *Client
	defaultErr    error
	defaultOnce   sync.Once
)

// Default returns the process-wide client reading the public store over HTTP.
// It is built on first use and shared afterward; it is never rebuilt.
func Default() (*Client, error) {
	defaultOnce.Do(func() {
		store, err := NewHTTPStore()
		if err != nil {
			defaultErr = err
			return
		}

		defaultClient, defaultErr = NewClient(WithStore(store))
	})

	return defaultClient, defaultErr
}

// get performs one read of path and decodes the payload with codec. Cancellation is
// checked before the request, after the payload arrives and after decoding, so a
// cancelled call never returns a value. Exactly one log line is written per call.
func get[T any](ctx context.Context, c *Client, op, path string, codec Transcoder[T]) (T, error) {
	var zero T

	logger := c.log.With().Str("op", op).Str("path", maskPath(path)).Logger()

	fail := func(kind Kind, err error) (T, error) {
		ev := logger.Error()
		if kind == KindCanceled {
			ev = logger.Debug()
		}
		ev.Stringer("kind", kind).Err(err).Msg("store read failed")

		return zero, &FetchError{Op: op, Path: path, Kind: kind, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return fail(KindCanceled, err)
	}

	raw, err := c.store.Get(ctx, path)
	if err != nil {
		return fail(classify(ctx, err), err)
	}

	if err := ctx.Err(); err != nil {
		return fail(KindCanceled, err)
	}

	value, err := codec.Decode(raw)
	if err != nil {
		return fail(KindDecode, err)
	}

	if err := ctx.Err(); err != nil {
		return fail(KindCanceled, err)
	}

	logger.Debug().Int("bytes", len(raw)).Msg("store read")

	return value, nil
}

// Item fetches a single item. Records of an unrecognized type are returned as an
// Unknown item rather than an error.
func (c *Client) Item(ctx context.Context, id ItemID) (Item, error) {
	return get(ctx, c, "item", itemPath(id), c.items)
}

// User fetches the profile of handle.
func (c *Client) User(ctx context.Context, handle Username) (User, error) {
	return get(ctx, c, "user", userPath(handle), c.users)
}

// ListIDs fetches the ids of a named list in ranked order.
func (c *Client) ListIDs(ctx context.Context, list List) ([]ItemID, error) {
	return get(ctx, c, "list", list.Path(), c.ids)
}

// MaxItem fetches the largest item id handed out so far.
func (c *Client) MaxItem(ctx context.Context) (ItemID, error) {
	return get(ctx, c, "maxitem", maxItemPath, c.maxID)
}

// Items fetches the items of ids concurrently, see BatchFetcher.Fetch.
func (c *Client) Items(ctx context.Context, ids []ItemID) []Item {
	return c.batch.Fetch(ctx, ids)
}

// Fetcher exposes the client's batch fetcher, e.g. to back a Searcher.
func (c *Client) Fetcher() Fetcher[Item] {
	return c.batch
}

// List fetches the ids of list and then the items behind them. Only the id list read
// can fail; items that cannot be fetched are left out.
func (c *Client) List(ctx context.Context, list List) ([]Item, error) {
	ids, err := c.ListIDs(ctx, list)
	if err != nil {
		return nil, err
	}

	return c.Items(ctx, ids), nil
}
