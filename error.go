package hackernews

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyStore is returned when attempting to create a client without providing a remote store.
// The store is mandatory for all client operations; construction fails if it is missing.
var ErrEmptyStore = errors.New("remote store is empty")

// ErrEmptyRedisClient is returned when attempting to create a RedisStore without a redis client.
var ErrEmptyRedisClient = errors.New("redis client is empty")

// ErrEmptyFetcher is returned when a Searcher is built without a batch fetcher to delegate to.
var ErrEmptyFetcher = errors.New("batch fetcher is empty")

// ErrNotFound is returned by a Store when the requested path holds no value.
var ErrNotFound = errors.New("no value at path")

// ErrBadStatus is returned when a remote endpoint answers with a non-2xx status code.
var ErrBadStatus = errors.New("unexpected status code")

// Kind classifies the failure reported by a single fetch.
type Kind uint8

const (
	// KindTransport covers network errors, timeouts and non-success responses.
	KindTransport Kind = iota + 1
	// KindNotFound means the store answered but the path holds no value.
	KindNotFound
	// KindDecode means a payload was received but did not match the expected shape.
	KindDecode
	// KindCanceled means the caller's context ended before the fetch completed.
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindNotFound:
		return "not_found"
	case KindDecode:
		return "decode"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// FetchError is the classified failure returned by every single-path fetch.
// It records which operation failed, on which store path, and why. The underlying
// error stays reachable through errors.Is and errors.As, so callers can still match
// context.Canceled, ErrNotFound or a transport error directly.
type FetchError struct {
	Op   string
	Path string
	Kind Kind
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("hackernews: %s %s: %s: %v", e.Op, e.Path, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// classify picks the Kind of a store error. Context errors win over everything else
// since a request aborted by cancellation usually surfaces as a transport error too.
func classify(ctx context.Context, err error) Kind {
	switch {
	case ctx.Err() != nil, errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindTransport
	}
}

// IsCanceled reports whether err is a fetch that ended because its context did.
func IsCanceled(err error) bool {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind == KindCanceled
	}

	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
