package hackernews

import "context"

// Fetcher is a generic interface defining a contract for types that fetch many records at once.
// It specifies a single method, Fetch, which retrieves the records of the given ids and returns
// them in the order of the ids. Fetch reports no error: ids that could not be fetched are
// simply missing from the result, so a caller always receives whatever could be retrieved.
type Fetcher[T any] interface {
	// Fetch retrieves the records identified by ids. The context bounds the whole batch;
	// once it is done no further fetch is started and pending ones are abandoned.
	Fetch(ctx context.Context, ids []ItemID) []T
}

// ItemGetter fetches a single item and reports precisely why it could not.
type ItemGetter interface {
	Item(ctx context.Context, id ItemID) (Item, error)
}
