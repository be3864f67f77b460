package hackernews

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// BatchFetcher fetches many items concurrently through an ItemGetter and reassembles them
// in the caller's order. It is the point where single-fetch failures are absorbed: an id
// whose fetch fails, for whatever reason, is left out of the result without affecting
// the fetches of the other ids. An item whose id differs from the one requested counts as
// a failed fetch; this includes Unknown items, whose synthetic ids never match.
type BatchFetcher struct {
	getter ItemGetter
	limit  int
	log    zerolog.Logger
}

// NewBatchFetcher returns a BatchFetcher over getter. A positive limit caps the number of
// fetches in flight; otherwise all fetches of a batch are started at once.
func NewBatchFetcher(getter ItemGetter, limit int, logger zerolog.Logger) *BatchFetcher {
	return &BatchFetcher{getter: getter, limit: limit, log: logger}
}

// Fetch retrieves the items of ids, one independent fetch per id, duplicates included.
// The result keeps the relative order of ids, whatever order the responses arrive in.
// Once ctx is done no more fetches are started; fetches already running observe the same
// ctx and end early, and their ids are dropped like any other failure.
func (b *BatchFetcher) Fetch(ctx context.Context, ids []ItemID) []Item {
	items := make([]Item, 0, len(ids))
	if len(ids) == 0 {
		return items
	}

	// Every goroutine owns exactly one slot, so no slot is written twice and the
	// reduction below can read them all without locking once Wait returns.
	slots := make([]Item, len(ids))
	fetched := make([]bool, len(ids))

	var g errgroup.Group
	if b.limit > 0 {
		g.SetLimit(b.limit)
	}

	for i, id := range ids {
		if ctx.Err() != nil {
			break
		}

		g.Go(func() error {
			// With a limit set, this may start long after it was queued.
			if ctx.Err() != nil {
				return nil
			}

			item, err := b.getter.Item(ctx, id)
			if err != nil {
				return nil
			}

			if item.ID() != id {
				b.log.Debug().
					Str("path", maskPath(itemPath(id))).
					Str("type", string(item.Type())).
					Msg("dropping item with mismatched id")
				return nil
			}

			slots[i] = item
			fetched[i] = true

			return nil
		})
	}

	// Failures never reach the group, so Wait has nothing to report.
	_ = g.Wait()

	for i := range slots {
		if fetched[i] {
			items = append(items, slots[i])
		}
	}

	return items
}
