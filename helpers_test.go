package hackernews

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// memoryStore is an in-memory Store for tests. Its maps are filled before use and only
// read afterward, so concurrent Get calls need no locking.
type memoryStore struct {
	payloads map[string]string
	errs     map[string]error
	delays   map[string]time.Duration

	// block makes every Get wait for its context to end.
	block bool
	// barrier, when set, makes every Get wait until all expected calls have arrived.
	barrier *sync.WaitGroup

	calls    atomic.Int64
	inFlight atomic.Int64
	peak     atomic.Int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		payloads: map[string]string{},
		errs:     map[string]error{},
		delays:   map[string]time.Duration{},
	}
}

func (m *memoryStore) Get(ctx context.Context, path string) ([]byte, error) {
	m.calls.Add(1)

	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)

	for {
		peak := m.peak.Load()
		if n <= peak || m.peak.CompareAndSwap(peak, n) {
			break
		}
	}

	if m.barrier != nil {
		m.barrier.Done()
		m.barrier.Wait()
	}

	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	if d := m.delays[path]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err, ok := m.errs[path]; ok {
		return nil, err
	}

	payload, ok := m.payloads[path]
	if !ok {
		return nil, ErrNotFound
	}

	return []byte(payload), nil
}

func (m *memoryStore) putStory(id ItemID) {
	m.payloads[itemPath(id)] = storyJSON(id)
}

func storyJSON(id ItemID) string {
	return fmt.Sprintf(`{"id":%d,"type":"story","by":"pg","time":1175714200,"title":"story %d","score":%d,"descendants":0,"url":"http://example.com/%d"}`, id, id, id, id)
}

func newTestClient(store Store, opts ...Option) *Client {
	opts = append([]Option{WithStore(store), WithLogger(zerolog.Nop())}, opts...)

	client, err := NewClient(opts...)
	if err != nil {
		panic(err)
	}

	return client
}

func itemIDs(items []Item) []ItemID {
	ids := make([]ItemID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID())
	}

	return ids
}
