package hackernews

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// The script defaultReadCommand reads a single store path from a redis mirror of the tree.
// Items and users are mirrored as JSON strings and returned unchanged. Named lists are
// mirrored as redis lists of ids; they are trimmed to max_ids entries and re-encoded as a
// JSON array of numbers so the payload has the same shape the public store serves.
// Any other key type, or a missing key, yields a nil reply.
var defaultReadCommand = redis.NewScript(`
local key = KEYS[1]
local max_ids = tonumber(ARGV[1])
local kind = redis.call('TYPE', key)
if type(kind) == 'table' then
	kind = kind['ok']
end

if kind == 'string' then
	return redis.call('GET', key)
end

if kind == 'list' then
	local ids = redis.call('LRANGE', key, 0, max_ids - 1)
	if #ids == 0 then
		return '[]'
	end
	for i = 1, #ids do
		ids[i] = tonumber(ids[i])
	end
	return cjson.encode(ids)
end

return false
`)

// defaultListSize caps how many ids are read from a mirrored list in a single operation.
// The public store never serves lists longer than this.
const defaultListSize = 500

// defaultKeyPrefix mirrors the root path of the public store.
const defaultKeyPrefix = "v0/"

// RedisStore provides a redis-backed Store over a mirrored copy of the item tree.
// It encapsulates the redis client, the Lua script used to read a path, the key prefix
// every path is stored under and the maximum list length returned per read.
// All fields are configured during construction and are not modified afterward.
type RedisStore struct {
	rdb         redis.UniversalClient
	readCommand *redis.Script
	prefix      string
	size        int
}

// NewRedisStore function constructs a fully configured RedisStore instance.
// It applies all provided functional options, validates required dependencies,
// and initializes default values for any optional configuration not explicitly set.
// The function returns an error only when mandatory configuration is missing.
func NewRedisStore(opts ...RedisStoreOption) (*RedisStore, error) {
	store := &RedisStore{prefix: defaultKeyPrefix}

	for _, opt := range opts {
		opt(store)
	}

	if store.rdb == nil {
		return nil, ErrEmptyRedisClient
	}

	if store.readCommand == nil {
		store.readCommand = defaultReadCommand
	}

	if store.size <= 0 {
		store.size = defaultListSize
	}

	return store, nil
}

// Get is a method on the RedisStore struct that reads the payload mirrored under path.
// It runs the read script against the prefixed key; a nil reply is reported as ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, path string) ([]byte, error) {
	result, err := s.readCommand.Run(ctx, s.rdb, []string{s.prefix + path}, s.size).Text()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	if isAbsent([]byte(result)) {
		return nil, ErrNotFound
	}

	return []byte(result), nil
}
