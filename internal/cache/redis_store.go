package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	redisViewPrefix   = "feedback:view:"
	redisTagPrefix    = "feedback:tag:"
	redisTagVerPrefix = "feedback:tagver:"
	redisSeqKey       = "feedback:tagseq"
)

// setIfFresh stores the view unless a tag version moved past the ticket.
// KEYS: view, n tag sets, n tag versions. ARGV: value, ttl ms, ticket seq, n, view key.
var setIfFresh = redis.NewScript(`
local n = tonumber(ARGV[4])
local since = tonumber(ARGV[3])
for i = 1, n do
  local ver = redis.call('GET', KEYS[1 + n + i])
  if ver and tonumber(ver) > since then
    return 0
  end
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
for i = 1, n do
  redis.call('SADD', KEYS[1 + i], ARGV[5])
  redis.call('PEXPIRE', KEYS[1 + i], 2 * tonumber(ARGV[2]))
end
return 1
`)

// RedisStore shares views between instances. Each tag is a redis set of view
// keys plus a version stamped from a shared sequence on every invalidation.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a store on an existing client
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, redisViewPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *RedisStore) Ticket(ctx context.Context) (Ticket, error) {
	taken := time.Now()
	seq, err := s.client.Get(ctx, redisSeqKey).Uint64()
	if errors.Is(err, redis.Nil) {
		return Ticket{Taken: taken}, nil
	}
	if err != nil {
		return Ticket{}, err
	}
	return Ticket{Seq: seq, Taken: taken}, nil
}

// Set stores the view and registers it under each tag. Tag sets and versions
// outlive their views by one ttl so a late invalidation or ticket still finds them.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, tags []string, ticket Ticket) error {
	if ticketExpired(ticket, s.ttl, time.Now()) {
		return ErrStale
	}

	keys := make([]string, 0, 1+2*len(tags))
	keys = append(keys, redisViewPrefix+key)
	for _, tag := range tags {
		keys = append(keys, redisTagPrefix+tag)
	}
	for _, tag := range tags {
		keys = append(keys, redisTagVerPrefix+tag)
	}

	stored, err := setIfFresh.Run(ctx, s.client, keys,
		value, s.ttl.Milliseconds(), strconv.FormatUint(ticket.Seq, 10), len(tags), key).Int()
	if err != nil {
		return err
	}
	if stored == 0 {
		return ErrStale
	}
	return nil
}

func (s *RedisStore) InvalidateTags(ctx context.Context, tags ...string) error {
	seq, err := s.client.Incr(ctx, redisSeqKey).Result()
	if err != nil {
		return err
	}
	if _, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, tag := range tags {
			pipe.Set(ctx, redisTagVerPrefix+tag, seq, 2*s.ttl)
		}
		return nil
	}); err != nil {
		return err
	}

	var firstErr error
	for _, tag := range tags {
		if err := s.invalidateTag(ctx, tag); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *RedisStore) invalidateTag(ctx context.Context, tag string) error {
	tagKey := redisTagPrefix + tag
	members, err := s.client.SMembers(ctx, tagKey).Result()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(members)+1)
	for _, member := range members {
		keys = append(keys, redisViewPrefix+member)
	}
	keys = append(keys, tagKey)
	return s.client.Del(ctx, keys...).Err()
}
