package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/viccon/sturdyc"
)

// MemoryConfig sizes the in-process store
type MemoryConfig struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
}

// Validate checks the sturdyc constructor arguments
func (c MemoryConfig) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("cache capacity must be greater than 0")
	}
	if c.NumShards <= 0 {
		return fmt.Errorf("cache shards must be greater than 0")
	}
	if c.TTL <= 0 {
		return fmt.Errorf("cache ttl must be greater than 0")
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return fmt.Errorf("cache eviction percentage must be between 1 and 100")
	}
	return nil
}

type invalidation struct {
	seq uint64
	at  time.Time
}

// MemoryStore keeps views in a sturdyc client with a local tag index.
//
// sturdyc evicts and expires on its own, so the index is swept for keys the
// client no longer holds whenever it doubles past the last swept size.
type MemoryStore struct {
	client   *sturdyc.Client[[]byte]
	ttl      time.Duration
	capacity int
	now      func() time.Time

	mu          sync.Mutex
	tags        map[string]map[string]struct{}
	keyTags     map[string][]string
	seq         uint64
	invalidated map[string]invalidation
	sweepAt     int
}

// NewMemoryStore creates an in-process store
func NewMemoryStore(cfg MemoryConfig) (*MemoryStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &MemoryStore{
		client:      sturdyc.New[[]byte](cfg.Capacity, cfg.NumShards, cfg.TTL, cfg.EvictionPercentage),
		ttl:         cfg.TTL,
		capacity:    cfg.Capacity,
		now:         time.Now,
		tags:        make(map[string]map[string]struct{}),
		keyTags:     make(map[string][]string),
		invalidated: make(map[string]invalidation),
		sweepAt:     cfg.Capacity,
	}, nil
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, ok := s.client.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	return value, nil
}

func (s *MemoryStore) Ticket(ctx context.Context) (Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Ticket{Seq: s.seq, Taken: s.now()}, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, tags []string, ticket Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if ticketExpired(ticket, s.ttl, now) {
		return ErrStale
	}
	for _, tag := range tags {
		if inv, ok := s.invalidated[tag]; ok && inv.seq > ticket.Seq {
			return ErrStale
		}
	}

	s.unlink(key)
	s.client.Set(key, value)
	s.link(key, tags)
	s.maybeSweep(now)
	return nil
}

func (s *MemoryStore) InvalidateTags(ctx context.Context, tags ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.seq++
	for _, tag := range tags {
		s.invalidated[tag] = invalidation{seq: s.seq, at: now}
		for key := range s.tags[tag] {
			s.client.Delete(key)
			s.unlink(key)
		}
	}
	s.maybeSweep(now)
	return nil
}

func (s *MemoryStore) link(key string, tags []string) {
	linked := make([]string, 0, len(tags))
	for _, tag := range tags {
		keys, ok := s.tags[tag]
		if !ok {
			keys = make(map[string]struct{})
			s.tags[tag] = keys
		}
		if _, dup := keys[key]; dup {
			continue
		}
		keys[key] = struct{}{}
		linked = append(linked, tag)
	}
	s.keyTags[key] = linked
}

func (s *MemoryStore) unlink(key string) {
	for _, tag := range s.keyTags[key] {
		keys := s.tags[tag]
		delete(keys, key)
		if len(keys) == 0 {
			delete(s.tags, tag)
		}
	}
	delete(s.keyTags, key)
}

// maybeSweep drops index entries for views sturdyc has evicted or expired and
// forgets invalidations no live ticket can predate. Caller holds mu.
func (s *MemoryStore) maybeSweep(now time.Time) {
	if len(s.keyTags)+len(s.invalidated) < s.sweepAt {
		return
	}
	for key := range s.keyTags {
		if _, ok := s.client.Get(key); !ok {
			s.unlink(key)
		}
	}
	for tag, inv := range s.invalidated {
		if now.Sub(inv.at) > s.ttl {
			delete(s.invalidated, tag)
		}
	}
	s.sweepAt = 2 * (len(s.keyTags) + len(s.invalidated))
	if s.sweepAt < s.capacity {
		s.sweepAt = s.capacity
	}
}
