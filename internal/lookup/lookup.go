// Package lookup memoizes entity reads for the lifetime of one request.
// A Cache must never outlive the request that created it.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"feedback-board-api/internal/domain"
)

// ErrNotFound is returned, and memoized, when the loader finds nothing
var ErrNotFound = errors.New("lookup: entity not found")

// Kind names an entity type. Boards are keyed by slug, everything else by id.
type Kind string

const (
	KindBoard          Kind = "board"
	KindFeatureRequest Kind = "feature_request"
	KindComment        Kind = "comment"
)

// LoaderFunc reads one entity. It returns ErrNotFound for a missing row.
type LoaderFunc func(ctx context.Context, id string) (interface{}, error)

// Loaders maps each kind to the store read behind it
type Loaders map[Kind]LoaderFunc

type key struct {
	kind Kind
	id   string
}

type entry struct {
	value interface{}
	err   error
}

// Cache is the per-request memo
type Cache struct {
	loaders Loaders

	mu      sync.Mutex
	entries map[key]entry
	loads   int
}

// New creates an empty memo for a single request
func New(loaders Loaders) *Cache {
	return &Cache{
		loaders: loaders,
		entries: make(map[key]entry),
	}
}

// Get returns the memoized entity for (kind, id), loading it on first use.
// Not-found results are memoized; other loader errors are not.
func (c *Cache) Get(ctx context.Context, kind Kind, id string) (interface{}, error) {
	k := key{kind: kind, id: id}

	c.mu.Lock()
	if e, ok := c.entries[k]; ok {
		c.mu.Unlock()
		return e.value, e.err
	}
	c.mu.Unlock()

	load, ok := c.loaders[kind]
	if !ok {
		return nil, fmt.Errorf("lookup: no loader for kind %q", kind)
	}

	value, err := load(ctx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loads++
	if e, ok := c.entries[k]; ok {
		return e.value, e.err
	}
	if err != nil {
		c.entries[k] = entry{err: ErrNotFound}
		return nil, ErrNotFound
	}
	c.entries[k] = entry{value: value}
	return value, nil
}

// Forget drops the memo for (kind, id) so the next Get reads the store again
func (c *Cache) Forget(kind Kind, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key{kind: kind, id: id})
}

// Loads reports how many store reads this memo has performed
func (c *Cache) Loads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loads
}

// Board returns the board with the given slug
func (c *Cache) Board(ctx context.Context, slug string) (*domain.Board, error) {
	v, err := c.Get(ctx, KindBoard, slug)
	if err != nil {
		return nil, err
	}
	return v.(*domain.Board), nil
}

// FeatureRequest returns the feature request with its Board populated
func (c *Cache) FeatureRequest(ctx context.Context, id string) (*domain.FeatureRequest, error) {
	v, err := c.Get(ctx, KindFeatureRequest, id)
	if err != nil {
		return nil, err
	}
	return v.(*domain.FeatureRequest), nil
}

// Comment returns the comment with FeatureRequest.Board populated
func (c *Cache) Comment(ctx context.Context, id string) (*domain.Comment, error) {
	v, err := c.Get(ctx, KindComment, id)
	if err != nil {
		return nil, err
	}
	return v.(*domain.Comment), nil
}
