// Package cache holds rendered read views indexed by tag so that a mutation
// can drop every view it made stale.
package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrMiss is returned by Store.Get when the key holds nothing
	ErrMiss = errors.New("cache: miss")

	// ErrStale is returned by Store.Set when one of the view's tags was
	// invalidated after the ticket was taken. Nothing is stored.
	ErrStale = errors.New("cache: view invalidated while loading")
)

// Ticket records the invalidation sequence a reader saw before loading a view.
// Tickets older than the store ttl are always stale.
type Ticket struct {
	Seq   uint64
	Taken time.Time
}

// Store is a tag-indexed byte cache. Invalidating an unknown tag is a no-op.
//
// Readers take a Ticket before loading and hand it to Set, which refuses the
// write if any of the tags was invalidated in between.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Ticket(ctx context.Context) (Ticket, error)
	Set(ctx context.Context, key string, value []byte, tags []string, ticket Ticket) error
	InvalidateTags(ctx context.Context, tags ...string) error
}

func ticketExpired(ticket Ticket, ttl time.Duration, now time.Time) bool {
	return now.Sub(ticket.Taken) > ttl
}
