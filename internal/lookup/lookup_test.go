package lookup

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedback-board-api/internal/domain"
)

type countingStore struct {
	calls  map[string]int
	boards map[string]*domain.Board
	err    error
}

func newCountingStore() *countingStore {
	return &countingStore{
		calls: make(map[string]int),
		boards: map[string]*domain.Board{
			"acme": {Slug: "acme", CreatorID: "owner"},
		},
	}
}

func (s *countingStore) loaders() Loaders {
	return Loaders{
		KindBoard: func(ctx context.Context, slug string) (interface{}, error) {
			s.calls[slug]++
			if s.err != nil {
				return nil, s.err
			}
			b, ok := s.boards[slug]
			if !ok {
				return nil, ErrNotFound
			}
			return b, nil
		},
	}
}

func TestCache_MemoizesWithinRequest(t *testing.T) {
	store := newCountingStore()
	cache := New(store.loaders())
	ctx := context.Background()

	first, err := cache.Board(ctx, "acme")
	require.NoError(t, err)
	second, err := cache.Board(ctx, "acme")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, store.calls["acme"])
	assert.Equal(t, 1, cache.Loads())
}

func TestCache_SeparateRequestsReadSeparately(t *testing.T) {
	store := newCountingStore()
	ctx := context.Background()

	_, err := New(store.loaders()).Board(ctx, "acme")
	require.NoError(t, err)
	_, err = New(store.loaders()).Board(ctx, "acme")
	require.NoError(t, err)

	assert.Equal(t, 2, store.calls["acme"])
}

func TestCache_MemoizesNotFound(t *testing.T) {
	store := newCountingStore()
	cache := New(store.loaders())
	ctx := context.Background()

	_, err := cache.Board(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = cache.Board(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 1, store.calls["missing"])
}

func TestCache_DoesNotMemoizeFailures(t *testing.T) {
	store := newCountingStore()
	store.err = errors.New("connection reset")
	cache := New(store.loaders())
	ctx := context.Background()

	_, err := cache.Board(ctx, "acme")
	assert.EqualError(t, err, "connection reset")

	store.err = nil
	b, err := cache.Board(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, "acme", b.Slug)
	assert.Equal(t, 2, store.calls["acme"])
}

func TestCache_ForgetRereads(t *testing.T) {
	store := newCountingStore()
	cache := New(store.loaders())
	ctx := context.Background()

	_, err := cache.Board(ctx, "acme")
	require.NoError(t, err)
	cache.Forget(KindBoard, "acme")
	_, err = cache.Board(ctx, "acme")
	require.NoError(t, err)

	assert.Equal(t, 2, store.calls["acme"])
}

func TestCache_UnknownKind(t *testing.T) {
	cache := New(Loaders{})
	_, err := cache.Get(context.Background(), KindComment, "x")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
