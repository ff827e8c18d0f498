package cache

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"feedback-board-api/internal/metrics"
)

// View identifies one cached rendering of a read endpoint
type View struct {
	Path    string
	Variant string
	Tags    []string
}

func (v View) key() string {
	if v.Variant == "" {
		return v.Path
	}
	return v.Path + "?" + v.Variant
}

func (v View) allTags() []string {
	return append(append([]string{}, v.Tags...), PathTag(v.Path))
}

// Views serves JSON read views from a Store and invalidates them by tag or path
type Views struct {
	store   Store
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewViews creates the read view cache
func NewViews(store Store, m *metrics.Metrics, logger *zap.Logger) *Views {
	return &Views{store: store, metrics: m, logger: logger}
}

// Fetch returns the cached view or renders it with load and stores it.
// Cache failures degrade to an uncached read.
func Fetch[T any](ctx context.Context, v *Views, view View, load func(ctx context.Context) (T, error)) (T, error) {
	return FetchTagged(ctx, v, view, func(ctx context.Context) (T, []string, error) {
		value, err := load(ctx)
		return value, nil, err
	})
}

// FetchTagged is Fetch for views whose tags depend on the loaded value.
// The extra tags are stored alongside view.Tags.
func FetchTagged[T any](ctx context.Context, v *Views, view View, load func(ctx context.Context) (T, []string, error)) (T, error) {
	key := view.key()
	if raw, err := v.store.Get(ctx, key); err == nil {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			v.metrics.RecordCacheLookup(true)
			return cached, nil
		}
		v.logger.Warn("Discarding undecodable cached view", zap.String("key", key))
	} else if !errors.Is(err, ErrMiss) {
		v.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
	}
	v.metrics.RecordCacheLookup(false)

	// taken before load so an invalidation landing mid-load is visible to Set
	ticket, ticketErr := v.store.Ticket(ctx)

	value, extra, err := load(ctx)
	if err != nil {
		return value, err
	}
	if ticketErr != nil {
		v.logger.Warn("Cache ticket failed, serving uncached", zap.String("key", key), zap.Error(ticketErr))
		return value, nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		v.logger.Warn("Failed to encode view for cache", zap.String("key", key), zap.Error(err))
		return value, nil
	}
	err = v.store.Set(ctx, key, raw, append(view.allTags(), extra...), ticket)
	switch {
	case errors.Is(err, ErrStale):
		v.logger.Debug("Skipping cache write for view invalidated while loading", zap.String("key", key))
	case err != nil:
		v.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
	return value, nil
}

// InvalidateTags drops every view carrying any of the tags
func (v *Views) InvalidateTags(ctx context.Context, tags ...string) error {
	if len(tags) == 0 {
		return nil
	}
	err := v.store.InvalidateTags(ctx, tags...)
	v.metrics.RecordCacheInvalidation("tag", err)
	return err
}

// InvalidatePaths drops every variant of the views rendered for the paths
func (v *Views) InvalidatePaths(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	tags := make([]string, len(paths))
	for i, path := range paths {
		tags[i] = PathTag(path)
	}
	err := v.store.InvalidateTags(ctx, tags...)
	v.metrics.RecordCacheInvalidation("path", err)
	return err
}
