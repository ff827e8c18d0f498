// Package fanout turns committed mutations into cache invalidations and
// board events.
package fanout

import (
	"sort"

	"github.com/google/uuid"

	"feedback-board-api/internal/cache"
)

// Kind names a committed mutation
type Kind string

const (
	BoardCreated                Kind = "board.created"
	BoardUpdated                Kind = "board.updated"
	BoardDeleted                Kind = "board.deleted"
	FeatureRequestCreated       Kind = "feature_request.created"
	FeatureRequestUpdated       Kind = "feature_request.updated"
	FeatureRequestDeleted       Kind = "feature_request.deleted"
	FeatureRequestStatusChanged Kind = "feature_request.status_changed"
	UpvoteToggled               Kind = "upvote.toggled"
	CommentCreated              Kind = "comment.created"
	CommentUpdated              Kind = "comment.updated"
	CommentDeleted              Kind = "comment.deleted"
)

// Mutation describes which ids a handler changed
type Mutation struct {
	Kind              Kind
	BoardSlug         string
	PreviousBoardSlug string
	BoardOwnerID      string
	SubmitterID       *string
	// SubmitterIDs lists everyone whose requests a board delete removed
	SubmitterIDs     []string
	FeatureRequestID uuid.UUID
}

// Plan is the exact set of tags and paths a mutation makes stale
type Plan struct {
	Tags  []string
	Paths []string
}

type planBuilder struct {
	tags  map[string]struct{}
	paths map[string]struct{}
}

func (b *planBuilder) tag(tag string) {
	b.tags[tag] = struct{}{}
}

func (b *planBuilder) path(path string) {
	b.paths[path] = struct{}{}
}

func (b *planBuilder) dashboard(userID string) {
	if userID != "" {
		b.tag(cache.DashboardStatsTag(userID))
	}
}

func (b *planBuilder) build() Plan {
	plan := Plan{
		Tags:  make([]string, 0, len(b.tags)),
		Paths: make([]string, 0, len(b.paths)),
	}
	for tag := range b.tags {
		plan.Tags = append(plan.Tags, tag)
	}
	for path := range b.paths {
		plan.Paths = append(plan.Paths, path)
	}
	sort.Strings(plan.Tags)
	sort.Strings(plan.Paths)
	return plan
}

// PlanFor returns the invalidation plan of one mutation
func PlanFor(m Mutation) Plan {
	b := &planBuilder{
		tags:  make(map[string]struct{}),
		paths: make(map[string]struct{}),
	}

	switch m.Kind {
	case BoardCreated:
		b.tag(cache.UserBoardsTag(m.BoardOwnerID))
		b.dashboard(m.BoardOwnerID)

	case BoardUpdated, BoardDeleted:
		for _, slug := range []string{m.BoardSlug, m.PreviousBoardSlug} {
			if slug == "" {
				continue
			}
			b.tag(cache.BoardDetailsTag(slug))
			b.tag(cache.FeatureRequestsTag(slug))
			b.path(cache.BoardPath(slug))
		}
		b.tag(cache.UserBoardsTag(m.BoardOwnerID))
		if m.Kind == BoardDeleted {
			b.dashboard(m.BoardOwnerID)
			for _, submitter := range m.SubmitterIDs {
				b.dashboard(submitter)
			}
		}

	case FeatureRequestCreated, FeatureRequestUpdated, FeatureRequestDeleted, FeatureRequestStatusChanged:
		b.tag(cache.FeatureRequestsTag(m.BoardSlug))
		b.dashboard(m.BoardOwnerID)
		if m.SubmitterID != nil {
			b.dashboard(*m.SubmitterID)
		}
		if m.Kind == FeatureRequestDeleted {
			b.tag(cache.CommentsTag(m.FeatureRequestID))
		}
		if m.FeatureRequestID != uuid.Nil {
			b.path(cache.FeatureRequestPath(m.FeatureRequestID))
		}

	case UpvoteToggled:
		b.tag(cache.FeatureRequestsTag(m.BoardSlug))
		b.dashboard(m.BoardOwnerID)
		b.path(cache.FeatureRequestPath(m.FeatureRequestID))

	case CommentCreated, CommentUpdated, CommentDeleted:
		b.tag(cache.CommentsTag(m.FeatureRequestID))
		b.tag(cache.FeatureRequestsTag(m.BoardSlug))
		b.dashboard(m.BoardOwnerID)
		b.path(cache.FeatureRequestPath(m.FeatureRequestID))
	}

	return b.build()
}

// Merge unions the plans of several mutations
func Merge(mutations ...Mutation) Plan {
	b := &planBuilder{
		tags:  make(map[string]struct{}),
		paths: make(map[string]struct{}),
	}
	for _, m := range mutations {
		plan := PlanFor(m)
		for _, tag := range plan.Tags {
			b.tag(tag)
		}
		for _, path := range plan.Paths {
			b.path(path)
		}
	}
	return b.build()
}
