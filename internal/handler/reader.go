package handler

import (
	"context"

	"github.com/google/uuid"

	"feedback-board-api/internal/cache"
	"feedback-board-api/internal/domain"
	"feedback-board-api/internal/dto"
	"feedback-board-api/internal/gate"
	"feedback-board-api/internal/policy"
	"feedback-board-api/internal/response"
	"feedback-board-api/internal/service"
)

// Reader serves the cached views several handlers build on. Cached views
// never depend on the viewer; visibility and isOwner are applied per request.
type Reader struct {
	boards   service.BoardService
	requests service.FeatureRequestService
	views    *cache.Views
}

// NewReader creates a new Reader
func NewReader(boards service.BoardService, requests service.FeatureRequestService, views *cache.Views) *Reader {
	return &Reader{boards: boards, requests: requests, views: views}
}

// Board returns the cached board view
func (r *Reader) Board(ctx context.Context, slug string) (*dto.BoardResponse, error) {
	view := cache.View{
		Path: cache.BoardPath(slug),
		Tags: []string{cache.BoardDetailsTag(slug)},
	}
	return cache.Fetch(ctx, r.views, view, func(ctx context.Context) (*dto.BoardResponse, error) {
		return r.boards.GetBoard(ctx, slug)
	})
}

// FeatureRequest returns the cached request view. It is tagged with its
// board's request list so board renames and deletions drop it.
func (r *Reader) FeatureRequest(ctx context.Context, id uuid.UUID) (*dto.FeatureRequestResponse, error) {
	view := cache.View{Path: cache.FeatureRequestPath(id)}
	return cache.FetchTagged(ctx, r.views, view, func(ctx context.Context) (*dto.FeatureRequestResponse, []string, error) {
		fr, err := r.requests.Get(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		return fr, []string{cache.FeatureRequestsTag(fr.BoardSlug)}, nil
	})
}

// VisibleBoard returns the board view for this viewer or rejects the read
func (r *Reader) VisibleBoard(ctx context.Context, rc gate.RequestContext, slug string) (*dto.BoardResponse, error) {
	board, err := r.Board(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := authorizeView(rc.ActorID(), board); err != nil {
		return nil, err
	}

	personal := *board
	personal.IsOwner = policy.IsBoardOwner(rc.ActorID(), board.CreatorID)
	return &personal, nil
}

// VisibleFeatureRequest returns the request view after checking its board is visible
func (r *Reader) VisibleFeatureRequest(ctx context.Context, rc gate.RequestContext, rawID string) (*dto.FeatureRequestResponse, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, response.NewNotFoundError("Feature request not found", rawID)
	}
	fr, err := r.FeatureRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := r.VisibleBoard(ctx, rc, fr.BoardSlug); err != nil {
		return nil, err
	}
	return fr, nil
}

func authorizeView(actorID string, board *dto.BoardResponse) error {
	if policy.CanViewBoard(actorID, &domain.Board{IsPublic: board.IsPublic, CreatorID: board.CreatorID}) {
		return nil
	}
	if actorID == "" {
		return response.NewUnauthenticatedError("Authentication required")
	}
	return response.NewForbiddenError()
}
