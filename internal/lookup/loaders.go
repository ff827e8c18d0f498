package lookup

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"feedback-board-api/internal/repository"
)

// StoreLoaders reads boards, feature requests and comments from the entity
// store. A malformed id and a missing row both read as ErrNotFound.
func StoreLoaders(
	boards repository.BoardRepository,
	requests repository.FeatureRequestRepository,
	comments repository.CommentRepository,
) Loaders {
	return Loaders{
		KindBoard: func(ctx context.Context, slug string) (interface{}, error) {
			board, err := boards.FindBySlug(ctx, slug)
			return found(board, err)
		},
		KindFeatureRequest: func(ctx context.Context, id string) (interface{}, error) {
			parsed, err := uuid.Parse(id)
			if err != nil {
				return nil, ErrNotFound
			}
			fr, err := requests.FindByID(ctx, parsed)
			return found(fr, err)
		},
		KindComment: func(ctx context.Context, id string) (interface{}, error) {
			parsed, err := uuid.Parse(id)
			if err != nil {
				return nil, ErrNotFound
			}
			comment, err := comments.FindByID(ctx, parsed)
			return found(comment, err)
		},
	}
}

func found[T any](value *T, err error) (interface{}, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}
