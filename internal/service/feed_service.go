package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"

	"feedback-board-api/internal/dto"
	"feedback-board-api/internal/repository"
	"feedback-board-api/internal/response"
)

// feedSize is how many of the newest requests a board feed carries
const feedSize = 50

// FeedService renders board RSS feeds
type FeedService interface {
	BoardFeed(ctx context.Context, board *dto.BoardResponse, baseURL string) (string, error)
}

type feedServiceImpl struct {
	repo repository.FeatureRequestRepository
}

// NewFeedService creates a new instance of FeedService
func NewFeedService(repo repository.FeatureRequestRepository) FeedService {
	return &feedServiceImpl{repo: repo}
}

// BoardFeed renders the newest requests of a board as RSS. baseURL is the
// externally visible API root, used to build item links.
func (s *feedServiceImpl) BoardFeed(ctx context.Context, board *dto.BoardResponse, baseURL string) (string, error) {
	requests, _, err := s.repo.FindByBoard(ctx, board.ID, repository.FeatureRequestFilter{
		Sort:  repository.SortNewest,
		Limit: feedSize,
	})
	if err != nil {
		return "", response.WrapAppError(response.ErrCodeInternal, "Failed to list feature requests", err)
	}

	baseURL = strings.TrimSuffix(baseURL, "/")
	feed := &feeds.Feed{
		Title:       board.Name,
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/boards/%s", baseURL, board.Slug)},
		Description: board.Description,
		Created:     board.CreatedAt,
	}
	if len(requests) > 0 {
		feed.Updated = requests[0].CreatedAt
	} else {
		feed.Updated = board.UpdatedAt
	}
	if feed.Created.IsZero() {
		feed.Created = time.Now()
	}

	for _, fr := range requests {
		item := &feeds.Item{
			Id:          fr.ID.String(),
			Title:       fmt.Sprintf("[%s] %s", fr.Status, fr.Title),
			Link:        &feeds.Link{Href: fmt.Sprintf("%s/requests/%s", baseURL, fr.ID)},
			Description: fr.Description,
			Created:     fr.CreatedAt,
			Updated:     fr.UpdatedAt,
		}
		if fr.SubmitterName != "" {
			item.Author = &feeds.Author{Name: fr.SubmitterName}
		}
		feed.Items = append(feed.Items, item)
	}

	rss, err := feed.ToRss()
	if err != nil {
		return "", response.WrapAppError(response.ErrCodeInternal, "Failed to render feed", err)
	}
	return rss, nil
}
