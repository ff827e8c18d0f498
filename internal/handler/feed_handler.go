package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"feedback-board-api/internal/cache"
	"feedback-board-api/internal/gate"
	"feedback-board-api/internal/service"
)

const rssContentType = "application/rss+xml; charset=utf-8"

type FeedHandler struct {
	feedService service.FeedService
	reader      *Reader
	gate        *gate.Gate
	views       *cache.Views
	publicURL   string
	basePath    string
	logger      *zap.Logger
}

// NewFeedHandler creates a FeedHandler. When publicURL is empty, item links
// are built from the request host and basePath.
func NewFeedHandler(
	feedService service.FeedService,
	reader *Reader,
	g *gate.Gate,
	views *cache.Views,
	publicURL string,
	basePath string,
	logger *zap.Logger,
) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
		reader:      reader,
		gate:        g,
		views:       views,
		publicURL:   strings.TrimSuffix(publicURL, "/"),
		basePath:    basePath,
		logger:      logger,
	}
}

// GetBoardFeed godoc
// @Summary      보드 RSS 피드
// @Description  보드의 최신 요청 50개를 RSS 2.0으로 제공합니다
// @Tags         boards
// @Produce      application/rss+xml
// @Param        slug path string true "Board slug"
// @Success      200 {string} string "RSS 피드"
// @Failure      401 {object} response.ErrorResponse "비공개 보드, 인증 필요"
// @Failure      404 {object} response.ErrorResponse "보드를 찾을 수 없음"
// @Router       /boards/{slug}/feed.rss [get]
func (h *FeedHandler) GetBoardFeed(c *gin.Context) {
	rc := h.gate.Identify(c)
	ctx := rc.Context()

	board, err := h.reader.VisibleBoard(ctx, rc, c.Param("slug"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	baseURL := h.baseURL(c.Request)
	view := cache.View{
		Path:    cache.BoardFeedPath(board.Slug),
		Variant: baseURL,
		Tags:    []string{cache.FeatureRequestsTag(board.Slug), cache.BoardDetailsTag(board.Slug)},
	}
	feed, err := cache.Fetch(ctx, h.views, view, func(ctx context.Context) (string, error) {
		return h.feedService.BoardFeed(ctx, board, baseURL)
	})
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.Data(http.StatusOK, rssContentType, []byte(feed))
}

func (h *FeedHandler) baseURL(r *http.Request) string {
	if h.publicURL != "" {
		return h.publicURL
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + h.basePath
}
