package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"feedback-board-api/internal/cache"
	"feedback-board-api/internal/dto"
	"feedback-board-api/internal/gate"
	"feedback-board-api/internal/service"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
	views            *cache.Views
}

func NewDashboardHandler(dashboardService service.DashboardService, views *cache.Views) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, views: views}
}

// GetStats godoc
// @Summary      대시보드 통계
// @Description  내 보드의 요청, 추천, 댓글 수와 내가 등록한 요청 수를 조회합니다
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=dto.DashboardStatsResponse} "통계 조회 성공"
// @Failure      401 {object} response.ErrorResponse "인증 필요"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Security     BearerAuth
// @Router       /dashboard/stats [get]
func (h *DashboardHandler) GetStats(c *gin.Context, rc gate.RequestContext) (*gate.Outcome, error) {
	actorID := rc.ActorID()
	view := cache.View{
		Path: cache.DashboardStatsPath(actorID),
		Tags: []string{cache.DashboardStatsTag(actorID)},
	}

	stats, err := cache.Fetch(rc.Context(), h.views, view, func(ctx context.Context) (*dto.DashboardStatsResponse, error) {
		return h.dashboardService.Stats(ctx, actorID)
	})
	if err != nil {
		return nil, err
	}
	return gate.OK(stats), nil
}
