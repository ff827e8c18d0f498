package handler

import (
	"github.com/gin-gonic/gin"

	"feedback-board-api/internal/fanout"
	"feedback-board-api/internal/gate"
	"feedback-board-api/internal/lookup"
	"feedback-board-api/internal/service"
)

type UpvoteHandler struct {
	upvoteService service.UpvoteService
}

func NewUpvoteHandler(upvoteService service.UpvoteService) *UpvoteHandler {
	return &UpvoteHandler{upvoteService: upvoteService}
}

// ToggleUpvote godoc
// @Summary      추천 토글
// @Description  추천하지 않은 요청은 추천하고, 이미 추천한 요청은 추천을 취소합니다
// @Tags         upvotes
// @Produce      json
// @Param        id path string true "Feature request ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.UpvoteResponse} "토글 성공"
// @Failure      401 {object} response.ErrorResponse "인증 필요"
// @Failure      403 {object} response.ErrorResponse "비공개 보드"
// @Failure      404 {object} response.ErrorResponse "요청을 찾을 수 없음"
// @Security     BearerAuth
// @Router       /requests/{id}/upvote [post]
func (h *UpvoteHandler) ToggleUpvote(c *gin.Context, rc gate.RequestContext) (*gate.Outcome, error) {
	fr := rc.FeatureRequest()

	result, err := h.upvoteService.Toggle(rc.Context(), fr, rc.ActorID())
	if err != nil {
		return nil, err
	}
	rc.Lookup.Forget(lookup.KindFeatureRequest, fr.ID.String())

	return gate.OK(result, fanout.Mutation{
		Kind:             fanout.UpvoteToggled,
		BoardSlug:        fr.Board.Slug,
		BoardOwnerID:     fr.Board.CreatorID,
		FeatureRequestID: fr.ID,
	}), nil
}

// GetMyUpvotes godoc
// @Summary      내 추천 목록
// @Description  보드에서 현재 사용자가 추천한 요청 ID 목록을 조회합니다
// @Tags         upvotes
// @Produce      json
// @Param        slug path string true "Board slug"
// @Success      200 {object} response.SuccessResponse{data=dto.MyUpvotesResponse} "조회 성공"
// @Failure      401 {object} response.ErrorResponse "인증 필요"
// @Failure      404 {object} response.ErrorResponse "보드를 찾을 수 없음"
// @Security     BearerAuth
// @Router       /boards/{slug}/upvotes/me [get]
func (h *UpvoteHandler) GetMyUpvotes(c *gin.Context, rc gate.RequestContext) (*gate.Outcome, error) {
	upvotes, err := h.upvoteService.MyUpvotes(rc.Context(), rc.Board().ID, rc.ActorID())
	if err != nil {
		return nil, err
	}
	return gate.OK(upvotes), nil
}
