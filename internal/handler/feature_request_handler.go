package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"feedback-board-api/internal/cache"
	"feedback-board-api/internal/domain"
	"feedback-board-api/internal/dto"
	"feedback-board-api/internal/fanout"
	"feedback-board-api/internal/gate"
	"feedback-board-api/internal/lookup"
	"feedback-board-api/internal/response"
	"feedback-board-api/internal/service"
)

type FeatureRequestHandler struct {
	requestService service.FeatureRequestService
	reader         *Reader
	gate           *gate.Gate
	views          *cache.Views
	logger         *zap.Logger
}

func NewFeatureRequestHandler(
	requestService service.FeatureRequestService,
	reader *Reader,
	g *gate.Gate,
	views *cache.Views,
	logger *zap.Logger,
) *FeatureRequestHandler {
	return &FeatureRequestHandler{
		requestService: requestService,
		reader:         reader,
		gate:           g,
		views:          views,
		logger:         logger,
	}
}

// featureRequestMutation describes a change to fr for the cache fan-out
func featureRequestMutation(kind fanout.Kind, fr *domain.FeatureRequest) fanout.Mutation {
	return fanout.Mutation{
		Kind:             kind,
		BoardSlug:        fr.Board.Slug,
		BoardOwnerID:     fr.Board.CreatorID,
		SubmitterID:      fr.SubmitterID,
		FeatureRequestID: fr.ID,
	}
}

// ListFeatureRequests godoc
// @Summary      보드의 요청 목록 조회
// @Description  상태 필터, 정렬, 페이지네이션을 지원합니다
// @Tags         feature-requests
// @Produce      json
// @Param        slug path string true "Board slug"
// @Param        status query string false "상태 필터" Enums(NEW, IN_PROGRESS, SHIPPED, CANCELLED)
// @Param        sort query string false "정렬 (기본값: top)" Enums(top, newest, oldest, comments)
// @Param        page query int false "페이지 번호 (기본값: 1)"
// @Param        limit query int false "페이지 크기 (기본값: 20, 최대: 100)"
// @Success      200 {object} response.SuccessResponse{data=dto.FeatureRequestListResponse} "목록 조회 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 쿼리"
// @Failure      404 {object} response.ErrorResponse "보드를 찾을 수 없음"
// @Router       /boards/{slug}/requests [get]
func (h *FeatureRequestHandler) ListFeatureRequests(c *gin.Context) {
	rc := h.gate.Identify(c)
	ctx := rc.Context()

	var query dto.ListFeatureRequestsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		handleServiceError(c, h.logger, invalidQuery(err))
		return
	}

	board, err := h.reader.VisibleBoard(ctx, rc, c.Param("slug"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	view := cache.View{
		Path:    cache.BoardRequestsPath(board.Slug),
		Variant: fmt.Sprintf("status=%s&sort=%s&page=%d&limit=%d", query.Status, query.Sort, query.Page, query.Limit),
		Tags:    []string{cache.FeatureRequestsTag(board.Slug)},
	}
	list, err := cache.Fetch(ctx, h.views, view, func(ctx context.Context) (*dto.FeatureRequestListResponse, error) {
		return h.requestService.ListByBoard(ctx, board.ID, board.Slug, &query)
	})
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, list)
}

// GetFeatureRequest godoc
// @Summary      요청 조회
// @Tags         feature-requests
// @Produce      json
// @Param        id path string true "Feature request ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.FeatureRequestResponse} "요청 조회 성공"
// @Failure      401 {object} response.ErrorResponse "비공개 보드, 인증 필요"
// @Failure      403 {object} response.ErrorResponse "권한 없음"
// @Failure      404 {object} response.ErrorResponse "요청을 찾을 수 없음"
// @Router       /requests/{id} [get]
func (h *FeatureRequestHandler) GetFeatureRequest(c *gin.Context) {
	rc := h.gate.Identify(c)

	fr, err := h.reader.VisibleFeatureRequest(rc.Context(), rc, c.Param("id"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, fr)
}

// CreateFeatureRequest godoc
// @Summary      요청 등록
// @Description  보드에 새 기능 요청을 등록합니다. 등록자는 현재 사용자로 기록됩니다
// @Tags         feature-requests
// @Accept       json
// @Produce      json
// @Param        slug path string true "Board slug"
// @Param        request body dto.CreateFeatureRequestRequest true "요청 등록"
// @Success      201 {object} response.SuccessResponse{data=dto.FeatureRequestResponse} "요청 등록 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      401 {object} response.ErrorResponse "인증 필요"
// @Failure      403 {object} response.ErrorResponse "권한 없음"
// @Failure      404 {object} response.ErrorResponse "보드를 찾을 수 없음"
// @Security     BearerAuth
// @Router       /boards/{slug}/requests [post]
func (h *FeatureRequestHandler) CreateFeatureRequest(c *gin.Context, rc gate.RequestContext) (*gate.Outcome, error) {
	board := rc.Board()

	var req dto.CreateFeatureRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, invalidBody(err)
	}

	fr, err := h.requestService.Create(rc.Context(), board, rc.Actor, &req)
	if err != nil {
		return nil, err
	}

	return gate.Created(fr, fanout.Mutation{
		Kind:             fanout.FeatureRequestCreated,
		BoardSlug:        board.Slug,
		BoardOwnerID:     board.CreatorID,
		SubmitterID:      fr.SubmitterID,
		FeatureRequestID: fr.ID,
	}), nil
}

// UpdateFeatureRequest godoc
// @Summary      요청 수정
// @Description  등록자 또는 보드 소유자가 제목과 설명을 수정합니다
// @Tags         feature-requests
// @Accept       json
// @Produce      json
// @Param        id path string true "Feature request ID (UUID)"
// @Param        request body dto.UpdateFeatureRequestRequest true "요청 수정"
// @Success      200 {object} response.SuccessResponse{data=dto.FeatureRequestResponse} "요청 수정 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      403 {object} response.ErrorResponse "권한 없음"
// @Failure      404 {object} response.ErrorResponse "요청을 찾을 수 없음"
// @Security     BearerAuth
// @Router       /requests/{id} [patch]
func (h *FeatureRequestHandler) UpdateFeatureRequest(c *gin.Context, rc gate.RequestContext) (*gate.Outcome, error) {
	fr := rc.FeatureRequest()

	var req dto.UpdateFeatureRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, invalidBody(err)
	}

	updated, err := h.requestService.Update(rc.Context(), fr, &req)
	if err != nil {
		return nil, err
	}
	rc.Lookup.Forget(lookup.KindFeatureRequest, fr.ID.String())

	return gate.OK(updated, featureRequestMutation(fanout.FeatureRequestUpdated, fr)), nil
}

// UpdateStatus godoc
// @Summary      요청 상태 변경
// @Description  보드 소유자만 상태를 변경할 수 있습니다. 등록자에게 알림이 전송됩니다
// @Tags         feature-requests
// @Accept       json
// @Produce      json
// @Param        id path string true "Feature request ID (UUID)"
// @Param        request body dto.UpdateStatusRequest true "새 상태"
// @Success      200 {object} response.SuccessResponse{data=dto.FeatureRequestResponse} "상태 변경 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 상태"
// @Failure      403 {object} response.ErrorResponse "권한 없음"
// @Failure      404 {object} response.ErrorResponse "요청을 찾을 수 없음"
// @Security     BearerAuth
// @Router       /requests/{id}/status [patch]
func (h *FeatureRequestHandler) UpdateStatus(c *gin.Context, rc gate.RequestContext) (*gate.Outcome, error) {
	fr := rc.FeatureRequest()

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, invalidBody(err)
	}

	updated, err := h.requestService.UpdateStatus(rc.Context(), fr, rc.Actor, &req)
	if err != nil {
		return nil, err
	}
	rc.Lookup.Forget(lookup.KindFeatureRequest, fr.ID.String())

	return gate.OK(updated, featureRequestMutation(fanout.FeatureRequestStatusChanged, fr)), nil
}

// DeleteFeatureRequest godoc
// @Summary      요청 삭제
// @Description  등록자 또는 보드 소유자가 요청과 댓글, 추천을 삭제합니다
// @Tags         feature-requests
// @Produce      json
// @Param        id path string true "Feature request ID (UUID)"
// @Success      200 {object} response.SuccessResponse "요청 삭제 성공"
// @Failure      403 {object} response.ErrorResponse "권한 없음"
// @Failure      404 {object} response.ErrorResponse "요청을 찾을 수 없음"
// @Security     BearerAuth
// @Router       /requests/{id} [delete]
func (h *FeatureRequestHandler) DeleteFeatureRequest(c *gin.Context, rc gate.RequestContext) (*gate.Outcome, error) {
	fr := rc.FeatureRequest()
	if err := h.requestService.Delete(rc.Context(), fr); err != nil {
		return nil, err
	}
	rc.Lookup.Forget(lookup.KindFeatureRequest, fr.ID.String())

	return gate.OK(nil, featureRequestMutation(fanout.FeatureRequestDeleted, fr)), nil
}
