package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"feedback-board-api/internal/cache"
	"feedback-board-api/internal/dto"
	"feedback-board-api/internal/fanout"
	"feedback-board-api/internal/gate"
	"feedback-board-api/internal/lookup"
	"feedback-board-api/internal/response"
	"feedback-board-api/internal/service"
)

type CommentHandler struct {
	commentService service.CommentService
	reader         *Reader
	gate           *gate.Gate
	views          *cache.Views
	logger         *zap.Logger
}

func NewCommentHandler(
	commentService service.CommentService,
	reader *Reader,
	g *gate.Gate,
	views *cache.Views,
	logger *zap.Logger,
) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		reader:         reader,
		gate:           g,
		views:          views,
		logger:         logger,
	}
}

// ListComments godoc
// @Summary      댓글 목록 조회
// @Description  요청의 댓글을 작성순으로 조회합니다. 답글은 상위 댓글의 replies에 포함됩니다
// @Tags         comments
// @Produce      json
// @Param        id path string true "Feature request ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.CommentResponse} "댓글 목록 조회 성공"
// @Failure      404 {object} response.ErrorResponse "요청을 찾을 수 없음"
// @Router       /requests/{id}/comments [get]
func (h *CommentHandler) ListComments(c *gin.Context) {
	rc := h.gate.Identify(c)
	ctx := rc.Context()

	fr, err := h.reader.VisibleFeatureRequest(ctx, rc, c.Param("id"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	view := cache.View{
		Path: cache.CommentsPath(fr.ID),
		Tags: []string{cache.CommentsTag(fr.ID)},
	}
	thread, err := cache.Fetch(ctx, h.views, view, func(ctx context.Context) ([]dto.CommentResponse, error) {
		return h.commentService.ListByFeatureRequest(ctx, fr.ID)
	})
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, thread)
}

// CreateComment godoc
// @Summary      댓글 작성
// @Description  요청에 댓글 또는 답글을 작성합니다. 답글에는 다시 답글을 달 수 없습니다
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id path string true "Feature request ID (UUID)"
// @Param        request body dto.CreateCommentRequest true "댓글 작성"
// @Success      201 {object} response.SuccessResponse{data=dto.CommentResponse} "댓글 작성 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청 또는 잘못된 상위 댓글"
// @Failure      401 {object} response.ErrorResponse "인증 필요"
// @Failure      404 {object} response.ErrorResponse "요청을 찾을 수 없음"
// @Security     BearerAuth
// @Router       /requests/{id}/comments [post]
func (h *CommentHandler) CreateComment(c *gin.Context, rc gate.RequestContext) (*gate.Outcome, error) {
	fr := rc.FeatureRequest()

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, invalidBody(err)
	}

	comment, err := h.commentService.Create(rc.Context(), fr, rc.Actor, &req)
	if err != nil {
		return nil, err
	}
	rc.Lookup.Forget(lookup.KindFeatureRequest, fr.ID.String())

	return gate.Created(comment, fanout.Mutation{
		Kind:             fanout.CommentCreated,
		BoardSlug:        fr.Board.Slug,
		BoardOwnerID:     fr.Board.CreatorID,
		FeatureRequestID: fr.ID,
	}), nil
}

// UpdateComment godoc
// @Summary      댓글 수정
// @Description  작성자 또는 보드 소유자가 댓글을 수정합니다
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id path string true "Comment ID (UUID)"
// @Param        request body dto.UpdateCommentRequest true "댓글 수정"
// @Success      200 {object} response.SuccessResponse{data=dto.CommentResponse} "댓글 수정 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      403 {object} response.ErrorResponse "권한 없음"
// @Failure      404 {object} response.ErrorResponse "댓글을 찾을 수 없음"
// @Security     BearerAuth
// @Router       /comments/{id} [patch]
func (h *CommentHandler) UpdateComment(c *gin.Context, rc gate.RequestContext) (*gate.Outcome, error) {
	comment := rc.Comment()

	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, invalidBody(err)
	}

	updated, err := h.commentService.Update(rc.Context(), comment, &req)
	if err != nil {
		return nil, err
	}
	rc.Lookup.Forget(lookup.KindComment, comment.ID.String())

	return gate.OK(updated, commentMutation(fanout.CommentUpdated, rc)), nil
}

// DeleteComment godoc
// @Summary      댓글 삭제
// @Description  작성자 또는 보드 소유자가 댓글과 그 답글을 삭제합니다
// @Tags         comments
// @Produce      json
// @Param        id path string true "Comment ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.DeleteCommentResponse} "댓글 삭제 성공"
// @Failure      403 {object} response.ErrorResponse "권한 없음"
// @Failure      404 {object} response.ErrorResponse "댓글을 찾을 수 없음"
// @Security     BearerAuth
// @Router       /comments/{id} [delete]
func (h *CommentHandler) DeleteComment(c *gin.Context, rc gate.RequestContext) (*gate.Outcome, error) {
	comment := rc.Comment()

	removed, err := h.commentService.Delete(rc.Context(), comment)
	if err != nil {
		return nil, err
	}
	rc.Lookup.Forget(lookup.KindComment, comment.ID.String())

	return gate.OK(dto.DeleteCommentResponse{Removed: removed}, commentMutation(fanout.CommentDeleted, rc)), nil
}

func commentMutation(kind fanout.Kind, rc gate.RequestContext) fanout.Mutation {
	fr := rc.Comment().FeatureRequest
	return fanout.Mutation{
		Kind:             kind,
		BoardSlug:        fr.Board.Slug,
		BoardOwnerID:     fr.Board.CreatorID,
		FeatureRequestID: fr.ID,
	}
}
