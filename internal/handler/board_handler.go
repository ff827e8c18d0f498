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

type BoardHandler struct {
	boardService service.BoardService
	reader       *Reader
	gate         *gate.Gate
	views        *cache.Views
	logger       *zap.Logger
}

func NewBoardHandler(
	boardService service.BoardService,
	reader *Reader,
	g *gate.Gate,
	views *cache.Views,
	logger *zap.Logger,
) *BoardHandler {
	return &BoardHandler{
		boardService: boardService,
		reader:       reader,
		gate:         g,
		views:        views,
		logger:       logger,
	}
}

// CreateBoard godoc
// @Summary      보드 생성
// @Description  새 피드백 보드를 생성합니다. slug를 생략하면 이름에서 생성합니다
// @Tags         boards
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateBoardRequest true "보드 생성 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.BoardResponse} "보드 생성 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청 또는 이미 사용 중인 slug"
// @Failure      401 {object} response.ErrorResponse "인증 필요"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Security     BearerAuth
// @Router       /boards [post]
func (h *BoardHandler) CreateBoard(c *gin.Context, rc gate.RequestContext) (*gate.Outcome, error) {
	var req dto.CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, invalidBody(err)
	}

	board, err := h.boardService.CreateBoard(rc.Context(), rc.Actor, &req)
	if err != nil {
		return nil, err
	}

	return gate.Created(board, fanout.Mutation{
		Kind:         fanout.BoardCreated,
		BoardSlug:    board.Slug,
		BoardOwnerID: board.CreatorID,
	}), nil
}

// GetBoard godoc
// @Summary      보드 조회
// @Description  slug로 보드를 조회합니다. 비공개 보드는 소유자만 조회할 수 있습니다
// @Tags         boards
// @Produce      json
// @Param        slug path string true "Board slug"
// @Success      200 {object} response.SuccessResponse{data=dto.BoardResponse} "보드 조회 성공"
// @Failure      401 {object} response.ErrorResponse "비공개 보드, 인증 필요"
// @Failure      403 {object} response.ErrorResponse "권한 없음"
// @Failure      404 {object} response.ErrorResponse "보드를 찾을 수 없음"
// @Router       /boards/{slug} [get]
func (h *BoardHandler) GetBoard(c *gin.Context) {
	rc := h.gate.Identify(c)

	board, err := h.reader.VisibleBoard(rc.Context(), rc, c.Param("slug"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, board)
}

// GetMyBoards godoc
// @Summary      내 보드 목록
// @Description  현재 사용자가 만든 보드를 최신순으로 조회합니다
// @Tags         boards
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=[]dto.BoardResponse} "보드 목록 조회 성공"
// @Failure      401 {object} response.ErrorResponse "인증 필요"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Security     BearerAuth
// @Router       /users/me/boards [get]
func (h *BoardHandler) GetMyBoards(c *gin.Context, rc gate.RequestContext) (*gate.Outcome, error) {
	actorID := rc.ActorID()
	view := cache.View{
		Path: cache.UserBoardsPath(actorID),
		Tags: []string{cache.UserBoardsTag(actorID)},
	}

	boards, err := cache.Fetch(rc.Context(), h.views, view, func(ctx context.Context) ([]dto.BoardResponse, error) {
		return h.boardService.ListBoardsByCreator(ctx, actorID)
	})
	if err != nil {
		return nil, err
	}
	return gate.OK(boards), nil
}

// UpdateBoard godoc
// @Summary      보드 수정
// @Description  보드 소유자가 이름, 설명, 공개 여부, slug, 설정을 수정합니다
// @Tags         boards
// @Accept       json
// @Produce      json
// @Param        slug path string true "Board slug"
// @Param        request body dto.UpdateBoardRequest true "보드 수정 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.BoardResponse} "보드 수정 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청 또는 이미 사용 중인 slug"
// @Failure      401 {object} response.ErrorResponse "인증 필요"
// @Failure      403 {object} response.ErrorResponse "권한 없음"
// @Failure      404 {object} response.ErrorResponse "보드를 찾을 수 없음"
// @Security     BearerAuth
// @Router       /boards/{slug} [patch]
func (h *BoardHandler) UpdateBoard(c *gin.Context, rc gate.RequestContext) (*gate.Outcome, error) {
	board := rc.Board()
	previousSlug := board.Slug

	var req dto.UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, invalidBody(err)
	}

	updated, err := h.boardService.UpdateBoard(rc.Context(), board, &req)
	if err != nil {
		return nil, err
	}
	rc.Lookup.Forget(lookup.KindBoard, previousSlug)

	mutation := fanout.Mutation{
		Kind:         fanout.BoardUpdated,
		BoardSlug:    updated.Slug,
		BoardOwnerID: board.CreatorID,
	}
	if updated.Slug != previousSlug {
		mutation.PreviousBoardSlug = previousSlug
	}
	return gate.OK(updated, mutation), nil
}

// DeleteBoard godoc
// @Summary      보드 삭제
// @Description  보드와 모든 요청, 댓글, 추천을 삭제합니다
// @Tags         boards
// @Produce      json
// @Param        slug path string true "Board slug"
// @Success      200 {object} response.SuccessResponse "보드 삭제 성공"
// @Failure      401 {object} response.ErrorResponse "인증 필요"
// @Failure      403 {object} response.ErrorResponse "권한 없음"
// @Failure      404 {object} response.ErrorResponse "보드를 찾을 수 없음"
// @Security     BearerAuth
// @Router       /boards/{slug} [delete]
func (h *BoardHandler) DeleteBoard(c *gin.Context, rc gate.RequestContext) (*gate.Outcome, error) {
	board := rc.Board()
	submitters, err := h.boardService.DeleteBoard(rc.Context(), board)
	if err != nil {
		return nil, err
	}
	rc.Lookup.Forget(lookup.KindBoard, board.Slug)

	return gate.OK(nil, fanout.Mutation{
		Kind:         fanout.BoardDeleted,
		BoardSlug:    board.Slug,
		BoardOwnerID: board.CreatorID,
		SubmitterIDs: submitters,
	}), nil
}

// RequestLogoUpload godoc
// @Summary      로고 업로드 URL 발급
// @Description  보드 로고 업로드용 Presigned URL을 발급합니다 (5분 유효)
// @Tags         boards
// @Accept       json
// @Produce      json
// @Param        slug path string true "Board slug"
// @Param        request body dto.LogoUploadRequest true "업로드할 파일 형식"
// @Success      200 {object} response.SuccessResponse{data=dto.LogoUploadResponse} "URL 발급 성공"
// @Failure      400 {object} response.ErrorResponse "지원하지 않는 파일 형식"
// @Failure      403 {object} response.ErrorResponse "권한 없음"
// @Failure      503 {object} response.ErrorResponse "스토리지 미설정"
// @Security     BearerAuth
// @Router       /boards/{slug}/logo/presigned-url [post]
func (h *BoardHandler) RequestLogoUpload(c *gin.Context, rc gate.RequestContext) (*gate.Outcome, error) {
	var req dto.LogoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, invalidBody(err)
	}

	upload, err := h.boardService.RequestLogoUpload(rc.Context(), rc.Board(), &req)
	if err != nil {
		return nil, err
	}
	return gate.OK(upload), nil
}

// ConfirmLogo godoc
// @Summary      로고 업로드 확인
// @Description  업로드된 파일을 보드 로고로 지정합니다
// @Tags         boards
// @Accept       json
// @Produce      json
// @Param        slug path string true "Board slug"
// @Param        request body dto.ConfirmLogoRequest true "업로드된 파일 키"
// @Success      200 {object} response.SuccessResponse{data=dto.BoardResponse} "로고 지정 성공"
// @Failure      400 {object} response.ErrorResponse "파일 키가 잘못되었거나 파일이 없음"
// @Failure      403 {object} response.ErrorResponse "권한 없음"
// @Failure      503 {object} response.ErrorResponse "스토리지 미설정"
// @Security     BearerAuth
// @Router       /boards/{slug}/logo [put]
func (h *BoardHandler) ConfirmLogo(c *gin.Context, rc gate.RequestContext) (*gate.Outcome, error) {
	board := rc.Board()

	var req dto.ConfirmLogoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, invalidBody(err)
	}

	updated, err := h.boardService.ConfirmLogo(rc.Context(), board, &req)
	if err != nil {
		return nil, err
	}
	rc.Lookup.Forget(lookup.KindBoard, board.Slug)

	return gate.OK(updated, fanout.Mutation{
		Kind:         fanout.BoardUpdated,
		BoardSlug:    board.Slug,
		BoardOwnerID: board.CreatorID,
	}), nil
}
