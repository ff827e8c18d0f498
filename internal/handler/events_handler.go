package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"feedback-board-api/internal/gate"
	"feedback-board-api/internal/realtime"
)

type EventsHandler struct {
	hub      *realtime.Hub
	reader   *Reader
	gate     *gate.Gate
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewEventsHandler creates an EventsHandler. An empty allowedOrigins list
// accepts any origin.
func NewEventsHandler(hub *realtime.Hub, reader *Reader, g *gate.Gate, allowedOrigins []string, logger *zap.Logger) *EventsHandler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origins[origin] = struct{}{}
	}

	return &EventsHandler{
		hub:    hub,
		reader: reader,
		gate:   g,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(origins) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
		logger: logger,
	}
}

// StreamBoardEvents godoc
// @Summary      보드 실시간 이벤트
// @Description  WebSocket으로 보드의 캐시 무효화 이벤트를 수신합니다
// @Tags         boards
// @Param        slug path string true "Board slug"
// @Success      101 {object} realtime.Event "WebSocket 연결"
// @Failure      401 {object} response.ErrorResponse "비공개 보드, 인증 필요"
// @Failure      404 {object} response.ErrorResponse "보드를 찾을 수 없음"
// @Router       /boards/{slug}/events [get]
func (h *EventsHandler) StreamBoardEvents(c *gin.Context) {
	rc := h.gate.Identify(c)

	board, err := h.reader.VisibleBoard(rc.Context(), rc, c.Param("slug"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed",
			zap.String("board", board.Slug),
			zap.Error(err),
		)
		return
	}

	h.hub.Serve(conn, board.Slug)
}
