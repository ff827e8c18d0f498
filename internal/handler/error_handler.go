package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"feedback-board-api/internal/response"
)

// handleServiceError writes the error envelope for a public route and logs
// anything that maps to a server error
func handleServiceError(c *gin.Context, logger *zap.Logger, err error) {
	status, code, _ := response.StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("code", code),
			zap.Error(err),
		)
	}
	response.SendAppError(c, err)
}

// invalidBody converts a binding failure into a validation error
func invalidBody(err error) error {
	return response.NewValidationError("Invalid request body", err.Error())
}

// invalidQuery converts a query binding failure into a validation error
func invalidQuery(err error) error {
	return response.NewValidationError("Invalid query parameters", err.Error())
}
