package response

import (
	"github.com/gin-gonic/gin"
)

// SuccessResponse is the envelope of every successful response
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorResponse is the envelope of every failed response
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   interface{} `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorBody is the error payload inside ErrorResponse
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SendSuccess writes a success envelope
func SendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, SuccessResponse{
		Success: true,
		Data:    data,
	})
}

// SendError writes an error envelope and aborts the chain
func SendError(c *gin.Context, statusCode int, code, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Success: false,
		Error: ErrorBody{
			Code:    code,
			Message: message,
		},
		Message: message,
	})
}

// SendAppError maps err with StatusFor and writes the envelope
func SendAppError(c *gin.Context, err error) {
	status, code, message := StatusFor(err)
	SendError(c, status, code, message)
}
