package utils

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Response defines the standard API response envelope.
type Response struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    Meta        `json:"meta"`
}

// ErrorInfo provides details for error responses.
type ErrorInfo struct {
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Fields   map[string]string `json:"fields,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
	Notify   bool              `json:"notify,omitempty"`
	Extra    gin.H             `json:"extra,omitempty"`
}

// Meta contains request-scoped metadata.
type Meta struct {
	RequestID string `json:"requestId"`
	Timestamp string `json:"timestamp"`
}

// Success writes a success response with the standard envelope.
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Success: true,
		Code:    code,
		Message: message,
		Data:    data,
		Meta:    newMeta(c),
	})
}

// Error writes an error response with provided API error code and message.
func Error(c *gin.Context, code int, errCode, message string) {
	ErrorWith(c, code, &ErrorInfo{Code: errCode, Message: message})
}

// ErrorWith writes an error response carrying the full ErrorInfo.
func ErrorWith(c *gin.Context, code int, info *ErrorInfo) {
	c.JSON(code, Response{
		Success: false,
		Code:    code,
		Message: info.Message,
		Error:   info,
		Meta:    newMeta(c),
	})
}

// ValidationError writes a 422 response listing the failing fields.
func ValidationError(c *gin.Context, message string, fields map[string]string) {
	ErrorWith(c, 422, &ErrorInfo{Code: "VALIDATION_ERROR", Message: message, Fields: fields})
}

func newMeta(c *gin.Context) Meta {
	return Meta{
		RequestID: getRequestID(c),
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return uuid.New().String()[:8]
}
