package utils

import (
	"github.com/gin-gonic/gin"
)

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// ErrorResponse writes an error body and aborts the handler chain.
func ErrorResponse(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorBody{
		Status:  code,
		Message: message,
	})
}

// RawJSON writes an already-encoded JSON body, as served from the cache.
func RawJSON(c *gin.Context, code int, body []byte) {
	c.Data(code, "application/json; charset=utf-8", body)
}
