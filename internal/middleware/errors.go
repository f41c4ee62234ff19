package middleware

import (
	"fmt"
	"net/http"
	"runtime"

	"dentalcare-backend/pkg/apperror"
	"dentalcare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ErrorHandler turns the last error attached with c.Error into a
// {"status","message"} body and recovers panics as 500s. Internal causes are
// logged, never sent.
func ErrorHandler(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				var stack [4096]byte
				n := runtime.Stack(stack[:], false)

				logger.Error().
					Str("request_id", c.GetString(CtxRequestID)).
					Str("panic", fmt.Sprintf("%v", r)).
					Str("stack", string(stack[:n])).
					Msg("panic recovered")

				utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		appErr := apperror.From(c.Errors.Last().Err)
		if appErr.Type == apperror.TypeInternal {
			logger.Error().
				Err(appErr.Err).
				Str("request_id", c.GetString(CtxRequestID)).
				Str("path", c.Request.URL.Path).
				Msg("internal error")
		}
		utils.ErrorResponse(c, appErr.Status(), appErr.Message)
	}
}
