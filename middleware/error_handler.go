package middleware

import (
	"fmt"
	"net/http"

	"complaint-tracker-backend/logging"
	"complaint-tracker-backend/utils"

	"github.com/gin-gonic/gin"
)

// ErrorHandler merender error terakhir di c.Errors sebagai envelope JSON
// dan mengubah panic menjadi 500. Stack trace hanya dikirim bila withStack (development).
func ErrorHandler(withStack bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				appErr := utils.NewInternalError("Internal Server Error", fmt.Errorf("panic: %v", r))
				logging.Ctx(c.Request.Context()).Error().Interface("panic", r).Str("path", c.Request.URL.Path).
					Msg("[HTTP] Panic recovered")
				c.AbortWithStatusJSON(appErr.StatusCode, utils.BuildResponseFailed(appErr, withStack))
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		appErr := utils.AsAppError(c.Errors.Last().Err)
		if appErr.StatusCode >= http.StatusInternalServerError {
			logging.Ctx(c.Request.Context()).Error().Err(appErr).Str("path", c.Request.URL.Path).
				Msgf("[HTTP] %+v", appErr.Cause())
		}
		c.AbortWithStatusJSON(appErr.StatusCode, utils.BuildResponseFailed(appErr, withStack))
	}
}

// NotFound dipakai sebagai NoRoute / NoMethod handler.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		abortWith(c, utils.NewNotFoundError("Route not found"))
	}
}
