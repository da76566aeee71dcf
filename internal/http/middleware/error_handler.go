package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/extrasite-backend/internal/http/response"
	"github.com/ignatzorin/extrasite-backend/internal/logger"
	"github.com/ignatzorin/extrasite-backend/internal/pkg/apperror"
)

// ErrorHandler логирует ошибки, прикреплённые хэндлерами через c.Error,
// и отвечает конвертом, если хэндлер сам ничего не записал.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		last := c.Errors.Last()
		fields := logrus.Fields{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"status": c.Writer.Status(),
			"code":   apperror.CodeOf(last.Err),
		}
		if actor, ok := ActorFrom(c); ok {
			fields["user_id"] = actor.ID
			fields["role"] = actor.Role
		}
		logger.Component("http").WithFields(fields).WithError(last.Err).Error("Request error")

		if c.Writer.Written() {
			return
		}
		response.Error(c, last.Err)
	}
}

// Recovery превращает панику в 500 с конвертом ошибки.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Component("http").WithFields(logrus.Fields{
					"path":  c.Request.URL.Path,
					"panic": r,
					"stack": string(debug.Stack()),
				}).Error("Recovered from panic")
				c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
					Success: false,
					Error: &response.ErrorInfo{
						Code:    string(apperror.ErrCodeInternal),
						Message: "erro interno do servidor",
					},
				})
			}
		}()
		c.Next()
	}
}
