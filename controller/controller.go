package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"registrobo/middleware"
	"registrobo/model"
)

const (
	MsgInvalidRequest = "Requisição inválida"
	MsgInternal       = "internal server error"
	MsgNoIdentity     = "Identity not found"
)

// RespondError writes the user facing message of a typed error with the status
// of its kind. The wrapped cause only goes to the log.
func RespondError(c *gin.Context, err error) {
	log := middleware.LoggerFromContext(c)

	var appErr *model.AppError
	if !errors.As(err, &appErr) {
		log.Error("unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": MsgInternal})
		return
	}

	status := appErr.StatusCode()
	fields := []zap.Field{
		zap.String("kind", appErr.Kind.String()),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		log.Error(appErr.Message, fields...)
	} else {
		log.Info(appErr.Message, fields...)
	}
	c.JSON(status, gin.H{"error": appErr.Message})
}

// RespondBadRequest is used when the body can't be bound to the request DTO.
func RespondBadRequest(c *gin.Context, err error) {
	middleware.LoggerFromContext(c).Info("invalid request body", zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": MsgInvalidRequest})
}

// WithIdentity hands the authenticated officer to h as an explicit argument. A
// route registered without AccessTokenMiddleware answers 401.
func WithIdentity(h func(c *gin.Context, who model.Identity)) gin.HandlerFunc {
	return func(c *gin.Context) {
		who, ok := middleware.IdentityFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": MsgNoIdentity})
			return
		}
		h(c, who)
	}
}
