package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jengzang/safeguard-backend/internal/middleware"
	"github.com/jengzang/safeguard-backend/internal/models"
	"github.com/jengzang/safeguard-backend/pkg/response"
)

// statusFor maps a domain error to an HTTP status code
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with its mapped status. Unexpected errors are logged and
// answered with fallback so internals do not leak to clients.
func respondError(c *gin.Context, log *zap.Logger, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error(fallback, zap.String("path", c.Request.URL.Path), zap.Error(err))
		response.InternalError(c, fallback)
		return
	}
	response.Error(c, status, err.Error())
}

func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.ContextUserID)
}
