package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/flashcase/flashcase/internal/ai"
	"github.com/flashcase/flashcase/internal/moderation"
	"github.com/flashcase/flashcase/internal/scheduler"
	"github.com/flashcase/flashcase/internal/service"
	"github.com/flashcase/flashcase/internal/storage"
)

// respondError maps domain errors to HTTP statuses. Unknown errors become a
// 500 without leaking internals.
func (s *Server) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrUserNotFound),
		errors.Is(err, storage.ErrDeckNotFound),
		errors.Is(err, storage.ErrCardNotFound),
		errors.Is(err, storage.ErrReportNotFound),
		errors.Is(err, service.ErrReportTargetMissing):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDeckAccessDenied),
		errors.Is(err, service.ErrNotDeckOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, moderation.ErrInappropriate),
		errors.Is(err, service.ErrInvalidReportType),
		errors.Is(err, scheduler.ErrInvalidQuality),
		errors.Is(err, scheduler.ErrInvalidLimit):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ai.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "ai features are not configured"})
	default:
		s.logger.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
