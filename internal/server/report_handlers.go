package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flashcase/flashcase/internal/service"
	"github.com/flashcase/flashcase/internal/storage"
)

type fileReportRequest struct {
	Type        string `json:"report_type" binding:"required,reporttype"`
	ContentID   string `json:"content_id" binding:"required"`
	Reason      string `json:"reason" binding:"required,reportreason"`
	Description string `json:"description" binding:"max=2000"`
}

func (s *Server) handleFileReport(c *gin.Context) {
	var req fileReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := s.svc.FileReport(c.Request.Context(), currentUserID(c), service.NewReport{
		Type:        storage.ReportType(req.Type),
		ContentID:   req.ContentID,
		Reason:      storage.ReportReason(req.Reason),
		Description: req.Description,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (s *Server) handleListReports(c *gin.Context) {
	status := storage.ReportStatus(c.Query("status"))
	reports, err := s.svc.ListMyReports(c.Request.Context(), currentUserID(c), status)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}
