package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type submitReviewRequest struct {
	// Pointer so that a rating of 0 survives JSON binding.
	Quality *int `json:"quality" binding:"required"`
}

func (s *Server) handleStudySession(c *gin.Context) {
	limit := s.cfg.DefaultSessionLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = parsed
	}

	session, err := s.svc.StudySession(c.Request.Context(), currentUserID(c), c.Param("deckID"), limit, time.Now().UTC())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cards": session, "count": len(session)})
}

func (s *Server) handleSubmitReview(c *gin.Context) {
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log, err := s.svc.SubmitReview(c.Request.Context(), currentUserID(c), c.Param("cardID"), *req.Quality, time.Now().UTC())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

func (s *Server) handleCardState(c *gin.Context) {
	state, err := s.svc.CardState(c.Request.Context(), currentUserID(c), c.Param("cardID"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}
