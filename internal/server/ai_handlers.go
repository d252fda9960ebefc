package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flashcase/flashcase/internal/ai"
)

type rewriteRequest struct {
	Text string `json:"text" binding:"required,max=5000"`
}

type autocompleteRequest struct {
	Front string `json:"front" binding:"required,max=5000"`
}

type generateRequest struct {
	Topic string `json:"topic" binding:"required,max=500"`
	Count int    `json:"count" binding:"omitempty,min=1,max=20"`
}

func (s *Server) handleRewriteCard(c *gin.Context) {
	var req rewriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !s.ai.Enabled() {
		s.respondError(c, ai.ErrNotConfigured)
		return
	}

	text, err := s.ai.RewriteCard(c.Request.Context(), req.Text)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

func (s *Server) handleAutocompleteCard(c *gin.Context) {
	var req autocompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !s.ai.Enabled() {
		s.respondError(c, ai.ErrNotConfigured)
		return
	}

	back, err := s.ai.AutocompleteCard(c.Request.Context(), req.Front)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"back": back})
}

func (s *Server) handleGenerateCards(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !s.ai.Enabled() {
		s.respondError(c, ai.ErrNotConfigured)
		return
	}

	cards, err := s.ai.GenerateCards(c.Request.Context(), req.Topic, req.Count)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cards": cards})
}
