package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createCardRequest struct {
	Front string `json:"front" binding:"required,max=5000"`
	Back  string `json:"back" binding:"required,max=5000"`
}

func (s *Server) handleCreateCard(c *gin.Context) {
	var req createCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	card, err := s.svc.CreateCard(c.Request.Context(), currentUserID(c), c.Param("deckID"), req.Front, req.Back)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, card)
}

func (s *Server) handleListCards(c *gin.Context) {
	cards, err := s.svc.ListCards(c.Request.Context(), currentUserID(c), c.Param("deckID"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

func (s *Server) handleGetCard(c *gin.Context) {
	card, err := s.svc.GetCard(c.Request.Context(), currentUserID(c), c.Param("cardID"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (s *Server) handleDeleteCard(c *gin.Context) {
	if err := s.svc.DeleteCard(c.Request.Context(), currentUserID(c), c.Param("cardID")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
