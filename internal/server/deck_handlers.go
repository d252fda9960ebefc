package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flashcase/flashcase/internal/service"
)

type createDeckRequest struct {
	Name        string  `json:"name" binding:"required,max=200"`
	Description string  `json:"description" binding:"max=2000"`
	IsPublic    bool    `json:"is_public"`
	School      *string `json:"school"`
	Course      *string `json:"course"`
	Professor   *string `json:"professor"`
	Year        *int    `json:"year"`
}

func (s *Server) handleCreateDeck(c *gin.Context) {
	var req createDeckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deck, err := s.svc.CreateDeck(c.Request.Context(), currentUserID(c), service.NewDeck{
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
		School:      req.School,
		Course:      req.Course,
		Professor:   req.Professor,
		Year:        req.Year,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, deck)
}

func (s *Server) handleListDecks(c *gin.Context) {
	decks, err := s.svc.ListDecks(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, decks)
}

func (s *Server) handleListPublicDecks(c *gin.Context) {
	decks, err := s.svc.ListPublicDecks(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, decks)
}

func (s *Server) handleGetDeck(c *gin.Context) {
	deck, err := s.svc.GetDeck(c.Request.Context(), currentUserID(c), c.Param("deckID"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deck)
}

func (s *Server) handleDeleteDeck(c *gin.Context) {
	if err := s.svc.DeleteDeck(c.Request.Context(), currentUserID(c), c.Param("deckID")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleFollowDeck(c *gin.Context) {
	if err := s.svc.FollowDeck(c.Request.Context(), currentUserID(c), c.Param("deckID")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleDeckStats(c *gin.Context) {
	stats, err := s.svc.DeckStats(c.Request.Context(), currentUserID(c), c.Param("deckID"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
