// Package server exposes the FlashCase API over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/flashcase/flashcase/internal/ai"
	"github.com/flashcase/flashcase/internal/auth"
	"github.com/flashcase/flashcase/internal/config"
	"github.com/flashcase/flashcase/internal/service"
)

// Server wires the service layer to gin routes.
type Server struct {
	cfg    *config.Config
	svc    *service.Service
	ai     *ai.Client
	tokens *auth.TokenManager
	logger *zap.Logger
	engine *gin.Engine
}

// New builds a Server with all routes and middleware registered.
func New(cfg *config.Config, svc *service.Service, aiClient *ai.Client, tokens *auth.TokenManager, logger *zap.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		svc:    svc,
		ai:     aiClient,
		tokens: tokens,
		logger: logger,
	}
	s.registerValidators()
	s.engine = s.buildRouter()
	return s
}

func (s *Server) registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("reportreason", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "inappropriate", "spam", "copyright", "misleading", "other":
			return true
		}
		return false
	})
	_ = v.RegisterValidation("reporttype", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "deck" || value == "card"
	})
}

func (s *Server) buildRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())
	router.Use(s.corsMiddleware())

	router.GET("/health", s.handleHealth)

	api := router.Group("/api/v1")
	if s.cfg.RateLimitEnabled {
		api.Use(s.rateLimiter(s.cfg.RateLimitPerMinute))
	}

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", s.handleRegister)
		authGroup.POST("/login", s.handleLogin)
		authGroup.GET("/me", s.authRequired(), s.handleMe)
	}

	protected := api.Group("")
	protected.Use(s.authRequired())
	{
		protected.POST("/decks", s.handleCreateDeck)
		protected.GET("/decks", s.handleListDecks)
		protected.GET("/decks/public", s.handleListPublicDecks)
		protected.GET("/decks/:deckID", s.handleGetDeck)
		protected.DELETE("/decks/:deckID", s.handleDeleteDeck)
		protected.POST("/decks/:deckID/follow", s.handleFollowDeck)
		protected.GET("/decks/:deckID/stats", s.handleDeckStats)
		protected.GET("/decks/:deckID/cards", s.handleListCards)
		protected.POST("/decks/:deckID/cards", s.handleCreateCard)

		protected.GET("/cards/:cardID", s.handleGetCard)
		protected.DELETE("/cards/:cardID", s.handleDeleteCard)

		protected.GET("/study/session/:deckID", s.handleStudySession)
		protected.POST("/study/review/:cardID", s.handleSubmitReview)
		protected.GET("/study/state/:cardID", s.handleCardState)

		protected.POST("/reports", s.handleFileReport)
		protected.GET("/reports", s.handleListReports)

		aiGroup := protected.Group("/ai")
		if s.cfg.RateLimitEnabled {
			aiGroup.Use(s.rateLimiter(s.cfg.AIRateLimitPerMinute))
		}
		aiGroup.POST("/rewrite", s.handleRewriteCard)
		aiGroup.POST("/autocomplete", s.handleAutocompleteCard)
		aiGroup.POST("/generate", s.handleGenerateCards)
	}

	return router
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.ListenAddr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
