// Package api serves FIDO over HTTP: feedback sessions (JSON and
// websocket), work items, the leaderboard, and stored feedback.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/abhisek/fido/internal/feedback"
	"github.com/abhisek/fido/internal/leaderboard"
	"github.com/abhisek/fido/internal/store"
	"github.com/abhisek/fido/internal/workitem"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Deps are the services the server exposes.
type Deps struct {
	Registry    *Registry
	WorkItems   *workitem.Service
	Leaderboard *leaderboard.Service
	Feedback    store.FeedbackRepo
	Logger      *slog.Logger
}

// Server is the HTTP surface.
type Server struct {
	deps     Deps
	engine   *gin.Engine
	upgrader websocket.Upgrader
}

// New builds the server and its routes.
func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(deps.Logger))

	s := &Server{
		deps:   deps,
		engine: engine,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.routes()
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() {
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := s.engine.Group("/api")

	sessions := api.Group("/sessions")
	sessions.POST("", s.createSession)
	sessions.GET("/:id", s.getSession)
	sessions.POST("/:id/messages", s.postMessage)
	sessions.DELETE("/:id", s.deleteSession)
	sessions.GET("/:id/ws", s.sessionSocket)

	users := api.Group("/users/:id")
	users.GET("/workitems", s.listWorkItems)
	users.POST("/workitems", s.logWorkItem)
	users.PATCH("/workitems/:itemID", s.updateWorkItem)
	users.GET("/dashboard", s.dashboard)
	users.GET("/profile", s.profile)
	users.POST("/redeem", s.redeem)

	api.GET("/leaderboard", s.leaderboard)
	api.GET("/rewards", s.rewards)
	api.GET("/feedback", s.listFeedback)
}

// errorStatus maps domain errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, workitem.ErrNotFound), errors.Is(err, leaderboard.ErrUnknownReward):
		return http.StatusNotFound
	case errors.Is(err, feedback.ErrTurnInFlight), errors.Is(err, feedback.ErrSessionComplete),
		errors.Is(err, feedback.ErrNotStarted), errors.Is(err, feedback.ErrAlreadyStarted),
		errors.Is(err, leaderboard.ErrInsufficientPoints), errors.Is(err, leaderboard.ErrRewardUnavailable):
		return http.StatusConflict
	case errors.Is(err, feedback.ErrSessionClosed):
		return http.StatusGone
	case errors.Is(err, workitem.ErrInvalid), errors.Is(err, feedback.ErrInvalidConfig):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
