package api

import (
	"net/http"
	"strings"

	"github.com/abhisek/fido/internal/feedback"
	"github.com/gin-gonic/gin"
)

type createSessionRequest struct {
	Assessor string `json:"assessor"`
	Target   string `json:"target"`
}

type messageRequest struct {
	Text string `json:"text"`
}

type createSessionResponse struct {
	Session sessionView `json:"session"`
	Turn    turnView    `json:"turn"`
}

func (s *Server) createSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	sess, turn, err := s.deps.Registry.Create(c.Request.Context(), strings.TrimSpace(req.Assessor), strings.TrimSpace(req.Target))
	if err != nil {
		s.fail(c, err)
		return
	}
	s.deps.Logger.Info("session started", "session_id", sess.ID(), "target", sess.Config().Target)
	c.JSON(http.StatusCreated, createSessionResponse{Session: newSessionView(sess), Turn: newTurnView(turn, nil)})
}

func (s *Server) getSession(c *gin.Context) {
	sess, err := s.deps.Registry.Get(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(sess))
}

func (s *Server) postMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	sess, err := s.deps.Registry.Get(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}

	view, err := s.submit(c, sess, req.Text)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// submit runs one turn and drops the session from the registry once it
// completes. A failed record delivery still yields the turn.
func (s *Server) submit(c *gin.Context, sess *feedback.Session, text string) (turnView, error) {
	turn, err := sess.Submit(c.Request.Context(), text)
	if err != nil && turn.Record == nil {
		return turnView{}, err
	}
	if err != nil {
		s.deps.Logger.Error("feedback delivery failed", "session_id", sess.ID(), "error", err)
	}
	if turn.AnalysisErr != nil {
		s.deps.Logger.Warn("language analysis failed", "session_id", sess.ID(), "error", turn.AnalysisErr)
	}
	if turn.Phase == feedback.PhaseComplete {
		s.deps.Logger.Info("session complete", "session_id", sess.ID(), "record_id", turn.Record.ID)
		_ = s.deps.Registry.Remove(c.Request.Context(), sess.ID())
	}
	return newTurnView(turn, err), nil
}

func (s *Server) deleteSession(c *gin.Context) {
	if err := s.deps.Registry.Remove(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
