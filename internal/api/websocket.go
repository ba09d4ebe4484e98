package api

import (
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type socketError struct {
	Error string `json:"error"`
}

// sessionSocket streams a session over a websocket. The first server frame
// is the session view; each client frame is one answer (plain text or
// {"text": ...}) and gets a turn frame back. Closing the socket leaves the
// session open.
func (s *Server) sessionSocket(c *gin.Context) {
	sess, err := s.deps.Registry.Get(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.deps.Logger.Warn("websocket upgrade failed", "session_id", sess.ID(), "error", err)
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(newSessionView(sess)); err != nil {
		return
	}

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.deps.Logger.Warn("websocket read failed", "session_id", sess.ID(), "error", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		view, err := s.submit(c, sess, frameText(data))
		if err != nil {
			if werr := conn.WriteJSON(socketError{Error: err.Error()}); werr != nil {
				return
			}
			continue
		}
		if err := conn.WriteJSON(view); err != nil {
			return
		}
	}
}

// frameText extracts the answer from a client frame.
func frameText(data []byte) string {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var req messageRequest
		if err := json.Unmarshal(data, &req); err == nil {
			return req.Text
		}
	}
	return string(data)
}
