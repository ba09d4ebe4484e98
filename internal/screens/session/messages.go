package session

import (
	"github.com/abhisek/fido/internal/feedback"
)

// sessionCreatedMsg is sent when the session for the chosen target exists.
type sessionCreatedMsg struct {
	Session *feedback.Session
	Err     error
}

// turnMsg carries the result of one Start or Submit call.
type turnMsg struct {
	Turn feedback.Turn
	Err  error
}

// spinnerTickMsg animates the waiting indicator.
type spinnerTickMsg struct{}
