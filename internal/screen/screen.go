// Package screen holds the contract between the router and the TUI screens.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/fido/internal/ui/layout"
)

// Screen is one page of the TUI. The app frame draws the header and footer;
// View gets only the space between them.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string
	Title() string
}

// KeyHintProvider replaces the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// BackInterceptor keeps Esc for the screen while InterceptBack is true,
// e.g. to close a dialog instead of leaving.
type BackInterceptor interface {
	InterceptBack() bool
}

// Closer releases what a screen holds when it leaves the stack or the app
// quits.
type Closer interface {
	Close()
}

// RefreshMsg is sent to the screen that becomes active after a pop.
type RefreshMsg struct{}
