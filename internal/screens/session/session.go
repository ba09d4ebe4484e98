// Package session is the chat screen that walks an assessor through one
// feedback session.
package session

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/fido/internal/feedback"
	"github.com/abhisek/fido/internal/router"
	"github.com/abhisek/fido/internal/screen"
	"github.com/abhisek/fido/internal/screens/summary"
	"github.com/abhisek/fido/internal/ui/components"
	"github.com/abhisek/fido/internal/ui/layout"
)

// Factory creates a session for the given target.
type Factory func(target string) (*feedback.Session, error)

type stage int

const (
	stageTarget stage = iota // asking who the feedback is for
	stageChat
	stageDone
)

const spinnerInterval = 150 * time.Millisecond

// SessionScreen implements screen.Screen for a live feedback chat.
type SessionScreen struct {
	factory Factory
	sess    *feedback.Session
	stage   stage

	transcript []feedback.Message
	turn       feedback.Turn
	input      components.TextInput
	choice     components.MultiChoice
	mcActive   bool

	waiting      bool
	spinnerFrame int
	notice       string
	errMsg       string

	record      *feedback.Record
	deliveryErr error

	showingQuitConfirm bool
}

var (
	_ screen.Screen          = (*SessionScreen)(nil)
	_ screen.KeyHintProvider = (*SessionScreen)(nil)
	_ screen.BackInterceptor = (*SessionScreen)(nil)
	_ screen.Closer          = (*SessionScreen)(nil)
)

// New creates a SessionScreen that first asks for the target's name.
func New(factory Factory) *SessionScreen {
	return &SessionScreen{
		factory: factory,
		input:   components.NewTextInput("Who is this feedback for?", components.InputText, 60),
	}
}

func (s *SessionScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *SessionScreen) Title() string {
	if s.sess != nil {
		return "Feedback for " + s.sess.Config().Target
	}
	return "Give Feedback"
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.showingQuitConfirm:
		return []layout.KeyHint{
			{Key: "Y", Description: "Discard feedback"},
			{Key: "N", Description: "Keep going"},
		}
	case s.stage == stageDone:
		return []layout.KeyHint{
			{Key: "Enter", Description: "View summary"},
			{Key: "Esc", Description: "Home"},
		}
	case s.mcActive:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Select"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Esc", Description: "Quit"},
	}
}

// InterceptBack keeps Esc inside the screen while a conversation is open so
// the assessor can confirm before discarding it.
func (s *SessionScreen) InterceptBack() bool {
	return s.stage == stageChat
}

// Close abandons the underlying session, if any.
func (s *SessionScreen) Close() {
	if s.sess != nil {
		s.sess.Close()
	}
}

func (s *SessionScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}
	if s.showingQuitConfirm {
		return renderQuitConfirm(width)
	}
	if s.stage == stageTarget {
		return s.renderTargetPrompt(width, height)
	}
	return s.renderChat(width, height)
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionCreatedMsg:
		return s.handleCreated(msg)

	case turnMsg:
		return s.handleTurn(msg)

	case spinnerTickMsg:
		if !s.waiting {
			return s, nil
		}
		s.spinnerFrame++
		return s, spinnerTick()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if !s.mcActive && !s.waiting && s.stage != stageDone {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SessionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, popScreen
	}

	if s.showingQuitConfirm {
		switch strings.ToLower(key) {
		case "y":
			s.showingQuitConfirm = false
			return s, popScreen
		case "n", "esc":
			s.showingQuitConfirm = false
		}
		return s, nil
	}

	if key == "esc" {
		if s.stage == stageChat {
			s.showingQuitConfirm = true
		}
		return s, nil
	}

	if s.waiting {
		return s, nil
	}

	switch s.stage {
	case stageTarget:
		if key == "enter" {
			return s.createSession()
		}
	case stageDone:
		if key == "enter" && s.record != nil {
			rec := *s.record
			return s, func() tea.Msg {
				return router.ReplaceScreenMsg{Screen: summary.New(rec, s.deliveryErr)}
			}
		}
		return s, nil
	case stageChat:
		if s.mcActive {
			var cmd tea.Cmd
			s.choice, cmd = s.choice.Update(msg)
			if chosen, ok := s.choice.Chosen(); ok {
				s.mcActive = false
				return s, tea.Batch(cmd, s.submit(chosen))
			}
			return s, cmd
		}
		if key == "enter" {
			answer := s.input.Value()
			s.input.Reset()
			return s, s.submit(answer)
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *SessionScreen) createSession() (screen.Screen, tea.Cmd) {
	target := strings.TrimSpace(s.input.Value())
	if target == "" {
		s.notice = "Please enter a name."
		return s, nil
	}
	s.notice = ""
	s.waiting = true
	factory := s.factory
	return s, tea.Batch(spinnerTick(), func() tea.Msg {
		sess, err := factory(target)
		return sessionCreatedMsg{Session: sess, Err: err}
	})
}

func (s *SessionScreen) handleCreated(msg sessionCreatedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.waiting = false
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	s.sess = msg.Session
	s.stage = stageChat
	s.input = components.NewTextInput("Type your answer...", components.InputText, 500)
	sess := s.sess
	return s, tea.Batch(s.input.Init(), func() tea.Msg {
		turn, err := sess.Start(context.Background())
		return turnMsg{Turn: turn, Err: err}
	})
}

func (s *SessionScreen) submit(input string) tea.Cmd {
	s.waiting = true
	s.notice = ""
	sess := s.sess
	return tea.Batch(spinnerTick(), func() tea.Msg {
		turn, err := sess.Submit(context.Background(), input)
		return turnMsg{Turn: turn, Err: err}
	})
}

func (s *SessionScreen) handleTurn(msg turnMsg) (screen.Screen, tea.Cmd) {
	s.waiting = false
	turn := msg.Turn

	if msg.Err != nil && turn.Record == nil {
		if errors.Is(msg.Err, feedback.ErrSessionClosed) {
			return s, nil
		}
		s.errMsg = msg.Err.Error()
		return s, nil
	}

	s.turn = turn
	s.transcript = append(s.transcript, turn.Messages...)
	if turn.QuestionErr != nil {
		s.notice = "Question service unavailable, using a standard question."
	}

	if len(turn.Choices) > 0 {
		s.choice = components.NewMultiChoice(turn.Choices)
		s.mcActive = true
	}

	if turn.Record != nil {
		rec := *turn.Record
		s.record = &rec
		s.deliveryErr = msg.Err
		s.stage = stageDone
		switch {
		case msg.Err != nil:
			s.notice = "Feedback recorded, but saving failed: " + msg.Err.Error()
		case turn.AnalysisErr != nil:
			s.notice = "Feedback recorded without language notes."
		}
	}
	return s, nil
}

func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(time.Time) tea.Msg { return spinnerTickMsg{} })
}

func popScreen() tea.Msg {
	return router.PopScreenMsg{}
}
