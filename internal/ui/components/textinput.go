package components

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fido/internal/ui/theme"
)

// InputKind restricts which characters a TextInput accepts.
type InputKind int

const (
	InputText    InputKind = iota
	InputInteger           // digits only
	InputDecimal           // digits and one decimal point
)

// TextInput is a single-line bubbles textinput with FIDO styling and an
// optional character filter.
type TextInput struct {
	Model textinput.Model
	Kind  InputKind
}

// NewTextInput returns a focused input. limit caps the number of runes;
// zero means no cap.
func NewTextInput(placeholder string, kind InputKind, limit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = max(limit, 0)
	ti.Focus()
	return TextInput{Model: ti, Kind: kind}
}

func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok && k.Text != "" && !t.accepts(k.Text) {
		return t, nil
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// accepts reports whether typed text may be inserted given the kind.
func (t TextInput) accepts(text string) bool {
	for _, r := range text {
		switch {
		case t.Kind == InputText:
		case r >= '0' && r <= '9':
		case r == '.' && t.Kind == InputDecimal && !strings.Contains(t.Model.Value(), "."):
		default:
			return false
		}
	}
	return true
}

func (t TextInput) View() string {
	if t.Model.Focused() {
		return t.Model.View()
	}
	return lipgloss.NewStyle().Foreground(theme.TextDim).Render(t.Model.View())
}

func (t TextInput) Value() string { return t.Model.Value() }

// Int parses the value as an integer.
func (t TextInput) Int() (int, error) {
	return strconv.Atoi(strings.TrimSpace(t.Model.Value()))
}

// Float parses the value as a decimal number.
func (t TextInput) Float() (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(t.Model.Value()), 64)
}

func (t *TextInput) Focus() tea.Cmd { return t.Model.Focus() }
func (t *TextInput) Blur()          { t.Model.Blur() }
func (t *TextInput) Reset()         { t.Model.Reset() }
