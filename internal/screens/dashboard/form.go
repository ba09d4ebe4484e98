package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fido/internal/router"
	"github.com/abhisek/fido/internal/screen"
	"github.com/abhisek/fido/internal/ui/components"
	"github.com/abhisek/fido/internal/ui/layout"
	"github.com/abhisek/fido/internal/ui/theme"
	"github.com/abhisek/fido/internal/workitem"
)

type field int

const (
	fieldTitle field = iota
	fieldDescription
	fieldType
	fieldStatus
	fieldComplexity
	fieldHours
	fieldTechnologies
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Title", "Description", "Type", "Status", "Complexity (1-5)", "Hours spent", "Technologies",
}

type itemLoggedMsg struct {
	Item workitem.Item
	Err  error
}

// FormScreen logs a new work item.
type FormScreen struct {
	svc    *workitem.Service
	userID string

	focus  field
	inputs map[field]*components.TextInput
	typ    int
	status int
	errMsg string
	saving bool
}

var _ screen.Screen = (*FormScreen)(nil)
var _ screen.KeyHintProvider = (*FormScreen)(nil)

// NewForm creates an empty work item form.
func NewForm(svc *workitem.Service, userID string) *FormScreen {
	mk := func(placeholder string, kind components.InputKind, limit int) *components.TextInput {
		ti := components.NewTextInput(placeholder, kind, limit)
		ti.Blur()
		return &ti
	}
	f := &FormScreen{
		svc:    svc,
		userID: userID,
		inputs: map[field]*components.TextInput{
			fieldTitle:        mk("What did you work on?", components.InputText, 120),
			fieldDescription:  mk("A sentence or two", components.InputText, 500),
			fieldComplexity:   mk("3", components.InputInteger, 1),
			fieldHours:        mk("optional, e.g. 4.5", components.InputDecimal, 8),
			fieldTechnologies: mk("comma separated", components.InputText, 200),
		},
		status: 2, // planned
	}
	return f
}

func (f *FormScreen) Init() tea.Cmd {
	return f.inputs[fieldTitle].Focus()
}

func (f *FormScreen) Title() string {
	return "Log Work Item"
}

func (f *FormScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "←→", Description: "Change choice"},
		{Key: "Ctrl+S", Description: "Save"},
		{Key: "Esc", Description: "Cancel"},
	}
}

func (f *FormScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case itemLoggedMsg:
		f.saving = false
		if msg.Err != nil {
			f.errMsg = msg.Err.Error()
			return f, nil
		}
		return f, func() tea.Msg { return router.PopScreenMsg{} }

	case tea.KeyMsg:
		if f.saving {
			return f, nil
		}
		switch msg.String() {
		case "esc":
			return f, func() tea.Msg { return router.PopScreenMsg{} }
		case "tab", "down":
			return f, f.moveFocus(1)
		case "shift+tab", "up":
			return f, f.moveFocus(-1)
		case "ctrl+s":
			return f, f.save()
		case "enter":
			if f.focus == fieldCount-1 {
				return f, f.save()
			}
			return f, f.moveFocus(1)
		case "left", "right":
			step := 1
			if msg.String() == "left" {
				step = -1
			}
			switch f.focus {
			case fieldType:
				f.typ = wrap(f.typ+step, len(workitem.AllTypes()))
				return f, nil
			case fieldStatus:
				f.status = wrap(f.status+step, len(workitem.AllStatuses()))
				return f, nil
			}
		}
	}

	if in, ok := f.inputs[f.focus]; ok {
		updated, cmd := in.Update(msg)
		*in = updated
		return f, cmd
	}
	return f, nil
}

func (f *FormScreen) moveFocus(step int) tea.Cmd {
	if in, ok := f.inputs[f.focus]; ok {
		in.Blur()
	}
	f.focus = field(wrap(int(f.focus)+step, int(fieldCount)))
	if in, ok := f.inputs[f.focus]; ok {
		return in.Focus()
	}
	return nil
}

// item builds the work item from the form fields.
func (f *FormScreen) item() (workitem.Item, error) {
	it := workitem.Item{
		UserID:      f.userID,
		Title:       strings.TrimSpace(f.inputs[fieldTitle].Value()),
		Description: strings.TrimSpace(f.inputs[fieldDescription].Value()),
		Type:        workitem.AllTypes()[f.typ],
		Status:      workitem.AllStatuses()[f.status],
		Complexity:  3,
	}
	if v := f.inputs[fieldComplexity].Value(); v != "" {
		n, err := f.inputs[fieldComplexity].Int()
		if err != nil {
			return it, fmt.Errorf("complexity: %w", err)
		}
		it.Complexity = n
	}
	if v := strings.TrimSpace(f.inputs[fieldHours].Value()); v != "" {
		h, err := f.inputs[fieldHours].Float()
		if err != nil {
			return it, errors.New("hours spent must be a number")
		}
		it.TimeSpent = &h
	}
	for _, t := range strings.Split(f.inputs[fieldTechnologies].Value(), ",") {
		if t = strings.TrimSpace(t); t != "" {
			it.Technologies = append(it.Technologies, t)
		}
	}
	return it, nil
}

func (f *FormScreen) save() tea.Cmd {
	it, err := f.item()
	if err != nil {
		f.errMsg = err.Error()
		return nil
	}
	f.errMsg = ""
	f.saving = true
	svc := f.svc
	return func() tea.Msg {
		logged, err := svc.Log(context.Background(), it)
		return itemLoggedMsg{Item: logged, Err: err}
	}
}

func (f *FormScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	labelStyle := lipgloss.NewStyle().Foreground(theme.TextDim).Width(18)
	focusStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Width(18)

	var rows []string
	for fl := field(0); fl < fieldCount; fl++ {
		label := labelStyle.Render(fieldLabels[fl])
		if fl == f.focus {
			label = focusStyle.Render("▸ " + fieldLabels[fl])
		}

		var value string
		switch fl {
		case fieldType:
			value = cycler(string(workitem.AllTypes()[f.typ]), fl == f.focus)
		case fieldStatus:
			value = cycler(workitem.AllStatuses()[f.status].Label(), fl == f.focus)
		default:
			value = f.inputs[fl].View()
		}
		rows = append(rows, label+" "+value)
	}

	body := strings.Join(rows, "\n\n")
	if f.errMsg != "" {
		body += "\n\n" + lipgloss.NewStyle().Foreground(theme.Error).Render(f.errMsg)
	}
	if f.saving {
		body += "\n\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Render("Saving...")
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw).
		Padding(1, 2).
		Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func cycler(v string, focused bool) string {
	style := lipgloss.NewStyle().Foreground(theme.Text)
	if focused {
		style = style.Foreground(theme.ArcadeYellow).Bold(true)
		return style.Render("◀ " + v + " ▶")
	}
	return style.Render(v)
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}
