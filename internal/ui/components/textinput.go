package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/emoiq/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with an inline error line.
type TextInput struct {
	Model textinput.Model
	Err   string
}

func NewTextInput(placeholder string, limit, width int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.SetWidth(width)
	ti.Focus()
	return TextInput{Model: ti}
}

func (t TextInput) Init() tea.Cmd {
	return textinput.Blink
}

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if _, ok := msg.(tea.KeyPressMsg); ok {
		t.Err = ""
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t TextInput) View() string {
	v := t.Model.View()
	if t.Err != "" {
		v += "\n" + theme.Incorrect.Render(t.Err)
	}
	return v
}

func (t TextInput) Value() string {
	return t.Model.Value()
}
