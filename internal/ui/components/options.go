package components

import (
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/emoiq/internal/puzzle"
	"github.com/abhisek/emoiq/internal/ui/theme"
)

// OptionPicker moves a cursor over a round's options. Selection state lives
// in the game; the picker reports which key was toggled.
type OptionPicker struct {
	Cursor int
}

// Update returns the option key to toggle, or "" when the message only
// moved the cursor.
func (p OptionPicker) Update(msg tea.Msg, round puzzle.Round) (OptionPicker, string) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(round.Options) == 0 {
		return p, ""
	}
	switch kmsg.String() {
	case "up", "k":
		if p.Cursor > 0 {
			p.Cursor--
		}
	case "down", "j":
		if p.Cursor < len(round.Options)-1 {
			p.Cursor++
		}
	case "space", " ", "x":
		return p, round.Options[min(p.Cursor, len(round.Options)-1)].Key
	}
	return p, ""
}

// OptionsView renders round with selected keys marked.
func OptionsView(round puzzle.Round, selected []string, cursor int, focused bool) string {
	multi := round.AllowMultiple || round.Type == puzzle.QuestionMultiChoice
	var b strings.Builder
	for i, o := range round.Options {
		mark := "( )"
		if multi {
			mark = "[ ]"
		}
		if slices.Contains(selected, o.Key) {
			mark = "(•)"
			if multi {
				mark = "[x]"
			}
		}
		prefix := "  "
		style := theme.Unselected
		if focused && i == cursor {
			prefix = "▸ "
			style = theme.Selected
		}
		b.WriteString(style.Render(prefix+mark+" "+o.Label) + "\n")
	}
	return b.String()
}
