package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/emoiq/internal/ui/theme"
)

// Mood picks the face shown on the home screen.
type Mood int

const (
	MoodCurious Mood = iota // today not finished
	MoodHappy               // today won
	MoodGlum                // today lost
)

const faceCurious = `╭─────╮
│ ◔ ◔ │ ?
│  ~  │
╰─────╯`

const faceHappy = `╭─────╮
│ ^ ^ │
│  ◡  │
╰─────╯`

const faceGlum = `╭─────╮
│ - - │
│  ︵  │
╰─────╯`

func renderFace(m Mood) string {
	art, fg := faceCurious, theme.Current.Primary
	switch m {
	case MoodHappy:
		art, fg = faceHappy, theme.Current.Success
	case MoodGlum:
		art, fg = faceGlum, theme.Current.Accent
	}
	return lipgloss.NewStyle().Foreground(fg).Render(art)
}
