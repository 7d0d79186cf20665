// Package screen defines the contract between the router and each screen.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/emoiq/internal/ui/layout"
)

// Screen is one page of the terminal UI.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area, excluding header and footer.
	View(width, height int) string

	Title() string
}

// KeyHintProvider overrides the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Resumer is notified when the screen becomes active again after the
// screen above it was popped.
type Resumer interface {
	Resume() tea.Cmd
}

// InputCapturer reports whether the screen is consuming text input, in
// which case global shortcuts such as q and esc are not applied.
type InputCapturer interface {
	CapturingInput() bool
}
