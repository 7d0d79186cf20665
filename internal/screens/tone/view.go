package tone

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/emoiq/internal/game"
	"github.com/abhisek/emoiq/internal/progress"
	"github.com/abhisek/emoiq/internal/stats"
	tn "github.com/abhisek/emoiq/internal/tone"
	"github.com/abhisek/emoiq/internal/ui/components"
	"github.com/abhisek/emoiq/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	v := s.svc.Tone.Snapshot()
	if v.Loading || v.Puzzle == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s.loader.View("Loading today's message"))
	}

	inner := min(width-4, 90)
	var b strings.Builder

	b.WriteString(s.renderHeading(v))
	b.WriteString("\n\n")
	b.WriteString(theme.Message.Width(inner - 2).Render(v.Puzzle.Message))
	b.WriteString("\n\n")

	if v.Err != "" {
		b.WriteString(theme.Warning.Render(v.Err) + "\n\n")
	}

	var hints tn.HintSet
	if s.last != nil {
		hints = s.last.Hints
	}
	focus := s.focus
	if v.Status.Terminal() {
		focus = -1
	}
	b.WriteString(components.Sliders(v.Guess, focus, hints, inner))
	b.WriteString("\n")
	b.WriteString(s.renderAttempts(v))
	b.WriteString("\n")
	b.WriteString(s.renderStatus(v))

	return lipgloss.NewStyle().Padding(0, 2).Render(b.String())
}

func (s *Screen) renderHeading(v game.ToneView) string {
	p := v.Puzzle
	stars := strings.Repeat("★", p.Difficulty) + strings.Repeat("☆", max(3-p.Difficulty, 0))
	left := theme.Title.Render(v.DateKey) + "  " + theme.Subtitle.Render(p.Category+"  "+stars)
	right := theme.Subtitle.Render(fmt.Sprintf("Attempt %d/%d", len(v.Attempts), v.MaxAttempts))
	return left + "    " + right
}

func (s *Screen) renderAttempts(v game.ToneView) string {
	if len(v.Attempts) == 0 {
		return theme.Hint.Render("Set the sliders to the tone you read and press Enter.") + "\n"
	}
	rules := s.svc.Tone.Rules()
	rec := progress.Record{Attempts: v.Attempts}
	rows := rules.GridRows(rec.Guesses(), v.Puzzle.Target)

	var b strings.Builder
	for i, row := range rows {
		fmt.Fprintf(&b, "%d  %s  %s\n", i+1, components.TileRow(row),
			theme.Body.Render(fmt.Sprintf("%3d%% resonance", v.Attempts[i].Resonance)))
	}
	return b.String()
}

func (s *Screen) renderStatus(v game.ToneView) string {
	rec := progress.Record{Attempts: v.Attempts, Status: v.Status}
	switch v.Status {
	case progress.Won:
		medal := stats.MedalFor(rec)
		out := theme.Correct.Render(fmt.Sprintf("Solved in %s. %s medal.",
			stats.Summary(rec, v.MaxAttempts), strings.ToUpper(string(medal[:1]))+string(medal[1:])))
		return out + s.renderShare()
	case progress.Lost:
		t := v.Puzzle.Target
		out := theme.Incorrect.Render("Out of attempts.") + "\n" + theme.Body.Render(fmt.Sprintf(
			"The tone was anger %d, affection %d, anxiety %d, joy %d, control %d.",
			t.Anger, t.Affection, t.Anxiety, t.Joy, t.Control))
		return out + s.renderShare()
	}
	return components.Button("Submit", !v.Loading) + "  " +
		theme.Subtitle.Render(fmt.Sprintf("%d left", v.AttemptsLeft))
}

func (s *Screen) renderShare() string {
	if !s.showShare {
		return ""
	}
	return "\n\n" + theme.Card.Render(s.svc.Tone.ShareText())
}
