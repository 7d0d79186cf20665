package branching

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/emoiq/internal/game"
	"github.com/abhisek/emoiq/internal/ui/components"
	"github.com/abhisek/emoiq/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	v := s.svc.Branching.Snapshot()
	if v.Loading && !v.Submitting {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s.loader.View("Loading puzzle"))
	}
	if v.Puzzle == nil {
		msg := "No puzzle available."
		if s.exhausted {
			msg = "You have solved every puzzle in this category."
		}
		if v.Err != "" {
			msg += "\n" + v.Err
		}
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Subtitle.Render(msg))
	}

	inner := min(width-4, 90)
	p := v.Puzzle
	var b strings.Builder

	heading := theme.Title.Render(v.DateKey)
	if s.practice {
		heading = theme.Title.Render(string(p.Category))
	}
	b.WriteString(heading + "  " + theme.Subtitle.Render(p.Context) + "\n\n")
	b.WriteString(theme.Message.Width(inner-2).Render(p.Message) + "\n\n")
	if v.Err != "" {
		b.WriteString(theme.Warning.Render(v.Err) + "\n\n")
	}

	if v.Result != nil {
		b.WriteString(s.renderResult(v, inner))
	} else {
		b.WriteString(s.renderRound(v))
	}
	return lipgloss.NewStyle().Padding(0, 2).Render(b.String())
}

func (s *Screen) renderRound(v game.BranchingView) string {
	p := v.Puzzle
	round := p.Rounds[s.round]

	var b strings.Builder
	steps := make([]string, len(p.Rounds))
	for i := range p.Rounds {
		mark := "○"
		if len(v.Selections[i]) > 0 {
			mark = "●"
		}
		style := theme.Subtitle
		if i == s.round {
			style = theme.Selected
		}
		steps[i] = style.Render(mark)
	}
	fmt.Fprintf(&b, "%s  %s\n\n", strings.Join(steps, " "),
		theme.Subtitle.Render(fmt.Sprintf("Round %d of %d", s.round+1, len(p.Rounds))))
	b.WriteString(theme.Body.Bold(true).Render(round.Question) + "\n\n")
	b.WriteString(components.OptionsView(round, v.Selections[s.round], s.picker.Cursor, true))
	b.WriteString("\n")

	if s.round == len(p.Rounds)-1 {
		label := "Submit"
		if v.Submitting {
			label = "Submitting…"
		}
		b.WriteString(components.Button(label, v.CanSubmit) + "\n")
	}
	if v.SubmitErr != "" {
		b.WriteString(theme.Incorrect.Render(v.SubmitErr) + "\n")
	}
	if s.localErr != "" {
		b.WriteString(theme.Incorrect.Render(s.localErr) + "\n")
	}
	return b.String()
}

func (s *Screen) renderResult(v game.BranchingView, width int) string {
	r := v.Result
	var b strings.Builder

	verdict := theme.Incorrect.Render("Not quite.")
	if r.IsCorrect {
		verdict = theme.Correct.Render("You read it right.")
	}
	fmt.Fprintf(&b, "%s  %s\n", verdict, theme.Body.Render(fmt.Sprintf(
		"%d/%d rounds, score %d", r.CorrectCount, r.QuestionCount, r.Score)))
	b.WriteString(components.Bar(r.Score, 100, min(width, 40), theme.Correct) + "\n\n")

	rv := v.Puzzle.Reveal
	if rv.Truth != "" {
		b.WriteString(theme.Title.Render("What they meant") + "\n")
		b.WriteString(theme.Body.Width(width).Render(rv.Truth) + "\n\n")
	}
	if rv.Explanation != "" {
		b.WriteString(theme.Body.Width(width).Render(rv.Explanation) + "\n")
	}
	if rv.Pattern != "" {
		b.WriteString(theme.Hint.Render("Pattern: "+rv.Pattern) + "\n")
	}
	if !v.IsCompleted && !v.Practice {
		b.WriteString("\n" + theme.Hint.Render("Graded on this device; sign in to record the daily result."))
	}
	return b.String()
}
