// Package stats derives medals, share summaries, streaks and tallies from
// tone progress.
package stats

import (
	"fmt"
	"math"
	"sort"

	"github.com/abhisek/emoiq/internal/progress"
	"github.com/abhisek/emoiq/internal/puzzle"
	"github.com/abhisek/emoiq/internal/tone"
)

// Medal grades a finished day.
type Medal string

const (
	Gold     Medal = "gold"
	Silver   Medal = "silver"
	Bronze   Medal = "bronze"
	Practice Medal = "practice"
)

// Medals returns every medal, best first.
func Medals() []Medal {
	return []Medal{Gold, Silver, Bronze, Practice}
}

// MedalFor grades a record: gold within two attempts, silver within four,
// bronze for any later win, practice when not won.
func MedalFor(rec progress.Record) Medal {
	if rec.Status != progress.Won {
		return Practice
	}
	switch n := len(rec.Attempts); {
	case n <= 2:
		return Gold
	case n <= 4:
		return Silver
	default:
		return Bronze
	}
}

// Summary is "N/max" for a win and "X/max" otherwise.
func Summary(rec progress.Record, maxAttempts int) string {
	if rec.Status == progress.Won {
		return fmt.Sprintf("%d/%d", len(rec.Attempts), maxAttempts)
	}
	return fmt.Sprintf("X/%d", maxAttempts)
}

// ShareText renders the spoiler-free result for a day.
func ShareText(date string, rec progress.Record, target tone.Vector, rules tone.Rules) string {
	return fmt.Sprintf("Emotional IQ %s %s\n\n%s\n\nemoiq.app",
		date, Summary(rec, rules.MaxAttempts), rules.ShareGrid(rec.Guesses(), target))
}

// Stats aggregates progress across days.
type Stats struct {
	Played        int
	Wins          int
	WinRate       int
	CurrentStreak int
	MaxStreak     int
	Medals        map[Medal]int

	// Distribution[i] counts wins that took i+1 attempts.
	Distribution []int
}

// Compute derives stats as of today. Days without attempts are ignored.
func Compute(m progress.Map, today string, maxAttempts int) Stats {
	s := Stats{
		Medals:       map[Medal]int{},
		Distribution: make([]int, maxAttempts),
	}

	won := map[string]bool{}
	var wonDates []string
	for date, rec := range m {
		if len(rec.Attempts) == 0 {
			continue
		}
		s.Played++
		if rec.Status.Terminal() {
			s.Medals[MedalFor(rec)]++
		}
		if rec.Status != progress.Won {
			continue
		}
		s.Wins++
		won[date] = true
		wonDates = append(wonDates, date)
		if n := len(rec.Attempts); n >= 1 && n <= maxAttempts {
			s.Distribution[n-1]++
		}
	}
	if s.Played > 0 {
		s.WinRate = int(math.Round(100 * float64(s.Wins) / float64(s.Played)))
	}

	s.MaxStreak = maxStreak(wonDates)
	s.CurrentStreak = currentStreak(won, m, today)
	return s
}

func maxStreak(dates []string) int {
	sort.Strings(dates)
	best, run := 0, 0
	prev := ""
	for _, d := range dates {
		if prev != "" {
			if gap, err := puzzle.DaysBetween(prev, d); err == nil && gap == 1 {
				run++
			} else {
				run = 1
			}
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
		prev = d
	}
	return best
}

// currentStreak counts consecutive won days ending today, or ending
// yesterday while today is still unfinished.
func currentStreak(won map[string]bool, m progress.Map, today string) int {
	day := today
	if !won[today] {
		if rec, ok := m[today]; ok && rec.Status == progress.Lost {
			return 0
		}
		prev, err := puzzle.AddDays(today, -1)
		if err != nil {
			return 0
		}
		day = prev
	}

	n := 0
	for won[day] {
		n++
		prev, err := puzzle.AddDays(day, -1)
		if err != nil {
			break
		}
		day = prev
	}
	return n
}
