package tone

import "strings"

// GridRows builds one row per tone, one tile per attempt, in fixed tone
// order. An empty history yields five empty rows.
func (r Rules) GridRows(attempts []Vector, target Vector) [][]Tile {
	tones := All()
	rows := make([][]Tile, len(tones))
	for i, t := range tones {
		row := make([]Tile, 0, len(attempts))
		for _, guess := range attempts {
			row = append(row, r.Tile(Difference(guess, target, t)))
		}
		rows[i] = row
	}
	return rows
}

// ShareGrid renders the shareable result grid with default thresholds.
// Each line is the tone marker, a space, then one glyph per attempt.
func ShareGrid(attempts []Vector, target Vector) string {
	return DefaultRules().ShareGrid(attempts, target)
}

// ShareGrid renders the grid using the rules' thresholds.
func (r Rules) ShareGrid(attempts []Vector, target Vector) string {
	tones := All()
	lines := make([]string, len(tones))
	for i, row := range r.GridRows(attempts, target) {
		var b strings.Builder
		b.WriteString(tones[i].Marker())
		b.WriteString(" ")
		for _, tile := range row {
			b.WriteString(tile.Glyph())
		}
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}
