package authoring

import (
	"fmt"
	"strings"
)

const systemPrompt = `You write daily puzzles for a game about reading the emotional tone of text messages.

Rules:
- Write one short message (one to three sentences) that a real person might send.
- The message must be ambiguous: a careless reader should misjudge at least one tone.
- Do not name the emotion in the message and do not use real names.
- Score the sender's actual tone on five 0-100 scales: anger, affection, anxiety, joy, control.
- 50 means neutral. At least two scales must be clearly away from neutral.
- Difficulty 1 reads plainly, 3 hides the tone behind sarcasm or politeness.
- Do not repeat or paraphrase any message from the "recent" list.`

func buildUserMessage(in Input, rejected []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Date: %s\n", in.Date)
	if in.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", in.Category)
	} else {
		b.WriteString("Category: your choice\n")
	}
	if in.Difficulty > 0 {
		fmt.Fprintf(&b, "Difficulty: %d\n", in.Difficulty)
	}

	b.WriteString("\nRecent messages:\n")
	b.WriteString(numbered(in.Recent, maxRecent))

	if len(rejected) > 0 {
		b.WriteString("\n\nYour previous drafts were rejected:\n")
		b.WriteString(numbered(rejected, 0))
	}
	return b.String()
}

// numbered lists the last max items, or "None".
func numbered(items []string, max int) string {
	if len(items) == 0 {
		return "None"
	}
	if max > 0 && len(items) > max {
		items = items[len(items)-max:]
	}
	var b strings.Builder
	for i, s := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	return strings.TrimRight(b.String(), "\n")
}
