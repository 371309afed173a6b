package render

import (
	"strings"

	"github.com/suykerbuyk/aiscope/internal/color"
	"github.com/suykerbuyk/aiscope/internal/score"
)

// ColorizedText reproduces the result's text with each window's span on a
// background colored by its score and prefixed by a bold " [↑87%]" tag.
//
// Window offsets are rune indices. Overlapping spans are emitted once, by the
// earlier window; text outside every window is emitted uncolored. Removing the
// escapes and tags therefore yields the original text exactly.
func ColorizedText(r score.Result, st Style) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	text := []rune(r.Text)

	var b strings.Builder
	cursor := 0
	for _, w := range r.Windows {
		start := clampIndex(w.StartIndex, len(text))
		end := clampIndex(w.EndIndex, len(text))
		if start > cursor {
			b.WriteString(string(text[cursor:start]))
			cursor = start
		}
		if end <= cursor {
			continue
		}
		bg := st.ScoreColor(w.Score)
		b.WriteString(st.bg(bg) + st.fg(color.TextColorFor(bg)))
		b.WriteString(st.esc(color.Bold) + Tag(w) + st.esc(color.Unbold))
		b.WriteString(string(text[cursor:end]))
		b.WriteString(st.Reset())
		cursor = end
	}
	if cursor < len(text) {
		b.WriteString(string(text[cursor:]))
	}
	return b.String(), nil
}

// Tag is the inline prefix ColorizedText places before a window's span.
func Tag(w score.Window) string {
	return " [" + ScoreTag(w.Score, w.Confidence) + "]"
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}
