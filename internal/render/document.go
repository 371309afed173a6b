package render

import (
	"strings"

	"github.com/suykerbuyk/aiscope/internal/score"
)

// Document renders the full single-document view: summary bar, colorized
// text and segment bar, each under its own heading.
func Document(r score.Result, st Style) (string, error) {
	summary, err := FractionBar(r, st)
	if err != nil {
		return "", err
	}
	text, err := ColorizedText(r, st)
	if err != nil {
		return "", err
	}
	bar, err := SegmentBar(r, st)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("\n --- AI DETECTION SUMMARY ---\n\n")
	b.WriteString(summary + "\n\n")
	b.WriteString(" --- COLORIZED TEXT ---\n\n")
	b.WriteString(text + "\n\n")
	b.WriteString(" --- DETAILED SEGMENT ANALYSIS ---\n\n")
	b.WriteString(bar + "\n\n")
	b.WriteString(st.Reset() + "\n")
	return b.String(), nil
}
