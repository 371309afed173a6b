package render

import (
	"strconv"
	"strings"

	"github.com/suykerbuyk/aiscope/internal/color"
	"github.com/suykerbuyk/aiscope/internal/score"
	"github.com/suykerbuyk/aiscope/internal/segment"
)

// ConfidenceGlyph returns the direction marker for a confidence tier.
func ConfidenceGlyph(c score.Confidence) string {
	switch c {
	case score.Low:
		return "↓"
	case score.High:
		return "↑"
	default:
		return "→"
	}
}

// ScoreTag is the text shown for a scored span, e.g. "↑87%".
func ScoreTag(s float64, c score.Confidence) string {
	return ConfidenceGlyph(c) + strconv.Itoa(score.Percent(s)) + "%"
}

// Groups resamples the result's windows and merges them into display groups.
func Groups(r score.Result, st Style) ([]segment.Group, error) {
	segs, err := segment.Resample(r.Windows, st.Segments)
	if err != nil {
		return nil, err
	}
	return segment.Merge(segs, st.Tolerance), nil
}

// SegmentBar renders one colored block per segment group. Its visible width
// is always st.Segments columns.
func SegmentBar(r score.Result, st Style) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	groups, err := Groups(r, st)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, g := range groups {
		bg := st.ScoreColor(g.Score)
		sw := Swatch{Bg: bg, Fg: color.TextColorFor(bg)}
		b.WriteString(block(st, sw, g.Width(), ScoreTag(g.Score, g.Confidence)))
	}
	return b.String(), nil
}
