package render

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/suykerbuyk/aiscope/internal/color"
	"github.com/suykerbuyk/aiscope/internal/segment"
)

// Swatch is a solid background with its text color.
type Swatch struct {
	Bg, Fg color.RGB
}

// Style carries every display parameter the renderers need.
type Style struct {
	Segments     int     // display segments in the segment bar
	SummaryCells int     // cells in the fraction bar
	CellWidth    int     // terminal columns per fraction-bar cell
	Tolerance    float64 // segment merge tolerance

	Low, High colorful.Color // score 0 and score 1 endpoints
	Blend     color.Blend

	AI, Assist, Human Swatch

	// NoColor suppresses every escape sequence; widths are unchanged.
	NoColor bool
}

// DefaultStyle returns the stock palette and dimensions.
func DefaultStyle() Style {
	return Style{
		Segments:     segment.DefaultCount,
		SummaryCells: 40,
		CellWidth:    2,
		Tolerance:    segment.DefaultTolerance,
		Low:          colorful.Color{R: 0, G: 0, B: 0},
		High:         colorful.Color{R: 0.22, G: 1, B: 0.08},
		Blend:        color.BlendLab,
		AI:           Swatch{Bg: color.RGB{R: 220, G: 20, B: 20}, Fg: color.Black},
		Assist:       Swatch{Bg: color.RGB{R: 255, G: 220, B: 0}, Fg: color.Black},
		Human:        Swatch{Bg: color.RGB{R: 0, G: 150}, Fg: color.White},
	}
}

// ScoreColor returns the background color for a score.
func (s Style) ScoreColor(score float64) color.RGB {
	return color.Interpolate(score, s.Low, s.High, s.Blend)
}

func (s Style) bg(c color.RGB) string {
	if s.NoColor {
		return ""
	}
	return color.Bg(c)
}

func (s Style) fg(c color.RGB) string {
	if s.NoColor {
		return ""
	}
	return color.Fg(c)
}

func (s Style) esc(code string) string {
	if s.NoColor {
		return ""
	}
	return code
}

// Reset returns the terminal reset sequence, or "" when color is off.
func (s Style) Reset() string {
	return s.esc(color.Reset)
}
