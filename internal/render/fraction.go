package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/suykerbuyk/aiscope/internal/score"
)

// Cells is the fraction bar's cell allocation per category.
type Cells struct {
	AI, Assisted, Human int
}

// Sum returns the total number of cells allocated.
func (c Cells) Sum() int {
	return c.AI + c.Assisted + c.Human
}

// FractionCells rounds each fraction onto total cells and reconciles the sum
// to exactly total. The category with the largest raw fraction absorbs the
// residual; ties go to the earlier of AI, assisted, human. When a negative
// residual would push that category below zero the remainder is taken from
// the next largest.
func FractionCells(ai, assisted, human float64, total int) Cells {
	counts := [3]int{
		roundCells(ai, total),
		roundCells(assisted, total),
		roundCells(human, total),
	}
	raw := [3]float64{ai, assisted, human}

	// stable descending order by raw fraction
	order := [3]int{0, 1, 2}
	for i := 1; i < 3; i++ {
		for j := i; j > 0 && raw[order[j]] > raw[order[j-1]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	residual := total - (counts[0] + counts[1] + counts[2])
	if residual > 0 {
		counts[order[0]] += residual
	}
	for _, k := range order {
		if residual >= 0 {
			break
		}
		take := min(counts[k], -residual)
		counts[k] -= take
		residual += take
	}
	return Cells{AI: counts[0], Assisted: counts[1], Human: counts[2]}
}

// roundCells rounds half to even, matching the cell counts of existing
// rendered history.
func roundCells(fraction float64, total int) int {
	n := int(math.RoundToEven(fraction * float64(total)))
	return max(n, 0)
}

// FractionBar renders the aggregate AI / assisted / human summary bar.
// Zero-width categories are omitted.
func FractionBar(r score.Result, st Style) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	cells := FractionCells(r.FractionAI, r.FractionAIAssisted, r.FractionHuman, st.SummaryCells)

	var b strings.Builder
	parts := []struct {
		cells    int
		fraction float64
		name     string
		sw       Swatch
	}{
		{cells.AI, r.FractionAI, "Robot", st.AI},
		{cells.Assisted, r.FractionAIAssisted, "Assist", st.Assist},
		{cells.Human, r.FractionHuman, "Human", st.Human},
	}
	for _, p := range parts {
		if p.cells <= 0 {
			continue
		}
		text := fmt.Sprintf("%d%% %s", score.Percent(p.fraction), p.name)
		b.WriteString(block(st, p.sw, p.cells*st.CellWidth, text))
	}
	return b.String(), nil
}

// block renders text centered in a solid swatch of width columns, or a bare
// swatch when the text does not fit.
func block(st Style, sw Swatch, width int, text string) string {
	tw := runewidth.StringWidth(text)
	if tw > width {
		return st.bg(sw.Bg) + strings.Repeat(" ", width) + st.Reset()
	}
	pad := (width - tw) / 2
	return st.bg(sw.Bg) + st.fg(sw.Fg) +
		strings.Repeat(" ", pad) + text + strings.Repeat(" ", width-pad-tw) +
		st.Reset()
}
