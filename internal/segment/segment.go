package segment

import (
	"fmt"
	"math"

	"github.com/suykerbuyk/aiscope/internal/score"
)

const (
	// DefaultCount is the number of display segments a document is resampled onto.
	DefaultCount = 80
	// DefaultTolerance is the score difference below which adjacent segments merge.
	DefaultTolerance = 0.001
)

// Segment is one equal-width display cell.
type Segment struct {
	Score      float64
	Label      score.Label
	Confidence score.Confidence
}

// Group is a run of adjacent segments with near-equal scores. Start and End
// are inclusive segment indices.
type Group struct {
	Start      int
	End        int
	Score      float64
	Label      score.Label
	Confidence score.Confidence
}

// Width returns the number of segments the group spans.
func (g Group) Width() int {
	return g.End - g.Start + 1
}

// EmptyInputError reports a window sequence that cannot be resampled: no
// windows, or a total span of zero characters.
type EmptyInputError struct {
	Windows int
	Span    int
}

func (e *EmptyInputError) Error() string {
	if e.Windows == 0 {
		return "cannot resample: no windows"
	}
	return fmt.Sprintf("cannot resample: %d windows cover %d characters", e.Windows, e.Span)
}

// Resample maps windows onto n equal-width segments. Each window claims the
// segments its character span covers proportionally, and at least one.
// A segment already claimed by an earlier window keeps that window's data.
// Unclaimed segments ahead of a window are filled by that window; trailing
// unclaimed segments repeat the last claimed one.
func Resample(windows []score.Window, n int) ([]Segment, error) {
	if n <= 0 {
		return nil, fmt.Errorf("segment count must be positive, got %d", n)
	}
	if len(windows) == 0 {
		return nil, &EmptyInputError{}
	}
	total := windows[len(windows)-1].EndIndex
	if total <= 0 {
		return nil, &EmptyInputError{Windows: len(windows), Span: total}
	}

	segs := make([]Segment, 0, n)
	for _, w := range windows {
		startSeg := int(math.Floor(float64(w.StartIndex) / float64(total) * float64(n)))
		endSeg := int(math.Floor(float64(w.EndIndex) / float64(total) * float64(n)))
		if endSeg == startSeg {
			endSeg = startSeg + 1
		}
		s := Segment{Score: w.Score, Label: w.Label, Confidence: w.Confidence}
		for i := startSeg; i < min(endSeg, n); i++ {
			for len(segs) <= i {
				segs = append(segs, s)
			}
		}
	}

	if len(segs) == 0 {
		return nil, &EmptyInputError{Windows: len(windows), Span: total}
	}
	for len(segs) < n {
		segs = append(segs, segs[len(segs)-1])
	}
	return segs, nil
}

// Merge collapses adjacent segments whose scores differ from the current
// group's first score by less than tolerance. The first segment of each group
// supplies its score, label and confidence.
func Merge(segs []Segment, tolerance float64) []Group {
	if len(segs) == 0 {
		return nil
	}

	var groups []Group
	cur := groupAt(segs, 0)
	for i := 1; i < len(segs); i++ {
		if math.Abs(segs[i].Score-cur.Score) < tolerance {
			cur.End = i
			continue
		}
		groups = append(groups, cur)
		cur = groupAt(segs, i)
	}
	return append(groups, cur)
}

func groupAt(segs []Segment, i int) Group {
	return Group{
		Start:      i,
		End:        i,
		Score:      segs[i].Score,
		Label:      segs[i].Label,
		Confidence: segs[i].Confidence,
	}
}
