package bounds

import (
	"fmt"
	"sort"

	"github.com/suykerbuyk/aiscope/internal/cachelog"
	"github.com/suykerbuyk/aiscope/internal/score"
)

// Sample is one scored window.
type Sample struct {
	Score      float64
	Confidence score.Confidence
}

// Range summarizes a set of scores. N is zero when nothing was observed.
type Range struct {
	Min, Max float64
	N        int
}

func (r *Range) add(s float64) {
	if r.N == 0 || s < r.Min {
		r.Min = s
	}
	if r.N == 0 || s > r.Max {
		r.Max = s
	}
	r.N++
}

// LabelBounds holds every observation for one label.
type LabelBounds struct {
	Label        score.Label
	Samples      []Sample // ascending by score
	ByConfidence []Range  // parallel to score.Confidences
	Overall      Range
}

// Report is the score-boundary analysis of a cache log.
type Report struct {
	Labels  []LabelBounds // sorted by label name
	Total   int
	Records int
}

// Compute analyzes every window of every record. A label or confidence
// outside the known sets is an error.
func Compute(recs []cachelog.Record) (Report, error) {
	byLabel := make(map[score.Label]*LabelBounds)
	var rep Report
	rep.Records = len(recs)

	for _, rec := range recs {
		for i, w := range rec.Result.Windows {
			label, err := score.ParseLabel(string(w.Label))
			if err != nil {
				return Report{}, fmt.Errorf("%s at %d, window %d: %w", rec.Filename, rec.Timestamp, i, err)
			}
			conf, err := score.ParseConfidence(string(w.Confidence))
			if err != nil {
				return Report{}, fmt.Errorf("%s at %d, window %d: %w", rec.Filename, rec.Timestamp, i, err)
			}
			lb, ok := byLabel[label]
			if !ok {
				lb = &LabelBounds{Label: label, ByConfidence: make([]Range, len(score.Confidences))}
				byLabel[label] = lb
			}
			lb.Samples = append(lb.Samples, Sample{Score: w.Score, Confidence: conf})
			lb.Overall.add(w.Score)
			lb.ByConfidence[confidenceIndex(conf)].add(w.Score)
			rep.Total++
		}
	}

	for _, lb := range byLabel {
		sort.SliceStable(lb.Samples, func(i, j int) bool {
			return lb.Samples[i].Score < lb.Samples[j].Score
		})
		rep.Labels = append(rep.Labels, *lb)
	}
	sort.Slice(rep.Labels, func(i, j int) bool {
		return rep.Labels[i].Label < rep.Labels[j].Label
	})
	return rep, nil
}

func confidenceIndex(c score.Confidence) int {
	for i, k := range score.Confidences {
		if k == c {
			return i
		}
	}
	return -1
}
