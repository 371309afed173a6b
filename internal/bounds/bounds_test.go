package bounds

import (
	"errors"
	"strings"
	"testing"

	"github.com/suykerbuyk/aiscope/internal/cachelog"
	"github.com/suykerbuyk/aiscope/internal/score"
)

func window(s float64, l score.Label, c score.Confidence) score.Window {
	return score.Window{StartIndex: 0, EndIndex: 10, Score: s, Label: l, Confidence: c}
}

func records() []cachelog.Record {
	return []cachelog.Record{
		{Filename: "a.txt", Timestamp: 1, Result: score.Result{Windows: []score.Window{
			window(0.95, score.AIGenerated, score.High),
			window(0.02, score.HumanWritten, score.High),
			window(0.25, score.HumanWritten, score.Low),
		}}},
		{Filename: "b.txt", Timestamp: 2, Result: score.Result{Windows: []score.Window{
			window(0.80, score.AIGenerated, score.Medium),
			window(0.10, score.HumanWritten, score.High),
		}}},
	}
}

func TestCompute(t *testing.T) {
	rep, err := Compute(records())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if rep.Total != 5 || rep.Records != 2 {
		t.Errorf("Total = %d, Records = %d", rep.Total, rep.Records)
	}
	if len(rep.Labels) != 2 {
		t.Fatalf("labels = %d, want 2", len(rep.Labels))
	}
	// sorted by name: "AI-Generated" < "Human Written"
	ai, human := rep.Labels[0], rep.Labels[1]
	if ai.Label != score.AIGenerated || human.Label != score.HumanWritten {
		t.Fatalf("label order = %q, %q", ai.Label, human.Label)
	}
	if ai.Overall != (Range{Min: 0.80, Max: 0.95, N: 2}) {
		t.Errorf("AI overall = %+v", ai.Overall)
	}
	if human.ByConfidence[2] != (Range{Min: 0.02, Max: 0.10, N: 2}) {
		t.Errorf("human High = %+v", human.ByConfidence[2])
	}
	if human.ByConfidence[1].N != 0 {
		t.Errorf("human Medium should be empty: %+v", human.ByConfidence[1])
	}
	if human.Samples[0].Score != 0.02 || human.Samples[2].Score != 0.25 {
		t.Errorf("samples not sorted: %+v", human.Samples)
	}
}

func TestComputeRejectsUnknownValues(t *testing.T) {
	recs := records()
	recs[1].Result.Windows[0].Label = "Partially Synthetic"
	_, err := Compute(recs)
	var ule *score.UnknownLabelError
	if !errors.As(err, &ule) {
		t.Errorf("expected UnknownLabelError, got %v", err)
	}

	recs = records()
	recs[0].Result.Windows[1].Confidence = "Certain"
	_, err = Compute(recs)
	var uce *score.UnknownConfidenceError
	if !errors.As(err, &uce) {
		t.Errorf("expected UnknownConfidenceError, got %v", err)
	}
}

func TestFormat(t *testing.T) {
	rep, err := Compute(records())
	if err != nil {
		t.Fatal(err)
	}
	out := Format(rep, false)
	for _, want := range []string{
		"aiscope bounds (2 records)",
		"Human Written:\n  Low   : 0.2500 - 0.2500 (n=1)\n  Medium: (none observed)\n  High  : 0.0200 - 0.1000 (n=2)\n",
		"AI-Generated              0.8000 - 0.9500\n",
		"Total segments analyzed: 5",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "SEGMENTS ===") {
		t.Error("sample listing printed without samples flag")
	}

	out = Format(rep, true)
	if !strings.Contains(out, "=== HUMAN WRITTEN SEGMENTS ===\nScore: 0.0200  Confidence: High\n") {
		t.Errorf("sample listing missing:\n%s", out)
	}
}

func TestFormatEmpty(t *testing.T) {
	out := Format(Report{}, true)
	if !strings.Contains(out, "No cached windows") {
		t.Errorf("unexpected output: %q", out)
	}
}
