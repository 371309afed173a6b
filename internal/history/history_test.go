package history

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/suykerbuyk/aiscope/internal/cachelog"
	"github.com/suykerbuyk/aiscope/internal/render"
	"github.com/suykerbuyk/aiscope/internal/score"
)

func result(s float64) score.Result {
	return score.Result{
		Text:          "Some text here.",
		FractionAI:    s,
		FractionHuman: 1 - s,
		Windows: []score.Window{
			{StartIndex: 0, EndIndex: 15, Score: s, Label: score.AIGenerated, Confidence: score.High},
		},
	}
}

func rec(name string, ts int64, s float64) cachelog.Record {
	return cachelog.Record{ContentHash: cachelog.HashText(name), Filename: name, Timestamp: ts, Result: result(s)}
}

func plain() render.Style {
	st := render.DefaultStyle()
	st.NoColor = true
	return st
}

func TestCollectOrdering(t *testing.T) {
	recs := []cachelog.Record{
		rec("b.txt", 30, 0.1),
		rec("a.txt", 20, 0.2),
		rec("b.txt", 10, 0.3),
		rec("a.txt", 20, 0.4),
	}
	series := Collect(recs)
	if len(series) != 2 {
		t.Fatalf("got %d series, want 2", len(series))
	}
	if series[0].Filename != "b.txt" || series[1].Filename != "a.txt" {
		t.Errorf("series order = %s, %s", series[0].Filename, series[1].Filename)
	}
	if series[0].Records[0].Timestamp != 10 || series[0].Records[1].Timestamp != 30 {
		t.Errorf("b.txt not sorted by time: %+v", series[0].Records)
	}
	// equal timestamps keep log order
	if series[1].Records[0].Result.FractionAI != 0.2 {
		t.Errorf("a.txt tie order changed")
	}
}

func TestLatestTieKeepsFirst(t *testing.T) {
	s := Collect([]cachelog.Record{
		rec("a.txt", 5, 0.1),
		rec("a.txt", 9, 0.2),
		rec("a.txt", 9, 0.3),
		rec("a.txt", 1, 0.4),
	})[0]
	if got := s.Latest().Result.FractionAI; got != 0.2 {
		t.Errorf("Latest picked fraction %v, want 0.2", got)
	}
}

func TestFilter(t *testing.T) {
	series := Collect([]cachelog.Record{rec("a.txt", 1, 0), rec("b.txt", 1, 0)})
	if got := Filter(series, ""); len(got) != 2 {
		t.Errorf("empty filter returned %d series", len(got))
	}
	if got := Filter(series, "b.txt"); len(got) != 1 || got[0].Filename != "b.txt" {
		t.Errorf("Filter(b.txt) = %+v", got)
	}
	if got := Filter(series, "c.txt"); got != nil {
		t.Errorf("Filter(c.txt) = %+v", got)
	}
}

func TestStem(t *testing.T) {
	tests := map[string]string{
		"essay.html":     "essay",
		"dir/notes.md":   "notes",
		"archive.tar.gz": "archive.tar",
		"README":         "README",
		".profile":       ".profile",
	}
	for in, want := range tests {
		if got := Stem(in); got != want {
			t.Errorf("Stem(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestColumn(t *testing.T) {
	tests := []struct {
		name  string
		width int
		want  string
	}{
		{"short", 8, "short   "},
		{"exactly8", 8, "exactly8"},
		{"much-too-long-name", 8, "much-to…"},
	}
	for _, tt := range tests {
		if got := Column(tt.name, tt.width); got != tt.want {
			t.Errorf("Column(%q, %d) = %q, want %q", tt.name, tt.width, got, tt.want)
		}
	}
}

func TestRenderTwoPasses(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	older := now.Add(-72 * time.Hour).Unix()
	newer := now.Add(-2 * time.Hour).Unix()

	out, err := Render(Collect([]cachelog.Record{
		rec("a.txt", newer, 0.9),
		rec("a.txt", older, 0.3),
	}), plain(), now)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !strings.Contains(out, "=== a.txt (2 checks) ===") {
		t.Errorf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "2026-03-07 12:00:00  (3 days ago)") {
		t.Errorf("missing relative timestamp:\n%s", out)
	}

	// fraction bars for both records come before either segment bar
	firstSegment := strings.Index(out, "↑90%")
	lastSummary := strings.LastIndex(out, "% Robot")
	if firstSegment < 0 || lastSummary < 0 || lastSummary > firstSegment {
		t.Errorf("summary pass does not precede segment pass:\n%s", out)
	}
	// oldest first within a pass
	if strings.Index(out, "30% Robot") > strings.Index(out, "90% Robot") {
		t.Errorf("records not in time order:\n%s", out)
	}
	if strings.Count(out, "2026-03-07 12:00:00") != 2 {
		t.Errorf("each record should be stamped once per pass:\n%s", out)
	}
}

func TestRenderEmpty(t *testing.T) {
	out, err := Render(nil, plain(), time.Now())
	if err != nil || out != "No cached results.\n" {
		t.Errorf("Render(nil) = %q, %v", out, err)
	}
}

func TestRenderRejectsUnknownLabel(t *testing.T) {
	r := rec("a.txt", 1, 0.5)
	r.Result.Windows[0].Label = "Partially Synthetic"
	_, err := Render(Collect([]cachelog.Record{r}), plain(), time.Now())
	var ule *score.UnknownLabelError
	if !errors.As(err, &ule) {
		t.Errorf("expected UnknownLabelError, got %v", err)
	}
}

func TestRenderLatest(t *testing.T) {
	out, err := RenderLatest(Collect([]cachelog.Record{
		rec("first-document.html", 1, 0.1),
		rec("second.txt", 1, 0.5),
		rec("first-document.html", 2, 0.7),
	}), plain(), 10)
	if err != nil {
		t.Fatalf("RenderLatest: %v", err)
	}
	lines := strings.Split(out, "\n")
	// 2 summary rows, blank, 2 segment rows, reset line (empty), trailing ""
	if len(lines) != 7 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "first-doc… ") || !strings.Contains(lines[0], "70% Robot") {
		t.Errorf("row 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "second     ") {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != "" {
		t.Errorf("expected blank separator, got %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], "first-doc… ") || !strings.Contains(lines[3], "↑70%") {
		t.Errorf("segment row 0 = %q", lines[3])
	}
}
