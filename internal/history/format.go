package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/suykerbuyk/aiscope/internal/render"
)

const timeLayout = "2006-01-02 15:04:05"

// Render formats the history view. For each series it prints every record's
// timestamp line and fraction bar, then, in a second pass, every record's
// timestamp line and segment bar. Timestamps are shown in now's location
// with a relative age.
func Render(series []Series, st render.Style, now time.Time) (string, error) {
	if len(series) == 0 {
		return "No cached results.\n", nil
	}

	var b strings.Builder
	for i, s := range series {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "=== %s (%d %s) ===\n\n", s.Filename, len(s.Records), plural(len(s.Records), "check", "checks"))

		for _, r := range s.Records {
			bar, err := render.FractionBar(r.Result, st)
			if err != nil {
				return "", fmt.Errorf("%s at %d: %w", s.Filename, r.Timestamp, err)
			}
			b.WriteString(stamp(r.Timestamp, now) + "\n")
			b.WriteString(bar + "\n")
		}
		b.WriteString("\n")
		for _, r := range s.Records {
			bar, err := render.SegmentBar(r.Result, st)
			if err != nil {
				return "", fmt.Errorf("%s at %d: %w", s.Filename, r.Timestamp, err)
			}
			b.WriteString(stamp(r.Timestamp, now) + "\n")
			b.WriteString(bar + "\n")
		}
	}
	b.WriteString(st.Reset() + "\n")
	return b.String(), nil
}

// RenderLatest formats one row per filename using only its newest record:
// all fraction bars, a blank line, then all segment bars. Names are the
// file stem padded or truncated to width columns.
func RenderLatest(series []Series, st render.Style, width int) (string, error) {
	if len(series) == 0 {
		return "No cached results.\n", nil
	}

	names := make([]string, len(series))
	summaries := make([]string, len(series))
	bars := make([]string, len(series))
	for i, s := range series {
		r := s.Latest()
		var err error
		if summaries[i], err = render.FractionBar(r.Result, st); err != nil {
			return "", fmt.Errorf("%s: %w", s.Filename, err)
		}
		if bars[i], err = render.SegmentBar(r.Result, st); err != nil {
			return "", fmt.Errorf("%s: %w", s.Filename, err)
		}
		names[i] = Column(Stem(s.Filename), width)
	}

	var b strings.Builder
	for i := range series {
		b.WriteString(names[i] + " " + summaries[i] + "\n")
	}
	b.WriteString("\n")
	for i := range series {
		b.WriteString(names[i] + " " + bars[i] + "\n")
	}
	b.WriteString(st.Reset() + "\n")
	return b.String(), nil
}

// Column fits name into exactly width terminal columns, cutting it with a
// trailing ellipsis when too wide.
func Column(name string, width int) string {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = false
	return cond.FillRight(cond.Truncate(name, width, "…"), width)
}

func stamp(ts int64, now time.Time) string {
	t := time.Unix(ts, 0).In(now.Location())
	return fmt.Sprintf("%s  (%s)", t.Format(timeLayout), humanize.RelTime(t, now, "ago", "from now"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
