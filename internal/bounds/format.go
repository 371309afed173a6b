package bounds

import (
	"fmt"
	"strings"

	"github.com/suykerbuyk/aiscope/internal/score"
)

// Format renders a Report as aligned terminal output. With samples set,
// every window score is listed per label before the boundary tables.
func Format(r Report, samples bool) string {
	if r.Total == 0 {
		return "aiscope bounds\n\n  No cached windows. Run `aiscope scan` first.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "aiscope bounds (%d records)\n", r.Records)

	if samples {
		for _, lb := range r.Labels {
			fmt.Fprintf(&b, "\n=== %s SEGMENTS ===\n", strings.ToUpper(string(lb.Label)))
			for _, s := range lb.Samples {
				fmt.Fprintf(&b, "Score: %.4f  Confidence: %s\n", s.Score, s.Confidence)
			}
		}
	}

	b.WriteString("\n=== CONFIDENCE BOUNDARY ANALYSIS BY CLASSIFICATION ===\n")
	for _, lb := range r.Labels {
		fmt.Fprintf(&b, "\n%s:\n", lb.Label)
		for i, c := range score.Confidences {
			rg := lb.ByConfidence[i]
			if rg.N == 0 {
				fmt.Fprintf(&b, "  %-6s: (none observed)\n", c)
				continue
			}
			fmt.Fprintf(&b, "  %-6s: %.4f - %.4f (n=%d)\n", c, rg.Min, rg.Max, rg.N)
		}
	}

	b.WriteString("\n=== CLASSIFICATION BOUNDARIES ===\n\n")
	for _, lb := range r.Labels {
		fmt.Fprintf(&b, "%-25s %.4f - %.4f\n", lb.Label, lb.Overall.Min, lb.Overall.Max)
	}

	fmt.Fprintf(&b, "\nTotal segments analyzed: %d\n", r.Total)
	return b.String()
}
