package help

import (
	"fmt"
	"strings"
	"testing"
)

var expectedTerminal = map[string]string{
	"latest": "aiscope latest \u2014 show the newest result for each document\n" +
		"\n" +
		"Usage: aiscope latest [--watch] [--log <path>]\n" +
		"\n" +
		"Flags:\n" +
		"  --watch        Redraw whenever the cache log changes\n" +
		"  --log <path>   Read this cache log instead of the configured one (.zst snapshots are read-only)\n" +
		"\n" +
		"Prints one aligned row per document using its newest check: first\n" +
		"the summary bars, then the segment bars. Names are the file stem,\n" +
		"cut to display.filename_width columns.\n" +
		"\n" +
		"Examples:\n" +
		"  aiscope latest\n" +
		"  aiscope latest --watch   Keep a live dashboard while batch runs\n",

	"history": "aiscope history \u2014 show every recorded result over time\n" +
		"\n" +
		"Usage: aiscope history [name] [--log <path>]\n" +
		"\n" +
		"Arguments:\n" +
		"  name           Only show this document (as recorded)\n" +
		"\n" +
		"Flags:\n" +
		"  --log <path>   Read this cache log instead of the configured one (.zst snapshots are read-only)\n" +
		"\n" +
		"Groups the cache log by document name and lists each document's\n" +
		"checks oldest first: all summary bars, then all segment bars, each\n" +
		"under its timestamp.\n" +
		"\n" +
		"Examples:\n" +
		"  aiscope history\n" +
		"  aiscope history essay.md\n",

	"version": "aiscope version \u2014 print version\n" +
		"\n" +
		"Usage: aiscope version\n",
}

func TestFormatTerminal(t *testing.T) {
	for name, expected := range expectedTerminal {
		t.Run(name, func(t *testing.T) {
			cmd, ok := Lookup(name)
			if !ok {
				t.Fatalf("no command %q", name)
			}
			got := FormatTerminal(cmd)
			if got != expected {
				t.Errorf("FormatTerminal(%q) mismatch.\n--- expected ---\n%s\n--- got ---\n%s\n--- diff ---\n%s",
					name, quote(expected), quote(got), diff(expected, got))
			}
		})
	}
}

func TestFormatTerminalAllCommands(t *testing.T) {
	for _, cmd := range Subcommands {
		t.Run(cmd.Name, func(t *testing.T) {
			out := FormatTerminal(cmd)
			prefix := fmt.Sprintf("aiscope %s \u2014 %s\n", cmd.Name, cmd.Synopsis)
			if !strings.HasPrefix(out, prefix) {
				t.Errorf("header mismatch: %q", out[:min(len(out), len(prefix)+20)])
			}
			if !strings.Contains(out, "Usage: "+cmd.Usage+"\n") {
				t.Errorf("missing usage line")
			}
			if cmd.Description != "" && !strings.Contains(out, cmd.Description) {
				t.Errorf("missing description")
			}
			for _, f := range cmd.Flags {
				if !strings.Contains(out, "\n  "+f.Name+" ") {
					t.Errorf("flag %q not on its own line", f.Name)
				}
			}
		})
	}
}

func TestFormatUsage(t *testing.T) {
	got := FormatUsage(TopLevel, Subcommands)

	if !strings.HasPrefix(got, fmt.Sprintf("aiscope v%s \u2014 AI-detection results in the terminal\n\nUsage:\n", Version)) {
		t.Errorf("unexpected header:\n%s", got)
	}
	for _, want := range []string{
		"  aiscope scan <file>          Classify a document and show the full report\n",
		"  aiscope latest [--watch]     Show the newest result per document\n",
		"  aiscope help [command]       Show help\n",
		"Configuration: ~/.config/aiscope/config.toml\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("usage missing %q:\n%s", want, got)
		}
	}

	// every brief starts in the same column
	var cols []int
	for _, line := range strings.Split(got, "\n") {
		if !strings.HasPrefix(line, "  aiscope ") {
			continue
		}
		for _, s := range Subcommands {
			if i := strings.Index(line, s.Brief); i > 0 && strings.HasSuffix(line, s.Brief) {
				cols = append(cols, i)
			}
		}
	}
	if len(cols) != len(Subcommands) {
		t.Fatalf("found %d table rows, want %d", len(cols), len(Subcommands))
	}
	for _, c := range cols[1:] {
		if c != cols[0] {
			t.Errorf("brief columns not aligned: %v", cols)
			break
		}
	}
}

func TestRegistryCompleteness(t *testing.T) {
	expectedNames := []string{
		"scan", "batch", "history", "latest", "bounds",
		"export", "archive", "check", "init", "version",
	}
	if len(Subcommands) != len(expectedNames) {
		t.Fatalf("expected %d subcommands, got %d", len(expectedNames), len(Subcommands))
	}
	for i, name := range expectedNames {
		if Subcommands[i].Name != name {
			t.Errorf("Subcommands[%d].Name = %q, want %q", i, Subcommands[i].Name, name)
		}
		if Subcommands[i].Synopsis == "" {
			t.Errorf("Subcommands[%d] (%s) has empty Synopsis", i, name)
		}
		if Subcommands[i].Usage == "" {
			t.Errorf("Subcommands[%d] (%s) has empty Usage", i, name)
		}
		if Subcommands[i].Brief == "" {
			t.Errorf("Subcommands[%d] (%s) has empty Brief", i, name)
		}
	}
}

func TestLookup(t *testing.T) {
	if c, ok := Lookup("bounds"); !ok || c.Name != "bounds" {
		t.Errorf("Lookup(bounds) = %v, %v", c.Name, ok)
	}
	if _, ok := Lookup("hook"); ok {
		t.Error("Lookup(hook) should fail")
	}
}

func TestManName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", "aiscope"},
		{"scan", "aiscope-scan"},
		{"archive list", "aiscope-archive-list"},
	}
	for _, tt := range tests {
		c := Command{Name: tt.name}
		if got := c.ManName(); got != tt.want {
			t.Errorf("Command{Name: %q}.ManName() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestEscapeRoff(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`simple text`, `simple text`},
		{`back\slash`, `back\\slash`},
		{`.leading dot`, `\&.leading dot`},
		{"line1\n.line2", "line1\n\\&.line2"},
		{`--flag`, `\-\-flag`},
		{`a-b`, `a\-b`},
		{`.local/share/aiscope`, `\&.local/share/aiscope`},
		{"'quoted", `\&'quoted`},
		{"it's fine", "it's fine"},
	}
	for _, tt := range tests {
		got := escapeRoff(tt.input)
		if got != tt.want {
			t.Errorf("escapeRoff(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatRoffStructure(t *testing.T) {
	fixedDate := "2026-02-27"

	for _, cmd := range Subcommands {
		t.Run(cmd.Name, func(t *testing.T) {
			out := FormatRoff(cmd, fixedDate)

			for _, section := range []string{".TH", ".SH NAME", ".SH SYNOPSIS"} {
				if !strings.Contains(out, section) {
					t.Errorf("FormatRoff(%q) missing required section %q", cmd.Name, section)
				}
			}
			if !strings.Contains(out, ".TH "+strings.ToUpper(cmd.ManName())) {
				t.Errorf("FormatRoff(%q) .TH should contain %q", cmd.Name, strings.ToUpper(cmd.ManName()))
			}
			if cmd.Description != "" && !strings.Contains(out, ".SH DESCRIPTION") {
				t.Errorf("FormatRoff(%q) has Description but missing .SH DESCRIPTION", cmd.Name)
			}
			if (len(cmd.Args) > 0 || len(cmd.Flags) > 0) && !strings.Contains(out, ".SH OPTIONS") {
				t.Errorf("FormatRoff(%q) has Args/Flags but missing .SH OPTIONS", cmd.Name)
			}
			if len(cmd.Examples) > 0 && !strings.Contains(out, ".SH EXAMPLES") {
				t.Errorf("FormatRoff(%q) has Examples but missing .SH EXAMPLES", cmd.Name)
			}
			if len(cmd.SeeAlso) > 0 && !strings.Contains(out, ".SH SEE ALSO") {
				t.Errorf("FormatRoff(%q) has SeeAlso but missing .SH SEE ALSO", cmd.Name)
			}
			if strings.Count(out, ".nf\n") != strings.Count(out, ".fi\n") {
				t.Errorf("FormatRoff(%q) has unbalanced .nf/.fi", cmd.Name)
			}
		})
	}
}

func TestFormatRoffTopLevelStructure(t *testing.T) {
	out := FormatRoffTopLevel(TopLevel, Subcommands, "2026-02-27")

	for _, section := range []string{
		".TH AISCOPE 1",
		".SH NAME",
		".SH SYNOPSIS",
		".SH DESCRIPTION",
		".SH COMMANDS",
		".SH CONFIGURATION",
		".SH ENVIRONMENT",
		".SH SEE ALSO",
	} {
		if !strings.Contains(out, section) {
			t.Errorf("FormatRoffTopLevel missing section %q", section)
		}
	}

	for _, cmd := range Subcommands {
		escaped := escapeRoff(cmd.Brief)
		if !strings.Contains(out, escaped) {
			t.Errorf("FormatRoffTopLevel missing subcommand brief %q (escaped: %q)", cmd.Brief, escaped)
		}
	}
}

func TestFormatRoffTopLevelFilesAndEnvironment(t *testing.T) {
	out := FormatRoffTopLevel(TopLevel, Subcommands, "2026-02-27")

	for _, want := range []string{
		".TP\n.B ~/.local/share/aiscope/cache.tsv\nAppend\\-only cache log",
		".TP\n.B PANGRAM_API_KEY\nClassifier API key",
		".TP\n.B AISCOPE_CACHE_FILE\n",
		`.TP` + "\n" + `.B "aiscope latest [\-\-watch]"` + "\n",
		".BR aiscope\\-scan (1)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatRoffTopLevel missing %q:\n%s", want, out)
		}
	}
}

func TestFormatUsageEnvironment(t *testing.T) {
	got := FormatUsage(TopLevel, Subcommands)
	for _, want := range []string{
		"  PANGRAM_API_KEY      Classifier API key (see classifier.api_key_env)\n",
		"  AISCOPE_CACHE_FILE   Cache log path (CACHE_FILE is also honored)\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("usage missing %q:\n%s", want, got)
		}
	}
}

func TestFormatManRef(t *testing.T) {
	tests := []struct{ in, want string }{
		{"aiscope-scan(1)", `.BR aiscope\-scan (1)`},
		{"pandoc(1)", ".BR pandoc (1)"},
		{"aiscope", ".B aiscope"},
	}
	for _, tt := range tests {
		if got := formatManRef(tt.in); got != tt.want {
			t.Errorf("formatManRef(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteRoffParagraphsLiteralBlock(t *testing.T) {
	var b strings.Builder
	writeRoffParagraphs(&b, "Tables:\n\n  records(id)\n  windows(idx)\n\nDone.")
	want := "Tables:\n.PP\n.nf\n  records(id)\n  windows(idx)\n.fi\n.PP\nDone.\n"
	if got := b.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// quote shows a string with escape sequences visible.
func quote(s string) string {
	return fmt.Sprintf("%q", s)
}

// diff shows a line-by-line comparison of the differing lines.
func diff(expected, got string) string {
	el := strings.Split(expected, "\n")
	gl := strings.Split(got, "\n")
	n := max(len(el), len(gl))
	var b strings.Builder
	for i := 0; i < n; i++ {
		var e, g string
		if i < len(el) {
			e = el[i]
		}
		if i < len(gl) {
			g = gl[i]
		}
		if e != g {
			fmt.Fprintf(&b, "! line %d:\n  exp: %q\n  got: %q\n", i+1, e, g)
		}
	}
	return b.String()
}
