package help

import (
	"fmt"
	"strings"
	"time"
)

// manPage accumulates a section-1 man page.
type manPage struct {
	b strings.Builder
}

func newManPage(name, date string) *manPage {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	p := &manPage{}
	fmt.Fprintf(&p.b, ".TH %s 1 %q %q %q\n",
		strings.ToUpper(name), date, "aiscope "+Version, "aiscope Manual")
	return p
}

func (p *manPage) section(title string) {
	p.b.WriteString(".SH " + title + "\n")
}

func (p *manPage) line(s string) {
	p.b.WriteString(s + "\n")
}

// item writes a tagged paragraph with a bold tag.
func (p *manPage) item(tag, body string) {
	if strings.Contains(tag, " ") {
		tag = `"` + tag + `"`
	}
	fmt.Fprintf(&p.b, ".TP\n.B %s\n%s\n", tag, body)
}

func (p *manPage) name(name, synopsis string) {
	p.section("NAME")
	fmt.Fprintf(&p.b, "%s \\- %s\n", name, escapeRoff(synopsis))
}

func (p *manPage) seeAlso(refs []string) {
	if len(refs) == 0 {
		return
	}
	p.section("SEE ALSO")
	lines := make([]string, len(refs))
	for i, ref := range refs {
		lines[i] = formatManRef(ref)
	}
	p.line(strings.Join(lines, ",\n"))
}

func (p *manPage) String() string { return p.b.String() }

// FormatRoff renders a subcommand as a roff-formatted man page (.1).
// If date is empty, today's date is used (pass a fixed date for reproducible builds).
func FormatRoff(c Command, date string) string {
	p := newManPage(c.ManName(), date)
	p.name(c.ManName(), c.Synopsis)

	p.section("SYNOPSIS")
	p.line(".B " + escapeRoff(c.Usage))

	if c.Description != "" {
		p.section("DESCRIPTION")
		writeRoffParagraphs(&p.b, c.Description)
	}

	if len(c.Args) > 0 || len(c.Flags) > 0 {
		p.section("OPTIONS")
		for _, a := range c.Args {
			p.item(escapeRoff(a.Name), escapeRoff(a.Desc))
		}
		for _, f := range c.Flags {
			p.item(escapeRoff(f.Name), escapeRoff(f.Desc))
		}
	}

	if len(c.Examples) > 0 {
		p.section("EXAMPLES")
		p.line(".nf")
		for _, e := range c.Examples {
			p.line(escapeRoff(e))
		}
		p.line(".fi")
	}

	p.seeAlso(c.SeeAlso)
	return p.String()
}

// FormatRoffTopLevel renders aiscope.1: the command table, files and
// environment, with every subcommand page under SEE ALSO.
func FormatRoffTopLevel(top Command, subs []Command, date string) string {
	p := newManPage("aiscope", date)
	p.name("aiscope", top.Synopsis)

	p.section("SYNOPSIS")
	p.line(".B aiscope\n.I command\n.RI [ options ]")

	p.section("DESCRIPTION")
	p.line(".B aiscope")
	p.line("sends documents to an AI-text classifier, keeps every result in an")
	p.line("append-only cache log keyed by text hash, and draws the scored windows")
	p.line("as colored summary bars, segment bars and highlighted text.")

	p.section("COMMANDS")
	for _, s := range subs {
		p.item(escapeRoff(s.tableUsage()), escapeRoff(s.Brief))
	}

	p.section("CONFIGURATION")
	p.line("Settings are read from")
	p.line(".IR " + escapeRoff(Files[0].Name) + " ;")
	p.line("missing keys fall back to built-in defaults.")

	p.section("FILES")
	for _, f := range Files {
		p.item(escapeRoff(f.Name), escapeRoff(f.Desc))
	}

	p.section("ENVIRONMENT")
	for _, e := range Environment {
		p.item(e.Name, escapeRoff(e.Desc))
	}

	refs := make([]string, len(subs))
	for i, s := range subs {
		refs[i] = s.ManName() + "(1)"
	}
	p.seeAlso(refs)
	return p.String()
}

var roffReplacer = strings.NewReplacer(`\`, `\\`, "-", `\-`)

// escapeRoff protects text for use as roff input. Backslashes are doubled,
// hyphens become \- and a line starting with a control character ("." or
// "'") is prefixed with the zero-width \&.
func escapeRoff(s string) string {
	lines := strings.Split(roffReplacer.Replace(s), "\n")
	for i, l := range lines {
		if strings.HasPrefix(l, ".") || strings.HasPrefix(l, "'") {
			lines[i] = `\&` + l
		}
	}
	return strings.Join(lines, "\n")
}

// writeRoffParagraphs writes description text. Blank lines become .PP
// breaks; runs of indented lines go in a no-fill block so the column
// layout of table and flag listings survives.
func writeRoffParagraphs(b *strings.Builder, text string) {
	prevBlank := false
	inLiteral := false
	for _, line := range strings.Split(text, "\n") {
		indented := strings.HasPrefix(line, "  ")
		if inLiteral && !indented {
			b.WriteString(".fi\n")
			inLiteral = false
		}
		if strings.TrimSpace(line) == "" {
			if !prevBlank {
				b.WriteString(".PP\n")
			}
			prevBlank = true
			continue
		}
		prevBlank = false
		if indented && !inLiteral {
			b.WriteString(".nf\n")
			inLiteral = true
		}
		b.WriteString(escapeRoff(line) + "\n")
	}
	if inLiteral {
		b.WriteString(".fi\n")
	}
}

// formatManRef turns "aiscope-scan(1)" into ".BR aiscope\-scan (1)".
func formatManRef(ref string) string {
	name, section, ok := strings.Cut(ref, "(")
	if !ok {
		return ".B " + escapeRoff(ref)
	}
	return fmt.Sprintf(".BR %s (%s", escapeRoff(name), section)
}
