package help

import (
	"fmt"
	"strings"
)

// FormatTerminal renders a subcommand's help text for terminal --help output.
func FormatTerminal(c Command) string {
	var sections []string

	sections = append(sections, fmt.Sprintf("aiscope %s \u2014 %s", c.Name, c.Synopsis))
	sections = append(sections, fmt.Sprintf("Usage: %s", c.Usage))

	// Args and flags share one description column.
	maxNameLen := 0
	for _, a := range c.Args {
		maxNameLen = max(maxNameLen, len(a.Name))
	}
	for _, f := range c.Flags {
		maxNameLen = max(maxNameLen, len(f.Name))
	}
	col := 2 + maxNameLen + 3

	if len(c.Args) > 0 {
		sections = append(sections, table("Arguments:", col, func(add func(name, desc string)) {
			for _, a := range c.Args {
				add(a.Name, a.Desc)
			}
		}))
	}

	if len(c.Flags) > 0 {
		sections = append(sections, table("Flags:", col, func(add func(name, desc string)) {
			for _, f := range c.Flags {
				add(f.Name, f.Desc)
			}
		}))
	}

	if c.Description != "" {
		sections = append(sections, c.Description)
	}

	if len(c.Examples) > 0 {
		s := "Examples:\n"
		for _, e := range c.Examples {
			s += "  " + e + "\n"
		}
		sections = append(sections, strings.TrimRight(s, "\n"))
	}

	return strings.Join(sections, "\n\n") + "\n"
}

func table(title string, col int, rows func(add func(name, desc string))) string {
	var b strings.Builder
	b.WriteString(title)
	rows(func(name, desc string) {
		gap := col - 2 - len(name)
		fmt.Fprintf(&b, "\n  %s%s%s", name, strings.Repeat(" ", gap), desc)
	})
	return b.String()
}

// FormatUsage renders the top-level usage text (for aiscope --help / aiscope help).
func FormatUsage(top Command, subs []Command) string {
	var b strings.Builder

	fmt.Fprintf(&b, "aiscope v%s \u2014 %s\n", Version, top.Synopsis)
	b.WriteString("\nUsage:\n")

	type entry struct {
		usage string
		brief string
	}
	entries := make([]entry, 0, len(subs)+1)
	for _, s := range subs {
		entries = append(entries, entry{s.tableUsage(), s.Brief})
	}
	entries = append(entries, entry{"aiscope help [command]", "Show help"})

	maxWidth := 0
	for _, e := range entries {
		maxWidth = max(maxWidth, len(e.usage))
	}

	for _, e := range entries {
		gap := maxWidth - len(e.usage) + 3
		fmt.Fprintf(&b, "  %s%s%s\n", e.usage, strings.Repeat(" ", gap), e.brief)
	}

	b.WriteString("\nEnvironment:\n")
	envWidth := 0
	for _, e := range Environment {
		envWidth = max(envWidth, len(e.Name))
	}
	for _, e := range Environment {
		fmt.Fprintf(&b, "  %-*s%s\n", envWidth+3, e.Name, e.Desc)
	}
	b.WriteString("\nConfiguration: ~/.config/aiscope/config.toml\n")
	return b.String()
}
