package help

import "strings"

// Version is the aiscope release version, set at build time via -ldflags.
// Defaults to "dev" when built without version injection (e.g. `go run`).
var Version = "dev"

// Flag describes a command-line flag.
type Flag struct {
	Name string // e.g. "--watch" or "--log <path>"
	Desc string
}

// Arg describes a positional argument.
type Arg struct {
	Name     string // e.g. "file" or "dir"
	Desc     string
	Optional bool
}

// Command describes an aiscope subcommand (or the top-level binary when Name is "").
type Command struct {
	Name        string // "scan", "latest", etc; "" for top-level
	Synopsis    string // one-line description (lowercase, for --help header)
	Brief       string // short description for usage table (capitalized)
	Usage       string // full usage line, e.g. "aiscope scan <file> [--no-cache]"
	TableUsage  string // shortened usage for the top-level table (if different from Usage)
	Args        []Arg
	Flags       []Flag
	Description string   // multi-line prose (stored verbatim)
	Examples    []string // one per line, without leading 2-space indent
	SeeAlso     []string // man page cross-refs, e.g. "aiscope(1)"
}

// tableUsage returns TableUsage if set, otherwise Usage.
func (c Command) tableUsage() string {
	if c.TableUsage != "" {
		return c.TableUsage
	}
	return c.Usage
}

// ManName returns the man page name: "aiscope" for top-level,
// "aiscope-<name>" for subcommands.
func (c Command) ManName() string {
	if c.Name == "" {
		return "aiscope"
	}
	return "aiscope-" + strings.ReplaceAll(c.Name, " ", "-")
}

var logFlag = Flag{Name: "--log <path>", Desc: "Read this cache log instead of the configured one (.zst snapshots are read-only)"}

// Environment lists the variables aiscope reads, shown in the usage text and
// the aiscope(1) man page.
var Environment = []Flag{
	{Name: "PANGRAM_API_KEY", Desc: "Classifier API key (see classifier.api_key_env)"},
	{Name: "AISCOPE_CACHE_FILE", Desc: "Cache log path (CACHE_FILE is also honored)"},
}

// Files lists the default on-disk locations for the aiscope(1) man page.
var Files = []Flag{
	{Name: "~/.config/aiscope/config.toml", Desc: "Configuration file, written by aiscope init"},
	{Name: "~/.local/share/aiscope/cache.tsv", Desc: "Append-only cache log, one classified document per line"},
	{Name: "~/.local/share/aiscope/archive/", Desc: "Compressed cache log snapshots written by aiscope archive"},
}

// TopLevel is the top-level aiscope command (used by FormatUsage).
var TopLevel = Command{
	Name:     "",
	Synopsis: "AI-detection results in the terminal",
}

var CmdScan = Command{
	Name:       "scan",
	Synopsis:   "classify one document and render the result",
	Brief:      "Classify a document and show the full report",
	Usage:      "aiscope scan <file> [--no-cache] [--name <n>] [--log <path>]",
	TableUsage: "aiscope scan <file>",
	Args: []Arg{
		{Name: "file", Desc: "Document to check (.txt .md .html .htm .pdf .docx)"},
	},
	Flags: []Flag{
		{Name: "--no-cache", Desc: "Classify even when the text was seen before"},
		{Name: "--name <n>", Desc: "Record the result under this name (default: base name)"},
		logFlag,
	},
	Description: `Extracts plain text from the document and looks up its SHA-256 hash in
the cache log. On a miss the text is sent to the classifier and the
result is appended to the log with the current time.

The report has three parts: the AI / assisted / human summary bar,
the source text with each window colored by its score, and the
segment bar.`,
	Examples: []string{
		"aiscope scan essay.md",
		"aiscope scan draft.html --name essay.md   Track a draft under its final name",
		"aiscope scan post.txt --no-cache          Force a fresh classification",
	},
	SeeAlso: []string{"aiscope(1)", "aiscope-batch(1)", "aiscope-history(1)"},
}

var CmdBatch = Command{
	Name:       "batch",
	Synopsis:   "scan every document in a directory",
	Brief:      "Scan every document in a directory, one at a time",
	Usage:      "aiscope batch <dir> [--no-cache] [--log <path>]",
	TableUsage: "aiscope batch <dir>",
	Args: []Arg{
		{Name: "dir", Desc: "Directory of documents, or a Substack export"},
	},
	Flags: []Flag{
		{Name: "--no-cache", Desc: "Classify even when the text was seen before"},
		logFlag,
	},
	Description: `Scans supported documents under dir in path order, strictly one at
a time, printing the summary bar for each. Stops at the first
failure and names the file.

A directory holding a Substack export (posts.csv) is read as one:
published posts are scanned in post date order and recorded as
<slug>.txt.`,
	Examples: []string{
		"aiscope batch ~/writing",
		"aiscope batch ~/Downloads/substack-export",
	},
	SeeAlso: []string{"aiscope(1)", "aiscope-scan(1)", "aiscope-latest(1)"},
}

var CmdHistory = Command{
	Name:       "history",
	Synopsis:   "show every recorded result over time",
	Brief:      "Show results over time for one or all documents",
	Usage:      "aiscope history [name] [--log <path>]",
	TableUsage: "aiscope history [name]",
	Args: []Arg{
		{Name: "name", Desc: "Only show this document (as recorded)", Optional: true},
	},
	Flags: []Flag{logFlag},
	Description: `Groups the cache log by document name and lists each document's
checks oldest first: all summary bars, then all segment bars, each
under its timestamp.`,
	Examples: []string{
		"aiscope history",
		"aiscope history essay.md",
	},
	SeeAlso: []string{"aiscope(1)", "aiscope-latest(1)"},
}

var CmdLatest = Command{
	Name:       "latest",
	Synopsis:   "show the newest result for each document",
	Brief:      "Show the newest result per document",
	Usage:      "aiscope latest [--watch] [--log <path>]",
	TableUsage: "aiscope latest [--watch]",
	Flags: []Flag{
		{Name: "--watch", Desc: "Redraw whenever the cache log changes"},
		logFlag,
	},
	Description: `Prints one aligned row per document using its newest check: first
the summary bars, then the segment bars. Names are the file stem,
cut to display.filename_width columns.`,
	Examples: []string{
		"aiscope latest",
		"aiscope latest --watch   Keep a live dashboard while batch runs",
	},
	SeeAlso: []string{"aiscope(1)", "aiscope-history(1)"},
}

var CmdBounds = Command{
	Name:       "bounds",
	Synopsis:   "analyze score ranges per label and confidence",
	Brief:      "Show score boundaries per label and confidence",
	Usage:      "aiscope bounds [--samples] [--log <path>]",
	TableUsage: "aiscope bounds",
	Flags: []Flag{
		{Name: "--samples", Desc: "Also list every window score per label"},
		logFlag,
	},
	Description: `Reads every window in the cache log and reports, for each label,
the score range seen at each confidence tier and overall. An
unknown label or confidence is an error.`,
	SeeAlso: []string{"aiscope(1)", "aiscope-export(1)"},
}

var CmdExport = Command{
	Name:       "export",
	Synopsis:   "export the cache log to SQLite",
	Brief:      "Export the cache log to a SQLite database",
	Usage:      "aiscope export <db.sqlite> [--log <path>]",
	TableUsage: "aiscope export <db.sqlite>",
	Args: []Arg{
		{Name: "db.sqlite", Desc: "Database file (created if missing, replaced contents)"},
	},
	Flags: []Flag{logFlag},
	Description: `Writes two tables for ad-hoc queries:

  records(id, content_hash, filename, timestamp, fraction_ai,
          fraction_ai_assisted, fraction_human, text)
  windows(record_id, idx, start_index, end_index, score, label,
          confidence)

Existing rows are replaced on every export.`,
	Examples: []string{
		"aiscope export results.db",
		"sqlite3 results.db 'SELECT filename, MAX(score) FROM records JOIN windows ON record_id = id GROUP BY filename'",
	},
	SeeAlso: []string{"aiscope(1)", "aiscope-bounds(1)"},
}

var CmdArchive = Command{
	Name:       "archive",
	Synopsis:   "snapshot the cache log",
	Brief:      "Write a compressed snapshot of the cache log",
	Usage:      "aiscope archive [--list | --restore <snapshot> <dest>] [--log <path>]",
	TableUsage: "aiscope archive [--list]",
	Flags: []Flag{
		{Name: "--list", Desc: "List existing snapshots"},
		{Name: "--restore <snapshot> <dest>", Desc: "Decompress a snapshot to a new file"},
		logFlag,
	},
	Description: `Compresses the cache log with zstd into the archive directory as
cache-<unix time>.tsv.zst. Snapshots can be read directly by
history, latest, bounds and export with --log.`,
	Examples: []string{
		"aiscope archive",
		"aiscope latest --log ~/.local/share/aiscope/archive/cache-1700000000.tsv.zst",
	},
	SeeAlso: []string{"aiscope(1)", "aiscope-check(1)"},
}

var CmdCheck = Command{
	Name:     "check",
	Synopsis: "validate config, cache log, and tools",
	Brief:    "Validate config, cache log, and tools",
	Usage:    "aiscope check",
	Description: `Runs diagnostic checks and prints a pass/warn/FAIL report:
  - Config file location
  - Display settings
  - Cache log parses (record count and size)
  - Classifier API key is set
  - pandoc is on PATH (needed for HTML input)
  - Archive directory and snapshots

Exits 1 if any check fails.`,
	SeeAlso: []string{"aiscope(1)", "aiscope-init(1)"},
}

var CmdInit = Command{
	Name:     "init",
	Synopsis: "write a default config file",
	Brief:    "Write a default config file",
	Usage:    "aiscope init",
	Description: `Writes ~/.config/aiscope/config.toml (or under $XDG_CONFIG_HOME) with
every setting at its default. An existing file is left alone.`,
	SeeAlso: []string{"aiscope(1)", "aiscope-check(1)"},
}

var CmdVersion = Command{
	Name:     "version",
	Synopsis: "print version",
	Brief:    "Print version",
	Usage:    "aiscope version",
	SeeAlso:  []string{"aiscope(1)"},
}

// Subcommands is the ordered list of all subcommands.
var Subcommands = []Command{
	CmdScan,
	CmdBatch,
	CmdHistory,
	CmdLatest,
	CmdBounds,
	CmdExport,
	CmdArchive,
	CmdCheck,
	CmdInit,
	CmdVersion,
}

// Lookup returns the subcommand with the given name.
func Lookup(name string) (Command, bool) {
	for _, c := range Subcommands {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}
