package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/suykerbuyk/aiscope/internal/archive"
	"github.com/suykerbuyk/aiscope/internal/bounds"
	"github.com/suykerbuyk/aiscope/internal/cachelog"
	"github.com/suykerbuyk/aiscope/internal/check"
	"github.com/suykerbuyk/aiscope/internal/classify"
	"github.com/suykerbuyk/aiscope/internal/config"
	"github.com/suykerbuyk/aiscope/internal/discover"
	"github.com/suykerbuyk/aiscope/internal/export"
	"github.com/suykerbuyk/aiscope/internal/help"
	"github.com/suykerbuyk/aiscope/internal/history"
	"github.com/suykerbuyk/aiscope/internal/render"
	"github.com/suykerbuyk/aiscope/internal/scan"
	"github.com/suykerbuyk/aiscope/internal/score"
	"github.com/suykerbuyk/aiscope/internal/watch"
)

// valueFlags take the following argument as their value.
var valueFlags = []string{"--log", "--name", "--restore"}

func main() {
	log.SetFlags(0)
	log.SetPrefix("aiscope: ")

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, help.FormatUsage(help.TopLevel, help.Subcommands))
		os.Exit(1)
	}

	cmd, args := os.Args[1], os.Args[2:]

	switch cmd {
	case "help", "--help", "-h":
		if len(args) > 0 {
			if c, ok := help.Lookup(args[0]); ok {
				fmt.Print(help.FormatTerminal(c))
				return
			}
			fatal("unknown command: %s", args[0])
		}
		fmt.Print(help.FormatUsage(help.TopLevel, help.Subcommands))
		return
	case "version", "--version":
		fmt.Printf("aiscope v%s\n", help.Version)
		return
	}

	c, ok := help.Lookup(cmd)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, help.FormatUsage(help.TopLevel, help.Subcommands))
		os.Exit(1)
	}
	if hasFlag(args, "--help") || hasFlag(args, "-h") {
		fmt.Print(help.FormatTerminal(c))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("load config: %v", err)
	}
	if p := flagValue(args, "--log"); p != "" {
		cfg.CacheFile = p
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch cmd {
	case "scan":
		runScan(ctx, cfg, args)
	case "batch":
		runBatch(ctx, cfg, args)
	case "history":
		runHistory(cfg, args)
	case "latest":
		runLatest(ctx, cfg, args)
	case "bounds":
		runBounds(cfg, args)
	case "export":
		runExport(cfg, args)
	case "archive":
		runArchive(cfg, args)
	case "check":
		report := check.Run(cfg)
		fmt.Print(report.Format())
		if report.HasFailures() {
			os.Exit(1)
		}
	case "init":
		path, err := config.WriteDefault(cfg.CacheFile)
		if err != nil {
			fatal("init: %v", err)
		}
		fmt.Printf("config: %s\n", config.CompressHome(path))
	}
}

func runScan(ctx context.Context, cfg config.Config, args []string) {
	pos := positional(args)
	if len(pos) != 1 {
		fatal("usage: %s", help.CmdScan.Usage)
	}
	st := mustStyle(cfg)

	out, err := scan.File(ctx, pos[0], cfg, cachelog.Open(cfg.CacheFile), classifier(cfg), scan.Options{
		Name:    flagValue(args, "--name"),
		NoCache: hasFlag(args, "--no-cache"),
	})
	if err != nil {
		fatal("scan: %v", err)
	}
	if out.Cached {
		fmt.Printf("cached: %s (first checked %s)\n", out.Record.Filename, humanize.Time(time.Unix(out.Record.Timestamp, 0)))
	}

	doc, err := render.Document(out.Record.Result, st)
	if err != nil {
		fatal("render: %v", err)
	}
	fmt.Print(doc)
}

func runBatch(ctx context.Context, cfg config.Config, args []string) {
	pos := positional(args)
	if len(pos) != 1 {
		fatal("usage: %s", help.CmdBatch.Usage)
	}
	st := mustStyle(cfg)

	docs, err := discover.Discover(pos[0])
	if err != nil {
		fatal("batch: %v", err)
	}
	if len(docs) == 0 {
		fmt.Printf("no supported documents in %s\n", pos[0])
		return
	}

	cl := classifier(cfg)
	cache := cachelog.Open(cfg.CacheFile)
	var fresh, cached int
	for i, d := range docs {
		if ctx.Err() != nil {
			fatal("batch: interrupted before %s", d.Path)
		}
		out, err := scan.File(ctx, d.Path, cfg, cache, cl, scan.Options{
			Name:    d.Name,
			NoCache: hasFlag(args, "--no-cache"),
		})
		if err != nil {
			fatal("batch: %s: %v (halting, %d of %d done)", d.Path, err, i, len(docs))
		}
		bar, err := render.FractionBar(out.Record.Result, st)
		if err != nil {
			fatal("batch: %s: %v", d.Path, err)
		}
		tag := ""
		if out.Cached {
			tag = " (cached)"
			cached++
		} else {
			fresh++
		}
		fmt.Printf("[%d/%d] %s%s\n%s%s\n", i+1, len(docs), d.Name, tag, bar, st.Reset())
	}
	fmt.Printf("\n%d documents: %d classified, %d cached\n", len(docs), fresh, cached)
}

func runHistory(cfg config.Config, args []string) {
	pos := positional(args)
	if len(pos) > 1 {
		fatal("usage: %s", help.CmdHistory.Usage)
	}
	name := ""
	if len(pos) == 1 {
		name = pos[0]
	}
	st := mustStyle(cfg)

	recs := mustRecords(cfg)
	series := history.Filter(history.Collect(recs), name)
	if name != "" && len(series) == 0 {
		fatal("history: no results recorded for %q", name)
	}
	out, err := history.Render(series, st, time.Now())
	if err != nil {
		fatal("history: %v", err)
	}
	fmt.Print(out)
}

func runLatest(ctx context.Context, cfg config.Config, args []string) {
	st := mustStyle(cfg)
	tty := isatty.IsTerminal(os.Stdout.Fd())

	draw := func() error {
		recs, err := cachelog.Open(cfg.CacheFile).Records()
		if err != nil {
			return err
		}
		out, err := history.RenderLatest(history.Collect(recs), st, cfg.Display.FilenameWidth)
		if err != nil {
			return err
		}
		if tty && hasFlag(args, "--watch") {
			fmt.Print("\033[H\033[2J")
		}
		fmt.Print(out)
		return nil
	}

	if err := draw(); err != nil {
		fatal("latest: %v", err)
	}
	if !hasFlag(args, "--watch") {
		return
	}

	w, err := watch.New(cfg.CacheFile, watch.DefaultDebounce)
	if err != nil {
		fatal("latest: %v", err)
	}
	if err := w.Run(ctx, draw); err != nil {
		fatal("latest: %v", err)
	}
}

func runBounds(cfg config.Config, args []string) {
	rep, err := bounds.Compute(mustRecords(cfg))
	if err != nil {
		fatal("bounds: %v", err)
	}
	fmt.Print(bounds.Format(rep, hasFlag(args, "--samples")))
}

func runExport(cfg config.Config, args []string) {
	pos := positional(args)
	if len(pos) != 1 {
		fatal("usage: %s", help.CmdExport.Usage)
	}
	recs := mustRecords(cfg)
	for _, r := range recs {
		if err := r.Result.Validate(); err != nil {
			fatal("export: %s at %d: %v", r.Filename, r.Timestamp, err)
		}
	}
	st, err := export.Write(pos[0], recs)
	if err != nil {
		fatal("export: %v", err)
	}
	fmt.Printf("exported %d records, %d windows to %s\n", st.Records, st.Windows, pos[0])
}

func runArchive(cfg config.Config, args []string) {
	switch {
	case hasFlag(args, "--list"):
		snaps, err := archive.List(cfg.Archive.Dir)
		if err != nil {
			fatal("archive: %v", err)
		}
		if len(snaps) == 0 {
			fmt.Printf("no snapshots in %s\n", config.CompressHome(cfg.Archive.Dir))
			return
		}
		for _, s := range snaps {
			fmt.Printf("  %s  %8s  %s\n", s.Time.Format("2006-01-02 15:04:05"), humanize.Bytes(uint64(s.CompressedSize)), config.CompressHome(s.Path))
		}

	case flagValue(args, "--restore") != "":
		pos := positional(args)
		if len(pos) != 1 {
			fatal("usage: %s", help.CmdArchive.Usage)
		}
		if err := archive.Restore(flagValue(args, "--restore"), pos[0]); err != nil {
			fatal("archive: %v", err)
		}
		fmt.Printf("restored: %s\n", pos[0])

	default:
		snap, err := archive.Create(cfg.CacheFile, cfg.Archive.Dir, time.Now())
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("warning: nothing to archive, %s does not exist", config.CompressHome(cfg.CacheFile))
			return
		}
		if err != nil {
			fatal("archive: %v", err)
		}
		fmt.Printf("archived: %s (%s -> %s)\n", config.CompressHome(snap.Path),
			humanize.Bytes(uint64(snap.Size)), humanize.Bytes(uint64(snap.CompressedSize)))
	}
}

// classifier returns the HTTP client, or a stand-in that reports why it
// could not be built so cache hits still work without a key.
func classifier(cfg config.Config) classify.Classifier {
	cl, err := classify.New(cfg.Classifier)
	if err != nil {
		return unavailable{err}
	}
	return cl
}

type unavailable struct{ err error }

func (u unavailable) Classify(context.Context, string) (score.Result, error) {
	return score.Result{}, u.err
}

func mustStyle(cfg config.Config) render.Style {
	st, err := cfg.Style(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))
	if err != nil {
		fatal("config: %v", err)
	}
	return st
}

func mustRecords(cfg config.Config) []cachelog.Record {
	recs, err := cachelog.Open(cfg.CacheFile).Records()
	if err != nil {
		fatal("read cache log: %v", err)
	}
	return recs
}

func flagValue(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

// positional returns args with flags and their values removed.
func positional(args []string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		if !strings.HasPrefix(a, "-") {
			out = append(out, a)
			continue
		}
		for _, f := range valueFlags {
			if a == f {
				i++
				break
			}
		}
	}
	return out
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "aiscope: "+format+"\n", args...)
	os.Exit(1)
}
