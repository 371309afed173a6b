package check

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/suykerbuyk/aiscope/internal/archive"
	"github.com/suykerbuyk/aiscope/internal/cachelog"
	"github.com/suykerbuyk/aiscope/internal/config"
)

// Status represents the outcome of a single check.
type Status int

const (
	Pass Status = iota
	Warn
	Fail
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Warn:
		return "warn"
	case Fail:
		return "FAIL"
	default:
		return "unknown"
	}
}

// Result holds the outcome of a single check.
type Result struct {
	Name   string
	Status Status
	Detail string
}

// Report aggregates all check results.
type Report struct {
	Results []Result
}

// HasFailures returns true if any result has Fail status.
func (r Report) HasFailures() bool {
	for _, res := range r.Results {
		if res.Status == Fail {
			return true
		}
	}
	return false
}

// Format returns the human-readable report string.
func (r Report) Format() string {
	if len(r.Results) == 0 {
		return "aiscope check\n\n  no checks ran\n"
	}

	maxName := 0
	for _, res := range r.Results {
		maxName = max(maxName, len(res.Name))
	}

	var b strings.Builder
	b.WriteString("aiscope check\n\n")

	var passed, warnings, failures int
	for _, res := range r.Results {
		switch res.Status {
		case Pass:
			passed++
		case Warn:
			warnings++
		case Fail:
			failures++
		}
		fmt.Fprintf(&b, "  %-4s  %-*s  %s\n", res.Status, maxName, res.Name, res.Detail)
	}

	fmt.Fprintf(&b, "\n%d passed, %d warning, %d failure\n", passed, warnings, failures)
	return b.String()
}

// CheckConfig reports the config file in use. A missing file is fine;
// defaults apply. Broken TOML fails config.Load before we get here.
func CheckConfig() Result {
	cfgPath := filepath.Join(config.ConfigDir(), "config.toml")
	if _, err := os.Stat(cfgPath); err != nil {
		return Result{Name: "config", Status: Warn, Detail: config.CompressHome(cfgPath) + " not found, using defaults (run `aiscope init`)"}
	}
	return Result{Name: "config", Status: Pass, Detail: config.CompressHome(cfgPath)}
}

// CheckDisplay validates the display section.
func CheckDisplay(cfg config.Config) Result {
	if _, err := cfg.Style(false); err != nil {
		return Result{Name: "display", Status: Fail, Detail: err.Error()}
	}
	return Result{Name: "display", Status: Pass, Detail: fmt.Sprintf("%d segments, blend %s", cfg.Display.Segments, displayBlend(cfg.Display.Blend))}
}

func displayBlend(b string) string {
	if b == "" {
		return "lab"
	}
	return b
}

// CheckCacheLog parses every record in the cache log. A missing log warns;
// a malformed line fails.
func CheckCacheLog(path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		return Result{Name: "cache", Status: Warn, Detail: config.CompressHome(path) + " not found (no scans yet)"}
	}

	recs, err := cachelog.Open(path).Records()
	if err != nil {
		return Result{Name: "cache", Status: Fail, Detail: err.Error()}
	}
	for _, r := range recs {
		if err := r.Result.Validate(); err != nil {
			return Result{Name: "cache", Status: Fail, Detail: fmt.Sprintf("%s at %d: %v", r.Filename, r.Timestamp, err)}
		}
	}
	return Result{
		Name:   "cache",
		Status: Pass,
		Detail: fmt.Sprintf("%s (%d records, %s)", config.CompressHome(path), len(recs), humanize.Bytes(uint64(info.Size()))),
	}
}

// CheckAPIKey checks that the classifier key variable is set.
func CheckAPIKey(ccfg config.ClassifierConfig) Result {
	keyEnv := ccfg.APIKeyEnv
	if keyEnv == "" {
		keyEnv = "PANGRAM_API_KEY"
	}
	if os.Getenv(keyEnv) != "" {
		return Result{Name: "api key", Status: Pass, Detail: keyEnv + " set"}
	}
	return Result{Name: "api key", Status: Warn, Detail: keyEnv + " not set (cached results only)"}
}

// CheckPandoc checks that the HTML converter is on PATH.
func CheckPandoc(ecfg config.ExtractConfig) Result {
	bin := ecfg.Pandoc
	if bin == "" {
		bin = "pandoc"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return Result{Name: "pandoc", Status: Warn, Detail: bin + " not found (HTML input unavailable)"}
	}
	return Result{Name: "pandoc", Status: Pass, Detail: config.CompressHome(path)}
}

// CheckArchive reports the archive directory and its snapshot count.
func CheckArchive(dir string) Result {
	snaps, err := archive.List(dir)
	if err != nil {
		return Result{Name: "archive", Status: Fail, Detail: err.Error()}
	}
	if len(snaps) == 0 {
		return Result{Name: "archive", Status: Pass, Detail: config.CompressHome(dir) + " (no snapshots)"}
	}
	last := snaps[len(snaps)-1]
	return Result{
		Name:   "archive",
		Status: Pass,
		Detail: fmt.Sprintf("%s (%d snapshots, latest %s)", config.CompressHome(dir), len(snaps), humanize.Time(last.Time)),
	}
}

// Run executes all checks against the given config and returns a report.
func Run(cfg config.Config) Report {
	var results []Result

	results = append(results, CheckConfig())
	results = append(results, CheckDisplay(cfg))
	results = append(results, CheckCacheLog(cfg.CacheFile))
	results = append(results, CheckAPIKey(cfg.Classifier))
	results = append(results, CheckPandoc(cfg.Extract))
	results = append(results, CheckArchive(cfg.Archive.Dir))

	return Report{Results: results}
}
