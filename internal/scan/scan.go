package scan

import (
	"context"
	"fmt"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/suykerbuyk/aiscope/internal/cachelog"
	"github.com/suykerbuyk/aiscope/internal/classify"
	"github.com/suykerbuyk/aiscope/internal/config"
	"github.com/suykerbuyk/aiscope/internal/extract"
)

// Options adjusts a single scan.
type Options struct {
	Name    string           // filename key; defaults to the file's base name
	NoCache bool             // classify even when the text hash is cached
	Now     func() time.Time // clock for new records; defaults to time.Now
}

// Outcome holds the record a scan produced or reused.
type Outcome struct {
	Record   cachelog.Record
	Cached   bool // result came from the log
	Appended bool // a new record was written
}

// File extracts path's text and scans it.
func File(ctx context.Context, path string, cfg config.Config, log *cachelog.Log, cl classify.Classifier, opts Options) (*Outcome, error) {
	text, err := extract.PlainText(path, cfg.Extract)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	if opts.Name == "" {
		opts.Name = filepath.Base(path)
	}
	return Text(ctx, text, log, cl, opts)
}

// Text looks text up in the log by content hash and classifies it on a miss.
// A fresh classification is appended under opts.Name. A cache hit is not
// re-appended.
func Text(ctx context.Context, text string, log *cachelog.Log, cl classify.Classifier, opts Options) (*Outcome, error) {
	if opts.Name == "" {
		return nil, fmt.Errorf("scan: filename is required")
	}
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("scan %s: %w", opts.Name, extract.ErrInvalidUTF8)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	hash := cachelog.HashText(text)

	if !opts.NoCache {
		hit, err := log.LookupHash(hash)
		if err != nil {
			return nil, fmt.Errorf("read cache log: %w", err)
		}
		if hit != nil {
			if err := hit.Result.Validate(); err != nil {
				return nil, fmt.Errorf("cached result %s: %w", hash[:12], err)
			}
			return &Outcome{Record: *hit, Cached: true}, nil
		}
	}

	if cl == nil {
		return nil, fmt.Errorf("scan %s: not cached and no classifier configured", opts.Name)
	}
	res, err := cl.Classify(ctx, text)
	if err != nil {
		return nil, err
	}

	rec := cachelog.Record{
		ContentHash: hash,
		Filename:    opts.Name,
		Timestamp:   now().Unix(),
		Result:      res,
	}
	if err := log.Append(rec); err != nil {
		return nil, fmt.Errorf("save result: %w", err)
	}
	return &Outcome{Record: rec, Appended: true}, nil
}
