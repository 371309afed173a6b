package cachelog

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/suykerbuyk/aiscope/internal/score"
)

// Record is one line of the cache log.
type Record struct {
	ContentHash string
	Filename    string
	Timestamp   int64 // unix seconds
	Result      score.Result
}

// MalformedRecordError reports a log line that does not parse.
type MalformedRecordError struct {
	Path   string
	Line   int // 1-based
	Reason string
	Err    error
}

func (e *MalformedRecordError) Error() string {
	msg := fmt.Sprintf("%s:%d: malformed cache record: %s", e.Path, e.Line, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// HashText returns the lowercase hex SHA-256 of the text's UTF-8 bytes.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Log is an append-only, tab-separated record file. It has no index and no
// locking: lookups scan every line and a single writer is assumed.
type Log struct {
	path string
}

// Open returns a Log for path. The file is created on first Append.
func Open(path string) *Log {
	return &Log{path: path}
}

// Path returns the log's file path.
func (l *Log) Path() string {
	return l.path
}

// Compressed reports whether the log is a zstd snapshot (read-only).
func (l *Log) Compressed() bool {
	return strings.HasSuffix(l.path, ".zst")
}

// Append writes rec as one line at the end of the log.
func (l *Log) Append(rec Record) error {
	if l.Compressed() {
		return fmt.Errorf("append to %s: compressed snapshots are read-only", l.path)
	}
	line, err := FormatLine(rec)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open cache log: %w", err)
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("append cache record: %w", err)
	}
	return f.Close()
}

// Each calls fn for every record in file order. A missing log has no
// records. Iteration stops at the first malformed line or fn error.
func (l *Log) Each(fn func(Record) error) error {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open cache log: %w", err)
	}
	defer f.Close()

	var src io.Reader = f
	if l.Compressed() {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return fmt.Errorf("create zstd decoder: %w", err)
		}
		defer dec.Close()
		src = dec
	}

	r := bufio.NewReader(src)
	for n := 1; ; n++ {
		line, readErr := r.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return fmt.Errorf("read cache log: %w", readErr)
		}
		if line == "" && readErr == io.EOF {
			return nil
		}

		rec, err := ParseLine(strings.TrimRight(line, "\r\n"))
		if err != nil {
			var mre *MalformedRecordError
			if errors.As(err, &mre) {
				mre.Path, mre.Line = l.path, n
			}
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
		if readErr == io.EOF {
			return nil
		}
	}
}

// Records returns every record in file order.
func (l *Log) Records() ([]Record, error) {
	var recs []Record
	err := l.Each(func(r Record) error {
		recs = append(recs, r)
		return nil
	})
	return recs, err
}

// LookupHash returns the first record whose content hash matches.
func (l *Log) LookupHash(hash string) (*Record, error) {
	var found *Record
	err := l.Each(func(r Record) error {
		if r.ContentHash == hash {
			found = &r
			return errStop
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return nil, err
	}
	return found, nil
}

// ByFilename returns every record for filename in file order.
func (l *Log) ByFilename(filename string) ([]Record, error) {
	var recs []Record
	err := l.Each(func(r Record) error {
		if r.Filename == filename {
			recs = append(recs, r)
		}
		return nil
	})
	return recs, err
}

var errStop = errors.New("stop iteration")
