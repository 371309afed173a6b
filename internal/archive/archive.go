package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

const (
	prefix = "cache-"
	suffix = ".tsv.zst"
)

// Snapshot describes one compressed copy of the cache log.
type Snapshot struct {
	Path           string
	Time           time.Time
	Size           int64 // uncompressed bytes
	CompressedSize int64
}

// Create compresses logPath into archiveDir/cache-{unix}.tsv.zst.
// An existing snapshot for the same second is never overwritten.
func Create(logPath, archiveDir string, now time.Time) (*Snapshot, error) {
	src, err := os.Open(logPath)
	if err != nil {
		return nil, fmt.Errorf("open cache log: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}

	destPath := SnapshotPath(archiveDir, now)
	dest, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}

	encoder, err := zstd.NewWriter(dest)
	if err != nil {
		dest.Close()
		os.Remove(destPath)
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	n, err := io.Copy(encoder, src)
	if err != nil {
		encoder.Close()
		dest.Close()
		os.Remove(destPath)
		return nil, fmt.Errorf("compress: %w", err)
	}

	if err := encoder.Close(); err != nil {
		dest.Close()
		os.Remove(destPath)
		return nil, fmt.Errorf("finalize compression: %w", err)
	}
	if err := dest.Close(); err != nil {
		os.Remove(destPath)
		return nil, fmt.Errorf("close snapshot: %w", err)
	}

	info, err := os.Stat(destPath)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Path:           destPath,
		Time:           time.Unix(now.Unix(), 0),
		Size:           n,
		CompressedSize: info.Size(),
	}, nil
}

// Restore decompresses a snapshot to destPath, which must not exist.
func Restore(snapshotPath, destPath string) error {
	src, err := os.Open(snapshotPath)
	if err != nil {
		return fmt.Errorf("open snapshot: %w", err)
	}
	defer src.Close()

	decoder, err := zstd.NewReader(src)
	if err != nil {
		return fmt.Errorf("create zstd decoder: %w", err)
	}
	defer decoder.Close()

	dest, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", destPath, err)
	}

	if _, err := io.Copy(dest, decoder); err != nil {
		dest.Close()
		os.Remove(destPath)
		return fmt.Errorf("decompress: %w", err)
	}

	if err := dest.Close(); err != nil {
		os.Remove(destPath)
		return fmt.Errorf("close %s: %w", destPath, err)
	}
	return nil
}

// List returns the snapshots in archiveDir, oldest first. A missing
// directory has no snapshots. Size is left zero.
func List(archiveDir string) ([]Snapshot, error) {
	entries, err := os.ReadDir(archiveDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []Snapshot
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ts, ok := parseName(e.Name())
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Snapshot{
			Path:           filepath.Join(archiveDir, e.Name()),
			Time:           time.Unix(ts, 0),
			CompressedSize: info.Size(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})
	return out, nil
}

// SnapshotPath returns the deterministic snapshot path for a time.
func SnapshotPath(archiveDir string, t time.Time) string {
	return filepath.Join(archiveDir, prefix+strconv.FormatInt(t.Unix(), 10)+suffix)
}

func parseName(name string) (int64, bool) {
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
		return 0, false
	}
	ts, err := strconv.ParseInt(strings.TrimSuffix(strings.TrimPrefix(name, prefix), suffix), 10, 64)
	if err != nil {
		return 0, false
	}
	return ts, true
}
