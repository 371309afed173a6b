package discover

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/suykerbuyk/aiscope/internal/extract"
)

// Document is a source file queued for scanning.
type Document struct {
	Path string
	Name string // filename key recorded in the cache log
}

// Discover returns the documents under dir in scan order.
//
// A directory holding a Substack export (posts.csv plus posts/) yields its
// published posts ordered by post date, each named after its slug. Any other
// directory is walked recursively for supported file types, ordered by
// relative path.
func Discover(dir string) ([]Document, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	manifest := filepath.Join(dir, "posts.csv")
	if _, err := os.Stat(manifest); err == nil {
		return substack(dir, manifest)
	}
	return walk(dir)
}

func walk(dir string) ([]Document, error) {
	var results []Document

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !extract.Supported(path) {
			return nil
		}
		results = append(results, Document{Path: path, Name: filepath.Base(path)})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})
	return results, nil
}

type post struct {
	id, date string
}

// substack reads a Substack export manifest. Post ids look like
// "12345.my-post-slug"; the HTML body lives at posts/<id>.html.
func substack(dir, manifest string) ([]Document, error) {
	f, err := os.Open(manifest)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", manifest, err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimPrefix(h, "\ufeff")] = i
	}
	for _, name := range []string{"post_id", "post_date", "is_published"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", manifest, name)
		}
	}

	var posts []post
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", manifest, err)
		}
		if !strings.EqualFold(row[col["is_published"]], "true") {
			continue
		}
		posts = append(posts, post{id: row[col["post_id"]], date: row[col["post_date"]]})
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].date < posts[j].date
	})

	docs := make([]Document, 0, len(posts))
	for _, p := range posts {
		slug := p.id
		if _, after, ok := strings.Cut(p.id, "."); ok {
			slug = after
		}
		docs = append(docs, Document{
			Path: filepath.Join(dir, "posts", p.id+".html"),
			Name: slug + ".txt",
		})
	}
	return docs, nil
}
