package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/suykerbuyk/aiscope/internal/help"
)

func main() {
	dir := "man"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		fatal(err)
	}

	date := time.Now().Format("2006-01-02")
	if v := os.Getenv("SOURCE_DATE_EPOCH"); v != "" {
		if sec, err := strconv.ParseInt(v, 10, 64); err == nil {
			date = time.Unix(sec, 0).UTC().Format("2006-01-02")
		}
	}

	if err := write(dir, "aiscope.1", help.FormatRoffTopLevel(help.TopLevel, help.Subcommands, date)); err != nil {
		fatal(err)
	}
	for _, cmd := range help.Subcommands {
		if err := write(dir, cmd.ManName()+".1", help.FormatRoff(cmd, date)); err != nil {
			fatal(err)
		}
	}
}

func write(dir, name, content string) error {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("  %s\n", path)
	return nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "gen-man: %v\n", err)
	os.Exit(1)
}
