package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/suykerbuyk/aiscope/internal/color"
	"github.com/suykerbuyk/aiscope/internal/render"
)

// Config holds all aiscope configuration.
type Config struct {
	CacheFile string `toml:"cache_file"`

	Display    DisplayConfig    `toml:"display"`
	Classifier ClassifierConfig `toml:"classifier"`
	Extract    ExtractConfig    `toml:"extract"`
	Archive    ArchiveConfig    `toml:"archive"`
}

type DisplayConfig struct {
	Segments      int       `toml:"segments"`
	SummaryCells  int       `toml:"summary_cells"`
	CellWidth     int       `toml:"cell_width"`
	Tolerance     float64   `toml:"tolerance"`
	FilenameWidth int       `toml:"filename_width"`
	Color         string    `toml:"color"` // auto, always, never
	Blend         string    `toml:"blend"` // lab, hcl
	LowColor      []float64 `toml:"low_color"`
	HighColor     []float64 `toml:"high_color"`
	AIColor       []int     `toml:"ai_color"`
	AssistColor   []int     `toml:"assist_color"`
	HumanColor    []int     `toml:"human_color"`
}

type ClassifierConfig struct {
	BaseURL        string `toml:"base_url"`
	APIKeyEnv      string `toml:"api_key_env"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type ExtractConfig struct {
	Pandoc    string `toml:"pandoc"`
	CutFooter bool   `toml:"cut_footer"`
}

type ArchiveConfig struct {
	Dir string `toml:"dir"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		CacheFile: "~/.local/share/aiscope/cache.tsv",
		Display: DisplayConfig{
			Segments:      80,
			SummaryCells:  40,
			CellWidth:     2,
			Tolerance:     0.001,
			FilenameWidth: 25,
			Color:         "auto",
			Blend:         "lab",
			LowColor:      []float64{0, 0, 0},
			HighColor:     []float64{0.22, 1, 0.08},
			AIColor:       []int{220, 20, 20},
			AssistColor:   []int{255, 220, 0},
			HumanColor:    []int{0, 150, 0},
		},
		Classifier: ClassifierConfig{
			BaseURL:        "https://text.api.pangram.com/v3",
			APIKeyEnv:      "PANGRAM_API_KEY",
			TimeoutSeconds: 60,
		},
		Extract: ExtractConfig{
			Pandoc:    "pandoc",
			CutFooter: true,
		},
	}
}

// Load reads config from the standard path, falling back to defaults.
// AISCOPE_CACHE_FILE, or CACHE_FILE, overrides cache_file.
func Load() (Config, error) {
	cfg := DefaultConfig()

	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			if _, err := toml.DecodeFile(p, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", p, err)
			}
			break
		}
	}

	for _, env := range []string{"AISCOPE_CACHE_FILE", "CACHE_FILE"} {
		if v := os.Getenv(env); v != "" {
			cfg.CacheFile = v
			break
		}
	}

	cfg.CacheFile = expandHome(cfg.CacheFile)
	cfg.Archive.Dir = expandHome(cfg.Archive.Dir)
	if cfg.Archive.Dir == "" {
		cfg.Archive.Dir = filepath.Join(filepath.Dir(cfg.CacheFile), "archive")
	}

	return cfg, nil
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "aiscope", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "aiscope", "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// Style converts the display section into a render.Style. tty reports
// whether stdout is a terminal, consulted when color is "auto".
func (c Config) Style(tty bool) (render.Style, error) {
	d := c.Display
	st := render.DefaultStyle()

	if d.Segments <= 0 {
		return st, fmt.Errorf("display.segments must be positive, got %d", d.Segments)
	}
	if d.SummaryCells <= 0 || d.CellWidth <= 0 {
		return st, fmt.Errorf("display.summary_cells and display.cell_width must be positive")
	}
	if d.Tolerance < 0 {
		return st, fmt.Errorf("display.tolerance must not be negative")
	}
	st.Segments = d.Segments
	st.SummaryCells = d.SummaryCells
	st.CellWidth = d.CellWidth
	st.Tolerance = d.Tolerance

	var err error
	if st.Blend, err = color.ParseBlend(d.Blend); err != nil {
		return st, fmt.Errorf("display.blend: %w", err)
	}
	if st.Low, err = color.FromFloats(d.LowColor); err != nil {
		return st, fmt.Errorf("display.low_color: %w", err)
	}
	if st.High, err = color.FromFloats(d.HighColor); err != nil {
		return st, fmt.Errorf("display.high_color: %w", err)
	}
	if st.AI.Bg, err = color.FromInts(d.AIColor); err != nil {
		return st, fmt.Errorf("display.ai_color: %w", err)
	}
	if st.Assist.Bg, err = color.FromInts(d.AssistColor); err != nil {
		return st, fmt.Errorf("display.assist_color: %w", err)
	}
	if st.Human.Bg, err = color.FromInts(d.HumanColor); err != nil {
		return st, fmt.Errorf("display.human_color: %w", err)
	}

	switch d.Color {
	case "always":
		st.NoColor = false
	case "never":
		st.NoColor = true
	case "auto", "":
		st.NoColor = !tty
	default:
		return st, fmt.Errorf("display.color: unknown mode %q (want auto, always or never)", d.Color)
	}
	return st, nil
}
