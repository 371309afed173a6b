package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigDir returns the aiscope config directory path.
// Uses $XDG_CONFIG_HOME/aiscope if set, otherwise ~/.config/aiscope.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "aiscope")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "aiscope")
}

// WriteDefault writes a default config.toml pointing to cacheFile.
// Returns the config file path. Skips if config.toml already exists.
func WriteDefault(cacheFile string) (string, error) {
	dir := ConfigDir()
	path := filepath.Join(dir, "config.toml")

	if _, err := os.Stat(path); err == nil {
		return path, nil // already exists
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}

	content := fmt.Sprintf(`cache_file = %q

[display]
segments = 80
summary_cells = 40
cell_width = 2
tolerance = 0.001
filename_width = 25
color = "auto"   # auto, always, never
blend = "lab"    # lab, hcl
low_color = [0.0, 0.0, 0.0]
high_color = [0.22, 1.0, 0.08]
ai_color = [220, 20, 20]
assist_color = [255, 220, 0]
human_color = [0, 150, 0]

[classifier]
base_url = "https://text.api.pangram.com/v3"
api_key_env = "PANGRAM_API_KEY"
timeout_seconds = 60

[extract]
pandoc = "pandoc"
cut_footer = true

[archive]
# dir = "~/.local/share/aiscope/archive"
`, CompressHome(cacheFile))

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}

	return path, nil
}

// CompressHome replaces $HOME prefix with ~/ for portable config values.
func CompressHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home+"/") {
		return "~/" + path[len(home)+1:]
	}
	if path == home {
		return "~"
	}
	return path
}
