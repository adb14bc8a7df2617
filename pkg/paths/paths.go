package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultOutputBase is the file name (without extension) used for rendered charts
const DefaultOutputBase = "iv-overlay"

// Paths holds the locations ivc reads from and writes to
type Paths struct {
	ConfigPath string
}

// New resolves XDG-compliant paths
func New() (*Paths, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config path: %w", err)
	}
	return &Paths{
		ConfigPath: configPath,
	}, nil
}

func getConfigPath() (string, error) {
	// Check XDG_CONFIG_HOME first (Unix-like systems)
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "ivc", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "ivc", "config.yaml"), nil
	}

	return filepath.Join(homeDir, ".config", "ivc", "config.yaml"), nil
}

// OutputPath resolves where a rendered chart is written.
// An explicit path wins; otherwise the default name goes into dir (or the working directory).
func OutputPath(explicit, dir, ext string) string {
	if explicit != "" {
		if filepath.Ext(explicit) == "" {
			return explicit + ext
		}
		return explicit
	}
	name := DefaultOutputBase + ext
	if dir == "" {
		return name
	}
	return filepath.Join(expandHome(dir), name)
}

// EnsureDir creates the parent directory of path
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

func expandHome(dir string) string {
	if !strings.HasPrefix(dir, "~/") {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return dir
	}
	return filepath.Join(home, dir[2:])
}
