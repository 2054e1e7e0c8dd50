package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFileName is the per-project configuration file.
const ConfigFileName = ".notes.yaml"

// FindConfig looks upwards from startDir for a .notes.yaml file and returns
// its absolute path. It falls back to config.yaml under the user config
// directory. An empty path and no error means no file exists.
func FindConfig(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", startDir, err)
	}

	dir := abs
	for {
		if hasFile(dir, ConfigFileName) {
			return filepath.Join(dir, ConfigFileName), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	userDir, err := os.UserConfigDir()
	if err != nil {
		return "", nil
	}
	if hasFile(filepath.Join(userDir, "notes"), "config.yaml") {
		return filepath.Join(userDir, "notes", "config.yaml"), nil
	}
	return "", nil
}

func hasFile(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && !info.IsDir()
}
