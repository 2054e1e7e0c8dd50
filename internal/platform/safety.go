package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// IsDevRun checks if the current process is running via `go run` or `go test`.
// Both build their binaries in temporary directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}

	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(os.TempDir())) {
		return true
	}

	return strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe")
}

// ResolveSessionPath decides where the fs store keeps the session. When
// forceTemp is set, paths outside the system temp directory are re-rooted
// under a "notes-dev" directory there so development runs never touch the
// real session.
func ResolveSessionPath(path string, forceTemp bool) string {
	if !forceTemp {
		return path
	}

	tempRoot := os.TempDir()
	if path != "" {
		clean := filepath.Clean(path)
		if rel, err := filepath.Rel(tempRoot, clean); err == nil && !strings.HasPrefix(rel, "..") {
			return clean
		}
	}

	name := filepath.Base(path)
	if path == "" || name == "." || name == string(os.PathSeparator) {
		name = "session.json"
	}
	return filepath.Join(tempRoot, "notes-dev", name)
}
