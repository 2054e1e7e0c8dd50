package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindConfig(t *testing.T) {
	// Create a temp directory structure
	// /tmp/
	//   project/ (.notes.yaml)
	//     subdir/
	//       nested/
	//   empty/
	//   xdg/notes/config.yaml

	baseDir := t.TempDir()
	projectDir := filepath.Join(baseDir, "project")
	subDir := filepath.Join(projectDir, "subdir")
	nestedDir := filepath.Join(subDir, "nested")
	emptyDir := filepath.Join(baseDir, "empty")
	xdgDir := filepath.Join(baseDir, "xdg")

	for _, dir := range []string{nestedDir, emptyDir, filepath.Join(xdgDir, "notes")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}

	// Create marker
	projectFile := filepath.Join(projectDir, ConfigFileName)
	if err := os.WriteFile(projectFile, []byte("store: memory\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("XDG_CONFIG_HOME", xdgDir)

	tests := []struct {
		name      string
		startPath string
		userFile  bool
		want      string
	}{
		{
			name:      "Start at Root",
			startPath: projectDir,
			want:      projectFile,
		},
		{
			name:      "Start Nested Deeply",
			startPath: nestedDir,
			want:      projectFile,
		},
		{
			name:      "No File Found",
			startPath: emptyDir,
			want:      "",
		},
		{
			name:      "Falls Back To User Config",
			startPath: emptyDir,
			userFile:  true,
			want:      filepath.Join(xdgDir, "notes", "config.yaml"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userFile := filepath.Join(xdgDir, "notes", "config.yaml")
			if tt.userFile {
				if err := os.WriteFile(userFile, []byte("{}\n"), 0644); err != nil {
					t.Fatal(err)
				}
				defer os.Remove(userFile)
			}

			got, err := FindConfig(tt.startPath)
			if err != nil {
				t.Fatalf("FindConfig() error = %v", err)
			}
			if filepath.Clean(got) != filepath.Clean(tt.want) {
				t.Errorf("FindConfig() = %q, want %q", got, tt.want)
			}
		})
	}
}
