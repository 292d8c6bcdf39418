//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv holds paths to an isolated project.
type testEnv struct {
	ProjectDir string // working directory of the run
	RootDir    string // resource tree being enumerated
}

// setupTestEnv creates an isolated project with an empty resource tree and
// clears FILEENUM_* variables so the host environment cannot leak in.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{ProjectDir: t.TempDir()}
	env.RootDir = filepath.Join(env.ProjectDir, "defaultrc")
	if err := os.MkdirAll(env.RootDir, 0755); err != nil {
		t.Fatalf("creating root: %v", err)
	}

	for _, key := range []string{"ROOT", "OUTPUT", "ORDER", "REQUIRE_VERSION", "LOG_LEVEL"} {
		t.Setenv("FILEENUM_"+key, "")
	}
	t.Chdir(env.ProjectDir)
	return env
}

// setupResources creates a resource tree shaped like a game's defaultrc
// directory: scripts, nested system scripts, and a stale manifest.
func setupResources(t *testing.T, root string) {
	t.Helper()

	writeFile(t, filepath.Join(root, "script", "main.js"), "function main() {}\n")
	writeFile(t, filepath.Join(root, "script", "menu.js"), "function Menu() {}\n")
	writeFile(t, filepath.Join(root, "script", "sys", "store.js"), "function openStore() {}\n")
	writeFile(t, filepath.Join(root, "script", "sys", "weather", "rain.js"), "function rain() {}\n")
	writeFile(t, filepath.Join(root, "enumerated.txt"), "stale/entry.js\n")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func assertFileContent(t *testing.T, path, want string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if string(data) != want {
		t.Errorf("%s content:\n%q\nwant:\n%q", path, data, want)
	}
}

func assertFileNotContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if strings.Contains(string(data), substr) {
		t.Errorf("%s should not contain %q", path, substr)
	}
}
