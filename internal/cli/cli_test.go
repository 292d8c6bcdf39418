package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rcforge/fileenum/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag in the command tree to its default so
// package-level flag variables do not leak between tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// runCLI executes the command tree in dir and returns stdout.
func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(dir)
	for _, key := range []string{"ROOT", "OUTPUT", "ORDER", "REQUIRE_VERSION", "LOG_LEVEL"} {
		t.Setenv("FILEENUM_"+key, "")
	}

	resetFlags(rootCmd)
	cfg, logger = nil, nil
	buildVersion, buildCommit, buildDate = "dev", "abc123", "2026-01-01"

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func makeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func readManifest(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading manifest: %v", err)
	}
	return string(data)
}

func TestRootWithoutArgsGeneratesDefaultManifest(t *testing.T) {
	dir := t.TempDir()
	makeTree(t, filepath.Join(dir, "defaultrc"), "sub/c.txt", "a.txt", "sub/b.txt")

	out, err := runCLI(t, dir)
	if err != nil {
		t.Fatalf("fileenum: %v", err)
	}
	if !strings.Contains(out, "Wrote 3 entries") {
		t.Errorf("unexpected output: %q", out)
	}

	got := readManifest(t, filepath.Join(dir, "defaultrc", "enumerated.txt"))
	if want := "a.txt\nsub/b.txt\nsub/c.txt\n"; got != want {
		t.Errorf("manifest = %q, want %q", got, want)
	}
}

func TestRootMissingDefaultRootFails(t *testing.T) {
	dir := t.TempDir()
	if _, err := runCLI(t, dir); err == nil {
		t.Fatal("expected error when defaultrc is missing")
	}
}

func TestGenerateFlags(t *testing.T) {
	dir := t.TempDir()
	makeTree(t, filepath.Join(dir, "assets"), "x.txt")

	out, err := runCLI(t, dir, "generate", "--root", "assets", "--output", "files.lst", "--quiet")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "" {
		t.Errorf("quiet run printed %q", out)
	}
	if got := readManifest(t, filepath.Join(dir, "assets", "files.lst")); got != "x.txt\n" {
		t.Errorf("manifest = %q", got)
	}
}

func TestGenerateUsesProjectConfig(t *testing.T) {
	dir := t.TempDir()
	makeTree(t, filepath.Join(dir, "res"), "a.txt")
	if err := os.WriteFile(filepath.Join(dir, ".fileenum.yaml"), []byte("root: res\noutput: index.txt\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := runCLI(t, dir, "gen"); err != nil {
		t.Fatalf("gen: %v", err)
	}
	if got := readManifest(t, filepath.Join(dir, "res", "index.txt")); got != "a.txt\n" {
		t.Errorf("manifest = %q", got)
	}
}

func TestInvalidConfigAbortsCommands(t *testing.T) {
	dir := t.TempDir()
	makeTree(t, filepath.Join(dir, "defaultrc"), "a.txt")
	if err := os.WriteFile(filepath.Join(dir, ".fileenum.yaml"), []byte("order: chaos\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := runCLI(t, dir, "generate"); err == nil {
		t.Fatal("expected error for invalid config")
	}
	if _, err := os.Stat(filepath.Join(dir, "defaultrc", "enumerated.txt")); err == nil {
		t.Error("manifest must not be written with an invalid config")
	}
}

func TestRequireVersion(t *testing.T) {
	dir := t.TempDir()
	makeTree(t, filepath.Join(dir, "defaultrc"), "a.txt")
	if err := os.WriteFile(filepath.Join(dir, ".fileenum.yaml"), []byte("require_version: \">= 2.0.0\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	// Development builds are never gated.
	if _, err := runCLI(t, dir, "generate"); err != nil {
		t.Fatalf("dev build should pass: %v", err)
	}

	resetFlags(rootCmd)
	rootCmd.SetArgs([]string{"generate"})
	buildVersion = "1.5.0"
	err := rootCmd.Execute()
	if !errors.Is(err, version.ErrUnsatisfied) {
		t.Fatalf("expected 1.5.0 to fail >= 2.0.0 with ErrUnsatisfied, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "defaultrc", "enumerated.txt")); statErr != nil {
		t.Fatalf("manifest from the dev run should remain: %v", statErr)
	}
}

func TestRequireVersionBadConstraint(t *testing.T) {
	dir := t.TempDir()
	makeTree(t, filepath.Join(dir, "defaultrc"), "a.txt")
	if err := os.WriteFile(filepath.Join(dir, ".fileenum.yaml"), []byte("require_version: \">= banana\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	resetFlags(rootCmd)
	t.Chdir(dir)
	t.Setenv("FILEENUM_REQUIRE_VERSION", "")
	rootCmd.SetArgs([]string{"generate"})
	buildVersion = "1.5.0"
	t.Cleanup(func() { rootCmd.SetArgs(nil); buildVersion = "dev" })

	err := rootCmd.Execute()
	if err == nil || errors.Is(err, version.ErrUnsatisfied) {
		t.Fatalf("expected constraint parse error, got %v", err)
	}
	if !strings.Contains(err.Error(), "require_version") {
		t.Errorf("error should name the key: %v", err)
	}
}

func TestListPrintsWithoutWriting(t *testing.T) {
	dir := t.TempDir()
	makeTree(t, filepath.Join(dir, "defaultrc"), "b.txt", "a/x.txt")

	out, err := runCLI(t, dir, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if out != "a/x.txt\nb.txt\n" {
		t.Errorf("list output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "defaultrc", "enumerated.txt")); err == nil {
		t.Error("list must not write the manifest")
	}

	out, err = runCLI(t, dir, "list", "--json")
	if err != nil {
		t.Fatalf("list --json: %v", err)
	}
	var entries []string
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if len(entries) != 2 || entries[0] != "a/x.txt" {
		t.Errorf("entries = %v", entries)
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "defaultrc")
	makeTree(t, root, "a.txt")

	out, err := runCLI(t, dir, "check")
	if !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale for missing manifest, got %v", err)
	}
	if !strings.Contains(out, "does not exist") {
		t.Errorf("unexpected output: %q", out)
	}

	if _, err := runCLI(t, dir, "generate"); err != nil {
		t.Fatal(err)
	}
	out, err = runCLI(t, dir, "check")
	if err != nil {
		t.Fatalf("check after generate: %v", err)
	}
	if !strings.Contains(out, "up to date") {
		t.Errorf("unexpected output: %q", out)
	}

	makeTree(t, root, "new.txt")
	out, err = runCLI(t, dir, "check")
	if !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
	if !strings.Contains(out, "+ new.txt") {
		t.Errorf("missing added entry in %q", out)
	}
}

func TestConfigSetGetShowValidate(t *testing.T) {
	dir := t.TempDir()

	if _, err := runCLI(t, dir, "config", "set", "root", "assets"); err != nil {
		t.Fatalf("config set: %v", err)
	}

	out, err := runCLI(t, dir, "config", "get", "root")
	if err != nil {
		t.Fatalf("config get: %v", err)
	}
	if strings.TrimSpace(out) != "assets" {
		t.Errorf("config get root = %q", out)
	}

	out, err = runCLI(t, dir, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "root: assets") || !strings.Contains(out, "output: enumerated.txt") {
		t.Errorf("unexpected show output:\n%s", out)
	}

	out, err = runCLI(t, dir, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(out, "is valid") {
		t.Errorf("unexpected validate output: %q", out)
	}

	if _, err := runCLI(t, dir, "config", "get", "nope"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestConfigValidateReportsIssues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("order: chaos\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, dir, "config", "validate", path)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if !strings.Contains(out, "/order") {
		t.Errorf("issue path missing from output: %q", out)
	}
}

func TestVersion(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, dir, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "fileenum version dev") || !strings.Contains(out, "abc123") {
		t.Errorf("unexpected output: %q", out)
	}

	out, err = runCLI(t, dir, "version", "--short")
	if err != nil {
		t.Fatalf("version --short: %v", err)
	}
	if strings.TrimSpace(out) != "dev" {
		t.Errorf("version --short = %q", out)
	}
}
