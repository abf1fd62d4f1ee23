package discover

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func paths(entries []FileEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = filepath.ToSlash(e.Path)
	}
	return out
}

func assertPaths(t *testing.T, entries []FileEntry, want ...string) {
	t.Helper()
	got := paths(entries)
	if len(got) != len(want) {
		t.Fatalf("paths = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("paths = %v, want %v", got, want)
		}
	}
}

var pyOnly = Options{Extensions: []string{".py"}}

func TestDiscoverPythonFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "test_main.py", "pass")
	writeFile(t, dir, "api/test_util.py", "pass")
	// Non-Python file should be ignored
	writeFile(t, dir, "readme.txt", "hello")
	// Hidden file should be ignored
	writeFile(t, dir, ".hidden.py", "secret")

	entries, err := Files(dir, pyOnly)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	assertPaths(t, entries, "test_main.py", "api/test_util.py")

	for _, e := range entries {
		if e.Language != "python" {
			t.Errorf("entry %q: language = %q, want python", e.Path, e.Language)
		}
	}
}

func TestDiscoverOrderFilesBeforeSubdirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "b/test_1.py", "pass")
	writeFile(t, dir, "a/z/test_2.py", "pass")
	writeFile(t, dir, "a/test_3.py", "pass")
	writeFile(t, dir, "test_4.py", "pass")
	writeFile(t, dir, "a.py", "pass")

	entries, err := Files(dir, pyOnly)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	assertPaths(t, entries, "a.py", "test_4.py", "a/test_3.py", "a/z/test_2.py", "b/test_1.py")
}

func TestDiscoverSkipDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "test_main.py", "pass")
	writeFile(t, dir, "venv/lib.py", "pass")
	writeFile(t, dir, "__pycache__/cached.py", "pass")
	writeFile(t, dir, ".hidden/secret.py", "pass")
	writeFile(t, dir, "pkg.egg-info/x.py", "pass")

	entries, err := Files(dir, pyOnly)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	assertPaths(t, entries, "test_main.py")
}

func TestDiscoverGitignoreAndExclude(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, ".gitignore", "generated/\n")
	writeFile(t, dir, "test_a.py", "pass")
	writeFile(t, dir, "generated/test_gen.py", "pass")
	writeFile(t, dir, "legacy/test_old.py", "pass")
	writeFile(t, dir, "api/test_b_wip.py", "pass")
	writeFile(t, dir, "api/test_b.py", "pass")

	entries, err := Files(dir, Options{
		Extensions: []string{".py"},
		Exclude:    []string{"legacy/", "*_wip.py"},
	})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	assertPaths(t, entries, "test_a.py", "api/test_b.py")
}

func TestDiscoverExtensionFilter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "test_a.py", "pass")

	entries, err := Files(dir, Options{Extensions: []string{".pyx"}})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %v", paths(entries))
	}
}

func TestDiscoverMissingRoot(t *testing.T) {
	t.Parallel()

	_, err := Files(filepath.Join(t.TempDir(), "nope"), pyOnly)
	if err == nil {
		t.Fatal("expected error for a missing root")
	}
}
