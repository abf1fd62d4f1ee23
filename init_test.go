package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phobologic/allurecheck/internal/config"
)

func TestRunInitWritesDefault(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), config.DefaultFile)

	var stdout, stderr bytes.Buffer
	if err := run([]string{"init", path}, &stdout, &stderr); err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(stderr.String(), "wrote allurecheck configuration") {
		t.Errorf("stderr: %q", stderr.String())
	}

	cfg, err := config.Load(path, true)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if cfg.Root != "tests" || len(cfg.Extensions) != 1 || cfg.Extensions[0] != ".py" {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestRunInitRefusesOverwrite(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), config.DefaultFile)
	if err := os.WriteFile(path, []byte("root = \"mine\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	err := run([]string{"init", path}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("init error = %v, want already exists", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "root = \"mine\"\n" {
		t.Errorf("existing file was modified: %q", data)
	}

	if err := run([]string{"init", "-force", path}, &stdout, &stderr); err != nil {
		t.Fatalf("init -force: %v", err)
	}
	data, _ = os.ReadFile(path)
	if !strings.Contains(string(data), `root = "tests"`) {
		t.Errorf("file not overwritten: %q", data)
	}
}

func TestRunInitDryRun(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), config.DefaultFile)

	var stdout, stderr bytes.Buffer
	if err := run([]string{"init", "-dry-run", path}, &stdout, &stderr); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("dry run must not write the file")
	}
	out := stdout.String()
	if !strings.HasPrefix(out, "# allurecheck configuration.") {
		t.Errorf("missing header:\n%s", out)
	}
	if !strings.Contains(out, `extensions = [".py"]`) {
		t.Errorf("missing extensions:\n%s", out)
	}
}
