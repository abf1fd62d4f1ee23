package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFile)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), DefaultFile), false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Root != "tests" || len(cfg.Extensions) != 1 || cfg.Extensions[0] != ".py" {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "custom.toml"), true); err == nil {
		t.Error("expected error for a required missing file")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
root = "suite"
exclude = ["legacy/", "*_wip.py"]
jobs = 2
`)
	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Root != "suite" {
		t.Errorf("root = %q, want suite", cfg.Root)
	}
	if len(cfg.Extensions) != 1 || cfg.Extensions[0] != ".py" {
		t.Errorf("extensions = %v, want default [.py]", cfg.Extensions)
	}
	if len(cfg.Exclude) != 2 || cfg.Jobs != 2 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad syntax", `root = `, "failed to parse TOML"},
		{"unknown key", "root = \"t\"\nrules = [\"x\"]\n", "unknown keys: rules"},
		{"empty root", `root = ""`, "root must not be empty"},
		{"no dot", `extensions = ["py"]`, "must start with a dot"},
		{"unsupported", `extensions = [".rb"]`, "unsupported extension"},
		{"negative jobs", `jobs = -1`, "jobs must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(writeConfig(t, tt.content), true)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Default().Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	cfg, err := Load(writeConfig(t, buf.String()), true)
	if err != nil {
		t.Fatalf("Load of written config: %v\n%s", err, buf.String())
	}
	if cfg.Root != "tests" {
		t.Errorf("root = %q", cfg.Root)
	}
}
