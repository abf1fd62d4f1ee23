// Package config loads the optional .allurecheck.toml file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/phobologic/allurecheck/internal/lang"
)

// DefaultFile is looked up in the working directory when no -config flag is given.
const DefaultFile = ".allurecheck.toml"

// Config holds the discovery settings. The rules themselves are fixed.
type Config struct {
	// Root is the directory scanned for test files.
	Root string `toml:"root"`
	// Extensions selects which files under Root are checked.
	Extensions []string `toml:"extensions"`
	// Exclude holds gitignore-style patterns, relative to Root.
	Exclude []string `toml:"exclude,omitempty"`
	// Jobs bounds parallel parsing; 0 means GOMAXPROCS.
	Jobs int `toml:"jobs"`
}

// Default returns the built-in configuration: every .py file under tests/.
func Default() Config {
	return Config{
		Root:       "tests",
		Extensions: []string{".py"},
	}
}

// Load reads the TOML file at path on top of Default. A missing file is
// not an error unless required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the configuration can drive a run.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Root) == "" {
		return errors.New("root must not be empty")
	}
	if len(c.Extensions) == 0 {
		return errors.New("extensions must not be empty")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
		if lang.ForExtension(ext) == "" {
			return fmt.Errorf("unsupported extension %q", ext)
		}
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	return nil
}

// Write encodes c as TOML.
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
