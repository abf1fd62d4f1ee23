// Package discover finds the test source files to check.
package discover

import (
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/phobologic/allurecheck/internal/lang"
)

// FileEntry represents a discovered source file.
type FileEntry struct {
	Path     string // Relative to the scanned root
	Language string
}

var skipDirs = map[string]struct{}{
	"__pycache__":   {},
	"node_modules":  {},
	".git":          {},
	".hg":           {},
	".svn":          {},
	"venv":          {},
	".venv":         {},
	".tox":          {},
	".mypy_cache":   {},
	".ruff_cache":   {},
	".pytest_cache": {},
}

// Options narrows which files are returned.
type Options struct {
	// Extensions lists accepted file extensions, e.g. ".py".
	Extensions []string
	// Exclude holds gitignore-style patterns relative to root. They are
	// applied together with root's own .gitignore, if any.
	Exclude []string
}

// Files discovers source files under root.
//
// Within each directory, files come before subdirectories and both are in
// lexical order. The order is stable across runs, since it decides which
// of two tests sharing an id is reported.
func Files(root string, opts Options) ([]FileEntry, error) {
	exts := make(map[string]struct{}, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		exts[ext] = struct{}{}
	}
	w := &walker{
		root:   root,
		exts:   exts,
		ignore: loadIgnore(root, opts.Exclude),
	}
	if err := w.dir(""); err != nil {
		return nil, err
	}
	return w.results, nil
}

type walker struct {
	root    string
	exts    map[string]struct{}
	ignore  *ignore.GitIgnore
	results []FileEntry
}

func (w *walker) dir(rel string) error {
	entries, err := os.ReadDir(filepath.Join(w.root, rel))
	if err != nil {
		return err
	}

	var subdirs []string
	for _, e := range entries {
		name := e.Name()
		path := filepath.Join(rel, name)

		if e.IsDir() {
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".egg-info") {
				continue
			}
			if w.ignored(path + "/") {
				continue
			}
			subdirs = append(subdirs, path)
			continue
		}

		// Skip symlinks and other non-regular files
		if !e.Type().IsRegular() || strings.HasPrefix(name, ".") {
			continue
		}
		if w.ignored(path) {
			continue
		}

		ext := filepath.Ext(name)
		if _, ok := w.exts[ext]; !ok {
			continue
		}
		langName := lang.ForExtension(ext)
		if langName == "" {
			continue
		}
		w.results = append(w.results, FileEntry{Path: path, Language: langName})
	}

	for _, sub := range subdirs {
		if err := w.dir(sub); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) ignored(rel string) bool {
	return w.ignore != nil && w.ignore.MatchesPath(filepath.ToSlash(rel))
}

// loadIgnore combines root/.gitignore with extra patterns. It returns nil
// when there is nothing to ignore.
func loadIgnore(root string, extra []string) *ignore.GitIgnore {
	var lines []string
	if data, err := os.ReadFile(filepath.Join(root, ".gitignore")); err == nil {
		lines = append(lines, strings.Split(string(data), "\n")...)
	}
	lines = append(lines, extra...)
	if len(lines) == 0 {
		return nil
	}
	return ignore.CompileIgnoreLines(lines...)
}
