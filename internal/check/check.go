// Package check applies the allure annotation rules to parsed test files.
package check

import (
	"strings"
	"unicode"

	"github.com/phobologic/allurecheck/internal/annotation"
	"github.com/phobologic/allurecheck/internal/model"
	"github.com/phobologic/allurecheck/internal/syntax"
)

const (
	testFuncPrefix  = "test_"
	testClassPrefix = "Test"
	// Testers matches the class prefix but is not a test class.
	exemptClass = "Testers"
)

// SourceUnit is one parsed file. Path is reported in diagnostics as is.
type SourceUnit struct {
	Path string
	Root *syntax.Module
}

// Checker runs the rules over a sequence of files, sharing one id
// registry between them. Files must be checked one at a time, in the
// order that should decide which duplicate id is reported.
type Checker struct {
	registry *Registry
	diags    *model.Set
}

// New returns a Checker that claims ids in registry and appends
// diagnostics to diags.
func New(registry *Registry, diags *model.Set) *Checker {
	return &Checker{registry: registry, diags: diags}
}

// Check walks unit's tree depth-first in source order and returns the
// number of diagnostics it added.
func (c *Checker) Check(unit SourceUnit) int {
	before := c.diags.Len()
	w := walker{Checker: c, path: unit.Path}
	w.walk(unit.Root)
	return c.diags.Len() - before
}

type walker struct {
	*Checker
	path string
}

func (w walker) walk(n syntax.Node) {
	switch n := n.(type) {
	case *syntax.FunctionDef:
		w.function(n)
	case *syntax.ClassDef:
		w.class(n)
	}
	// Diagnostics on a definition never stop descent into its body.
	for _, child := range syntax.Children(n) {
		w.walk(child)
	}
}

func (w walker) function(fn *syntax.FunctionDef) {
	if !strings.HasPrefix(fn.Name, testFuncPrefix) {
		return
	}

	ann := annotation.Scan(fn.Decorators)
	for range ann.Flaky {
		w.report(model.FlakyMarkerPresent, fn.Pos)
	}

	if ann.ID == nil || ann.ID.NumArgs() == 0 {
		w.report(model.MissingIdAnnotation, fn.Pos)
		return
	}

	id, ok := ann.ID.StringArg(0)
	switch {
	case !ok:
		w.report(model.NonStringId, fn.Pos)
	case !isDigits(id):
		w.report(model.MalformedId, fn.Pos)
	case !w.registry.Claim(id):
		w.report(model.DuplicateId, fn.Pos)
	}
}

func (w walker) class(cls *syntax.ClassDef) {
	if !strings.HasPrefix(cls.Name, testClassPrefix) || cls.Name == exemptClass {
		return
	}
	if !annotation.Scan(cls.Decorators).Owner {
		w.report(model.MissingOwnerLabel, cls.Pos)
	}
}

func (w walker) report(kind model.Kind, pos syntax.Pos) {
	w.diags.Append(model.New(kind, w.path, pos.Line, pos.Column))
}

// isDigits reports whether s is non-empty and made only of decimal digits
// (Unicode Nd). Superscripts and other No digits are rejected.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
