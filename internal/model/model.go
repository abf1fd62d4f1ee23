// Package model defines the diagnostic data structures for allurecheck.
package model

import "fmt"

// Severity of a diagnostic. Only errors fail a run.
type Severity string

const (
	Error   Severity = "error"
	Warning Severity = "warning"
)

// Kind identifies which rule produced a diagnostic.
type Kind string

const (
	MissingIdAnnotation Kind = "MissingIdAnnotation"
	NonStringId         Kind = "NonStringId"
	MalformedId         Kind = "MalformedId"
	DuplicateId         Kind = "DuplicateId"
	FlakyMarkerPresent  Kind = "FlakyMarkerPresent"
	MissingOwnerLabel   Kind = "MissingOwnerLabel"
)

type rule struct {
	message  string
	severity Severity
}

var rules = map[Kind]rule{
	MissingIdAnnotation: {"Function is missing @allure.id decorator", Error},
	NonStringId:         {"Function has non-str @allure.id", Warning},
	DuplicateId:         {"Function has non-unique @allure.id", Error},
	MalformedId:         {"@allure.id for function should contain only digits", Error},
	FlakyMarkerPresent:  {"Function has @pytest.mark.flaky decorator", Error},
	MissingOwnerLabel:   {`Class does not have @allure.label("owner", "...") decorator`, Error},
}

// Message returns the fixed message text for the kind.
func (k Kind) Message() string {
	return rules[k].message
}

// Severity returns the default severity for the kind.
func (k Kind) Severity() Severity {
	return rules[k].severity
}

// Diagnostic is a single rule violation at a source location.
// Line is 1-based, Column is a 0-based byte offset.
type Diagnostic struct {
	Kind     Kind
	Message  string
	File     string
	Line     int
	Column   int
	Severity Severity
}

// New builds a diagnostic for kind using its fixed message and severity.
func New(kind Kind, file string, line, column int) Diagnostic {
	return Diagnostic{
		Kind:     kind,
		Message:  kind.Message(),
		File:     file,
		Line:     line,
		Column:   column,
		Severity: kind.Severity(),
	}
}

// String renders the diagnostic as "<file>:<line> <message>".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d %s", d.File, d.Line, d.Message)
}

// Set is an append-only, ordered collection of diagnostics for a whole run.
type Set struct {
	items []Diagnostic
}

// Append adds d to the end of the set.
func (s *Set) Append(d Diagnostic) {
	s.items = append(s.items, d)
}

// Items returns the diagnostics in the order they were appended.
// The returned slice must not be modified.
func (s *Set) Items() []Diagnostic {
	return s.items
}

// Len returns the number of diagnostics.
func (s *Set) Len() int {
	return len(s.items)
}

// HasAnyError reports whether any diagnostic has error severity.
func (s *Set) HasAnyError() bool {
	for i := range s.items {
		if s.items[i].Severity == Error {
			return true
		}
	}
	return false
}

