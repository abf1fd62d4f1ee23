// Package report writes diagnostics as colored text lines or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/phobologic/allurecheck/internal/model"
)

// Format selects the output encoding.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
)

// ParseFormat validates a -format flag value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case Text, JSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want text or json)", s)
}

// Write encodes diags to w in format f. useColor applies to Text only.
func Write(w io.Writer, f Format, diags []model.Diagnostic, useColor bool) error {
	if f == JSON {
		return WriteJSON(w, diags)
	}
	return WriteText(w, diags, useColor)
}

func severityColor(s model.Severity, useColor bool) *color.Color {
	var c *color.Color
	switch s {
	case model.Error:
		c = color.New(color.FgHiRed)
	case model.Warning:
		c = color.New(color.FgHiYellow)
	default:
		c = color.New(color.Reset)
	}
	if useColor {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// WriteText writes one "<file>:<line> <message>" line per diagnostic,
// colored by severity when useColor is set.
func WriteText(w io.Writer, diags []model.Diagnostic, useColor bool) error {
	for _, d := range diags {
		line := severityColor(d.Severity, useColor).Sprint(d.String())
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

type jsonDiagnostic struct {
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

type jsonReport struct {
	Diagnostics []jsonDiagnostic `json:"diagnostics"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
}

// WriteJSON writes all diagnostics as a single JSON document.
func WriteJSON(w io.Writer, diags []model.Diagnostic) error {
	out := jsonReport{Diagnostics: make([]jsonDiagnostic, 0, len(diags))}
	for _, d := range diags {
		out.Diagnostics = append(out.Diagnostics, jsonDiagnostic{
			Kind:     string(d.Kind),
			Severity: string(d.Severity),
			Message:  d.Message,
			File:     d.File,
			Line:     d.Line,
			Column:   d.Column,
		})
		switch d.Severity {
		case model.Error:
			out.Errors++
		case model.Warning:
			out.Warnings++
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
