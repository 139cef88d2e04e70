package diagnostics

import (
	"fmt"
	"io"
)

// Severity levels for diagnostics
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFO"
	}
	return "UNKNOWN"
}

// Diagnostic represents a compiler diagnostic message
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Message  string
	Line     int
	Column   int
	File     string
}

// DiagnosticEngine collects and reports diagnostics
type DiagnosticEngine struct {
	diagnostics []Diagnostic
	errorCount  int
	warnCount   int
}

// NewDiagnosticEngine creates a new diagnostic engine
func NewDiagnosticEngine() *DiagnosticEngine {
	return &DiagnosticEngine{
		diagnostics: make([]Diagnostic, 0),
	}
}

// Report records a semantic error.
func (d *DiagnosticEngine) Report(err *Error) {
	d.diagnostics = append(d.diagnostics, Diagnostic{
		Severity: SeverityError,
		Kind:     err.Kind,
		Message:  err.Message,
		File:     err.Pos.File,
		Line:     err.Pos.Line,
		Column:   err.Pos.Column,
	})
	d.errorCount++
}

// WarningAt reports a warning at a specific location
func (d *DiagnosticEngine) WarningAt(file string, line, column int, message string) {
	d.diagnostics = append(d.diagnostics, Diagnostic{
		Severity: SeverityWarning,
		Message:  message,
		File:     file,
		Line:     line,
		Column:   column,
	})
	d.warnCount++
}

// HasErrors returns true if any errors were reported
func (d *DiagnosticEngine) HasErrors() bool {
	return d.errorCount > 0
}

// ErrorCount returns the number of errors
func (d *DiagnosticEngine) ErrorCount() int {
	return d.errorCount
}

// WarningCount returns the number of warnings
func (d *DiagnosticEngine) WarningCount() int {
	return d.warnCount
}

// Diagnostics returns everything reported so far, in order.
func (d *DiagnosticEngine) Diagnostics() []Diagnostic {
	return d.diagnostics
}

// Print outputs all diagnostics
func (d *DiagnosticEngine) Print(w io.Writer) {
	for _, diag := range d.diagnostics {
		if diag.File != "" {
			fmt.Fprintf(w, "%s:%d:%d: %s: %s\n",
				diag.File, diag.Line, diag.Column, diag.Severity, diag.Message)
		} else {
			fmt.Fprintf(w, "%s: %s\n", diag.Severity, diag.Message)
		}
	}
}
