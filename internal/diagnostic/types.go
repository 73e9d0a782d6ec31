package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"common-tools/internal/common"
	"common-tools/logger"
)

// Diagnostic codes.
const (
	CodeUnmapped       = "unmapped"
	CodeIgnored        = "ignored"
	CodeIncompatible   = "incompatible"
	CodeLossy          = "lossy"
	CodeUnknownSource  = "unknown_source"
	CodeUnknownTarget  = "unknown_target"
	CodeUnsettable     = "unsettable"
	CodeCasterOverride = "caster"
)

// Diagnostics holds all diagnostic information from resolution.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	Severity    DiagnosticSeverity
	Code        string   // kind of diagnostic, one of the Code constants
	Message     string   // human-readable description
	TypePair    string   // "Src->Dst" the entry relates to
	FieldPath   string   // field the entry relates to, if any
	Suggestions []string // alternative source fields
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

func (d *Diagnostics) add(severity DiagnosticSeverity, code, message, typePair, fieldPath string, suggestions []string) {
	entry := Diagnostic{
		Severity:    severity,
		Code:        code,
		Message:     message,
		TypePair:    typePair,
		FieldPath:   fieldPath,
		Suggestions: suggestions,
	}

	switch severity {
	case DiagnosticError:
		d.Errors = append(d.Errors, entry)
	case DiagnosticWarning:
		d.Warnings = append(d.Warnings, entry)
	default:
		d.Infos = append(d.Infos, entry)
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, typePair, fieldPath string) {
	d.add(DiagnosticError, code, message, typePair, fieldPath, nil)
}

// AddWarning adds a warning diagnostic, optionally with suggestions.
func (d *Diagnostics) AddWarning(code, message, typePair, fieldPath string, suggestions ...string) {
	d.add(DiagnosticWarning, code, message, typePair, fieldPath, suggestions)
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, typePair, fieldPath string) {
	d.add(DiagnosticInfo, code, message, typePair, fieldPath, nil)
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// ByCode returns every entry with the given code, errors first.
func (d *Diagnostics) ByCode(code string) []Diagnostic {
	var out []Diagnostic
	for _, group := range [][]Diagnostic{d.Errors, d.Warnings, d.Infos} {
		for _, entry := range group {
			if entry.Code == code {
				out = append(out, entry)
			}
		}
	}
	return out
}

// Err joins every error diagnostic into one error, nil when there are none.
func (d *Diagnostics) Err() error {
	errs := make([]error, 0, len(d.Errors))
	for _, e := range d.Errors {
		errs = append(errs, errors.New(e.String()))
	}
	return errors.Join(errs...)
}

// Log writes warnings and infos to l at warn and debug level.
func (d *Diagnostics) Log(l logger.Logger) {
	for _, w := range d.Warnings {
		l.Warnw(w.Message, "code", w.Code, "pair", w.TypePair, "field", w.FieldPath, "suggestions", w.Suggestions)
	}
	for _, i := range d.Infos {
		l.Debugw(i.Message, "code", i.Code, "pair", i.TypePair, "field", i.FieldPath)
	}
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var b strings.Builder

	if d.TypePair != "" {
		b.WriteString("[" + d.TypePair + "] ")
	}
	if d.FieldPath != "" {
		b.WriteString(d.FieldPath + ": ")
	}
	if d.Code != "" {
		fmt.Fprintf(&b, "[%s] ", d.Code)
	}
	b.WriteString(d.Message)

	if len(d.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean %s?)", strings.Join(d.Suggestions, ", "))
	}

	return b.String()
}
