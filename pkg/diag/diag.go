// Package diag holds the diagnostics produced while assembling a program:
// source positions, the error taxonomy, an accumulating sink and the
// caret-style renderer used by the command line tools.
package diag

import (
	"fmt"
	"strings"
)

// Position is a 1-based line and column in the source text. Columns count
// runes, not bytes.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid reports whether p points into a source text.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// Category groups codes by the stage that detects them.
type Category int

const (
	Lexical Category = iota
	Parse
	Semantic
)

var categoryNames = [...]string{
	Lexical:  "Lexical",
	Parse:    "Parse",
	Semantic: "Semantic",
}

func (c Category) String() string {
	if int(c) >= 0 && int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Code identifies the condition behind a diagnostic.
type Code int

const (
	// Lexical
	UnexpectedCharacter Code = iota
	UnterminatedString
	MalformedNumber

	// Parse
	UnexpectedToken
	MissingOperand

	// Semantic
	UnknownInstruction
	AlreadyDefined
	ReservedWord
	UndefinedSymbol
	ValueOutOfRange
	AddressingModeMismatch
	MemoryOverflow
	TrailingGarbage
	IgnoredAfterEnd
)

var codeNames = [...]string{
	UnexpectedCharacter:    "UnexpectedCharacter",
	UnterminatedString:     "UnterminatedString",
	MalformedNumber:        "MalformedNumber",
	UnexpectedToken:        "UnexpectedToken",
	MissingOperand:         "MissingOperand",
	UnknownInstruction:     "UnknownInstruction",
	AlreadyDefined:         "AlreadyDefined",
	ReservedWord:           "ReservedWord",
	UndefinedSymbol:        "UndefinedSymbol",
	ValueOutOfRange:        "ValueOutOfRange",
	AddressingModeMismatch: "AddressingModeMismatch",
	MemoryOverflow:         "MemoryOverflow",
	TrailingGarbage:        "TrailingGarbage",
	IgnoredAfterEnd:        "IgnoredAfterEnd",
}

func (c Code) String() string {
	if int(c) >= 0 && int(c) < len(codeNames) {
		return codeNames[c]
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// Category returns the stage family the code belongs to.
func (c Code) Category() Category {
	switch {
	case c <= MalformedNumber:
		return Lexical
	case c <= MissingOperand:
		return Parse
	default:
		return Semantic
	}
}

// Severity separates errors, which fail a translation, from warnings.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one reported condition, anchored at a source span.
type Diagnostic struct {
	Code     Code
	Severity Severity
	Message  string
	Pos      Position
	Len      int
}

// Category is shorthand for d.Code.Category().
func (d Diagnostic) Category() Category {
	return d.Code.Category()
}

// Error formats the diagnostic on one line, without the file name.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s %s! %s", d.Pos, d.Category(), d.Severity, d.Message)
}

// New builds an error-severity diagnostic.
func New(code Code, pos Position, length int, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
		Len:     length,
	}
}

// Sink accumulates diagnostics in the order they are reported.
type Sink struct {
	items  []Diagnostic
	errors int
}

// Report appends d to the sink.
func (s *Sink) Report(d Diagnostic) {
	if d.Severity == Error {
		s.errors++
	}
	s.items = append(s.items, d)
}

// Errorf reports an error-severity diagnostic.
func (s *Sink) Errorf(code Code, pos Position, length int, format string, args ...any) {
	s.Report(*New(code, pos, length, format, args...))
}

// Warnf reports a warning.
func (s *Sink) Warnf(code Code, pos Position, length int, format string, args ...any) {
	d := New(code, pos, length, format, args...)
	d.Severity = Warning
	s.Report(*d)
}

// HasErrors reports whether any error-severity diagnostic was reported.
func (s *Sink) HasErrors() bool {
	return s.errors > 0
}

// ErrorCount returns the number of error-severity diagnostics.
func (s *Sink) ErrorCount() int {
	return s.errors
}

// All returns a copy of every diagnostic, warnings included.
func (s *Sink) All() []Diagnostic {
	out := make([]Diagnostic, len(s.items))
	copy(out, s.items)
	return out
}

// Errors returns only the error-severity diagnostics.
func (s *Sink) Errors() []Diagnostic {
	return filter(s.items, Error)
}

// Warnings returns only the warnings.
func (s *Sink) Warnings() []Diagnostic {
	return filter(s.items, Warning)
}

func filter(items []Diagnostic, sev Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range items {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}

// Summary returns "N error(s), M warning(s)".
func Summary(diags []Diagnostic) string {
	var errs, warns int
	for _, d := range diags {
		if d.Severity == Warning {
			warns++
		} else {
			errs++
		}
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d error(s)", errs)
	if warns > 0 {
		fmt.Fprintf(&sb, ", %d warning(s)", warns)
	}
	return sb.String()
}
