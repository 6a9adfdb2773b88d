package asm

import (
	"fmt"
	"strings"

	"simasm/pkg/diag"
	"simasm/pkg/isa"
)

// Operand is an instruction operand or a directive value.
//
//	LDA TABLE+2   Operand{Mode: isa.Direct, Symbol: "TABLE", Offset: 2}
//	LDA @PTR      Operand{Mode: isa.Indirect, Symbol: "PTR"}
//	LDA #5        Operand{Mode: isa.Immediate, Value: 5}
type Operand struct {
	Mode   isa.Mode
	Symbol string // referenced name; empty for a literal
	Value  int    // literal value when Symbol is empty
	Offset int    // added to the symbol's value
	Pos    diag.Position
	Len    int

	NamePos diag.Position // where Symbol is spelled
}

// IsSymbol reports whether the operand refers to a name.
func (o Operand) IsSymbol() bool {
	return o.Symbol != ""
}

func (o Operand) String() string {
	var sb strings.Builder
	switch o.Mode {
	case isa.Immediate:
		sb.WriteByte('#')
	case isa.Indirect:
		sb.WriteByte('@')
	}
	if o.IsSymbol() {
		sb.WriteString(o.Symbol)
		if o.Offset != 0 {
			fmt.Fprintf(&sb, "+%d", o.Offset)
		}
	} else {
		fmt.Fprintf(&sb, "%d", o.Value)
	}
	return sb.String()
}

// Label is a name defined by "NAME:" in front of a statement.
type Label struct {
	Name string
	Pos  diag.Position
	Len  int
}

// StatementKind tells instructions, directives and label-only lines apart.
type StatementKind int

const (
	KindEmpty StatementKind = iota // labels only
	KindInstruction
	KindDirective
)

func (k StatementKind) String() string {
	switch k {
	case KindInstruction:
		return "instruction"
	case KindDirective:
		return "directive"
	default:
		return "empty"
	}
}

// Statement is the parse of one source line.
type Statement struct {
	Labels   []Label
	Kind     StatementKind
	Name     string // upper-cased mnemonic or directive keyword
	NamePos  diag.Position
	NameLen  int
	Operands []Operand // instruction operands, or ORG/DS/END/DB/DW values
	Text     string    // STR payload
	Define   Label     // constant introduced by "NAME EQU value"
	Pos      diag.Position
	Line     int

	// Filled in by the layout pass.
	Address int
	Size    int
}

// IsDirective reports whether s is the named directive.
func (s *Statement) IsDirective(name string) bool {
	return s.Kind == KindDirective && s.Name == name
}

func (s *Statement) String() string {
	var sb strings.Builder
	for _, l := range s.Labels {
		sb.WriteString(l.Name)
		sb.WriteString(": ")
	}
	if s.IsDirective(isa.DirEQU) {
		fmt.Fprintf(&sb, "%s EQU ", s.Define.Name)
	} else if s.Kind != KindEmpty {
		sb.WriteString(s.Name)
		sb.WriteByte(' ')
	}
	if s.IsDirective(isa.DirSTR) {
		fmt.Fprintf(&sb, "%q", s.Text)
	}
	for i, op := range s.Operands {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(op.String())
	}
	return strings.TrimSpace(sb.String())
}
