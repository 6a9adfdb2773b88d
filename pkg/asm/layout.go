package asm

import (
	"errors"

	"simasm/pkg/diag"
	"simasm/pkg/isa"
)

// layout is the first pass. It walks the statements once with a location
// counter starting at 0, binds labels and EQU constants, and sets the Address
// and Size of every statement. No memory is written.
//
// It returns the statements that take part in the program (everything up to
// and including END) and false when it stopped on a fatal condition.
func layout(stmts []*Statement, syms *SymbolTable, sink *diag.Sink) ([]*Statement, bool) {
	lc := 0
	for i, st := range stmts {
		st.Address = lc
		for _, l := range st.Labels {
			define(syms, sink, l, SymbolLabel, lc)
		}

		size := 0
		switch st.Kind {
		case KindInstruction:
			in, ok := isa.Lookup(st.Name)
			if !ok {
				sink.Errorf(diag.UnknownInstruction, st.NamePos, st.NameLen, "unknown instruction '%s'", st.Name)
				break
			}
			size = in.Size()

		case KindDirective:
			switch st.Name {
			case isa.DirORG:
				op := st.Operands[0]
				v, ok := resolveEarly(syms, sink, op, st.Name)
				if !ok {
					break
				}
				if v > isa.MemorySize {
					sink.Errorf(diag.MemoryOverflow, op.Pos, op.Len,
						"ORG %d is beyond the end of memory (%d bytes)", v, isa.MemorySize)
					return stmts[:i+1], false
				}
				lc = v
				st.Address = v
			case isa.DirEQU:
				define(syms, sink, st.Define, SymbolConstant, st.Operands[0].Value)
			case isa.DirDS:
				if v, ok := resolveEarly(syms, sink, st.Operands[0], st.Name); ok {
					size = v
				}
			case isa.DirDB:
				size = len(st.Operands)
			case isa.DirDW:
				size = 2 * len(st.Operands)
			case isa.DirSTR:
				size = len(st.Text)
			case isa.DirEND:
				if rest := nonBlank(stmts[i+1:]); len(rest) > 0 {
					pos, n := rest[0].span()
					sink.Warnf(diag.IgnoredAfterEnd, pos, n, "%d statement(s) after END ignored", len(rest))
				}
				return stmts[:i+1], true
			}
		}

		if lc+size > isa.MemorySize {
			pos, n := st.span()
			sink.Errorf(diag.MemoryOverflow, pos, n,
				"%d byte(s) at address %d do not fit in memory (%d bytes)", size, lc, isa.MemorySize)
			return stmts[:i+1], false
		}
		st.Size = size
		lc += size
	}
	return stmts, true
}

// define binds a label or constant and reports naming conflicts.
func define(syms *SymbolTable, sink *diag.Sink, l Label, kind SymbolKind, value int) {
	prev, err := syms.Define(Symbol{Name: l.Name, Kind: kind, Value: value, DefinedAt: l.Pos})
	switch {
	case errors.Is(err, ErrReservedWord):
		sink.Errorf(diag.ReservedWord, l.Pos, l.Len, "'%s' is a reserved word and cannot name a %s", l.Name, kind)
	case errors.Is(err, ErrAlreadyDefined):
		sink.Errorf(diag.AlreadyDefined, l.Pos, l.Len, "'%s' already defined at %s", l.Name, prev.DefinedAt)
	}
}

// resolveEarly evaluates a value that layout needs immediately: a literal, or
// a symbol defined on an earlier line.
func resolveEarly(syms *SymbolTable, sink *diag.Sink, op Operand, directive string) (int, bool) {
	if !op.IsSymbol() {
		return op.Value, true
	}
	sym, ok := syms.Lookup(op.Symbol)
	if !ok {
		sink.Errorf(diag.UndefinedSymbol, op.NamePos, len(op.Symbol),
			"'%s' must be defined before %s uses it", op.Symbol, directive)
		return 0, false
	}
	return sym.Value + op.Offset, true
}

// span returns the position and length that diagnostics about s point at.
func (s *Statement) span() (diag.Position, int) {
	switch {
	case s.IsDirective(isa.DirEQU):
		return s.Define.Pos, s.Define.Len
	case s.Kind != KindEmpty:
		return s.NamePos, s.NameLen
	case len(s.Labels) > 0:
		return s.Labels[0].Pos, s.Labels[0].Len
	default:
		return s.Pos, 1
	}
}

func nonBlank(stmts []*Statement) []*Statement {
	var out []*Statement
	for _, st := range stmts {
		if st.Kind != KindEmpty || len(st.Labels) > 0 {
			out = append(out, st)
		}
	}
	return out
}
