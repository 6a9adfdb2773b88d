package asm

import (
	"simasm/pkg/diag"
	"simasm/pkg/isa"
	"simasm/pkg/mem"
)

// encoder is the second pass. Every symbol is known by now, so forward
// references resolve like any other.
type encoder struct {
	syms      *SymbolTable
	image     *mem.Image
	sink      *diag.Sink
	sourceMap map[int]int
}

// encode writes every laid out statement into the image. Errors are reported
// per statement; a failing statement writes nothing and encoding continues
// with the next one so that all problems are reported in one run.
func (e *encoder) encode(stmts []*Statement) {
	for _, st := range stmts {
		switch st.Kind {
		case KindInstruction:
			e.instruction(st)
		case KindDirective:
			e.directive(st)
		}
	}
}

func (e *encoder) instruction(st *Statement) {
	in, ok := isa.Lookup(st.Name)
	if !ok {
		// layout reports unknown mnemonics and then stops the pipeline
		return
	}

	if !in.TakesOperand() {
		if len(st.Operands) > 0 {
			op := st.Operands[0]
			e.sink.Errorf(diag.AddressingModeMismatch, op.Pos, e.operandsSpan(st),
				"%s takes no operand", in.Mnemonic)
			return
		}
		e.emit(st, byte(in.Opcode))
		return
	}

	switch len(st.Operands) {
	case 0:
		e.sink.Errorf(diag.AddressingModeMismatch, st.NamePos, st.NameLen,
			"%s needs an operand (%s)", in.Mnemonic, in.Forms)
		return
	case 1:
	default:
		extra := st.Operands[1]
		last := st.Operands[len(st.Operands)-1]
		e.sink.Errorf(diag.AddressingModeMismatch, extra.Pos, last.Pos.Column+last.Len-extra.Pos.Column,
			"%s takes a single operand", in.Mnemonic)
		return
	}

	op := st.Operands[0]
	if !in.Forms.Has(op.Mode) {
		e.sink.Errorf(diag.AddressingModeMismatch, op.Pos, op.Len,
			"%s does not accept %s addressing (accepts %s)", in.Mnemonic, op.Mode, in.Forms)
		return
	}
	v, ok := e.resolve(op, 0xFF, "operand")
	if !ok {
		return
	}
	e.emit(st, in.Encode(op.Mode), byte(v))
}

func (e *encoder) directive(st *Statement) {
	switch st.Name {
	case isa.DirDB:
		out := make([]byte, 0, len(st.Operands))
		for _, op := range st.Operands {
			v, ok := e.resolve(op, 0xFF, "byte")
			if !ok {
				return
			}
			out = append(out, byte(v))
		}
		e.emit(st, out...)
	case isa.DirDW:
		out := make([]byte, 0, 2*len(st.Operands))
		for _, op := range st.Operands {
			v, ok := e.resolve(op, 0xFFFF, "word")
			if !ok {
				return
			}
			out = append(out, byte(v), byte(v>>8))
		}
		e.emit(st, out...)
	case isa.DirSTR:
		e.emit(st, []byte(st.Text)...)
	case isa.DirEND:
		if len(st.Operands) == 0 {
			return
		}
		if v, ok := e.resolve(st.Operands[0], isa.MemorySize-1, "entry point"); ok {
			e.image.SetEntry(v)
		}
	}
}

// resolve returns the value of op and checks it against 0..limit.
func (e *encoder) resolve(op Operand, limit int, what string) (int, bool) {
	v := op.Value
	if op.IsSymbol() {
		sym, ok := e.syms.Lookup(op.Symbol)
		if !ok {
			e.sink.Errorf(diag.UndefinedSymbol, op.NamePos, len(op.Symbol), "undefined symbol '%s'", op.Symbol)
			return 0, false
		}
		v = sym.Value + op.Offset
	}
	if v < 0 || v > limit {
		e.sink.Errorf(diag.ValueOutOfRange, op.Pos, op.Len,
			"%s value %d is out of range (0-%d)", what, v, limit)
		return 0, false
	}
	return v, true
}

// emit stores data at the statement's address, opcode first.
func (e *encoder) emit(st *Statement, data ...byte) {
	if len(data) == 0 {
		return
	}
	for i, b := range data {
		if err := e.image.Store(st.Address+i, b); err != nil {
			pos, n := st.span()
			e.sink.Errorf(diag.MemoryOverflow, pos, n, "%v", err)
			return
		}
	}
	e.sourceMap[st.Address] = st.Line
}

// operandsSpan measures from the first to the end of the last operand.
func (e *encoder) operandsSpan(st *Statement) int {
	first := st.Operands[0]
	last := st.Operands[len(st.Operands)-1]
	return last.Pos.Column + last.Len - first.Pos.Column
}
