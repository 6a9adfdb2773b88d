package isa

import (
	"fmt"
	"strings"
)

// MemorySize is the number of addressable bytes on the target machine.
const MemorySize = 256

// Opcode is the encoded form of a mnemonic. The low two bits of every opcode
// that takes an operand are left clear for the addressing mode.
type Opcode byte

const (
	OpNOP  Opcode = 0x00
	OpSTA  Opcode = 0x10
	OpSTS  Opcode = 0x14
	OpLDA  Opcode = 0x20
	OpLDS  Opcode = 0x24
	OpADD  Opcode = 0x30
	OpADC  Opcode = 0x34
	OpSUB  Opcode = 0x38
	OpSBC  Opcode = 0x3C
	OpOR   Opcode = 0x40
	OpXOR  Opcode = 0x44
	OpAND  Opcode = 0x50
	OpNOT  Opcode = 0x60
	OpSHL  Opcode = 0x70
	OpSHR  Opcode = 0x74
	OpSRA  Opcode = 0x78
	OpJMP  Opcode = 0x80
	OpJN   Opcode = 0x90
	OpJP   Opcode = 0x94
	OpJZ   Opcode = 0xA0
	OpJNZ  Opcode = 0xA4
	OpJC   Opcode = 0xB0
	OpJNC  Opcode = 0xB4
	OpIN   Opcode = 0xC0
	OpOUT  Opcode = 0xC4
	OpJSR  Opcode = 0xD0
	OpRET  Opcode = 0xD8
	OpPUSH Opcode = 0xE0
	OpPOP  Opcode = 0xE4
	OpTRAP Opcode = 0xF0
	OpHLT  Opcode = 0xFF
)

// Mode is a syntactic operand form.
type Mode uint8

const (
	Direct    Mode = iota // plain reference: LDA X
	Indirect              // pointer reference: LDA @X
	Immediate             // literal data: LDA #5
)

var modeNames = [...]string{
	Direct:    "direct",
	Indirect:  "indirect",
	Immediate: "immediate",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Bits returns the value OR'ed into the opcode byte for this form.
func (m Mode) Bits() byte {
	return byte(m)
}

// Forms is a set of accepted operand forms. The zero value means the
// instruction takes no operand.
type Forms uint8

const (
	FormDirect    Forms = 1 << Direct
	FormIndirect  Forms = 1 << Indirect
	FormImmediate Forms = 1 << Immediate

	memoryForms = FormDirect | FormIndirect
	dataForms   = FormDirect | FormIndirect | FormImmediate
)

// Has reports whether m is one of the forms in f.
func (f Forms) Has(m Mode) bool {
	return f&(1<<m) != 0
}

func (f Forms) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	for m := Direct; m <= Immediate; m++ {
		if f.Has(m) {
			parts = append(parts, m.String())
		}
	}
	return strings.Join(parts, "/")
}

// Instruction describes one entry of the instruction set.
type Instruction struct {
	Mnemonic string
	Opcode   Opcode
	Forms    Forms
}

// TakesOperand reports whether the instruction is followed by an operand byte.
func (in Instruction) TakesOperand() bool {
	return in.Forms != 0
}

// Size returns the encoded length in bytes.
func (in Instruction) Size() int {
	if in.TakesOperand() {
		return 2
	}
	return 1
}

// Encode returns the opcode byte for the given operand form.
func (in Instruction) Encode(m Mode) byte {
	if !in.TakesOperand() {
		return byte(in.Opcode)
	}
	return byte(in.Opcode) | m.Bits()
}

// instructions is the closed instruction set, in opcode order.
var instructions = [...]Instruction{
	{"NOP", OpNOP, 0},
	{"STA", OpSTA, memoryForms},
	{"STS", OpSTS, memoryForms},
	{"LDA", OpLDA, dataForms},
	{"LDS", OpLDS, dataForms},
	{"ADD", OpADD, dataForms},
	{"ADC", OpADC, dataForms},
	{"SUB", OpSUB, dataForms},
	{"SBC", OpSBC, dataForms},
	{"OR", OpOR, dataForms},
	{"XOR", OpXOR, dataForms},
	{"AND", OpAND, dataForms},
	{"NOT", OpNOT, 0},
	{"SHL", OpSHL, 0},
	{"SHR", OpSHR, 0},
	{"SRA", OpSRA, 0},
	{"JMP", OpJMP, memoryForms},
	{"JN", OpJN, memoryForms},
	{"JP", OpJP, memoryForms},
	{"JZ", OpJZ, memoryForms},
	{"JNZ", OpJNZ, memoryForms},
	{"JC", OpJC, memoryForms},
	{"JNC", OpJNC, memoryForms},
	{"IN", OpIN, FormDirect},
	{"OUT", OpOUT, FormDirect},
	{"JSR", OpJSR, memoryForms},
	{"RET", OpRET, 0},
	{"PUSH", OpPUSH, 0},
	{"POP", OpPOP, 0},
	{"TRAP", OpTRAP, FormDirect},
	{"HLT", OpHLT, 0},
}

var byMnemonic = func() map[string]Instruction {
	m := make(map[string]Instruction, len(instructions))
	for _, in := range instructions {
		m[in.Mnemonic] = in
	}
	return m
}()

// Directive names, upper case.
const (
	DirORG = "ORG"
	DirEQU = "EQU"
	DirEND = "END"
	DirDS  = "DS"
	DirDB  = "DB"
	DirDW  = "DW"
	DirSTR = "STR"
)

var directives = map[string]bool{
	DirORG: true,
	DirEQU: true,
	DirEND: true,
	DirDS:  true,
	DirDB:  true,
	DirDW:  true,
	DirSTR: true,
}

// Lookup returns the instruction for a mnemonic, ignoring case.
func Lookup(mnemonic string) (Instruction, bool) {
	in, ok := byMnemonic[strings.ToUpper(mnemonic)]
	return in, ok
}

// Instructions returns a copy of the instruction table in opcode order.
func Instructions() []Instruction {
	out := make([]Instruction, len(instructions))
	copy(out, instructions[:])
	return out
}

// IsDirective reports whether name is a directive keyword, ignoring case.
func IsDirective(name string) bool {
	return directives[strings.ToUpper(name)]
}

// IsReserved reports whether name may not be used as a symbol.
func IsReserved(name string) bool {
	if IsDirective(name) {
		return true
	}
	_, ok := Lookup(name)
	return ok
}
