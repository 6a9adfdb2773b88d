package asm

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"simasm/pkg/diag"
	"simasm/pkg/isa"
)

var (
	ErrAlreadyDefined = errors.New("symbol already defined")
	ErrReservedWord   = errors.New("reserved word")
)

type SymbolKind int

const (
	SymbolLabel SymbolKind = iota
	SymbolConstant
)

func (k SymbolKind) String() string {
	if k == SymbolConstant {
		return "constant"
	}
	return "label"
}

// Symbol is a named address (label) or literal value (constant).
type Symbol struct {
	Name      string
	Kind      SymbolKind
	Value     int
	DefinedAt diag.Position
}

// SymbolTable maps names to symbols. Names are compared without regard to
// case and must be unique whatever their kind.
type SymbolTable struct {
	symbols map[string]Symbol
	order   []string
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]Symbol)}
}

func normalizeName(name string) string {
	return strings.ToUpper(name)
}

// Define adds sym. It fails with ErrReservedWord when the name is a mnemonic
// or directive and with ErrAlreadyDefined when the name is taken; the
// existing symbol is returned in the latter case.
func (s *SymbolTable) Define(sym Symbol) (Symbol, error) {
	if isa.IsReserved(sym.Name) {
		return Symbol{}, fmt.Errorf("%w: '%s'", ErrReservedWord, sym.Name)
	}
	key := normalizeName(sym.Name)
	if prev, ok := s.symbols[key]; ok {
		return prev, fmt.Errorf("%w: '%s'", ErrAlreadyDefined, sym.Name)
	}
	s.symbols[key] = sym
	s.order = append(s.order, key)
	return sym, nil
}

// Lookup returns the symbol and whether it was found.
func (s *SymbolTable) Lookup(name string) (Symbol, bool) {
	sym, ok := s.symbols[normalizeName(name)]
	return sym, ok
}

// Len returns the number of defined symbols.
func (s *SymbolTable) Len() int {
	return len(s.symbols)
}

// Symbols returns every symbol in definition order.
func (s *SymbolTable) Symbols() []Symbol {
	out := make([]Symbol, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.symbols[key])
	}
	return out
}

// String returns a deterministically ordered dump of the table.
func (s *SymbolTable) String() string {
	if len(s.symbols) == 0 {
		return "Symbols: (empty)\n"
	}
	keys := make([]string, 0, len(s.symbols))
	for key := range s.symbols {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("Symbols:\n")
	for _, key := range keys {
		sym := s.symbols[key]
		fmt.Fprintf(&sb, "  %-20s  %-8s 0x%02X (%d)  defined at %s\n", sym.Name, sym.Kind, sym.Value, sym.Value, sym.DefinedAt)
	}
	return sb.String()
}
