package asm

import (
	"fmt"
	"io"
	"strings"

	"simasm/pkg/isa"
)

const listingBytes = 4

// WriteListing writes one row per source line: the address and first bytes
// of whatever the line emitted, then the line itself.
//
//	00  22 05        1  START: LDA #5
func (r *Result) WriteListing(w io.Writer) error {
	byLine := make(map[int]*Statement, len(r.Statements))
	for _, st := range r.Statements {
		byLine[st.Line] = st
	}

	for i, text := range r.Lines {
		line := i + 1
		addr, data := "", ""
		if st, ok := byLine[line]; ok && st.Kind != KindEmpty && !st.IsDirective(isa.DirEQU) {
			addr = fmt.Sprintf("%02X", st.Address)
			data = r.bytesOf(st)
		}
		if _, err := fmt.Fprintf(w, "%-2s  %-12s %4d  %s\n", addr, data, line, text); err != nil {
			return err
		}
	}
	return nil
}

func (r *Result) bytesOf(st *Statement) string {
	if st.IsDirective(isa.DirDS) || st.IsDirective(isa.DirORG) || st.IsDirective(isa.DirEND) {
		return ""
	}
	var parts []string
	for i := 0; i < st.Size && i < listingBytes; i++ {
		if !r.Image.Written(st.Address + i) {
			break
		}
		parts = append(parts, fmt.Sprintf("%02X", r.Image.Load(st.Address+i)))
	}
	s := strings.Join(parts, " ")
	if st.Size > listingBytes && len(parts) == listingBytes {
		s += "+"
	}
	return s
}
