package diag

import (
	"fmt"
	"io"
	"strings"
)

// Render writes each diagnostic as
//
//	<file>:<line>:<column>: <Category> error! <message>
//	<source line>
//	    ^~~~
//
// lines is the original source split on newlines.
func Render(w io.Writer, file string, lines []string, diags []Diagnostic) error {
	for _, d := range diags {
		if _, err := fmt.Fprintf(w, "%s:%s: %s %s! %s\n", file, d.Pos, d.Category(), d.Severity, d.Message); err != nil {
			return err
		}
		idx := d.Pos.Line - 1
		if idx < 0 || idx >= len(lines) {
			continue
		}
		src := strings.TrimRight(lines[idx], "\r")
		if _, err := fmt.Fprintf(w, "%s\n%s\n", src, Marker(d.Pos.Column, d.Len)); err != nil {
			return err
		}
	}
	return nil
}

// Marker returns column-1 spaces, a caret and length-1 tildes.
func Marker(column, length int) string {
	return strings.Repeat(" ", max(column-1, 0)) + "^" + strings.Repeat("~", max(length-1, 0))
}
