// Package grid lays memory out as rows of fixed width, for dumps and viewers.
package grid

import (
	"fmt"
	"strings"
)

// GetGridCoords returns the column and row of index in a grid cols wide.
func GetGridCoords(index, cols int) (x, y int) {
	return index % cols, index / cols
}

// Index is the inverse of GetGridCoords.
func Index(x, y, cols int) int {
	return y*cols + x
}

// Rows returns how many rows of width cols hold n cells.
func Rows(n, cols int) int {
	return (n + cols - 1) / cols
}

// Unwritten is how HexDump shows a cell that was never written.
const Unwritten = ".."

// HexDump renders data as rows of cols hex bytes, each prefixed with the
// address of its first cell. Cells for which written returns false show as
// Unwritten; a nil written shows every cell.
//
//	00: 22 05 32 03 10 06 .. FF
func HexDump(data []byte, cols int, written func(addr int) bool) []string {
	lines := make([]string, 0, Rows(len(data), cols))
	var sb strings.Builder
	for i, b := range data {
		x, _ := GetGridCoords(i, cols)
		if x == 0 {
			sb.Reset()
			fmt.Fprintf(&sb, "%02X:", i)
		}
		if written == nil || written(i) {
			fmt.Fprintf(&sb, " %02X", b)
		} else {
			sb.WriteString(" " + Unwritten)
		}
		if x == cols-1 || i == len(data)-1 {
			lines = append(lines, sb.String())
		}
	}
	return lines
}
