// Package termview mirrors assembled memory in a terminal. It is fed by the
// assembler's write notifications and never reads the assembler's state.
package termview

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"simasm/pkg/grid"
	"simasm/pkg/mem"
)

// Cols is the number of bytes shown per row.
const Cols = 16

const (
	gridTop  = 2
	gridLeft = 4
	cellW    = 3
)

var (
	styleTitle   = tcell.StyleDefault.Bold(true)
	styleAddr    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleByte    = tcell.StyleDefault
	styleEmpty   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleLatest  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGreen)
	styleMessage = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleHelp    = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// View draws a memory grid, a status line and a block of messages.
type View struct {
	screen tcell.Screen

	data    [mem.Size]byte
	written [mem.Size]bool
	latest  int
	writes  int

	status   string
	messages []string
}

// New returns a view drawing on an initialised screen.
func New(screen tcell.Screen) *View {
	v := &View{screen: screen}
	v.Reset()
	return v
}

// Reset forgets every byte and message.
func (v *View) Reset() {
	v.data = [mem.Size]byte{}
	v.written = [mem.Size]bool{}
	v.latest = -1
	v.writes = 0
	v.messages = nil
}

// OnWrite records one committed byte. It has the mem.WriteFunc signature.
func (v *View) OnWrite(addr int, value byte) {
	if addr < 0 || addr >= mem.Size {
		return
	}
	v.data[addr] = value
	v.written[addr] = true
	v.latest = addr
	v.writes++
}

// Writes returns how many writes were recorded since the last Reset.
func (v *View) Writes() int {
	return v.writes
}

func (v *View) SetStatus(status string) {
	v.status = status
}

// SetMessages replaces the lines shown under the grid.
func (v *View) SetMessages(lines []string) {
	v.messages = lines
}

func (v *View) puts(x, y int, style tcell.Style, s string) {
	for i, r := range s {
		v.screen.SetContent(x+i, y, r, nil, style)
	}
}

// Draw renders the whole view and shows it.
func (v *View) Draw() {
	v.screen.Clear()
	v.puts(0, 0, styleTitle, "SimuS memory")
	v.puts(14, 0, tcell.StyleDefault, v.status)

	for col := 0; col < Cols; col++ {
		v.puts(gridLeft+col*cellW, 1, styleAddr, fmt.Sprintf("%02X", col))
	}
	for addr := 0; addr < mem.Size; addr++ {
		x, y := grid.GetGridCoords(addr, Cols)
		if x == 0 {
			v.puts(0, gridTop+y, styleAddr, fmt.Sprintf("%02X:", addr))
		}
		text, style := grid.Unwritten, styleEmpty
		if v.written[addr] {
			text, style = fmt.Sprintf("%02X", v.data[addr]), styleByte
			if addr == v.latest {
				style = styleLatest
			}
		}
		v.puts(gridLeft+x*cellW, gridTop+y, style, text)
	}

	row := gridTop + grid.Rows(mem.Size, Cols) + 1
	for _, line := range v.messages {
		v.puts(0, row, styleMessage, line)
		row++
	}
	v.puts(0, row+1, styleHelp, "r reload   q quit")
	v.screen.Show()
}

// Run draws and handles keys until the user quits. reload is called on 'r';
// its error is shown in the status line.
func (v *View) Run(reload func() error) error {
	for {
		v.Draw()
		switch ev := v.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
				return nil
			case ev.Rune() == 'r' && reload != nil:
				if err := reload(); err != nil {
					v.SetStatus(err.Error())
				}
			}
		}
	}
}
