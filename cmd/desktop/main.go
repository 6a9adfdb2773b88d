package main

import (
	"bytes"
	"fmt"
	"image/color"
	"log"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"simasm/pkg/asm"
	"simasm/pkg/diag"
	"simasm/pkg/grid"
	"simasm/pkg/mem"
	"simasm/pkg/utils"
)

const (
	cols     = 16
	cellSize = 32
	gridLeft = 32
	gridTop  = 24

	screenWidth  = gridLeft + cols*cellSize + 8
	screenHeight = gridTop + mem.Size/cols*cellSize + 120

	// writes shown per frame, so the program visibly fills memory
	writesPerFrame = 2
)

var (
	colorBackground = color.RGBA{0x18, 0x18, 0x20, 0xff}
	colorEmpty      = color.RGBA{0x30, 0x30, 0x3a, 0xff}
	colorWritten    = color.RGBA{0x2d, 0x5a, 0x8c, 0xff}
	colorLatest     = color.RGBA{0x3c, 0xb3, 0x71, 0xff}
	colorLabel      = color.RGBA{0xe0, 0xc0, 0x60, 0xff}
)

type Game struct {
	path string
	face text.Face

	data    [mem.Size]byte
	written [mem.Size]bool
	latest  int
	queue   []mem.Write

	status   string
	messages []string
}

func NewGame(path string) *Game {
	return &Game{
		path:   path,
		face:   text.NewGoXFace(basicfont.Face7x13),
		latest: -1,
	}
}

func (g *Game) reset() {
	g.data = [mem.Size]byte{}
	g.written = [mem.Size]bool{}
	g.latest = -1
	g.queue = nil
	g.messages = nil
}

// enqueue receives write notifications; Update plays them back.
func (g *Game) enqueue(addr int, value byte) {
	g.queue = append(g.queue, mem.Write{Addr: addr, Value: value})
}

// load assembles the file again from scratch.
func (g *Game) load() error {
	_, src, err := utils.ReadSource(g.path)
	if err != nil {
		return err
	}
	g.reset()

	res, err := asm.Compile(src, &asm.Options{OnWrite: g.enqueue})

	var msgs bytes.Buffer
	if rerr := diag.Render(&msgs, g.path, res.Lines, res.Diagnostics); rerr != nil {
		return rerr
	}
	if out := strings.TrimRight(msgs.String(), "\n"); out != "" {
		g.messages = strings.Split(out, "\n")
	}
	if err != nil {
		return err
	}
	g.status = fmt.Sprintf("%d byte(s), %d symbol(s)", len(g.queue), res.Symbols.Len())
	return nil
}

// step applies up to n queued writes.
func (g *Game) step(n int) {
	for ; n > 0 && len(g.queue) > 0; n-- {
		w := g.queue[0]
		g.queue = g.queue[1:]
		g.data[w.Addr] = w.Value
		g.written[w.Addr] = true
		g.latest = w.Addr
	}
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.load(); err != nil {
			g.status = err.Error()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.step(len(g.queue))
	}
	g.step(writesPerFrame)
	return nil
}

func (g *Game) drawText(screen *ebiten.Image, s string, x, y int, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, g.face, op)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	for col := 0; col < cols; col++ {
		g.drawText(screen, fmt.Sprintf("%02X", col), gridLeft+col*cellSize+9, 6, colorLabel)
	}

	for addr := 0; addr < mem.Size; addr++ {
		x, y := grid.GetGridCoords(addr, cols)
		px := gridLeft + x*cellSize
		py := gridTop + y*cellSize
		if x == 0 {
			g.drawText(screen, fmt.Sprintf("%02X", addr), 6, py+9, colorLabel)
		}

		fill := colorEmpty
		if g.written[addr] {
			fill = colorWritten
			if addr == g.latest {
				fill = colorLatest
			}
		}
		vector.DrawFilledRect(screen, float32(px+1), float32(py+1), cellSize-2, cellSize-2, fill, false)
		if g.written[addr] {
			g.drawText(screen, fmt.Sprintf("%02X", g.data[addr]), px+9, py+9, color.White)
		}
	}

	y := gridTop + grid.Rows(mem.Size, cols)*cellSize + 8
	ebitenutil.DebugPrintAt(screen, g.status, 4, y)
	for _, line := range g.messages {
		y += 16
		ebitenutil.DebugPrintAt(screen, line, 4, y)
	}
	ebitenutil.DebugPrintAt(screen, "R: reload  Space: skip animation", 4, screenHeight-18)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: desktop <file.asm>")
		os.Exit(2)
	}

	game := NewGame(os.Args[1])
	if err := game.load(); err != nil {
		log.Printf("%v", err)
		game.status = err.Error()
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(screenWidth*2, screenHeight*2)
	ebiten.SetWindowTitle("SimuS Memory")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
