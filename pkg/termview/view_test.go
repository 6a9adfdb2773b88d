package termview

import (
	"errors"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func newTestView(t *testing.T) (*View, tcell.SimulationScreen) {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(s.Fini)
	s.SetSize(80, 30)
	return New(s), s
}

func row(s tcell.SimulationScreen, y int) string {
	cells, w, _ := s.GetContents()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			sb.WriteByte(' ')
			continue
		}
		sb.WriteRune(c.Runes[0])
	}
	return strings.TrimRight(sb.String(), " ")
}

func TestDrawShowsWrittenBytes(t *testing.T) {
	v, s := newTestView(t)
	v.OnWrite(0, 0x22)
	v.OnWrite(1, 0x05)
	v.OnWrite(0x11, 0xFF)
	v.SetStatus("ok")
	v.Draw()

	if got := row(s, 0); !strings.HasPrefix(got, "SimuS memory") || !strings.HasSuffix(got, "ok") {
		t.Errorf("title row = %q", got)
	}
	if got := row(s, 1); !strings.HasPrefix(got, "    00 01 02") || !strings.HasSuffix(got, "0F") {
		t.Errorf("header row = %q", got)
	}
	if got := row(s, 2); !strings.HasPrefix(got, "00: 22 05 .. ..") {
		t.Errorf("first grid row = %q", got)
	}
	if got := row(s, 3); !strings.HasPrefix(got, "10: .. FF ..") {
		t.Errorf("second grid row = %q", got)
	}
	if got := row(s, 17); !strings.HasPrefix(got, "F0:") {
		t.Errorf("last grid row = %q", got)
	}
	if v.Writes() != 3 {
		t.Errorf("Writes() = %d; want 3", v.Writes())
	}
}

func TestLatestWriteIsHighlighted(t *testing.T) {
	v, s := newTestView(t)
	v.OnWrite(0, 1)
	v.OnWrite(1, 2)
	v.Draw()

	cells, w, _ := s.GetContents()
	if cells[2*w+gridLeft+cellW].Style != styleLatest {
		t.Errorf("latest byte not highlighted")
	}
	if cells[2*w+gridLeft].Style != styleByte {
		t.Errorf("older byte highlighted")
	}
}

func TestResetAndMessages(t *testing.T) {
	v, s := newTestView(t)
	v.OnWrite(0, 0x22)
	v.SetMessages([]string{"prog.asm:1:5: Semantic error! undefined symbol 'X'"})
	v.Draw()
	if got := row(s, 19); !strings.Contains(got, "undefined symbol") {
		t.Errorf("message row = %q", got)
	}

	v.Reset()
	v.OnWrite(-1, 1)
	v.OnWrite(300, 1)
	v.Draw()
	if got := row(s, 2); !strings.HasPrefix(got, "00: .. ..") {
		t.Errorf("grid after Reset = %q", got)
	}
	if got := row(s, 19); got != "" {
		t.Errorf("messages after Reset = %q", got)
	}
	if v.Writes() != 0 {
		t.Errorf("out of range writes were counted")
	}
}

func TestRunReloadsAndQuits(t *testing.T) {
	v, s := newTestView(t)
	reloads := 0
	reload := func() error {
		reloads++
		return errors.New("assembly failed: 1 error(s)")
	}

	s.InjectKey(tcell.KeyRune, 'r', tcell.ModNone)
	s.InjectKey(tcell.KeyRune, 'r', tcell.ModNone)
	s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	if err := v.Run(reload); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if reloads != 2 {
		t.Errorf("reload called %d times; want 2", reloads)
	}
	if v.status != "assembly failed: 1 error(s)" {
		t.Errorf("status = %q", v.status)
	}
}

func TestRunQuitsOnEscape(t *testing.T) {
	v, s := newTestView(t)
	s.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	if err := v.Run(nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
}
