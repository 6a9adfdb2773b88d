package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"simasm/pkg/asm"
	"simasm/pkg/termview"
)

func newSession(t *testing.T, src string) (*session, tcell.SimulationScreen) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.asm")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(240, 30)
	return &session{path: path, view: termview.New(screen)}, screen
}

func TestSessionLoadMirrorsWrites(t *testing.T) {
	s, _ := newSession(t, "START: LDA #5\nHLT\n")
	if err := s.load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := s.view.Writes(); got != 3 {
		t.Errorf("view saw %d writes; want 3", got)
	}
}

func TestSessionLoadReportsDiagnostics(t *testing.T) {
	s, screen := newSession(t, "LDA MISSING\n")
	err := s.load()
	if !errors.Is(err, asm.ErrAssemblyFailed) {
		t.Fatalf("load error = %v; want ErrAssemblyFailed", err)
	}
	if s.view.Writes() != 0 {
		t.Errorf("failed assembly delivered %d writes", s.view.Writes())
	}

	s.view.Draw()
	cells, w, _ := screen.GetContents()
	var sb strings.Builder
	for _, c := range cells[19*w : 20*w] {
		if len(c.Runes) > 0 {
			sb.WriteRune(c.Runes[0])
		}
	}
	if !strings.Contains(sb.String(), "Semantic error! undefined symbol 'MISSING'") {
		t.Errorf("message row = %q", sb.String())
	}
}

func TestSessionReloadPicksUpEdits(t *testing.T) {
	s, _ := newSession(t, "NOP\n")
	if err := s.load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := os.WriteFile(s.path, []byte("NOP\nNOP\nHLT\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := s.view.Writes(); got != 3 {
		t.Errorf("view saw %d writes after reload; want 3", got)
	}
}

func TestSessionMissingFile(t *testing.T) {
	s, _ := newSession(t, "")
	s.path = filepath.Join(filepath.Dir(s.path), "nope.asm")
	if err := s.load(); err == nil {
		t.Errorf("load of a missing file should fail")
	}
}
