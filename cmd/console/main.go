package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"

	"simasm/pkg/asm"
	"simasm/pkg/diag"
	"simasm/pkg/termview"
	"simasm/pkg/utils"
)

// session reassembles one source file into a terminal view.
type session struct {
	path string
	view *termview.View
}

// load reads the source again and assembles it from scratch. The view is
// cleared first so it only ever shows the bytes of the latest run.
func (s *session) load() error {
	fullPath, src, err := utils.ReadSource(s.path)
	if err != nil {
		return err
	}
	s.view.Reset()

	res, err := asm.Compile(src, &asm.Options{OnWrite: s.view.OnWrite})

	var msgs bytes.Buffer
	if rerr := diag.Render(&msgs, s.path, res.Lines, res.Diagnostics); rerr != nil {
		return rerr
	}
	if text := strings.TrimRight(msgs.String(), "\n"); text != "" {
		s.view.SetMessages(strings.Split(text, "\n"))
	}
	if err != nil {
		return err
	}
	s.view.SetStatus(fmt.Sprintf("%s: %d byte(s) written", fullPath, s.view.Writes()))
	return nil
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: console <file.asm>")
		os.Exit(2)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Failed to create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("Failed to initialise screen: %v", err)
	}
	defer screen.Fini()

	s := &session{path: os.Args[1], view: termview.New(screen)}
	if err := s.load(); err != nil {
		s.view.SetStatus(err.Error())
	}
	if err := s.view.Run(s.load); err != nil {
		screen.Fini()
		log.Fatal(err)
	}
}
