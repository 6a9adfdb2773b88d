package asm

import (
	"errors"
	"fmt"
	"strings"

	"simasm/pkg/diag"
	"simasm/pkg/mem"
)

// ErrAssemblyFailed is returned by Compile when at least one error-severity
// diagnostic was reported.
var ErrAssemblyFailed = errors.New("assembly failed")

// Options tune a Compile call.
type Options struct {
	// OnWrite, when set, is called for every committed byte in write order.
	// It is only called for a successful translation.
	OnWrite mem.WriteFunc
}

// Result is everything a translation produced.
type Result struct {
	Image       *mem.Image
	Symbols     *SymbolTable
	Statements  []*Statement
	Diagnostics []diag.Diagnostic

	// SourceMap maps the address of each emitting statement to its 1-based
	// source line.
	SourceMap map[int]int
	Lines     []string
}

// OK reports whether the translation succeeded. Warnings do not count.
func (r *Result) OK() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == diag.Error {
			return false
		}
	}
	return true
}

// Assembler holds the state of one translation. Compile starts from a fresh
// state every time, so an Assembler may be reused but not shared between
// goroutines.
type Assembler struct {
	opts  Options
	sink  *diag.Sink
	syms  *SymbolTable
	image *mem.Image
	stmts []*Statement
	smap  map[int]int
}

func NewAssembler(opts *Options) *Assembler {
	a := &Assembler{}
	if opts != nil {
		a.opts = *opts
	}
	return a
}

// Compile translates src. opts may be nil.
func Compile(src string, opts *Options) (*Result, error) {
	return NewAssembler(opts).Compile(src)
}

// Assemble is Compile without options, returning the image bytes and the
// source map.
func Assemble(src string) ([]byte, map[int]int, error) {
	res, err := Compile(src, nil)
	if err != nil {
		return nil, nil, err
	}
	return res.Image.Bytes(), res.SourceMap, nil
}

func (a *Assembler) reset() {
	a.sink = &diag.Sink{}
	a.syms = NewSymbolTable()
	a.image = mem.New()
	a.stmts = nil
	a.smap = make(map[int]int)
}

// Compile runs lexer, parser, layout and encoder over src.
func (a *Assembler) Compile(src string) (*Result, error) {
	a.reset()
	lines := SplitLines(src)

	for i, text := range lines {
		line := i + 1
		tokens, err := LexLine(text, line)
		if err != nil {
			a.report(err)
			continue
		}
		st, err := ParseLine(tokens, line)
		if err != nil {
			a.report(err)
			continue
		}
		a.stmts = append(a.stmts, st)
	}

	// lexical and parse errors anywhere stop the semantic passes
	if !a.sink.HasErrors() {
		program, ok := layout(a.stmts, a.syms, a.sink)
		if ok && !a.sink.HasErrors() {
			enc := &encoder{syms: a.syms, image: a.image, sink: a.sink, sourceMap: a.smap}
			enc.encode(program)
		}
	}

	res := &Result{
		Image:       a.image,
		Symbols:     a.syms,
		Statements:  a.stmts,
		Diagnostics: a.sink.All(),
		SourceMap:   a.smap,
		Lines:       lines,
	}
	if a.sink.HasErrors() {
		res.Image = mem.New()
		res.SourceMap = map[int]int{}
		return res, fmt.Errorf("%w: %s", ErrAssemblyFailed, diag.Summary(res.Diagnostics))
	}

	a.image.Replay(a.opts.OnWrite)
	return res, nil
}

func (a *Assembler) report(err error) {
	var d *diag.Diagnostic
	if errors.As(err, &d) {
		a.sink.Report(*d)
		return
	}
	a.sink.Errorf(diag.UnexpectedToken, diag.Position{}, 0, "%v", err)
}

// SplitLines splits source text into lines, accepting both LF and CRLF.
func SplitLines(src string) []string {
	return strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
}
