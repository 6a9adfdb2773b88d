package diag

import (
	"bytes"
	"errors"
	"testing"
)

func TestCodeCategory(t *testing.T) {
	tests := []struct {
		code Code
		want Category
	}{
		{UnexpectedCharacter, Lexical},
		{UnterminatedString, Lexical},
		{MalformedNumber, Lexical},
		{UnexpectedToken, Parse},
		{MissingOperand, Parse},
		{UnknownInstruction, Semantic},
		{ReservedWord, Semantic},
		{MemoryOverflow, Semantic},
		{TrailingGarbage, Semantic},
		{IgnoredAfterEnd, Semantic},
	}
	for _, tc := range tests {
		if got := tc.code.Category(); got != tc.want {
			t.Errorf("%s.Category() = %s; want %s", tc.code, got, tc.want)
		}
	}
}

func TestSinkKeepsOrderAndCounts(t *testing.T) {
	var s Sink
	s.Errorf(UnexpectedCharacter, Position{1, 4}, 1, "unexpected character '%c'", '$')
	s.Warnf(IgnoredAfterEnd, Position{9, 1}, 3, "ignored")
	s.Errorf(UndefinedSymbol, Position{3, 5}, 7, "undefined symbol 'MISSING'")

	if !s.HasErrors() || s.ErrorCount() != 2 {
		t.Fatalf("ErrorCount() = %d; want 2", s.ErrorCount())
	}
	all := s.All()
	if len(all) != 3 || all[0].Code != UnexpectedCharacter || all[1].Code != IgnoredAfterEnd || all[2].Code != UndefinedSymbol {
		t.Fatalf("All() out of order: %v", all)
	}
	if got := len(s.Warnings()); got != 1 {
		t.Errorf("Warnings() = %d; want 1", got)
	}
	if got := len(s.Errors()); got != 2 {
		t.Errorf("Errors() = %d; want 2", got)
	}
	if got := Summary(all); got != "2 error(s), 1 warning(s)" {
		t.Errorf("Summary() = %q", got)
	}
}

func TestSinkWarningsOnly(t *testing.T) {
	var s Sink
	s.Warnf(IgnoredAfterEnd, Position{2, 1}, 1, "ignored")
	if s.HasErrors() {
		t.Errorf("warnings must not count as errors")
	}
}

func TestDiagnosticIsError(t *testing.T) {
	var err error = New(ReservedWord, Position{1, 1}, 3, "'%s' is a reserved word", "JMP")
	var d *Diagnostic
	if !errors.As(err, &d) {
		t.Fatalf("errors.As failed")
	}
	if got := err.Error(); got != "1:1: Semantic error! 'JMP' is a reserved word" {
		t.Errorf("Error() = %q", got)
	}
}

func TestRender(t *testing.T) {
	lines := []string{
		"START: LDA #5",
		"       LDA MISSING",
	}
	diags := []Diagnostic{
		{Code: UndefinedSymbol, Message: "undefined symbol 'MISSING'", Pos: Position{2, 12}, Len: 7},
	}
	var buf bytes.Buffer
	if err := Render(&buf, "in.asm", lines, diags); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	want := "in.asm:2:12: Semantic error! undefined symbol 'MISSING'\n" +
		"       LDA MISSING\n" +
		"           ^~~~~~~\n"
	if buf.String() != want {
		t.Errorf("Render() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestRenderWarningAndMissingLine(t *testing.T) {
	diags := []Diagnostic{
		{Code: IgnoredAfterEnd, Severity: Warning, Message: "ignored", Pos: Position{5, 1}, Len: 1},
	}
	var buf bytes.Buffer
	if err := Render(&buf, "x.asm", []string{"END"}, diags); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := buf.String(); got != "x.asm:5:1: Semantic warning! ignored\n" {
		t.Errorf("Render() = %q", got)
	}
}

func TestMarker(t *testing.T) {
	tests := []struct {
		col, length int
		want        string
	}{
		{1, 1, "^"},
		{3, 4, "  ^~~~"},
		{0, 0, "^"},
	}
	for _, tc := range tests {
		if got := Marker(tc.col, tc.length); got != tc.want {
			t.Errorf("Marker(%d, %d) = %q; want %q", tc.col, tc.length, got, tc.want)
		}
	}
}
