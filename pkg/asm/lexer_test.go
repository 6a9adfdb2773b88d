package asm

import (
	"errors"
	"reflect"
	"testing"

	"simasm/pkg/diag"
)

// lexed strips positions so that tables stay readable.
type lexed struct {
	Type   TokenType
	Lexeme string
	Value  int
}

func simplify(tokens []Token) []lexed {
	out := make([]lexed, len(tokens))
	for i, tok := range tokens {
		out[i] = lexed{tok.Type, tok.Lexeme, tok.Value}
	}
	return out
}

func TestLexLine(t *testing.T) {
	tests := []struct {
		line string
		want []lexed
	}{
		{"", []lexed{{EOL, "", 0}}},
		{"   ; only a comment", []lexed{{EOL, "", 0}}},
		{
			"START: LDA #5",
			[]lexed{{LABEL, "START", 0}, {IDENTIFIER, "LDA", 0}, {IMMEDIATE, "#5", 5}, {EOL, "", 0}},
		},
		{
			"  add @ptr ; add through pointer",
			[]lexed{{IDENTIFIER, "add", 0}, {AT, "@", 0}, {IDENTIFIER, "ptr", 0}, {EOL, "", 0}},
		},
		{
			"DB 1AH, 26, 0ffh",
			[]lexed{{IDENTIFIER, "DB", 0}, {NUMBER, "1AH", 26}, {COMMA, ",", 0}, {NUMBER, "26", 26}, {COMMA, ",", 0}, {NUMBER, "0ffh", 255}, {EOL, "", 0}},
		},
		{
			"JMP TABLE+2",
			[]lexed{{IDENTIFIER, "JMP", 0}, {IDENTIFIER, "TABLE", 0}, {PLUS, "+", 0}, {NUMBER, "2", 2}, {EOL, "", 0}},
		},
		{
			`MSG: STR "Hi; there"`,
			[]lexed{{LABEL, "MSG", 0}, {IDENTIFIER, "STR", 0}, {STRING, "Hi; there", 0}, {EOL, "", 0}},
		},
		{
			"L2:L3: NOP\r",
			[]lexed{{LABEL, "L2", 0}, {LABEL, "L3", 0}, {IDENTIFIER, "NOP", 0}, {EOL, "", 0}},
		},
		{
			"FFH",
			[]lexed{{IDENTIFIER, "FFH", 0}, {EOL, "", 0}},
		},
	}

	for _, tc := range tests {
		tokens, err := LexLine(tc.line, 1)
		if err != nil {
			t.Errorf("LexLine(%q) error: %v", tc.line, err)
			continue
		}
		if got := simplify(tokens); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("LexLine(%q)\n got  %+v\n want %+v", tc.line, got, tc.want)
		}
	}
}

func TestLexPositions(t *testing.T) {
	tokens, err := LexLine("START: LDA #5", 7)
	if err != nil {
		t.Fatalf("LexLine error: %v", err)
	}
	want := []struct {
		pos diag.Position
		len int
	}{
		{diag.Position{Line: 7, Column: 1}, 5},
		{diag.Position{Line: 7, Column: 8}, 3},
		{diag.Position{Line: 7, Column: 12}, 2},
		{diag.Position{Line: 7, Column: 14}, 1},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens; want %d", len(tokens), len(want))
	}
	for i, w := range want {
		if tokens[i].Pos != w.pos || tokens[i].Len != w.len {
			t.Errorf("token %d (%s) at %s len %d; want %s len %d",
				i, tokens[i].Type, tokens[i].Pos, tokens[i].Len, w.pos, w.len)
		}
	}
}

func TestLexNumbers(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"26", 26},
		{"1AH", 0x1A},
		{"1ah", 0x1A},
		{"0FFH", 0xFF},
		{"10H", 16},
		{"65535", 65535},
		{"0FFFFH", 0xFFFF},
	}
	for _, tc := range tests {
		tokens, err := LexLine(tc.text, 1)
		if err != nil {
			t.Errorf("LexLine(%q) error: %v", tc.text, err)
			continue
		}
		if tokens[0].Type != NUMBER || tokens[0].Value != tc.want {
			t.Errorf("LexLine(%q) = %s %d; want number %d", tc.text, tokens[0].Type, tokens[0].Value, tc.want)
		}
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		line string
		code diag.Code
		col  int
		len  int
	}{
		{"DB 1A", diag.MalformedNumber, 4, 2},
		{"LDA #", diag.MalformedNumber, 5, 1},
		{"LDA #;x", diag.MalformedNumber, 5, 1},
		{"DW 65536", diag.MalformedNumber, 4, 5},
		{"DW 10000H", diag.MalformedNumber, 4, 6},
		{"LDA $10", diag.UnexpectedCharacter, 5, 1},
		{`STR "abc`, diag.UnterminatedString, 5, 4},
		{"STR \"a\tb\"", diag.UnexpectedCharacter, 7, 1},
	}
	for _, tc := range tests {
		_, err := LexLine(tc.line, 3)
		var d *diag.Diagnostic
		if !errors.As(err, &d) {
			t.Errorf("LexLine(%q) error = %v; want a diagnostic", tc.line, err)
			continue
		}
		if d.Code != tc.code || d.Pos.Line != 3 || d.Pos.Column != tc.col || d.Len != tc.len {
			t.Errorf("LexLine(%q) = %s at %s len %d; want %s at 3:%d len %d",
				tc.line, d.Code, d.Pos, d.Len, tc.code, tc.col, tc.len)
		}
		if d.Category() != diag.Lexical {
			t.Errorf("LexLine(%q) category = %s; want Lexical", tc.line, d.Category())
		}
	}
}

func TestLexMissingSuffixMessage(t *testing.T) {
	_, err := LexLine("LDA 1A", 1)
	if err == nil {
		t.Fatal("expected an error")
	}
	want := "invalid base-10 number '1A'; missing 'H' suffix?"
	var d *diag.Diagnostic
	if !errors.As(err, &d) || d.Message != want {
		t.Errorf("message = %q; want %q", err, want)
	}
}
