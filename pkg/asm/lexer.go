package asm

import (
	"strconv"
	"strings"

	"simasm/pkg/diag"
)

// Lexer holds the scanning state for one source line.
type Lexer struct {
	src  []rune
	pos  int // index of the next rune to consume
	line int // 1-based source line
}

func newLexer(src string, line int) *Lexer {
	return &Lexer{src: []rune(src), line: line}
}

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	return r
}

// at returns the position of the rune with index i.
func (l *Lexer) at(i int) diag.Position {
	return diag.Position{Line: l.line, Column: i + 1}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\v' || r == '\f'
}

func isLetter(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isPrintable(r rune) bool {
	return r >= 0x20 && r <= 0x7E
}

// scanIdent collects an identifier, or a label when a ':' follows directly.
// The first letter must still be at l.peek().
func (l *Lexer) scanIdent() Token {
	start := l.pos
	for isLetter(l.peek()) || isDigit(l.peek()) {
		l.advance()
	}
	name := string(l.src[start:l.pos])
	tok := Token{Type: IDENTIFIER, Lexeme: name, Pos: l.at(start), Len: l.pos - start}
	if l.peek() == ':' {
		l.advance()
		tok.Type = LABEL
	}
	return tok
}

// scanNumber collects a run of hex digits with an optional H suffix. start is
// the index where the token began ('#' for immediates).
func (l *Lexer) scanNumber(tt TokenType, start int) (Token, error) {
	digitsAt := l.pos
	for isHexDigit(l.peek()) {
		l.advance()
	}
	digits := string(l.src[digitsAt:l.pos])
	if digits == "" {
		return Token{}, diag.New(diag.MalformedNumber, l.at(start), 1, "missing numeric value after '#'")
	}

	base := 10
	switch {
	case l.peek() == 'h' || l.peek() == 'H':
		l.advance()
		base = 16
	case strings.ContainsAny(digits, "abcdefABCDEF"):
		text := string(l.src[start:l.pos])
		return Token{}, diag.New(diag.MalformedNumber, l.at(start), l.pos-start,
			"invalid base-10 number '%s'; missing 'H' suffix?", text)
	}

	text := string(l.src[start:l.pos])
	v, err := strconv.ParseUint(digits, base, 16)
	if err != nil {
		return Token{}, diag.New(diag.MalformedNumber, l.at(start), l.pos-start,
			"numeric literal '%s' does not fit in 16 bits", text)
	}
	return Token{Type: tt, Lexeme: text, Value: int(v), Pos: l.at(start), Len: l.pos - start}, nil
}

// scanString collects a string literal. The opening quote must still be at
// l.peek().
func (l *Lexer) scanString() (Token, error) {
	start := l.pos
	l.advance() // consume opening "
	var sb strings.Builder
	for l.pos < len(l.src) {
		r := l.peek()
		if r == '"' {
			l.advance()
			return Token{Type: STRING, Lexeme: sb.String(), Pos: l.at(start), Len: l.pos - start}, nil
		}
		if !isPrintable(r) {
			return Token{}, diag.New(diag.UnexpectedCharacter, l.at(l.pos), 1,
				"non-printable character %q in string literal", r)
		}
		sb.WriteRune(r)
		l.advance()
	}
	return Token{}, diag.New(diag.UnterminatedString, l.at(start), l.pos-start,
		"unterminated string \"%s\"", sb.String())
}

// nextToken skips blanks and returns the next token. A ';' ends the line.
func (l *Lexer) nextToken() (Token, error) {
	for isSpace(l.peek()) {
		l.advance()
	}
	if l.pos >= len(l.src) || l.peek() == ';' {
		l.pos = len(l.src)
		return Token{Type: EOL, Pos: l.at(l.pos), Len: 1}, nil
	}

	ch := l.peek()
	start := l.pos
	switch {
	case isLetter(ch):
		return l.scanIdent(), nil
	case isDigit(ch):
		return l.scanNumber(NUMBER, start)
	case ch == '#':
		l.advance()
		return l.scanNumber(IMMEDIATE, start)
	case ch == '"':
		return l.scanString()
	}

	l.advance()
	switch ch {
	case '@':
		return Token{Type: AT, Lexeme: "@", Pos: l.at(start), Len: 1}, nil
	case '+':
		return Token{Type: PLUS, Lexeme: "+", Pos: l.at(start), Len: 1}, nil
	case ',':
		return Token{Type: COMMA, Lexeme: ",", Pos: l.at(start), Len: 1}, nil
	default:
		return Token{}, diag.New(diag.UnexpectedCharacter, l.at(start), 1, "unexpected character '%c'", ch)
	}
}

// LexLine tokenises one source line and returns its tokens followed by an EOL
// token. A blank or comment-only line yields just the EOL token. On the first
// lexical error it returns the tokens read so far and a *diag.Diagnostic; the
// rest of the line is not scanned.
func LexLine(src string, line int) ([]Token, error) {
	l := newLexer(src, line)
	var tokens []Token
	for {
		tok, err := l.nextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOL {
			return tokens, nil
		}
	}
}
