package asm

import (
	"fmt"

	"simasm/pkg/diag"
)

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOL TokenType = iota // sentinel: end of the line

	LABEL      // name immediately followed by ':'
	IDENTIFIER // mnemonic, directive keyword or symbol reference
	NUMBER     // 26, 1AH
	IMMEDIATE  // #5, #0FFH
	STRING     // "..."

	AT    // @
	PLUS  // +
	COMMA // ,
)

var tokenNames = [...]string{
	EOL:        "end of line",
	LABEL:      "label",
	IDENTIFIER: "identifier",
	NUMBER:     "number",
	IMMEDIATE:  "immediate value",
	STRING:     "string",
	AT:         "'@'",
	PLUS:       "'+'",
	COMMA:      "','",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Token is a single lexical unit of one source line.
type Token struct {
	Type   TokenType
	Lexeme string // identifier/label name, number text, or string contents
	Value  int    // numeric value of NUMBER and IMMEDIATE tokens
	Pos    diag.Position
	Len    int // span in columns, including quotes, '#' and 'H'
}

func (t Token) String() string {
	return fmt.Sprintf("%-16s %-12q %s", t.Type, t.Lexeme, t.Pos)
}

// describe renders the token for "found ..." messages.
func (t Token) describe() string {
	if t.Type == EOL {
		return t.Type.String()
	}
	return fmt.Sprintf("%s '%s'", t.Type, t.Lexeme)
}
