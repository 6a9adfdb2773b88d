package asm

import (
	"strings"

	"simasm/pkg/diag"
	"simasm/pkg/isa"
)

// Parser consumes the tokens of one line and builds a Statement.
//
// Grammar:
//
//	line        = LABEL* statement?
//	statement   = IDENTIFIER "EQU" NUMBER
//	            | ("ORG" | "DS") value
//	            | "END" value?
//	            | ("DB" | "DW") value ("," value)*
//	            | "STR" STRING
//	            | mnemonic (operand ("," operand)*)?
//	operand     = ref | IMMEDIATE | "@" ref
//	ref         = NUMBER | IDENTIFIER ("+" NUMBER)?
//	value       = ref
type Parser struct {
	tokens []Token
	pos    int
}

func newParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	return p.peekAt(0)
}

// peekNext returns the token after the current one.
func (p *Parser) peekNext() Token {
	return p.peekAt(1)
}

func (p *Parser) peekAt(offset int) Token {
	if p.pos+offset >= len(p.tokens) {
		if len(p.tokens) > 0 {
			return p.tokens[len(p.tokens)-1]
		}
		return Token{Type: EOL}
	}
	return p.tokens[p.pos+offset]
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expected reports that the current token is not what the grammar needs.
// The token is left unconsumed.
func (p *Parser) expected(what string) error {
	tok := p.peek()
	return diag.New(diag.UnexpectedToken, tok.Pos, tok.Len, "expected %s, found %s", what, tok.describe())
}

// ParseLine parses the tokens of one line, as returned by LexLine. It
// returns a *diag.Diagnostic on the first grammar mismatch.
func ParseLine(tokens []Token, line int) (*Statement, error) {
	p := newParser(tokens)
	st := &Statement{Line: line, Pos: p.peek().Pos}

	for p.peek().Type == LABEL {
		tok := p.advance()
		st.Labels = append(st.Labels, Label{Name: tok.Lexeme, Pos: tok.Pos, Len: tok.Len})
	}
	if p.peek().Type == EOL {
		return st, nil
	}

	if err := p.parseStatement(st); err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.Type != EOL {
		last := p.tokens[len(p.tokens)-2]
		span := last.Pos.Column + last.Len - tok.Pos.Column
		return nil, diag.New(diag.TrailingGarbage, tok.Pos, span, "unexpected %s after end of statement", tok.describe())
	}
	return st, nil
}

func (p *Parser) parseStatement(st *Statement) error {
	tok := p.peek()
	if tok.Type != IDENTIFIER {
		return p.expected("instruction or directive")
	}

	if next := p.peekNext(); next.Type == IDENTIFIER && strings.EqualFold(next.Lexeme, isa.DirEQU) {
		p.advance()
		p.advance()
		st.Kind = KindDirective
		st.Name = isa.DirEQU
		st.NamePos, st.NameLen = next.Pos, next.Len
		st.Define = Label{Name: tok.Lexeme, Pos: tok.Pos, Len: tok.Len}
		if p.peek().Type != NUMBER {
			return p.expected("number")
		}
		num := p.advance()
		st.Operands = []Operand{literal(num)}
		return nil
	}

	p.advance()
	name := strings.ToUpper(tok.Lexeme)
	st.Name, st.NamePos, st.NameLen = name, tok.Pos, tok.Len

	if !isa.IsDirective(name) {
		st.Kind = KindInstruction
		return p.parseOperandList(st)
	}

	st.Kind = KindDirective
	switch name {
	case isa.DirORG, isa.DirDS:
		v, err := p.parseRef()
		if err != nil {
			return err
		}
		st.Operands = []Operand{v}
	case isa.DirEND:
		if t := p.peek().Type; t == NUMBER || t == IDENTIFIER {
			v, err := p.parseRef()
			if err != nil {
				return err
			}
			st.Operands = []Operand{v}
		}
	case isa.DirDB, isa.DirDW:
		return p.parseValueList(st)
	case isa.DirSTR:
		if p.peek().Type != STRING {
			return p.expected("string")
		}
		st.Text = p.advance().Lexeme
	case isa.DirEQU:
		return diag.New(diag.UnexpectedToken, tok.Pos, tok.Len, "EQU needs a name in front of it (NAME EQU value)")
	}
	return nil
}

func startsOperand(tok Token) bool {
	switch tok.Type {
	case IDENTIFIER, NUMBER, IMMEDIATE, AT:
		return true
	}
	return false
}

// parseOperandList parses an optional comma separated operand list. After a
// comma another operand is mandatory.
func (p *Parser) parseOperandList(st *Statement) error {
	if !startsOperand(p.peek()) {
		return nil
	}
	for {
		op, err := p.parseOperand()
		if err != nil {
			return err
		}
		st.Operands = append(st.Operands, op)
		if p.peek().Type != COMMA {
			return nil
		}
		p.advance()
		if !startsOperand(p.peek()) {
			return p.missingOperand()
		}
	}
}

// parseValueList parses the values of DB and DW.
func (p *Parser) parseValueList(st *Statement) error {
	for {
		v, err := p.parseRef()
		if err != nil {
			return err
		}
		st.Operands = append(st.Operands, v)
		if p.peek().Type != COMMA {
			return nil
		}
		p.advance()
		if t := p.peek().Type; t != NUMBER && t != IDENTIFIER {
			return p.missingOperand()
		}
	}
}

func (p *Parser) missingOperand() error {
	tok := p.peek()
	return diag.New(diag.MissingOperand, tok.Pos, tok.Len, "expected operand after ',', found %s", tok.describe())
}

func (p *Parser) parseOperand() (Operand, error) {
	tok := p.peek()
	switch tok.Type {
	case IMMEDIATE:
		p.advance()
		op := literal(tok)
		op.Mode = isa.Immediate
		return op, nil
	case AT:
		p.advance()
		op, err := p.parseRef()
		if err != nil {
			return op, err
		}
		op.Mode = isa.Indirect
		op.Len += op.Pos.Column - tok.Pos.Column
		op.Pos = tok.Pos
		return op, nil
	default:
		return p.parseRef()
	}
}

// parseRef parses a number or a symbol with an optional "+ offset".
func (p *Parser) parseRef() (Operand, error) {
	tok := p.peek()
	switch tok.Type {
	case NUMBER:
		p.advance()
		return literal(tok), nil
	case IDENTIFIER:
		p.advance()
		op := Operand{Symbol: tok.Lexeme, Pos: tok.Pos, Len: tok.Len, NamePos: tok.Pos}
		if p.peek().Type != PLUS {
			return op, nil
		}
		p.advance()
		if p.peek().Type != NUMBER {
			return op, p.expected("number after '+'")
		}
		num := p.advance()
		op.Offset = num.Value
		op.Len = num.Pos.Column + num.Len - tok.Pos.Column
		return op, nil
	default:
		return Operand{}, p.expected("identifier or number")
	}
}

func literal(tok Token) Operand {
	return Operand{Value: tok.Value, Pos: tok.Pos, Len: tok.Len}
}
