package sqlfrontend

import (
	"strings"

	"github.com/fesca-project/fesca/internal/fescaerr"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokString
	tokComma
	tokLParen
	tokRParen
	tokEq
	tokPlus
	// keywords, recognised case-insensitively by the lexer so the parser
	// can switch on kind rather than re-comparing text.
	tokSelect
	tokFrom
	tokWhere
	tokGroup
	tokBy
	tokAs
	tokAnd
)

var keywords = map[string]tokenKind{
	"SELECT": tokSelect,
	"FROM":   tokFrom,
	"WHERE":  tokWhere,
	"GROUP":  tokGroup,
	"BY":     tokBy,
	"AS":     tokAs,
	"AND":    tokAnd,
}

type token struct {
	kind tokenKind
	text string
}

type lexer struct {
	input string
	pos   int
}

func newLexer(input string) *lexer {
	return &lexer{input: input}
}

func (l *lexer) peekByte() (byte, bool) {
	if l.pos >= len(l.input) {
		return 0, false
	}
	return l.input[l.pos], true
}

func (l *lexer) tokens() ([]token, error) {
	var out []token
	for {
		l.skipSpace()
		b, ok := l.peekByte()
		if !ok {
			out = append(out, token{kind: tokEOF})
			return out, nil
		}
		switch {
		case b == ',':
			l.pos++
			out = append(out, token{kind: tokComma, text: ","})
		case b == '(':
			l.pos++
			out = append(out, token{kind: tokLParen, text: "("})
		case b == ')':
			l.pos++
			out = append(out, token{kind: tokRParen, text: ")"})
		case b == '=':
			l.pos++
			out = append(out, token{kind: tokEq, text: "="})
		case b == '+':
			l.pos++
			out = append(out, token{kind: tokPlus, text: "+"})
		case b == '\'':
			tok, err := l.lexString()
			if err != nil {
				return nil, err
			}
			out = append(out, tok)
		case isDigit(b):
			out = append(out, l.lexNumber())
		case isIdentStart(b):
			out = append(out, l.lexIdentOrKeyword())
		case b == ';':
			l.pos++
		default:
			return nil, fescaerr.New(fescaerr.ParseError, "unexpected character "+string(b))
		}
	}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.input) && (l.input[l.pos] == ' ' || l.input[l.pos] == '\t' || l.input[l.pos] == '\n' || l.input[l.pos] == '\r') {
		l.pos++
	}
}

func (l *lexer) lexString() (token, error) {
	start := l.pos
	l.pos++ // opening quote
	var sb strings.Builder
	for {
		b, ok := l.peekByte()
		if !ok {
			return token{}, fescaerr.New(fescaerr.ParseError, "unterminated string literal: "+l.input[start:])
		}
		if b == '\'' {
			l.pos++
			// doubled quote is an escaped quote
			if nb, ok := l.peekByte(); ok && nb == '\'' {
				sb.WriteByte('\'')
				l.pos++
				continue
			}
			break
		}
		sb.WriteByte(b)
		l.pos++
	}
	return token{kind: tokString, text: sb.String()}, nil
}

func (l *lexer) lexNumber() token {
	start := l.pos
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}
	return token{kind: tokInt, text: l.input[start:l.pos]}
}

func (l *lexer) lexIdentOrKeyword() token {
	start := l.pos
	for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
		l.pos++
	}
	text := l.input[start:l.pos]
	upper := strings.ToUpper(text)
	if kind, ok := keywords[upper]; ok {
		return token{kind: kind, text: text}
	}
	return token{kind: tokIdent, text: text}
}

func isDigit(b byte) bool      { return b >= '0' && b <= '9' }
func isIdentStart(b byte) bool { return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }
func isIdentPart(b byte) bool  { return isIdentStart(b) || isDigit(b) }
