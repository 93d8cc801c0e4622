package sqlfrontend

import (
	"strconv"
	"strings"

	"github.com/fesca-project/fesca/internal/fescaerr"
)

// Parse accepts exactly the grammar in spec.md §4.6:
//
//	SELECT <proj_item> (, <proj_item>)*
//	FROM <table>
//	[WHERE <expr>]
//	[GROUP BY <expr> (, <expr>)*]
//
// Anything else is a ParseError.
func Parse(sql string) (*SelectStmt, error) {
	toks, err := newLexer(sql).tokens()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	stmt, err := p.parseSelect()
	if err != nil {
		return nil, err
	}
	if p.cur().kind != tokEOF {
		return nil, fescaerr.New(fescaerr.ParseError, "unexpected trailing input")
	}
	return stmt, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) cur() token { return p.toks[p.pos] }

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(k tokenKind, what string) (token, error) {
	if p.cur().kind != k {
		return token{}, fescaerr.New(fescaerr.ParseError, "expected "+what)
	}
	return p.advance(), nil
}

func (p *parser) parseSelect() (*SelectStmt, error) {
	if _, err := p.expect(tokSelect, "SELECT"); err != nil {
		return nil, err
	}
	var items []SelectItem
	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.cur().kind == tokComma {
			p.advance()
			continue
		}
		break
	}
	if err := validateItemHomogeneity(items); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokFrom, "FROM"); err != nil {
		return nil, err
	}
	tableTok, err := p.expect(tokIdent, "table name")
	if err != nil {
		return nil, err
	}
	stmt := &SelectStmt{Items: items, Table: tableTok.text}

	if p.cur().kind == tokWhere {
		p.advance()
		where, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}
	if p.cur().kind == tokGroup {
		p.advance()
		if _, err := p.expect(tokBy, "BY"); err != nil {
			return nil, err
		}
		for {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			stmt.GroupBy = append(stmt.GroupBy, e)
			if p.cur().kind == tokComma {
				p.advance()
				continue
			}
			break
		}
	}
	return stmt, nil
}

func validateItemHomogeneity(items []SelectItem) error {
	hasAgg, hasPlain := false, false
	for _, it := range items {
		if it.Agg == AggNone {
			hasPlain = true
		} else {
			hasAgg = true
		}
	}
	if hasAgg && hasPlain {
		return fescaerr.New(fescaerr.ParseError, "select list mixes aggregates and plain expressions")
	}
	return nil
}

var aggNames = map[string]AggFun{"SUM": AggSum, "COUNT": AggCount, "AVG": AggAvg}

func (p *parser) parseSelectItem() (SelectItem, error) {
	if p.cur().kind == tokIdent {
		if agg, ok := aggNames[strings.ToUpper(p.cur().text)]; ok && p.peekIsLParen() {
			p.advance() // agg name
			p.advance() // '('
			e, err := p.parseExpr()
			if err != nil {
				return SelectItem{}, err
			}
			if _, err := p.expect(tokRParen, ")"); err != nil {
				return SelectItem{}, err
			}
			alias, err := p.parseOptionalAlias()
			if err != nil {
				return SelectItem{}, err
			}
			return SelectItem{Agg: agg, Expr: e, Alias: alias}, nil
		}
	}
	e, err := p.parseExpr()
	if err != nil {
		return SelectItem{}, err
	}
	alias, err := p.parseOptionalAlias()
	if err != nil {
		return SelectItem{}, err
	}
	return SelectItem{Agg: AggNone, Expr: e, Alias: alias}, nil
}

func (p *parser) peekIsLParen() bool {
	return p.pos+1 < len(p.toks) && p.toks[p.pos+1].kind == tokLParen
}

func (p *parser) parseOptionalAlias() (string, error) {
	if p.cur().kind == tokAs {
		p.advance()
		tok, err := p.expect(tokIdent, "alias")
		if err != nil {
			return "", err
		}
		return tok.text, nil
	}
	return "", nil
}

// parseExpr implements the grammar's precedence: AND binds loosest, then =,
// then +, then atoms - mirroring ordinary SQL precedence (arithmetic binds
// tighter than comparison, comparison tighter than logical AND).
func (p *parser) parseExpr() (*Expr, error) {
	return p.parseAnd()
}

func (p *parser) parseAnd() (*Expr, error) {
	left, err := p.parseEq()
	if err != nil {
		return nil, err
	}
	for p.cur().kind == tokAnd {
		p.advance()
		right, err := p.parseEq()
		if err != nil {
			return nil, err
		}
		left = &Expr{Kind: ExprAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseEq() (*Expr, error) {
	left, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	for p.cur().kind == tokEq {
		p.advance()
		right, err := p.parseAdd()
		if err != nil {
			return nil, err
		}
		left = &Expr{Kind: ExprEq, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAdd() (*Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.cur().kind == tokPlus {
		p.advance()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = &Expr{Kind: ExprAdd, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parsePrimary() (*Expr, error) {
	t := p.cur()
	switch t.kind {
	case tokIdent:
		p.advance()
		return &Expr{Kind: ExprColumn, Column: t.text}, nil
	case tokInt:
		p.advance()
		n, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			return nil, fescaerr.Wrap(fescaerr.ParseError, t.text, err)
		}
		return &Expr{Kind: ExprIntLit, IntVal: n}, nil
	case tokString:
		p.advance()
		return &Expr{Kind: ExprStringLit, StrVal: t.text}, nil
	case tokLParen:
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, ")"); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fescaerr.New(fescaerr.ParseError, "expected an expression")
	}
}
