// Package expr evaluates the small placeholder expressions embedded in
// configuration templates, e.g. "uk_years + 1". The grammar is fixed:
// identifiers, integer/decimal literals, the four arithmetic operators,
// unary minus and parentheses. Nothing else parses, so template authors
// cannot smuggle in arbitrary code.
package expr

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/thall/longview/internal/domain"
)

// Bindings maps parameter names to their numeric values.
type Bindings map[string]decimal.Decimal

// Eval parses and evaluates src against the bindings. It fails with an
// ExpressionError on unknown identifiers, malformed tokens, division by
// zero, or trailing input.
func Eval(src string, bindings Bindings) (decimal.Decimal, error) {
	p := &parser{src: src, bindings: bindings}
	p.next()
	v, err := p.parseExpr()
	if err != nil {
		return decimal.Zero, err
	}
	if p.tok.kind != tokEOF {
		return decimal.Zero, p.errorf("unexpected %q after expression", p.tok.text)
	}
	return v, nil
}

// ExpandString replaces every {{ expression }} placeholder in s with its
// evaluated value. A string that is exactly one placeholder keeps full
// numeric precision; embedded placeholders are formatted with trailing
// zeros trimmed.
func ExpandString(s string, bindings Bindings) (string, error) {
	var out strings.Builder
	rest := s
	for {
		open := strings.Index(rest, "{{")
		if open < 0 {
			out.WriteString(rest)
			return out.String(), nil
		}
		closing := strings.Index(rest[open:], "}}")
		if closing < 0 {
			return "", &domain.ExpressionError{Expr: s, Msg: "unterminated placeholder"}
		}
		closing += open
		inner := strings.TrimSpace(rest[open+2 : closing])
		v, err := Eval(inner, bindings)
		if err != nil {
			return "", err
		}
		out.WriteString(rest[:open])
		out.WriteString(v.String())
		rest = rest[closing+2:]
	}
}

// HasPlaceholder reports whether s contains a {{ }} placeholder.
func HasPlaceholder(s string) bool {
	open := strings.Index(s, "{{")
	return open >= 0 && strings.Contains(s[open:], "}}")
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokInvalid
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
}

type parser struct {
	src      string
	pos      int
	tok      token
	bindings Bindings
}

func (p *parser) errorf(format string, args ...any) error {
	return &domain.ExpressionError{Expr: p.src, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) next() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
	if p.pos >= len(p.src) {
		p.tok = token{kind: tokEOF}
		return
	}
	c := p.src[p.pos]
	switch {
	case c == '+':
		p.pos++
		p.tok = token{tokPlus, "+"}
	case c == '-':
		p.pos++
		p.tok = token{tokMinus, "-"}
	case c == '*':
		p.pos++
		p.tok = token{tokStar, "*"}
	case c == '/':
		p.pos++
		p.tok = token{tokSlash, "/"}
	case c == '(':
		p.pos++
		p.tok = token{tokLParen, "("}
	case c == ')':
		p.pos++
		p.tok = token{tokRParen, ")"}
	case c >= '0' && c <= '9' || c == '.':
		start := p.pos
		for p.pos < len(p.src) && (p.src[p.pos] >= '0' && p.src[p.pos] <= '9' || p.src[p.pos] == '.') {
			p.pos++
		}
		p.tok = token{tokNumber, p.src[start:p.pos]}
	case isIdentStart(c):
		start := p.pos
		for p.pos < len(p.src) && isIdentPart(p.src[p.pos]) {
			p.pos++
		}
		p.tok = token{tokIdent, p.src[start:p.pos]}
	default:
		p.tok = token{tokInvalid, string(c)}
		p.pos++
	}
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}

// parseExpr = term { ("+" | "-") term }
func (p *parser) parseExpr() (decimal.Decimal, error) {
	v, err := p.parseTerm()
	if err != nil {
		return decimal.Zero, err
	}
	for p.tok.kind == tokPlus || p.tok.kind == tokMinus {
		op := p.tok.kind
		p.next()
		rhs, err := p.parseTerm()
		if err != nil {
			return decimal.Zero, err
		}
		if op == tokPlus {
			v = v.Add(rhs)
		} else {
			v = v.Sub(rhs)
		}
	}
	return v, nil
}

// parseTerm = factor { ("*" | "/") factor }
func (p *parser) parseTerm() (decimal.Decimal, error) {
	v, err := p.parseFactor()
	if err != nil {
		return decimal.Zero, err
	}
	for p.tok.kind == tokStar || p.tok.kind == tokSlash {
		op := p.tok.kind
		p.next()
		rhs, err := p.parseFactor()
		if err != nil {
			return decimal.Zero, err
		}
		if op == tokStar {
			v = v.Mul(rhs)
		} else {
			if rhs.IsZero() {
				return decimal.Zero, p.errorf("division by zero")
			}
			v = v.Div(rhs)
		}
	}
	return v, nil
}

// parseFactor = number | identifier | "(" expr ")" | "-" factor
func (p *parser) parseFactor() (decimal.Decimal, error) {
	switch p.tok.kind {
	case tokNumber:
		v, err := decimal.NewFromString(p.tok.text)
		if err != nil {
			return decimal.Zero, p.errorf("malformed number %q", p.tok.text)
		}
		p.next()
		return v, nil
	case tokIdent:
		v, ok := p.bindings[p.tok.text]
		if !ok {
			return decimal.Zero, p.errorf("unknown identifier %q", p.tok.text)
		}
		p.next()
		return v, nil
	case tokMinus:
		p.next()
		v, err := p.parseFactor()
		if err != nil {
			return decimal.Zero, err
		}
		return v.Neg(), nil
	case tokLParen:
		p.next()
		v, err := p.parseExpr()
		if err != nil {
			return decimal.Zero, err
		}
		if p.tok.kind != tokRParen {
			return decimal.Zero, p.errorf("missing closing parenthesis")
		}
		p.next()
		return v, nil
	case tokInvalid:
		return decimal.Zero, p.errorf("unsupported character %q", p.tok.text)
	case tokEOF:
		return decimal.Zero, p.errorf("unexpected end of expression")
	default:
		return decimal.Zero, p.errorf("unexpected token %q", p.tok.text)
	}
}
