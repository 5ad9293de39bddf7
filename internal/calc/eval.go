package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrBadExpression marks any syntactically invalid arithmetic input.
var ErrBadExpression = errors.New("invalid expression")

// ErrDivisionByZero is returned by Eval; unlike the interactive calculator,
// a textual expression has no display to fall back to.
var ErrDivisionByZero = errors.New("division by zero")

// Eval evaluates a textual arithmetic expression with +, -, *, /, unary
// minus and parentheses. It is a recursive-descent parser over a real
// grammar; there is no dynamic evaluation of untrusted input.
func Eval(input string) (float64, error) {
	p := &parser{input: input}
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	if p.pos != len(p.input) {
		return 0, fmt.Errorf("%w: unexpected %q at position %d", ErrBadExpression, p.input[p.pos], p.pos)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: result is not finite", ErrBadExpression)
	}
	return v, nil
}

type parser struct {
	input string
	pos   int
}

// expr := term (('+' | '-') term)*
func (p *parser) parseExpr() (float64, error) {
	v, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpaces()
		switch p.peek() {
		case '+':
			p.pos++
			rhs, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			v += rhs
		case '-':
			p.pos++
			rhs, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			v -= rhs
		default:
			return v, nil
		}
	}
}

// term := unary (('*' | '/') unary)*
func (p *parser) parseTerm() (float64, error) {
	v, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpaces()
		switch p.peek() {
		case '*':
			p.pos++
			rhs, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			v *= rhs
		case '/':
			p.pos++
			rhs, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			if rhs == 0 {
				return 0, ErrDivisionByZero
			}
			v /= rhs
		default:
			return v, nil
		}
	}
}

// unary := '-' unary | primary
func (p *parser) parseUnary() (float64, error) {
	p.skipSpaces()
	if p.peek() == '-' {
		p.pos++
		v, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return -v, nil
	}
	return p.parsePrimary()
}

// primary := number | '(' expr ')'
func (p *parser) parsePrimary() (float64, error) {
	p.skipSpaces()
	if p.peek() == '(' {
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		p.skipSpaces()
		if p.peek() != ')' {
			return 0, fmt.Errorf("%w: missing closing parenthesis", ErrBadExpression)
		}
		p.pos++
		return v, nil
	}
	return p.parseNumber()
}

func (p *parser) parseNumber() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if (c >= '0' && c <= '9') || c == '.' {
			p.pos++
			continue
		}
		break
	}
	if p.pos == start {
		if p.pos >= len(p.input) {
			return 0, fmt.Errorf("%w: unexpected end of input", ErrBadExpression)
		}
		return 0, fmt.Errorf("%w: unexpected %q at position %d", ErrBadExpression, p.input[p.pos], p.pos)
	}
	token := p.input[start:p.pos]
	if strings.Count(token, ".") > 1 {
		return 0, fmt.Errorf("%w: malformed number %q", ErrBadExpression, token)
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed number %q", ErrBadExpression, token)
	}
	return v, nil
}

func (p *parser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) skipSpaces() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}
