// Package calc evaluates the four-function expressions typed into the
// amount field. It never hands input to a general-purpose evaluator.
package calc

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyExpression  = errors.New("empty expression")
	ErrInvalidCharacter = errors.New("invalid character in expression")
	ErrSyntax           = errors.New("syntax error")
	ErrDivisionByZero   = errors.New("division by zero")
)

// Precision is the number of decimal places kept in results.
const Precision = 10

// Evaluate computes expr. Accepted input is digits, '.', the operators
// + - * / and spaces. Multiplication and division bind tighter than
// addition and subtraction, and a minus sign may prefix any operand.
func Evaluate(expr string) (decimal.Decimal, error) {
	if strings.TrimSpace(expr) == "" {
		return decimal.Zero, ErrEmptyExpression
	}
	for _, r := range expr {
		if !isAllowed(r) {
			return decimal.Zero, ErrInvalidCharacter
		}
	}

	p := &parser{src: expr}
	v, err := p.expression()
	if err != nil {
		return decimal.Zero, err
	}
	if p.peek() != 0 {
		return decimal.Zero, ErrSyntax
	}
	return v.Round(Precision), nil
}

func isAllowed(r rune) bool {
	return (r >= '0' && r <= '9') || strings.ContainsRune(".+-*/ ", r)
}

type parser struct {
	src string
	pos int
}

// peek skips spaces and returns the next byte, or 0 at the end.
func (p *parser) peek() byte {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

// expression := term (('+' | '-') term)*
func (p *parser) expression() (decimal.Decimal, error) {
	left, err := p.term()
	if err != nil {
		return left, err
	}
	for {
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.term()
		if err != nil {
			return right, err
		}
		if op == '+' {
			left = left.Add(right)
		} else {
			left = left.Sub(right)
		}
	}
}

// term := unary (('*' | '/') unary)*
func (p *parser) term() (decimal.Decimal, error) {
	left, err := p.unary()
	if err != nil {
		return left, err
	}
	for {
		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.unary()
		if err != nil {
			return right, err
		}
		if op == '*' {
			left = left.Mul(right)
			continue
		}
		if right.IsZero() {
			return decimal.Zero, ErrDivisionByZero
		}
		left = left.DivRound(right, Precision+2)
	}
}

// unary := '-' unary | number
func (p *parser) unary() (decimal.Decimal, error) {
	if p.peek() == '-' {
		p.pos++
		v, err := p.unary()
		return v.Neg(), err
	}
	return p.number()
}

func (p *parser) number() (decimal.Decimal, error) {
	p.peek()
	start := p.pos
	dots := 0
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '.' {
			dots++
		} else if c < '0' || c > '9' {
			break
		}
		p.pos++
	}
	lit := p.src[start:p.pos]
	if lit == "" || lit == "." || dots > 1 {
		return decimal.Zero, ErrSyntax
	}
	v, err := decimal.NewFromString(lit)
	if err != nil {
		return decimal.Zero, ErrSyntax
	}
	return v, nil
}
