// tools/calculator.go
package tools

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// allowedMathChars is the character set accepted before evaluation.
const allowedMathChars = "0123456789+-*/().,"

var mathPattern = regexp.MustCompile(`[\d+\-*/()\s.]+`)

var errDivisionByZero = errors.New("division by zero")

// CalculatorTool evaluates arithmetic expressions.
type CalculatorTool struct {
	base
}

// NewCalculatorTool creates the calculator tool
func NewCalculatorTool() *CalculatorTool {
	return &CalculatorTool{base: base{
		name:                 "calculator",
		description:          "Perform mathematical calculations",
		parameterName:        "expression",
		parameterDescription: "The arithmetic expression to evaluate",
		keywords: []string{
			"calculate", "math", "compute", "+", "-", "*", "/", "=",
			"plus", "minus", "times", "divide",
		},
	}}
}

// ArgumentFromInput pulls the arithmetic expression out of free text
func (t *CalculatorTool) ArgumentFromInput(input string) string {
	return ExtractExpression(input)
}

// Invoke evaluates the expression. All calculation failures are reported
// as friendly text, never as errors.
func (t *CalculatorTool) Invoke(ctx context.Context, arg string) (string, error) {
	expression := strings.TrimSpace(arg)

	for _, r := range expression {
		if !strings.ContainsRune(allowedMathChars, r) && !unicode.IsSpace(r) {
			return "❌ Only basic math operations allowed", nil
		}
	}

	result, err := evaluate(expression)
	if err != nil {
		if errors.Is(err, errDivisionByZero) {
			return "❌ Division by zero error", nil
		}
		return fmt.Sprintf("❌ Math error: %s", err), nil
	}

	return fmt.Sprintf("🧮 %s = %s", expression, formatNumber(result)), nil
}

// ExtractExpression returns the longest run of arithmetic characters in
// the text, which is how calculations are pulled out of chat messages.
func ExtractExpression(text string) string {
	matches := mathPattern.FindAllString(text, -1)
	best := ""
	for _, m := range matches {
		if len(strings.TrimSpace(m)) > len(strings.TrimSpace(best)) {
			best = m
		}
	}
	return strings.TrimSpace(best)
}

// evaluate parses and computes an arithmetic expression with the usual
// precedence: unary sign, ** (right associative), * and /, then + and -.
func evaluate(expression string) (float64, error) {
	p := &exprParser{input: []rune(expression)}
	v, err := p.parseAdditive()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos < len(p.input) {
		return 0, fmt.Errorf("unexpected character %q", p.input[p.pos])
	}
	return v, nil
}

type exprParser struct {
	input []rune
	pos   int
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.input) && unicode.IsSpace(p.input[p.pos]) {
		p.pos++
	}
}

func (p *exprParser) peek() rune {
	if p.pos < len(p.input) {
		return p.input[p.pos]
	}
	return 0
}

// peekPower reports whether the parser is looking at "**"
func (p *exprParser) peekPower() bool {
	return p.peek() == '*' && p.pos+1 < len(p.input) && p.input[p.pos+1] == '*'
}

func (p *exprParser) parseAdditive() (float64, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpace()
		switch p.peek() {
		case '+':
			p.pos++
			right, err := p.parseMultiplicative()
			if err != nil {
				return 0, err
			}
			left += right
		case '-':
			p.pos++
			right, err := p.parseMultiplicative()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

func (p *exprParser) parseMultiplicative() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpace()
		if p.peek() == '*' && !p.peekPower() {
			p.pos++
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			left *= right
		} else if p.peek() == '/' {
			p.pos++
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, errDivisionByZero
			}
			left /= right
		} else {
			return left, nil
		}
	}
}

func (p *exprParser) parseUnary() (float64, error) {
	p.skipSpace()
	switch p.peek() {
	case '+':
		p.pos++
		return p.parseUnary()
	case '-':
		p.pos++
		v, err := p.parseUnary()
		return -v, err
	}
	return p.parsePower()
}

func (p *exprParser) parsePower() (float64, error) {
	baseVal, err := p.parsePrimary()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.peekPower() {
		p.pos += 2
		exponent, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return math.Pow(baseVal, exponent), nil
	}
	return baseVal, nil
}

func (p *exprParser) parsePrimary() (float64, error) {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return 0, errors.New("unexpected end of expression")
	}
	if p.input[p.pos] == '(' {
		p.pos++
		v, err := p.parseAdditive()
		if err != nil {
			return 0, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return 0, errors.New("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	}
	return p.parseNumber()
}

func (p *exprParser) parseNumber() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) && (unicode.IsDigit(p.input[p.pos]) || p.input[p.pos] == '.') {
		p.pos++
	}
	if start == p.pos {
		return 0, fmt.Errorf("unexpected character %q", p.input[p.pos])
	}
	text := string(p.input[start:p.pos])
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", text)
	}
	return v, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
