// internal/equation/equation.go
//
// Equation grammar, parsing, and validation for the EQLE engine.
// An equation is a fixed 8-character string of the form
//
//	<operand>(<operator><operand>)+=<result>
//
// where operands and the result are non-negative integers and the four
// basic operators are evaluated strictly left to right (no precedence).
//
// Validation applies ordered rules and reports the first failure class:
//   - ErrIncomplete: fewer than 8 characters typed.
//   - ErrMalformed:  fails the grammar or integer parsing.
//   - ErrArithmetic: parses, but left-to-right evaluation disagrees with
//     the stated result (including zero or non-exact division).
package equation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Length is the fixed character count of every equation.
const Length = 8

// Guesses slots per session.
const MaxGuesses = 6

var (
	ErrIncomplete = errors.New("equation incomplete")
	ErrMalformed  = errors.New("equation malformed")
	ErrArithmetic = errors.New("equation does not compute")
)

// IsDigit reports whether c is an ASCII digit.
func IsDigit(c byte) bool { return c >= '0' && c <= '9' }

// IsOperator reports whether c is one of the four basic operators.
func IsOperator(c byte) bool { return c == '+' || c == '-' || c == '*' || c == '/' }

// IsValidChar reports whether c may appear in an equation.
func IsValidChar(c byte) bool { return IsDigit(c) || IsOperator(c) || c == '=' }

// Parsed is the decomposed form of a syntactically valid equation.
type Parsed struct {
	Operands  []int  // left-hand side operands, in order
	Operators []byte // len(Operands)-1 operators between them
	Result    int    // stated right-hand side
}

// Validate decides whether a full candidate string is an acceptable
// equation. The rules are applied in order and short-circuit:
//
//  1. Exactly Length characters (spaces mean unfinished typing).
//  2. Grammar: digits (operator digits)+ = digits.
//  3. Operands and result parse as non-negative integers.
//  4. Left-to-right evaluation succeeds (exact, non-zero division).
//  5. The running value equals the stated result.
func Validate(s string) error {
	if len(s) != Length || strings.ContainsRune(s, ' ') {
		return fmt.Errorf("%w: need %d characters", ErrIncomplete, Length)
	}
	p, err := Parse(s)
	if err != nil {
		return err
	}
	got, err := Evaluate(p.Operands, p.Operators)
	if err != nil {
		return err
	}
	if got != p.Result {
		return fmt.Errorf("%w: left side evaluates to %d, not %d", ErrArithmetic, got, p.Result)
	}
	return nil
}

// Parse decomposes s into operands, operators, and the stated result.
// It enforces the grammar but does not evaluate.
func Parse(s string) (Parsed, error) {
	var p Parsed

	sides := strings.Split(s, "=")
	if len(sides) != 2 {
		return p, fmt.Errorf("%w: need exactly one '='", ErrMalformed)
	}
	lhs, rhs := sides[0], sides[1]
	if !allDigits(rhs) {
		return p, fmt.Errorf("%w: right side must be a number", ErrMalformed)
	}
	result, err := strconv.Atoi(rhs)
	if err != nil {
		return p, fmt.Errorf("%w: right side %q: %v", ErrMalformed, rhs, err)
	}

	// Tokenize the left side: digit runs separated by single operators.
	var cur strings.Builder
	flush := func() error {
		if cur.Len() == 0 {
			return fmt.Errorf("%w: operator without operand", ErrMalformed)
		}
		n, err := strconv.Atoi(cur.String())
		if err != nil {
			return fmt.Errorf("%w: operand %q: %v", ErrMalformed, cur.String(), err)
		}
		p.Operands = append(p.Operands, n)
		cur.Reset()
		return nil
	}
	for i := 0; i < len(lhs); i++ {
		c := lhs[i]
		switch {
		case IsDigit(c):
			cur.WriteByte(c)
		case IsOperator(c):
			if err := flush(); err != nil {
				return Parsed{}, err
			}
			p.Operators = append(p.Operators, c)
		default:
			return Parsed{}, fmt.Errorf("%w: unexpected character %q", ErrMalformed, c)
		}
	}
	if err := flush(); err != nil {
		return Parsed{}, err
	}
	if len(p.Operators) == 0 {
		return Parsed{}, fmt.Errorf("%w: need at least one operator", ErrMalformed)
	}
	p.Result = result
	return p, nil
}

// Evaluate computes operands joined by operators strictly left to right.
// A zero divisor or a non-exact division is an arithmetic error; the
// running value is otherwise unconstrained (it may go negative).
func Evaluate(operands []int, operators []byte) (int, error) {
	if len(operands) != len(operators)+1 {
		return 0, fmt.Errorf("%w: %d operands for %d operators", ErrMalformed, len(operands), len(operators))
	}
	acc := operands[0]
	for i, op := range operators {
		n := operands[i+1]
		switch op {
		case '+':
			acc += n
		case '-':
			acc -= n
		case '*':
			acc *= n
		case '/':
			if n == 0 {
				return 0, fmt.Errorf("%w: division by zero", ErrArithmetic)
			}
			if acc%n != 0 {
				return 0, fmt.Errorf("%w: %d/%d is not exact", ErrArithmetic, acc, n)
			}
			acc /= n
		default:
			return 0, fmt.Errorf("%w: unknown operator %q", ErrMalformed, op)
		}
	}
	return acc, nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !IsDigit(s[i]) {
			return false
		}
	}
	return true
}
