// internal/equation/generator.go
//
// Rejection-sampling generation of valid 8-character equations.
//
// Two shapes are produced:
//   - one operator:  dd+dd=dd or dd-dd=dd (all two-digit terms)
//   - two operators: dd⊕d⊗d=d, evaluated left to right, where the
//     intermediate and final values must stay non-negative, divisions
//     must be exact, and the result must be a single digit.
//
// Sampling is retried up to a bounded number of attempts; if the budget
// is exhausted the generator falls back to an embedded pool of
// known-valid equations so a daily puzzle is always available.
package equation

import (
	"fmt"

	"github.com/connorpodea/EQLE/assets"
)

// defaultMaxAttempts bounds rejection sampling before the fallback pool
// is consulted.
const defaultMaxAttempts = 100

// Rand is the source of randomness for generation. *math/rand.Rand
// satisfies it; tests substitute deterministic sources.
type Rand interface {
	Intn(n int) int
}

// Generator produces random valid equations.
type Generator struct {
	rng         Rand
	MaxAttempts int
	Fallback    []string // consulted when sampling exhausts MaxAttempts
}

// NewGenerator constructs a Generator over rng with the embedded
// fallback pool.
func NewGenerator(rng Rand) *Generator {
	pool, err := assets.FallbackEquations()
	if err != nil || len(pool) == 0 {
		// The embedded pool should always load; keep one safe answer so
		// Generate never returns an empty string.
		pool = []string{"12+35=47"}
	}
	return &Generator{rng: rng, MaxAttempts: defaultMaxAttempts, Fallback: pool}
}

// Generate returns a valid equation of exactly Length characters.
func (g *Generator) Generate() string {
	for i := 0; i < g.MaxAttempts; i++ {
		s := g.candidate()
		if len(s) != Length {
			continue
		}
		if Validate(s) == nil {
			return s
		}
	}
	return g.Fallback[g.rng.Intn(len(g.Fallback))]
}

// candidate samples one equation shape. It may return a string of the
// wrong length or an invalid equation; Generate filters those out.
func (g *Generator) candidate() string {
	if g.rng.Intn(2) == 0 {
		return g.singleOperator()
	}
	return g.doubleOperator()
}

// singleOperator renders dd+dd=dd or dd-dd=dd with every term two-digit.
func (g *Generator) singleOperator() string {
	if g.rng.Intn(2) == 0 {
		// a+b=c with a,b,c all in 10..99.
		a := 10 + g.rng.Intn(80) // 10..89
		b := 10 + g.rng.Intn(90-a)
		return fmt.Sprintf("%d+%d=%d", a, b, a+b)
	}
	// a-b=c with a,b,c all in 10..99.
	a := 20 + g.rng.Intn(80) // 20..99
	b := 10 + g.rng.Intn(a-19)
	return fmt.Sprintf("%d-%d=%d", a, b, a-b)
}

// doubleOperator renders dd⊕d⊗d=d, rejecting samples whose left-to-right
// evaluation goes negative, divides inexactly, or overflows one digit.
func (g *Generator) doubleOperator() string {
	ops := [4]byte{'+', '-', '*', '/'}
	a := 10 + g.rng.Intn(90)
	b := g.rng.Intn(10)
	c := g.rng.Intn(10)
	op1 := ops[g.rng.Intn(4)]
	op2 := ops[g.rng.Intn(4)]

	mid, err := Evaluate([]int{a, b}, []byte{op1})
	if err != nil || mid < 0 {
		return ""
	}
	res, err := Evaluate([]int{mid, c}, []byte{op2})
	if err != nil || res < 0 || res > 9 {
		return ""
	}
	return fmt.Sprintf("%d%c%d%c%d=%d", a, op1, b, op2, c, res)
}
