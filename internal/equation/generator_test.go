package equation

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seqRand replays a fixed cycle of values, steering generation down a
// chosen path.
type seqRand struct {
	vals []int
	i    int
}

func (s *seqRand) Intn(n int) int {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v % n
}

func TestGenerate_AlwaysSelfValid(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(1)))
	for i := 0; i < 1000; i++ {
		eq := g.Generate()
		require.Len(t, eq, Length)
		require.NoError(t, Validate(eq), eq)
	}
}

func TestGenerate_SingleOperatorShapes(t *testing.T) {
	// shape=0 forces single-operator; second value picks + or -.
	plus := NewGenerator(&seqRand{vals: []int{0, 0, 12, 30}})
	eq := plus.Generate()
	require.NoError(t, Validate(eq))
	assert.Contains(t, eq, "+")

	minus := NewGenerator(&seqRand{vals: []int{0, 1, 40, 7}})
	eq = minus.Generate()
	require.NoError(t, Validate(eq))
	assert.Contains(t, eq, "-")
}

func TestGenerate_FallbackWhenExhausted(t *testing.T) {
	// Every attempt picks the double-operator shape with a zero divisor,
	// so sampling never succeeds and the pool must answer.
	g := NewGenerator(&seqRand{vals: []int{1, 0, 0, 0, 3, 3}})
	g.Fallback = []string{"12+35=47"}

	eq := g.Generate()
	assert.Equal(t, "12+35=47", eq)
}

func TestGenerate_BoundedAttempts(t *testing.T) {
	rng := &seqRand{vals: []int{1, 0, 0, 0, 3, 3}}
	g := NewGenerator(rng)
	g.MaxAttempts = 7
	g.Fallback = []string{"12+35=47"}
	g.Generate()

	// 6 draws per failed attempt plus the final fallback pick.
	assert.Equal(t, 7*6+1, rng.i)
}

func TestFallbackPoolIsSelfValid(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(1)))
	require.NotEmpty(t, g.Fallback)
	for _, eq := range g.Fallback {
		assert.NoError(t, Validate(eq), eq)
	}
}
