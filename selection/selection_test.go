package selection

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSource []int

func (f *fixedSource) IntN(n int) int {
	v := (*f)[0]
	*f = (*f)[1:]
	return v % n
}

func TestModeUnmarshalText(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Mode
	}{
		{"random", Mode{Kind: Random}},
		{"last", Mode{Kind: Last}},
		{"0", Mode{Kind: Nth, N: 0}},
		{"2718", Mode{Kind: Nth, N: 2718}},
	} {
		var m Mode
		require.NoError(t, m.UnmarshalText([]byte(tc.in)))
		assert.Equal(t, tc.want, m)
		assert.Equal(t, tc.in, m.String())
	}

	for _, bad := range []string{"", "Random", "-3", "12a", "first"} {
		var m Mode
		assert.Error(t, m.UnmarshalText([]byte(bad)), bad)
	}
}

func TestSelectLastAndNth(t *testing.T) {
	n, err := Select(Mode{Kind: Last}, 3000, nil)
	require.NoError(t, err)
	assert.Equal(t, 3000, n)

	n, err = Select(Mode{Kind: Nth, N: 4000}, 3000, nil)
	require.NoError(t, err)
	assert.Equal(t, 4000, n)
}

func TestSelectRandomStaysBelowLast(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	seen := map[int]bool{}
	for range 10000 {
		n, err := Select(Mode{Kind: Random}, 100, rng)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 1)
		require.LessOrEqual(t, n, 99)
		seen[n] = true
	}
	assert.Len(t, seen, 99)
}

func TestSelectRandomUsesSource(t *testing.T) {
	src := fixedSource{0, 98, 41}
	for _, want := range []int{1, 99, 42} {
		n, err := Select(Mode{Kind: Random}, 100, &src)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
}

func TestSelectRandomNeedsTwoComics(t *testing.T) {
	_, err := Select(Mode{Kind: Random}, 1, nil)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(1, 10))
	assert.NoError(t, Validate(10, 10))
	assert.ErrorIs(t, Validate(0, 10), ErrOutOfRange)
	assert.ErrorIs(t, Validate(11, 10), ErrOutOfRange)
}
