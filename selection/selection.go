// Package selection turns the requested comic mode into a concrete index.
package selection

import (
	"errors"
	"fmt"
	"strconv"
)

var ErrOutOfRange = errors.New("comic index out of range")

type Kind int

const (
	Random Kind = iota
	Last
	Nth
)

// Mode is one of "random", "last" or an explicit comic number.
type Mode struct {
	Kind Kind
	N    int
}

func (m *Mode) UnmarshalText(text []byte) error {
	switch s := string(text); s {
	case "random":
		*m = Mode{Kind: Random}
	case "last":
		*m = Mode{Kind: Last}
	default:
		n, err := strconv.ParseUint(s, 10, 63)
		if err != nil {
			return fmt.Errorf("invalid mode %q, should be random, last or a comic number", s)
		}
		*m = Mode{Kind: Nth, N: int(n)}
	}
	return nil
}

func (m Mode) String() string {
	switch m.Kind {
	case Random:
		return "random"
	case Last:
		return "last"
	default:
		return strconv.Itoa(m.N)
	}
}

// Source yields integers in [0, n). *math/rand/v2.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// Select maps mode to a comic index given the latest published one. Random
// picks uniformly in [1, last) and Nth is returned as is.
func Select(mode Mode, last int, rng Source) (int, error) {
	switch mode.Kind {
	case Last:
		return last, nil
	case Nth:
		return mode.N, nil
	default:
		if last <= 1 {
			return 0, fmt.Errorf("%w: no comic to pick at random below %d", ErrOutOfRange, last)
		}
		return 1 + rng.IntN(last-1), nil
	}
}

// Validate rejects indices the comic source cannot serve.
func Validate(n, last int) error {
	if n < 1 || n > last {
		return fmt.Errorf("%w: %d is not between 1 and %d", ErrOutOfRange, n, last)
	}
	return nil
}
