package search

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

var ErrUnknownTieBreak = errors.New("unknown tie break")

// TieBreaker chooses among columns that share the best value. cols is
// non-empty and ascending.
type TieBreaker interface {
	Pick(cols []int) int
}

// FirstTie prefers the lowest column.
type FirstTie struct{}

func (FirstTie) Pick(cols []int) int { return cols[0] }

// LastTie prefers the highest column.
type LastTie struct{}

func (LastTie) Pick(cols []int) int { return cols[len(cols)-1] }

// RandomTie picks uniformly with its own seeded source. Safe for concurrent
// use.
type RandomTie struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomTie(seed int64) *RandomTie {
	return &RandomTie{rng: rand.New(rand.NewSource(seed))}
}

func (r *RandomTie) Pick(cols []int) int {
	if len(cols) == 1 {
		return cols[0]
	}
	r.mu.Lock()
	i := r.rng.Intn(len(cols))
	r.mu.Unlock()
	return cols[i]
}

// ParseTieBreak maps a policy name to a TieBreaker. An empty name is
// "first". For "random" a zero seed is replaced by the current time.
func ParseTieBreak(name string, seed int64) (TieBreaker, error) {
	switch name {
	case "", "first":
		return FirstTie{}, nil
	case "last":
		return LastTie{}, nil
	case "random":
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		return NewRandomTie(seed), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTieBreak, name)
}
