package dice

import (
	"math/rand"
	"sync"
	"time"
)

// Roller rolls dice from a single pseudo random source. It is safe for
// concurrent use.
type Roller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRoller() *Roller {
	return NewRollerWithRng(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewRollerWithRng creates a roller using a provided random source.
// This is useful when you want to control the RNG directly.
func NewRollerWithRng(rng *rand.Rand) *Roller {
	return &Roller{rng: rng}
}

// Roll rolls a single die with the provided number of sides, uniform
// over [1, sides].
func (r *Roller) Roll(sides int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(sides) + 1
}

func (r *Roller) D20() int {
	return r.Roll(20)
}
