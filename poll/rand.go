package poll

import (
	"math/rand"
	"time"
)

// Rand is the pseudorandom source passed explicitly to every component
// that needs one (UHF carrier-sense back-off, frame id generation,
// Ethernet MAC generation). Passing it explicitly, rather than reaching for the
// package-level math/rand functions, keeps every poll deterministic
// given the same (time, rand) sequence — useful for reproducing a test
// failure.
type Rand struct {
	r *rand.Rand
}

// NewRand creates a [Rand] seeded deterministically.
func NewRand(seed int64) *Rand {
	return &Rand{r: rand.New(rand.NewSource(seed))}
}

// Intn returns a pseudorandom number in [0, n).
func (p *Rand) Intn(n int) int {
	return p.r.Intn(n)
}

// Uint16 returns a pseudorandom 16-bit value, used for frame ids.
func (p *Rand) Uint16() uint16 {
	return uint16(p.r.Intn(1 << 16))
}

// DurationBetween returns a pseudorandom duration in [min, max). Used
// by the UHF port to jitter its carrier-sense back-off.
func (p *Rand) DurationBetween(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(p.r.Int63n(int64(max-min)))
}
