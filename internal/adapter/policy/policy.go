// Package policy provides a seeded action source for driving episodes without
// a learned policy.
package policy

import "math/rand/v2"

// Random picks each component action uniformly from 0..n, where n is the
// component's action count and 0 is the no-op.
type Random struct {
	rng    *rand.Rand
	counts map[string]int
}

func NewRandom(seed uint64, counts map[string]int) *Random {
	c := make(map[string]int, len(counts))
	for k, v := range counts {
		c[k] = v
	}
	return &Random{
		rng:    rand.New(rand.NewPCG(seed, ^seed)),
		counts: c,
	}
}

// ComponentAction returns 0 (no-op) or one of the component's n actions.
func (r *Random) ComponentAction(_ string, component string) (int, bool) {
	n, ok := r.counts[component]
	if !ok || n <= 0 {
		return 0, false
	}
	return r.rng.IntN(n + 1), true
}
