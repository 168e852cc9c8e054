package tetris

import "math/rand/v2"

// Bag is a 7-bag randomizer: every kind is dealt exactly once per cycle.
type Bag struct {
	kinds []Kind
	rng   *rand.Rand
}

// NewBag returns an empty bag. A nil r falls back to the global source.
func NewBag(r *rand.Rand) *Bag {
	return &Bag{rng: r}
}

// Draw removes and returns the next kind, refilling the bag with a fresh
// permutation when it is empty.
func (b *Bag) Draw() Kind {
	if len(b.kinds) == 0 {
		b.refill()
	}
	k := b.kinds[len(b.kinds)-1]
	b.kinds = b.kinds[:len(b.kinds)-1]
	return k
}

// Len returns how many kinds are left in the current cycle.
func (b *Bag) Len() int { return len(b.kinds) }

func (b *Bag) refill() {
	b.kinds = Kinds()
	swap := func(i, j int) { b.kinds[i], b.kinds[j] = b.kinds[j], b.kinds[i] }
	if b.rng != nil {
		b.rng.Shuffle(len(b.kinds), swap)
		return
	}
	rand.Shuffle(len(b.kinds), swap)
}
