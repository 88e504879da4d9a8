package hashset

import (
	"math/bits"
	"math/rand"
)

// FairRandomElement returns a uniformly random element and reports true, or
// reports false if the set is empty. It starts at a freshly chosen bucket
// (step 1 of the algorithm this implements) and walks every bucket of the
// table exactly once from there, wrapping around, collecting the run into a
// candidate set via reservoir sampling as it goes (steps 2 and 3). Running
// the walk over the whole table rather than a short window means no probe
// chain, however long, can ever be split across a window boundary and bias
// the pick toward or away from it: every occupied slot is seen by every
// call, so each gets exactly a 1/Len() chance, regardless of how elements
// happen to be clustered by hash.
func (h *Hashset[E]) FairRandomElement() (e E, ok bool) {
	if h.Len() == 0 {
		return e, false
	}
	t := h.t0
	if h.isRehashing() {
		total := h.t0.used + h.t1.used
		if rand.Intn(total) >= h.t0.used {
			t = h.t1
		}
	}

	capacity := len(t.buckets)
	start := rand.Intn(capacity)

	seen := 0
	for i := 0; i < capacity; i++ {
		b := &t.buckets[(start+i)%capacity]
		occ := b.occupied
		for occ != 0 {
			slot := bits.TrailingZeros8(occ)
			occ &^= 1 << slot
			seen++
			if rand.Intn(seen) == 0 {
				e = b.slots[slot]
				ok = true
			}
		}
	}
	return e, ok
}
