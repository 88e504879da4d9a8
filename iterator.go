package hashset

import "math/bits"

// Iterator walks every element of a Hashset exactly once (barring elements
// added or removed mid-walk by a safe iterator, which may see such
// elements zero or more times). The zero value is not usable; create one
// with InitIterator or InitSafeIterator.
type Iterator[E any] struct {
	h    *Hashset[E]
	safe bool

	tables  [2]*table[E]
	tableAt int
	bucket  int
	occ     uint8

	fingerprint uint64
}

// InitIterator creates an unsafe iterator: the caller must not Add, Delete,
// or otherwise mutate h between Next calls, or trigger a resize (directly
// or via another operation) until Reset. A violation panics rather than
// silently corrupting the walk.
func (h *Hashset[E]) InitIterator() *Iterator[E] {
	it := &Iterator[E]{h: h, bucket: -1}
	it.tables[0] = h.t0
	it.tables[1] = h.t1
	it.fingerprint = iteratorFingerprint(h.t0, h.t1)
	return it
}

// InitSafeIterator creates a safe iterator: h may be freely mutated between
// Next calls, including deleting the element just returned or adding new
// ones, at the cost of pausing incremental rehashing for the iterator's
// lifetime. Callers must call Reset when done to release the pause.
func (h *Hashset[E]) InitSafeIterator() *Iterator[E] {
	h.PauseRehashing()
	it := &Iterator[E]{h: h, safe: true, bucket: -1}
	it.tables[0] = h.t0
	it.tables[1] = h.t1
	return it
}

func iteratorFingerprint[E any](t0, t1 *table[E]) uint64 {
	var fp uint64
	if t0 != nil {
		fp ^= uint64(len(t0.buckets))*2654435761 + uint64(t0.used)
	}
	if t1 != nil {
		fp ^= uint64(len(t1.buckets))*2654435761<<1 + uint64(t1.used)*3
	}
	return fp
}

// Next returns the next element, or ok=false once the walk is exhausted.
func (it *Iterator[E]) Next() (e E, ok bool) {
	if it.tableAt > 1 {
		return e, false
	}
	if !it.safe && it.h != nil {
		if iteratorFingerprint(it.h.t0, it.h.t1) != it.fingerprint {
			panic("hashset: unsafe iterator observed a mutation between Next calls")
		}
	}
	for {
		for it.occ != 0 {
			i := bits.TrailingZeros8(it.occ)
			it.occ &^= 1 << i
			return it.tables[it.tableAt].buckets[it.bucket].slots[i], true
		}
		t := it.tables[it.tableAt]
		it.bucket++
		for t == nil || it.bucket >= len(t.buckets) {
			it.tableAt++
			if it.tableAt > 1 {
				return e, false
			}
			t = it.tables[it.tableAt]
			it.bucket = 0
		}
		it.occ = t.buckets[it.bucket].occupied
	}
}

// Reset ends the walk. On a safe iterator it releases the rehashing pause
// taken by InitSafeIterator; on an unsafe iterator it panics if h was
// mutated since InitIterator. It is a no-op on an iterator already reset.
func (it *Iterator[E]) Reset() {
	if it.h == nil {
		return
	}
	if it.safe {
		it.h.ResumeRehashing()
	} else if iteratorFingerprint(it.h.t0, it.h.t1) != it.fingerprint {
		panic("hashset: unsafe iterator observed a mutation before Reset")
	}
	it.h = nil
}
