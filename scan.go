package hashset

import "math/bits"

// NextCursor advances a scan cursor by one step over a table of the given
// mask, using the reversed-binary-increment order: counting up in the
// bit-reversal of the natural index so that a mask growing or shrinking by
// a power of two between calls still visits every bucket present both
// before and after the resize, possibly with some repeats but never a
// skip. This is the classic incremental-rehashing-safe cursor walk, here
// expressed directly over bits.Reverse64 rather than hand-unrolled
// bit-twiddling.
func NextCursor(cursor, mask uint64) uint64 {
	v := cursor | ^mask
	v = bits.Reverse64(v)
	v++
	v = bits.Reverse64(v)
	return v
}

// Scan visits a bounded slice of the table starting at cursor, calling emit
// for every element found, and returns the cursor to resume from on the
// next call. A full scan starts with cursor 0 and is complete once Scan
// returns 0. Elements present for the whole scan are guaranteed to be
// emitted at least once; elements added or removed mid-scan may or may not
// be. If a resize is in progress, Scan visits both tables using the
// standard small-table/large-table expansion so neither table's buckets
// are skipped regardless of which one is currently larger.
func (h *Hashset[E]) Scan(cursor uint64, emit func(E)) uint64 {
	if h.t0 == nil {
		return 0
	}
	if !h.isRehashing() {
		b := &h.t0.buckets[cursor&h.t0.mask]
		emitBucket(b, emit)
		return NextCursor(cursor, h.t0.mask)
	}

	small, large := h.t0, h.t1
	if small.mask > large.mask {
		small, large = large, small
	}

	emitBucket(&small.buckets[cursor&small.mask], emit)

	m0, m1 := small.mask, large.mask
	v := cursor
	for {
		emitBucket(&large.buckets[v&m1], emit)
		v |= ^m1
		v = bits.Reverse64(v)
		v++
		v = bits.Reverse64(v)
		if v&(m0^m1) == 0 {
			break
		}
	}
	return v
}

func emitBucket[E any](b *bucket[E], emit func(E)) {
	occ := b.occupied
	for occ != 0 {
		i := bits.TrailingZeros8(occ)
		emit(b.slots[i])
		occ &^= 1 << i
	}
}
