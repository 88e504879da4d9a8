package hashset

import "math/bits"

// Len returns the number of elements currently stored.
func (h *Hashset[E]) Len() int {
	n := 0
	if h.t0 != nil {
		n += h.t0.used
	}
	if h.t1 != nil {
		n += h.t1.used
	}
	return n
}

// Add inserts e and reports true, or reports false if an element with a
// matching key already exists (no replacement happens in that case).
func (h *Hashset[E]) Add(e E) bool {
	h.ensureTable(0)
	key := h.typ.keyOf(e)
	hash := h.hashOf(key)
	h.migrateStep(1)

	if h.isRehashing() {
		if _, found := lookupTable(h.t0, hash, key, h.typ); found {
			return false
		}
		if existed := upsert(h.t1, hash, key, e, h.typ, false); existed {
			return false
		}
	} else {
		if existed := upsert(h.t0, hash, key, e, h.typ, false); existed {
			return false
		}
	}
	h.maybeStartResize()
	return true
}

// Find looks up key and reports whether it is present.
func (h *Hashset[E]) Find(key []byte) (e E, ok bool) {
	if h.t0 == nil {
		return e, false
	}
	hash := h.hashOf(key)
	h.migrateStep(1)
	if h.isRehashing() {
		if v, found := lookupTable(h.t1, hash, key, h.typ); found {
			return v, true
		}
	}
	return lookupTable(h.t0, hash, key, h.typ)
}

// Delete removes the element with the given key, invoking the destructor
// (if configured). It reports whether an element was removed.
func (h *Hashset[E]) Delete(key []byte) bool {
	if h.t0 == nil {
		return false
	}
	hash := h.hashOf(key)
	h.migrateStep(1)
	removed := false
	if h.isRehashing() {
		removed = h.deleteFrom(h.t1, hash, key)
		if !removed {
			removed = h.deleteFrom(h.t0, hash, key)
		}
	} else {
		removed = h.deleteFrom(h.t0, hash, key)
	}
	if removed {
		h.maybeStartResize()
	}
	return removed
}

func (h *Hashset[E]) deleteFrom(t *table[E], hash uint64, key []byte) bool {
	if t == nil {
		return false
	}
	tag := tagFromHash(hash)
	idx := primaryBucket(hash, t.mask)
	for {
		b := &t.buckets[idx]
		if slot, found := b.find(tag, key, h.typ.keyOf, h.typ.KeyEqual); found {
			if h.typ.ElementDestructor != nil {
				h.typ.ElementDestructor(b.slots[slot])
			}
			b.clear(slot)
			t.used--
			return true
		}
		if !b.everfull {
			return false
		}
		idx = nextBucket(idx, t.mask)
	}
}

// Pop removes and returns the element with the given key without invoking
// the destructor, transferring ownership to the caller.
func (h *Hashset[E]) Pop(key []byte) (e E, ok bool) {
	if h.t0 == nil {
		return e, false
	}
	hash := h.hashOf(key)
	h.migrateStep(1)
	if h.isRehashing() {
		if v, removed := h.popFrom(h.t1, hash, key); removed {
			h.maybeStartResize()
			return v, true
		}
	}
	v, removed := h.popFrom(h.t0, hash, key)
	if removed {
		h.maybeStartResize()
	}
	return v, removed
}

func (h *Hashset[E]) popFrom(t *table[E], hash uint64, key []byte) (e E, ok bool) {
	if t == nil {
		return e, false
	}
	tag := tagFromHash(hash)
	idx := primaryBucket(hash, t.mask)
	for {
		b := &t.buckets[idx]
		if slot, found := b.find(tag, key, h.typ.keyOf, h.typ.KeyEqual); found {
			v := b.slots[slot]
			b.clear(slot)
			t.used--
			return v, true
		}
		if !b.everfull {
			return e, false
		}
		idx = nextBucket(idx, t.mask)
	}
}

// Replace inserts e if no element with a matching key exists, or
// overwrites (destroying the previous element) if one does. It reports
// which happened: replaced is true if an existing element was overwritten.
func (h *Hashset[E]) Replace(e E) (previous E, replaced bool) {
	h.ensureTable(0)
	key := h.typ.keyOf(e)
	hash := h.hashOf(key)
	h.migrateStep(1)

	if h.isRehashing() {
		if v, found := lookupTable(h.t1, hash, key, h.typ); found {
			upsert(h.t1, hash, key, e, h.typ, true)
			return v, true
		}
		if v, found := lookupTable(h.t0, hash, key, h.typ); found {
			upsert(h.t0, hash, key, e, h.typ, true)
			return v, true
		}
		upsert(h.t1, hash, key, e, h.typ, false)
		h.maybeStartResize()
		return previous, false
	}

	if v, found := lookupTable(h.t0, hash, key, h.typ); found {
		upsert(h.t0, hash, key, e, h.typ, true)
		return v, true
	}
	upsert(h.t0, hash, key, e, h.typ, false)
	h.maybeStartResize()
	return previous, false
}

// Empty destroys every element (invoking the destructor if configured) and
// leaves the set ready for reuse. progress, if non-nil, is invoked
// periodically during the walk so long-running callers can yield; it has
// no way to abort and must always return.
func (h *Hashset[E]) Empty(progress func()) {
	const progressEvery = 1024
	drain := func(t *table[E]) {
		if t == nil {
			return
		}
		for i := range t.buckets {
			b := &t.buckets[i]
			if h.typ.ElementDestructor != nil {
				occ := b.occupied
				for occ != 0 {
					slot := bits.TrailingZeros8(occ)
					h.typ.ElementDestructor(b.slots[slot])
					occ &^= 1 << slot
				}
			}
			*b = bucket[E]{}
			if progress != nil && i%progressEvery == 0 {
				progress()
			}
		}
		t.used = 0
	}
	drain(h.t0)
	drain(h.t1)
	h.t0 = nil
	h.t1 = nil
	h.rehashIdx = -1
}

// Release empties the set and drops all internal storage.
func (h *Hashset[E]) Release() {
	h.Empty(nil)
}

// Range calls f for each element using a safe iterator: f may Add or
// Delete elements (including the one it was just given) without
// invalidating the iteration. Range stops early if f returns false.
func (h *Hashset[E]) Range(f func(e E) bool) {
	it := h.InitSafeIterator()
	defer it.Reset()
	for {
		e, ok := it.Next()
		if !ok {
			return
		}
		if !f(e) {
			return
		}
	}
}
