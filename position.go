package hashset

// tableSelector names which of a Hashset's two live tables a Position
// refers to.
type tableSelector int

const (
	selT0 tableSelector = iota
	selT1
)

// Position is an opaque token binding a slot in a Hashset's table to a
// specific key, produced by one half of a two-phase operation and consumed
// by the other. It must be used immediately: any intervening mutation of
// the same Hashset (including one triggered implicitly by a resize
// threshold) invalidates it.
type Position[E any] struct {
	sel         tableSelector
	bucket      uint64
	slot        int
	needsInsert bool
}

// locate finds the bucket and, if present, the slot for key within t,
// stopping the probe as soon as it passes a bucket that was never full
// (nothing further along the chain can belong to this key). Used for pure
// lookups, where an absent key needs no insertion point.
func locate[E any](t *table[E], hash uint64, key []byte, typ TypeDescriptor[E]) (bucketIdx uint64, slot int, found bool) {
	tag := tagFromHash(hash)
	idx := primaryBucket(hash, t.mask)
	for {
		b := &t.buckets[idx]
		if s, ok := b.find(tag, key, typ.keyOf, typ.KeyEqual); ok {
			return idx, s, true
		}
		if !b.everfull {
			return idx, -1, false
		}
		idx = nextBucket(idx, t.mask)
	}
}

// locateForInsert finds key within t the same way locate does, but when the
// key is absent it keeps walking past any bucket that is currently full
// (regardless of its everfull bit) and reports the first bucket with a free
// slot, marking every full bucket it passes as everfull along the way —
// mirroring what upsert does when it actually performs the insert.
func locateForInsert[E any](t *table[E], hash uint64, key []byte, typ TypeDescriptor[E]) (bucketIdx uint64, slot int, found bool) {
	if idx, s, ok := locate(t, hash, key, typ); ok {
		return idx, s, true
	}
	idx := primaryBucket(hash, t.mask)
	capacity := t.mask + 1
	for i := uint64(0); i <= capacity; i++ {
		b := &t.buckets[idx]
		if b.occupied&fullMask != fullMask {
			return idx, -1, false
		}
		b.everfull = true
		idx = nextBucket(idx, t.mask)
	}
	panic("hashset: probe exhausted the whole table without finding a slot (grow policy invariant violated)")
}

// FindPositionForInsert looks up key and returns a Position describing
// where to insert an element with that key. ok is false if an element with
// a matching key already exists (its Position is still returned, letting a
// caller that wants upsert semantics use it with InsertAtPosition's
// overwrite behavior instead of a separate Replace call).
//
// It pauses incremental rehashing, exactly as PauseRehashing would; the
// pause is released by the matching InsertAtPosition call, so the table
// layout a Position names cannot shift out from under it.
func (h *Hashset[E]) FindPositionForInsert(key []byte) (pos Position[E], ok bool) {
	h.ensureTable(0)
	hash := h.hashOf(key)
	h.migrateStep(1)

	t, sel := h.t0, selT0
	if h.isRehashing() {
		t, sel = h.t1, selT1
	}
	idx, slot, found := locateForInsert(t, hash, key, h.typ)
	h.PauseRehashing()
	return Position[E]{sel: sel, bucket: idx, slot: slot, needsInsert: slot < 0}, !found
}

// InsertAtPosition writes e at a Position previously returned by
// FindPositionForInsert on the same Hashset with no intervening mutation,
// and releases the rehashing pause FindPositionForInsert took. If the
// position named an existing slot (the key was already present), the
// previous element is destroyed (if a destructor is configured) and
// overwritten.
func (h *Hashset[E]) InsertAtPosition(pos Position[E], e E) {
	defer h.ResumeRehashing()
	t := h.tableFor(pos.sel)
	b := &t.buckets[pos.bucket]
	if !pos.needsInsert {
		tag := b.tags[pos.slot]
		if h.typ.ElementDestructor != nil {
			h.typ.ElementDestructor(b.slots[pos.slot])
		}
		b.slots[pos.slot] = e
		b.tags[pos.slot] = tag
		return
	}
	tag := tagFromHash(h.hashOf(h.typ.keyOf(e)))
	if _, ok := b.insert(tag, e); !ok {
		panic("hashset: InsertAtPosition target bucket filled since FindPositionForInsert")
	}
	t.used++
}

// TwoPhaseFindForPop looks up key and returns a Position usable with
// TwoPhasePopDelete, letting a caller inspect the element (e.g. to decide
// whether popping it is still correct) between the find and the removal
// without a second hash lookup.
//
// When ok is true it pauses incremental rehashing, exactly as
// PauseRehashing would; the pause is released by the matching
// TwoPhasePopDelete call, so the table layout pos names cannot shift out
// from under it.
func (h *Hashset[E]) TwoPhaseFindForPop(key []byte) (e E, pos Position[E], ok bool) {
	if h.t0 == nil {
		return e, pos, false
	}
	hash := h.hashOf(key)
	h.migrateStep(1)

	if h.isRehashing() {
		if idx, slot, found := locate(h.t1, hash, key, h.typ); found {
			h.PauseRehashing()
			return h.t1.buckets[idx].slots[slot], Position[E]{sel: selT1, bucket: idx, slot: slot}, true
		}
	}
	if idx, slot, found := locate(h.t0, hash, key, h.typ); found {
		h.PauseRehashing()
		return h.t0.buckets[idx].slots[slot], Position[E]{sel: selT0, bucket: idx, slot: slot}, true
	}
	return e, pos, false
}

// TwoPhasePopDelete removes the element at pos (previously returned with
// ok true by TwoPhaseFindForPop on this Hashset with no intervening
// mutation) without invoking its destructor, transferring ownership to the
// caller, and releases the rehashing pause TwoPhaseFindForPop took.
func (h *Hashset[E]) TwoPhasePopDelete(pos Position[E]) (e E, ok bool) {
	defer h.ResumeRehashing()
	t := h.tableFor(pos.sel)
	b := &t.buckets[pos.bucket]
	if b.occupied&(1<<pos.slot) == 0 {
		return e, false
	}
	v := b.slots[pos.slot]
	b.clear(pos.slot)
	t.used--
	return v, true
}

func (h *Hashset[E]) tableFor(sel tableSelector) *table[E] {
	if sel == selT1 {
		return h.t1
	}
	return h.t0
}
