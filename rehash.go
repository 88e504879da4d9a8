package hashset

import "math/bits"

// IsRehashing reports whether a resize is in progress. With
// TypeDescriptor.InstantRehashing set, this is never observably true
// between calls.
func (h *Hashset[E]) IsRehashing() bool {
	return h.isRehashing()
}

func (h *Hashset[E]) isRehashing() bool {
	return h.t1 != nil
}

// startResize allocates the incoming table and begins migration. With
// InstantRehashing set, migration runs to completion before returning.
func (h *Hashset[E]) startResize(newBuckets uint64) {
	h.t1 = newTableWithBuckets[E](newBuckets)
	h.rehashIdx = 0
	if h.typ.InstantRehashing {
		h.finishMigration()
	}
}

// migrateStep migrates the next minBuckets buckets (fewer if fewer remain)
// from t0 into t1, or does nothing if not rehashing or rehashing is paused. When
// the old table is fully drained it is dropped and t1 becomes the new t0.
func (h *Hashset[E]) migrateStep(minBuckets int) {
	if !h.isRehashing() || h.pauseRehash > 0 {
		return
	}
	migrated := 0
	for h.rehashIdx < len(h.t0.buckets) && migrated < minBuckets {
		b := &h.t0.buckets[h.rehashIdx]
		occ := b.occupied
		moved := bits.OnesCount8(occ)
		for occ != 0 {
			slot := bits.TrailingZeros8(occ)
			occ &^= 1 << slot
			e := b.slots[slot]
			key := h.typ.keyOf(e)
			hash := h.hashOf(key)
			upsert(h.t1, hash, key, e, h.typ, false)
		}
		h.t0.used -= moved
		// Keep everfull: lookups in t0 for not-yet-migrated elements still
		// probe through this bucket.
		everfull := b.everfull
		*b = bucket[E]{}
		b.everfull = everfull
		h.rehashIdx++
		migrated++
	}
	if h.rehashIdx >= len(h.t0.buckets) {
		h.t0 = h.t1
		h.t1 = nil
		h.rehashIdx = -1
	}
}

// finishMigration drains the rest of an in-progress resize in one call.
func (h *Hashset[E]) finishMigration() {
	for h.isRehashing() {
		h.migrateStep(len(h.t0.buckets) + 1)
	}
}

// maybeStartResize consults the process-wide resize policy and the
// current load factor to decide whether to begin a grow or shrink. It is
// a no-op while rehashing is paused or already in progress.
func (h *Hashset[E]) maybeStartResize() {
	if h.pauseRehash > 0 || h.isRehashing() || h.t0 == nil {
		return
	}
	capacity := uint64(len(h.t0.buckets))
	count := uint64(h.t0.used)
	policy := GetResizePolicy()

	growThreshold := capacity * bucketCapacity
	if policy == ResizeAvoid {
		growThreshold *= 5
	}
	if count >= growThreshold {
		h.startResize(capacity * 2)
		return
	}

	if h.pauseAutoShrink > 0 || capacity <= minBuckets {
		return
	}
	shrinkDivisor := uint64(8)
	if policy == ResizeAvoid {
		shrinkDivisor = 32
	}
	if count*shrinkDivisor < capacity*bucketCapacity {
		newCapacity := capacity / 2
		if newCapacity < minBuckets {
			newCapacity = minBuckets
		}
		h.startResize(newCapacity)
	}
}

func (h *Hashset[E]) ensureTable(capacityHint int) {
	if h.t0 == nil {
		h.t0 = newTableWithBuckets[E](bucketsForCapacityHint(capacityHint))
	}
}

// ExpandIfNeeded ensures the table can hold at least capacityHint elements
// without further growth, starting an incremental (or instant, per
// InstantRehashing) resize if the current table is too small. Grounded on
// the original's hashsetExpand, used to preallocate before a bulk insert.
func (h *Hashset[E]) ExpandIfNeeded(capacityHint int) {
	h.ensureTable(capacityHint)
	if h.pauseRehash > 0 || h.isRehashing() {
		return
	}
	need := bucketsForCapacityHint(capacityHint)
	if need > uint64(len(h.t0.buckets)) {
		h.startResize(need)
	}
}

// ShrinkIfNeeded forces the normal grow/shrink check outside of its usual
// per-operation trigger. Grounded on the original's
// hashsetShrinkIfNeeded/hashsetExpandIfNeeded pairing.
func (h *Hashset[E]) ShrinkIfNeeded() {
	h.maybeStartResize()
}

// PauseRehashing suspends incremental migration and resize decisions.
// Must be paired with ResumeRehashing. Grounded on the original's
// hashsetPauseRehashing, used internally by safe iterators and two-phase
// operations and exposed for callers with their own critical sections.
func (h *Hashset[E]) PauseRehashing() {
	h.pauseRehash++
}

// ResumeRehashing releases a pause taken by PauseRehashing and re-evaluates
// the resize decision.
func (h *Hashset[E]) ResumeRehashing() {
	if h.pauseRehash == 0 {
		panic("hashset: ResumeRehashing called without a matching PauseRehashing")
	}
	h.pauseRehash--
	h.maybeStartResize()
}

// PauseAutoShrink suspends only the shrink-trigger check; grow is
// unaffected. Must be paired with ResumeAutoShrink. Grounded on the
// original's hashsetPauseAutoShrink, used around multi-call scans so a
// shrink between Scan calls cannot change the table's mask relationship in
// a way the cursor algorithm does not expect.
func (h *Hashset[E]) PauseAutoShrink() {
	h.pauseAutoShrink++
}

// ResumeAutoShrink releases a pause taken by PauseAutoShrink.
func (h *Hashset[E]) ResumeAutoShrink() {
	if h.pauseAutoShrink == 0 {
		panic("hashset: ResumeAutoShrink called without a matching PauseAutoShrink")
	}
	h.pauseAutoShrink--
}
