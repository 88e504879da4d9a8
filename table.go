package hashset

// minBuckets is the smallest table size: one bucket (bucketCapacity slots).
const minBuckets = 1

// table is a contiguous array of buckets, always a power-of-two length so
// masking replaces modulo.
type table[E any] struct {
	buckets []bucket[E]
	mask    uint64 // len(buckets) - 1
	used    int
}

func newTableWithBuckets[E any](numBuckets uint64) *table[E] {
	if numBuckets < minBuckets {
		numBuckets = minBuckets
	}
	return &table[E]{buckets: make([]bucket[E], numBuckets), mask: numBuckets - 1}
}

// bucketsForCapacityHint returns the number of buckets (a power of two)
// needed to hold hint elements at 100% load, rounded up.
func bucketsForCapacityHint(hint int) uint64 {
	if hint <= 0 {
		return minBuckets
	}
	need := uint64((hint + bucketCapacity - 1) / bucketCapacity)
	b := uint64(minBuckets)
	for b < need {
		b <<= 1
	}
	return b
}

// lookupTable searches t for key given its precomputed hash. It returns the
// zero value and false if t is nil, which lets callers uniformly probe a
// possibly-absent t1 without a nil check at every call site.
func lookupTable[E any](t *table[E], hash uint64, key []byte, typ TypeDescriptor[E]) (e E, ok bool) {
	if t == nil {
		return e, false
	}
	tag := tagFromHash(hash)
	idx := primaryBucket(hash, t.mask)
	for {
		b := &t.buckets[idx]
		if slot, found := b.find(tag, key, typ.keyOf, typ.KeyEqual); found {
			return b.slots[slot], true
		}
		if !b.everfull {
			return e, false
		}
		idx = nextBucket(idx, t.mask)
	}
}

// upsert finds key in t; if found and overwrite is set, it destroys the
// previous element (if a destructor is configured) and writes e in its
// place. If not found, it inserts e at the first bucket in the probe
// sequence with a free slot, setting everfull on every full bucket it
// passes along the way. It reports whether the key already existed.
func upsert[E any](t *table[E], hash uint64, key []byte, e E, typ TypeDescriptor[E], overwrite bool) bool {
	tag := tagFromHash(hash)
	idx := primaryBucket(hash, t.mask)
	capacity := t.mask + 1
	for i := uint64(0); i <= capacity; i++ {
		b := &t.buckets[idx]
		if slot, found := b.find(tag, key, typ.keyOf, typ.KeyEqual); found {
			if overwrite {
				if typ.ElementDestructor != nil {
					typ.ElementDestructor(b.slots[slot])
				}
				b.slots[slot] = e
				b.tags[slot] = tag
			}
			return true
		}
		if !b.everfull {
			break
		}
		idx = nextBucket(idx, t.mask)
	}
	idx = primaryBucket(hash, t.mask)
	for i := uint64(0); i <= capacity; i++ {
		b := &t.buckets[idx]
		if _, ok := b.insert(tag, e); ok {
			t.used++
			return false
		}
		b.everfull = true
		idx = nextBucket(idx, t.mask)
	}
	panic("hashset: probe exhausted the whole table without finding a slot (grow policy invariant violated)")
}
