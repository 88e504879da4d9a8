// Package hashset implements a generic, in-memory hash set/map with
// cache-conscious open addressing, incremental rehashing, a reversed-bit
// scan cursor tolerant of concurrent resizing, and fair random element
// selection.
//
// The structure is single-owner: every operation requires exclusive access
// by the caller, and no internal locking is performed.
package hashset

// bucketCapacity is the number of element slots per bucket (N in the
// design notes). 7 data slots plus the occupancy/everfull/tag metadata
// keeps one bucket close to a single 64-byte cache line for pointer-sized
// elements.
const bucketCapacity = 7

// TypeDescriptor configures a Hashset at creation time.
//
// All fields are optional. Without ElementKey, E's own bit pattern is its
// key (pointer identity for pointer-shaped E), whatever HashFunction is.
type TypeDescriptor[E any] struct {
	// ElementKey extracts the key bytes from an element. If nil, the
	// element's own in-memory representation is used as the key.
	ElementKey func(e E) []byte

	// HashFunction hashes key bytes. If nil, BytesHash is used.
	HashFunction func(key []byte) uint64

	// KeyEqual compares two keys. If nil, bytes.Equal is used.
	KeyEqual func(a, b []byte) bool

	// ElementDestructor is invoked when an element is removed via Delete,
	// Empty, or Release, or overwritten via Replace. It is never invoked
	// for elements removed via Pop or TwoPhasePopDelete, which transfer
	// ownership to the caller instead.
	ElementDestructor func(e E)

	// InstantRehashing, if set, makes every resize run to completion
	// within the triggering call; IsRehashing is then never observably
	// true to callers.
	InstantRehashing bool

	// UserData is opaque to Hashset: it is stored with the descriptor but
	// never read, and no callback (including Empty's progress) receives it.
	UserData any
}

// Hashset is a generic hash set/map. The zero value is not usable; create
// one with New.
type Hashset[E any] struct {
	typ TypeDescriptor[E]

	t0 *table[E]
	t1 *table[E] // non-nil while rehashing

	rehashIdx int // next unmigrated bucket index in t0, or -1 when not rehashing

	pauseRehash     int
	pauseAutoShrink int
}

// New creates an empty Hashset. The underlying table is allocated lazily on
// the first Add.
func New[E any](typ TypeDescriptor[E]) *Hashset[E] {
	if typ.HashFunction == nil {
		typ.HashFunction = BytesHash
	}
	if typ.KeyEqual == nil {
		typ.KeyEqual = bytesEqual
	}
	return &Hashset[E]{typ: typ, rehashIdx: -1}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
