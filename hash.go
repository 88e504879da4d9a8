package hashset

import (
	"crypto/rand"
	"encoding/binary"
	"sync/atomic"
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

var hashSeedMix uint64

func init() {
	var seed [16]byte
	if _, err := rand.Read(seed[:]); err != nil {
		// Unrecoverable: without entropy there is no safe seed to fall back to.
		panic("hashset: failed to seed hash function: " + err.Error())
	}
	SetHashSeed(seed)
}

// SetHashSeed installs the process-wide hash function seed used by
// BytesHash. Grounded on the original's randomSeed()/init_genrand64
// pairing: call once at process start, or briefly around a
// reproducibility-sensitive test, restoring the previous seed afterward if
// other code depends on it.
func SetHashSeed(seed [16]byte) {
	mix := binary.LittleEndian.Uint64(seed[:8]) ^ binary.LittleEndian.Uint64(seed[8:])
	atomic.StoreUint64(&hashSeedMix, mix)
}

// BytesHash is the default hash function for descriptors whose key
// extractor yields byte-slice or string keys.
func BytesHash(key []byte) uint64 {
	return xxhash.Sum64(key) ^ atomic.LoadUint64(&hashSeedMix)
}

// IdentityHash treats key as a little-endian encoded integer (zero-padded
// or truncated to 8 bytes) and returns it unmixed, with no seed applied.
// It exists for tests that deliberately want a lumpy, adversarial hash
// distribution, mirroring the original test suite's identityHash helper
// used to stress probe chains.
func IdentityHash(key []byte) uint64 {
	var buf [8]byte
	copy(buf[:], key)
	return binary.LittleEndian.Uint64(buf[:])
}

// elementAsKeyBytes views e's own in-memory representation as its key. Used
// when TypeDescriptor.ElementKey is absent, modeled as a predicate
// (ElementKey == nil) rather than a sentinel branch scattered through the
// operations. For pointer-shaped E this reproduces the original's "hash the
// pointer value" behavior.
func elementAsKeyBytes[E any](e *E) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(e)), unsafe.Sizeof(*e))
}

func (t TypeDescriptor[E]) keyOf(e E) []byte {
	if t.ElementKey != nil {
		return t.ElementKey(e)
	}
	return elementAsKeyBytes(&e)
}

func (h *Hashset[E]) hashOf(key []byte) uint64 {
	return h.typ.HashFunction(key)
}
