package hashset

// tagBits is the width of the secondary-hash tag stored per entry; the
// primary bucket index is derived from the hash bits above this width.
const tagBits = 8

// primaryBucket derives the natural bucket index for hash within a table of
// the given mask (capacity-1).
func primaryBucket(hash, mask uint64) uint64 {
	return (hash >> tagBits) & mask
}

// tagFromHash extracts the secondary-hash byte: the low tagBits bits not
// consumed by the bucket index.
func tagFromHash(hash uint64) uint8 {
	return uint8(hash)
}

// nextBucket advances the probe sequence by one bucket, wrapping at the
// table boundary. The probe walks buckets linearly rather than striding
// across groups by triangular numbers.
func nextBucket(i, mask uint64) uint64 {
	return (i + 1) & mask
}
