// Command hashsetdemo loads a batch of integer keys into a Hashset,
// prints its bucket-fill histogram, and reports a rough memory estimate.
package main

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/mkvnt/hashset"
)

const elementSize = 8 // bytes per int64 element, for the memory estimate

func main() {
	typ := hashset.TypeDescriptor[int64]{
		ElementKey: func(e int64) []byte {
			var buf [8]byte
			for i := range buf {
				buf[i] = byte(e >> (8 * i))
			}
			return buf[:]
		},
	}
	h := hashset.New(typ)

	const n = 200_000
	for i := int64(0); i < n; i++ {
		h.Add(i)
	}

	stats := h.Stats()
	fmt.Printf("elements: %s\n", humanize.Comma(int64(stats.Used)))
	fmt.Printf("buckets:  %s\n", humanize.Comma(int64(stats.Buckets)))
	fmt.Printf("longest probe chain: %d\n", stats.LongestChain)

	approxBytes := uint64(stats.Buckets) * bucketFootprint()
	fmt.Printf("approx bucket storage: %s\n", humanize.Bytes(approxBytes))

	fmt.Print(h.DebugHistogram())

	e, ok := h.FairRandomElement()
	if ok {
		fmt.Printf("random element: %d\n", e)
	}
}

// bucketFootprint estimates one bucket's size: metadata plus 7 elements.
func bucketFootprint() uint64 {
	const tagsAndFlags = 16 + 8 // tags array plus occupied/everfull padding
	const capacity = 7
	return tagsAndFlags + capacity*elementSize
}
