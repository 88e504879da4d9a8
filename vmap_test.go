package hashset

// Vmap is a self-validating map. It wraps a Hashset[entry] and checks each
// result against a plain Go map mirror. During iteration it checks that
// every key present for the whole walk (not deleted mid-walk) is seen at
// least once; it does not check how many times a key is seen.
//
// It is intended to work well with fuzzing. See autofuzzchain_test.go.

import (
	"encoding/binary"
	"fmt"
	"sort"
	"testing"
)

type entry struct {
	key int64
	val int64
}

func entryKey(e entry) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(e.key))
	return buf[:]
}

func keyBytes(k int64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(k))
	return buf[:]
}

type opType byte

const (
	getOp opType = iota
	setOp
	deleteOp
	lenOp
	rangeOp

	bulkGetOp
	bulkSetOp
	bulkDeleteOp

	opTypeCount
)

type op struct {
	opType     opType
	key        int64
	keys       keyRange
	rangeIndex uint16
}

func (o op) String() string {
	t := o.opType % opTypeCount
	if t < bulkGetOp {
		return fmt.Sprintf("{op: %v key: %v}", t, o.key)
	}
	return fmt.Sprintf("{op: %v keys: %v rangeIndex: %v}", t, o.keys, o.rangeIndex)
}

type keyRange struct {
	start, end, stride uint8
}

// Vmap is a self-validating wrapper around Hashset[entry].
type Vmap struct {
	m      *Hashset[entry]
	mirror map[int64]int64
}

func newVmap(start []int64) *Vmap {
	vm := &Vmap{mirror: make(map[int64]int64)}
	vm.m = New(TypeDescriptor[entry]{
		ElementKey: entryKey,
		// lumpier than BytesHash's default, to stress probe chains with a
		// reproducible, worse distribution.
		HashFunction: IdentityHash,
	})
	for _, k := range start {
		vm.Set(k, k)
	}
	return vm
}

func (vm *Vmap) Get(k int64) (v int64, ok bool) {
	got, gotOk := vm.m.Find(keyBytes(k))
	want, wantOk := vm.mirror[k]
	if gotOk != wantOk || (gotOk && got.val != want) {
		panic(fmt.Sprintf("Vmap.Get(%v) = %v, %v, want %v, %v", k, got.val, gotOk, want, wantOk))
	}
	return got.val, gotOk
}

func (vm *Vmap) Set(k, v int64) {
	vm.m.Replace(entry{key: k, val: v})
	vm.mirror[k] = v
}

func (vm *Vmap) Delete(k int64) {
	vm.m.Delete(keyBytes(k))
	delete(vm.mirror, k)
}

func (vm *Vmap) Len() int {
	got := vm.m.Len()
	want := len(vm.mirror)
	if want != got {
		panic(fmt.Sprintf("Vmap.Len() = %v, want %v", got, want))
	}
	return got
}

func keySlice(kr keyRange) []int64 {
	start, end := int(kr.start), int(kr.end)
	switch {
	case start > end:
		start, end = end, start
	case start == end:
		return nil
	}
	stride := 1
	if kr.stride >= 128 {
		stride = int(kr.stride%8) + 1
	}
	var res []int64
	for i := start; i < end; i += stride {
		res = append(res, int64(i))
	}
	return res
}

func (vm *Vmap) GetBulk(kr keyRange) {
	for _, k := range keySlice(kr) {
		vm.Get(k)
	}
}

func (vm *Vmap) SetBulk(kr keyRange) {
	for _, k := range keySlice(kr) {
		vm.Set(k, k)
	}
}

func (vm *Vmap) DeleteBulk(kr keyRange) {
	for _, k := range keySlice(kr) {
		vm.Delete(k)
	}
}

// Range drives vm.m.Range while interleaving the given ops at the
// requested iteration indices, then validates every key present for the
// whole walk was observed at least once.
func (vm *Vmap) Range(ops []op) {
	for i := range ops {
		if ops[i].rangeIndex > 5001 {
			ops[i].rangeIndex = 0
		}
	}
	sort.SliceStable(ops, func(i, j int) bool {
		return ops[i].rangeIndex < ops[j].rangeIndex
	})

	mustSee := make(map[int64]bool)
	for k := range vm.mirror {
		mustSee[k] = true
	}
	seen := make(map[int64]bool)

	trackDelete := func(k int64) { delete(mustSee, k) }

	var idx uint16
	vm.m.Range(func(e entry) bool {
		seen[e.key] = true
		for len(ops) > 0 {
			o := ops[0]
			if o.rangeIndex != idx {
				break
			}
			switch o.opType % opTypeCount {
			case getOp:
				vm.Get(o.key)
			case setOp:
				vm.Set(o.key, o.key)
			case deleteOp:
				vm.Delete(o.key)
				trackDelete(o.key)
			case lenOp:
				vm.Len()
			case rangeOp:
				// ignore: a nested Range here risks quadratic blowup
			case bulkGetOp:
				vm.GetBulk(o.keys)
			case bulkSetOp:
				vm.SetBulk(o.keys)
			case bulkDeleteOp:
				for _, k := range keySlice(o.keys) {
					vm.Delete(k)
					trackDelete(k)
				}
			}
			ops = ops[1:]
		}
		idx++
		return true
	})

	for k := range mustSee {
		if !seen[k] {
			panic(fmt.Sprintf("Vmap.Range() expected key %v not seen", k))
		}
	}
}

func TestValidatingMap_Range(t *testing.T) {
	tests := []struct {
		name string
		ops  []op
	}{
		{
			name: "set during range happens last",
			ops: []op{
				{opType: getOp, key: 1, rangeIndex: 0},
				{opType: getOp, key: 2, rangeIndex: 0},
				{opType: setOp, key: 3, rangeIndex: 2},
				{opType: deleteOp, key: 4, rangeIndex: 0},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Logf("ops: %v", tt.ops)
			vm := newVmap(nil)
			vm.Set(100, 100)
			vm.Set(101, 101)
			vm.Set(102, 102)
			vm.Range(tt.ops)
		})
	}
}
