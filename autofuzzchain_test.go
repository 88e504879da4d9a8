package hashset

// Edit if desired. Adapted from code generated by "fzgen -chain .".

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/thepudds/fzgen/fuzzer"
)

func Fuzz_NewVmap_Chain(f *testing.F) {
	f.Fuzz(func(t *testing.T, data []byte) {
		fz := fuzzer.NewFuzzer(data)

		target := newVmap(nil)

		steps := []fuzzer.Step{
			{
				Name: "Fuzz_Vmap_Delete",
				Func: func(k int64) {
					target.Delete(k)
				},
			},
			{
				Name: "Fuzz_Vmap_DeleteBulk",
				Func: func(kr keyRange) {
					target.DeleteBulk(kr)
				},
			},
			{
				Name: "Fuzz_Vmap_Get",
				Func: func(k int64) {
					target.Get(k)
				},
			},
			{
				Name: "Fuzz_Vmap_GetBulk",
				Func: func(kr keyRange) {
					target.GetBulk(kr)
				},
			},
			{
				Name: "Fuzz_Vmap_Len",
				Func: func() int {
					return target.Len()
				},
			},
			{
				Name: "Fuzz_Vmap_Range",
				Func: func(ops []op) {
					target.Range(ops)
				},
			},
			{
				Name: "Fuzz_Vmap_Set",
				Func: func(k, v int64) {
					target.Set(k, v)
				},
			},
			{
				Name: "Fuzz_Vmap_SetBulk",
				Func: func(kr keyRange) {
					target.SetBulk(kr)
				},
			},
		}

		fz.Chain(steps)

		got := make(map[int64]int64)
		target.m.Range(func(e entry) bool {
			got[e.key] = e.val
			return true
		})
		if diff := cmp.Diff(target.mirror, got); diff != "" {
			t.Errorf("Fuzz_NewVmap_Chain target mismatch after steps completed (-want +got):\n%s", diff)
		}
	})
}
