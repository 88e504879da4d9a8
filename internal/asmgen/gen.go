//go:build ignore

// Command asmgen generates the SIMD-backed MatchByte implementation via
// avo. Run with `go run internal/asmgen/gen.go -out match_amd64.s`; not
// part of the normal build, and match.go's portable SWAR version is what
// actually ships until this is wired into go:generate.
package main

import (
	. "github.com/mmcloughlin/avo/build"
	"github.com/mmcloughlin/avo/operand"
)

func main() {
	TEXT("matchByteAsm", NOSPLIT, "func(c uint8, buffer []byte) (mask uint32, ok bool)")
	Doc("matchByteAsm scans the first 16 bytes of buffer for c using PCMPEQB/PMOVMSKB.")

	n := Load(Param("buffer").Len(), GP64())
	result := GP32()
	CMPQ(n, operand.Imm(16))
	JGE(operand.LabelRef("valid"))

	ok, err := ReturnIndex(1).Resolve()
	if err != nil {
		panic(err)
	}
	XORL(result, result)
	Store(result, ReturnIndex(0))
	MOVB(operand.Imm(0), ok.Addr)
	RET()

	Label("valid")
	c := Load(Param("c"), GP32())
	ptr := Load(Param("buffer").Base(), GP64())

	needle, zero, haystack := XMM(), XMM(), XMM()
	PXOR(zero, zero)
	MOVD(c, needle)
	PSHUFB(zero, needle)
	MOVOU(operand.Mem{Base: ptr}, haystack)
	PCMPEQB(haystack, needle)
	PMOVMSKB(needle, result)
	Store(result, ReturnIndex(0))
	MOVB(operand.Imm(1), ok.Addr)
	RET()

	Generate()
}
