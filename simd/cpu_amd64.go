//go:build amd64

package simd

import "golang.org/x/sys/cpu"

// wideBlocks selects the 32-byte unrolled scan loops. On AVX2-class cores
// the four independent word loads per iteration keep the load ports busy;
// on older cores the extra unroll is a wash, so the plain 8-byte loop runs.
var wideBlocks = cpu.X86.HasAVX2
