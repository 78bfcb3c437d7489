// Package simd provides accelerated byte-scanning primitives for the
// pattern matchers: single/multi byte search (memchr), substring search
// (memmem), digit scanning, and ASCII detection.
//
// All implementations are SWAR (SIMD Within A Register): they process 8
// bytes per uint64 operation. Memchr and IsASCII add a 32-byte unrolled
// block on x86-64 CPUs that report AVX2 (detected via golang.org/x/sys/cpu),
// where the wider stride pays for itself; Memchr2, Memchr3 and
// MemchrDigitAt always use the 8-byte loop. The same code paths run on
// every platform; the feature flag only selects the block size.
//
// The primary consumers are the literal and run-scanning fast paths in
// package meta, where these functions let the engine skip large regions of
// text that cannot contain a match.
package simd

import (
	"encoding/binary"
	"math/bits"
)

const (
	lo8 = uint64(0x0101010101010101)
	hi8 = uint64(0x8080808080808080)
)

// zeroByteMask returns a mask with 0x80 set in every byte of v that is zero.
// Bits above the lowest zero byte may be corrupted by borrow propagation;
// the lowest set bit is always exact, which is all the scanners need.
func zeroByteMask(v uint64) uint64 {
	return (v - lo8) & ^v & hi8
}

// firstByteIndex converts a zeroByteMask result to the index of the lowest
// flagged byte within the little-endian loaded word.
func firstByteIndex(mask uint64) int {
	return bits.TrailingZeros64(mask) >> 3
}

func loadWord(b []byte, i int) uint64 {
	return binary.LittleEndian.Uint64(b[i:])
}
