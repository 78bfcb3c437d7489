package simd

import "bytes"

// Memmem returns the index of the first instance of needle in haystack,
// or -1 if needle is not present.
//
// Equivalent to bytes.Index. The scan searches for the needle's last byte
// with Memchr and verifies the full needle at each candidate. Anchoring on
// the last byte makes the verify window end exactly at the candidate, so no
// extra bounds handling is needed, and it behaves well on prefix-heavy text
// (e.g. searching "foobar" in "foofoofoobar").
func Memmem(haystack, needle []byte) int {
	needleLen := len(needle)
	if needleLen == 0 {
		return 0
	}
	if needleLen > len(haystack) {
		return -1
	}
	if needleLen == 1 {
		return Memchr(haystack, needle[0])
	}

	anchor := needle[needleLen-1]
	anchorOff := needleLen - 1

	i := 0
	for {
		j := Memchr(haystack[i+anchorOff:], anchor)
		if j == -1 {
			return -1
		}
		start := i + j
		if bytes.Equal(haystack[start:start+needleLen], needle) {
			return start
		}
		i = start + 1
	}
}
