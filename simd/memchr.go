package simd

// Memchr returns the index of the first instance of needle in haystack,
// or -1 if needle is not present.
//
// Equivalent to bytes.IndexByte; implemented as a SWAR scan processing 8
// bytes per step (32 with wideBlocks) so the literal matchers can skip
// non-candidate regions quickly.
func Memchr(haystack []byte, needle byte) int {
	n := len(haystack)
	splat := uint64(needle) * lo8
	i := 0

	if wideBlocks {
		for ; i+32 <= n; i += 32 {
			v0 := loadWord(haystack, i) ^ splat
			v1 := loadWord(haystack, i+8) ^ splat
			v2 := loadWord(haystack, i+16) ^ splat
			v3 := loadWord(haystack, i+24) ^ splat
			if m := zeroByteMask(v0); m != 0 {
				return i + firstByteIndex(m)
			}
			if m := zeroByteMask(v1); m != 0 {
				return i + 8 + firstByteIndex(m)
			}
			if m := zeroByteMask(v2); m != 0 {
				return i + 16 + firstByteIndex(m)
			}
			if m := zeroByteMask(v3); m != 0 {
				return i + 24 + firstByteIndex(m)
			}
		}
	}

	for ; i+8 <= n; i += 8 {
		if m := zeroByteMask(loadWord(haystack, i) ^ splat); m != 0 {
			return i + firstByteIndex(m)
		}
	}
	for ; i < n; i++ {
		if haystack[i] == needle {
			return i
		}
	}
	return -1
}

// Memchr2 returns the index of the first instance of either needle1 or
// needle2 in haystack, or -1 if neither is present.
//
// Used by the case-insensitive literal scanner to find both cases of the
// leading byte in one pass.
func Memchr2(haystack []byte, needle1, needle2 byte) int {
	n := len(haystack)
	splat1 := uint64(needle1) * lo8
	splat2 := uint64(needle2) * lo8
	i := 0

	for ; i+8 <= n; i += 8 {
		v := loadWord(haystack, i)
		m := zeroByteMask(v^splat1) | zeroByteMask(v^splat2)
		if m != 0 {
			return i + firstByteIndex(m)
		}
	}
	for ; i < n; i++ {
		if haystack[i] == needle1 || haystack[i] == needle2 {
			return i
		}
	}
	return -1
}

// Memchr3 returns the index of the first instance of needle1, needle2, or
// needle3 in haystack, or -1 if none are present.
func Memchr3(haystack []byte, needle1, needle2, needle3 byte) int {
	n := len(haystack)
	splat1 := uint64(needle1) * lo8
	splat2 := uint64(needle2) * lo8
	splat3 := uint64(needle3) * lo8
	i := 0

	for ; i+8 <= n; i += 8 {
		v := loadWord(haystack, i)
		m := zeroByteMask(v^splat1) | zeroByteMask(v^splat2) | zeroByteMask(v^splat3)
		if m != 0 {
			return i + firstByteIndex(m)
		}
	}
	for ; i < n; i++ {
		b := haystack[i]
		if b == needle1 || b == needle2 || b == needle3 {
			return i
		}
	}
	return -1
}
