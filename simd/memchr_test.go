package simd

import (
	"bytes"
	"strings"
	"testing"
)

func TestMemchr(t *testing.T) {
	tests := []struct {
		haystack string
		needle   byte
		want     int
	}{
		{"", 'a', -1},
		{"a", 'a', 0},
		{"xa", 'a', 1},
		{"xxxxxxxa", 'a', 7},
		{strings.Repeat("x", 100) + "a", 'a', 100},
		{strings.Repeat("x", 100), 'a', -1},
		{"hello world", 'o', 4},
		{"\x00\x01\x02", 0x00, 0},
		{strings.Repeat("ab", 50), 'b', 1},
	}
	for _, tc := range tests {
		got := Memchr([]byte(tc.haystack), tc.needle)
		if got != tc.want {
			t.Errorf("Memchr(%q, %q) = %d, want %d", tc.haystack, tc.needle, got, tc.want)
		}
		if want := bytes.IndexByte([]byte(tc.haystack), tc.needle); got != want {
			t.Errorf("Memchr disagrees with bytes.IndexByte: %d vs %d", got, want)
		}
	}
}

func TestMemchrExhaustivePositions(t *testing.T) {
	// Every position across word boundaries, catching SWAR masking bugs.
	for n := 0; n < 40; n++ {
		for pos := 0; pos < n; pos++ {
			hay := bytes.Repeat([]byte{'x'}, n)
			hay[pos] = 'q'
			if got := Memchr(hay, 'q'); got != pos {
				t.Fatalf("len %d pos %d: Memchr = %d", n, pos, got)
			}
		}
	}
}

func TestMemchr2(t *testing.T) {
	hay := []byte("abcdefgh")
	if got := Memchr2(hay, 'e', 'c'); got != 2 {
		t.Errorf("Memchr2 = %d, want 2 (earliest of either)", got)
	}
	if got := Memchr2(hay, 'z', 'q'); got != -1 {
		t.Errorf("Memchr2 = %d, want -1", got)
	}
	long := append(bytes.Repeat([]byte{'.'}, 70), 'B')
	if got := Memchr2(long, 'b', 'B'); got != 70 {
		t.Errorf("Memchr2 = %d, want 70", got)
	}
}

func TestMemchr3(t *testing.T) {
	hay := []byte("....x...y..z")
	if got := Memchr3(hay, 'z', 'y', 'x'); got != 4 {
		t.Errorf("Memchr3 = %d, want 4", got)
	}
	if got := Memchr3(hay, '1', '2', '3'); got != -1 {
		t.Errorf("Memchr3 = %d, want -1", got)
	}
}

func TestMemchrDigit(t *testing.T) {
	tests := []struct {
		haystack string
		at       int
		want     int
	}{
		{"", 0, -1},
		{"abc", 0, -1},
		{"abc5", 0, 3},
		{"0abc", 0, 0},
		{"abc5def6", 4, 7},
		{strings.Repeat("x", 64) + "7", 0, 64},
		// ':' (0x3A) and '/' (0x2F) sit just outside the digit range.
		{"::://///9", 0, 8},
		{strings.Repeat(":", 32), 0, -1},
	}
	for _, tc := range tests {
		got := MemchrDigitAt([]byte(tc.haystack), tc.at)
		if got != tc.want {
			t.Errorf("MemchrDigitAt(%q, %d) = %d, want %d", tc.haystack, tc.at, got, tc.want)
		}
	}
}

func TestMemchrDigitExhaustiveBytes(t *testing.T) {
	// Each possible byte value repeated across a two-word buffer.
	for b := 0; b < 256; b++ {
		hay := bytes.Repeat([]byte{byte(b)}, 16)
		want := -1
		if b >= '0' && b <= '9' {
			want = 0
		}
		if got := MemchrDigitAt(hay, 0); got != want {
			t.Errorf("byte 0x%02X: MemchrDigitAt = %d, want %d", b, got, want)
		}
	}
}
