// Package meta implements the meta-engine orchestrator.
//
// fastpath.go contains the specialized scanners. Each one implements the
// findAt contract: leftmost match at or after the given position, byte-exact
// with what the general backtracker reports for the same pattern. Scanners
// never allocate and never call back into the general engines.
package meta

import (
	"bytes"

	"github.com/coregx/rexile/simd"
	"github.com/coregx/rexile/syntax"
)

func (e *Engine) literalFindAt(text []byte, at int) (int, int, bool) {
	idx := simd.Memmem(text[at:], e.lit)
	if idx == -1 {
		return 0, 0, false
	}
	start := at + idx
	return start, start + len(e.lit), true
}

// literalFoldFindAt is the case-insensitive literal scan. The needle is
// stored lowercased; candidates come from a two-byte memchr over both cases
// of the leading byte and are verified with an ASCII fold compare.
func (e *Engine) literalFoldFindAt(text []byte, at int) (int, int, bool) {
	lit := e.lit
	lead := lit[0]
	for i := at; ; {
		var idx int
		if lead >= 'a' && lead <= 'z' {
			idx = simd.Memchr2(text[i:], lead, lead-32)
		} else {
			idx = simd.Memchr(text[i:], lead)
		}
		if idx == -1 {
			return 0, 0, false
		}
		start := i + idx
		if start+len(lit) <= len(text) && equalFoldASCII(text[start:start+len(lit)], lit) {
			return start, start + len(lit), true
		}
		i = start + 1
	}
}

func (e *Engine) multiLiteralFindAt(text []byte, at int) (int, int, bool) {
	if at >= len(text) {
		return 0, 0, false
	}
	m := e.ac.Find(text, at)
	if m == nil {
		return 0, 0, false
	}
	return m.Start, m.End, true
}

func (e *Engine) anchoredLiteralFindAt(text []byte, at int) (int, int, bool) {
	lit := e.lit
	switch {
	case e.anchorStart && e.anchorEnd:
		if at == 0 && bytes.Equal(text, lit) {
			return 0, len(lit), true
		}
	case e.anchorStart:
		if at == 0 && len(text) >= len(lit) && bytes.Equal(text[:len(lit)], lit) {
			return 0, len(lit), true
		}
	default:
		start := len(text) - len(lit)
		if start >= at && bytes.HasSuffix(text, lit) {
			return start, len(text), true
		}
	}
	return 0, 0, false
}

func (e *Engine) digitRunFindAt(text []byte, at int) (int, int, bool) {
	start := simd.MemchrDigitAt(text, at)
	if start == -1 {
		return 0, 0, false
	}
	end := start + 1
	for end < len(text) && syntax.IsDigitByte(text[end]) {
		end++
	}
	return start, end, true
}

func (e *Engine) wordRunFindAt(text []byte, at int) (int, int, bool) {
	// Word bytes are ASCII, so byte scanning cannot split a multi-byte
	// character: continuation bytes are never word bytes.
	for i := at; i < len(text); i++ {
		if !syntax.IsWordByte(text[i]) {
			continue
		}
		end := i + 1
		for end < len(text) && syntax.IsWordByte(text[end]) {
			end++
		}
		return i, end, true
	}
	return 0, 0, false
}

func (e *Engine) whitespaceRunFindAt(text []byte, at int) (int, int, bool) {
	for i := at; i < len(text); i++ {
		if !syntax.IsSpaceByte(text[i]) {
			continue
		}
		end := i + 1
		for end < len(text) && syntax.IsSpaceByte(text[end]) {
			end++
		}
		return i, end, true
	}
	return 0, 0, false
}

// quotedStringFindAt finds the next "content" span with non-empty content:
// an opening quote, at least one non-quote character, and the next quote.
func (e *Engine) quotedStringFindAt(text []byte, at int) (int, int, bool) {
	for i := at; ; {
		rel := simd.Memchr(text[i:], '"')
		if rel == -1 {
			return 0, 0, false
		}
		open := i + rel
		next := simd.Memchr(text[open+1:], '"')
		if next == -1 {
			return 0, 0, false
		}
		closing := open + 1 + next
		if closing > open+1 {
			return open, closing + 1, true
		}
		// Adjacent quotes: the closing quote starts the next candidate.
		i = open + 1
	}
}

func (e *Engine) identifierRunFindAt(text []byte, at int) (int, int, bool) {
	for i := at; i < len(text); i++ {
		b := text[i]
		if b != '_' && (b < 'a' || b > 'z') && (b < 'A' || b > 'Z') {
			continue
		}
		end := i + 1
		for end < len(text) && syntax.IsWordByte(text[end]) {
			end++
		}
		return i, end, true
	}
	return 0, 0, false
}

// literalWhitespaceFindAt drives the lit\s+ family: scan literal
// occurrences left to right, require a whitespace run after each, then the
// strategy-specific tail. Backing off whitespace can never rescue a failed
// tail (fewer spaces put a whitespace byte where the tail expects its first
// character), so each candidate is checked exactly once.
func (e *Engine) literalWhitespaceFindAt(text []byte, at int) (int, int, bool) {
	for i := at; ; {
		idx := simd.Memmem(text[i:], e.lit)
		if idx == -1 {
			return 0, 0, false
		}
		start := i + idx
		p := start + len(e.lit)
		q := p
		for q < len(text) && syntax.IsSpaceByte(text[q]) {
			q++
		}
		if q > p {
			if end, ok := e.literalWhitespaceTail(text, q); ok {
				return start, end, true
			}
		}
		i = start + 1
	}
}

func (e *Engine) literalWhitespaceTail(text []byte, q int) (int, bool) {
	switch e.strategy {
	case UseLiteralWhitespace:
		return q, true

	case UseLiteralWhitespaceDigits:
		end := q
		for end < len(text) && syntax.IsDigitByte(text[end]) {
			end++
		}
		if end > q {
			return end, true
		}
		return 0, false

	case UseLiteralWhitespaceWord:
		end := q
		for end < len(text) && syntax.IsWordByte(text[end]) {
			end++
		}
		if end > q {
			return end, true
		}
		return 0, false

	case UseLiteralWhitespaceQuoted:
		if q < len(text) && text[q] == '"' {
			next := simd.Memchr(text[q+1:], '"')
			if next > 0 {
				return q + 1 + next + 1, true
			}
		}
		return 0, false
	}
	return 0, false
}

func equalFoldASCII(text, lower []byte) bool {
	for i := 0; i < len(lower); i++ {
		b := text[i]
		if b >= 'A' && b <= 'Z' {
			b += 32
		}
		if b != lower[i] {
			return false
		}
	}
	return true
}
