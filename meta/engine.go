// Package meta orchestrates pattern execution.
//
// Compile parses a pattern, classifies its AST against the catalogue of
// fast-path shapes, and builds the engines the selected strategy needs.
// The Engine then dispatches every search to the specialized scanner, the
// PikeVM, or the general backtracker.
package meta

import (
	"unicode/utf8"

	"github.com/coregx/ahocorasick"
	"github.com/coregx/rexile/backtrack"
	"github.com/coregx/rexile/nfa"
	"github.com/coregx/rexile/syntax"
)

// Engine is a compiled, immutable pattern. It is safe to share across
// goroutines: all per-search state is allocated per call.
type Engine struct {
	pattern  string
	strategy Strategy
	flags    syntax.Flags
	ncap     int

	// Fast-path state; which fields are set depends on strategy.
	lit         []byte // literal strategies and LiteralWhitespace* prefix
	anchorStart bool
	anchorEnd   bool
	ac          *ahocorasick.Automaton
	pike        *nfa.PikeVM

	// The backtracker is always built: it is the general fallback and the
	// reference the fast paths must agree with.
	bt *backtrack.Matcher
}

// Pattern returns the source pattern string.
func (e *Engine) Pattern() string {
	return e.pattern
}

// Strategy returns the execution strategy the classifier selected.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// NumCap returns the number of capturing groups in the pattern.
func (e *Engine) NumCap() int {
	return e.ncap
}

// Flags returns the leading flags the pattern was compiled with.
func (e *Engine) Flags() syntax.Flags {
	return e.flags
}

// IsMatch reports whether the pattern matches anywhere in text.
func (e *Engine) IsMatch(text []byte) bool {
	_, _, ok := e.FindAt(text, 0)
	return ok
}

// Find returns the span of the leftmost match, or ok=false.
func (e *Engine) Find(text []byte) (start, end int, ok bool) {
	return e.FindAt(text, 0)
}

// FindAt returns the span of the leftmost match starting at or after byte
// position at. The full haystack is always passed so anchors and word
// boundaries see the true text edges.
func (e *Engine) FindAt(text []byte, at int) (start, end int, ok bool) {
	if at < 0 || at > len(text) {
		return 0, 0, false
	}

	switch e.strategy {
	case UseLiteral:
		return e.literalFindAt(text, at)
	case UseLiteralFold:
		return e.literalFoldFindAt(text, at)
	case UseMultiLiteral:
		return e.multiLiteralFindAt(text, at)
	case UseAnchoredLiteral:
		return e.anchoredLiteralFindAt(text, at)
	case UseDigitRun:
		return e.digitRunFindAt(text, at)
	case UseWordRun:
		return e.wordRunFindAt(text, at)
	case UseWhitespaceRun:
		return e.whitespaceRunFindAt(text, at)
	case UseQuotedString:
		return e.quotedStringFindAt(text, at)
	case UseIdentifierRun:
		return e.identifierRunFindAt(text, at)
	case UseLiteralWhitespace, UseLiteralWhitespaceDigits,
		UseLiteralWhitespaceWord, UseLiteralWhitespaceQuoted:
		return e.literalWhitespaceFindAt(text, at)
	case UseNFA:
		return e.pike.SearchAt(text, at)
	default:
		return e.bt.FindAt(text, at)
	}
}

// FindSubmatchAt returns the leftmost match at or after at as a slot
// vector: slots[0],slots[1] are the whole match, slots[2i],slots[2i+1]
// group i, -1 for unmatched groups. Returns nil if there is no match.
func (e *Engine) FindSubmatchAt(text []byte, at int) []int {
	if e.ncap == 0 {
		start, end, ok := e.FindAt(text, at)
		if !ok {
			return nil
		}
		return []int{start, end}
	}
	return e.bt.FindSubmatchAt(text, at)
}

// FindAllIndices returns all non-overlapping match spans in increasing
// start order. Limit n restricts the count; n <= 0 means no limit.
//
// An empty match advances the scan by one character so iteration always
// terminates and spans never overlap.
func (e *Engine) FindAllIndices(text []byte, n int) [][2]int {
	var out [][2]int
	pos := 0
	for n <= 0 || len(out) < n {
		start, end, ok := e.FindAt(text, pos)
		if !ok {
			break
		}
		out = append(out, [2]int{start, end})
		pos = nextScanPos(text, start, end)
		if pos > len(text) {
			break
		}
	}
	return out
}

// Count returns the number of non-overlapping matches, without
// accumulating spans. Limit n restricts the count; n <= 0 means no limit.
func (e *Engine) Count(text []byte, n int) int {
	count := 0
	pos := 0
	for n <= 0 || count < n {
		start, end, ok := e.FindAt(text, pos)
		if !ok {
			break
		}
		count++
		pos = nextScanPos(text, start, end)
		if pos > len(text) {
			break
		}
	}
	return count
}

// nextScanPos returns the scan position following a match at [start, end).
func nextScanPos(text []byte, start, end int) int {
	if end > start {
		return end
	}
	// Empty match: step over one character.
	if end >= len(text) {
		return len(text) + 1
	}
	_, w := utf8.DecodeRune(text[end:])
	return end + w
}
