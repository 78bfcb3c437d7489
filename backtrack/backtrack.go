// Package backtrack implements the general backtracking matcher.
//
// It is the fallback engine for every pattern the classifier cannot route to
// a specialized scanner or to the NFA: patterns with captures, lookaround,
// bounded repeats, lazy quantifiers, or arbitrary nesting. Matching walks
// the AST directly in continuation-passing style; a quantified element tries
// candidate repetition counts in preference order (max down to min when
// greedy, min up to max when lazy) and hands each resulting position to the
// continuation for the rest of the pattern.
//
// Capture slots are committed when a group's continuation succeeds and
// rolled back when it fails, so a failed alternative never leaks spans into
// the result.
package backtrack

import (
	"unicode/utf8"

	"github.com/coregx/rexile/syntax"
)

// DefaultMaxDepth is the default per-search recursion bound. Exceeding it
// aborts the search ("pattern too complex") instead of running away on
// pathological input.
const DefaultMaxDepth = 10000

// Matcher is a compiled backtracking matcher. It is immutable and safe for
// concurrent use; per-search state lives in a machine allocated per call.
type Matcher struct {
	re       *syntax.Regexp
	flags    syntax.Flags
	ncap     int
	maxDepth int
}

// New builds a backtracking matcher for the parsed pattern.
// maxDepth bounds recursion; pass 0 for DefaultMaxDepth.
func New(re *syntax.Regexp, flags syntax.Flags, maxDepth int) *Matcher {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Matcher{
		re:       re,
		flags:    flags,
		ncap:     re.MaxCap(),
		maxDepth: maxDepth,
	}
}

// NumCap returns the number of capturing groups.
func (m *Matcher) NumCap() int {
	return m.ncap
}

// IsMatch reports whether the pattern matches anywhere in text.
func (m *Matcher) IsMatch(text []byte) bool {
	_, _, ok := m.FindAt(text, 0)
	return ok
}

// FindAt returns the leftmost match at or after byte position at.
// Candidate start positions advance one character at a time, so a match
// never starts inside a multi-byte UTF-8 sequence.
func (m *Matcher) FindAt(text []byte, at int) (start, end int, ok bool) {
	mm := m.newMachine(text)
	return mm.search(m.re, at)
}

// FindSubmatchAt returns the leftmost match at or after at as a slot vector:
// slots[0],slots[1] hold the whole match, slots[2i],slots[2i+1] hold group i.
// Unmatched groups hold -1. Returns nil if there is no match.
func (m *Matcher) FindSubmatchAt(text []byte, at int) []int {
	mm := m.newMachine(text)
	start, end, ok := mm.search(m.re, at)
	if !ok {
		return nil
	}
	mm.slots[0], mm.slots[1] = start, end
	return mm.slots
}

func (m *Matcher) newMachine(text []byte) *machine {
	mm := &machine{
		text:     text,
		flags:    m.flags,
		maxDepth: m.maxDepth,
	}
	mm.slots = make([]int, 2*(m.ncap+1))
	for i := range mm.slots {
		mm.slots[i] = -1
	}
	return mm
}

// machine holds per-search mutable state.
type machine struct {
	text       []byte
	flags      syntax.Flags
	slots      []int
	depth      int
	maxDepth   int
	tooComplex bool
}

// cont is the continuation for the remainder of the pattern. It receives
// the position reached so far and returns the final end position on success.
type cont func(pos int) (int, bool)

func contDone(pos int) (int, bool) { return pos, true }

// search tries each candidate start position left to right and returns the
// first (leftmost) match. Later starts are only tried after every
// alternative at earlier starts has failed, which gives leftmost-first
// semantics identical to the specialized matchers.
func (mm *machine) search(re *syntax.Regexp, at int) (int, int, bool) {
	text := mm.text
	for pos := at; ; {
		if end, ok := mm.matchNode(re, pos, contDone); ok {
			return pos, end, true
		}
		if mm.tooComplex || pos >= len(text) {
			return 0, 0, false
		}
		_, w := utf8.DecodeRune(text[pos:])
		pos += w
	}
}

func (mm *machine) matchNode(n *syntax.Regexp, pos int, k cont) (int, bool) {
	if mm.tooComplex {
		return 0, false
	}
	mm.depth++
	if mm.depth > mm.maxDepth {
		mm.tooComplex = true
		mm.depth--
		return 0, false
	}
	defer func() { mm.depth-- }()

	switch n.Op {
	case syntax.OpEmpty:
		return k(pos)

	case syntax.OpLiteral:
		end, ok := mm.matchLiteral(n.Str, pos)
		if !ok {
			return 0, false
		}
		return k(end)

	case syntax.OpCharClass:
		w, ok := n.Class.MatchAt(mm.text, pos)
		if !ok {
			return 0, false
		}
		return k(pos + w)

	case syntax.OpAnyChar:
		w, ok := mm.matchAnyChar(pos)
		if !ok {
			return 0, false
		}
		return k(pos + w)

	case syntax.OpAssert:
		if !mm.evalAssert(n.Assert, pos) {
			return 0, false
		}
		return k(pos)

	case syntax.OpConcat:
		return mm.matchSeq(n.Sub, 0, pos, k)

	case syntax.OpAlternate:
		for _, branch := range n.Sub {
			saved := mm.saveSlots()
			if end, ok := mm.matchNode(branch, pos, k); ok {
				return end, true
			}
			mm.restoreSlots(saved)
			if mm.tooComplex {
				return 0, false
			}
		}
		return 0, false

	case syntax.OpCapture:
		idx := n.Cap
		return mm.matchNode(n.Sub[0], pos, func(end int) (int, bool) {
			oldStart, oldEnd := mm.slots[2*idx], mm.slots[2*idx+1]
			mm.slots[2*idx], mm.slots[2*idx+1] = pos, end
			r, ok := k(end)
			if !ok {
				mm.slots[2*idx], mm.slots[2*idx+1] = oldStart, oldEnd
			}
			return r, ok
		})

	case syntax.OpQuantified:
		return mm.matchQuantified(n, pos, k)

	case syntax.OpLook:
		return mm.matchLook(n, pos, k)
	}

	return 0, false
}

func (mm *machine) matchSeq(subs []*syntax.Regexp, i, pos int, k cont) (int, bool) {
	if i == len(subs) {
		return k(pos)
	}
	return mm.matchNode(subs[i], pos, func(p int) (int, bool) {
		return mm.matchSeq(subs, i+1, p, k)
	})
}

// matchQuantified repeats n.Sub[0] between Min and Max times.
//
// Single-character bodies take a scanning path: all candidate end positions
// are collected in one forward pass and handed to the continuation in
// preference order, so long runs cost one stack frame instead of one per
// repetition. Composite bodies recurse per repetition; a repetition that
// consumes no bytes ends the expansion, since every further repetition
// would also be empty.
func (mm *machine) matchQuantified(n *syntax.Regexp, pos int, k cont) (int, bool) {
	body := n.Sub[0]

	if isSingleChar(body) {
		return mm.matchCharRun(n, pos, k)
	}

	var rec func(count, p int) (int, bool)
	rec = func(count, p int) (int, bool) {
		expand := func() (int, bool) {
			if n.Max >= 0 && count >= n.Max {
				return 0, false
			}
			return mm.matchNode(body, p, func(q int) (int, bool) {
				if q == p {
					// Empty repetition: the remaining required
					// repetitions are empty too.
					if n.Greedy || count < n.Min {
						return k(q)
					}
					return 0, false
				}
				return rec(count+1, q)
			})
		}

		if n.Greedy {
			if end, ok := expand(); ok {
				return end, true
			}
			if mm.tooComplex {
				return 0, false
			}
			if count >= n.Min {
				return k(p)
			}
			return 0, false
		}

		if count >= n.Min {
			if end, ok := k(p); ok {
				return end, true
			}
		}
		return expand()
	}
	return rec(0, pos)
}

// matchCharRun enumerates candidate consume lengths for a single-character
// quantified body: max down to min when greedy, min up to max when lazy.
func (mm *machine) matchCharRun(n *syntax.Regexp, pos int, k cont) (int, bool) {
	ends := make([]int, 1, 16)
	ends[0] = pos

	p := pos
	for n.Max < 0 || len(ends)-1 < n.Max {
		w, ok := mm.matchCharNode(n.Sub[0], p)
		if !ok {
			break
		}
		p += w
		ends = append(ends, p)
	}
	if len(ends)-1 < n.Min {
		return 0, false
	}

	if n.Greedy {
		for i := len(ends) - 1; i >= n.Min; i-- {
			if end, ok := k(ends[i]); ok {
				return end, true
			}
		}
		return 0, false
	}
	for i := n.Min; i < len(ends); i++ {
		if end, ok := k(ends[i]); ok {
			return end, true
		}
	}
	return 0, false
}

func isSingleChar(n *syntax.Regexp) bool {
	switch n.Op {
	case syntax.OpCharClass, syntax.OpAnyChar:
		return true
	case syntax.OpLiteral:
		return utf8.RuneCountInString(n.Str) == 1
	}
	return false
}

func (mm *machine) matchCharNode(n *syntax.Regexp, pos int) (width int, ok bool) {
	switch n.Op {
	case syntax.OpCharClass:
		return n.Class.MatchAt(mm.text, pos)
	case syntax.OpAnyChar:
		return mm.matchAnyChar(pos)
	case syntax.OpLiteral:
		end, ok := mm.matchLiteral(n.Str, pos)
		return end - pos, ok
	}
	return 0, false
}

func (mm *machine) matchLiteral(lit string, pos int) (end int, ok bool) {
	text := mm.text
	if pos+len(lit) > len(text) {
		return 0, false
	}
	if mm.flags&syntax.FlagCaseInsensitive != 0 {
		// Literals are stored ASCII-lowercased under (?i).
		for i := 0; i < len(lit); i++ {
			if lowerByte(text[pos+i]) != lit[i] {
				return 0, false
			}
		}
		return pos + len(lit), true
	}
	for i := 0; i < len(lit); i++ {
		if text[pos+i] != lit[i] {
			return 0, false
		}
	}
	return pos + len(lit), true
}

func (mm *machine) matchAnyChar(pos int) (width int, ok bool) {
	text := mm.text
	if pos >= len(text) {
		return 0, false
	}
	b := text[pos]
	if b < utf8.RuneSelf {
		if b == '\n' && mm.flags&syntax.FlagDotAll == 0 {
			return 0, false
		}
		return 1, true
	}
	r, w := utf8.DecodeRune(text[pos:])
	if r == utf8.RuneError && w == 1 {
		return 0, false
	}
	return w, true
}

func (mm *machine) evalAssert(kind syntax.AssertKind, pos int) bool {
	text := mm.text
	switch kind {
	case syntax.AssertBeginText:
		return pos == 0
	case syntax.AssertEndText:
		return pos == len(text)
	case syntax.AssertWordBoundary, syntax.AssertNoWordBoundary:
		before := pos > 0 && syntax.IsWordByte(text[pos-1])
		after := pos < len(text) && syntax.IsWordByte(text[pos])
		if kind == syntax.AssertWordBoundary {
			return before != after
		}
		return before == after
	}
	return false
}

// matchLook evaluates a zero-width lookaround at pos and, if it holds,
// continues the rest of the pattern from the same position.
func (mm *machine) matchLook(n *syntax.Regexp, pos int, k cont) (int, bool) {
	body := n.Sub[0]

	switch n.Look {
	case syntax.LookAhead:
		saved := mm.saveSlots()
		if _, ok := mm.matchNode(body, pos, contDone); !ok {
			mm.restoreSlots(saved)
			return 0, false
		}
		r, ok := k(pos)
		if !ok {
			mm.restoreSlots(saved)
		}
		return r, ok

	case syntax.LookAheadNeg:
		saved := mm.saveSlots()
		_, matched := mm.matchNode(body, pos, contDone)
		mm.restoreSlots(saved)
		if matched || mm.tooComplex {
			return 0, false
		}
		return k(pos)

	case syntax.LookBehind:
		saved := mm.saveSlots()
		if !mm.lookBehindMatches(body, pos) {
			mm.restoreSlots(saved)
			return 0, false
		}
		r, ok := k(pos)
		if !ok {
			mm.restoreSlots(saved)
		}
		return r, ok

	case syntax.LookBehindNeg:
		saved := mm.saveSlots()
		matched := mm.lookBehindMatches(body, pos)
		mm.restoreSlots(saved)
		if matched || mm.tooComplex {
			return 0, false
		}
		return k(pos)
	}

	return 0, false
}

// lookBehindMatches reports whether the body matches some [s, pos) span
// ending exactly at pos. Candidate starts are scanned backward one
// character at a time; worst case O(pos) candidates.
func (mm *machine) lookBehindMatches(body *syntax.Regexp, pos int) bool {
	for s := pos; ; {
		if _, ok := mm.matchNode(body, s, func(q int) (int, bool) {
			if q == pos {
				return q, true
			}
			return 0, false
		}); ok {
			return true
		}
		if mm.tooComplex || s == 0 {
			return false
		}
		s--
		for s > 0 && isContinuationByte(mm.text[s]) {
			s--
		}
	}
}

func (mm *machine) saveSlots() []int {
	if len(mm.slots) == 2 {
		return nil // no capture groups, nothing to roll back
	}
	saved := make([]int, len(mm.slots))
	copy(saved, mm.slots)
	return saved
}

func (mm *machine) restoreSlots(saved []int) {
	if saved != nil {
		copy(mm.slots, saved)
	}
}

func lowerByte(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + 32
	}
	return b
}

func isContinuationByte(b byte) bool {
	return b&0xC0 == 0x80
}
