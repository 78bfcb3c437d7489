package nfa

import (
	"unicode/utf8"

	"github.com/coregx/rexile/internal/conv"
	"github.com/coregx/rexile/internal/sparse"
	"github.com/coregx/rexile/syntax"
)

// PikeVM simulates a Program over input text with breadth-first thread
// lists and epsilon closure.
//
// Thread lists are kept in priority order: earlier entries correspond to
// higher-preference alternatives (earlier alternation branches, the greedy
// arm of a quantifier, earlier start positions). When a match instruction is
// reached, all lower-priority threads are cut, and no new start positions
// are seeded once any match is known. The recorded span therefore equals
// what the backtracker would report.
//
// The PikeVM itself is immutable; per-search state is allocated per call.
type PikeVM struct {
	prog *Program
}

// NewPikeVM wraps a compiled program.
func NewPikeVM(prog *Program) *PikeVM {
	return &PikeVM{prog: prog}
}

// threadList is a priority-ordered set of program counters with the start
// position of the thread that queued each one.
type threadList struct {
	set    *sparse.Set
	starts []int
}

func newThreadList(n int) *threadList {
	return &threadList{
		set:    sparse.New(conv.IntToUint32(n)),
		starts: make([]int, 0, n),
	}
}

func (tl *threadList) clear() {
	tl.set.Clear()
	tl.starts = tl.starts[:0]
}

// IsMatch reports whether the program matches anywhere in text.
func (v *PikeVM) IsMatch(text []byte) bool {
	_, _, ok := v.SearchAt(text, 0)
	return ok
}

// SearchAt returns the leftmost match at or after byte position at.
func (v *PikeVM) SearchAt(text []byte, at int) (start, end int, ok bool) {
	if at > len(text) {
		return 0, 0, false
	}

	prog := v.prog
	n := len(prog.Insts)
	clist := newThreadList(n)
	nlist := newThreadList(n)

	matched := false
	mStart, mEnd := 0, 0

	pos := at
	for {
		if !matched {
			v.addThread(clist, prog.Start, pos, pos, text)
		}
		if clist.set.Len() == 0 && (matched || pos > len(text)) {
			break
		}

		// Decode the character consumed this step; -1 past end of text.
		r := rune(-1)
		w := 0
		if pos < len(text) {
			b := text[pos]
			if b < utf8.RuneSelf {
				r, w = rune(b), 1
			} else {
				r, w = utf8.DecodeRune(text[pos:])
			}
		}

		dense := clist.set.Dense()
		for i := 0; i < len(dense); i++ {
			in := &prog.Insts[dense[i]]
			switch in.Op {
			case opMatch:
				matched = true
				mStart = clist.starts[i]
				mEnd = pos
				// Cut lower-priority threads.
				i = len(dense)
			case opChar:
				// An invalid byte decodes as RuneError with width 1;
				// no thread consumes it, matching the backtracker.
				if r >= 0 && !(r == utf8.RuneError && w == 1) && prog.matchChar(in, r) {
					v.addThread(nlist, in.X, clist.starts[i], pos+w, text)
				}
			}
		}

		clist, nlist = nlist, clist
		nlist.clear()

		if pos >= len(text) {
			break
		}
		pos += w
	}

	if !matched {
		return 0, 0, false
	}
	return mStart, mEnd, true
}

// addThread queues pc with epsilon closure: jumps, splits and satisfied
// assertions are expanded immediately, in preference order, at position pos.
// The sparse set keeps the first (highest-priority) occurrence of each pc.
func (v *PikeVM) addThread(tl *threadList, pc uint32, start, pos int, text []byte) {
	if tl.set.Contains(pc) {
		return
	}
	tl.set.Insert(pc)
	tl.starts = append(tl.starts, start)

	in := &v.prog.Insts[pc]
	switch in.Op {
	case opJmp:
		v.addThread(tl, in.X, start, pos, text)
	case opSplit:
		v.addThread(tl, in.X, start, pos, text)
		v.addThread(tl, in.Y, start, pos, text)
	case opAssert:
		if evalAssert(in.Assert, text, pos) {
			v.addThread(tl, in.X, start, pos, text)
		}
	}
}

func evalAssert(kind syntax.AssertKind, text []byte, pos int) bool {
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
