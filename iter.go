package rexile

import "unicode/utf8"

// FindIter iterates over all non-overlapping matches lazily: each Next call
// runs one search from the current position. The iterator keeps no buffers
// of its own; searches served by the NFA or the backtracker allocate their
// per-search state on every Next call.
//
// Matches come in strictly increasing start order and never share a byte.
// The iterator borrows the input text and is not safe for concurrent use.
type FindIter struct {
	p    *Pattern
	text []byte
	pos  int
	done bool
}

// FindIter returns an iterator over all matches in b.
func (p *Pattern) FindIter(b []byte) *FindIter {
	return &FindIter{p: p, text: b}
}

// Next returns the next match span. ok is false when iteration is finished.
func (it *FindIter) Next() (start, end int, ok bool) {
	if it.done {
		return 0, 0, false
	}
	start, end, ok = it.p.engine.FindAt(it.text, it.pos)
	if !ok {
		it.done = true
		return 0, 0, false
	}
	it.pos = nextIterPos(it.text, start, end)
	if it.pos > len(it.text) {
		it.done = true
	}
	return start, end, true
}

// CaptureIter iterates over the captures of all non-overlapping matches.
type CaptureIter struct {
	p    *Pattern
	text []byte
	pos  int
	done bool
}

// CaptureIter returns an iterator yielding a Captures for each match in b.
func (p *Pattern) CaptureIter(b []byte) *CaptureIter {
	return &CaptureIter{p: p, text: b}
}

// Next returns the captures of the next match, or nil when finished.
func (it *CaptureIter) Next() *Captures {
	if it.done {
		return nil
	}
	slots := it.p.engine.FindSubmatchAt(it.text, it.pos)
	if slots == nil {
		it.done = true
		return nil
	}
	start, end := slots[0], slots[1]
	it.pos = nextIterPos(it.text, start, end)
	if it.pos > len(it.text) {
		it.done = true
	}
	return &Captures{text: it.text, slots: slots, ncap: it.p.engine.NumCap()}
}

// nextIterPos advances past a match, stepping over one character after an
// empty match so iteration terminates.
func nextIterPos(text []byte, start, end int) int {
	if end > start {
		return end
	}
	if end >= len(text) {
		return len(text) + 1
	}
	_, w := utf8.DecodeRune(text[end:])
	return end + w
}
