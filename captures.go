package rexile

// Captures holds the spans recorded by one successful match: the whole
// match at index 0 plus one optional span per capturing group.
//
// A Captures value borrows the input text; it stays valid only while the
// text does.
type Captures struct {
	text  []byte
	slots []int
	ncap  int
}

// Len returns the number of slots: capture groups plus one for the whole
// match.
func (c *Captures) Len() int {
	return c.ncap + 1
}

// Span returns the byte span of group i (0 = whole match).
// ok is false when the group sits in an unmatched alternation branch.
func (c *Captures) Span(i int) (start, end int, ok bool) {
	if i < 0 || i > c.ncap {
		return 0, 0, false
	}
	start, end = c.slots[2*i], c.slots[2*i+1]
	if start < 0 || end < 0 {
		return 0, 0, false
	}
	return start, end, true
}

// Get returns the text of group i, or nil if the group is unset.
// The returned slice aliases the input text.
func (c *Captures) Get(i int) []byte {
	start, end, ok := c.Span(i)
	if !ok {
		return nil
	}
	return c.text[start:end]
}

// GetString returns the text of group i as a string, or "" if unset.
func (c *Captures) GetString(i int) string {
	return string(c.Get(i))
}
