package syntax

import "unicode/utf8"

// CharClass is a single-character matcher built from a [...] class or a
// predefined escape (\d \w \s and negations).
//
// ASCII membership is a 128-bit bitmap; characters above U+007F are kept as
// a list of rune ranges in the order they were added (neither sorted nor
// merged). Negation is stored as a flag and
// applied on lookup, so a negated class still carries its positive set.
type CharClass struct {
	ascii   [2]uint64 // membership bitmap for runes 0..127
	ranges  []RuneRange
	negated bool
}

// RuneRange is an inclusive range of runes above U+007F.
type RuneRange struct {
	Lo, Hi rune
}

// NewCharClass returns an empty, non-negated class.
func NewCharClass() *CharClass {
	return &CharClass{}
}

// AddRune adds a single rune to the class.
func (c *CharClass) AddRune(r rune) {
	c.AddRange(r, r)
}

// AddRange adds the inclusive rune range [lo, hi] to the class.
// The caller guarantees lo <= hi.
func (c *CharClass) AddRange(lo, hi rune) {
	for r := lo; r <= hi && r < 128; r++ {
		c.ascii[r>>6] |= 1 << uint(r&63)
	}
	if hi >= 128 {
		rlo := lo
		if rlo < 128 {
			rlo = 128
		}
		c.ranges = append(c.ranges, RuneRange{Lo: rlo, Hi: hi})
	}
}

// AddClass adds every member of o to c. Used for \d \w \s inside [...].
func (c *CharClass) AddClass(o *CharClass) {
	c.ascii[0] |= o.ascii[0]
	c.ascii[1] |= o.ascii[1]
	c.ranges = append(c.ranges, o.ranges...)
}

// Negate marks the class as negated.
func (c *CharClass) Negate() {
	c.negated = true
}

// Negated reports whether the class is negated.
func (c *CharClass) Negated() bool {
	return c.negated
}

// IsEmpty reports whether the positive set is empty.
func (c *CharClass) IsEmpty() bool {
	return c.ascii[0] == 0 && c.ascii[1] == 0 && len(c.ranges) == 0
}

// Contains reports whether the class matches rune r, honouring negation.
func (c *CharClass) Contains(r rune) bool {
	return c.containsPositive(r) != c.negated
}

func (c *CharClass) containsPositive(r rune) bool {
	if r >= 0 && r < 128 {
		return c.ascii[r>>6]&(1<<uint(r&63)) != 0
	}
	for _, rr := range c.ranges {
		if r >= rr.Lo && r <= rr.Hi {
			return true
		}
	}
	return false
}

// ContainsByte reports whether the class matches the ASCII byte b.
// The caller guarantees b < 0x80; multi-byte characters must go through
// Contains with a decoded rune.
func (c *CharClass) ContainsByte(b byte) bool {
	in := c.ascii[b>>6]&(1<<uint(b&63)) != 0
	return in != c.negated
}

// Equal reports whether two classes denote the same character set
// representation. Used by the classifier to recognise fast-path shapes.
func (c *CharClass) Equal(o *CharClass) bool {
	if c.ascii != o.ascii || c.negated != o.negated || len(c.ranges) != len(o.ranges) {
		return false
	}
	for i, rr := range c.ranges {
		if o.ranges[i] != rr {
			return false
		}
	}
	return true
}

// foldASCII case-closes the class over ASCII letters: for every letter in
// the set, the opposite-case letter is added too. Ranges above U+007F are
// left untouched (case-insensitivity is ASCII-only).
func (c *CharClass) foldASCII() {
	for b := byte('A'); b <= 'Z'; b++ {
		if c.ascii[b>>6]&(1<<uint(b&63)) != 0 {
			lower := b + 32
			c.ascii[lower>>6] |= 1 << uint(lower&63)
		}
	}
	for b := byte('a'); b <= 'z'; b++ {
		if c.ascii[b>>6]&(1<<uint(b&63)) != 0 {
			upper := b - 32
			c.ascii[upper>>6] |= 1 << uint(upper&63)
		}
	}
}

// MatchAt decodes the character at text[pos:] and reports whether the class
// matches it, returning the byte width consumed. A continuation byte or a
// truncated sequence decodes as utf8.RuneError with width 1 and never
// matches, so spans stay on character boundaries even for negated classes.
func (c *CharClass) MatchAt(text []byte, pos int) (width int, ok bool) {
	if pos >= len(text) {
		return 0, false
	}
	b := text[pos]
	if b < utf8.RuneSelf {
		return 1, c.ContainsByte(b)
	}
	r, w := utf8.DecodeRune(text[pos:])
	if r == utf8.RuneError && w == 1 {
		return 1, false
	}
	return w, c.Contains(r)
}

// Predefined classes, shared and immutable.
var (
	digitClass = func() *CharClass {
		c := NewCharClass()
		c.AddRange('0', '9')
		return c
	}()

	wordClass = func() *CharClass {
		c := NewCharClass()
		c.AddRange('a', 'z')
		c.AddRange('A', 'Z')
		c.AddRange('0', '9')
		c.AddRune('_')
		return c
	}()

	spaceClass = func() *CharClass {
		c := NewCharClass()
		c.AddRune(' ')
		c.AddRune('\t')
		c.AddRune('\n')
		c.AddRune('\r')
		return c
	}()
)

// DigitClass returns the shared \d class. Callers must not mutate it.
func DigitClass() *CharClass { return digitClass }

// WordClass returns the shared \w class. Callers must not mutate it.
func WordClass() *CharClass { return wordClass }

// SpaceClass returns the shared \s class. Callers must not mutate it.
func SpaceClass() *CharClass { return spaceClass }

// negatedCopy returns a negated copy of c.
func negatedCopy(c *CharClass) *CharClass {
	n := &CharClass{ascii: c.ascii, negated: !c.negated}
	n.ranges = append(n.ranges, c.ranges...)
	return n
}
