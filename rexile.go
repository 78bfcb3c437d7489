// Package rexile provides a pattern-matching library with fast-path
// compilation.
//
// rexile compiles a textual regular-expression-like pattern into an
// immutable Pattern and evaluates it against input text. Compilation
// classifies the pattern against a catalogue of specialized shapes
// (literals, multi-literal alternation, digit/word/whitespace runs, quoted
// strings, identifier runs, anchored literals) and routes matching to a
// specialized scanner when the shape fits, to an NFA simulation when linear
// time is guaranteed to suffice, and to a general backtracker with capture
// support otherwise.
//
// Basic usage:
//
//	// Compile a pattern
//	p, err := rexile.Compile(`\d+`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Find the first match
//	loc := p.FindIndex([]byte("Order #12345"))
//	fmt.Println(loc) // [7 12]
//
//	// Check for a match
//	if p.Match([]byte("Order #12345")) {
//	    fmt.Println("matched!")
//	}
//
// Captures:
//
//	p := rexile.MustCompile(`(\w+)=(\d+)`)
//	caps := p.Captures([]byte("retries=3"))
//	fmt.Println(caps.GetString(1), caps.GetString(2)) // retries 3
//
// Cached package-level shortcuts compile once per process:
//
//	ok, err := rexile.IsMatch(`\d+`, []byte("order 42"))
//
// Syntax is the rexile subset: literals, . (DOTALL via (?s)), \d \w \s and
// negations, \b \B, character classes, anchors, greedy and lazy
// quantifiers, groups, alternation, lookaround, and a leading (?i) flag.
// Backreferences, named captures, and Unicode property classes are not
// supported and are rejected at compile time.
//
// All returned positions are byte offsets that fall on UTF-8 character
// boundaries. A Pattern is immutable and safe for concurrent use.
package rexile

import (
	"github.com/coregx/rexile/meta"
)

// Pattern is a compiled pattern.
//
// A Pattern is immutable after compilation and safe to share across
// goroutines.
type Pattern struct {
	engine  *meta.Engine
	pattern string
}

// Compile compiles a pattern string.
//
// Returns an error (wrapping *syntax.ParseError with kind and byte offset)
// if the pattern is malformed or uses an unsupported construct.
func Compile(pattern string) (*Pattern, error) {
	engine, err := meta.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &Pattern{engine: engine, pattern: pattern}, nil
}

// CompileWithConfig compiles a pattern with custom engine configuration.
func CompileWithConfig(pattern string, config meta.Config) (*Pattern, error) {
	engine, err := meta.CompileWithConfig(pattern, config)
	if err != nil {
		return nil, err
	}
	return &Pattern{engine: engine, pattern: pattern}, nil
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() meta.Config {
	return meta.DefaultConfig()
}

// MustCompile compiles a pattern and panics if it fails.
// Useful for patterns known to be valid at program start.
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic("rexile: Compile(`" + pattern + "`): " + err.Error())
	}
	return p
}

// String returns the source pattern string.
func (p *Pattern) String() string {
	return p.pattern
}

// NumSubexp returns the number of capturing groups in the pattern.
func (p *Pattern) NumSubexp() int {
	return p.engine.NumCap()
}

// Match reports whether the pattern matches anywhere in b.
func (p *Pattern) Match(b []byte) bool {
	return p.engine.IsMatch(b)
}

// MatchString reports whether the pattern matches anywhere in s.
func (p *Pattern) MatchString(s string) bool {
	return p.engine.IsMatch([]byte(s))
}

// FindIndex returns [start, end] of the leftmost match in b,
// or nil if there is no match.
func (p *Pattern) FindIndex(b []byte) []int {
	start, end, ok := p.engine.Find(b)
	if !ok {
		return nil
	}
	return []int{start, end}
}

// FindStringIndex returns [start, end] of the leftmost match in s,
// or nil if there is no match.
func (p *Pattern) FindStringIndex(s string) []int {
	return p.FindIndex([]byte(s))
}

// Find returns the text of the leftmost match in b, or nil.
// The returned slice aliases b.
func (p *Pattern) Find(b []byte) []byte {
	start, end, ok := p.engine.Find(b)
	if !ok {
		return nil
	}
	return b[start:end]
}

// FindString returns the text of the leftmost match in s, or "".
// An empty return also occurs for an empty match; use FindStringIndex to
// tell the cases apart.
func (p *Pattern) FindString(s string) string {
	start, end, ok := p.engine.Find([]byte(s))
	if !ok {
		return ""
	}
	return s[start:end]
}

// FindAllIndex returns the spans of all non-overlapping matches in b, in
// strictly increasing start order. Limit n restricts the count; n <= 0
// means no limit. Returns nil if there is no match.
func (p *Pattern) FindAllIndex(b []byte, n int) [][]int {
	spans := p.engine.FindAllIndices(b, n)
	if len(spans) == 0 {
		return nil
	}
	out := make([][]int, len(spans))
	for i, sp := range spans {
		out[i] = []int{sp[0], sp[1]}
	}
	return out
}

// FindAllStringIndex is FindAllIndex for a string haystack.
func (p *Pattern) FindAllStringIndex(s string, n int) [][]int {
	return p.FindAllIndex([]byte(s), n)
}

// Count returns the number of non-overlapping matches in b.
// Limit n restricts the count; n <= 0 means no limit.
func (p *Pattern) Count(b []byte, n int) int {
	return p.engine.Count(b, n)
}

// FindSubmatchIndex returns the slot vector of the leftmost match:
// positions 0,1 hold the whole match, positions 2i,2i+1 hold group i,
// -1 for groups in unmatched alternation branches. Returns nil if there
// is no match.
func (p *Pattern) FindSubmatchIndex(b []byte) []int {
	return p.engine.FindSubmatchAt(b, 0)
}

// Captures returns the leftmost match with capture group spans, or nil if
// there is no match. The result borrows b and is valid while b is.
func (p *Pattern) Captures(b []byte) *Captures {
	slots := p.engine.FindSubmatchAt(b, 0)
	if slots == nil {
		return nil
	}
	return &Captures{text: b, slots: slots, ncap: p.engine.NumCap()}
}
