// Package nfa provides a Thompson NFA and a PikeVM simulation for patterns
// without captures or lookaround.
//
// The classifier routes patterns containing min=0 quantifiers here: the
// simulation runs in time linear in the input regardless of pattern shape,
// so `(a|aa)*` style inputs cannot trigger exponential backtracking. Thread
// priority order encodes greedy/lazy preference and branch order, making the
// reported spans identical to the backtracker's leftmost-first results.
package nfa

import (
	"errors"

	"github.com/coregx/rexile/syntax"
)

// ErrTooComplex is returned when Thompson expansion of bounded repeats
// exceeds the instruction budget. The caller falls back to the backtracker.
var ErrTooComplex = errors.New("nfa: pattern too complex")

// errUnsupported marks AST shapes the NFA path does not handle
// (lookaround). Routing normally keeps them away from here.
var errUnsupported = errors.New("nfa: unsupported pattern shape")

// OpCode is the instruction tag.
type OpCode uint8

const (
	// opChar consumes one character matched by the instruction.
	opChar OpCode = iota

	// opSplit forks execution; X is the preferred target.
	opSplit

	// opJmp continues at X.
	opJmp

	// opAssert continues at X if the zero-width assertion holds.
	opAssert

	// opMatch reports a match.
	opMatch
)

// Inst is a single NFA instruction.
type Inst struct {
	Op     OpCode
	X, Y   uint32            // successor PCs
	Lit    rune              // opChar: literal rune when Class is nil and !Any
	Class  *syntax.CharClass // opChar: class to test
	Any    bool              // opChar: dot
	Assert syntax.AssertKind // opAssert
}

// Program is an immutable compiled NFA.
type Program struct {
	Insts []Inst
	Start uint32
	Flags syntax.Flags
}

// matchChar reports whether the consuming instruction matches rune r.
func (p *Program) matchChar(in *Inst, r rune) bool {
	switch {
	case in.Any:
		if r == '\n' && p.Flags&syntax.FlagDotAll == 0 {
			return false
		}
		return true
	case in.Class != nil:
		return in.Class.Contains(r)
	default:
		if p.Flags&syntax.FlagCaseInsensitive != 0 && r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		return r == in.Lit
	}
}
