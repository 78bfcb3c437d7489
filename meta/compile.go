// Package meta implements the meta-engine orchestrator.
//
// compile.go contains the classifier: AST shape recognition and strategy
// selection.
package meta

import (
	"github.com/coregx/ahocorasick"
	"github.com/coregx/rexile/backtrack"
	"github.com/coregx/rexile/nfa"
	"github.com/coregx/rexile/syntax"
)

// Compile compiles a pattern string into an executable Engine.
//
// Steps:
//  1. Parse the pattern into an AST
//  2. Classify the AST against the fast-path catalogue
//  3. Build the engines the selected strategy needs
//
// Returns a *CompileError wrapping a *syntax.ParseError if the pattern is
// malformed or uses an unsupported construct.
func Compile(pattern string) (*Engine, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// CompileWithConfig compiles a pattern with custom configuration.
func CompileWithConfig(pattern string, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	re, flags, err := syntax.Parse(pattern)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}

	e := &Engine{
		pattern: pattern,
		flags:   flags,
		ncap:    re.MaxCap(),
	}
	e.bt = backtrack.New(re, flags, config.MaxRecursionDepth)
	e.classify(re)
	return e, nil
}

// classify walks the AST and selects the strategy, building any engine the
// fast path needs. Classification is conservative: when a precondition is
// not provably satisfied the pattern falls through to the general engines.
func (e *Engine) classify(re *syntax.Regexp) {
	ci := e.flags&syntax.FlagCaseInsensitive != 0

	if re.Op == syntax.OpLiteral && re.Str != "" {
		e.lit = []byte(re.Str)
		if ci {
			e.strategy = UseLiteralFold
		} else {
			e.strategy = UseLiteral
		}
		return
	}

	// Literal-comparing fast paths below are unsafe under (?i): the
	// automaton and the direct compares see raw bytes. Case-folded
	// alternations go through the general engines instead.
	if !ci {
		if lits, ok := literalAlternation(re); ok {
			builder := ahocorasick.NewBuilder()
			for _, lit := range lits {
				builder.AddPattern([]byte(lit))
			}
			if auto, err := builder.Build(); err == nil {
				e.ac = auto
				e.strategy = UseMultiLiteral
				return
			}
		}

		if lit, atStart, atEnd, ok := anchoredLiteral(re); ok {
			e.lit = []byte(lit)
			e.anchorStart = atStart
			e.anchorEnd = atEnd
			e.strategy = UseAnchoredLiteral
			return
		}
	}

	// Run scanners stay enabled under (?i): their character sets are
	// case-closed, so folding changes nothing.
	if cls, ok := plusOfClass(re); ok {
		switch {
		case cls.Equal(syntax.DigitClass()):
			e.strategy = UseDigitRun
			return
		case cls.Equal(syntax.WordClass()):
			e.strategy = UseWordRun
			return
		case cls.Equal(syntax.SpaceClass()):
			e.strategy = UseWhitespaceRun
			return
		}
	}

	if isQuotedString(re) {
		e.strategy = UseQuotedString
		return
	}

	if isIdentifierRun(re) {
		e.strategy = UseIdentifierRun
		return
	}

	if !ci {
		if lit, kind, ok := literalWhitespaceShape(re); ok {
			// The shape check guarantees a non-empty anchor literal;
			// an empty literal here would let the scanner report
			// positions the general path never produces.
			e.lit = []byte(lit)
			e.strategy = kind
			return
		}
	}

	if !re.HasCaptures() && !re.HasLook() && re.HasMinZeroQuantifier() {
		if prog, err := nfa.Compile(re, e.flags); err == nil {
			e.pike = nfa.NewPikeVM(prog)
			e.strategy = UseNFA
			return
		}
	}

	e.strategy = UseBacktracker
}

// literalAlternation matches foo|bar|baz: every branch a non-empty plain
// literal, at least two branches.
func literalAlternation(re *syntax.Regexp) ([]string, bool) {
	if re.Op != syntax.OpAlternate {
		return nil, false
	}
	lits := make([]string, 0, len(re.Sub))
	for _, branch := range re.Sub {
		if branch.Op != syntax.OpLiteral || branch.Str == "" {
			return nil, false
		}
		lits = append(lits, branch.Str)
	}
	if len(lits) < 2 {
		return nil, false
	}
	return lits, true
}

// anchoredLiteral matches ^lit, lit$ and ^lit$ with a non-empty literal.
func anchoredLiteral(re *syntax.Regexp) (lit string, atStart, atEnd, ok bool) {
	if re.Op != syntax.OpConcat {
		return "", false, false, false
	}
	subs := re.Sub
	if len(subs) > 0 && subs[0].Op == syntax.OpAssert && subs[0].Assert == syntax.AssertBeginText {
		atStart = true
		subs = subs[1:]
	}
	if n := len(subs); n > 0 && subs[n-1].Op == syntax.OpAssert && subs[n-1].Assert == syntax.AssertEndText {
		atEnd = true
		subs = subs[:n-1]
	}
	if !atStart && !atEnd {
		return "", false, false, false
	}
	if len(subs) != 1 || subs[0].Op != syntax.OpLiteral || subs[0].Str == "" {
		return "", false, false, false
	}
	return subs[0].Str, atStart, atEnd, true
}

// plusOfClass matches a greedy one-or-more repeat of a character class.
func plusOfClass(re *syntax.Regexp) (*syntax.CharClass, bool) {
	if re.Op != syntax.OpQuantified || re.Min != 1 || re.Max != -1 || !re.Greedy {
		return nil, false
	}
	if re.Sub[0].Op != syntax.OpCharClass {
		return nil, false
	}
	return re.Sub[0].Class, true
}

// notQuoteClass is the [^"] class used by the quoted-string shapes.
var notQuoteClass = func() *syntax.CharClass {
	c := syntax.NewCharClass()
	c.AddRune('"')
	c.Negate()
	return c
}()

// identStartClass is [a-zA-Z_].
var identStartClass = func() *syntax.CharClass {
	c := syntax.NewCharClass()
	c.AddRange('a', 'z')
	c.AddRange('A', 'Z')
	c.AddRune('_')
	return c
}()

// isQuotedString matches the "[^"]+" shape.
func isQuotedString(re *syntax.Regexp) bool {
	if re.Op != syntax.OpConcat || len(re.Sub) != 3 {
		return false
	}
	open, body, closing := re.Sub[0], re.Sub[1], re.Sub[2]
	if open.Op != syntax.OpLiteral || open.Str != `"` {
		return false
	}
	if closing.Op != syntax.OpLiteral || closing.Str != `"` {
		return false
	}
	cls, ok := plusOfClass(body)
	return ok && cls.Equal(notQuoteClass)
}

// isIdentifierRun matches the [a-zA-Z_]\w* shape.
func isIdentifierRun(re *syntax.Regexp) bool {
	if re.Op != syntax.OpConcat || len(re.Sub) != 2 {
		return false
	}
	head, tail := re.Sub[0], re.Sub[1]
	if head.Op != syntax.OpCharClass || !head.Class.Equal(identStartClass) {
		return false
	}
	if tail.Op != syntax.OpQuantified || tail.Min != 0 || tail.Max != -1 || !tail.Greedy {
		return false
	}
	body := tail.Sub[0]
	return body.Op == syntax.OpCharClass && body.Class.Equal(syntax.WordClass())
}

// literalWhitespaceShape matches lit\s+, lit\s+\d+, lit\s+\w+ and
// lit\s+"[^"]+" with a non-empty leading literal.
func literalWhitespaceShape(re *syntax.Regexp) (string, Strategy, bool) {
	if re.Op != syntax.OpConcat {
		return "", 0, false
	}
	subs := re.Sub
	if len(subs) < 2 || subs[0].Op != syntax.OpLiteral || subs[0].Str == "" {
		return "", 0, false
	}
	if cls, ok := plusOfClass(subs[1]); !ok || !cls.Equal(syntax.SpaceClass()) {
		return "", 0, false
	}
	lit := subs[0].Str

	switch len(subs) {
	case 2:
		return lit, UseLiteralWhitespace, true
	case 3:
		cls, ok := plusOfClass(subs[2])
		if !ok {
			return "", 0, false
		}
		switch {
		case cls.Equal(syntax.DigitClass()):
			return lit, UseLiteralWhitespaceDigits, true
		case cls.Equal(syntax.WordClass()):
			return lit, UseLiteralWhitespaceWord, true
		}
	case 5:
		quoted := &syntax.Regexp{Op: syntax.OpConcat, Sub: subs[2:]}
		if isQuotedString(quoted) {
			return lit, UseLiteralWhitespaceQuoted, true
		}
	}
	return "", 0, false
}
