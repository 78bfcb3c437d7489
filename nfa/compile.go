package nfa

import (
	"github.com/coregx/rexile/internal/conv"
	"github.com/coregx/rexile/syntax"
)

// maxInsts bounds the compiled program size. Bounded repeats are expanded
// by copying their body, so nested {n,m} counts multiply; past this budget
// compilation reports ErrTooComplex and the engine uses the backtracker.
const maxInsts = 50000

// Compile builds a Thompson NFA for the parsed pattern.
//
// Patterns containing lookaround are rejected with errUnsupported; capture
// groups compile as plain groups and record no spans. Bounded-repeat
// expansion past the instruction budget is rejected with ErrTooComplex.
func Compile(re *syntax.Regexp, flags syntax.Flags) (*Program, error) {
	c := &compiler{flags: flags}
	f, err := c.compile(re)
	if err != nil {
		return nil, err
	}
	end := c.emit(Inst{Op: opMatch})
	c.patch(f.out, end)

	return &Program{
		Insts: c.insts,
		Start: f.start,
		Flags: flags,
	}, nil
}

// A hole is a forward reference awaiting its target: the instruction index
// shifted left one, with bit 0 selecting the X (0) or Y (1) field.
type hole = uint32

type frag struct {
	start uint32
	out   []hole
}

type compiler struct {
	insts []Inst
	flags syntax.Flags
}

func (c *compiler) emit(in Inst) uint32 {
	pc := conv.IntToUint32(len(c.insts))
	c.insts = append(c.insts, in)
	return pc
}

func (c *compiler) patch(holes []hole, target uint32) {
	for _, h := range holes {
		if h&1 == 0 {
			c.insts[h>>1].X = target
		} else {
			c.insts[h>>1].Y = target
		}
	}
}

func holeX(pc uint32) hole { return pc << 1 }
func holeY(pc uint32) hole { return pc<<1 | 1 }

func (c *compiler) compile(re *syntax.Regexp) (frag, error) {
	if len(c.insts) > maxInsts {
		return frag{}, ErrTooComplex
	}

	switch re.Op {
	case syntax.OpEmpty:
		pc := c.emit(Inst{Op: opJmp})
		return frag{start: pc, out: []hole{holeX(pc)}}, nil

	case syntax.OpLiteral:
		var f frag
		first := true
		var last uint32
		for _, r := range re.Str {
			pc := c.emit(Inst{Op: opChar, Lit: r})
			if first {
				f.start = pc
				first = false
			} else {
				c.insts[last].X = pc
			}
			last = pc
		}
		if first {
			// empty literal behaves like OpEmpty
			pc := c.emit(Inst{Op: opJmp})
			return frag{start: pc, out: []hole{holeX(pc)}}, nil
		}
		f.out = []hole{holeX(last)}
		return f, nil

	case syntax.OpCharClass:
		pc := c.emit(Inst{Op: opChar, Class: re.Class})
		return frag{start: pc, out: []hole{holeX(pc)}}, nil

	case syntax.OpAnyChar:
		pc := c.emit(Inst{Op: opChar, Any: true})
		return frag{start: pc, out: []hole{holeX(pc)}}, nil

	case syntax.OpAssert:
		pc := c.emit(Inst{Op: opAssert, Assert: re.Assert})
		return frag{start: pc, out: []hole{holeX(pc)}}, nil

	case syntax.OpConcat:
		var f frag
		for i, sub := range re.Sub {
			sf, err := c.compile(sub)
			if err != nil {
				return frag{}, err
			}
			if i == 0 {
				f = sf
				continue
			}
			c.patch(f.out, sf.start)
			f.out = sf.out
		}
		return f, nil

	case syntax.OpAlternate:
		var f frag
		var lastSplit uint32
		for i, sub := range re.Sub {
			if i < len(re.Sub)-1 {
				pc := c.emit(Inst{Op: opSplit})
				if i == 0 {
					f.start = pc
				} else {
					c.insts[lastSplit].Y = pc
				}
				sf, err := c.compile(sub)
				if err != nil {
					return frag{}, err
				}
				c.insts[pc].X = sf.start
				f.out = append(f.out, sf.out...)
				lastSplit = pc
				continue
			}
			sf, err := c.compile(sub)
			if err != nil {
				return frag{}, err
			}
			if i == 0 {
				f.start = sf.start
			} else {
				c.insts[lastSplit].Y = sf.start
			}
			f.out = append(f.out, sf.out...)
		}
		return f, nil

	case syntax.OpCapture:
		// The NFA path is capture-blind; routing keeps capture-bearing
		// patterns on the backtracker, so a group here is transparent.
		return c.compile(re.Sub[0])

	case syntax.OpQuantified:
		return c.compileQuantified(re)

	case syntax.OpLook:
		return frag{}, errUnsupported
	}

	return frag{}, errUnsupported
}

func (c *compiler) compileQuantified(re *syntax.Regexp) (frag, error) {
	body := re.Sub[0]

	if re.Max == 0 {
		// {0}: matches the empty string, body never runs.
		pc := c.emit(Inst{Op: opJmp})
		return frag{start: pc, out: []hole{holeX(pc)}}, nil
	}

	switch {
	case re.Min == 0 && re.Max < 0:
		return c.compileStar(body, re.Greedy)
	case re.Min == 1 && re.Max < 0:
		return c.compilePlus(body, re.Greedy)
	case re.Min == 0 && re.Max == 1:
		return c.compileQuest(body, re.Greedy)
	}

	// {n,m}: n required copies, then {0,m-n} optional or a trailing star.
	var f frag
	have := false
	for i := 0; i < re.Min; i++ {
		sf, err := c.compile(body)
		if err != nil {
			return frag{}, err
		}
		if !have {
			f = sf
			have = true
			continue
		}
		c.patch(f.out, sf.start)
		f.out = sf.out
	}

	var tail frag
	var err error
	switch {
	case re.Max < 0:
		tail, err = c.compileStar(body, re.Greedy)
	case re.Max > re.Min:
		tail, err = c.compileQuestChain(body, re.Max-re.Min, re.Greedy)
	default: // exact {n}
		return f, nil
	}
	if err != nil {
		return frag{}, err
	}
	if !have {
		return tail, nil
	}
	c.patch(f.out, tail.start)
	f.out = tail.out
	return f, nil
}

func (c *compiler) compileStar(body *syntax.Regexp, greedy bool) (frag, error) {
	pc := c.emit(Inst{Op: opSplit})
	bf, err := c.compile(body)
	if err != nil {
		return frag{}, err
	}
	c.patch(bf.out, pc)
	var out hole
	if greedy {
		c.insts[pc].X = bf.start
		out = holeY(pc)
	} else {
		c.insts[pc].Y = bf.start
		out = holeX(pc)
	}
	return frag{start: pc, out: []hole{out}}, nil
}

func (c *compiler) compilePlus(body *syntax.Regexp, greedy bool) (frag, error) {
	bf, err := c.compile(body)
	if err != nil {
		return frag{}, err
	}
	pc := c.emit(Inst{Op: opSplit})
	c.patch(bf.out, pc)
	var out hole
	if greedy {
		c.insts[pc].X = bf.start
		out = holeY(pc)
	} else {
		c.insts[pc].Y = bf.start
		out = holeX(pc)
	}
	return frag{start: bf.start, out: []hole{out}}, nil
}

func (c *compiler) compileQuest(body *syntax.Regexp, greedy bool) (frag, error) {
	pc := c.emit(Inst{Op: opSplit})
	bf, err := c.compile(body)
	if err != nil {
		return frag{}, err
	}
	var out hole
	if greedy {
		c.insts[pc].X = bf.start
		out = holeY(pc)
	} else {
		c.insts[pc].Y = bf.start
		out = holeX(pc)
	}
	return frag{start: pc, out: append(bf.out, out)}, nil
}

// compileQuestChain emits count optional copies of body, nested so that
// declining the first copy skips them all.
func (c *compiler) compileQuestChain(body *syntax.Regexp, count int, greedy bool) (frag, error) {
	if count == 0 {
		pc := c.emit(Inst{Op: opJmp})
		return frag{start: pc, out: []hole{holeX(pc)}}, nil
	}

	pc := c.emit(Inst{Op: opSplit})
	bf, err := c.compile(body)
	if err != nil {
		return frag{}, err
	}
	rest, err := c.compileQuestChain(body, count-1, greedy)
	if err != nil {
		return frag{}, err
	}
	c.patch(bf.out, rest.start)

	var out hole
	if greedy {
		c.insts[pc].X = bf.start
		out = holeY(pc)
	} else {
		c.insts[pc].Y = bf.start
		out = holeX(pc)
	}
	return frag{start: pc, out: append(rest.out, out)}, nil
}
