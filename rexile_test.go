package rexile

import (
	"reflect"
	"testing"
)

// TestFindDigitRuns covers digit extraction, the most common fast path.
func TestFindDigitRuns(t *testing.T) {
	p := MustCompile(`\d+`)
	text := "Order #12345 $67.89"

	loc := p.FindStringIndex(text)
	if !reflect.DeepEqual(loc, []int{7, 12}) {
		t.Errorf("FindStringIndex = %v, want [7 12]", loc)
	}

	all := p.FindAllStringIndex(text, -1)
	want := [][]int{{7, 12}, {14, 16}, {17, 19}}
	if !reflect.DeepEqual(all, want) {
		t.Errorf("FindAllStringIndex = %v, want %v", all, want)
	}
}

func TestLiteralAlternation(t *testing.T) {
	p := MustCompile(`foo|bar|baz`)
	text := "the bar is open"

	if !p.MatchString(text) {
		t.Fatalf("MatchString(%q) = false, want true", text)
	}
	loc := p.FindStringIndex(text)
	if !reflect.DeepEqual(loc, []int{4, 7}) {
		t.Errorf("FindStringIndex = %v, want [4 7]", loc)
	}
}

func TestAnchoredLiteral(t *testing.T) {
	p := MustCompile(`^hello$`)

	if loc := p.FindStringIndex("hello"); !reflect.DeepEqual(loc, []int{0, 5}) {
		t.Errorf("FindStringIndex(hello) = %v, want [0 5]", loc)
	}
	if p.MatchString("hello ") {
		t.Error(`MatchString("hello ") = true, want false`)
	}
	if p.MatchString("say hello") {
		t.Error(`MatchString("say hello") = true, want false`)
	}
}

// TestRuleCaptures exercises the grammar-rule pattern: alternation between a
// quoted name and a bare identifier, each in its own capture group.
func TestRuleCaptures(t *testing.T) {
	p := MustCompile(`rule\s+(?:"([^"]+)"|([a-zA-Z_]\w*))`)
	text := `rule "MyRule" { when salience 10 }`

	caps := p.Captures([]byte(text))
	if caps == nil {
		t.Fatal("Captures returned nil, want match")
	}
	if start, end, ok := caps.Span(0); !ok || start != 0 || end != 13 {
		t.Errorf("Span(0) = (%d,%d,%v), want (0,13,true)", start, end, ok)
	}
	if start, end, ok := caps.Span(1); !ok || start != 6 || end != 12 {
		t.Errorf("Span(1) = (%d,%d,%v), want (6,12,true)", start, end, ok)
	}
	if _, _, ok := caps.Span(2); ok {
		t.Error("Span(2) is set, want unset (unmatched branch)")
	}
	if got := caps.GetString(1); got != "MyRule" {
		t.Errorf("GetString(1) = %q, want %q", got, "MyRule")
	}

	// The identifier branch sets group 2 instead.
	caps = p.Captures([]byte(`rule CheckAge { }`))
	if caps == nil {
		t.Fatal("Captures returned nil for identifier rule")
	}
	if _, _, ok := caps.Span(1); ok {
		t.Error("Span(1) is set, want unset")
	}
	if got := caps.GetString(2); got != "CheckAge" {
		t.Errorf("GetString(2) = %q, want %q", got, "CheckAge")
	}
}

// TestGreedyBacktracksOffDelimiter checks that .+ gives back the final
// brace so the closing literal can match.
func TestGreedyBacktracksOffDelimiter(t *testing.T) {
	p := MustCompile(`\{(.+)\}`)
	caps := p.Captures([]byte("{ abc }"))
	if caps == nil {
		t.Fatal("Captures returned nil, want match")
	}
	if start, end, _ := caps.Span(0); start != 0 || end != 7 {
		t.Errorf("Span(0) = (%d,%d), want (0,7)", start, end)
	}
	if start, end, _ := caps.Span(1); start != 1 || end != 6 {
		t.Errorf("Span(1) = (%d,%d), want (1,6)", start, end)
	}
}

func TestLookahead(t *testing.T) {
	p := MustCompile(`foo(?=bar)`)

	if loc := p.FindStringIndex("foobar"); !reflect.DeepEqual(loc, []int{0, 3}) {
		t.Errorf("FindStringIndex(foobar) = %v, want [0 3]", loc)
	}
	if p.MatchString("foobaz") {
		t.Error("MatchString(foobaz) = true, want false")
	}
}

func TestCaseInsensitiveCaptures(t *testing.T) {
	p := MustCompile(`(?i)(GET|POST)`)
	caps := p.Captures([]byte("Get /x"))
	if caps == nil {
		t.Fatal("Captures returned nil, want match")
	}
	if start, end, _ := caps.Span(0); start != 0 || end != 3 {
		t.Errorf("Span(0) = (%d,%d), want (0,3)", start, end)
	}
	if got := caps.GetString(1); got != "Get" {
		t.Errorf("GetString(1) = %q, want %q (original casing)", got, "Get")
	}
}

func TestWordBoundaryBoundedRepeat(t *testing.T) {
	p := MustCompile(`\b\d{4}\b`)
	loc := p.FindStringIndex("Year: 2024!")
	if !reflect.DeepEqual(loc, []int{6, 10}) {
		t.Errorf("FindStringIndex = %v, want [6 10]", loc)
	}
	if p.MatchString("id 12345 end") {
		t.Error("matched inside a longer digit run, want no match")
	}
}

func TestZeroWidthQuantifierPrefix(t *testing.T) {
	p := MustCompile(`a*b`)
	loc := p.FindStringIndex("b")
	if !reflect.DeepEqual(loc, []int{0, 1}) {
		t.Errorf("FindStringIndex(b) = %v, want [0 1]", loc)
	}
	loc = p.FindStringIndex("xaaab")
	if !reflect.DeepEqual(loc, []int{1, 5}) {
		t.Errorf("FindStringIndex(xaaab) = %v, want [1 5]", loc)
	}
}

// TestWhitespaceRunSkipsEmoji guards the multi-byte regression: scanning
// for ASCII whitespace must step over emoji bytes without panicking and
// without reporting spans inside a character.
func TestWhitespaceRunSkipsEmoji(t *testing.T) {
	p := MustCompile(`\s+`)
	text := "🙂 x"

	loc := p.FindStringIndex(text)
	if !reflect.DeepEqual(loc, []int{4, 5}) {
		t.Errorf("FindStringIndex = %v, want [4 5]", loc)
	}
}

func TestMatchEqualsFind(t *testing.T) {
	patterns := []string{
		`\d+`, `foo|bar`, `^x`, `x$`, `a*b`, `(\w+)=(\d+)`, `\bword\b`,
		`"[^"]+"`, `[a-zA-Z_]\w*`, `colou?r`,
	}
	inputs := []string{
		"", "x", "foo", "a=1 b=2", `say "hi"`, "word", "123", "colour color",
		"🙂 mixed ascii 42", "no digits here",
	}
	for _, pat := range patterns {
		p := MustCompile(pat)
		for _, in := range inputs {
			gotMatch := p.MatchString(in)
			gotFind := p.FindStringIndex(in) != nil
			if gotMatch != gotFind {
				t.Errorf("pattern %q input %q: Match=%v but Find=%v", pat, in, gotMatch, gotFind)
			}
		}
	}
}

// TestCapturesSpanZeroEqualsFind checks invariant: the whole-match span of
// Captures equals the span Find reports.
func TestCapturesSpanZeroEqualsFind(t *testing.T) {
	patterns := []string{`(\w+)@(\w+)`, `\d+`, `a(b|c)d`, `x(y)?z`}
	inputs := []string{"mail user@host now", "abd acd", "xz xyz", "42"}
	for _, pat := range patterns {
		p := MustCompile(pat)
		for _, in := range inputs {
			loc := p.FindStringIndex(in)
			caps := p.Captures([]byte(in))
			if (loc == nil) != (caps == nil) {
				t.Fatalf("pattern %q input %q: Find=%v Captures=%v", pat, in, loc, caps)
			}
			if loc == nil {
				continue
			}
			start, end, ok := caps.Span(0)
			if !ok || start != loc[0] || end != loc[1] {
				t.Errorf("pattern %q input %q: Span(0)=(%d,%d,%v), Find=%v",
					pat, in, start, end, ok, loc)
			}
		}
	}
}

// TestFindIterMatchesFindAll checks the lazy iterator yields exactly the
// FindAll sequence.
func TestFindIterMatchesFindAll(t *testing.T) {
	patterns := []string{`\d+`, `\w+`, `a*`, `foo|bar`, `\s+`}
	inputs := []string{"foo 12 bar 345", "", "aaa b aa", "🙂 x 🙂 y", "one"}
	for _, pat := range patterns {
		p := MustCompile(pat)
		for _, in := range inputs {
			all := p.FindAllStringIndex(in, -1)

			var iterated [][]int
			it := p.FindIter([]byte(in))
			for {
				start, end, ok := it.Next()
				if !ok {
					break
				}
				iterated = append(iterated, []int{start, end})
			}
			if !reflect.DeepEqual(all, iterated) {
				t.Errorf("pattern %q input %q: FindAll=%v FindIter=%v", pat, in, all, iterated)
			}
			if got := p.Count([]byte(in), -1); got != len(all) {
				t.Errorf("pattern %q input %q: Count=%d, want %d", pat, in, got, len(all))
			}
		}
	}
}

// TestFindAllOrdering checks spans are strictly increasing, non-overlapping
// and inside the text.
func TestFindAllOrdering(t *testing.T) {
	patterns := []string{`\d+`, `a*`, `\b`, `x?`}
	inputs := []string{"a1b22c333", "aaabaaa", "hi you", "xxyxx"}
	for _, pat := range patterns {
		p := MustCompile(pat)
		for _, in := range inputs {
			prevEnd := -1
			prevStart := -1
			for _, loc := range p.FindAllStringIndex(in, -1) {
				if loc[0] > loc[1] || loc[1] > len(in) {
					t.Fatalf("pattern %q input %q: bad span %v", pat, in, loc)
				}
				if loc[0] <= prevStart || loc[0] < prevEnd {
					t.Fatalf("pattern %q input %q: span %v overlaps or regresses (prev start %d end %d)",
						pat, in, loc, prevStart, prevEnd)
				}
				prevStart, prevEnd = loc[0], loc[1]
			}
		}
	}
}

func TestCaptureIter(t *testing.T) {
	p := MustCompile(`(\w+)=(\d+)`)
	text := []byte("a=1 bb=22 ccc=333")

	var keys, vals []string
	it := p.CaptureIter(text)
	for {
		caps := it.Next()
		if caps == nil {
			break
		}
		keys = append(keys, caps.GetString(1))
		vals = append(vals, caps.GetString(2))
	}
	if !reflect.DeepEqual(keys, []string{"a", "bb", "ccc"}) {
		t.Errorf("keys = %v", keys)
	}
	if !reflect.DeepEqual(vals, []string{"1", "22", "333"}) {
		t.Errorf("vals = %v", vals)
	}
}

func TestLazyQuantifier(t *testing.T) {
	tests := []struct {
		pattern, input string
		want           []int
	}{
		{`"[^"]*?"`, `"a" "b"`, []int{0, 3}},
		{`a+?`, "aaa", []int{0, 1}},
		{`<.+?>`, "<a><b>", []int{0, 3}},
		{`a*?b`, "aab", []int{0, 3}},
	}
	for _, tc := range tests {
		t.Run(tc.pattern, func(t *testing.T) {
			p := MustCompile(tc.pattern)
			if loc := p.FindStringIndex(tc.input); !reflect.DeepEqual(loc, tc.want) {
				t.Errorf("FindStringIndex(%q) = %v, want %v", tc.input, loc, tc.want)
			}
		})
	}
}

func TestBoundedQuantifiers(t *testing.T) {
	tests := []struct {
		pattern, input string
		want           []int
	}{
		{`a{3}`, "aaaa", []int{0, 3}},
		{`a{3}`, "aa", nil},
		{`a{1,3}`, "aaaa", []int{0, 3}},
		{`a{1,3}`, "a", []int{0, 1}},
		{`a{2,}`, "aaaa", []int{0, 4}},
		{`a{2,}`, "a", nil},
		{`(ab){2}`, "ababab", []int{0, 4}},
		{`\d{2,3}`, "1 22 4444", []int{2, 4}},
	}
	for _, tc := range tests {
		t.Run(tc.pattern+"/"+tc.input, func(t *testing.T) {
			p := MustCompile(tc.pattern)
			loc := p.FindStringIndex(tc.input)
			if !reflect.DeepEqual(loc, tc.want) {
				t.Errorf("FindStringIndex = %v, want %v", loc, tc.want)
			}
		})
	}
}

func TestUTF8Boundaries(t *testing.T) {
	patterns := []string{`\s+`, `\d+`, `.`, `[^a]+`, `\w+`}
	inputs := []string{"🙂 x", "héllo 42", "日本語テスト", "a🙂b"}
	for _, pat := range patterns {
		p := MustCompile(pat)
		for _, in := range inputs {
			for _, loc := range p.FindAllStringIndex(in, -1) {
				for _, off := range loc {
					if off < len(in) && in[off]&0xC0 == 0x80 {
						t.Errorf("pattern %q input %q: offset %d inside a UTF-8 sequence (span %v)",
							pat, in, off, loc)
					}
				}
			}
		}
	}
}

func TestEmptyInput(t *testing.T) {
	if MustCompile(`a+`).MatchString("") {
		t.Error("a+ matched empty input")
	}
	if loc := MustCompile(`a*`).FindStringIndex(""); !reflect.DeepEqual(loc, []int{0, 0}) {
		t.Errorf("a* on empty input = %v, want [0 0]", loc)
	}
	if loc := MustCompile(`^$`).FindStringIndex(""); !reflect.DeepEqual(loc, []int{0, 0}) {
		t.Errorf("^$ on empty input = %v, want [0 0]", loc)
	}
}

func TestQuoteMeta(t *testing.T) {
	escaped := QuoteMeta("1+1=2?")
	p := MustCompile(escaped)
	if !p.MatchString("ask 1+1=2? now") {
		t.Errorf("QuoteMeta pattern %q did not match its literal text", escaped)
	}
	if p.MatchString("111=2") {
		t.Error("QuoteMeta pattern matched non-literal text")
	}
}

func TestNumSubexp(t *testing.T) {
	tests := []struct {
		pattern string
		want    int
	}{
		{`abc`, 0},
		{`(a)(b)`, 2},
		{`(a(b))`, 2},
		{`(?:a)(b)`, 1},
		{`(a)|(b)`, 2},
	}
	for _, tc := range tests {
		if got := MustCompile(tc.pattern).NumSubexp(); got != tc.want {
			t.Errorf("NumSubexp(%q) = %d, want %d", tc.pattern, got, tc.want)
		}
	}
}

func TestCompileErrors(t *testing.T) {
	bad := []string{
		`(abc`, `abc)`, `[abc`, `a{,}`, `a{3,2}`, `\q`, `abc\`, `[]`, `[z-a]`, `\1`,
	}
	for _, pat := range bad {
		if _, err := Compile(pat); err == nil {
			t.Errorf("Compile(%q) succeeded, want error", pat)
		}
	}
}
