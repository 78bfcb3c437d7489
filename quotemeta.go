package rexile

// QuoteMeta returns a string that escapes all pattern metacharacters in s;
// the result is a pattern matching the literal text.
//
// Example:
//
//	escaped := rexile.QuoteMeta("hello.world")
//	// escaped = "hello\\.world"
//	p := rexile.MustCompile(escaped)
//	p.MatchString("hello.world") // true
func QuoteMeta(s string) string {
	const special = `\.+*?()|[]{}^$`

	n := 0
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i], special) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	buf := make([]byte, len(s)+n)
	j := 0
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i], special) {
			buf[j] = '\\'
			j++
		}
		buf[j] = s[i]
		j++
	}
	return string(buf)
}

func isSpecial(c byte, special string) bool {
	for i := 0; i < len(special); i++ {
		if c == special[i] {
			return true
		}
	}
	return false
}
