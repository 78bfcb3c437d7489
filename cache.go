package rexile

import "sync"

// The process-wide pattern cache: pattern string -> compiled Pattern,
// populated lazily, never evicted. Each entry compiles exactly once under
// its own sync.Once, so compiling one pattern never blocks lookups of
// unrelated patterns. Compile errors are not cached: the entry is removed
// so callers that test-compile see the error on every attempt.
var cache sync.Map // map[string]*cacheEntry

type cacheEntry struct {
	once sync.Once
	p    *Pattern
	err  error
}

// Cached returns the compiled Pattern for the given pattern string,
// compiling and caching it on first use. Identical pattern strings return
// the identical *Pattern.
func Cached(pattern string) (*Pattern, error) {
	v, _ := cache.LoadOrStore(pattern, &cacheEntry{})
	entry := v.(*cacheEntry)
	entry.once.Do(func() {
		entry.p, entry.err = Compile(pattern)
	})
	if entry.err != nil {
		cache.Delete(pattern)
		return nil, entry.err
	}
	return entry.p, nil
}

// IsMatch reports whether pattern matches anywhere in text, compiling
// through the process-wide cache.
func IsMatch(pattern string, text []byte) (bool, error) {
	p, err := Cached(pattern)
	if err != nil {
		return false, err
	}
	return p.Match(text), nil
}

// Find returns [start, end] of the leftmost match of pattern in text
// (nil if no match), compiling through the process-wide cache.
func Find(pattern string, text []byte) ([]int, error) {
	p, err := Cached(pattern)
	if err != nil {
		return nil, err
	}
	return p.FindIndex(text), nil
}
