// Package intern deduplicates the flag names captured by the resolver, so a
// session that sees "--verbose" many times keeps one copy of "verbose".
package intern

// StringInterner maps each distinct string to one canonical copy.
// Not goroutine-safe; every session owns its own interner.
type StringInterner struct {
	strings map[string]string
	hits    int
}

// NewStringInterner creates a string interner with optional pre-allocated capacity
func NewStringInterner(capacity int) *StringInterner {
	if capacity <= 0 {
		capacity = 64
	}
	return &StringInterner{
		strings: make(map[string]string, capacity),
	}
}

// Intern returns the canonical copy of s, storing s if it is new.
func (si *StringInterner) Intern(s string) string {
	if interned, exists := si.strings[s]; exists {
		si.hits++
		return interned
	}
	si.strings[s] = s
	return s
}

// InternByte interns a one-byte name, as produced by "-v". The byte is kept
// as is, so a byte above 0x7f is not re-encoded as UTF-8.
func (si *StringInterner) InternByte(b byte) string {
	switch {
	case b >= 'a' && b <= 'z':
		return singleCharStrings[b-'a']
	case b >= 'A' && b <= 'Z':
		return singleCharStrings[26+b-'A']
	case b >= '0' && b <= '9':
		return singleCharStrings[52+b-'0']
	}
	return si.Intern(string([]byte{b}))
}

// PreIntern seeds the interner with names expected to recur.
func (si *StringInterner) PreIntern(names []string) {
	for _, s := range names {
		si.strings[s] = s
	}
}

// Stats returns the number of distinct strings and how many lookups were
// served from an existing copy.
func (si *StringInterner) Stats() (distinct, hits int) {
	return len(si.strings), si.hits
}

// Clear removes all interned strings.
func (si *StringInterner) Clear() {
	clear(si.strings)
	si.hits = 0
}

// a-z (0-25), A-Z (26-51), 0-9 (52-61)
var singleCharStrings = [62]string{
	"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m",
	"n", "o", "p", "q", "r", "s", "t", "u", "v", "w", "x", "y", "z",
	"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M",
	"N", "O", "P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z",
	"0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
}

// CommonFlagNames contains frequently used flag names for pre-interning
var CommonFlagNames = []string{
	"help", "h", "version", "v", "verbose", "quiet", "q",
	"force", "f", "debug", "d", "dry-run", "n", "output", "o",
}
