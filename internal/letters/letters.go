package letters

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Alphabet is the ordered symbol table used to label answer options and to
// encode choice answers. Swapping the table changes labels only, never the
// shuffle or scoring algorithms.
type Alphabet struct {
	symbols []rune
	index   map[rune]int
}

// Latin is the default table. Nine symbols, one per bank option column;
// longer tables would make ordinary short words look like letter sets.
var Latin = MustNew("ABCDEFGHI")

// Ukrainian skips Ґ and Є, which are too easily misread as Г and Е on
// printed papers and in hand-copied answers.
var Ukrainian = MustNew("АБВГДЕЖЗИ")

// New builds a table from an ordered run of symbols. Symbols are stored
// upper-cased; duplicates and whitespace are rejected.
func New(symbols string) (Alphabet, error) {
	rs := []rune(symbols)
	if len(rs) == 0 {
		return Alphabet{}, errors.New("alphabet: empty symbol table")
	}
	a := Alphabet{symbols: make([]rune, 0, len(rs)), index: make(map[rune]int, len(rs))}
	for _, r := range rs {
		if unicode.IsSpace(r) {
			return Alphabet{}, errors.New("alphabet: whitespace in symbol table")
		}
		u := unicode.ToUpper(r)
		if _, dup := a.index[u]; dup {
			return Alphabet{}, fmt.Errorf("alphabet: duplicate symbol %q", string(u))
		}
		a.index[u] = len(a.symbols)
		a.symbols = append(a.symbols, u)
	}
	return a, nil
}

// MustNew is New for package-level tables.
func MustNew(symbols string) Alphabet {
	a, err := New(symbols)
	if err != nil {
		panic(err)
	}
	return a
}

// ByName resolves a configured table. Known names are "latin" and
// "ukrainian"; any other value is taken as a literal symbol run, so a
// deployment can supply its own table without a code change.
func ByName(name string) (Alphabet, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "latin":
		return Latin, nil
	case "ukrainian":
		return Ukrainian, nil
	default:
		a, err := New(name)
		if err != nil {
			return Alphabet{}, fmt.Errorf("unknown alphabet %q: %w", name, err)
		}
		return a, nil
	}
}

func (a Alphabet) Len() int { return len(a.symbols) }

// Letter returns the label for a 0-based option position.
func (a Alphabet) Letter(i int) (string, error) {
	if i < 0 || i >= len(a.symbols) {
		return "", fmt.Errorf("alphabet: no letter for option %d (table has %d symbols)", i+1, len(a.symbols))
	}
	return string(a.symbols[i]), nil
}

// Index reports the 0-based position of a letter, case-insensitively.
func (a Alphabet) Index(r rune) (int, bool) {
	i, ok := a.index[unicode.ToUpper(r)]
	return i, ok
}

// IsLetters reports whether s is non-empty and made up entirely of table
// symbols. Used to tell letter-encoded answers apart from free text.
func (a Alphabet) IsLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if _, ok := a.index[unicode.ToUpper(r)]; !ok {
			return false
		}
	}
	return true
}

// Set parses a letter string into the set of table symbols it names.
// Common hand-written separators (spaces, commas, semicolons, periods) are
// skipped; any other rune is kept verbatim so junk input never collapses
// into a valid answer.
func (a Alphabet) Set(s string) map[rune]struct{} {
	out := make(map[rune]struct{})
	for _, r := range s {
		if unicode.IsSpace(r) || strings.ContainsRune(",;.", r) {
			continue
		}
		out[unicode.ToUpper(r)] = struct{}{}
	}
	return out
}

// Canonical rewrites a letter string as its unique symbols in table order.
// Unknown runes make Canonical return the trimmed input unchanged, so free
// text passes through.
func (a Alphabet) Canonical(s string) string {
	set := a.Set(s)
	for r := range set {
		if _, ok := a.index[r]; !ok {
			return strings.TrimSpace(s)
		}
	}
	var b strings.Builder
	for _, r := range a.symbols {
		if _, ok := set[r]; ok {
			b.WriteRune(r)
		}
	}
	return b.String()
}
