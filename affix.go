// Affix sets and the glyph substitution map.
//
// Both are plain external inputs: affixes are the literal prefix/suffix
// strings a matcher recognises adjacent to the template span, and the
// symbol map rewrites glyph variants to their canonical form before a
// template is compiled. They load from JSON, the one serialisation format
// used throughout the module.
package sarf

import (
	"io"
	"strings"

	json "github.com/goccy/go-json"
)

// AffixSet holds the literal affix strings used to build the optional
// leading and trailing alternations of a compiled matcher. Order is
// preserved; longer alternatives should come first when one affix is a
// prefix of another, since the regexp engine tries them left to right.
type AffixSet struct {
	Prefixes []string `json:"prefixes"`
	Suffixes []string `json:"suffixes"`
}

// LoadAffixes reads an AffixSet from JSON.
func LoadAffixes(r io.Reader) (AffixSet, error) {
	var a AffixSet
	data, err := io.ReadAll(r)
	if err != nil {
		return a, err
	}
	err = json.Unmarshal(data, &a)
	return a, err
}

// SymbolMap maps a source glyph to its canonical substitution. Applied
// rune by rune; glyphs without an entry pass through.
type SymbolMap map[string]string

// LoadSymbols reads a SymbolMap from JSON.
func LoadSymbols(r io.Reader) (SymbolMap, error) {
	var m SymbolMap
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	err = json.Unmarshal(data, &m)
	return m, err
}

// Apply rewrites every mapped glyph in s.
func (m SymbolMap) Apply(s string) string {
	if len(m) == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if sub, ok := m[string(r)]; ok {
			b.WriteString(sub)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
