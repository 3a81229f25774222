// Template compilation: from a skeleton plus configuration to a reusable
// matching expression.
//
// Compilation is referentially transparent — identical inputs always
// produce a matcher with identical behaviour — which is what makes an
// external cache keyed on Matcher.Key sound. Construction order: the
// symbol map rewrites glyph variants first, each diacritic in the
// template becomes an optional token when requested, and escaped affix
// alternations are wrapped around the template core under a boundary
// policy chosen by corpus type and whole-word flag.
//
// Boundary classes are consuming, not zero-width; RE2 has no lookaround.
// Two adjacent whole-word matches in prose that share a single separator
// character may therefore interfere — the first match consumes the
// boundary the second needs.
package sarf

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Boundary classes for whole-word matching in prose. Whitespace or one of
// the fixed punctuation marks, or text start/end.
const (
	textBoundaryStart = `(?:\s|^|[،؛.!؟"'«»()-])`
	textBoundaryEnd   = `(?:\s|$|[،؛.!؟"'«»()-])`
)

// Options configure template compilation. The zero value compiles for a
// list corpus without whole-word anchoring, affixes, symbols, or optional
// diacritics.
type Options struct {
	Corpus             CorpusType
	WholeWord          bool
	OptionalDiacritics bool
	Affixes            AffixSet
	Symbols            SymbolMap
}

// Matcher is a compiled template expression with named capture regions
// for prefix, root, and suffix.
type Matcher struct {
	Template string // The template text as given to Compile

	re                   *regexp.Regexp
	prefix, root, suffix int // Submatch indexes; -1 when the group is absent
	keySeed              string
}

// Compile builds a Matcher for template under opts. A template that does
// not survive regexp compilation returns an error wrapping ErrCompile;
// the failure is scoped to this template and the caller's run continues.
func Compile(template string, opts Options) (*Matcher, error) {
	core := opts.Symbols.Apply(template)
	core = diacriticTokens(core, opts.OptionalDiacritics)

	var b strings.Builder
	start, end := boundaries(opts)
	b.WriteString(start)
	if alt := alternation(opts.Affixes.Prefixes); alt != "" {
		b.WriteString("(?P<prefix>" + alt + ")?")
	}
	b.WriteString("(?P<root>" + core + ")")
	if alt := alternation(opts.Affixes.Suffixes); alt != "" {
		b.WriteString("(?P<suffix>" + alt + ")?")
	}
	b.WriteString(end)

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrCompile, template, err)
	}

	return &Matcher{
		Template: template,
		re:       re,
		prefix:   re.SubexpIndex("prefix"),
		root:     re.SubexpIndex("root"),
		suffix:   re.SubexpIndex("suffix"),
		keySeed:  keySeed(template, opts),
	}, nil
}

// FindAll returns every non-overlapping match in line as prefix/root/
// suffix triples. Optional groups that did not participate report as
// empty strings.
func (m *Matcher) FindAll(line string) []Triple {
	var out []Triple
	for _, sub := range m.re.FindAllStringSubmatch(line, -1) {
		var t Triple
		if m.prefix >= 0 {
			t.Prefix = sub[m.prefix]
		}
		t.Root = sub[m.root]
		if m.suffix >= 0 {
			t.Suffix = sub[m.suffix]
		}
		t.Template = m.Template
		out = append(out, t)
	}
	return out
}

// Key digests the full compile input under alg. Two matchers with equal
// keys are behaviourally identical, so external caches may key on it.
func (m *Matcher) Key(alg int) string {
	return digest([]byte(m.keySeed), alg)
}

// diacriticTokens rewrites each diacritic literal as an optional
// single-character class when optional is set, leaving every other
// character in place.
func diacriticTokens(s string, optional bool) string {
	if !optional {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if diacritics[r] {
			b.WriteString("[" + string(r) + "]?")
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// alternation builds a non-capturing alternation over escaped literals.
// Escaping is unconditional: an affix literal can never inject a raw
// regex metacharacter.
func alternation(literals []string) string {
	if len(literals) == 0 {
		return ""
	}
	escaped := make([]string, len(literals))
	for i, lit := range literals {
		escaped[i] = regexp.QuoteMeta(lit)
	}
	return "(?:" + strings.Join(escaped, "|") + ")"
}

// boundaries returns the leading and trailing boundary expressions for
// the corpus type and whole-word flag: line anchors for whole-word list
// entries, the consuming separator classes for whole-word prose, nothing
// otherwise.
func boundaries(opts Options) (start, end string) {
	if !opts.WholeWord {
		return "", ""
	}
	switch opts.Corpus {
	case CorpusList:
		return "^", "$"
	case CorpusText:
		return textBoundaryStart, textBoundaryEnd
	}
	return "", ""
}

// keySeed canonically serialises the compile inputs. The symbol map is
// sorted so two maps with equal contents serialise identically.
func keySeed(template string, opts Options) string {
	var b strings.Builder
	b.WriteString(template)
	fmt.Fprintf(&b, "\x00%d\x00%t\x00%t", opts.Corpus, opts.WholeWord, opts.OptionalDiacritics)
	b.WriteString("\x00" + strings.Join(opts.Affixes.Prefixes, "\x01"))
	b.WriteString("\x00" + strings.Join(opts.Affixes.Suffixes, "\x01"))

	keys := make([]string, 0, len(opts.Symbols))
	for k := range opts.Symbols {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString("\x00" + k + "\x02" + opts.Symbols[k])
	}
	return b.String()
}
