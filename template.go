// Template catalog: the skeleton strings words are decomposed against.
//
// A template mixes three kinds of characters: the marker letters ف ع ل
// standing for root-letter slots, augment letters that signal the
// morphological class, and diacritics. The derived attributes consumers
// keep asking for — the diacritic-stripped skeleton, the marker positions,
// the augment count — are computed once at construction and cached on the
// value.
//
// The catalog file format is line-oriented UTF-8: '#' starts a comment,
// and an entry is either a bare template or "head : d1، d2، ..." where the
// Arabic comma joins the head's derived templates.
package sarf

import (
	"bufio"
	"io"
	"regexp"
	"sort"
	"strings"
)

// Markers are the three root-slot letters, in substitution order.
const Markers = "فعل"

// AugmentLetters is the fixed set of letters whose presence in a template
// signals a morphological class. Heavily weighted by the scorer and used
// to order the catalog so the most specific templates scan first.
const AugmentLetters = "سأؤئءآإتمونيهىّا"

// Template is an immutable skeleton with its derived attributes.
type Template struct {
	Text    string   // The skeleton as written in the catalog
	Derived []string // Sub-templates scanned alongside the head
	Class   Class    // Caller-supplied classification
	Tag     string   // Optional annotation from the tag file

	skeleton string // Text with diacritics stripped
	markers  []int  // Indexes of marker letters within skeleton
	augments int    // Count of augment letters in Text
}

// NewTemplate builds a Template and computes its cached attributes.
func NewTemplate(text string, derived []string, class Class) Template {
	t := Template{Text: text, Derived: derived, Class: class}
	t.skeleton = StripDiacritics(text)
	for i, r := range []rune(t.skeleton) {
		if strings.ContainsRune(Markers, r) {
			t.markers = append(t.markers, i)
		}
	}
	t.augments = countAugments(text)
	return t
}

// Skeleton returns the diacritic-stripped letter sequence.
func (t Template) Skeleton() string { return t.skeleton }

// MarkerPositions returns the skeleton indexes of the marker letters.
func (t Template) MarkerPositions() []int { return t.markers }

// Augments returns the number of augment letters in the template text.
func (t Template) Augments() int { return t.augments }

func countAugments(s string) int {
	n := 0
	for _, r := range s {
		if strings.ContainsRune(AugmentLetters, r) {
			n++
		}
	}
	return n
}

// ParseCatalog reads a template catalog and returns its entries ordered by
// augment-letter count, descending; entries with equal counts keep their
// file order. Comment lines start with '#'; blank lines are skipped. An
// entry without a colon is a template with no derived list.
func ParseCatalog(r io.Reader, class Class) ([]Template, error) {
	var out []Template

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		head, rest, found := strings.Cut(line, ":")
		head = strings.TrimSpace(head)
		if head == "" {
			continue
		}

		var derived []string
		if found {
			for _, d := range strings.Split(rest, "،") {
				if d = strings.TrimSpace(d); d != "" {
					derived = append(derived, d)
				}
			}
		}
		out = append(out, NewTemplate(head, derived, class))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].augments > out[j].augments
	})
	return out, nil
}

// tagLine matches one entry of the tag file: "template" = "tag"
var tagLine = regexp.MustCompile(`^"([^"]+)"\s*=\s*"([^"]+)"`)

// ParseTags reads the tag annotation file and returns its template→tag
// map. Lines that do not match the quoted format are ignored.
func ParseTags(r io.Reader) (map[string]string, error) {
	tags := make(map[string]string)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		m := tagLine.FindStringSubmatch(strings.TrimSpace(scanner.Text()))
		if m != nil {
			tags[m[1]] = m[2]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}
