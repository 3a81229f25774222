// Per-decomposition output records.
//
// The record format is pipe-delimited with fixed field order:
//
//	bare-root | root-as-found | template | matched-word | [prefix] | [intermediate] | [suffix] | تكرار: N
//
// with '#' standing in for an empty bracketed field and an optional
// trailing [الوسم: tag] when the template carries a tag. Occurrences are
// counted over identical triples; identity and ordering follow first
// appearance in the corpus, so a re-run over the same input emits the
// same lines in the same order.
package sarf

import (
	"fmt"
	"strings"
)

// countLabel and tagLabel are the fixed Arabic field labels.
const (
	countLabel = "تكرار"
	tagLabel   = "الوسم"
)

// occurrence is one distinct triple with its corpus count.
type occurrence struct {
	triple Triple
	count  int
}

// countOccurrences collapses duplicate triples, preserving first-seen
// order.
func countOccurrences(triples []Triple) []occurrence {
	index := make(map[Triple]int)
	var out []occurrence
	for _, t := range triples {
		if i, ok := index[t]; ok {
			out[i].count++
			continue
		}
		index[t] = len(out)
		out = append(out, occurrence{triple: t, count: 1})
	}
	return out
}

// Records formats the output lines for one template's triples. tag may be
// empty.
func Records(template, tag string, triples []Triple) []string {
	occ := countOccurrences(triples)
	out := make([]string, 0, len(occ))

	for _, o := range occ {
		d := Align(template, o.triple.Root)
		bare := StripDiacritics(d.Root)

		var b strings.Builder
		fmt.Fprintf(&b, "%s | %s | %s | %s | %s | %s | %s | %s: %d",
			bare, o.triple.Root, template, o.triple.Word(),
			bracket(o.triple.Prefix), bracket(d.Intermediate), bracket(o.triple.Suffix),
			countLabel, o.count)
		if tag != "" {
			fmt.Fprintf(&b, " | [%s: %s]", tagLabel, tag)
		}
		out = append(out, b.String())
	}
	return out
}

// bracket wraps a field, substituting '#' for empty.
func bracket(s string) string {
	if s == "" {
		s = "#"
	}
	return "[" + s + "]"
}
