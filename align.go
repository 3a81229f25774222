// Letter-unit alignment between a template skeleton and a matched span.
//
// Alignment is position-wise: the diacritic-stripped template and the
// unit-grouped target must have the same length, and each skeleton
// position classifies the corresponding target unit as prefix, root,
// intermediate, or suffix. It is deliberately infallible — when the
// counts differ or the template carries no markers, the whole span is
// returned as an unresolved root rather than an error, so a batch run
// never stops on a single odd word.
package sarf

import "strings"

// Decomposition is the four-way split of one matched word. Root spans the
// first through last marker position; Intermediate holds the non-marker
// units strictly between them.
type Decomposition struct {
	Prefix       string
	Intermediate string
	Root         string
	Suffix       string
}

// Align splits span against template. On a unit-count mismatch, or when
// the template has no marker letters, it returns the failure sentinel:
// the original span preserved as Root and every other field empty.
func Align(template, span string) Decomposition {
	skeleton := []rune(StripDiacritics(template))
	units := GroupUnits(span)

	if len(skeleton) != len(units) {
		return Decomposition{Root: span}
	}

	first, last := -1, -1
	for i, r := range skeleton {
		if strings.ContainsRune(Markers, r) {
			if first == -1 {
				first = i
			}
			last = i
		}
	}
	if first == -1 {
		return Decomposition{Root: span}
	}

	var d Decomposition
	for i, r := range skeleton {
		switch {
		case strings.ContainsRune(Markers, r):
			d.Root += units[i]
		case i < first:
			d.Prefix += units[i]
		case i > last:
			d.Suffix += units[i]
		default:
			d.Intermediate += units[i]
		}
	}
	return d
}
