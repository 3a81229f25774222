// Orthographic normalization and letter-unit handling.
//
// Raw character counts are the wrong unit for Arabic: a base letter carries
// zero or more combining diacritics, and the pair is one linguistic
// position. GroupUnits produces that unit view, and every length comparison
// in the package (alignment, edit distance) runs over it. The remaining two
// functions prepare text for matching: StripDiacritics for skeleton
// comparison, NormalizeOrthography for the hamza/alif/teh unification the
// corpus needs before any template can match it.
package sarf

import "strings"

// diacritics is the set of combining marks treated as part of the
// preceding letter: tanwin (U+064B–U+064D), short vowels (U+064E–U+0650),
// shadda, sukun, and the superscript alef (U+0670).
var diacritics = map[rune]bool{
	'ً': true, // fathatan
	'ٌ': true, // dammatan
	'ٍ': true, // kasratan
	'َ': true, // fatha
	'ُ': true, // damma
	'ِ': true, // kasra
	'ّ': true, // shadda
	'ْ': true, // sukun
	'ٰ': true, // superscript alef
}

// quranic marks are decorative or recitational and carry no morphological
// information: alef variants U+0671–U+067F and the annotation signs
// scattered through U+06D6–U+06EF.
var quranic = func() map[rune]bool {
	m := make(map[rune]bool)
	for r := rune(0x0670); r <= 0x067F; r++ {
		m[r] = true
	}
	for r := rune(0x06D6); r <= 0x06EF; r++ {
		m[r] = true
	}
	return m
}()

// StripDiacritics removes all combining diacritic marks. Pure and total;
// non-Arabic input passes through unchanged.
func StripDiacritics(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !diacritics[r] {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// GroupUnits splits s into letter units: each unit is one base letter plus
// any diacritics immediately following it. Diacritics with no preceding
// base letter are dropped.
func GroupUnits(s string) []string {
	var units []string
	var cur strings.Builder
	for _, r := range s {
		if diacritics[r] {
			if cur.Len() > 0 {
				cur.WriteRune(r)
			}
			continue
		}
		if cur.Len() > 0 {
			units = append(units, cur.String())
			cur.Reset()
		}
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		units = append(units, cur.String())
	}
	return units
}

// NormalizeOrthography unifies the spellings that vary freely in the
// corpus: hamza carriers ء إ آ collapse to أ, alif wasla to plain alif,
// Quranic decoration is removed, and the closing teh ة becomes open ت.
// Applied to corpus lines and templates alike before matching.
func NormalizeOrthography(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case 'ء', 'إ', 'آ':
			return 'أ'
		case 'ٱ':
			return 'ا'
		case 'ة':
			return 'ت'
		}
		if quranic[r] {
			return -1
		}
		return r
	}, s)
}
