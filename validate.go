// Reconstruction-based cross-validation.
//
// A decomposition is plausible if substituting the root letters back into
// the template's marker slots rebuilds something close to the word that
// was matched. Closeness is Levenshtein distance over letter units after
// stripping diacritics, and the acceptance threshold is fixed: a ratio
// strictly above 0.8.
//
// A Validator accumulates every verdict it issues; the log is consumed by
// external reporting. It is not safe for concurrent use — by construction
// it only ever runs on the orchestrating side, never inside a worker.
package sarf

import "strings"

// validThreshold is the fixed similarity ratio a reconstruction must
// exceed to be accepted.
const validThreshold = 0.8

// Verdict is the outcome of validating one decomposition.
type Verdict struct {
	Original      string
	Reconstructed string
	Root          string
	Template      string
	Prefix        string
	Suffix        string
	Ratio         float64
	Accepted      bool
}

// Validator validates decompositions and keeps a log of verdicts.
type Validator struct {
	Log []Verdict
}

// Validate reconstructs a word from its parts, measures similarity to the
// original, appends the verdict to the log, and returns it.
func (v *Validator) Validate(original, root, template, prefix, suffix string) Verdict {
	reconstructed := Reconstruct(root, template, prefix, suffix)
	ratio := Similarity(original, reconstructed)
	verdict := Verdict{
		Original:      original,
		Reconstructed: reconstructed,
		Root:          root,
		Template:      template,
		Prefix:        prefix,
		Suffix:        suffix,
		Ratio:         ratio,
		Accepted:      ratio > validThreshold,
	}
	v.Log = append(v.Log, verdict)
	return verdict
}

// Reconstruct rebuilds a candidate word: each marker letter, taken in the
// fixed order ف ع ل, has its first occurrence in the template replaced by
// the root letter of the same rank. A marker absent from the template
// skips its root letter; root letters beyond the marker count are unused.
// The prefix and suffix are then attached verbatim.
func Reconstruct(root, template, prefix, suffix string) string {
	working := template
	rootLetters := []rune(StripDiacritics(root))

	for i, marker := range []rune(Markers) {
		if i >= len(rootLetters) {
			break
		}
		m := string(marker)
		if strings.Contains(working, m) {
			working = strings.Replace(working, m, string(rootLetters[i]), 1)
		}
	}
	return prefix + working + suffix
}

// Similarity returns a ratio in [0,1]: 1.0 when the diacritic-stripped
// forms are equal, otherwise 1 - distance/maxLen with distance measured
// over grouped letter units.
func Similarity(a, b string) float64 {
	ua := GroupUnits(StripDiacritics(a))
	ub := GroupUnits(StripDiacritics(b))

	if equalUnits(ua, ub) {
		return 1.0
	}
	maxLen := len(ua)
	if len(ub) > maxLen {
		maxLen = len(ub)
	}
	if maxLen == 0 {
		return 0.0
	}
	return 1.0 - float64(editDistance(ua, ub))/float64(maxLen)
}

func equalUnits(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// editDistance is classic Levenshtein over letter units with unit cost
// for insertion, deletion, and substitution. Two rows suffice.
func editDistance(a, b []string) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i, ua := range a {
		curr[0] = i + 1
		for j, ub := range b {
			cost := 0
			if ua != ub {
				cost = 1
			}
			ins := prev[j+1] + 1
			del := curr[j] + 1
			sub := prev[j] + cost
			curr[j+1] = min(ins, del, sub)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
