// Plausibility scoring and template ranking.
//
// Six independent additive terms, no normalisation: augment letters in
// the template dominate at 20 points each, a persisted frequency and the
// sibling-match count contribute capped bonuses, affix participation and
// a sane template/word length ratio add small fixed amounts. When several
// templates claim the same word, Rank orders them by the average score of
// their matches.
package sarf

import "sort"

// FrequencyLookup supplies the persisted per-template frequency. It is
// the read half of the external Store; a nil lookup simply drops the
// frequency term.
type FrequencyLookup interface {
	PatternFrequency(template string) (int64, bool)
}

// Scorer computes plausibility scores. The zero value works; Freq is
// optional.
type Scorer struct {
	Freq FrequencyLookup
}

// Score computes the plausibility of one decomposition. siblings is the
// number of matches the same template produced for this scan.
func (s *Scorer) Score(template, word, prefix, suffix string, siblings int) float64 {
	score := 0.0

	score += float64(countAugments(template)) * 20

	if s.Freq != nil {
		if f, ok := s.Freq.PatternFrequency(template); ok {
			score += min(float64(f)*0.5, 50)
		}
	}

	if prefix != "" {
		score += 5
	}
	if suffix != "" {
		score += 5
	}

	if wordLen := len([]rune(word)); wordLen > 0 {
		ratio := float64(len([]rune(template))) / float64(wordLen)
		if ratio >= 0.7 && ratio <= 1.3 {
			score += 10
		}
	}

	score += min(float64(siblings)*2, 20)

	return score
}

// PatternMatches pairs a template with the matches it produced for one
// word. Rank takes a slice rather than a map so equal-score templates
// keep their caller-supplied order.
type PatternMatches struct {
	Template string
	Matches  []Triple
}

// RankedPattern is one entry of Rank's output.
type RankedPattern struct {
	Template string
	Matches  []Triple
	Score    float64
}

// Rank scores every match of every candidate template against word and
// sorts templates by average score, descending. The sort is stable:
// templates with equal averages stay in input order.
func (s *Scorer) Rank(candidates []PatternMatches, word string) []RankedPattern {
	ranked := make([]RankedPattern, 0, len(candidates))
	for _, c := range candidates {
		total := 0.0
		for _, m := range c.Matches {
			total += s.Score(c.Template, word, m.Prefix, m.Suffix, len(c.Matches))
		}
		avg := 0.0
		if len(c.Matches) > 0 {
			avg = total / float64(len(c.Matches))
		}
		ranked = append(ranked, RankedPattern{Template: c.Template, Matches: c.Matches, Score: avg})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
