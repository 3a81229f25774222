// Corpus scanning: applying one compiled matcher to a line sequence.
//
// Scan is the package's innermost loop and is deliberately dumb: it
// neither reads files (lines arrive already produced and normalized) nor
// aggregates (duplicates are preserved for downstream counting). The only
// logic it owns is the optional validator gate.
package sarf

// Triple is one raw match: the affix captures plus the root span exactly
// as found, diacritics included. Template records which skeleton matched.
type Triple struct {
	Template string `json:"t"`
	Prefix   string `json:"p"`
	Root     string `json:"r"`
	Suffix   string `json:"s"`
}

// Word is the full matched span, prefix and suffix included.
func (t Triple) Word() string { return t.Prefix + t.Root + t.Suffix }

// Scan runs m over every line and returns the triples in corpus order.
// When v is non-nil each triple is validated and only accepted ones are
// kept; with a nil validator every match survives. Duplicate triples are
// preserved — occurrence counting is a downstream concern.
func Scan(m *Matcher, lines []string, v *Validator) []Triple {
	var out []Triple
	for _, line := range lines {
		for _, t := range m.FindAll(line) {
			if v != nil {
				verdict := v.Validate(t.Word(), t.Root, m.Template, t.Prefix, t.Suffix)
				if !verdict.Accepted {
					continue
				}
			}
			out = append(out, t)
		}
	}
	return out
}
