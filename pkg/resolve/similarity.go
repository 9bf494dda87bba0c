package resolve

import "github.com/pmezard/go-difflib/difflib"

// Ratio returns the character-sequence similarity of a and b in [0, 1]:
// twice the number of matched characters over the total length, with
// matching blocks found the way difflib's SequenceMatcher does.
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(chars(a), chars(b)).Ratio()
}

// matcher scores many candidates against one fixed query. The query is the
// second sequence so its index is built once.
type matcher struct {
	sm *difflib.SequenceMatcher
}

func newMatcher(query string) *matcher {
	return &matcher{sm: difflib.NewMatcher(nil, chars(query))}
}

func (m *matcher) ratio(candidate string) float64 {
	m.sm.SetSeq1(chars(candidate))
	return m.sm.Ratio()
}

func chars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
