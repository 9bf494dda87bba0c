package catalog

import (
	"fmt"
	"strings"
)

// Toxicity is the environmental toxicity class of a medicine.
type Toxicity string

const (
	ToxicityLow    Toxicity = "Low"
	ToxicityMedium Toxicity = "Medium"
	ToxicityHigh   Toxicity = "High"
)

// ParseToxicity matches s case-insensitively against the known levels.
// Unknown values are returned trimmed with ok=false.
func ParseToxicity(s string) (Toxicity, bool) {
	s = strings.TrimSpace(s)
	for _, t := range []Toxicity{ToxicityLow, ToxicityMedium, ToxicityHigh} {
		if strings.EqualFold(s, string(t)) {
			return t, true
		}
	}
	return Toxicity(s), false
}

// Valid reports whether t is one of the enumerated levels.
func (t Toxicity) Valid() bool {
	switch t {
	case ToxicityLow, ToxicityMedium, ToxicityHigh:
		return true
	}
	return false
}

// Compost is the compost-safety flag of a medicine.
type Compost string

const (
	CompostYes Compost = "Yes"
	CompostNo  Compost = "No"
)

// ParseCompost matches s case-insensitively against Yes and No.
func ParseCompost(s string) (Compost, bool) {
	s = strings.TrimSpace(s)
	switch {
	case strings.EqualFold(s, string(CompostYes)):
		return CompostYes, true
	case strings.EqualFold(s, string(CompostNo)):
		return CompostNo, true
	}
	return Compost(s), false
}

// Valid reports whether c is Yes or No.
func (c Compost) Valid() bool {
	return c == CompostYes || c == CompostNo
}

// Record is one medicine of the catalog.
type Record struct {
	Name          string   `json:"medicine"`
	ToxicityLevel Toxicity `json:"toxicity_level"`
	Disposal      string   `json:"disposal"`
	CompostSafe   Compost  `json:"compost_safe"`
	Warnings      string   `json:"warnings"`
}

// Issue is a data-quality problem found while loading the catalog.
// Row is the 1-based data row (header excluded).
type Issue struct {
	Row   int    `json:"row"`
	Name  string `json:"medicine,omitempty"`
	Field string `json:"field"`
	Value string `json:"value"`
}

func (i Issue) String() string {
	if i.Name == "" {
		return fmt.Sprintf("row %d: %s %q", i.Row, i.Field, i.Value)
	}
	return fmt.Sprintf("row %d (%s): %s %q", i.Row, i.Name, i.Field, i.Value)
}
