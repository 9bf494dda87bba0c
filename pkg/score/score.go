// Package score derives the eco-toxicity score of a catalog record.
package score

import (
	"fmt"

	"github.com/hazyhaar/greenmeds/pkg/catalog"
)

// Deductions from a perfect score of 100.
const (
	MaxScore          = 100
	HighPenalty       = 50
	MediumPenalty     = 25
	NotCompostPenalty = 15
)

// Verdict summarizes a record for display.
type Verdict string

const (
	VerdictEcoSafe      Verdict = "eco-safe"
	VerdictHighToxicity Verdict = "high-toxicity"
	VerdictModerate     Verdict = "moderate"
)

// UnresolvedAttribute reports an attribute outside its enumerated domain.
// It contributes no deduction.
type UnresolvedAttribute struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (u UnresolvedAttribute) String() string {
	return fmt.Sprintf("%s %q not recognized, no deduction applied", u.Field, u.Value)
}

// Assessment is the full scoring outcome for one record.
type Assessment struct {
	Score    int                   `json:"score"`
	Verdict  Verdict               `json:"verdict"`
	Warnings []UnresolvedAttribute `json:"warnings,omitempty"`
}

// Score returns the eco-toxicity score of r in [0, 100].
func Score(r catalog.Record) int {
	return Evaluate(r).Score
}

// Evaluate scores r: start at 100, subtract 50 for High or 25 for Medium
// toxicity, subtract 15 unless compost-safe, clamp at 0. Unrecognized
// attribute values subtract nothing and are listed in Warnings.
func Evaluate(r catalog.Record) Assessment {
	var a Assessment
	total := MaxScore

	tox, ok := catalog.ParseToxicity(string(r.ToxicityLevel))
	switch {
	case !ok:
		a.Warnings = append(a.Warnings, UnresolvedAttribute{Field: catalog.ColToxicityLevel, Value: string(r.ToxicityLevel)})
	case tox == catalog.ToxicityHigh:
		total -= HighPenalty
	case tox == catalog.ToxicityMedium:
		total -= MediumPenalty
	}

	compost, ok := catalog.ParseCompost(string(r.CompostSafe))
	switch {
	case !ok:
		a.Warnings = append(a.Warnings, UnresolvedAttribute{Field: catalog.ColCompostSafe, Value: string(r.CompostSafe)})
	case compost != catalog.CompostYes:
		total -= NotCompostPenalty
	}

	a.Score = max(total, 0)

	switch {
	case tox == catalog.ToxicityLow && compost == catalog.CompostYes:
		a.Verdict = VerdictEcoSafe
	case tox == catalog.ToxicityHigh:
		a.Verdict = VerdictHighToxicity
	default:
		a.Verdict = VerdictModerate
	}
	return a
}
