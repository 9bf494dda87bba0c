package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hazyhaar/greenmeds/pkg/catalog"
)

func rec(tox catalog.Toxicity, compost catalog.Compost) catalog.Record {
	return catalog.Record{Name: "x", ToxicityLevel: tox, CompostSafe: compost}
}

func TestScore(t *testing.T) {
	tests := []struct {
		tox     catalog.Toxicity
		compost catalog.Compost
		want    int
	}{
		{catalog.ToxicityLow, catalog.CompostYes, 100},
		{catalog.ToxicityLow, catalog.CompostNo, 85},
		{catalog.ToxicityMedium, catalog.CompostYes, 75},
		{catalog.ToxicityMedium, catalog.CompostNo, 60},
		{catalog.ToxicityHigh, catalog.CompostYes, 50},
		{catalog.ToxicityHigh, catalog.CompostNo, 35},
		{"high", "no", 35},
		{"HIGH", "yes", 50},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Score(rec(tt.tox, tt.compost)), "%s/%s", tt.tox, tt.compost)
	}
}

func TestScore_Range(t *testing.T) {
	for _, tox := range []catalog.Toxicity{catalog.ToxicityLow, catalog.ToxicityMedium, catalog.ToxicityHigh, "??"} {
		for _, c := range []catalog.Compost{catalog.CompostYes, catalog.CompostNo, "??"} {
			s := Score(rec(tox, c))
			assert.GreaterOrEqual(t, s, 0)
			assert.LessOrEqual(t, s, MaxScore)
		}
	}
}

func TestEvaluate_Unresolved(t *testing.T) {
	a := Evaluate(rec("Extreme", "maybe"))
	assert.Equal(t, 100, a.Score, "unknown values deduct nothing")
	assert.Equal(t, []UnresolvedAttribute{
		{Field: "toxicity_level", Value: "Extreme"},
		{Field: "compost_safe", Value: "maybe"},
	}, a.Warnings)
	assert.Equal(t, VerdictModerate, a.Verdict)
	assert.Contains(t, a.Warnings[0].String(), "Extreme")

	a = Evaluate(rec(catalog.ToxicityHigh, ""))
	assert.Equal(t, 50, a.Score)
	assert.Len(t, a.Warnings, 1)
}

func TestEvaluate_Verdict(t *testing.T) {
	assert.Equal(t, VerdictEcoSafe, Evaluate(rec(catalog.ToxicityLow, catalog.CompostYes)).Verdict)
	assert.Equal(t, VerdictModerate, Evaluate(rec(catalog.ToxicityLow, catalog.CompostNo)).Verdict)
	assert.Equal(t, VerdictModerate, Evaluate(rec(catalog.ToxicityMedium, catalog.CompostYes)).Verdict)
	assert.Equal(t, VerdictHighToxicity, Evaluate(rec(catalog.ToxicityHigh, catalog.CompostYes)).Verdict)
}

func TestScore_Deterministic(t *testing.T) {
	r := rec(catalog.ToxicityMedium, catalog.CompostNo)
	first := Evaluate(r)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Evaluate(r))
	}
	assert.Equal(t, rec(catalog.ToxicityMedium, catalog.CompostNo), r)
}
