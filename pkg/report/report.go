// Package report renders a scored medicine for people: a styled box on a
// terminal, the plain "Eco Report" layout elsewhere, or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rotisserie/eris"
	"golang.org/x/term"

	"github.com/hazyhaar/greenmeds/pkg/catalog"
	"github.com/hazyhaar/greenmeds/pkg/score"
)

const (
	whoGuidelinesURL = "https://www.who.int/publications/i/item/9789241509882"
	wikipediaBase    = "https://en.wikipedia.org/wiki/"
	disposalTip      = "Never flush unused medicines unless instructed."
	boxWidth         = 64
	barWidth         = 40
)

// Link is a titled reference.
type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Report is everything shown for one resolved medicine.
type Report struct {
	Record     catalog.Record   `json:"record"`
	Assessment score.Assessment `json:"assessment"`
	LearnMore  []Link           `json:"learn_more"`
	Tip        string           `json:"tip"`
}

// Build assembles the report for a record and its assessment.
func Build(r catalog.Record, a score.Assessment) Report {
	return Report{
		Record:     r,
		Assessment: a,
		LearnMore: []Link{
			{Title: "WHO Guidelines", URL: whoGuidelinesURL},
			{Title: "Wikipedia: " + r.Name, URL: WikipediaURL(r.Name)},
		},
		Tip: disposalTip,
	}
}

// WikipediaURL returns the English Wikipedia article URL for a name.
func WikipediaURL(name string) string {
	return wikipediaBase + url.PathEscape(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
}

// FileName is the suggested file name for a saved report.
func FileName(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	return clean + "_eco_report.txt"
}

// Render writes rep to w, styled when w is a terminal.
func Render(w io.Writer, rep Report) error {
	if isTerminal(w) {
		return RenderStyled(w, rep)
	}
	return RenderPlain(w, rep)
}

// RenderPlain writes the line-oriented report.
func RenderPlain(w io.Writer, rep Report) error {
	r := rep.Record
	var b strings.Builder
	b.WriteString("GreenMeds - Eco Report\n")
	fmt.Fprintf(&b, "Medicine: %s\n", r.Name)
	fmt.Fprintf(&b, "Eco Toxicity Score: %d/100\n", rep.Assessment.Score)
	fmt.Fprintf(&b, "Toxicity Level: %s\n", r.ToxicityLevel)
	fmt.Fprintf(&b, "Disposal: %s\n", r.Disposal)
	fmt.Fprintf(&b, "Compost Safe: %s\n", r.CompostSafe)
	fmt.Fprintf(&b, "Warnings: %s\n", r.Warnings)
	fmt.Fprintf(&b, "Verdict: %s\n", rep.Assessment.Verdict)
	for _, u := range rep.Assessment.Warnings {
		fmt.Fprintf(&b, "Data warning: %s\n", u)
	}
	for _, l := range rep.LearnMore {
		fmt.Fprintf(&b, "Learn more: %s <%s>\n", l.Title, l.URL)
	}
	fmt.Fprintf(&b, "Tip: %s\n", rep.Tip)

	if _, err := io.WriteString(w, b.String()); err != nil {
		return eris.Wrap(err, "write report")
	}
	return nil
}

// RenderStyled writes a boxed report with a score bar using Lip Gloss.
func RenderStyled(w io.Writer, rep Report) error {
	r := rep.Record
	a := rep.Assessment

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("34"))
	labelStyle := lipgloss.NewStyle().Bold(true)
	verdictStyle := lipgloss.NewStyle().Bold(true).Foreground(verdictColor(a.Verdict))
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	borderStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("28")).
		Padding(0, 1).
		Width(boxWidth)

	var c strings.Builder
	c.WriteString(titleStyle.Render("GreenMeds - Eco Report: " + r.Name))
	c.WriteString("\n\n")
	fmt.Fprintf(&c, "%s %d/100\n", labelStyle.Render("Eco Toxicity Score:"), a.Score)
	c.WriteString(ScoreBar(a.Score, barWidth))
	c.WriteString("\n")
	c.WriteString(verdictStyle.Render(verdictLabel(a.Verdict)))
	c.WriteString("\n\n")
	fmt.Fprintf(&c, "%s %s\n", labelStyle.Render("Toxicity Level:"), r.ToxicityLevel)
	fmt.Fprintf(&c, "%s %s\n", labelStyle.Render("Environmental Warnings:"), r.Warnings)
	fmt.Fprintf(&c, "%s %s\n", labelStyle.Render("Disposal:"), r.Disposal)
	fmt.Fprintf(&c, "%s %s\n", labelStyle.Render("Compost-safe:"), r.CompostSafe)
	for _, u := range a.Warnings {
		c.WriteString(warnStyle.Render("! " + u.String()))
		c.WriteString("\n")
	}
	c.WriteString("\n")
	for _, l := range rep.LearnMore {
		fmt.Fprintf(&c, "- %s: %s\n", l.Title, l.URL)
	}
	fmt.Fprintf(&c, "\nTip: %s", rep.Tip)

	if _, err := fmt.Fprintln(w, borderStyle.Render(c.String())); err != nil {
		return eris.Wrap(err, "write report")
	}
	return nil
}

// RenderJSON writes rep as indented JSON.
func RenderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "encode json")
	}
	return nil
}

// ScoreBar draws a width-cell progress bar for a 0-100 score.
func ScoreBar(score, width int) string {
	score = min(max(score, 0), 100)
	filled := score * width / 100
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

func verdictLabel(v score.Verdict) string {
	switch v {
	case score.VerdictEcoSafe:
		return "This medicine is considered eco-safe."
	case score.VerdictHighToxicity:
		return "This medicine has high environmental toxicity."
	default:
		return "Moderate environmental impact."
	}
}

func verdictColor(v score.Verdict) lipgloss.Color {
	switch v {
	case score.VerdictEcoSafe:
		return lipgloss.Color("42")
	case score.VerdictHighToxicity:
		return lipgloss.Color("196")
	default:
		return lipgloss.Color("214")
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
