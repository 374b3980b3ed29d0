package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianshen/doccheck/internal/validate"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#EEEEEE"})
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"})
	goodStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	badStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	neutralStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	severityStyles = map[validate.Severity]lipgloss.Style{
		validate.SeverityCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		validate.SeverityHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		validate.SeverityMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		validate.SeverityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	}
)

// severityOrder lists severities from most to least severe for display.
var severityOrder = []validate.Severity{
	validate.SeverityCritical,
	validate.SeverityHigh,
	validate.SeverityMedium,
	validate.SeverityLow,
}

// TerminalReporter renders a run summary for humans.
type TerminalReporter struct {
	w   io.Writer
	top int
}

// NewTerminalReporter creates a reporter that writes to w and lists at most
// top issues, ordered by descending severity.
func NewTerminalReporter(w io.Writer, top int) *TerminalReporter {
	if top <= 0 {
		top = 10
	}
	return &TerminalReporter{w: w, top: top}
}

// Render writes the summary for one run.
func (r *TerminalReporter) Render(a *Artifact) {
	rep := a.Report

	fmt.Fprintln(r.w, titleStyle.Render("Documentation Quality Report"))
	fmt.Fprintf(r.w, "%s %s\n", labelStyle.Render("Mode:"), rep.Mode)
	fmt.Fprintf(r.w, "%s %d validated, %d exempted\n",
		labelStyle.Render("Files:"), rep.FilesValidated, len(a.ExemptedFiles))
	fmt.Fprintf(r.w, "%s %s %s\n",
		labelStyle.Render("Score:"), scoreText(rep.QualityScore), trendText(a))
	fmt.Fprintf(r.w, "%s %d%s\n",
		labelStyle.Render("Issues:"), rep.TotalIssues, severityBreakdown(rep.BySeverity))

	if issues := topIssues(a.Results, r.top); len(issues) > 0 {
		fmt.Fprintln(r.w)
		fmt.Fprintln(r.w, titleStyle.Render(fmt.Sprintf("Top issues (showing %d of %d)", len(issues), rep.TotalIssues)))
		for _, res := range issues {
			r.renderIssue(res)
		}
	}

	if len(a.ExemptedFiles) > 0 {
		fmt.Fprintln(r.w)
		fmt.Fprintln(r.w, titleStyle.Render("Exempted files"))
		for _, ex := range a.ExemptedFiles {
			fmt.Fprintf(r.w, "  %s %s\n", ex.Path, labelStyle.Render("("+ex.Reason+")"))
		}
	}

	if len(a.Stats.Errors) > 0 {
		fmt.Fprintln(r.w)
		fmt.Fprintln(r.w, badStyle.Render("Validator errors"))
		for _, e := range a.Stats.Errors {
			fmt.Fprintf(r.w, "  %s\n", e)
		}
	}
}

func (r *TerminalReporter) renderIssue(res validate.Result) {
	style, ok := severityStyles[res.Severity]
	if !ok {
		style = labelStyle
	}
	location := res.File
	if res.Line > 0 {
		location = fmt.Sprintf("%s:%d", res.File, res.Line)
	}
	fmt.Fprintf(r.w, "  %s %s %s\n",
		style.Render(fmt.Sprintf("[%s]", res.Severity)), location, res.Message)
	if res.Suggestion != "" {
		fmt.Fprintf(r.w, "      %s\n", labelStyle.Render("→ "+res.Suggestion))
	}
}

// scoreText colors the quality score green at 90+, yellow at 70+, red below.
func scoreText(score float64) string {
	text := fmt.Sprintf("%.1f/100", score)
	switch {
	case score >= 90:
		return goodStyle.Render(text)
	case score >= 70:
		return neutralStyle.Render(text)
	default:
		return badStyle.Render(text)
	}
}

// trendText renders the score movement against the previous run, empty when
// there is no prior report.
func trendText(a *Artifact) string {
	t := a.Report.Trend
	if t == nil {
		return ""
	}
	switch {
	case t.ScoreDelta > 0:
		return goodStyle.Render(fmt.Sprintf("↑ %+.1f", t.ScoreDelta))
	case t.ScoreDelta < 0:
		return badStyle.Render(fmt.Sprintf("↓ %+.1f", t.ScoreDelta))
	default:
		return labelStyle.Render("→ ±0.0")
	}
}

func severityBreakdown(bySeverity map[validate.Severity]int) string {
	var parts []string
	for _, sev := range severityOrder {
		if n := bySeverity[sev]; n > 0 {
			style := severityStyles[sev]
			parts = append(parts, style.Render(fmt.Sprintf("%d %s", n, sev)))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

// topIssues returns up to limit failing results ordered by descending
// severity, then file and line.
func topIssues(results []validate.Result, limit int) []validate.Result {
	var failing []validate.Result
	for _, res := range results {
		if !res.Passed {
			failing = append(failing, res)
		}
	}
	sort.SliceStable(failing, func(i, j int) bool {
		ri, rj := validate.SeverityRank(failing[i].Severity), validate.SeverityRank(failing[j].Severity)
		if ri != rj {
			return ri > rj
		}
		if failing[i].File != failing[j].File {
			return failing[i].File < failing[j].File
		}
		return failing[i].Line < failing[j].Line
	})
	if len(failing) > limit {
		failing = failing[:limit]
	}
	return failing
}
