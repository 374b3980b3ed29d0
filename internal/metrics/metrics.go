// Package metrics converts raw validation results into severity and category
// tallies, an overall quality score, and a trend against a prior run.
package metrics

import (
	"time"

	"github.com/google/uuid"

	"github.com/julianshen/doccheck/internal/validate"
)

// Trend compares the current run against a prior report. A positive score
// delta and a negative issue delta both indicate improvement.
type Trend struct {
	ScoreDelta        float64   `json:"score_delta"`
	IssueDelta        int       `json:"issue_delta"`
	PreviousTimestamp time.Time `json:"previous_timestamp"`
}

// Report is the run-level metrics aggregate. It is computed once per run and
// never mutated afterwards, except for attaching the optional Trend.
type Report struct {
	RunID          string                        `json:"run_id"`
	Timestamp      time.Time                     `json:"timestamp"`
	Mode           string                        `json:"mode"` // "full" or "incremental"
	FilesValidated int                           `json:"files_validated"`
	TotalIssues    int                           `json:"total_issues"`
	BySeverity     map[validate.Severity]int     `json:"by_severity"`
	ByCategory     map[validate.Category]int     `json:"by_category"`
	QualityScore   float64                       `json:"quality_score"`
	CategoryScores map[validate.Category]float64 `json:"category_scores"`
	Trend          *Trend                        `json:"trend,omitempty"`
}

// Compute aggregates a run into a Report. The quality score is the percentage
// of executed checks (rule × file pairs) with no failing result; zero checks
// is a vacuous pass scoring 100.
func Compute(run *validate.RunResult, mode string) *Report {
	r := &Report{
		RunID:          uuid.New().String(),
		Timestamp:      time.Now().UTC(),
		Mode:           mode,
		FilesValidated: run.Stats.FilesValidated,
		BySeverity:     make(map[validate.Severity]int),
		ByCategory:     make(map[validate.Category]int),
		CategoryScores: make(map[validate.Category]float64),
	}

	// A check fails once, no matter how many results it produced.
	failedChecks := make(map[string]bool)
	failedByCategory := make(map[validate.Category]map[string]bool)

	for _, res := range run.Results {
		if res.Passed {
			continue
		}
		r.TotalIssues++
		r.BySeverity[res.Severity]++
		r.ByCategory[res.Category]++

		key := res.RuleID + "\x00" + res.File
		failedChecks[key] = true
		if failedByCategory[res.Category] == nil {
			failedByCategory[res.Category] = make(map[string]bool)
		}
		failedByCategory[res.Category][key] = true
	}

	r.QualityScore = score(run.TotalChecks, len(failedChecks))
	for cat, checks := range run.ChecksByCategory {
		r.CategoryScores[cat] = score(checks, len(failedByCategory[cat]))
	}

	return r
}

// CompareTo attaches a trend comparing this report against a prior one.
func (r *Report) CompareTo(prev *Report) {
	if prev == nil {
		return
	}
	r.Trend = &Trend{
		ScoreDelta:        r.QualityScore - prev.QualityScore,
		IssueDelta:        r.TotalIssues - prev.TotalIssues,
		PreviousTimestamp: prev.Timestamp,
	}
}

func score(total, failed int) float64 {
	if total == 0 {
		return 100
	}
	if failed > total {
		failed = total
	}
	return float64(total-failed) / float64(total) * 100
}
