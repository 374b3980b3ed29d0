package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/doccheck/internal/validate"
)

func runWith(total int, byCategory map[validate.Category]int, results ...validate.Result) *validate.RunResult {
	return &validate.RunResult{
		Results:          results,
		TotalChecks:      total,
		ChecksByCategory: byCategory,
		Stats:            validate.Stats{FilesValidated: 3},
	}
}

func TestComputeVacuousPass(t *testing.T) {
	r := Compute(runWith(0, map[validate.Category]int{}), "full")
	assert.Equal(t, 100.0, r.QualityScore)
	assert.Equal(t, 0, r.TotalIssues)
	assert.NotEmpty(t, r.RunID)
	assert.Equal(t, "full", r.Mode)
}

func TestComputePerfectScoreWithoutFailures(t *testing.T) {
	r := Compute(runWith(10, map[validate.Category]int{validate.CategoryLinks: 10}), "full")
	assert.Equal(t, 100.0, r.QualityScore)
	assert.Equal(t, 100.0, r.CategoryScores[validate.CategoryLinks])
}

func TestComputeScoreAndTallies(t *testing.T) {
	results := []validate.Result{
		{RuleID: "quality-001-internal-links", File: "a.md", Severity: validate.SeverityCritical, Category: validate.CategoryLinks},
		{RuleID: "quality-001-internal-links", File: "a.md", Severity: validate.SeverityCritical, Category: validate.CategoryLinks},
		{RuleID: "quality-005-terminology", File: "b.md", Severity: validate.SeverityMedium, Category: validate.CategoryTerminology},
	}
	byCat := map[validate.Category]int{
		validate.CategoryLinks:       4,
		validate.CategoryTerminology: 4,
	}
	r := Compute(runWith(8, byCat, results...), "full")

	// Two distinct failed checks out of eight: (links rule, a.md) and
	// (terminology rule, b.md). Multiple results from one check count once.
	assert.Equal(t, 75.0, r.QualityScore)
	assert.Equal(t, 3, r.TotalIssues)
	assert.Equal(t, 2, r.BySeverity[validate.SeverityCritical])
	assert.Equal(t, 1, r.BySeverity[validate.SeverityMedium])
	assert.Equal(t, 2, r.ByCategory[validate.CategoryLinks])
	assert.Equal(t, 75.0, r.CategoryScores[validate.CategoryLinks])
	assert.Equal(t, 75.0, r.CategoryScores[validate.CategoryTerminology])
}

func TestComputeScoreMonotonicInFailures(t *testing.T) {
	byCat := map[validate.Category]int{validate.CategoryLinks: 10}
	prev := 100.0
	for failures := 1; failures <= 10; failures++ {
		var results []validate.Result
		for i := 0; i < failures; i++ {
			results = append(results, validate.Result{
				RuleID:   "quality-001-internal-links",
				File:     string(rune('a'+i)) + ".md",
				Category: validate.CategoryLinks,
				Severity: validate.SeverityCritical,
			})
		}
		r := Compute(runWith(10, byCat, results...), "full")
		assert.Less(t, r.QualityScore, prev)
		prev = r.QualityScore
	}
	assert.Equal(t, 0.0, prev)
}

func TestComputeIgnoresPassedResults(t *testing.T) {
	results := []validate.Result{
		{RuleID: "quality-001-internal-links", File: "a.md", Passed: true, Category: validate.CategoryLinks},
	}
	r := Compute(runWith(2, map[validate.Category]int{validate.CategoryLinks: 2}, results...), "full")
	assert.Equal(t, 100.0, r.QualityScore)
	assert.Equal(t, 0, r.TotalIssues)
}

func TestCompareTo(t *testing.T) {
	// Prior score 80 with 10 issues, current score 85 with 7.
	prevTime := time.Now().Add(-24 * time.Hour).UTC()
	prev := &Report{QualityScore: 80, TotalIssues: 10, Timestamp: prevTime}
	current := &Report{QualityScore: 85, TotalIssues: 7}

	current.CompareTo(prev)

	require.NotNil(t, current.Trend)
	assert.Equal(t, 5.0, current.Trend.ScoreDelta)
	assert.Equal(t, -3, current.Trend.IssueDelta)
	assert.Equal(t, prevTime, current.Trend.PreviousTimestamp)
}

func TestCompareToNilPrior(t *testing.T) {
	current := &Report{QualityScore: 85}
	current.CompareTo(nil)
	assert.Nil(t, current.Trend)
}

func TestHistorySaveAndLatest(t *testing.T) {
	h, err := OpenHistory(":memory:")
	require.NoError(t, err)
	defer h.Close()

	// Empty history yields no prior report.
	latest, err := h.Latest()
	require.NoError(t, err)
	assert.Nil(t, latest)

	older := &Report{RunID: "run-1", Timestamp: time.Now().Add(-time.Hour).UTC(), Mode: "full", QualityScore: 80, TotalIssues: 10}
	newer := &Report{RunID: "run-2", Timestamp: time.Now().UTC(), Mode: "full", QualityScore: 85, TotalIssues: 7}
	require.NoError(t, h.Save(older))
	require.NoError(t, h.Save(newer))

	latest, err = h.Latest()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "run-2", latest.RunID)
	assert.Equal(t, 85.0, latest.QualityScore)
	assert.Equal(t, 7, latest.TotalIssues)
}

func TestHistoryPersistsAcrossOpens(t *testing.T) {
	path := t.TempDir() + "/history.db"

	h, err := OpenHistory(path)
	require.NoError(t, err)
	require.NoError(t, h.Save(&Report{RunID: "run-1", Timestamp: time.Now().UTC(), Mode: "incremental", QualityScore: 90, TotalIssues: 2}))
	require.NoError(t, h.Close())

	h2, err := OpenHistory(path)
	require.NoError(t, err)
	defer h2.Close()

	latest, err := h2.Latest()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "run-1", latest.RunID)
	assert.Equal(t, "incremental", latest.Mode)
}
