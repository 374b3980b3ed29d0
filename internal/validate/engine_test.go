package validate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/doccheck/internal/docs"
	"github.com/julianshen/doccheck/internal/resources"
)

// stubRule is a configurable rule for engine tests.
type stubRule struct {
	id       string
	category Category
	severity Severity
	types    []docs.Type
	validate func(doc *docs.Document, rctx *Context) ([]Result, error)
}

func (s *stubRule) ID() string             { return s.id }
func (s *stubRule) Name() string           { return s.id }
func (s *stubRule) Category() Category     { return s.category }
func (s *stubRule) Severity() Severity     { return s.severity }
func (s *stubRule) AppliesTo() []docs.Type { return s.types }

func (s *stubRule) Validate(doc *docs.Document, rctx *Context) ([]Result, error) {
	if s.validate == nil {
		return nil, nil
	}
	return s.validate(doc, rctx)
}

func doc(t *testing.T, relPath, content string) *docs.Document {
	t.Helper()
	return docs.New("/repo/"+relPath, relPath, []byte(content), time.Now())
}

func ctxWith(documents ...*docs.Document) *Context {
	return &Context{
		Root:       "/repo",
		Documents:  documents,
		Glossary:   &resources.Glossary{},
		Exemptions: &resources.Exemptions{},
		Config:     resources.DefaultConfig(),
		Links:      NewLinkCache(),
	}
}

func findingRule(id string, category Category, severity Severity) *stubRule {
	return &stubRule{
		id:       id,
		category: category,
		severity: severity,
		validate: func(d *docs.Document, _ *Context) ([]Result, error) {
			return []Result{{
				RuleID:   id,
				File:     d.Path,
				Severity: severity,
				Category: category,
				Message:  "finding",
			}}, nil
		},
	}
}

func TestEngineRunsRulesAndCountsChecks(t *testing.T) {
	d1 := doc(t, "docs/misc/a.md", "# A\n")
	d2 := doc(t, "docs/misc/b.md", "# B\n")
	rctx := ctxWith(d1, d2)

	engine := NewEngine(
		findingRule("quality-101-test", CategoryLinks, SeverityMedium),
		&stubRule{id: "quality-102-clean", category: CategoryClarity, severity: SeverityLow},
	)

	run := engine.Run(rctx)

	assert.Equal(t, 2, run.Stats.FilesValidated)
	assert.Equal(t, 2, run.Stats.RulesRegistered)
	assert.Equal(t, 4, run.Stats.RulesExecuted)
	assert.Equal(t, 0, run.Stats.RulesSkipped)
	assert.Equal(t, 4, run.TotalChecks)
	assert.Equal(t, 2, run.ChecksByCategory[CategoryLinks])
	assert.Equal(t, 2, run.ChecksByCategory[CategoryClarity])
	assert.Len(t, run.Results, 2)
}

func TestEngineSkipsDisabledRules(t *testing.T) {
	d := doc(t, "docs/misc/a.md", "# A\n")
	rctx := ctxWith(d)
	disabled := false
	rctx.Config.Rules = map[string]resources.RuleSetting{
		"quality-101-test": {Enabled: &disabled},
	}

	engine := NewEngine(findingRule("quality-101-test", CategoryLinks, SeverityMedium))
	run := engine.Run(rctx)

	assert.Equal(t, 0, run.Stats.RulesExecuted)
	assert.Equal(t, 1, run.Stats.RulesSkipped)
	assert.Empty(t, run.Results)
	assert.Equal(t, 0, run.TotalChecks)
}

func TestEngineSkipsInapplicableTypes(t *testing.T) {
	d := doc(t, "docs/misc/a.md", "# A\n") // type other
	rctx := ctxWith(d)

	rule := findingRule("quality-101-test", CategoryLinks, SeverityMedium)
	rule.types = []docs.Type{docs.TypeArchitecture}

	run := NewEngine(rule).Run(rctx)
	assert.Equal(t, 0, run.Stats.RulesExecuted)
	assert.Equal(t, 1, run.Stats.RulesSkipped)
}

func TestEngineWIPExemptionSkipsCompletenessOnly(t *testing.T) {
	// A draft document with zero headings produces no completeness
	// results, while other rules still run.
	d := doc(t, "docs/architecture/new.md", "---\nstatus: draft\n---\nNo headings here.\n")
	require.True(t, d.Exempt())
	assert.Equal(t, "WIP: status marked as 'draft'", d.ExemptionReason())

	rctx := ctxWith(d)
	completeness := findingRule("quality-103-sections", CategoryCompleteness, SeverityCritical)
	structural := findingRule("quality-101-links", CategoryLinks, SeverityMedium)

	run := NewEngine(completeness, structural).Run(rctx)

	require.Len(t, run.Results, 1)
	assert.Equal(t, "quality-101-links", run.Results[0].RuleID)
	assert.Equal(t, 1, run.Stats.RulesExecuted)
	assert.Equal(t, 1, run.Stats.RulesSkipped)
	assert.Equal(t, 0, run.ChecksByCategory[CategoryCompleteness])
}

func TestEngineErrorBoundaryOnRuleError(t *testing.T) {
	d := doc(t, "docs/misc/a.md", "# A\n")
	rctx := ctxWith(d)

	bad := &stubRule{
		id:       "quality-104-bad",
		category: CategoryLinks,
		severity: SeverityMedium,
		validate: func(*docs.Document, *Context) ([]Result, error) {
			return nil, errors.New("boom")
		},
	}

	run := NewEngine(bad).Run(rctx)

	require.Len(t, run.Results, 1)
	assert.Equal(t, SeverityHigh, run.Results[0].Severity)
	assert.Contains(t, run.Results[0].Message, "internal validator fault")
	assert.Contains(t, run.Results[0].Message, "boom")
	assert.Empty(t, run.Results[0].Suggestion)
	require.Len(t, run.Stats.Errors, 1)
	// The run continued and the check was still counted.
	assert.Equal(t, 1, run.TotalChecks)
}

func TestEngineErrorBoundaryOnPanic(t *testing.T) {
	d := doc(t, "docs/misc/a.md", "# A\n")
	rctx := ctxWith(d)

	panicky := &stubRule{
		id:       "quality-105-panic",
		category: CategoryClarity,
		severity: SeverityLow,
		validate: func(*docs.Document, *Context) ([]Result, error) {
			panic("nil dereference")
		},
	}
	after := findingRule("quality-106-after", CategoryLinks, SeverityMedium)

	run := NewEngine(panicky, after).Run(rctx)

	require.Len(t, run.Results, 2)
	assert.Len(t, run.Stats.Errors, 1)
	assert.Equal(t, 2, run.Stats.RulesExecuted)
}

func TestEngineSeverityOverride(t *testing.T) {
	d := doc(t, "docs/misc/a.md", "# A\n")
	rctx := ctxWith(d)
	rctx.Config.Rules = map[string]resources.RuleSetting{
		"quality-101-test": {Severity: "low"},
	}

	run := NewEngine(findingRule("quality-101-test", CategoryLinks, SeverityCritical)).Run(rctx)

	require.Len(t, run.Results, 1)
	assert.Equal(t, SeverityLow, run.Results[0].Severity)
}

func TestEngineParseFailureEmitsInformationalResult(t *testing.T) {
	d := doc(t, "docs/misc/empty.md", "")
	require.Error(t, d.ParseErr)
	rctx := ctxWith(d)

	run := NewEngine().Run(rctx)

	require.Len(t, run.Results, 1)
	assert.Equal(t, "quality-000-parse", run.Results[0].RuleID)
	assert.Equal(t, SeverityLow, run.Results[0].Severity)
	assert.Equal(t, CategoryParse, run.Results[0].Category)
	assert.Equal(t, 1, run.ChecksByCategory[CategoryParse])
}

func TestEngineResultsSortedDeterministically(t *testing.T) {
	d1 := doc(t, "docs/misc/b.md", "# B\n")
	d2 := doc(t, "docs/misc/a.md", "# A\n")
	rctx := ctxWith(d1, d2)

	engine := NewEngine(findingRule("quality-101-test", CategoryLinks, SeverityMedium))
	run := engine.Run(rctx)

	require.Len(t, run.Results, 2)
	assert.Equal(t, "docs/misc/a.md", run.Results[0].File)
	assert.Equal(t, "docs/misc/b.md", run.Results[1].File)
}

func TestRuleErrorWrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := &RuleError{RuleID: "quality-104-bad", File: "docs/misc/a.md", Err: cause}

	assert.Equal(t, "internal validator fault in quality-104-bad: boom", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestSeverityRank(t *testing.T) {
	assert.Equal(t, 4, SeverityRank(SeverityCritical))
	assert.Equal(t, 3, SeverityRank(SeverityHigh))
	assert.Equal(t, 2, SeverityRank(SeverityMedium))
	assert.Equal(t, 1, SeverityRank(SeverityLow))
	assert.Equal(t, 0, SeverityRank(Severity("unknown")))
}
