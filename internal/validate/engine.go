package validate

import (
	"fmt"
	"sort"

	"github.com/julianshen/doccheck/internal/docs"
)

// parseRuleID tags the informational result emitted for documents whose body
// could not be parsed into a tree.
const parseRuleID = "quality-000-parse"

// RuleError records a failure inside one rule invocation. The engine converts
// it into a synthetic result; it never aborts the run.
type RuleError struct {
	RuleID string
	File   string
	Err    error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("internal validator fault in %s: %v", e.RuleID, e.Err)
}

func (e *RuleError) Unwrap() error { return e.Err }

// RunResult is everything a run produced: findings, execution statistics, and
// the check counts the scoring engine divides by.
type RunResult struct {
	Results          []Result
	Stats            Stats
	TotalChecks      int
	ChecksByCategory map[Category]int
}

// Engine applies every registered rule to every applicable document. A
// failure inside one rule is converted into a synthetic finding so one bad
// rule cannot abort the run.
type Engine struct {
	rules []Rule
}

// NewEngine creates an Engine with the given rules.
func NewEngine(rules ...Rule) *Engine {
	return &Engine{rules: rules}
}

// Register appends a rule to the engine.
func (e *Engine) Register(r Rule) {
	e.rules = append(e.rules, r)
}

// Run validates every document sequentially. Rules are skipped when disabled
// by configuration, when their applicable-type set excludes the document, or
// when the document is exempt and the rule checks completeness. Configured
// severity overrides replace the rule's default severity in every result the
// rule produced.
func (e *Engine) Run(rctx *Context) *RunResult {
	run := &RunResult{
		ChecksByCategory: make(map[Category]int),
	}
	run.Stats.RulesRegistered = len(e.rules)

	for _, doc := range rctx.Documents {
		run.Stats.FilesValidated++

		if doc.ParseErr != nil {
			run.Results = append(run.Results, Result{
				RuleID:   parseRuleID,
				File:     doc.Path,
				Severity: SeverityLow,
				Category: CategoryParse,
				Message:  fmt.Sprintf("document could not be parsed: %v", doc.ParseErr),
			})
			run.countCheck(CategoryParse)
		}

		for _, rule := range e.rules {
			if !rctx.Config.RuleEnabled(rule.ID()) {
				run.Stats.RulesSkipped++
				continue
			}
			if !applies(rule, doc.Type) {
				run.Stats.RulesSkipped++
				continue
			}
			if doc.Exempt() && rule.Category() == CategoryCompleteness {
				run.Stats.RulesSkipped++
				continue
			}

			results := e.invoke(rule, doc, rctx, &run.Stats)

			if override := Severity(rctx.Config.SeverityOverride(rule.ID())); override != "" {
				for i := range results {
					results[i].Severity = override
				}
			}

			run.Results = append(run.Results, results...)
			run.Stats.RulesExecuted++
			run.countCheck(rule.Category())
		}
	}

	sortResults(run.Results)
	return run
}

// invoke runs one rule on one document inside an error boundary. A returned
// error or a panic becomes a single high-severity synthetic result describing
// an internal validator fault.
func (e *Engine) invoke(rule Rule, doc *docs.Document, rctx *Context, stats *Stats) (results []Result) {
	defer func() {
		if r := recover(); r != nil {
			rerr := &RuleError{RuleID: rule.ID(), File: doc.Path, Err: fmt.Errorf("%v", r)}
			stats.Errors = append(stats.Errors, rerr.Error())
			results = []Result{faultResult(rule, doc.Path, rerr.Error())}
		}
	}()

	results, err := rule.Validate(doc, rctx)
	if err != nil {
		rerr := &RuleError{RuleID: rule.ID(), File: doc.Path, Err: err}
		stats.Errors = append(stats.Errors, rerr.Error())
		return []Result{faultResult(rule, doc.Path, rerr.Error())}
	}
	return results
}

func faultResult(rule Rule, file, msg string) Result {
	return Result{
		RuleID:   rule.ID(),
		File:     file,
		Severity: SeverityHigh,
		Category: rule.Category(),
		Message:  msg,
	}
}

func (r *RunResult) countCheck(cat Category) {
	r.TotalChecks++
	r.ChecksByCategory[cat]++
}

func applies(rule Rule, typ docs.Type) bool {
	types := rule.AppliesTo()
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if t == typ {
			return true
		}
	}
	return false
}

// sortResults orders results deterministically by file, line, then rule id,
// so repeated runs over an unchanged corpus report identically.
func sortResults(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].File != results[j].File {
			return results[i].File < results[j].File
		}
		if results[i].Line != results[j].Line {
			return results[i].Line < results[j].Line
		}
		return results[i].RuleID < results[j].RuleID
	})
}
