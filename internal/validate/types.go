// Package validate defines the rule interface, the shared validation context,
// and the engine that applies every enabled rule to every applicable document
// with per-rule fault isolation.
package validate

import (
	"time"

	"github.com/julianshen/doccheck/internal/docs"
)

// Severity is the severity level of a validation result.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// SeverityRank returns a numeric rank for ordering severities.
// Critical=4, High=3, Medium=2, Low=1. Unknown severities return 0.
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Category groups rules by the quality concern they check.
type Category string

const (
	CategoryLinks        Category = "links"
	CategoryCompleteness Category = "completeness"
	CategoryTerminology  Category = "terminology"
	CategoryClarity      Category = "clarity"
	CategoryParse        Category = "parse"
)

// Result is one finding produced by a rule. Results are never mutated after
// creation, except for the engine applying configured severity overrides
// immediately after a rule returns.
type Result struct {
	RuleID     string   `json:"rule_id"`
	File       string   `json:"file"`
	Line       int      `json:"line,omitempty"`
	Column     int      `json:"column,omitempty"`
	Severity   Severity `json:"severity"`
	Category   Category `json:"category"`
	Passed     bool     `json:"passed"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
	Context    string   `json:"context,omitempty"`
}

// Rule is one validation check. Rules are stateless, registered once at
// process start, and own no mutable state.
type Rule interface {
	// ID is the stable rule identifier, e.g. "quality-001-internal-links".
	ID() string
	// Name is the human-readable rule name.
	Name() string
	// Category is the quality concern the rule checks.
	Category() Category
	// Severity is the default severity for results the rule produces.
	Severity() Severity
	// AppliesTo lists the document types the rule applies to. Empty means
	// all types.
	AppliesTo() []docs.Type
	// Validate checks one document against the shared context.
	Validate(doc *docs.Document, rctx *Context) ([]Result, error)
}

// LinkStatus is the lifecycle status of an external link cache entry.
type LinkStatus string

const (
	LinkActive     LinkStatus = "active"
	LinkBroken     LinkStatus = "broken"
	LinkDeprecated LinkStatus = "deprecated"
	LinkExempted   LinkStatus = "exempted"
	LinkUnchecked  LinkStatus = "unchecked"
)

// Link is one external link cache entry. Entries are mutated in place as
// checks complete within a run and are not persisted across runs.
type Link struct {
	URL         string     `json:"url"`
	Domain      string     `json:"domain"`
	File        string     `json:"file"`
	LastChecked time.Time  `json:"last_checked,omitzero"`
	Status      LinkStatus `json:"status"`
	HTTPStatus  int        `json:"http_status,omitempty"`
	Exempted    bool       `json:"exempted,omitempty"`
}

// Stats records what the engine actually did in a run, kept for the console
// summary and as an audit trail in the JSON artifact.
type Stats struct {
	RulesRegistered int      `json:"rules_registered"`
	RulesExecuted   int      `json:"rules_executed"`
	RulesSkipped    int      `json:"rules_skipped"`
	FilesValidated  int      `json:"files_validated"`
	Errors          []string `json:"errors,omitempty"`
}
