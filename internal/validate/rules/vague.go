package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/julianshen/doccheck/internal/docs"
	"github.com/julianshen/doccheck/internal/validate"
)

// vaguePattern matches one untestable adjective as a whole word.
type vaguePattern struct {
	word    string
	pattern *regexp.Regexp
}

// vagueWords are adjectives with no testable meaning in a feature document.
var vagueWords = compileVague([]string{
	"robust",
	"intuitive",
	"seamless",
	"user-friendly",
	"performant",
	"scalable",
	"flexible",
	"powerful",
	"simple",
	"easy",
})

func compileVague(words []string) []vaguePattern {
	out := make([]vaguePattern, 0, len(words))
	for _, w := range words {
		out = append(out, vaguePattern{
			word:    w,
			pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(w) + `\b`),
		})
	}
	return out
}

// VagueLanguage flags untestable adjectives in feature documents.
type VagueLanguage struct{}

func (r *VagueLanguage) ID() string                  { return "quality-006-vague-language" }
func (r *VagueLanguage) Name() string                { return "Vague language" }
func (r *VagueLanguage) Category() validate.Category { return validate.CategoryClarity }
func (r *VagueLanguage) Severity() validate.Severity { return validate.SeverityLow }
func (r *VagueLanguage) AppliesTo() []docs.Type      { return []docs.Type{docs.TypeFeature} }

func (r *VagueLanguage) Validate(doc *docs.Document, _ *validate.Context) ([]validate.Result, error) {
	var results []validate.Result
	lines := strings.Split(doc.Raw, "\n")
	for i, line := range lines {
		for _, vp := range vagueWords {
			matches := vp.pattern.FindAllStringIndex(line, -1)
			for _, m := range matches {
				results = append(results, validate.Result{
					RuleID:     r.ID(),
					File:       doc.Path,
					Line:       i + 1,
					Column:     m[0] + 1,
					Severity:   r.Severity(),
					Category:   r.Category(),
					Message:    fmt.Sprintf("vague term %q is not testable", line[m[0]:m[1]]),
					Suggestion: fmt.Sprintf("Replace %q with a concrete, measurable statement.", line[m[0]:m[1]]),
					Context:    snippet(line, m[0], m[1]),
				})
			}
		}
	}
	return results, nil
}
