package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/julianshen/doccheck/internal/docs"
	"github.com/julianshen/doccheck/internal/validate"
)

// Terminology scans raw text line by line for deprecated terms declared in
// the glossary, matching whole words case-insensitively.
type Terminology struct{}

func (r *Terminology) ID() string                  { return "quality-005-terminology" }
func (r *Terminology) Name() string                { return "Canonical terminology" }
func (r *Terminology) Category() validate.Category { return validate.CategoryTerminology }
func (r *Terminology) Severity() validate.Severity { return validate.SeverityMedium }
func (r *Terminology) AppliesTo() []docs.Type      { return nil }

func (r *Terminology) Validate(doc *docs.Document, rctx *validate.Context) ([]validate.Result, error) {
	deprecated := rctx.Glossary.DeprecatedTerms()
	if len(deprecated) == 0 {
		return nil, nil
	}

	terms := make([]string, 0, len(deprecated))
	for term := range deprecated {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	patterns := make(map[string]*regexp.Regexp, len(deprecated))
	for _, term := range terms {
		pat, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
		if err != nil {
			return nil, fmt.Errorf("compile pattern for term %q: %w", term, err)
		}
		patterns[term] = pat
	}

	var results []validate.Result
	lines := strings.Split(doc.Raw, "\n")
	for i, line := range lines {
		for _, term := range terms {
			canonical := deprecated[term]
			matches := patterns[term].FindAllStringIndex(line, -1)
			for _, m := range matches {
				results = append(results, validate.Result{
					RuleID:     r.ID(),
					File:       doc.Path,
					Line:       i + 1,
					Column:     m[0] + 1,
					Severity:   r.Severity(),
					Category:   r.Category(),
					Message:    fmt.Sprintf("deprecated term %q; use %q instead", line[m[0]:m[1]], canonical),
					Suggestion: canonical,
					Context:    snippet(line, m[0], m[1]),
				})
			}
		}
	}

	return results, nil
}

// snippet returns the matched text with up to 20 characters of surrounding
// context on each side.
func snippet(line string, start, end int) string {
	from := start - 20
	if from < 0 {
		from = 0
	}
	to := end + 20
	if to > len(line) {
		to = len(line)
	}
	return strings.TrimSpace(line[from:to])
}
