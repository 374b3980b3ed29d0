package rules

import (
	"fmt"
	"strings"

	"github.com/julianshen/doccheck/internal/docs"
	"github.com/julianshen/doccheck/internal/validate"
)

// requiredSections maps document types to the headings they must contain.
// Types absent from the map have no section requirements.
var requiredSections = map[docs.Type][]string{
	docs.TypeArchitecture: {"Overview", "Schema", "Security"},
	docs.TypeFeature:      {"Overview", "User Flows", "Acceptance Criteria"},
	docs.TypeDeployment:   {"Prerequisites", "Steps", "Rollback"},
	docs.TypeGuide:        {"Overview", "Steps"},
}

// RequiredSections checks that typed documents contain their required
// headings. A heading matches by exact or substring comparison,
// case-insensitive.
type RequiredSections struct{}

func (r *RequiredSections) ID() string                  { return "quality-003-required-sections" }
func (r *RequiredSections) Name() string                { return "Required sections" }
func (r *RequiredSections) Category() validate.Category { return validate.CategoryCompleteness }
func (r *RequiredSections) Severity() validate.Severity { return validate.SeverityCritical }

func (r *RequiredSections) AppliesTo() []docs.Type {
	return []docs.Type{docs.TypeArchitecture, docs.TypeFeature, docs.TypeDeployment, docs.TypeGuide}
}

func (r *RequiredSections) Validate(doc *docs.Document, _ *validate.Context) ([]validate.Result, error) {
	if doc.Tree == nil {
		return nil, nil
	}

	required := requiredSections[doc.Type]
	if len(required) == 0 {
		return nil, nil
	}

	headings := make([]string, 0, len(doc.Tree.Headings))
	for _, h := range doc.Tree.Headings {
		headings = append(headings, strings.ToLower(h.Text))
	}

	var results []validate.Result
	for _, want := range required {
		if !matchHeading(headings, strings.ToLower(want)) {
			results = append(results, validate.Result{
				RuleID:     r.ID(),
				File:       doc.Path,
				Severity:   r.Severity(),
				Category:   r.Category(),
				Message:    fmt.Sprintf("missing required section %q for %s document", want, doc.Type),
				Suggestion: fmt.Sprintf("Add a %q section.", want),
			})
		}
	}

	return results, nil
}

func matchHeading(headings []string, want string) bool {
	for _, h := range headings {
		if h == want || strings.Contains(h, want) {
			return true
		}
	}
	return false
}
