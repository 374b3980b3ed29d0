package rules

import (
	"github.com/julianshen/doccheck/internal/docs"
	"github.com/julianshen/doccheck/internal/validate"
)

// CodeExamples checks that reference and guide documents contain at least one
// fenced code block.
type CodeExamples struct{}

func (r *CodeExamples) ID() string                  { return "quality-004-code-examples" }
func (r *CodeExamples) Name() string                { return "Code example presence" }
func (r *CodeExamples) Category() validate.Category { return validate.CategoryCompleteness }
func (r *CodeExamples) Severity() validate.Severity { return validate.SeverityHigh }

func (r *CodeExamples) AppliesTo() []docs.Type {
	return []docs.Type{docs.TypeReference, docs.TypeGuide}
}

func (r *CodeExamples) Validate(doc *docs.Document, _ *validate.Context) ([]validate.Result, error) {
	if doc.Tree == nil {
		return nil, nil
	}
	if doc.Tree.CodeBlocks > 0 {
		return nil, nil
	}

	return []validate.Result{{
		RuleID:     r.ID(),
		File:       doc.Path,
		Severity:   r.Severity(),
		Category:   r.Category(),
		Message:    "document contains no code examples",
		Suggestion: "Add at least one fenced code block demonstrating usage.",
	}}, nil
}
