// Package rules contains the concrete validation rules. New rules are added
// by implementing validate.Rule and appending to Default; the engine's
// control flow never changes.
package rules

import "github.com/julianshen/doccheck/internal/validate"

// Default returns the full rule set in id order.
func Default() []validate.Rule {
	return []validate.Rule{
		&InternalLinks{},
		&ExternalLinks{},
		&RequiredSections{},
		&CodeExamples{},
		&Terminology{},
		&VagueLanguage{},
	}
}
