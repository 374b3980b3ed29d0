package validate

import (
	"github.com/julianshen/doccheck/internal/docs"
	"github.com/julianshen/doccheck/internal/resources"
)

// Context is the shared, read-only value bag passed to every rule invocation.
// The link cache is the only member mutated during a run.
type Context struct {
	Root         string
	ChangedFiles []string
	Documents    []*docs.Document
	Glossary     *resources.Glossary
	Exemptions   *resources.Exemptions
	Config       *resources.Config
	Links        *LinkCache
}

// ResourcePaths names the three side-input files for a run.
type ResourcePaths struct {
	Config     string
	Glossary   string
	Exemptions string
}

// BuildContext assembles the validation context: it loads the three side
// inputs and initializes an empty link cache. No network or rule logic runs
// here. Returned warnings cover missing or degraded resources; the error is
// non-nil only for setup failures (malformed configuration or glossary).
func BuildContext(root string, changed []string, documents []*docs.Document, paths ResourcePaths) (*Context, []string, error) {
	var warnings []string

	cfg, warning, err := resources.LoadConfig(paths.Config)
	if err != nil {
		return nil, nil, err
	}
	if warning != "" {
		warnings = append(warnings, warning)
	}

	glossary, warning, err := resources.LoadGlossary(paths.Glossary)
	if err != nil {
		return nil, nil, err
	}
	if warning != "" {
		warnings = append(warnings, warning)
	}

	exemptions, warning := resources.LoadExemptions(paths.Exemptions)
	if warning != "" {
		warnings = append(warnings, warning)
	}

	return &Context{
		Root:         root,
		ChangedFiles: changed,
		Documents:    documents,
		Glossary:     glossary,
		Exemptions:   exemptions,
		Config:       cfg,
		Links:        NewLinkCache(),
	}, warnings, nil
}
