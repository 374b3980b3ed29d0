package resources

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Term is one canonical terminology entry.
type Term struct {
	Term       string   `yaml:"term"`
	Definition string   `yaml:"definition"`
	Category   string   `yaml:"category"`
	Synonyms   []string `yaml:"synonyms"`
	Deprecated []string `yaml:"deprecated"`
	Usage      string   `yaml:"usage"`
}

// Glossary is the canonical terminology list for a run.
type Glossary struct {
	Terms []Term `yaml:"terms"`
}

// LoadGlossary loads the terminology list from path and enforces its
// invariants: term names are unique (case-insensitive), no synonym collides
// with another term's canonical name, and no deprecated alternative is itself
// a canonical name. A missing file returns an empty glossary and a warning; a
// malformed or invariant-violating file is a hard error naming the file.
func LoadGlossary(path string) (g *Glossary, warning string, err error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Glossary{}, fmt.Sprintf("glossary file %s not found, terminology checks will find nothing", path), nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("read glossary %s: %w", path, err)
	}

	g = &Glossary{}
	if err := yaml.Unmarshal(data, g); err != nil {
		return nil, "", fmt.Errorf("malformed glossary %s: %w", path, err)
	}
	if err := g.validate(); err != nil {
		return nil, "", fmt.Errorf("malformed glossary %s: %w", path, err)
	}

	return g, "", nil
}

func (g *Glossary) validate() error {
	canonical := make(map[string]string, len(g.Terms)) // lower -> declared
	for _, t := range g.Terms {
		name := strings.TrimSpace(t.Term)
		if name == "" {
			return fmt.Errorf("glossary entry with empty term name")
		}
		lower := strings.ToLower(name)
		if prev, ok := canonical[lower]; ok {
			return fmt.Errorf("duplicate term %q (already declared as %q)", name, prev)
		}
		canonical[lower] = name
	}

	for _, t := range g.Terms {
		own := strings.ToLower(t.Term)
		for _, syn := range t.Synonyms {
			lower := strings.ToLower(strings.TrimSpace(syn))
			if other, ok := canonical[lower]; ok && lower != own {
				return fmt.Errorf("synonym %q of term %q collides with canonical term %q", syn, t.Term, other)
			}
		}
		for _, dep := range t.Deprecated {
			lower := strings.ToLower(strings.TrimSpace(dep))
			if other, ok := canonical[lower]; ok {
				return fmt.Errorf("deprecated alternative %q of term %q is itself the canonical term %q", dep, t.Term, other)
			}
		}
	}

	return nil
}

// DeprecatedTerms maps every deprecated alternative (lowercased) to its
// canonical replacement across the whole glossary.
func (g *Glossary) DeprecatedTerms() map[string]string {
	out := make(map[string]string)
	for _, t := range g.Terms {
		for _, dep := range t.Deprecated {
			dep = strings.TrimSpace(dep)
			if dep != "" {
				out[strings.ToLower(dep)] = t.Term
			}
		}
	}
	return out
}
