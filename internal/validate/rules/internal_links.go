package rules

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianshen/doccheck/internal/docs"
	"github.com/julianshen/doccheck/internal/validate"
)

// InternalLinks verifies that every relative link in a document resolves to
// an existing file.
type InternalLinks struct{}

func (r *InternalLinks) ID() string                  { return "quality-001-internal-links" }
func (r *InternalLinks) Name() string                { return "Internal link resolution" }
func (r *InternalLinks) Category() validate.Category { return validate.CategoryLinks }
func (r *InternalLinks) Severity() validate.Severity { return validate.SeverityCritical }
func (r *InternalLinks) AppliesTo() []docs.Type      { return nil }

// Validate resolves each relative link against the document's own directory
// and emits one critical result per broken link.
func (r *InternalLinks) Validate(doc *docs.Document, rctx *validate.Context) ([]validate.Result, error) {
	if doc.Tree == nil {
		return nil, nil
	}

	var results []validate.Result
	docDir := filepath.Dir(filepath.FromSlash(doc.Path))

	for _, link := range doc.Tree.Links {
		dest := link.Destination
		if strings.HasPrefix(dest, "#") {
			continue
		}
		if u, err := url.Parse(dest); err == nil && u.Scheme != "" {
			continue // external or mail scheme
		}
		if i := strings.IndexByte(dest, '#'); i >= 0 {
			dest = dest[:i]
		}
		if dest == "" {
			continue
		}

		resolved := filepath.Join(rctx.Root, docDir, filepath.FromSlash(dest))
		if _, err := os.Stat(resolved); err == nil {
			continue
		}

		results = append(results, validate.Result{
			RuleID:     r.ID(),
			File:       doc.Path,
			Line:       link.Line + doc.BodyOffset,
			Column:     link.Column,
			Severity:   r.Severity(),
			Category:   r.Category(),
			Message:    fmt.Sprintf("broken internal link %q: target does not exist", link.Destination),
			Suggestion: "Correct the link target or remove the link.",
		})
	}

	return results, nil
}
