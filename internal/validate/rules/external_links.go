package rules

import (
	"fmt"
	"net/url"
	"time"

	"github.com/julianshen/doccheck/internal/docs"
	"github.com/julianshen/doccheck/internal/validate"
)

// ExternalLinks collects external links into the run's shared cache and
// reports entries already known to be broken. Network checks are a separate,
// explicitly enabled pass (see internal/linkcheck); this rule never touches
// the network.
type ExternalLinks struct{}

func (r *ExternalLinks) ID() string                  { return "quality-002-external-links" }
func (r *ExternalLinks) Name() string                { return "External link reachability" }
func (r *ExternalLinks) Category() validate.Category { return validate.CategoryLinks }
func (r *ExternalLinks) Severity() validate.Severity { return validate.SeverityMedium }
func (r *ExternalLinks) AppliesTo() []docs.Type      { return nil }

// Validate registers every http(s) link in the cache. Exempted links are
// marked as such; cached entries younger than the configured cache duration
// with a broken status are reported; everything else is marked unchecked for
// the network pass.
func (r *ExternalLinks) Validate(doc *docs.Document, rctx *validate.Context) ([]validate.Result, error) {
	if doc.Tree == nil {
		return nil, nil
	}

	cacheFor := time.Duration(rctx.Config.ExternalLinks.CacheDuration)
	var results []validate.Result

	for _, link := range doc.Tree.Links {
		u, err := url.Parse(link.Destination)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			continue
		}

		if _, exempt := rctx.Exemptions.Match(link.Destination); exempt {
			rctx.Links.PutIfAbsent(validate.Link{
				URL:      link.Destination,
				Domain:   u.Hostname(),
				File:     doc.Path,
				Status:   validate.LinkExempted,
				Exempted: true,
			})
			continue
		}

		entry, cached := rctx.Links.Get(link.Destination)
		if cached && entry.Status == validate.LinkBroken && time.Since(entry.LastChecked) < cacheFor {
			results = append(results, validate.Result{
				RuleID:     r.ID(),
				File:       doc.Path,
				Line:       link.Line + doc.BodyOffset,
				Column:     link.Column,
				Severity:   r.Severity(),
				Category:   r.Category(),
				Message:    fmt.Sprintf("external link %s is broken (HTTP %d)", link.Destination, entry.HTTPStatus),
				Suggestion: "Update or remove the broken link, or add an exemption with a reason.",
			})
			continue
		}

		if !cached {
			rctx.Links.PutIfAbsent(validate.Link{
				URL:    link.Destination,
				Domain: u.Hostname(),
				File:   doc.Path,
				Status: validate.LinkUnchecked,
			})
		}
	}

	return results, nil
}
