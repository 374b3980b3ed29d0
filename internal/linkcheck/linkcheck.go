// Package linkcheck performs the explicit, separately-enabled network pass
// over external links collected during validation. Requests to one domain are
// serialized behind a per-domain rate limiter; different domains are checked
// concurrently.
package linkcheck

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/time/rate"

	"github.com/julianshen/doccheck/internal/validate"
	"github.com/julianshen/doccheck/internal/validate/rules"
)

// defaultRequestsPerSecond is the per-domain rate limit when no override is
// configured.
const defaultRequestsPerSecond = 1.0

// maxConcurrentDomains caps how many domains are probed at once.
const maxConcurrentDomains = 8

// Checker probes external links over HTTP.
type Checker struct {
	client    *http.Client
	overrides map[string]float64

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// New creates a Checker with the given request timeout and per-domain rate
// limit overrides (requests per second).
func New(timeout time.Duration, overrides map[string]float64) *Checker {
	return &Checker{
		client:    &http.Client{Timeout: timeout},
		overrides: overrides,
		limiters:  make(map[string]*rate.Limiter),
	}
}

// limiter returns the rate limiter for a domain, creating it on first use.
func (c *Checker) limiter(domain string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	if lim, ok := c.limiters[domain]; ok {
		return lim
	}
	rps := defaultRequestsPerSecond
	if override, ok := c.overrides[domain]; ok && override > 0 {
		rps = override
	}
	lim := rate.NewLimiter(rate.Limit(rps), 1)
	c.limiters[domain] = lim
	return lim
}

// Check probes every unchecked entry in the cache, updating each entry in
// place, and returns a medium-severity result for every broken link. Results
// are ordered by file then URL.
func (c *Checker) Check(ctx context.Context, cache *validate.LinkCache) []validate.Result {
	unchecked := cache.WithStatus(validate.LinkUnchecked)
	if len(unchecked) == 0 {
		return nil
	}

	byDomain := make(map[string][]validate.Link)
	for _, link := range unchecked {
		byDomain[link.Domain] = append(byDomain[link.Domain], link)
	}

	rule := &rules.ExternalLinks{}
	var mu sync.Mutex
	var results []validate.Result

	p := pool.New().WithMaxGoroutines(maxConcurrentDomains)
	for domain, links := range byDomain {
		domain, links := domain, links
		p.Go(func() {
			lim := c.limiter(domain)
			for _, link := range links {
				if err := lim.Wait(ctx); err != nil {
					return
				}

				status, err := c.probe(ctx, link.URL)
				now := time.Now()
				broken := err != nil || status >= 400

				cache.Update(link.URL, func(l *validate.Link) {
					l.LastChecked = now
					l.HTTPStatus = status
					if broken {
						l.Status = validate.LinkBroken
					} else {
						l.Status = validate.LinkActive
					}
				})

				if !broken {
					continue
				}

				message := fmt.Sprintf("external link %s returned HTTP %d", link.URL, status)
				if err != nil {
					message = fmt.Sprintf("external link %s is unreachable: %v", link.URL, err)
				}
				mu.Lock()
				results = append(results, validate.Result{
					RuleID:     rule.ID(),
					File:       link.File,
					Severity:   rule.Severity(),
					Category:   rule.Category(),
					Message:    message,
					Suggestion: "Update or remove the broken link, or add an exemption with a reason.",
				})
				mu.Unlock()
			}
		})
	}
	p.Wait()

	sort.Slice(results, func(i, j int) bool {
		if results[i].File != results[j].File {
			return results[i].File < results[j].File
		}
		return results[i].Message < results[j].Message
	})
	return results
}

// probe issues a HEAD request (falling back to GET when HEAD is rejected)
// with exponential backoff on transient failures. A final status is returned
// even when retries were exhausted on server errors; err is non-nil only when
// no response was ever received.
func (c *Checker) probe(ctx context.Context, url string) (int, error) {
	var status int

	op := func() error {
		resp, err := c.do(ctx, http.MethodHead, url)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusNotImplemented {
			resp, err = c.do(ctx, http.MethodGet, url)
			if err != nil {
				return err
			}
		}
		status = resp.StatusCode
		if status >= 500 {
			return fmt.Errorf("HTTP %d", status)
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxElapsedTime = 10 * time.Second

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, 3), ctx))
	if err != nil && status == 0 {
		return 0, err
	}
	return status, nil
}

func (c *Checker) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<10))
	resp.Body.Close()
	return resp, nil
}
