package resources

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "docs", cfg.DocsRoot)
	assert.Equal(t, 24*time.Hour, time.Duration(cfg.ExternalLinks.CacheDuration))
	assert.True(t, cfg.RuleEnabled("quality-001-internal-links"))
	assert.Empty(t, cfg.SeverityOverride("quality-001-internal-links"))
}

func TestLoadConfigMissingReturnsDefaults(t *testing.T) {
	cfg, warning, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.NotEmpty(t, warning)
	assert.Equal(t, "docs", cfg.DocsRoot)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeFile(t, "config.yaml", `
docs_root: documentation
incremental: true
excluded_paths:
  - "archive/**"
external_links:
  cache_duration: 1h
  rate_limits:
    github.com: 2
rules:
  quality-004-code-examples:
    enabled: false
  quality-006-vague-language:
    severity: medium
`)
	cfg, warning, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.Equal(t, "documentation", cfg.DocsRoot)
	assert.True(t, cfg.Incremental)
	assert.Equal(t, []string{"archive/**"}, cfg.ExcludedPaths)
	assert.Equal(t, time.Hour, time.Duration(cfg.ExternalLinks.CacheDuration))
	assert.Equal(t, 2.0, cfg.ExternalLinks.RateLimits["github.com"])
	assert.False(t, cfg.RuleEnabled("quality-004-code-examples"))
	assert.True(t, cfg.RuleEnabled("quality-001-internal-links"))
	assert.Equal(t, "medium", cfg.SeverityOverride("quality-006-vague-language"))
}

func TestLoadConfigMalformedIsFatal(t *testing.T) {
	path := writeFile(t, "config.yaml", "docs_root: [unclosed\n")
	_, _, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestLoadConfigUnknownSeverityIsFatal(t *testing.T) {
	path := writeFile(t, "config.yaml", `
rules:
  quality-001-internal-links:
    severity: catastrophic
`)
	_, _, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catastrophic")
}

func TestLoadGlossary(t *testing.T) {
	path := writeFile(t, "glossary.yaml", `
terms:
  - term: Asset Identifier
    definition: Unique identifier for a tracked asset.
    synonyms: ["asset ID"]
    deprecated: ["Equipment ID", "equipment number"]
  - term: Work Order
    definition: A unit of scheduled maintenance work.
`)
	g, warning, err := LoadGlossary(path)
	require.NoError(t, err)
	assert.Empty(t, warning)
	require.Len(t, g.Terms, 2)

	dep := g.DeprecatedTerms()
	assert.Equal(t, "Asset Identifier", dep["equipment id"])
	assert.Equal(t, "Asset Identifier", dep["equipment number"])
}

func TestLoadGlossaryMissingReturnsEmpty(t *testing.T) {
	g, warning, err := LoadGlossary(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.NotEmpty(t, warning)
	assert.Empty(t, g.Terms)
}

func TestGlossaryDuplicateTermRejected(t *testing.T) {
	path := writeFile(t, "glossary.yaml", `
terms:
  - term: Asset Identifier
  - term: asset identifier
`)
	_, _, err := LoadGlossary(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate term")
}

func TestGlossarySynonymCollisionRejected(t *testing.T) {
	path := writeFile(t, "glossary.yaml", `
terms:
  - term: Asset Identifier
    synonyms: ["work order"]
  - term: Work Order
`)
	_, _, err := LoadGlossary(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collides")
}

func TestGlossaryDeprecatedCollisionRejected(t *testing.T) {
	path := writeFile(t, "glossary.yaml", `
terms:
  - term: Asset Identifier
    deprecated: ["Work Order"]
  - term: Work Order
`)
	_, _, err := LoadGlossary(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "canonical term")
}

func TestLoadExemptions(t *testing.T) {
	path := writeFile(t, "exemptions.yaml", `
links:
  - url: https://intranet.example.com/wiki
    reason: VPN only
  - domain: localhost
`)
	e, warning := LoadExemptions(path)
	assert.Empty(t, warning)

	reason, ok := e.Match("https://intranet.example.com/wiki")
	assert.True(t, ok)
	assert.Equal(t, "VPN only", reason)

	reason, ok = e.Match("http://localhost:3000/health")
	assert.True(t, ok)
	assert.Equal(t, "exempted", reason)

	_, ok = e.Match("https://example.com/page")
	assert.False(t, ok)
}

func TestExemptionsDomainMatchesSubdomains(t *testing.T) {
	e := &Exemptions{Links: []LinkExemption{{Domain: "example.com", Reason: "flaky"}}}
	_, ok := e.Match("https://docs.example.com/page")
	assert.True(t, ok)
	_, ok = e.Match("https://notexample.com/page")
	assert.False(t, ok)
}

func TestLoadExemptionsMalformedDegrades(t *testing.T) {
	path := writeFile(t, "exemptions.yaml", "links: [unclosed\n")
	e, warning := LoadExemptions(path)
	assert.NotEmpty(t, warning)
	assert.Empty(t, e.Links)
}
