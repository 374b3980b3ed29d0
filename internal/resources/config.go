// Package resources loads the three validation side-inputs: rule
// configuration, the canonical terminology glossary, and the link exemption
// list. Each loader substitutes schema-valid defaults when its file is
// missing; malformed configuration and glossary files are hard errors, a
// malformed exemption list degrades to defaults.
package resources

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "24h".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// RuleSetting is a per-rule override: enablement and severity replacement.
type RuleSetting struct {
	Enabled  *bool  `yaml:"enabled"`
	Severity string `yaml:"severity"`
}

// ExternalLinkConfig controls external link checking.
type ExternalLinkConfig struct {
	CacheDuration Duration `yaml:"cache_duration"`
	// RateLimits maps a domain to its maximum requests per second. Domains
	// not listed use one request per second.
	RateLimits map[string]float64 `yaml:"rate_limits"`
}

// Config is the resolved rule configuration for a validation run.
type Config struct {
	DocsRoot      string                 `yaml:"docs_root"`
	Incremental   bool                   `yaml:"incremental"`
	ExcludedPaths []string               `yaml:"excluded_paths"`
	ExternalLinks ExternalLinkConfig     `yaml:"external_links"`
	Rules         map[string]RuleSetting `yaml:"rules"`
}

// DefaultConfig returns a Config populated with safe default values.
func DefaultConfig() *Config {
	return &Config{
		DocsRoot: "docs",
		ExcludedPaths: []string{
			"**/node_modules/**",
			".git/**",
		},
		ExternalLinks: ExternalLinkConfig{
			CacheDuration: Duration(24 * time.Hour),
		},
		Rules: map[string]RuleSetting{},
	}
}

// validSeverities is the closed set accepted in severity overrides.
var validSeverities = map[string]bool{
	"critical": true,
	"high":     true,
	"medium":   true,
	"low":      true,
}

// LoadConfig loads the rule configuration from path. A missing file returns
// defaults and a warning; a malformed file is a hard error naming the file.
func LoadConfig(path string) (cfg *Config, warning string, err error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), fmt.Sprintf("config file %s not found, using defaults", path), nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("read config %s: %w", path, err)
	}

	cfg = DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, "", fmt.Errorf("malformed config %s: %w", path, err)
	}

	for id, setting := range cfg.Rules {
		if setting.Severity != "" && !validSeverities[setting.Severity] {
			return nil, "", fmt.Errorf("malformed config %s: rule %s has unknown severity %q", path, id, setting.Severity)
		}
	}
	if cfg.ExternalLinks.CacheDuration <= 0 {
		cfg.ExternalLinks.CacheDuration = Duration(24 * time.Hour)
	}

	return cfg, "", nil
}

// RuleEnabled reports whether a rule is enabled. Rules are enabled unless
// explicitly disabled.
func (c *Config) RuleEnabled(id string) bool {
	setting, ok := c.Rules[id]
	if !ok || setting.Enabled == nil {
		return true
	}
	return *setting.Enabled
}

// SeverityOverride returns the configured severity replacement for a rule,
// or "" when the rule's default applies.
func (c *Config) SeverityOverride(id string) string {
	return c.Rules[id].Severity
}
