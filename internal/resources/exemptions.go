package resources

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LinkExemption exempts one URL or a whole domain from reachability checks.
type LinkExemption struct {
	URL    string `yaml:"url"`
	Domain string `yaml:"domain"`
	Reason string `yaml:"reason"`
}

// Exemptions is the link exemption list for a run.
type Exemptions struct {
	Links []LinkExemption `yaml:"links"`
}

// LoadExemptions loads the exemption list from path. Exemptions are
// best-effort: both a missing and a malformed file degrade to an empty list
// with a warning, never an error.
func LoadExemptions(path string) (e *Exemptions, warning string) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Exemptions{}, fmt.Sprintf("exemption file %s not found, no links exempted", path)
	}
	if err != nil {
		return &Exemptions{}, fmt.Sprintf("cannot read exemption file %s: %v, no links exempted", path, err)
	}

	e = &Exemptions{}
	if err := yaml.Unmarshal(data, e); err != nil {
		return &Exemptions{}, fmt.Sprintf("malformed exemption file %s: %v, no links exempted", path, err)
	}

	return e, ""
}

// Match returns the exemption reason for a URL, matching by exact URL or by
// domain (including subdomains). The second return is false when the URL is
// not exempt.
func (e *Exemptions) Match(rawURL string) (string, bool) {
	parsed, err := url.Parse(rawURL)
	host := ""
	if err == nil {
		host = strings.ToLower(parsed.Hostname())
	}

	for _, ex := range e.Links {
		if ex.URL != "" && ex.URL == rawURL {
			return reasonOrDefault(ex.Reason), true
		}
		if ex.Domain != "" && host != "" {
			domain := strings.ToLower(ex.Domain)
			if host == domain || strings.HasSuffix(host, "."+domain) {
				return reasonOrDefault(ex.Reason), true
			}
		}
	}
	return "", false
}

func reasonOrDefault(reason string) string {
	if reason == "" {
		return "exempted"
	}
	return reason
}
