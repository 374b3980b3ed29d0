// Package output renders the aggregated validation report for humans
// (terminal) and machines (JSON artifact). Reporters are pure consumers of
// the data produced by the engine and the metrics package.
package output

import (
	"github.com/julianshen/doccheck/internal/metrics"
	"github.com/julianshen/doccheck/internal/validate"
)

// ExemptedFile pairs an exempted document with the human-readable reason.
type ExemptedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Artifact is the complete machine-readable record of one validation run.
type Artifact struct {
	Report         *metrics.Report   `json:"report"`
	Results        []validate.Result `json:"results"`
	ValidatedFiles []string          `json:"validated_files"`
	ExemptedFiles  []ExemptedFile    `json:"exempted_files"`
	ExternalLinks  []validate.Link   `json:"external_links,omitempty"`
	Stats          validate.Stats    `json:"stats"`
}
