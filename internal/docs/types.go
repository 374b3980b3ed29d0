// Package docs models documentation files: typed metadata, document type and
// lifecycle status inference, and work-in-progress exemption resolution.
package docs

import (
	"time"

	"github.com/julianshen/doccheck/internal/markdown"
)

// Type classifies a documentation file.
type Type string

const (
	TypeGuide        Type = "guide"
	TypeReference    Type = "reference"
	TypeArchitecture Type = "architecture"
	TypeFeature      Type = "feature"
	TypeDeployment   Type = "deployment"
	TypeOther        Type = "other"
)

// Status is the lifecycle status of a documentation file.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusWIP        Status = "wip"
	StatusComplete   Status = "complete"
	StatusDeprecated Status = "deprecated"
)

// Metadata holds the recognized frontmatter fields. Unrecognized fields are
// preserved in Extra so arbitrary frontmatter never fails classification.
type Metadata struct {
	Title  string         `yaml:"title"`
	Type   string         `yaml:"type"`
	Status string         `yaml:"status"`
	WIP    bool           `yaml:"wip"`
	Extra  map[string]any `yaml:",inline"`
}

// Document is an immutable record of one documentation file, created once per
// validation run from disk state.
type Document struct {
	Path     string // repository-relative, forward slashes
	AbsPath  string
	Type     Type
	Status   Status
	Modified time.Time
	Meta     Metadata
	Raw      string // full file content
	Body     string // content with frontmatter stripped

	// BodyOffset is the number of lines the frontmatter block occupies;
	// tree positions are offset by it to reach whole-file coordinates.
	BodyOffset int

	// Tree is nil when the body could not be parsed; ParseErr records why.
	Tree     *markdown.Tree
	ParseErr error
}

// IsWorkInProgress reports whether the document is explicitly marked as not
// yet complete.
func (d *Document) IsWorkInProgress() bool {
	return d.Status == StatusDraft || d.Status == StatusWIP
}

// RequiresFullValidation is the negation of IsWorkInProgress.
func (d *Document) RequiresFullValidation() bool {
	return !d.IsWorkInProgress()
}

// ExemptionReason returns the human-readable reason this document is exempt
// from completeness checks, or "" when it is not exempt.
func (d *Document) ExemptionReason() string {
	switch {
	case d.Meta.Status == string(StatusDraft):
		return "WIP: status marked as 'draft'"
	case d.Meta.Status == string(StatusWIP):
		return "WIP: status marked as 'wip'"
	case d.Meta.WIP:
		return "WIP: wip flag set"
	case d.Status == StatusDeprecated:
		return "Deprecated: marked for archival"
	}
	return ""
}

// Exempt reports whether completeness-oriented rules should be skipped.
func (d *Document) Exempt() bool {
	return d.ExemptionReason() != ""
}
