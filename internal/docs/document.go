package docs

import (
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianshen/doccheck/internal/markdown"
)

// pathHints maps path substrings to document types in fixed priority order.
// The first hint found in the path wins.
var pathHints = []struct {
	substr string
	typ    Type
}{
	{"architecture", TypeArchitecture},
	{"feature", TypeFeature},
	{"deploy", TypeDeployment},
	{"guide", TypeGuide},
	{"how-to", TypeGuide},
	{"reference", TypeReference},
	{"api", TypeReference},
}

// New builds a Document from disk state: it extracts frontmatter, infers the
// document type and lifecycle status, and parses the body into a tree. A body
// that cannot be parsed leaves Tree nil; the document is still classified.
func New(absPath, relPath string, raw []byte, modified time.Time) *Document {
	doc := &Document{
		Path:     strings.ReplaceAll(relPath, "\\", "/"),
		AbsPath:  absPath,
		Modified: modified,
		Raw:      string(raw),
	}

	body, meta, offset := extractFrontmatter(string(raw))
	doc.Body = body
	doc.Meta = meta
	doc.BodyOffset = offset

	doc.Type = inferType(meta.Type, doc.Path)
	doc.Status = resolveStatus(meta)

	tree, err := markdown.Parse([]byte(body))
	if err != nil {
		doc.ParseErr = err
	} else {
		doc.Tree = tree
	}

	return doc
}

// extractFrontmatter splits a YAML frontmatter block from the body. Malformed
// frontmatter is tolerated: the whole content becomes the body.
func extractFrontmatter(content string) (body string, meta Metadata, lineOffset int) {
	if !strings.HasPrefix(content, "---\n") && !strings.HasPrefix(content, "---\r\n") {
		return content, Metadata{}, 0
	}

	rest := content[strings.IndexByte(content, '\n')+1:]
	closeIdx := strings.Index(rest, "\n---")
	if closeIdx == -1 {
		return content, Metadata{}, 0
	}

	block := rest[:closeIdx]
	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		return content, Metadata{}, 0
	}

	after := rest[closeIdx+1:]
	if nl := strings.IndexByte(after, '\n'); nl >= 0 {
		body = after[nl+1:]
	} else {
		body = ""
	}

	// Opening delimiter, block lines, closing delimiter.
	lineOffset = strings.Count(block, "\n") + 3
	return body, meta, lineOffset
}

// inferType resolves the document type from declared metadata, falling back
// to path substrings in priority order.
func inferType(declared, path string) Type {
	switch Type(strings.ToLower(strings.TrimSpace(declared))) {
	case TypeGuide, TypeReference, TypeArchitecture, TypeFeature, TypeDeployment, TypeOther:
		return Type(strings.ToLower(strings.TrimSpace(declared)))
	}

	lower := strings.ToLower(path)
	for _, hint := range pathHints {
		if strings.Contains(lower, hint.substr) {
			return hint.typ
		}
	}
	return TypeOther
}

// resolveStatus resolves lifecycle status: explicit status wins, a wip flag
// implies draft, otherwise the document is complete.
func resolveStatus(meta Metadata) Status {
	switch Status(strings.ToLower(strings.TrimSpace(meta.Status))) {
	case StatusDraft:
		return StatusDraft
	case StatusWIP:
		return StatusWIP
	case StatusComplete:
		return StatusComplete
	case StatusDeprecated:
		return StatusDeprecated
	}
	if meta.WIP {
		return StatusDraft
	}
	return StatusComplete
}
