// Package markdown wraps goldmark to expose documentation structure — headings,
// links, and code blocks with source positions — as a navigable tree.
package markdown

import (
	"bytes"
	"errors"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ErrEmptyDocument is returned when the source contains no content to parse.
var ErrEmptyDocument = errors.New("empty document")

// ErrInvalidEncoding is returned when the source is not valid UTF-8.
var ErrInvalidEncoding = errors.New("source is not valid UTF-8")

// Heading is a section heading with its 1-indexed source line.
type Heading struct {
	Level int
	Text  string
	Line  int
}

// Link is a markdown link or autolink with its 1-indexed source position.
type Link struct {
	Destination string
	Text        string
	Line        int
	Column      int
}

// Tree is the parsed structure of a markdown document.
type Tree struct {
	Headings   []Heading
	Links      []Link
	CodeBlocks int
}

// Parse parses markdown source into a Tree. Frontmatter must already be
// stripped; positions are relative to the given source.
func Parse(source []byte) (*Tree, error) {
	if len(bytes.TrimSpace(source)) == 0 {
		return nil, ErrEmptyDocument
	}
	if !utf8.Valid(source) {
		return nil, ErrInvalidEncoding
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(source))

	idx := newLineIndex(source)
	tree := &Tree{}

	// Cursor for locating autolinks, which expose no segment of their own.
	autoCursor := 0

	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			line, _ := idx.position(blockOffset(node))
			tree.Headings = append(tree.Headings, Heading{
				Level: node.Level,
				Text:  nodeText(node, source),
				Line:  line,
			})

		case *ast.Link:
			off := inlineOffset(node)
			if off < 0 {
				off = autoCursor
			}
			line, col := idx.position(off)
			tree.Links = append(tree.Links, Link{
				Destination: string(node.Destination),
				Text:        nodeText(node, source),
				Line:        line,
				Column:      col,
			})

		case *ast.AutoLink:
			dest := string(node.URL(source))
			off := bytes.Index(source[autoCursor:], []byte(dest))
			if off >= 0 {
				off += autoCursor
				autoCursor = off + len(dest)
			} else {
				off = autoCursor
			}
			line, col := idx.position(off)
			tree.Links = append(tree.Links, Link{
				Destination: dest,
				Text:        dest,
				Line:        line,
				Column:      col,
			})

		case *ast.FencedCodeBlock, *ast.CodeBlock:
			tree.CodeBlocks++

		case *ast.Text:
			// Keep the autolink cursor moving with the prose.
			if node.Segment.Stop > autoCursor {
				autoCursor = node.Segment.Stop
			}
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	return tree, nil
}

// HeadingTexts returns all heading texts in document order.
func (t *Tree) HeadingTexts() []string {
	out := make([]string, 0, len(t.Headings))
	for _, h := range t.Headings {
		out = append(out, h.Text)
	}
	return out
}

// nodeText collects the plain text of a node's inline children.
func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch child := c.(type) {
		case *ast.Text:
			sb.Write(child.Segment.Value(source))
		case *ast.String:
			sb.Write(child.Value)
		default:
			sb.WriteString(nodeText(c, source))
		}
	}
	return sb.String()
}

// blockOffset returns the byte offset of a block node's first line, or the
// offset of its first text child when no lines are recorded.
func blockOffset(n ast.Node) int {
	if n.Lines() != nil && n.Lines().Len() > 0 {
		return n.Lines().At(0).Start
	}
	return inlineOffset(n)
}

// inlineOffset returns the byte offset of the first text descendant of an
// inline node, or -1 when the node has no text content.
func inlineOffset(n ast.Node) int {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			return t.Segment.Start
		}
		if off := inlineOffset(c); off >= 0 {
			return off
		}
	}
	return -1
}

// lineIndex maps byte offsets to 1-indexed line/column positions.
type lineIndex struct {
	starts []int
}

func newLineIndex(source []byte) *lineIndex {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts}
}

func (idx *lineIndex) position(offset int) (line, col int) {
	if offset < 0 {
		return 1, 1
	}
	i := sort.Search(len(idx.starts), func(i int) bool {
		return idx.starts[i] > offset
	}) - 1
	return i + 1, offset - idx.starts[i] + 1
}
