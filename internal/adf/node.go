// Package adf converts between markdown and the Atlassian Document Format,
// the JSON document tree Jira Cloud uses for descriptions and comments.
package adf

import (
	"encoding/json"
	"fmt"
)

// Node is one element of an ADF document tree.
type Node struct {
	Type    string                 `json:"type"`
	Version int                    `json:"version,omitempty"`
	Attrs   map[string]interface{} `json:"attrs,omitempty"`
	Content []*Node                `json:"content,omitempty"`
	Text    string                 `json:"text,omitempty"`
	Marks   []Mark                 `json:"marks,omitempty"`
}

// Mark is inline formatting applied to a text node.
type Mark struct {
	Type  string                 `json:"type"`
	Attrs map[string]interface{} `json:"attrs,omitempty"`
}

// Node and mark type names.
const (
	TypeDoc         = "doc"
	TypeParagraph   = "paragraph"
	TypeHeading     = "heading"
	TypeText        = "text"
	TypeHardBreak   = "hardBreak"
	TypeBulletList  = "bulletList"
	TypeOrderedList = "orderedList"
	TypeListItem    = "listItem"
	TypeCodeBlock   = "codeBlock"
	TypeBlockquote  = "blockquote"
	TypeRule        = "rule"
	TypeTable       = "table"
	TypeTableRow    = "tableRow"
	TypeTableHeader = "tableHeader"
	TypeTableCell   = "tableCell"

	MarkStrong = "strong"
	MarkEm     = "em"
	MarkCode   = "code"
	MarkStrike = "strike"
	MarkLink   = "link"
)

// NewDoc returns an empty version 1 document.
func NewDoc(content ...*Node) *Node {
	return &Node{Type: TypeDoc, Version: 1, Content: content}
}

// Paragraph returns a paragraph holding the given inline nodes.
func Paragraph(inline ...*Node) *Node {
	return &Node{Type: TypeParagraph, Content: inline}
}

// Text returns a text node with optional marks.
func Text(s string, marks ...Mark) *Node {
	return &Node{Type: TypeText, Text: s, Marks: marks}
}

// LinkMark returns a link mark pointing at href.
func LinkMark(href string) Mark {
	return Mark{Type: MarkLink, Attrs: map[string]interface{}{"href": href}}
}

// Parse decodes a raw description or comment body as returned by the API.
// JSON null yields (nil, nil). A bare JSON string, as returned by API v2
// installs, becomes a single-paragraph document.
func Parse(raw json.RawMessage) (*Node, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("parse document: %w", err)
		}
		return FromPlainText(s), nil
	}

	var doc Node
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if doc.Type != TypeDoc {
		return nil, fmt.Errorf("parse document: root node is %q, want %q", doc.Type, TypeDoc)
	}
	return &doc, nil
}

// FromPlainText wraps plain text in a document, one paragraph per line
// block and hard breaks for single newlines.
func FromPlainText(s string) *Node {
	doc := NewDoc()
	if s == "" {
		return doc
	}
	for _, block := range splitBlocks(s) {
		p := Paragraph()
		for i, line := range block {
			if i > 0 {
				p.Content = append(p.Content, &Node{Type: TypeHardBreak})
			}
			if line != "" {
				p.Content = append(p.Content, Text(line))
			}
		}
		doc.Content = append(doc.Content, p)
	}
	return doc
}

func splitBlocks(s string) [][]string {
	var blocks [][]string
	var cur []string
	for _, line := range splitLines(s) {
		if line == "" {
			if len(cur) > 0 {
				blocks = append(blocks, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		blocks = append(blocks, cur)
	}
	return blocks
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, trimCR(s[start:i]))
			start = i + 1
		}
	}
	return append(lines, trimCR(s[start:]))
}

func trimCR(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\r' {
		return s[:n-1]
	}
	return s
}

// attrString reads a string attribute, or "".
func (n *Node) attrString(key string) string {
	if n.Attrs == nil {
		return ""
	}
	if s, ok := n.Attrs[key].(string); ok {
		return s
	}
	return ""
}

// attrInt reads a numeric attribute. Decoded JSON numbers are float64.
func (n *Node) attrInt(key string, def int) int {
	if n.Attrs == nil {
		return def
	}
	switch v := n.Attrs[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}

func (m Mark) attrString(key string) string {
	if m.Attrs == nil {
		return ""
	}
	if s, ok := m.Attrs[key].(string); ok {
		return s
	}
	return ""
}
