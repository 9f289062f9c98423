package adf

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// ErrInvalidMarkdown is returned for input that is not valid UTF-8.
var ErrInvalidMarkdown = errors.New("markdown is not valid UTF-8")

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// FromMarkdown parses markdown (CommonMark plus GFM tables, strikethrough,
// task lists and autolinks) into an ADF document.
//
// Single newlines inside a paragraph become hard breaks, which keeps the
// line structure people type in an editor.
func FromMarkdown(markdown string) (*Node, error) {
	if !utf8.ValidString(markdown) {
		return nil, ErrInvalidMarkdown
	}
	source := []byte(markdown)
	root := md.Parser().Parse(text.NewReader(source))

	c := &converter{source: source}
	doc := NewDoc()
	doc.Content = c.blocks(root)
	return doc, nil
}

type converter struct {
	source []byte
}

func (c *converter) blocks(parent ast.Node) []*Node {
	var out []*Node
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if b := c.block(n); b != nil {
			out = append(out, b)
		}
	}
	return out
}

func (c *converter) block(n ast.Node) *Node {
	switch n := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		inline := c.inlines(n, nil)
		if len(inline) == 0 {
			return nil
		}
		return Paragraph(inline...)

	case *ast.Heading:
		return &Node{
			Type:    TypeHeading,
			Attrs:   map[string]interface{}{"level": n.Level},
			Content: c.inlines(n, nil),
		}

	case *ast.ThematicBreak:
		return &Node{Type: TypeRule}

	case *ast.FencedCodeBlock:
		node := &Node{Type: TypeCodeBlock}
		if lang := string(n.Language(c.source)); lang != "" {
			node.Attrs = map[string]interface{}{"language": lang}
		}
		if body := c.lines(n.Lines()); body != "" {
			node.Content = []*Node{Text(body)}
		}
		return node

	case *ast.CodeBlock:
		node := &Node{Type: TypeCodeBlock}
		if body := c.lines(n.Lines()); body != "" {
			node.Content = []*Node{Text(body)}
		}
		return node

	case *ast.HTMLBlock:
		body := c.lines(n.Lines())
		if n.HasClosure() {
			body += "\n" + strings.TrimRight(string(n.ClosureLine.Value(c.source)), "\n")
		}
		body = strings.TrimSpace(body)
		if body == "" {
			return nil
		}
		return Paragraph(Text(body))

	case *ast.Blockquote:
		return &Node{Type: TypeBlockquote, Content: c.blocks(n)}

	case *ast.List:
		return c.list(n)

	case *extast.Table:
		return c.table(n)
	}

	// Unknown block: keep whatever children it has.
	if children := c.blocks(n); len(children) > 0 {
		return &Node{Type: TypeParagraph, Content: flattenInline(children)}
	}
	return nil
}

func (c *converter) list(l *ast.List) *Node {
	node := &Node{Type: TypeBulletList}
	if l.IsOrdered() {
		node.Type = TypeOrderedList
		if l.Start > 1 {
			node.Attrs = map[string]interface{}{"order": l.Start}
		}
	}
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		li := &Node{Type: TypeListItem, Content: c.blocks(item)}
		if len(li.Content) == 0 {
			li.Content = []*Node{Paragraph()}
		}
		node.Content = append(node.Content, li)
	}
	return node
}

func (c *converter) table(t *extast.Table) *Node {
	node := &Node{
		Type:  TypeTable,
		Attrs: map[string]interface{}{"isNumberColumnEnabled": false, "layout": "default"},
	}
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		cellType := TypeTableCell
		if _, ok := row.(*extast.TableHeader); ok {
			cellType = TypeTableHeader
		}
		r := &Node{Type: TypeTableRow}
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			r.Content = append(r.Content, &Node{
				Type:    cellType,
				Attrs:   map[string]interface{}{},
				Content: []*Node{Paragraph(c.inlines(cell, nil)...)},
			})
		}
		node.Content = append(node.Content, r)
	}
	return node
}

func (c *converter) lines(segs *text.Segments) string {
	var b strings.Builder
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		b.Write(seg.Value(c.source))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// inlines converts the inline children of parent, applying marks.
func (c *converter) inlines(parent ast.Node, marks []Mark) []*Node {
	var out []*Node
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		out = c.inline(out, n, marks)
	}
	return out
}

func (c *converter) inline(out []*Node, n ast.Node, marks []Mark) []*Node {
	switch n := n.(type) {
	case *ast.Text:
		out = appendText(out, unescaped(n, c.source), marks)
		if n.HardLineBreak() || n.SoftLineBreak() {
			out = append(out, &Node{Type: TypeHardBreak})
		}
		return out

	case *ast.String:
		return appendText(out, string(n.Value), marks)

	case *ast.CodeSpan:
		var b strings.Builder
		for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
			switch t := ch.(type) {
			case *ast.Text:
				b.Write(t.Segment.Value(c.source))
			case *ast.String:
				b.Write(t.Value)
			}
		}
		// Code may only be combined with links.
		codeMarks := []Mark{{Type: MarkCode}}
		for _, m := range marks {
			if m.Type == MarkLink {
				codeMarks = append(codeMarks, m)
			}
		}
		return appendText(out, b.String(), codeMarks)

	case *ast.Emphasis:
		mark := Mark{Type: MarkEm}
		if n.Level >= 2 {
			mark = Mark{Type: MarkStrong}
		}
		return append(out, c.inlines(n, withMark(marks, mark))...)

	case *extast.Strikethrough:
		return append(out, c.inlines(n, withMark(marks, Mark{Type: MarkStrike}))...)

	case *ast.Link:
		inner := c.inlines(n, withMark(marks, LinkMark(string(n.Destination))))
		if len(inner) == 0 {
			inner = appendText(nil, string(n.Destination), withMark(marks, LinkMark(string(n.Destination))))
		}
		return append(out, inner...)

	case *ast.AutoLink:
		url := string(n.URL(c.source))
		href := url
		if n.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(url, "mailto:") {
			href = "mailto:" + url
		}
		return appendText(out, string(n.Label(c.source)), withMark(marks, LinkMark(href)))

	case *ast.Image:
		alt := plainText(n, c.source)
		if alt == "" {
			alt = string(n.Destination)
		}
		return appendText(out, alt, withMark(marks, LinkMark(string(n.Destination))))

	case *ast.RawHTML:
		var b strings.Builder
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.Write(seg.Value(c.source))
		}
		return appendText(out, b.String(), marks)

	case *extast.TaskCheckBox:
		box := "[ ] "
		if n.IsChecked {
			box = "[x] "
		}
		return appendText(out, box, marks)
	}

	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		out = c.inline(out, ch, marks)
	}
	return out
}

// unescaped returns the text of t with backslash escapes removed. Text
// inside code spans is read raw instead.
func unescaped(t *ast.Text, source []byte) string {
	return string(util.UnescapePunctuations(t.Segment.Value(source)))
}

// appendText adds s to out, merging into the previous node when it is a
// text node carrying the same marks.
func appendText(out []*Node, s string, marks []Mark) []*Node {
	if s == "" {
		return out
	}
	if len(out) > 0 {
		last := out[len(out)-1]
		if last.Type == TypeText && sameMarks(last.Marks, marks) {
			last.Text += s
			return out
		}
	}
	return append(out, Text(s, marks...))
}

func withMark(marks []Mark, m Mark) []Mark {
	out := make([]Mark, 0, len(marks)+1)
	out = append(out, marks...)
	return append(out, m)
}

func sameMarks(a, b []Mark) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Type != b[i].Type || a[i].attrString("href") != b[i].attrString("href") {
			return false
		}
	}
	return true
}

func plainText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := child.(type) {
		case *ast.Text:
			b.WriteString(unescaped(t, source))
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// flattenInline pulls inline nodes out of converted blocks.
func flattenInline(blocks []*Node) []*Node {
	var out []*Node
	for i, b := range blocks {
		if i > 0 {
			out = append(out, &Node{Type: TypeHardBreak})
		}
		if b.Type == TypeText || b.Type == TypeHardBreak {
			out = append(out, b)
			continue
		}
		out = append(out, flattenInline(b.Content)...)
	}
	return out
}
