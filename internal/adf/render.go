package adf

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ToMarkdown renders an ADF document as markdown. A nil document renders
// as the empty string.
func ToMarkdown(doc *Node) (string, error) {
	if doc == nil {
		return "", nil
	}
	if doc.Type != TypeDoc {
		return "", fmt.Errorf("render document: root node is %q, want %q", doc.Type, TypeDoc)
	}
	return strings.TrimRight(renderBlocks(doc.Content), "\n"), nil
}

// RawToMarkdown parses a raw API body and renders it as markdown.
func RawToMarkdown(raw json.RawMessage) (string, error) {
	doc, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return ToMarkdown(doc)
}

func renderBlocks(nodes []*Node) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if s := renderBlock(n); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

func renderBlock(n *Node) string {
	switch n.Type {
	case TypeParagraph:
		return escapeLineStarts(renderInline(n.Content))

	case TypeHeading:
		level := n.attrInt("level", 1)
		if level < 1 || level > 6 {
			level = 1
		}
		return strings.Repeat("#", level) + " " + renderInline(n.Content)

	case TypeCodeBlock:
		var b strings.Builder
		for _, c := range n.Content {
			if c != nil {
				b.WriteString(c.Text)
			}
		}
		body := b.String()
		fence := strings.Repeat("`", max(3, longestRun(body, '`')+1))
		return fence + n.attrString("language") + "\n" + body + "\n" + fence

	case TypeBlockquote, "panel":
		return prefixLines(renderBlocks(n.Content), "> ", ">")

	case TypeRule:
		return "---"

	case TypeBulletList:
		items := make([]string, 0, len(n.Content))
		for _, item := range nonNil(n.Content) {
			items = append(items, renderListItem(item, "- "))
		}
		return strings.Join(items, "\n")

	case TypeOrderedList:
		start := n.attrInt("order", 1)
		items := make([]string, 0, len(n.Content))
		for i, item := range nonNil(n.Content) {
			items = append(items, renderListItem(item, strconv.Itoa(start+i)+". "))
		}
		return strings.Join(items, "\n")

	case "taskList":
		items := make([]string, 0, len(n.Content))
		for _, item := range nonNil(n.Content) {
			box := "- [ ] "
			if item.attrString("state") == "DONE" {
				box = "- [x] "
			}
			items = append(items, box+renderInline(item.Content))
		}
		return strings.Join(items, "\n")

	case "decisionList":
		items := make([]string, 0, len(n.Content))
		for _, item := range nonNil(n.Content) {
			items = append(items, "- "+renderInline(item.Content))
		}
		return strings.Join(items, "\n")

	case TypeTable:
		return renderTable(n)

	case "mediaSingle", "mediaGroup":
		parts := make([]string, 0, len(n.Content))
		for _, m := range nonNil(n.Content) {
			parts = append(parts, renderMedia(m))
		}
		return strings.Join(parts, "\n")

	case "media":
		return renderMedia(n)

	case "expand", "nestedExpand":
		body := renderBlocks(n.Content)
		if title := n.attrString("title"); title != "" {
			return "**" + escapeText(title) + "**\n\n" + body
		}
		return body
	}

	if n.Text != "" || isInline(n) {
		return escapeLineStarts(renderInline([]*Node{n}))
	}
	return renderBlocks(n.Content)
}

func renderListItem(item *Node, marker string) string {
	body := renderItemBlocks(item.Content)
	indent := strings.Repeat(" ", len(marker))
	lines := strings.Split(body, "\n")
	for i := range lines {
		if i == 0 {
			lines[i] = marker + lines[i]
		} else if lines[i] != "" {
			lines[i] = indent + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

// renderItemBlocks joins the blocks of a list item. Nested lists follow
// their paragraph directly so the list stays tight.
func renderItemBlocks(nodes []*Node) string {
	var b strings.Builder
	for i, n := range nonNil(nodes) {
		s := renderBlock(n)
		if i > 0 {
			if n.Type == TypeBulletList || n.Type == TypeOrderedList {
				b.WriteString("\n")
			} else {
				b.WriteString("\n\n")
			}
		}
		b.WriteString(s)
	}
	return b.String()
}

func renderTable(n *Node) string {
	var rows [][]string
	for _, row := range nonNil(n.Content) {
		var cells []string
		for _, cell := range nonNil(row.Content) {
			text := escapePipes(renderBlocks(cell.Content))
			text = strings.ReplaceAll(text, "\n\n", "<br>")
			text = strings.ReplaceAll(text, "\n", "<br>")
			cells = append(cells, text)
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return ""
	}

	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	line := func(cells []string) string {
		padded := make([]string, width)
		copy(padded, cells)
		return "| " + strings.Join(padded, " | ") + " |"
	}

	out := []string{line(rows[0])}
	sep := make([]string, width)
	for i := range sep {
		sep[i] = "---"
	}
	out = append(out, line(sep))
	for _, r := range rows[1:] {
		out = append(out, line(r))
	}
	return strings.Join(out, "\n")
}

func renderMedia(n *Node) string {
	alt := n.attrString("alt")
	if url := n.attrString("url"); url != "" {
		return "![" + alt + "](" + url + ")"
	}
	if alt == "" {
		alt = "attachment"
	}
	return "[" + alt + "]"
}

func isInline(n *Node) bool {
	switch n.Type {
	case TypeText, TypeHardBreak, "mention", "emoji", "inlineCard", "blockCard", "date", "status":
		return true
	}
	return false
}

func renderInline(nodes []*Node) string {
	var b strings.Builder
	for _, n := range nonNil(nodes) {
		switch n.Type {
		case TypeText:
			b.WriteString(applyMarks(n.Text, n.Marks))
		case TypeHardBreak:
			b.WriteString("\n")
		case "mention":
			name := n.attrString("text")
			if name == "" {
				name = n.attrString("id")
			}
			if !strings.HasPrefix(name, "@") {
				name = "@" + name
			}
			b.WriteString(name)
		case "emoji":
			if t := n.attrString("text"); t != "" {
				b.WriteString(t)
			} else {
				b.WriteString(n.attrString("shortName"))
			}
		case "inlineCard", "blockCard":
			b.WriteString(n.attrString("url"))
		case "date":
			b.WriteString(formatTimestamp(n.attrString("timestamp")))
		case "status":
			b.WriteString("[" + n.attrString("text") + "]")
		default:
			if n.Text != "" {
				b.WriteString(escapeText(n.Text))
			} else {
				b.WriteString(renderInline(n.Content))
			}
		}
	}
	return b.String()
}

// applyMarks wraps s in markdown syntax for its marks. Surrounding spaces
// are moved outside the delimiters so the result still parses. Unmarked
// text is escaped so it reads back literally.
func applyMarks(s string, marks []Mark) string {
	if strings.TrimSpace(s) == "" {
		return s
	}
	if len(marks) == 0 {
		return escapeText(s)
	}
	core := strings.TrimSpace(s)
	lead := s[:strings.Index(s, core)]
	trail := s[len(lead)+len(core):]

	var href string
	var code, strong, em, strike bool
	for _, m := range marks {
		switch m.Type {
		case MarkCode:
			code = true
		case MarkStrong:
			strong = true
		case MarkEm:
			em = true
		case MarkStrike:
			strike = true
		case MarkLink:
			href = m.attrString("href")
		}
	}

	if code {
		core = codeSpan(core)
	} else {
		core = escapeText(core)
	}
	if em {
		core = "*" + core + "*"
	}
	if strong {
		core = "**" + core + "**"
	}
	if strike {
		core = "~~" + core + "~~"
	}
	if href != "" {
		core = "[" + core + "](" + linkDestination(href) + ")"
	}
	return lead + core + trail
}

// markdownPunct are the characters that start or end inline syntax.
const markdownPunct = "\\*_[]#`<>~|"

func escapeText(s string) string {
	if !strings.ContainsAny(s, markdownPunct) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(markdownPunct, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// orderedMarker matches text that would open an ordered list item.
var orderedMarker = regexp.MustCompile(`^( *\d{1,9})([.)])`)

// escapeLineStarts escapes characters that would turn a line of paragraph
// text into a list item, a setext underline or a rule.
func escapeLineStarts(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		trimmed := strings.TrimLeft(l, " ")
		if trimmed == "" {
			continue
		}
		switch trimmed[0] {
		case '-', '+', '=':
			indent := len(l) - len(trimmed)
			lines[i] = l[:indent] + "\\" + trimmed
		default:
			lines[i] = orderedMarker.ReplaceAllString(l, `$1\$2`)
		}
	}
	return strings.Join(lines, "\n")
}

// escapePipes escapes cell separators that are not escaped already.
func escapePipes(s string) string {
	var b strings.Builder
	backslashes := 0
	for _, r := range s {
		if r == '|' && backslashes%2 == 0 {
			b.WriteByte('\\')
		}
		if r == '\\' {
			backslashes++
		} else {
			backslashes = 0
		}
		b.WriteRune(r)
	}
	return b.String()
}

// codeSpan fences s with more backticks than any run inside it.
func codeSpan(s string) string {
	fence := strings.Repeat("`", longestRun(s, '`')+1)
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		s = " " + s + " "
	}
	return fence + s + fence
}

func linkDestination(href string) string {
	if strings.ContainsAny(href, " ()") {
		return "<" + href + ">"
	}
	return href
}

func longestRun(s string, c byte) int {
	longest, run := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	return longest
}

func nonNil(nodes []*Node) []*Node {
	out := nodes[:0:0]
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

func prefixLines(s, prefix, blank string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l == "" {
			lines[i] = blank
		} else {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}

// formatTimestamp renders an ADF date attribute (epoch milliseconds).
func formatTimestamp(ms string) string {
	v, err := strconv.ParseInt(ms, 10, 64)
	if err != nil {
		return ms
	}
	return time.UnixMilli(v).UTC().Format("2006-01-02")
}
