package richtext

import (
	"html"
	"strings"

	nethtml "golang.org/x/net/html"
)

// FromHTML flattens review bodies that carry light markup into plain text.
// Block elements and <br> become line breaks; entities are decoded. Input
// without markup is returned with surrounding whitespace trimmed.
func FromHTML(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.ContainsAny(raw, "<&") {
		return raw
	}
	doc, err := nethtml.Parse(strings.NewReader("<html><body>" + raw + "</body></html>"))
	if err != nil {
		return strings.TrimSpace(html.UnescapeString(raw))
	}
	body := findBody(doc)
	if body == nil {
		return strings.TrimSpace(html.UnescapeString(raw))
	}

	var b strings.Builder
	flatten(&b, body)
	return tidyLines(b.String())
}

func flatten(b *strings.Builder, node *nethtml.Node) {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case nethtml.TextNode:
			b.WriteString(collapseSpaces(child.Data))
		case nethtml.ElementNode:
			tag := strings.ToLower(child.Data)
			switch tag {
			case "br":
				b.WriteString("\n")
				continue
			case "script", "style":
				continue
			}
			flatten(b, child)
			if isBlock(tag) {
				b.WriteString("\n")
			}
		}
	}
}

func findBody(node *nethtml.Node) *nethtml.Node {
	if node.Type == nethtml.ElementNode && strings.EqualFold(node.Data, "body") {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findBody(child); found != nil {
			return found
		}
	}
	return nil
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "li", "ul", "ol", "blockquote", "h1", "h2", "h3", "h4", "h5", "h6", "pre", "tr":
		return true
	}
	return false
}

func collapseSpaces(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s == "" {
			return ""
		}
		return " "
	}
	out := strings.Join(fields, " ")
	if strings.TrimLeft(s, " \t\r\n") != s {
		out = " " + out
	}
	if strings.TrimRight(s, " \t\r\n") != s {
		out += " "
	}
	return out
}

func tidyLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
