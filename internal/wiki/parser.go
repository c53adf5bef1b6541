package wiki

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// parseDisambigOptions extracts candidate page titles from the rendered
// HTML of a disambiguation page. MediaWiki lists the candidates as list
// items whose first link points at the candidate article.
//
// Design decision: We use golang.org/x/net/html for parsing rather than
// regex because:
//  1. It correctly handles malformed HTML fragments
//  2. Provides a proper DOM-like structure
//  3. More maintainable than complex regex patterns
func parseDisambigOptions(content io.Reader) ([]string, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	options := make([]string, 0)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "li" && !isTOCItem(n) {
			if title := firstLinkText(n); title != "" && !seen[title] {
				seen[title] = true
				options = append(options, title)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return options, nil
}

// isTOCItem reports whether a list item belongs to the table of
// contents rather than the disambiguation candidates.
func isTOCItem(n *html.Node) bool {
	return strings.Contains(getAttr(n, "class"), "tocsection")
}

// firstLinkText returns the text of the first anchor inside the node,
// or empty when the item links nowhere.
func firstLinkText(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "a" {
		return strings.TrimSpace(nodeText(n))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if text := firstLinkText(c); text != "" {
			return text
		}
	}
	return ""
}

// nodeText collects the text content of a node and its children.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
