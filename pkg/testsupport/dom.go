package testsupport

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

// Document wraps a parsed HTML tree with testing-library style queries.
type Document struct {
	root *html.Node
}

// MustParseHTML parses markup or fails the test.
func MustParseHTML(t *testing.T, markup []byte) *Document {
	t.Helper()
	root, err := html.Parse(bytes.NewReader(markup))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return &Document{root: root}
}

// QueryAllByTestID returns every element carrying data-testid=id.
func (d *Document) QueryAllByTestID(id string) []*html.Node {
	return d.findAll(func(n *html.Node) bool {
		return Attr(n, "data-testid") == id
	})
}

// QueryByTestID returns the first element carrying data-testid=id or nil.
func (d *Document) QueryByTestID(id string) *html.Node {
	return first(d.QueryAllByTestID(id))
}

// QueryByText returns the deepest element whose trimmed text equals text.
func (d *Document) QueryByText(text string) *html.Node {
	return first(d.QueryAllByText(text))
}

// QueryAllByText returns every deepest element whose trimmed text equals text.
func (d *Document) QueryAllByText(text string) []*html.Node {
	return d.findAll(func(n *html.Node) bool {
		if strings.TrimSpace(TextContent(n)) != text {
			return false
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.ElementNode && strings.TrimSpace(TextContent(child)) == text {
				return false
			}
		}
		return true
	})
}

// QueryByTextMatch returns the deepest element whose text matches pattern.
func (d *Document) QueryByTextMatch(pattern *regexp.Regexp) *html.Node {
	return first(d.findAll(func(n *html.Node) bool {
		if !pattern.MatchString(TextContent(n)) {
			return false
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.ElementNode && pattern.MatchString(TextContent(child)) {
				return false
			}
		}
		return true
	}))
}

// QueryByLabelText resolves a <label> whose text matches pattern to the
// control referenced by its for attribute.
func (d *Document) QueryByLabelText(pattern *regexp.Regexp) *html.Node {
	for _, label := range d.findAll(func(n *html.Node) bool { return n.Data == "label" }) {
		if !pattern.MatchString(TextContent(label)) {
			continue
		}
		target := Attr(label, "for")
		if target == "" {
			continue
		}
		if control := d.QueryByID(target); control != nil {
			return control
		}
	}
	return nil
}

// QueryByID returns the element with the given id or nil.
func (d *Document) QueryByID(id string) *html.Node {
	return first(d.findAll(func(n *html.Node) bool { return Attr(n, "id") == id }))
}

// QueryAllByRole supports the roles the form uses: button, textbox, heading.
func (d *Document) QueryAllByRole(role string) []*html.Node {
	return d.findAll(func(n *html.Node) bool {
		switch role {
		case "button":
			return n.Data == "button"
		case "textbox":
			return n.Data == "textarea" || (n.Data == "input" && Attr(n, "type") != "hidden")
		case "heading":
			return len(n.Data) == 2 && n.Data[0] == 'h' && n.Data[1] >= '1' && n.Data[1] <= '6'
		default:
			return Attr(n, "role") == role
		}
	})
}

func (d *Document) findAll(match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(d.root)
	return out
}

// Attr returns the named attribute or "".
func Attr(n *html.Node, name string) string {
	if n == nil {
		return ""
	}
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}

// TextContent concatenates the text nodes below n.
func TextContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return b.String()
}

func first(nodes []*html.Node) *html.Node {
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}
