// Provides a forgiving document tree for SVG markup, parsed with the HTML5
// algorithm so that real world diagram output (unclosed tags, foreign
// content, namespaced attributes) never aborts a conversion. Tag and
// attribute matching is case insensitive because the parser case folds
// foreign content.
package svgdom

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ErrEmptyDocument is returned for blank input, the only markup that is a
// hard failure rather than a best effort tree.
var ErrEmptyDocument = errors.New("svgdom: empty document")

// Parse reads markup and returns the svg element, or the document body when
// no svg element is present.
func Parse(r io.Reader) (*html.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseString(string(data))
}

// ParseString is Parse for an in-memory document.
func ParseString(markup string) (*html.Node, error) {
	if strings.TrimSpace(markup) == "" {
		return nil, ErrEmptyDocument
	}
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}
	if svg := Find(doc, "svg"); svg != nil {
		return svg, nil
	}
	if body := Find(doc, "body"); body != nil {
		return body, nil
	}
	return doc, nil
}

// Is reports whether the node is an element with the given tag.
func Is(n *html.Node, tag string) bool {
	return n != nil && n.Type == html.ElementNode && strings.EqualFold(n.Data, tag)
}

// Find returns the first descendant element with the given tag, or nil.
func Find(n *html.Node, tag string) *html.Node {
	if Is(n, tag) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := Find(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// FindUnder is Find excluding n itself, for searches where n carries the
// same tag as its descendants.
func FindUnder(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := Find(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every descendant element with the given tag, in document
// order.
func FindAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	if Is(n, tag) {
		out = append(out, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, FindAll(c, tag)...)
	}
	return out
}

// FindClass returns the first descendant with the given tag carrying the
// class, or nil.
func FindClass(n *html.Node, tag, class string) *html.Node {
	if Is(n, tag) && HasClass(n, class) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := FindClass(c, tag, class); found != nil {
			return found
		}
	}
	return nil
}

// Children returns the direct element children, any tag.
func Children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// ChildrenTag returns the direct element children with the given tag.
func ChildrenTag(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if Is(c, tag) {
			out = append(out, c)
		}
	}
	return out
}

// ChildrenClass returns the direct element children with the given tag
// carrying the class.
func ChildrenClass(n *html.Node, tag, class string) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if Is(c, tag) && HasClass(c, class) {
			out = append(out, c)
		}
	}
	return out
}

// Lookup returns an attribute value and whether it is present. Namespaced
// attributes (xlink:href) match on either the bare or the qualified name.
func Lookup(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
		if a.Namespace != "" && strings.EqualFold(a.Namespace+":"+a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// Attr returns an attribute value, or "" when absent.
func Attr(n *html.Node, key string) string {
	v, _ := Lookup(n, key)
	return v
}

// HasClass reports whether the node's class attribute contains the given
// class name.
func HasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(Attr(n, "class")) {
		if strings.EqualFold(c, class) {
			return true
		}
	}
	return false
}

// Text returns the concatenated descendant text, trimmed. Whitespace-only
// content counts as empty.
func Text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
