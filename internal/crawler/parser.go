package crawler

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/whynotcrybot/web-crawler/internal/model"
)

// Parser turns an HTML document into a model.Node tree.
// Implementations must tolerate malformed markup and never fail.
type Parser interface {
	Parse(document string) *model.Node
}

// HTMLParser is the default Parser built on golang.org/x/net/html.
//
// Design decision: We use golang.org/x/net/html for parsing rather than
// regex because:
//  1. It implements the HTML5 parsing algorithm, which recovers from
//     malformed markup the way browsers do
//  2. It yields a real tree, so anchors and text keep their document order
//  3. Standard library extension, well-maintained
//
// Comments, doctypes and the contents of <script> and <style> are dropped;
// they are not page text and cannot hold anchors.
type HTMLParser struct{}

// NewHTMLParser creates the default HTML parser.
func NewHTMLParser() *HTMLParser {
	return &HTMLParser{}
}

// Parse implements Parser. The returned root is an element with an empty
// tag standing for the document itself. If the tokenizer reports an error
// the root has no children.
func (p *HTMLParser) Parse(document string) *model.Node {
	root := model.NewElement("", nil)

	doc, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return root
	}

	type pair struct {
		src *html.Node
		dst *model.Node
	}
	stack := []pair{{src: doc, dst: root}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if skipChildren(cur.src) {
			continue
		}

		for c := cur.src.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.ElementNode:
				el := model.NewElement(c.Data, attrMap(c.Attr))
				cur.dst.Children = append(cur.dst.Children, el)
				stack = append(stack, pair{src: c, dst: el})
			case html.TextNode:
				cur.dst.Children = append(cur.dst.Children, model.NewText(c.Data))
			}
		}
	}

	return root
}

// skipChildren reports whether the subtree under n holds no page content.
func skipChildren(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Template:
		return true
	}
	return false
}

// attrMap converts html attributes to a map. The first occurrence of a
// repeated attribute wins, as in browsers.
func attrMap(attrs []html.Attribute) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		key := strings.ToLower(a.Key)
		if _, ok := m[key]; ok {
			continue
		}
		m[key] = a.Val
	}
	return m
}
