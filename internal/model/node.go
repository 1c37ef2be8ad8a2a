package model

import "strings"

// NodeKind discriminates the two kinds of document node.
type NodeKind int

const (
	// ElementNode is an HTML element with a tag, attributes and children.
	ElementNode NodeKind = iota

	// TextNode is a text leaf holding raw character data.
	TextNode
)

// String returns the kind name.
func (k NodeKind) String() string {
	switch k {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	default:
		return "unknown"
	}
}

// Node is one node of a parsed HTML document.
//
// Design decision: We use a single struct tagged by Kind rather than an
// interface with element and text implementations because:
//  1. Walkers switch on Kind and handle every case explicitly
//  2. The tree is built once by the parser and only read afterwards
//  3. Tests can build documents as plain literals
//
// Only the fields belonging to Kind are meaningful: Tag, Attrs and Children
// for elements, Text for text nodes.
type Node struct {
	Kind     NodeKind
	Tag      string
	Attrs    map[string]string
	Children []*Node
	Text     string
}

// NewElement creates an element node. The tag is stored lowercased.
func NewElement(tag string, attrs map[string]string, children ...*Node) *Node {
	if attrs == nil {
		attrs = make(map[string]string)
	}
	return &Node{
		Kind:     ElementNode,
		Tag:      strings.ToLower(tag),
		Attrs:    attrs,
		Children: children,
	}
}

// NewText creates a text node.
func NewText(text string) *Node {
	return &Node{Kind: TextNode, Text: text}
}

// Attr returns the value of the named attribute and whether it is present.
// Text nodes have no attributes.
func (n *Node) Attr(key string) (string, bool) {
	if n == nil || n.Kind != ElementNode {
		return "", false
	}
	v, ok := n.Attrs[key]
	return v, ok
}

// IsAnchor reports whether the node is an <a> element.
func (n *Node) IsAnchor() bool {
	return n != nil && n.Kind == ElementNode && n.Tag == "a"
}
