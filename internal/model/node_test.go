package model

import "testing"

func TestNewElement(t *testing.T) {
	t.Parallel()

	t.Run("lowercases tag and allocates attrs", func(t *testing.T) {
		t.Parallel()

		n := NewElement("DIV", nil, NewText("hi"))
		if n.Kind != ElementNode {
			t.Errorf("Kind = %v, want element", n.Kind)
		}
		if n.Tag != "div" {
			t.Errorf("Tag = %q, want div", n.Tag)
		}
		if n.Attrs == nil {
			t.Error("Attrs should not be nil")
		}
		if len(n.Children) != 1 || n.Children[0].Text != "hi" {
			t.Errorf("Children = %+v", n.Children)
		}
	})

	t.Run("anchor detection", func(t *testing.T) {
		t.Parallel()

		if !NewElement("A", map[string]string{"href": "/x"}).IsAnchor() {
			t.Error("uppercase A should be an anchor")
		}
		if NewElement("abbr", nil).IsAnchor() {
			t.Error("abbr is not an anchor")
		}
		if NewText("a").IsAnchor() {
			t.Error("text node is not an anchor")
		}
		var nilNode *Node
		if nilNode.IsAnchor() {
			t.Error("nil node is not an anchor")
		}
	})
}

func TestNodeAttr(t *testing.T) {
	t.Parallel()

	el := NewElement("a", map[string]string{"href": "", "title": "About"})

	tests := []struct {
		name    string
		node    *Node
		key     string
		want    string
		present bool
	}{
		{name: "present", node: el, key: "title", want: "About", present: true},
		{name: "present but empty", node: el, key: "href", want: "", present: true},
		{name: "missing", node: el, key: "rel", present: false},
		{name: "text node", node: NewText("x"), key: "href", present: false},
		{name: "nil node", node: nil, key: "href", present: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := tt.node.Attr(tt.key)
			if ok != tt.present || got != tt.want {
				t.Errorf("Attr(%q) = %q, %v; want %q, %v", tt.key, got, ok, tt.want, tt.present)
			}
		})
	}
}

func TestNodeKindString(t *testing.T) {
	t.Parallel()

	if ElementNode.String() != "element" || TextNode.String() != "text" || NodeKind(9).String() != "unknown" {
		t.Error("unexpected NodeKind names")
	}
}

func TestNewEntry(t *testing.T) {
	t.Parallel()

	seed := NewEntry("https://example.com", nil)
	if !seed.IsSeed() || seed.Depth != 0 {
		t.Errorf("seed = %+v", seed)
	}

	child := NewEntry("https://example.com/about", &seed)
	if child.Depth != 1 || child.IsSeed() {
		t.Errorf("child = %+v", child)
	}

	grandchild := NewEntry("https://example.com/team", &child)
	if grandchild.Depth != 2 {
		t.Errorf("grandchild depth = %d, want 2", grandchild.Depth)
	}
}
