package crawler

import "github.com/whynotcrybot/web-crawler/internal/model"

// Extraction holds the nodes of interest collected from one document.
type Extraction struct {
	// Anchors are the <a> elements in document order.
	Anchors []*model.Node

	// Texts are the text leaves in document order.
	Texts []*model.Node
}

// Extract walks the tree rooted at root in pre-order (parent before
// children, children left to right) and collects anchor elements and text
// nodes. The tree is not modified.
//
// Design decision: The walk uses an explicit stack instead of recursion so
// that deeply nested markup cannot exhaust the goroutine stack.
func Extract(root *model.Node) Extraction {
	result := Extraction{
		Anchors: make([]*model.Node, 0),
		Texts:   make([]*model.Node, 0),
	}
	if root == nil {
		return result
	}

	stack := []*model.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil {
			continue
		}

		switch n.Kind {
		case model.ElementNode:
			if n.IsAnchor() {
				result.Anchors = append(result.Anchors, n)
			}
			// Push children in reverse so the first child is popped first.
			for i := len(n.Children) - 1; i >= 0; i-- {
				stack = append(stack, n.Children[i])
			}
		case model.TextNode:
			result.Texts = append(result.Texts, n)
		}
	}

	return result
}
