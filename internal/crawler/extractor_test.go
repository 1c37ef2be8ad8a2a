package crawler

import (
	"testing"

	"github.com/whynotcrybot/web-crawler/internal/model"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	t.Run("nil root", func(t *testing.T) {
		t.Parallel()

		got := Extract(nil)
		if len(got.Anchors) != 0 || len(got.Texts) != 0 {
			t.Errorf("expected empty extraction, got %+v", got)
		}
	})

	t.Run("collects anchors and texts in pre-order", func(t *testing.T) {
		t.Parallel()

		root := model.NewElement("html", nil,
			model.NewElement("body", nil,
				model.NewText("first"),
				model.NewElement("div", nil,
					model.NewElement("a", map[string]string{"href": "/one"},
						model.NewText("second"),
					),
					model.NewText("third"),
				),
				model.NewElement("A", map[string]string{"href": "/two"}),
				model.NewText("fourth"),
			),
		)

		got := Extract(root)

		wantTexts := []string{"first", "second", "third", "fourth"}
		if len(got.Texts) != len(wantTexts) {
			t.Fatalf("expected %d texts, got %d", len(wantTexts), len(got.Texts))
		}
		for i, want := range wantTexts {
			if got.Texts[i].Text != want {
				t.Errorf("text %d: expected %q, got %q", i, want, got.Texts[i].Text)
			}
		}

		wantHrefs := []string{"/one", "/two"}
		if len(got.Anchors) != len(wantHrefs) {
			t.Fatalf("expected %d anchors, got %d", len(wantHrefs), len(got.Anchors))
		}
		for i, want := range wantHrefs {
			href, _ := got.Anchors[i].Attr("href")
			if href != want {
				t.Errorf("anchor %d: expected href %q, got %q", i, want, href)
			}
		}
	})

	t.Run("does not modify the tree", func(t *testing.T) {
		t.Parallel()

		text := model.NewText("x")
		root := model.NewElement("p", nil, text)
		Extract(root)
		Extract(root)
		if len(root.Children) != 1 || root.Children[0] != text {
			t.Error("expected tree to be unchanged")
		}
	})

	t.Run("deep nesting", func(t *testing.T) {
		t.Parallel()

		leaf := model.NewText("bottom")
		node := model.NewElement("div", nil, leaf)
		for range 10000 {
			node = model.NewElement("div", nil, node)
		}

		got := Extract(node)
		if len(got.Texts) != 1 || got.Texts[0] != leaf {
			t.Errorf("expected the single deep text leaf, got %d texts", len(got.Texts))
		}
	})
}
