package crawler

import (
	"testing"

	"github.com/whynotcrybot/web-crawler/internal/model"
)

func TestHTMLParser(t *testing.T) {
	t.Parallel()

	t.Run("builds element and text nodes", func(t *testing.T) {
		t.Parallel()

		root := NewHTMLParser().Parse(`<html><body><p>Hello <A HREF="/x">world</A></p></body></html>`)
		if root == nil || root.Kind != model.ElementNode {
			t.Fatal("expected element root")
		}

		got := Extract(root)
		if len(got.Anchors) != 1 {
			t.Fatalf("expected 1 anchor, got %d", len(got.Anchors))
		}
		if href, _ := got.Anchors[0].Attr("href"); href != "/x" {
			t.Errorf("expected href /x, got %q", href)
		}

		want := []string{"Hello ", "world"}
		if len(got.Texts) != len(want) {
			t.Fatalf("expected %d texts, got %d", len(want), len(got.Texts))
		}
		for i := range want {
			if got.Texts[i].Text != want[i] {
				t.Errorf("text %d: expected %q, got %q", i, want[i], got.Texts[i].Text)
			}
		}
	})

	t.Run("tolerates malformed markup", func(t *testing.T) {
		t.Parallel()

		root := NewHTMLParser().Parse(`<div><a href="/open">unclosed<p>para`)
		got := Extract(root)
		if len(got.Anchors) != 1 {
			t.Errorf("expected 1 anchor, got %d", len(got.Anchors))
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		root := NewHTMLParser().Parse("")
		if root == nil {
			t.Fatal("expected non-nil root")
		}
		if got := Extract(root); len(got.Texts) != 0 || len(got.Anchors) != 0 {
			t.Errorf("expected empty extraction, got %+v", got)
		}
	})

	t.Run("skips script and style text", func(t *testing.T) {
		t.Parallel()

		root := NewHTMLParser().Parse(`<html><head><style>p{}</style><script>var reimagined = 1;</script></head><body>visible</body></html>`)
		got := Extract(root)
		if len(got.Texts) != 1 || got.Texts[0].Text != "visible" {
			t.Errorf("expected only the body text, got %d texts", len(got.Texts))
		}
	})

	t.Run("first duplicate attribute wins", func(t *testing.T) {
		t.Parallel()

		root := NewHTMLParser().Parse(`<a href="/first" href="/second">x</a>`)
		got := Extract(root)
		if len(got.Anchors) != 1 {
			t.Fatalf("expected 1 anchor, got %d", len(got.Anchors))
		}
		if href, _ := got.Anchors[0].Attr("href"); href != "/first" {
			t.Errorf("expected /first, got %q", href)
		}
	})
}
