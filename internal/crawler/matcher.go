package crawler

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/whynotcrybot/web-crawler/internal/model"
)

// Matcher selects text that contains a keyword as a whole token.
//
// Text is split on single spaces and each token is lowercased and stripped
// of leading and trailing punctuation before it is compared with the
// lowercased keyword. "Design, reimagined." matches "reimagined";
// "reimagines" does not.
//
// A Matcher is not safe for concurrent use because the underlying caser
// keeps state between calls.
type Matcher struct {
	keyword string
	caser   cases.Caser
}

// NewMatcher creates a matcher for keyword.
func NewMatcher(keyword string) *Matcher {
	caser := cases.Lower(language.Und)
	return &Matcher{
		keyword: caser.String(normalizeToken(keyword)),
		caser:   caser,
	}
}

// Matches reports whether raw contains the keyword as a token.
func (m *Matcher) Matches(raw string) bool {
	if m.keyword == "" {
		return false
	}
	for _, token := range strings.Split(raw, " ") {
		if m.caser.String(normalizeToken(token)) == m.keyword {
			return true
		}
	}
	return false
}

// Select returns the raw text of every text node that matches, in order.
func (m *Matcher) Select(texts []*model.Node) []string {
	matched := make([]string, 0)
	for _, n := range texts {
		if n == nil || n.Kind != model.TextNode {
			continue
		}
		if m.Matches(n.Text) {
			matched = append(matched, n.Text)
		}
	}
	return matched
}

// IsMatchableKeyword reports whether keyword keeps at least one character
// once surrounding whitespace and punctuation are trimmed. A keyword such as
// "..." would never match any token.
func IsMatchableKeyword(keyword string) bool {
	return normalizeToken(keyword) != ""
}

// normalizeToken trims surrounding whitespace and punctuation.
// Tabs and newlines are not split on, so they are trimmed here instead.
func normalizeToken(token string) string {
	return strings.TrimFunc(token, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	})
}
