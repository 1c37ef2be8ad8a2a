package model

// Entry is a URL scheduled for crawling together with its link distance
// from the seed. The seed has depth 0; a link found on a page at depth d
// has depth d+1.
type Entry struct {
	// URL is the absolute URL to fetch.
	URL string `json:"url"`

	// Depth is the number of link hops from the seed URL.
	Depth int `json:"depth"`
}

// NewEntry creates the entry for url discovered on parent.
// A nil parent means url is the seed.
func NewEntry(url string, parent *Entry) Entry {
	if parent == nil {
		return Entry{URL: url, Depth: 0}
	}
	return Entry{URL: url, Depth: parent.Depth + 1}
}

// IsSeed reports whether the entry is the crawl seed.
func (e Entry) IsSeed() bool {
	return e.Depth == 0
}

// MatchResult records one text snippet containing the target keyword.
type MatchResult struct {
	// URL is the page the snippet was found on.
	URL string `json:"url"`

	// Text is the raw text node content, unmodified.
	Text string `json:"text"`
}

// Progress is the counter snapshot published after each processed page.
type Progress struct {
	// URL is the page that was just processed.
	URL string `json:"url"`

	// Depth is the depth of that page.
	Depth int `json:"depth"`

	// Visited is the total number of URLs marked visited so far.
	Visited int `json:"visited"`

	// FrontierLen is the number of entries still waiting in the frontier.
	FrontierLen int `json:"frontier_len"`
}

// PageFailure records a page that could not be fetched or read.
type PageFailure struct {
	URL   string `json:"url"`
	Depth int    `json:"depth"`
	Error string `json:"error"`
}
