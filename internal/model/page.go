package model

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// PageRecord describes one successfully processed page of a run.
type PageRecord struct {
	// URL is the fetched page URL.
	URL string `json:"url"`

	// Depth is the page's distance from the seed.
	Depth int `json:"depth"`

	// Fingerprint is the SHA3-256 hash of the page body.
	// Used by compare to detect pages whose content changed between runs.
	Fingerprint string `json:"fingerprint"`

	// Links is the number of links on the page that passed the link filter.
	Links int `json:"links"`

	// Matches is the number of matching text snippets on the page.
	Matches int `json:"matches"`
}

// PageFingerprint returns the hex SHA3-256 digest of body.
// An empty body has an empty fingerprint.
func PageFingerprint(body string) string {
	if body == "" {
		return ""
	}
	sum := sha3.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}
