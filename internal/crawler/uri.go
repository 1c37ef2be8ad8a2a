package crawler

import (
	"net/url"
	"regexp"
)

// URIValidator decides whether a candidate string is a syntactically valid URI.
type URIValidator interface {
	IsValidURI(candidate string) bool
}

var (
	// uriAllowedChars is the RFC 3986 character set: unreserved, reserved and '%'.
	uriAllowedChars = regexp.MustCompile(`^[A-Za-z0-9:/?#\[\]@!$&'()*+,;=.\-_~%]*$`)

	// uriBadEscape matches a '%' that does not start a two-digit hex escape.
	uriBadEscape = regexp.MustCompile(`%([^0-9A-Fa-f]|[0-9A-Fa-f][^0-9A-Fa-f]|[0-9A-Fa-f]?$)`)

	// uriScheme matches a scheme followed by ':'.
	uriScheme = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*:`)
)

// DefaultValidator checks generic URI syntax:
//   - only RFC 3986 characters
//   - well-formed percent escapes
//   - a scheme is present
//   - net/url can parse it
type DefaultValidator struct{}

// IsValidURI implements URIValidator.
func (DefaultValidator) IsValidURI(candidate string) bool {
	if candidate == "" {
		return false
	}
	if !uriAllowedChars.MatchString(candidate) {
		return false
	}
	if uriBadEscape.MatchString(candidate) {
		return false
	}
	if !uriScheme.MatchString(candidate) {
		return false
	}

	u, err := url.Parse(candidate)
	if err != nil || u.Scheme == "" {
		return false
	}

	return true
}
