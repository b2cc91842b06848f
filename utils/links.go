package utils

import (
	"net/url"
	"strings"
)

// ShoePathPrefix is the navigation prefix of shoe detail pages
const ShoePathPrefix = "/shoe/"

// ShoeHref builds the navigation target for a shoe card
func ShoeHref(slug string) string {
	return ShoePathPrefix + url.PathEscape(slug)
}

// SlugFromPath extracts the slug from a path built by ShoeHref.
// Returns "" if the path does not carry a slug.
func SlugFromPath(path, prefix string) string {
	rest := strings.TrimPrefix(path, prefix)
	if rest == path {
		return ""
	}
	if i := strings.Index(rest, "/"); i >= 0 {
		rest = rest[:i]
	}
	slug, err := url.PathUnescape(rest)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(slug)
}
