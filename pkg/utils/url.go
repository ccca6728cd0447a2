package utils

import (
	"net/url"
	"strings"
)

// RootURL returns scheme://host for an absolute URL. Anything that does not
// parse as an absolute URL with a host yields "".
func RootURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + strings.ToLower(u.Host)
}

// IsRoot reports whether rawURL already points at root, ignoring one trailing
// slash. root has no path, so a case-insensitive match only folds scheme and host.
func IsRoot(rawURL, root string) bool {
	return strings.EqualFold(strings.TrimSuffix(strings.TrimSpace(rawURL), "/"), root)
}

// ToAbsoluteURL converts a relative URL to an absolute URL given a base URL.
func ToAbsoluteURL(base *url.URL, relative string) (string, error) {
	relURL, err := url.Parse(relative)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(relURL).String(), nil
}
