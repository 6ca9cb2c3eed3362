package utils

import (
	"net/url"
	"strings"
)

// NormalizeWebsite canonicalizes a website for display and comparison:
// https is assumed when no scheme is given, the host is lowercased, the
// fragment is dropped and trailing slashes are stripped. Unparseable values
// and values without a host report false.
func NormalizeWebsite(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""

	return strings.TrimRight(u.String(), "/"), true
}

// WebsiteKey is the dedup form of a website. Scheme is ignored so that
// http and https variants of the same site collide.
func WebsiteKey(website string) string {
	normalized, ok := NormalizeWebsite(website)
	if !ok {
		return ""
	}
	if i := strings.Index(normalized, "://"); i >= 0 {
		return normalized[i+3:]
	}
	return normalized
}
