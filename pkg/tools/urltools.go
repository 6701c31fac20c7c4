package tools

import (
	"regexp"
	"strings"
)

// URL defanging helpers: sanitizing turns a live URL into the analyst
// convention (hXXp, bracketed dots) so it cannot be clicked; unsanitizing
// reverses it.

var (
	reWhitespace     = regexp.MustCompile(`\s+`)
	reSchemePrefix   = regexp.MustCompile(`(?i)^https?`)
	reDefangedPrefix = regexp.MustCompile(`(?i)^hxxps?`)
	reAnyScheme      = regexp.MustCompile(`(?i)^(https?|hxxps?)://`)
	reHostPart       = regexp.MustCompile(`(?i)^(?:https?://)?([^/]+)`)
)

// SanitizeURLs defangs each URL: spaces removed, scheme rewritten to
// hXXp/hXXps, every dot bracketed. Blank entries are dropped.
func SanitizeURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		u = ensureScheme(u, true)
		u = reWhitespace.ReplaceAllString(u, "")
		u = reSchemePrefix.ReplaceAllStringFunc(u, func(m string) string {
			if strings.EqualFold(m, "https") {
				return "hXXps"
			}
			return "hXXp"
		})
		u = strings.ReplaceAll(u, ".", "[.]")
		out = append(out, u)
	}
	return out
}

// UnsanitizeURLs refangs each URL back into clickable form.
func UnsanitizeURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		u = ensureScheme(u, false)
		u = reWhitespace.ReplaceAllString(u, "")
		u = reDefangedPrefix.ReplaceAllStringFunc(u, func(m string) string {
			if strings.EqualFold(m, "hxxps") {
				return "https"
			}
			return "http"
		})
		u = strings.ReplaceAll(u, "[.]", ".")
		u = strings.ReplaceAll(u, "[://]", "://")
		out = append(out, u)
	}
	return out
}

// ExtractDomains returns the registrable domain of each URL's host
// (last two labels), deduplicated in first-seen order.
func ExtractDomains(urls []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		match := reHostPart.FindStringSubmatch(ensureScheme(u, false))
		if match == nil {
			continue
		}
		host := strings.ToLower(match[1])
		parts := strings.Split(host, ".")
		if len(parts) > 2 {
			host = strings.Join(parts[len(parts)-2:], ".")
		}
		if _, dup := seen[host]; dup {
			continue
		}
		seen[host] = struct{}{}
		out = append(out, host)
	}
	return out
}

func ensureScheme(u string, sanitize bool) string {
	if reAnyScheme.MatchString(u) {
		return u
	}
	if sanitize {
		return "hXXp://" + u
	}
	return "http://" + u
}
