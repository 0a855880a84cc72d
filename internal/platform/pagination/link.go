// Package pagination reads and writes RFC 8288 Link headers.
package pagination

import (
	"slices"
	"strings"
)

// Link is one entry of a Link header.
type Link struct {
	URL  string
	Rels []string
}

// Has reports whether l carries relation rel. Relation names compare case-insensitively.
func (l Link) Has(rel string) bool {
	return slices.ContainsFunc(l.Rels, func(r string) bool { return strings.EqualFold(r, rel) })
}

// ParseLinkHeader returns the entries of header in order. Malformed entries are skipped.
func ParseLinkHeader(header string) []Link {
	var links []Link
	for raw := range strings.SplitSeq(header, ",") {
		part := strings.TrimSpace(raw)
		end := strings.Index(part, ">")
		if !strings.HasPrefix(part, "<") || end < 0 {
			continue
		}
		link := Link{URL: strings.TrimSpace(part[1:end])}
		for param := range strings.SplitSeq(part[end+1:], ";") {
			key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
			if !ok || !strings.EqualFold(strings.TrimSpace(key), "rel") {
				continue
			}
			link.Rels = append(link.Rels, strings.Fields(strings.Trim(strings.TrimSpace(value), `"`))...)
		}
		links = append(links, link)
	}
	return links
}

// NextURL returns the target of the first rel="next" entry, or "" on the last page.
func NextURL(header string) string {
	for _, link := range ParseLinkHeader(header) {
		if link.Has("next") {
			return link.URL
		}
	}
	return ""
}

// BuildLinkHeader formats links as a Link header value.
func BuildLinkHeader(links ...Link) string {
	parts := make([]string, 0, len(links))
	for _, l := range links {
		if l.URL == "" || len(l.Rels) == 0 {
			continue
		}
		parts = append(parts, "<"+l.URL+`>; rel="`+strings.Join(l.Rels, " ")+`"`)
	}
	return strings.Join(parts, ", ")
}
