package views

import "strings"

// SiteConfig holds site-wide settings the templates need.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
	Author      string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

// PostMeta is the positional reading of a post's header lines:
// title, date, then comma-separated tags.
type PostMeta struct {
	Title string
	Date  string
	Tags  []string
}

// MetaFromHeaders interprets header lines. Missing lines leave fields empty.
func MetaFromHeaders(headers []string) PostMeta {
	var m PostMeta
	if len(headers) > 0 {
		m.Title = strings.TrimSpace(strings.TrimLeft(headers[0], "# "))
	}
	if len(headers) > 1 {
		m.Date = strings.TrimSpace(headers[1])
	}
	if len(headers) > 2 {
		for _, t := range strings.Split(headers[2], ",") {
			if t = strings.TrimSpace(t); t != "" {
				m.Tags = append(m.Tags, strings.ToLower(t))
			}
		}
	}
	return m
}
