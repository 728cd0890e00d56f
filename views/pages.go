// Package views holds the HTML components the HTTP surface renders.
package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/blogview/markdown"
	"github.com/eringen/blogview/router"
	"github.com/eringen/blogview/view"
)

// htmlWriter remembers the first write error so components can write freely.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) component(ctx context.Context, c templ.Component) {
	if h.err == nil {
		h.err = c.Render(ctx, h.w)
	}
}

// Layout wraps body in the page shell.
func Layout(cfg SiteConfig, meta PageMeta, jsonLD string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		title := cfg.Name
		if meta.Title != "" && meta.Title != cfg.Name {
			title = meta.Title + " | " + cfg.Name
		}
		h.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8"/>`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1"/>`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title>`)
		if meta.Description != "" {
			h.raw(`<meta name="description" content="`)
			h.text(meta.Description)
			h.raw(`"/>`)
		}
		if meta.URL != "" {
			h.raw(`<link rel="canonical" href="`)
			h.text(meta.URL)
			h.raw(`"/><meta property="og:url" content="`)
			h.text(meta.URL)
			h.raw(`"/>`)
		}
		h.raw(`<meta property="og:title" content="`)
		h.text(title)
		h.raw(`"/><meta property="og:type" content="`)
		h.text(meta.OGType)
		h.raw(`"/>`)
		h.raw(`<link rel="stylesheet" href="/public/style.css"/>`)
		h.raw(`<link rel="alternate" type="application/rss+xml" title="`)
		h.text(cfg.Name)
		h.raw(`" href="/feed.xml"/>`)
		if jsonLD != "" {
			// json.Marshal escapes <, > and &, so the block cannot close the script tag.
			h.raw(`<script type="application/ld+json">`)
			h.raw(jsonLD)
			h.raw(`</script>`)
		}
		h.raw(`</head><body><header class="site-header"><nav><a class="site-name" href="/">`)
		h.text(cfg.Name)
		h.raw(`</a> <a href="/blog">Posts</a></nav></header><main>`)
		h.component(ctx, body)
		h.raw(`</main><footer class="site-footer">`)
		if cfg.Author != "" {
			h.raw(`&copy; `)
			h.text(cfg.Author)
		}
		h.raw(`</footer></body></html>`)
		return h.err
	})
}

// Page renders a composed page inside the layout.
func Page(cfg SiteConfig, p view.Page) templ.Component {
	switch p.Kind {
	case router.Home:
		meta := PageMeta{Title: cfg.Name, Description: cfg.Description, URL: buildURL(cfg.URL), OGType: "website"}
		return Layout(cfg, meta, WebsiteJsonLD(cfg), article(p.HTML))
	case router.Index:
		meta := PageMeta{Title: "Posts", Description: cfg.Description, URL: buildURL(cfg.URL, "blog"), OGType: "website"}
		return Layout(cfg, meta, "", postList(p.Links))
	case router.Post:
		if !p.Found() {
			return Layout(cfg, PageMeta{Title: "Not found", OGType: "website"}, "", article(p.HTML))
		}
		pm := MetaFromHeaders(p.Headers)
		meta := PageMeta{Title: pm.Title, Description: cfg.Description, URL: buildURL(cfg.URL, "blog", p.PostID), OGType: "article"}
		return Layout(cfg, meta, BlogPostingJsonLD(cfg, p.PostID, pm), post(pm, p.HTML))
	default:
		return Layout(cfg, PageMeta{Title: "Not found", OGType: "website"}, "", article(p.HTML))
	}
}

func article(html markdown.TrustedHTML) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<article class="prose">`)
		h.component(ctx, markdown.Component(html))
		h.raw(`</article>`)
		return h.err
	})
}

func postList(links []view.Link) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h1>Posts</h1>`)
		if len(links) == 0 {
			h.raw(`<p>No posts yet.</p>`)
			return h.err
		}
		h.raw(`<ul class="post-list">`)
		for _, l := range links {
			h.raw(`<li><a href="/blog/`)
			h.text(PathEscape(l.ID))
			h.raw(`">`)
			h.text(l.ID)
			h.raw(`</a></li>`)
		}
		h.raw(`</ul>`)
		return h.err
	})
}

func post(meta PostMeta, html markdown.TrustedHTML) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<header class="post-header">`)
		if meta.Title != "" {
			h.raw(`<h1 class="post-title">`)
			h.text(meta.Title)
			h.raw(`</h1>`)
		}
		if meta.Date != "" {
			h.raw(`<time datetime="`)
			h.text(meta.Date)
			h.raw(`">`)
			h.text(meta.Date)
			h.raw(`</time>`)
		}
		if len(meta.Tags) > 0 {
			h.raw(`<p class="post-tags">`)
			h.text(JoinTags(meta.Tags))
			h.raw(`</p>`)
		}
		h.raw(`</header>`)
		h.component(ctx, article(html))
		return h.err
	})
}

// NotFound is rendered by the HTTP error handler for 404s outside the view router.
func NotFound(cfg SiteConfig) templ.Component {
	return Layout(cfg, PageMeta{Title: "Not found", OGType: "website"}, "",
		article(markdown.Render("# Not found\n\nNothing lives at this address.")))
}

// ServerError is rendered for 5xx responses.
func ServerError(cfg SiteConfig) templ.Component {
	return Layout(cfg, PageMeta{Title: "Error", OGType: "website"}, "",
		article(markdown.Render("# Something went wrong\n\nPlease try again later.")))
}

// TooManyRequests is rendered when a client exceeds the fetch rate limit.
func TooManyRequests(cfg SiteConfig) templ.Component {
	return Layout(cfg, PageMeta{Title: "Slow down", OGType: "website"}, "",
		article(markdown.Render("# Slow down\n\nToo many requests. Try again in a minute.")))
}
