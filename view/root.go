// Package view is the composition root. It reads the location injected into
// a render, asks the router which view to show, and owns the state of the
// mounted post view while its document resolves in the background.
package view

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/eringen/blogview/markdown"
	"github.com/eringen/blogview/registry"
	"github.com/eringen/blogview/resolver"
	"github.com/eringen/blogview/router"
)

const (
	// DefaultWelcome is the home page markdown when none is configured.
	DefaultWelcome = "# Welcome\n\nThis is my blog. Start with the [posts](/blog)."

	missingMarkdown  = "# Not here\n\nThat page doesn't exist."
	notFoundMarkdown = "# Not found\n\nNothing lives at this address. Try the [posts](/blog)."
)

// Resolver resolves a post id to its parsed document.
type Resolver interface {
	Resolve(ctx context.Context, id string) (resolver.ParsedPost, error)
}

// Logger is the subset of echo.Logger the root needs.
type Logger interface {
	Debugf(format string, args ...interface{})
}

// Link is one entry of the post index.
type Link struct {
	ID   string
	Href string
}

// Page is what a host surface displays for one render.
type Page struct {
	Kind    router.Kind
	PostID  string
	State   State // post views only
	Headers []string
	Source  string // markdown that produced HTML
	HTML    markdown.TrustedHTML
	Links   []Link // index view only

	placeholder bool
}

// Pending reports whether the page is a post still waiting for its document.
func (p Page) Pending() bool {
	return p.Kind == router.Post && !p.State.Terminal()
}

// Found reports whether the page shows existing content. A resolved post
// with an empty body shows the missing placeholder and is not found.
func (p Page) Found() bool {
	switch p.Kind {
	case router.Home, router.Index:
		return true
	case router.Post:
		return p.State == Resolved && !p.placeholder
	default:
		return false
	}
}

// Root mounts views for the locations it is rendered with.
type Root struct {
	registry *registry.Registry
	resolver Resolver
	renderer *markdown.Renderer
	welcome  string
	logger   Logger
	base     context.Context
	timeout  time.Duration
	onChange func(Page)

	mu      sync.Mutex
	gen     uint64
	mounted *router.Descriptor
	post    *PostView
	cancel  context.CancelFunc
}

// Option configures a Root.
type Option func(*Root)

// WithWelcome sets the home page markdown.
func WithWelcome(md string) Option {
	return func(r *Root) {
		if strings.TrimSpace(md) != "" {
			r.welcome = md
		}
	}
}

// WithLogger sets the root's logger.
func WithLogger(l Logger) Option {
	return func(r *Root) { r.logger = l }
}

// WithBaseContext sets the context background resolutions derive from.
func WithBaseContext(ctx context.Context) Option {
	return func(r *Root) { r.base = ctx }
}

// WithResolveTimeout bounds each background resolution. Zero means no bound.
func WithResolveTimeout(d time.Duration) Option {
	return func(r *Root) { r.timeout = d }
}

// WithOnChange registers fn to be called with a fresh Page whenever a
// background resolution is applied to the mounted post view.
func WithOnChange(fn func(Page)) Option {
	return func(r *Root) { r.onChange = fn }
}

// New returns a Root. A nil renderer uses the default markdown renderer.
func New(reg *registry.Registry, res Resolver, renderer *markdown.Renderer, opts ...Option) *Root {
	r := &Root{
		registry: reg,
		resolver: res,
		renderer: renderer,
		welcome:  DefaultWelcome,
		base:     context.Background(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.renderer == nil {
		r.renderer = markdown.New()
	}
	if r.logger == nil {
		r.logger = log.New("view")
	}
	return r
}

// Render selects the view for the location carried by ctx and returns its
// current page. Navigating to a different view unmounts the previous one;
// rendering the same location again keeps the mounted post view.
func (r *Root) Render(ctx context.Context) Page {
	d := router.SelectView(router.LocationFrom(ctx).Path)

	r.mu.Lock()
	if r.mounted == nil || *r.mounted != d {
		r.mount(d)
	}
	post := r.post
	var snap postSnapshot
	if post != nil {
		snap = post.snapshot()
	}
	r.mu.Unlock()

	return r.page(d, snap)
}

// Settle blocks until the mounted post view reaches a terminal state or ctx
// is done. It returns immediately when no post view is mounted.
func (r *Root) Settle(ctx context.Context) error {
	r.mu.Lock()
	post := r.post
	r.mu.Unlock()
	if post == nil {
		return nil
	}
	select {
	case <-post.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close unmounts the current view, discarding any pending resolution.
func (r *Root) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unmount()
	r.mounted = nil
}

// mount must be called with r.mu held.
func (r *Root) mount(d router.Descriptor) {
	r.unmount()
	r.mounted = &d
	if d.Kind != router.Post {
		return
	}

	r.gen++
	pv := newPostView(d.PostID, r.gen)
	r.post = pv

	var ctx context.Context
	if r.timeout > 0 {
		ctx, r.cancel = context.WithTimeout(r.base, r.timeout)
	} else {
		ctx, r.cancel = context.WithCancel(r.base)
	}

	pv.state = Resolving
	go r.resolve(ctx, pv)
}

// unmount must be called with r.mu held.
func (r *Root) unmount() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	if r.post != nil {
		r.gen++
		r.post = nil
	}
}

func (r *Root) resolve(ctx context.Context, pv *PostView) {
	defer close(pv.done)

	post, err := r.resolver.Resolve(ctx, pv.id)

	r.mu.Lock()
	if r.post != pv || pv.gen != r.gen {
		r.mu.Unlock()
		r.logger.Debugf("discarding stale resolution of %q (generation %d)", pv.id, pv.gen)
		return
	}
	if err != nil {
		pv.state = NotFound
	} else {
		pv.state = Resolved
		pv.headers = post.Headers
		pv.body = post.Body
	}
	d := *r.mounted
	snap := pv.snapshot()
	onChange := r.onChange
	r.mu.Unlock()

	if onChange != nil {
		onChange(r.page(d, snap))
	}
}

func (r *Root) page(d router.Descriptor, post postSnapshot) Page {
	p := Page{Kind: d.Kind, PostID: d.PostID}
	switch d.Kind {
	case router.Home:
		p.Source = r.welcome
	case router.Index:
		p.Links, p.Source = r.index()
	case router.Post:
		p.State = post.state
		p.Headers = post.headers
		if post.body == "" {
			p.Source = missingMarkdown
			p.placeholder = true
		} else {
			p.Source = post.body
		}
	default:
		p.Source = notFoundMarkdown
	}
	p.HTML = r.renderer.Render(p.Source)
	return p
}

func (r *Root) index() ([]Link, string) {
	ids := r.registry.All()
	links := make([]Link, 0, len(ids))
	var b strings.Builder
	b.WriteString("# Posts\n\n")
	for _, id := range ids {
		link := Link{ID: id, Href: "/blog/" + id}
		links = append(links, link)
		fmt.Fprintf(&b, "- [%s](%s)\n", id, link.Href)
	}
	return links, b.String()
}
