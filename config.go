package blogview

import (
	"time"

	"github.com/eringen/blogview/docstore"
	"github.com/eringen/blogview/registry"
	"github.com/eringen/blogview/view"
)

// Document store kinds.
const (
	StoreEmbed  = "embed"  // posts bundled into the binary
	StoreDir    = "dir"    // <ContentDir>/<id>.md
	StoreSQLite = "sqlite" // documents table in DatabasePath
)

// SiteConfig holds all configuration for a blogview site.
type SiteConfig struct {
	Name        string // Site name (default "Blog")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Author name for JSON-LD and the footer
	Welcome     string // Home page markdown (default view.DefaultWelcome)

	Addr string // Listen address (default ":3000")

	StoreKind    string // "embed", "dir" or "sqlite" (default "embed")
	ContentDir   string // Directory of <id>.md documents for StoreDir
	ManifestPath string // Registry manifest file; empty uses the bundled one
	DatabasePath string // SQLite path for StoreSQLite (default "data/blog.db")

	ResolveTimeout time.Duration // Upper bound on one document load (default 5s)
	RateLimit      int           // Post fetches per IP per minute; negative disables (default 120)
	SafeMarkdown   bool          // Strip raw HTML from rendered markdown
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Welcome == "" {
		c.Welcome = view.DefaultWelcome
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.StoreKind == "" {
		c.StoreKind = StoreEmbed
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blog.db"
	}
	if c.ResolveTimeout == 0 {
		c.ResolveTimeout = 5 * time.Second
	}
	if c.RateLimit == 0 {
		c.RateLimit = 120
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithRegistry replaces the registry loaded from config.
func WithRegistry(r *registry.Registry) Option {
	return func(a *App) {
		a.Registry = r
	}
}

// WithStore replaces the document store selected by config.
func WithStore(s docstore.Store) Option {
	return func(a *App) {
		a.Store = s
	}
}

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}
