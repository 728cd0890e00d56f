// Package blogview serves a small markdown blog: a home page, an index of
// posts, and single posts resolved from a document store.
//
// Posts exist only if they are listed in the registry; documents are loaded
// on demand and never cached. The HTTP layer here is one host surface for the
// view package's composition root; the CLI in cmd/blogview is another.
package blogview

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/eringen/blogview/content"
	"github.com/eringen/blogview/docstore"
	"github.com/eringen/blogview/markdown"
	"github.com/eringen/blogview/registry"
	"github.com/eringen/blogview/resolver"
	"github.com/eringen/blogview/views"
)

// App wires the registry, store, resolver and renderer into an Echo server.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Registry *registry.Registry
	Store    docstore.Store
	Resolver *resolver.Resolver
	Renderer *markdown.Renderer

	fetchLimiter *RateLimiter
	customRoutes []func(*App)
	staticDir    string
	closers      []func() error
}

// New creates an App. Unless overridden with options, the registry and
// store come from the source named by cfg.StoreKind.
func New(cfg SiteConfig, opts ...Option) (*App, error) {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		staticDir: "public",
	}
	a.Echo.HideBanner = true
	a.Echo.Logger.SetLevel(log.INFO)

	for _, opt := range opts {
		opt(a)
	}

	if err := a.initContent(); err != nil {
		return nil, err
	}

	var mdOpts []markdown.Option
	mdOpts = append(mdOpts, markdown.WithLogger(a.Echo.Logger))
	if a.Config.SafeMarkdown {
		mdOpts = append(mdOpts, markdown.WithSafeMode())
	}
	if a.Renderer == nil {
		a.Renderer = markdown.New(mdOpts...)
	}
	a.Resolver = resolver.New(a.Registry, a.Store, resolver.WithLogger(a.Echo.Logger))

	if a.Config.RateLimit > 0 {
		a.fetchLimiter = NewRateLimiter(a.Config.RateLimit, time.Minute)
		a.closers = append(a.closers, func() error {
			a.fetchLimiter.Stop()
			return nil
		})
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return a, nil
}

func (a *App) initContent() error {
	if a.Registry == nil {
		reg, err := a.loadRegistry()
		if err != nil {
			return fmt.Errorf("blogview: load registry: %w", err)
		}
		a.Registry = reg
	}
	if a.Store != nil {
		return nil
	}
	switch a.Config.StoreKind {
	case StoreEmbed:
		a.Store = content.Store()
	case StoreDir:
		if a.Config.ContentDir == "" {
			return fmt.Errorf("blogview: store %q requires ContentDir", StoreDir)
		}
		a.Store = docstore.NewFS(os.DirFS(a.Config.ContentDir), ".")
	case StoreSQLite:
		db, err := docstore.OpenSQLite(a.Config.DatabasePath)
		if err != nil {
			return fmt.Errorf("blogview: open store: %w", err)
		}
		a.Store = db
		a.closers = append(a.closers, db.Close)
	default:
		return fmt.Errorf("blogview: unknown store %q", a.Config.StoreKind)
	}
	return nil
}

func (a *App) loadRegistry() (*registry.Registry, error) {
	if a.Config.ManifestPath == "" {
		return content.Registry()
	}
	f, err := os.Open(a.Config.ManifestPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return registry.Load(f)
}

// Start runs the server until it fails or is shut down.
func (a *App) Start() error {
	a.Echo.Logger.Infof("blogview: %d posts, store %s, listening on %s",
		a.Registry.Len(), a.Config.StoreKind, a.Config.Addr)
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/style.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	// Everything else goes through the view router, which owns the
	// home/index/post/not-found decision.
	e.GET("/", a.handleView)
	e.GET("/*", a.handleView)
}

// Close releases resources opened by New.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (a *App) siteConfig() views.SiteConfig {
	return views.SiteConfig{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
	}
}
