package blogview

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/blogview/router"
	"github.com/eringen/blogview/view"
	"github.com/eringen/blogview/views"
)

// handleView renders whatever the view router selects for the request path.
// Each request is a full page load, so it gets its own composition root and
// waits for a post to settle before responding.
func (a *App) handleView(c echo.Context) error {
	ctx := c.Request().Context()
	path := c.Request().URL.Path

	if d := router.SelectView(path); d.Kind == router.Post && a.fetchLimiter != nil && a.Registry.Exists(d.PostID) {
		if !a.fetchLimiter.Allow(c.RealIP()) {
			return RenderStatus(c, http.StatusTooManyRequests, views.TooManyRequests(a.siteConfig()))
		}
	}

	root := view.New(a.Registry, a.Resolver, a.Renderer,
		view.WithWelcome(a.Config.Welcome),
		view.WithLogger(c.Logger()),
		view.WithBaseContext(ctx),
		view.WithResolveTimeout(a.Config.ResolveTimeout),
	)
	defer root.Close()

	renderCtx := router.WithLocation(ctx, router.Location{Path: path})
	page := root.Render(renderCtx)
	if page.Pending() {
		if err := root.Settle(ctx); err != nil {
			return fmt.Errorf("blogview: settle %s: %w", path, err)
		}
		page = root.Render(renderCtx)
	}

	if !page.Found() {
		return RenderStatus(c, http.StatusNotFound, views.Page(a.siteConfig(), page))
	}
	return Render(c, views.Page(a.siteConfig(), page))
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c, a.Registry.All())
}

// handleFeed loads every registered post, so one request is charged against
// the fetch limiter.
func (a *App) handleFeed(c echo.Context) error {
	if a.fetchLimiter != nil && a.Registry.Len() > 0 && !a.fetchLimiter.Allow(c.RealIP()) {
		return RenderStatus(c, http.StatusTooManyRequests, views.TooManyRequests(a.siteConfig()))
	}
	return a.renderRSS(c)
}

// handleRobots generates robots.txt from the site URL.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s\n", BuildURL(a.Config.URL, "sitemap.xml"))
	return c.String(http.StatusOK, body)
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.siteConfig()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, views.ServerError(a.siteConfig()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
