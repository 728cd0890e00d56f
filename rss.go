package blogview

import (
	"context"
	"encoding/xml"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/blogview/resolver"
	"github.com/eringen/blogview/views"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description,omitempty"`
	PubDate     string `xml:"pubDate,omitempty"`
	GUID        string `xml:"guid"`
}

// renderRSS resolves every registered post for its header lines. Posts whose
// documents cannot be loaded or have no body are left out of the feed.
func (a *App) renderRSS(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), a.Config.ResolveTimeout)
	defer cancel()
	base := a.Config.URL
	ids := a.Registry.All()
	items := make([]rssItem, 0, len(ids))
	for _, id := range ids {
		post, err := a.Resolver.Resolve(ctx, id)
		if err != nil {
			if errors.Is(err, resolver.ErrNotFound) && ctx.Err() == nil {
				continue
			}
			return err
		}
		if post.Body == "" {
			continue
		}
		meta := views.MetaFromHeaders(post.Headers)
		title := meta.Title
		if title == "" {
			title = id
		}
		pubDate := ""
		if t, err := time.Parse("2006-01-02", meta.Date); err == nil {
			pubDate = t.Format(time.RFC1123Z)
		}
		postURL := BuildURL(base, "blog", id)
		items = append(items, rssItem{
			Title:       title,
			Link:        postURL,
			Description: views.JoinTags(meta.Tags),
			PubDate:     pubDate,
			GUID:        postURL,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        base,
			Description: a.Config.Description,
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
