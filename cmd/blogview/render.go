package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/eringen/blogview/router"
	"github.com/eringen/blogview/view"
	"github.com/eringen/blogview/views"
)

func newRenderCmd() *cobra.Command {
	var (
		format string
		style  string
		width  int
	)

	cmd := &cobra.Command{
		Use:   "render <path>",
		Short: "Render the page at a location path",
		Example: `  blogview render /
  blogview render /blog
  blogview render /blog/hello-world --format html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			root := view.New(app.Registry, app.Resolver, app.Renderer,
				view.WithWelcome(app.Config.Welcome),
				view.WithLogger(app.Echo.Logger),
				view.WithBaseContext(cmd.Context()),
				view.WithResolveTimeout(app.Config.ResolveTimeout),
			)
			defer root.Close()

			ctx := router.WithLocation(cmd.Context(), router.Location{Path: args[0]})
			page := root.Render(ctx)
			if page.Pending() {
				if err := root.Settle(cmd.Context()); err != nil {
					return err
				}
				page = root.Render(ctx)
			}

			out := cmd.OutOrStdout()
			switch format {
			case "html":
				_, err = io.WriteString(out, page.HTML.String())
			case "term":
				err = writeTerm(out, page, style, width)
			default:
				return fmt.Errorf("unknown format %q (want html or term)", format)
			}
			if err != nil {
				return err
			}
			if !page.Found() {
				return fmt.Errorf("nothing to show at %s", args[0])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "term", "output format: term or html")
	cmd.Flags().StringVar(&style, "style", "auto", "glamour style for term output (auto, dark, light, dracula, ...)")
	cmd.Flags().IntVar(&width, "width", 80, "word wrap width for term output")
	return cmd
}

// writeTerm renders the page's markdown for a terminal. Posts get their
// header lines printed above the body.
func writeTerm(w io.Writer, page view.Page, style string, width int) error {
	md := page.Source
	if page.Kind == router.Post && page.Found() {
		meta := views.MetaFromHeaders(page.Headers)
		var b strings.Builder
		if meta.Title != "" {
			fmt.Fprintf(&b, "# %s\n\n", meta.Title)
		}
		if meta.Date != "" || len(meta.Tags) > 0 {
			fmt.Fprintf(&b, "> **Date:** %s | **Tags:** %s\n\n---\n\n", meta.Date, views.JoinTags(meta.Tags))
		}
		b.WriteString(md)
		md = b.String()
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
