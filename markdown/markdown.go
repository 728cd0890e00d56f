// Package markdown converts post bodies to HTML.
//
// Everything this package renders is inserted into pages without escaping.
// Its input must be content authored by the site owner. Never pass
// user-supplied text through it; there is no sanitizer in this pipeline.
package markdown

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/gommon/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// TrustedHTML is markup produced by a Renderer. It can only be constructed
// inside this package, so a value of this type always came from trusted markdown.
type TrustedHTML struct {
	s string
}

// String returns the raw markup.
func (h TrustedHTML) String() string { return h.s }

// IsEmpty reports whether the markup is empty or whitespace only.
func (h TrustedHTML) IsEmpty() bool { return strings.TrimSpace(h.s) == "" }

// Logger is the subset of echo.Logger the renderer needs.
type Logger interface {
	Errorf(format string, args ...interface{})
}

// Renderer converts markdown to TrustedHTML. It is stateless after
// construction and may be shared between goroutines.
type Renderer struct {
	engine goldmark.Markdown
	logger Logger
}

type options struct {
	safe   bool
	logger Logger
}

// Option configures a Renderer.
type Option func(*options)

// WithSafeMode drops raw HTML and dangerous link targets from the output.
func WithSafeMode() Option {
	return func(o *options) { o.safe = true }
}

// WithLogger sets the logger used to report conversion failures.
func WithLogger(l Logger) Option {
	return func(o *options) { o.logger = l }
}

// New builds a Renderer with GFM, linkify and automatic heading ids.
func New(opts ...Option) *Renderer {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New("markdown")
	}

	var rendererOptions []goldmark.Option
	if !o.safe {
		rendererOptions = append(rendererOptions, goldmark.WithRendererOptions(html.WithUnsafe()))
	}

	engine := goldmark.New(append(rendererOptions,
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(util.Prioritized(externalLinks{}, 100)),
		),
	)...)

	return &Renderer{engine: engine, logger: o.logger}
}

// Render converts md to HTML. Empty input yields empty output. A conversion
// failure is logged and yields empty output.
func (r *Renderer) Render(md string) TrustedHTML {
	if strings.TrimSpace(md) == "" {
		return TrustedHTML{}
	}
	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(md), &buf); err != nil {
		r.logger.Errorf("markdown: convert: %v", err)
		return TrustedHTML{}
	}
	return TrustedHTML{s: buf.String()}
}

var defaultRenderer = New()

// Render converts md with the default renderer.
func Render(md string) TrustedHTML {
	return defaultRenderer.Render(md)
}

// Component returns a templ.Component that writes h verbatim.
func Component(h TrustedHTML) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, h.s)
		return err
	})
}

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(md string) templ.Component {
	return Component(Render(md))
}

// externalLinks opens absolute http(s) links in a new tab.
type externalLinks struct{}

func (externalLinks) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok || !isExternal(string(link.Destination)) {
			return ast.WalkContinue, nil
		}
		link.SetAttributeString("target", []byte("_blank"))
		link.SetAttributeString("rel", []byte("noopener noreferrer"))
		return ast.WalkContinue, nil
	})
}

func isExternal(dest string) bool {
	dest = strings.ToLower(strings.TrimSpace(dest))
	return strings.HasPrefix(dest, "http://") || strings.HasPrefix(dest, "https://")
}
