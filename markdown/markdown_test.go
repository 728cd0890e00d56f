package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderEmpty(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\n"} {
		got := Render(input)
		assert.True(t, got.IsEmpty(), "Render(%q) = %q", input, got.String())
	}
}

func TestRenderPlainTextParagraph(t *testing.T) {
	got := Render("just some plain words").String()
	assert.Equal(t, "<p>just some plain words</p>\n", got)
}

func TestRenderEmphasis(t *testing.T) {
	got := Render("Hello **world**").String()
	assert.Contains(t, got, "<strong>world</strong>")

	got = Render("an *italic* word").String()
	assert.Contains(t, got, "<em>italic</em>")
}

func TestRenderHeadings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"# Heading 1", `<h1 id="heading-1">Heading 1</h1>`},
		{"## Heading 2", `<h2 id="heading-2">Heading 2</h2>`},
		{"### Heading 3", `<h3 id="heading-3">Heading 3</h3>`},
	}
	for _, tt := range tests {
		got := Render(tt.input).String()
		assert.Contains(t, got, tt.expected, "Render(%q)", tt.input)
	}
}

func TestRenderLists(t *testing.T) {
	got := Render("- item 1\n- item 2").String()
	assert.Contains(t, got, "<ul>")
	assert.Contains(t, got, "<li>item 1</li>")
	assert.Contains(t, got, "<li>item 2</li>")

	got = Render("1. first\n2. second").String()
	assert.Contains(t, got, "<ol>")
	assert.Contains(t, got, "<li>first</li>")
}

func TestRenderCode(t *testing.T) {
	got := Render("Run `go test` to verify.").String()
	assert.Contains(t, got, "<code>go test</code>")

	got = Render("```go\nfmt.Println(\"hi\")\n```").String()
	assert.Contains(t, got, `<pre><code class="language-go">`)
	assert.Contains(t, got, "fmt.Println(&quot;hi&quot;)")
}

func TestRenderCodeIsNotFormatted(t *testing.T) {
	got := Render("`**not bold**`").String()
	assert.Contains(t, got, "<code>**not bold**</code>")
	assert.NotContains(t, got, "<strong>")
}

func TestRenderLinks(t *testing.T) {
	got := Render("[home](/blog)").String()
	assert.Contains(t, got, `<a href="/blog">home</a>`)

	got = Render("[Go](https://go.dev/doc)").String()
	assert.Contains(t, got, `href="https://go.dev/doc"`)
	assert.Contains(t, got, `target="_blank"`)
	assert.Contains(t, got, `rel="noopener noreferrer"`)
}

func TestRenderTable(t *testing.T) {
	got := Render("| a | b |\n|---|---|\n| 1 | 2 |").String()
	assert.Contains(t, got, "<table>")
	assert.Contains(t, got, "<th>a</th>")
	assert.Contains(t, got, "<td>2</td>")
}

func TestRawHTMLPassesThroughByDefault(t *testing.T) {
	got := New().Render("<div class=\"note\">trusted</div>").String()
	assert.Contains(t, got, `<div class="note">trusted</div>`)
}

func TestSafeModeDropsRawHTML(t *testing.T) {
	r := New(WithSafeMode())

	got := r.Render("<script>alert(1)</script>").String()
	assert.NotContains(t, got, "<script>")

	got = r.Render("[x](javascript:alert(1))").String()
	assert.NotContains(t, got, "javascript:")
}

func TestComponentWritesVerbatim(t *testing.T) {
	h := Render("Hello **world**")
	var buf bytes.Buffer
	require.NoError(t, Component(h).Render(context.Background(), &buf))
	assert.Equal(t, h.String(), buf.String())
}

func TestZeroTrustedHTML(t *testing.T) {
	var h TrustedHTML
	assert.True(t, h.IsEmpty())

	var buf bytes.Buffer
	require.NoError(t, Component(h).Render(context.Background(), &buf))
	assert.Empty(t, strings.TrimSpace(buf.String()))
}
