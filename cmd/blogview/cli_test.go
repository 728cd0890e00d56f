package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/blogview"
	"github.com/eringen/blogview/docstore"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := loadConfig(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "Blog", cfg.Name)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, blogview.StoreEmbed, cfg.StoreKind)
	assert.Equal(t, 5*time.Second, cfg.ResolveTimeout)
	assert.Equal(t, 120, cfg.RateLimit)
	assert.False(t, cfg.SafeMarkdown)
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("BLOGVIEW_NAME", "Notes")
	t.Setenv("BLOGVIEW_STORE", "sqlite")
	t.Setenv("BLOGVIEW_RESOLVE_TIMEOUT", "250ms")
	t.Setenv("BLOGVIEW_SAFE_MARKDOWN", "true")

	cfg, err := loadConfig(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "Notes", cfg.Name)
	assert.Equal(t, blogview.StoreSQLite, cfg.StoreKind)
	assert.Equal(t, 250*time.Millisecond, cfg.ResolveTimeout)
	assert.True(t, cfg.SafeMarkdown)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: From File\nrate_limit: 7\n"), 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	cfg, err := loadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "From File", cfg.Name)
	assert.Equal(t, 7, cfg.RateLimit)
}

func TestPostsCommand(t *testing.T) {
	out, err := run(t, "posts")
	require.NoError(t, err)
	assert.Equal(t, "hello-world\nmarkdown-tour\n", out)
}

func TestPostsCheck(t *testing.T) {
	out, err := run(t, "posts", "--check")
	require.NoError(t, err)
	assert.Contains(t, out, "hello-world\tok\tHello, world")
	assert.NotContains(t, out, "MISSING")
}

func TestPostsCheckReportsMissing(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "posts.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte("posts:\n  - hello-world\n  - ghost\n"), 0o644))
	t.Setenv("BLOGVIEW_MANIFEST", manifest)

	out, err := run(t, "posts", "--check")
	require.Error(t, err)
	assert.Contains(t, out, "ghost\tMISSING")
}

func TestRenderHTML(t *testing.T) {
	out, err := run(t, "render", "/blog/hello-world", "--format", "html")
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>markdown</strong>")
	assert.NotContains(t, out, "2024-01-15")
}

func TestRenderIndexHTML(t *testing.T) {
	out, err := run(t, "render", "/blog", "--format", "html")
	require.NoError(t, err)
	assert.Contains(t, out, `href="/blog/hello-world"`)
	assert.Contains(t, out, `href="/blog/markdown-tour"`)
}

func TestRenderNotFound(t *testing.T) {
	out, err := run(t, "render", "/blog/nope", "--format", "html")
	require.Error(t, err)
	assert.Contains(t, out, "Not here")
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := run(t, "render", "/", "--format", "pdf")
	assert.Error(t, err)
}

func TestRenderTerm(t *testing.T) {
	out, err := run(t, "render", "/blog/hello-world", "--style", "notty")
	require.NoError(t, err)
	assert.Contains(t, out, "Hello, world")
	assert.Contains(t, out, "2024-01-15")
}

func TestImportCommand(t *testing.T) {
	db := filepath.Join(t.TempDir(), "blog.db")
	out, err := run(t, "import", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "2 imported, 0 skipped")

	store, err := docstore.OpenSQLite(db)
	require.NoError(t, err)
	defer store.Close()
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"hello-world", "markdown-tour"}, ids)
}

func TestNewCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "new", "My First Post", "--dir", dir, "--tags", "go,notes")
	require.NoError(t, err)
	assert.Contains(t, out, "  - my-first-post")

	data, err := os.ReadFile(filepath.Join(dir, "my-first-post.md"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "# My First Post\n")
	assert.Contains(t, content, time.Now().Format("2006-01-02"))
	assert.Contains(t, content, "go, notes")

	_, err = run(t, "new", "My First Post", "--dir", dir)
	assert.Error(t, err, "existing post must not be overwritten")
}

func TestNewCommandRejectsBadID(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "posts")

	for _, id := range []string{"../escaped", "My Post", "a/b"} {
		out, err := run(t, "new", "X", "--dir", dir, "--id", id)
		require.Error(t, err, id)
		assert.NotContains(t, out, "  - ", id)
	}

	_, err := os.Stat(filepath.Join(base, "escaped.md"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "nothing may be written for a rejected id")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "blogview dev\n", out)
}
