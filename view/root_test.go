package view

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/blogview/docstore"
	"github.com/eringen/blogview/registry"
	"github.com/eringen/blogview/resolver"
	"github.com/eringen/blogview/router"
)

// gatedStore blocks Get for ids with a gate until the gate is closed.
// It ignores cancellation so stale results really do arrive late.
type gatedStore struct {
	docstore.Store
	gates map[string]chan struct{}
}

func (g gatedStore) Get(ctx context.Context, id string) (string, error) {
	if gate, ok := g.gates[id]; ok {
		<-gate
	}
	return g.Store.Get(context.Background(), id)
}

func quiet() *log.Logger {
	l := log.New("test")
	l.SetLevel(log.OFF)
	return l
}

type fixture struct {
	root  *Root
	store *docstore.Counting
	gates map[string]chan struct{}
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	reg := registry.MustNew("a", "b", "slow", "short")
	gates := map[string]chan struct{}{"slow": make(chan struct{})}
	store := docstore.NewCounting(gatedStore{
		Store: docstore.Map{
			"a":     "Title A\n2024-01-01\ngo\nHello **world**",
			"slow":  "Slow\n2024-01-02\nx\nslow body",
			"short": "Only a title",
		},
		gates: gates,
	})
	res := resolver.New(reg, store, resolver.WithLogger(quiet()))
	root := New(reg, res, nil, append([]Option{WithLogger(quiet())}, opts...)...)
	t.Cleanup(root.Close)
	return &fixture{root: root, store: store, gates: gates}
}

func at(path string) context.Context {
	return router.WithLocation(context.Background(), router.Location{Path: path})
}

func settle(t *testing.T, r *Root) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, r.Settle(ctx))
}

func TestHomeRendersWelcome(t *testing.T) {
	f := newFixture(t, WithWelcome("# Hi there"))

	page := f.root.Render(at("/"))
	assert.Equal(t, router.Home, page.Kind)
	assert.True(t, page.Found())
	assert.False(t, page.Pending())
	assert.Contains(t, page.HTML.String(), "Hi there</h1>")
	assert.Equal(t, int64(0), f.store.Calls())
}

func TestIndexListsRegistryInOrder(t *testing.T) {
	f := newFixture(t)

	page := f.root.Render(at("/blog"))
	assert.Equal(t, router.Index, page.Kind)
	require.Len(t, page.Links, 4)
	assert.Equal(t, Link{ID: "a", Href: "/blog/a"}, page.Links[0])
	assert.Equal(t, Link{ID: "short", Href: "/blog/short"}, page.Links[3])
	assert.Contains(t, page.HTML.String(), `<a href="/blog/slow">slow</a>`)
	assert.Equal(t, 4, strings.Count(page.HTML.String(), `<a href="/blog/`))
	assert.Equal(t, int64(0), f.store.Calls())
}

func TestPostResolvesAsynchronously(t *testing.T) {
	f := newFixture(t)

	page := f.root.Render(at("/blog/a"))
	assert.Equal(t, router.Post, page.Kind)
	assert.Equal(t, "a", page.PostID)

	settle(t, f.root)

	page = f.root.Render(at("/blog/a"))
	assert.Equal(t, Resolved, page.State)
	assert.True(t, page.Found())
	assert.Equal(t, []string{"Title A", "2024-01-01", "go"}, page.Headers)
	assert.Equal(t, "Hello **world**", page.Source)
	assert.Contains(t, page.HTML.String(), "<strong>world</strong>")
	assert.Equal(t, int64(1), f.store.Calls(), "re-rendering a mounted post must not refetch")
}

func TestPendingPostShowsPlaceholder(t *testing.T) {
	f := newFixture(t)

	page := f.root.Render(at("/blog/slow"))
	assert.True(t, page.Pending())
	assert.Equal(t, Resolving, page.State)
	assert.Contains(t, page.HTML.String(), "doesn")

	close(f.gates["slow"])
	settle(t, f.root)

	page = f.root.Render(at("/blog/slow"))
	assert.Equal(t, Resolved, page.State)
	assert.Contains(t, page.HTML.String(), "slow body")
}

func TestUnknownPostNeverFetches(t *testing.T) {
	f := newFixture(t)

	f.root.Render(at("/blog/nope"))
	settle(t, f.root)

	page := f.root.Render(at("/blog/nope"))
	assert.Equal(t, NotFound, page.State)
	assert.False(t, page.Found())
	assert.Empty(t, page.Headers)
	assert.Contains(t, page.HTML.String(), "doesn")
	assert.Equal(t, int64(0), f.store.Calls())
}

func TestRegisteredPostWithoutDocument(t *testing.T) {
	f := newFixture(t)

	f.root.Render(at("/blog/b"))
	settle(t, f.root)

	page := f.root.Render(at("/blog/b"))
	assert.Equal(t, NotFound, page.State)
	assert.Contains(t, page.HTML.String(), "doesn")
	assert.Equal(t, int64(1), f.store.Calls())
}

func TestShortDocumentHasEmptyBody(t *testing.T) {
	f := newFixture(t)

	f.root.Render(at("/blog/short"))
	settle(t, f.root)

	page := f.root.Render(at("/blog/short"))
	assert.Equal(t, Resolved, page.State)
	assert.Equal(t, []string{"Only a title"}, page.Headers)
	assert.Contains(t, page.HTML.String(), "doesn")
	assert.False(t, page.Found(), "a post with no body shows the placeholder")
}

func TestUnknownRouteRendersNotFound(t *testing.T) {
	f := newFixture(t)

	page := f.root.Render(at("/unknown"))
	assert.Equal(t, router.NotFound, page.Kind)
	assert.False(t, page.Found())
	assert.Contains(t, page.HTML.String(), "Not found</h1>")
}

func TestStaleResolutionIsDiscarded(t *testing.T) {
	var mu sync.Mutex
	var changes []Page
	f := newFixture(t, WithOnChange(func(p Page) {
		mu.Lock()
		changes = append(changes, p)
		mu.Unlock()
	}))

	f.root.Render(at("/blog/slow"))
	f.root.mu.Lock()
	stale := f.root.post
	f.root.mu.Unlock()

	f.root.Render(at("/blog/a"))
	settle(t, f.root)

	close(f.gates["slow"])
	select {
	case <-stale.done:
	case <-time.After(2 * time.Second):
		t.Fatal("stale resolution did not finish")
	}

	page := f.root.Render(at("/blog/a"))
	assert.Equal(t, "a", page.PostID)
	assert.Contains(t, page.HTML.String(), "<strong>world</strong>")
	assert.NotContains(t, page.HTML.String(), "slow body")
	assert.Equal(t, Resolving, stale.state, "stale instance must not be updated")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, changes, 1)
	assert.Equal(t, "a", changes[0].PostID)
}

func TestNavigatingBackMountsFreshInstance(t *testing.T) {
	f := newFixture(t)

	f.root.Render(at("/blog/a"))
	settle(t, f.root)
	f.root.Render(at("/blog"))
	f.root.Render(at("/blog/a"))
	settle(t, f.root)

	assert.Equal(t, int64(2), f.store.Calls())
}

func TestDeeperSegmentsShareInstance(t *testing.T) {
	f := newFixture(t)

	f.root.Render(at("/blog/a"))
	settle(t, f.root)
	page := f.root.Render(at("/blog/a/comments"))

	assert.Equal(t, Resolved, page.State)
	assert.Equal(t, int64(1), f.store.Calls())
}

func TestSettleWithoutPost(t *testing.T) {
	f := newFixture(t)
	f.root.Render(at("/"))
	assert.NoError(t, f.root.Settle(context.Background()))
}

func TestSettleHonorsContext(t *testing.T) {
	f := newFixture(t)
	f.root.Render(at("/blog/slow"))
	t.Cleanup(func() { close(f.gates["slow"]) })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, f.root.Settle(ctx), context.DeadlineExceeded)
}

func TestStateTerminal(t *testing.T) {
	assert.False(t, Unresolved.Terminal())
	assert.False(t, Resolving.Terminal())
	assert.True(t, Resolved.Terminal())
	assert.True(t, NotFound.Terminal())
	assert.Equal(t, "resolving", Resolving.String())
}
