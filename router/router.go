// Package router maps a location path to the view that should be shown.
package router

import (
	"context"
	"strings"
)

// Kind names a view.
type Kind int

const (
	// NotFound is shown for paths no rule matches.
	NotFound Kind = iota
	Home
	Index
	Post
)

func (k Kind) String() string {
	switch k {
	case Home:
		return "home"
	case Index:
		return "index"
	case Post:
		return "post"
	default:
		return "not-found"
	}
}

// Descriptor is the router's output. It is comparable, so two descriptors
// are the same view exactly when they are ==.
type Descriptor struct {
	Kind   Kind
	PostID string // set only for Post
}

const blogPrefix = "/blog"

// SelectView returns the view for path. The first matching rule wins:
//
//	"/"            Home
//	"/blog"        Index
//	"/blog..."     Post, id = third "/"-separated segment
//	anything else  NotFound
func SelectView(path string) Descriptor {
	switch {
	case path == "/":
		return Descriptor{Kind: Home}
	case path == blogPrefix:
		return Descriptor{Kind: Index}
	case strings.HasPrefix(path, blogPrefix):
		return Descriptor{Kind: Post, PostID: segment(path, 2)}
	default:
		return Descriptor{Kind: NotFound}
	}
}

// segment returns the n-th (zero-based) "/"-separated segment of path, or "".
func segment(path string, n int) string {
	parts := strings.SplitN(path, "/", n+2)
	if len(parts) <= n {
		return ""
	}
	return parts[n]
}

// Location is the current route. The core only ever reads it.
type Location struct {
	Path string
}

type locationKey struct{}

// WithLocation returns a context carrying loc for the composition root to read.
func WithLocation(ctx context.Context, loc Location) context.Context {
	return context.WithValue(ctx, locationKey{}, loc)
}

// LocationFrom returns the location carried by ctx, defaulting to "/".
func LocationFrom(ctx context.Context) Location {
	if loc, ok := ctx.Value(locationKey{}).(Location); ok {
		return loc
	}
	return Location{Path: "/"}
}
