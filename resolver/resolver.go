// Package resolver turns a post id into its parsed document.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/gommon/log"

	"github.com/eringen/blogview/docstore"
	"github.com/eringen/blogview/registry"
)

// HeaderLines is the number of leading metadata lines in a document.
const HeaderLines = 3

var (
	// ErrNotFound matches every resolution failure.
	ErrNotFound = errors.New("resolver: post not found")
	// ErrUnknownPost is returned for ids missing from the registry.
	// The document store is not consulted.
	ErrUnknownPost = fmt.Errorf("%w: not registered", ErrNotFound)
)

// LoadError reports that a registered post could not be loaded.
type LoadError struct {
	ID  string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("resolver: load %q: %v", e.ID, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is makes a LoadError match ErrNotFound.
func (e *LoadError) Is(target error) bool { return target == ErrNotFound }

// ParsedPost is a document split into its metadata lines and markdown body.
type ParsedPost struct {
	Headers []string
	Body    string
}

// Logger is the subset of echo.Logger the resolver needs.
type Logger interface {
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// Resolver looks posts up in a registry and loads them from a store.
type Resolver struct {
	registry *registry.Registry
	store    docstore.Store
	logger   Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the resolver's logger.
func WithLogger(l Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// New returns a Resolver over reg and store.
func New(reg *registry.Registry, store docstore.Store, opts ...Option) *Resolver {
	r := &Resolver{registry: reg, store: store}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.New("resolver")
	}
	return r
}

// Resolve returns the parsed post for id. Every failure satisfies
// errors.Is(err, ErrNotFound). Results are never cached.
func (r *Resolver) Resolve(ctx context.Context, id string) (ParsedPost, error) {
	if !r.registry.Exists(id) {
		r.logger.Debugf("resolve %q: not registered", id)
		return ParsedPost{}, ErrUnknownPost
	}
	raw, err := r.store.Get(ctx, id)
	if err != nil {
		r.logger.Warnf("resolve %q: registered but not loadable: %v", id, err)
		return ParsedPost{}, &LoadError{ID: id, Err: err}
	}
	return Split(raw), nil
}

// Split separates the first HeaderLines lines of raw from the rest.
// Short documents yield the lines they have and an empty body.
func Split(raw string) ParsedPost {
	lines := strings.Split(raw, "\n")
	n := min(HeaderLines, len(lines))
	headers := make([]string, n)
	for i := range n {
		headers[i] = strings.TrimRight(lines[i], "\r")
	}
	return ParsedPost{
		Headers: headers,
		Body:    strings.Join(lines[n:], "\n"),
	}
}
