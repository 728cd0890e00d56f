// Package docstore supplies the raw text of post documents by id.
package docstore

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrNotFound is returned when a store has no document for an id.
var ErrNotFound = errors.New("docstore: document not found")

// Store returns the raw document text for a post id.
type Store interface {
	Get(ctx context.Context, id string) (string, error)
}

// Counting wraps a Store and counts Get calls.
type Counting struct {
	Store
	calls atomic.Int64
}

// NewCounting wraps s.
func NewCounting(s Store) *Counting {
	return &Counting{Store: s}
}

func (c *Counting) Get(ctx context.Context, id string) (string, error) {
	c.calls.Add(1)
	return c.Store.Get(ctx, id)
}

// Calls returns the number of Get calls made so far.
func (c *Counting) Calls() int64 {
	return c.calls.Load()
}

// Map is an in-memory Store, handy for tests and fixed content sets.
type Map map[string]string

func (m Map) Get(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	doc, ok := m[id]
	if !ok {
		return "", ErrNotFound
	}
	return doc, nil
}
