// Package registry holds the ordered, immutable list of posts that exist.
package registry

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// PostID identifies a single post. It doubles as the URL path segment under /blog/.
type PostID = string

// ErrInvalidManifest is returned when a registry source cannot be used.
var ErrInvalidManifest = errors.New("registry: invalid manifest")

// Registry is the single source of truth for which posts exist.
// It is built once at startup and never mutated, so concurrent reads are safe.
type Registry struct {
	ids   []PostID
	index map[PostID]struct{}
}

// ValidID reports whether id can be used as a post id. Ids are URL path
// segments and file names at once, so only lowercase ASCII letters, digits
// and inner hyphens are allowed ("hello-world").
func ValidID(id PostID) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: empty post id", ErrInvalidManifest)
	}
	if id[0] == '-' || id[len(id)-1] == '-' {
		return fmt.Errorf("%w: post id %q starts or ends with a hyphen", ErrInvalidManifest, id)
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
		default:
			return fmt.Errorf("%w: post id %q contains %q", ErrInvalidManifest, id, r)
		}
	}
	return nil
}

// New builds a Registry from ids in display order. Invalid or duplicate ids are rejected.
func New(ids ...PostID) (*Registry, error) {
	r := &Registry{
		ids:   make([]PostID, 0, len(ids)),
		index: make(map[PostID]struct{}, len(ids)),
	}
	for _, id := range ids {
		if err := ValidID(id); err != nil {
			return nil, err
		}
		if _, dup := r.index[id]; dup {
			return nil, fmt.Errorf("%w: duplicate post id %q", ErrInvalidManifest, id)
		}
		r.index[id] = struct{}{}
		r.ids = append(r.ids, id)
	}
	return r, nil
}

// MustNew is like New but panics on error. Intended for compiled-in lists.
func MustNew(ids ...PostID) *Registry {
	r, err := New(ids...)
	if err != nil {
		panic(err)
	}
	return r
}

type manifest struct {
	Posts []PostID `yaml:"posts"`
}

// Load reads a YAML manifest of the form:
//
//	posts:
//	  - hello-world
//	  - second-post
func Load(r io.Reader) (*Registry, error) {
	var m manifest
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return New()
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	return New(m.Posts...)
}

// Exists reports whether id is a registered post. Matching is exact.
func (r *Registry) Exists(id PostID) bool {
	if r == nil {
		return false
	}
	_, ok := r.index[id]
	return ok
}

// All returns the registered ids in display order. The slice is a copy.
func (r *Registry) All() []PostID {
	if r == nil {
		return nil
	}
	out := make([]PostID, len(r.ids))
	copy(out, r.ids)
	return out
}

// Len returns the number of registered posts.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.ids)
}
