package docstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// FS reads documents named <id><ext> from a directory of an fs.FS.
// It serves both the embedded content bundle and os.DirFS directories.
type FS struct {
	fsys fs.FS
	dir  string
	ext  string
}

// NewFS returns a store reading dir/<id>.md from fsys.
func NewFS(fsys fs.FS, dir string) *FS {
	if dir == "" {
		dir = "."
	}
	return &FS{fsys: fsys, dir: dir, ext: ".md"}
}

func (s *FS) Get(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name, err := s.name(id)
	if err != nil {
		return "", err
	}
	b, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("docstore: read %s: %w", name, err)
	}
	return string(b), nil
}

// IDs lists the ids of all documents in the store directory.
func (s *FS) IDs() ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, s.dir)
	if err != nil {
		return nil, fmt.Errorf("docstore: list %s: %w", s.dir, err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), s.ext) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), s.ext))
	}
	return ids, nil
}

func (s *FS) name(id string) (string, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("docstore: invalid id %q: %w", id, ErrNotFound)
	}
	name := path.Join(s.dir, id+s.ext)
	if !fs.ValidPath(name) {
		return "", fmt.Errorf("docstore: invalid id %q: %w", id, ErrNotFound)
	}
	return name, nil
}
