// Package content bundles the site's posts into the binary.
//
// posts.yaml is the registry manifest; posts/<id>.md are the documents.
package content

import (
	"embed"
	"fmt"

	"github.com/eringen/blogview/docstore"
	"github.com/eringen/blogview/registry"
)

//go:embed posts.yaml posts/*.md
var FS embed.FS

// Registry loads the bundled manifest.
func Registry() (*registry.Registry, error) {
	f, err := FS.Open("posts.yaml")
	if err != nil {
		return nil, fmt.Errorf("content: open manifest: %w", err)
	}
	defer f.Close()
	return registry.Load(f)
}

// Store returns a document store over the bundled posts.
func Store() *docstore.FS {
	return docstore.NewFS(FS, "posts")
}
