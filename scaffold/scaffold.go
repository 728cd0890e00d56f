// Package scaffold provides embedded template files for the blogview CLI's
// "new" command.
package scaffold

import "embed"

// Templates contains the post document templates.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS

// PostTemplate is the path of the new-post template inside Templates.
const PostTemplate = "templates/post.md.tmpl"
