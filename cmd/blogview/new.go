package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/blogview"
	"github.com/eringen/blogview/registry"
	"github.com/eringen/blogview/scaffold"
)

// postData holds the template variables passed to the post template.
type postData struct {
	Title string
	Date  string
	Tags  string
}

func newNewCmd() *cobra.Command {
	var (
		dir  string
		id   string
		tags []string
	)

	cmd := &cobra.Command{
		Use:   "new <title>",
		Short: "Create a new post document",
		Long: `Create <dir>/<id>.md from the post template. The id defaults to the
slugified title. The post is not visible until its id is added to the
registry manifest (posts.yaml).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(args[0])
			if id == "" {
				id = blogview.Slugify(title)
			}
			if id == "" {
				return fmt.Errorf("cannot derive an id from %q; pass --id", title)
			}
			if err := registry.ValidID(id); err != nil {
				return fmt.Errorf("invalid --id: %w", err)
			}

			outPath := filepath.Join(dir, id+".md")
			if _, err := os.Stat(outPath); err == nil {
				return fmt.Errorf("%s already exists", outPath)
			}

			content, err := scaffold.Templates.ReadFile(scaffold.PostTemplate)
			if err != nil {
				return fmt.Errorf("read %s: %w", scaffold.PostTemplate, err)
			}
			tmpl, err := template.New("post").Parse(string(content))
			if err != nil {
				return fmt.Errorf("parse template: %w", err)
			}

			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create %s: %w", outPath, err)
			}
			defer f.Close()

			data := postData{
				Title: title,
				Date:  time.Now().Format("2006-01-02"),
				Tags:  strings.Join(tags, ", "),
			}
			if err := tmpl.Execute(f, data); err != nil {
				return fmt.Errorf("execute template: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "  created %s\n\n", outPath)
			fmt.Fprintf(out, "Add it to the registry manifest to publish it:\n\n  - %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "content/posts", "directory to write the document to")
	cmd.Flags().StringVar(&id, "id", "", "post id (default: slugified title)")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "comma-separated tags")
	return cmd
}
