package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/blogview/resolver"
	"github.com/eringen/blogview/views"
)

func newPostsCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "posts",
		Short: "List registered posts in display order",
		Long: `List registered posts in display order.

With --check every post is resolved, and registered posts whose documents
cannot be loaded are reported. The command fails if any are missing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			out := cmd.OutOrStdout()
			missing := 0
			for _, id := range app.Registry.All() {
				if !check {
					fmt.Fprintln(out, id)
					continue
				}
				post, err := app.Resolver.Resolve(cmd.Context(), id)
				var loadErr *resolver.LoadError
				switch {
				case errors.As(err, &loadErr):
					missing++
					fmt.Fprintf(out, "%s\tMISSING\t%v\n", id, loadErr.Err)
				case err != nil:
					return err
				default:
					fmt.Fprintf(out, "%s\tok\t%s\n", id, views.MetaFromHeaders(post.Headers).Title)
				}
			}
			if missing > 0 {
				return fmt.Errorf("%d registered post(s) have no loadable document", missing)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "resolve every post and report missing documents")
	return cmd
}
