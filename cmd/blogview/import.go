package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/blogview/docstore"
)

func newImportCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy registered documents from the configured store into SQLite",
		Long: `Copy every registered post document from the configured store
(embed or dir) into a SQLite database, so the site can then run with
store=sqlite. Existing rows are replaced.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			if _, ok := app.Store.(*docstore.SQLite); ok {
				return fmt.Errorf("configured store is already sqlite; nothing to import from")
			}

			db, err := docstore.OpenSQLite(dbPath)
			if err != nil {
				return fmt.Errorf("open %s: %w", dbPath, err)
			}
			defer db.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			imported, skipped := 0, 0
			for _, id := range app.Registry.All() {
				doc, err := app.Store.Get(ctx, id)
				if err != nil {
					skipped++
					fmt.Fprintf(out, "  skipped %s: %v\n", id, err)
					continue
				}
				if err := db.Put(ctx, id, doc); err != nil {
					return fmt.Errorf("store %s: %w", id, err)
				}
				imported++
				fmt.Fprintf(out, "  imported %s\n", id)
			}
			fmt.Fprintf(out, "\n%d imported, %d skipped into %s\n", imported, skipped, dbPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "data/blog.db", "SQLite database to write")
	return cmd
}
