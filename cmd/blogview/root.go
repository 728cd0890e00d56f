package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eringen/blogview"
)

type ctxKey string

const configKey ctxKey = "config"

func newRootCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:           "blogview",
		Short:         "blogview - a small markdown blog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if cfgPath != "" {
				v.SetConfigFile(cfgPath)
			}
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), configKey, cfg))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (yaml|toml|json)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newPostsCmd())
	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newNewCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the blogview version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("blogview %s\n", version)
		},
	})

	return cmd
}

func siteConfig(cmd *cobra.Command) (blogview.SiteConfig, error) {
	cfg, ok := cmd.Context().Value(configKey).(blogview.SiteConfig)
	if !ok {
		return blogview.SiteConfig{}, errors.New("internal error: config not loaded")
	}
	return cfg, nil
}

// buildApp constructs the app without starting it. The caller must Close it.
func buildApp(cmd *cobra.Command) (*blogview.App, error) {
	cfg, err := siteConfig(cmd)
	if err != nil {
		return nil, err
	}
	return blogview.New(cfg)
}
