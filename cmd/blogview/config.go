package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/eringen/blogview"
)

// configDefaults seeds every key so AutomaticEnv can see it.
var configDefaults = map[string]any{
	"name":            "Blog",
	"url":             "http://localhost:3000",
	"description":     "",
	"author":          "",
	"welcome":         "",
	"addr":            ":3000",
	"store":           blogview.StoreEmbed,
	"content_dir":     "",
	"manifest":        "",
	"database_path":   "data/blog.db",
	"resolve_timeout": 5 * time.Second,
	"rate_limit":      120,
	"safe_markdown":   false,
}

// loadConfig resolves configuration with precedence: defaults < file < env.
// Environment variables use the BLOGVIEW_ prefix, e.g. BLOGVIEW_STORE=sqlite.
func loadConfig(v *viper.Viper) (blogview.SiteConfig, error) {
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("blogview")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "blogview"))
		}
		v.AddConfigPath(".")
	}

	for k, d := range configDefaults {
		v.SetDefault(k, d)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return blogview.SiteConfig{}, err
		}
	}

	v.SetEnvPrefix("blogview")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return blogview.SiteConfig{
		Name:           v.GetString("name"),
		URL:            v.GetString("url"),
		Description:    v.GetString("description"),
		Author:         v.GetString("author"),
		Welcome:        v.GetString("welcome"),
		Addr:           v.GetString("addr"),
		StoreKind:      v.GetString("store"),
		ContentDir:     v.GetString("content_dir"),
		ManifestPath:   v.GetString("manifest"),
		DatabasePath:   v.GetString("database_path"),
		ResolveTimeout: v.GetDuration("resolve_timeout"),
		RateLimit:      v.GetInt("rate_limit"),
		SafeMarkdown:   v.GetBool("safe_markdown"),
	}, nil
}
