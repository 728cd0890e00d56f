package blogview

import "embed"

// EmbeddedAssets contains the default stylesheet served at /public/style.css.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
