package mdblog

import "embed"

// EmbeddedAssets contains files shipped with the engine: the default
// stylesheet and the JSON Schema of the post index.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
