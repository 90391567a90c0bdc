package web

import "embed"

// StaticFS embeds the frontend assets served at /.
//
//go:embed static/*
var StaticFS embed.FS
