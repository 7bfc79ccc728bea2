package web

import "embed"

// StaticFS embeds the app shell: index page, scripts, service worker,
// manifest and icon.
//
//go:embed static/*
var StaticFS embed.FS
