package pubstatic

import "embed"

const (
	stylesheetPath = "embedded/style.css"
	mathScriptPath = "embedded/math.js"
)

// EmbeddedAssets contains static assets shipped with the generator:
// style.css and math.js, which typesets .math elements with KaTeX.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
