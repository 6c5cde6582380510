package assets

import "embed"

// FS holds the static files served under /assets/.
//
//go:embed *.js *.svg
var FS embed.FS
