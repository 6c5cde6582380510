package campusshare

import "embed"

// ContentFS holds the markdown pages (guidelines, legal) shipped with the
// binary. Development reads CONTENT_PATH from disk instead.
//
//go:embed content
var ContentFS embed.FS
