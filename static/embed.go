package static

import "embed"

//go:embed sw.js push.js *.svg *.css
var FS embed.FS
