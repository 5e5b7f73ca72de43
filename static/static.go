// Package static embeds the site assets served under /static/.
package static

import "embed"

//go:embed style.css
var FS embed.FS
