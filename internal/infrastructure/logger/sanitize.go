package logger

import (
	"fmt"
	"strings"
)

// Sanitize escapes control characters in user-supplied strings before
// they reach a log line, so an uploaded filename or a submitted
// username cannot forge log entries or emit terminal escapes. Unicode
// text passes through untouched.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 32 || r == 127 {
				fmt.Fprintf(&b, `\x%02x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
