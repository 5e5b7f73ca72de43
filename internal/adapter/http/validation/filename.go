package validation

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxFilenameLength is the common filesystem limit.
const maxFilenameLength = 255

// dangerousChars are replaced in filenames: they can break
// Content-Disposition headers or smuggle path components.
var dangerousChars = map[rune]bool{
	'"':  true,
	'\\': true,
	'/':  true,
	':':  true,
	'\n': true,
	'\r': true,
}

// SanitizeFilename makes an uploaded filename safe for file paths and
// Content-Disposition headers. Unicode is preserved; dangerous and
// control characters become underscores; overlong names are truncated
// keeping the extension; empty input becomes "file".
func SanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "file"
	}

	var sb strings.Builder
	sb.Grow(len(name))
	for _, r := range name {
		if dangerousChars[r] || unicode.IsControl(r) {
			sb.WriteRune('_')
		} else {
			sb.WriteRune(r)
		}
	}
	sanitized := sb.String()

	if strings.Trim(sanitized, "_ .") == "" {
		return "file"
	}

	if len(sanitized) > maxFilenameLength {
		ext := filepath.Ext(sanitized)
		if len(ext) >= maxFilenameLength {
			ext = ""
		}
		sanitized = sanitized[:maxFilenameLength-len(ext)] + ext
	}

	return sanitized
}
