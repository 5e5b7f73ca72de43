package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "clip.mov", "clip.mov"},
		{"spaces kept", "my clip.mov", "my clip.mov"},
		{"unicode kept", "tournée.mxf", "tournée.mxf"},
		{"path separator", "../etc/passwd", ".._etc_passwd"},
		{"backslash", `a\b.mov`, "a_b.mov"},
		{"quote", `a"b.mov`, "a_b.mov"},
		{"newline", "a\nb.mov", "a_b.mov"},
		{"colon", "c:clip.mov", "c_clip.mov"},
		{"empty", "", "file"},
		{"whitespace only", "   ", "file"},
		{"only dangerous", `"/\`, "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.input))
		})
	}
}

func TestSanitizeFilename_TruncatesKeepingExtension(t *testing.T) {
	long := strings.Repeat("a", 300) + ".mxf"
	got := SanitizeFilename(long)

	assert.LessOrEqual(t, len(got), 255)
	assert.True(t, strings.HasSuffix(got, ".mxf"))
}
