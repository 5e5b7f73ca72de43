package validation

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mp4Header(brand string) []byte {
	buf := []byte{0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p'}
	buf = append(buf, []byte(brand)...)
	return append(buf, make([]byte, 16)...)
}

func TestSniffVideo(t *testing.T) {
	mxf := append([]byte{0x06, 0x0E, 0x2B, 0x34, 0x02, 0x05, 0x01, 0x01}, make([]byte, 24)...)
	webm := append([]byte{0x1A, 0x45, 0xDF, 0xA3}, []byte("....webm....")...)
	mkv := append([]byte{0x1A, 0x45, 0xDF, 0xA3}, []byte("....matroska....")...)
	avi := append([]byte("RIFF\x00\x00\x00\x00AVI "), make([]byte, 16)...)

	ts := make([]byte, 512)
	ts[0], ts[188], ts[376] = 0x47, 0x47, 0x47

	tests := []struct {
		name    string
		data    []byte
		mime    string
		allowed bool
	}{
		{"mp4 isom", mp4Header("isom"), "video/mp4", true},
		{"quicktime", mp4Header("qt  "), "video/quicktime", true},
		{"mxf partition pack", mxf, "application/mxf", true},
		{"webm", webm, "video/webm", true},
		{"matroska", mkv, "video/x-matroska", true},
		{"avi", avi, "video/x-msvideo", true},
		{"mpeg transport stream", ts, "video/mp2t", true},
		{"png", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x00"), "image/png", false},
		{"plain text", []byte("just some notes, not a video"), "text/plain; charset=utf-8", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := bytes.NewReader(tt.data)

			mime, allowed, err := SniffVideo(reader)
			require.NoError(t, err)
			assert.Equal(t, tt.mime, mime)
			assert.Equal(t, tt.allowed, allowed)

			// reader must be rewound for the caller
			pos, err := reader.Seek(0, io.SeekCurrent)
			require.NoError(t, err)
			assert.Zero(t, pos)
		})
	}
}

func TestSniffVideoEmptyFile(t *testing.T) {
	mime, allowed, err := SniffVideo(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", mime)
	assert.False(t, allowed)
}
