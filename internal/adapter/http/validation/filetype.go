package validation

import (
	"bytes"
	"errors"
	"io"
	"net/http"
)

// ErrDisallowedFileType is returned when an upload's content is not a
// recognized video format.
var ErrDisallowedFileType = errors.New("file type not allowed")

// allowedVideoMIMEs is the allowlist of container formats accepted for
// upload. Audio-only and image containers are rejected: there is
// nothing to inspect or transcode in them.
var allowedVideoMIMEs = map[string]bool{
	"video/mp4":        true,
	"video/quicktime":  true,
	"video/webm":       true,
	"video/x-matroska": true,
	"video/x-msvideo":  true,
	"application/mxf":  true,
	"video/mpeg":       true,
	"video/mp2t":       true,
}

const sniffLen = 512

// SniffVideo reads the leading bytes of the upload, detects the
// container format from its magic bytes and rewinds the reader. The
// filename extension is never trusted on its own.
func SniffVideo(reader io.ReadSeeker) (mime string, allowed bool, err error) {
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return "", false, err
	}

	buf := make([]byte, sniffLen)
	n, err := reader.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, err
	}
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return "", false, err
	}
	if n == 0 {
		return "application/octet-stream", false, nil
	}
	buf = buf[:n]

	mime = detectVideoMagic(buf)
	if mime == "" {
		mime = http.DetectContentType(buf)
	}
	return mime, allowedVideoMIMEs[mime], nil
}

// detectVideoMagic recognizes broadcast container signatures that
// http.DetectContentType misses or misreports.
func detectVideoMagic(buf []byte) string {
	if len(buf) < 4 {
		return ""
	}

	// MXF: SMPTE partition pack key 06 0E 2B 34 02 05 01 01
	if len(buf) >= 8 &&
		buf[0] == 0x06 && buf[1] == 0x0E && buf[2] == 0x2B && buf[3] == 0x34 &&
		buf[4] == 0x02 && buf[5] == 0x05 && buf[6] == 0x01 && buf[7] == 0x01 {
		return "application/mxf"
	}

	// Matroska/WebM: EBML header 1A 45 DF A3. The DocType element
	// distinguishes the two; webm carries the literal string.
	if buf[0] == 0x1A && buf[1] == 0x45 && buf[2] == 0xDF && buf[3] == 0xA3 {
		if bytes.Contains(buf, []byte("webm")) {
			return "video/webm"
		}
		return "video/x-matroska"
	}

	// AVI: RIFF....AVI(space)
	if len(buf) >= 12 &&
		buf[0] == 'R' && buf[1] == 'I' && buf[2] == 'F' && buf[3] == 'F' &&
		buf[8] == 'A' && buf[9] == 'V' && buf[10] == 'I' && buf[11] == ' ' {
		return "video/x-msvideo"
	}

	// MPEG-TS: sync byte 0x47 repeating at the 188-byte packet stride.
	if len(buf) >= 377 && buf[0] == 0x47 && buf[188] == 0x47 && buf[376] == 0x47 {
		return "video/mp2t"
	}

	// MP4/QuickTime: ftyp box at offset 4.
	if len(buf) >= 12 &&
		buf[4] == 'f' && buf[5] == 't' && buf[6] == 'y' && buf[7] == 'p' {
		if string(buf[8:12]) == "qt  " {
			return "video/quicktime"
		}
		return "video/mp4"
	}

	return ""
}
