package domain

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"
)

type MediaStatus string

const (
	MediaStatusUploaded   MediaStatus = "uploaded"
	MediaStatusConverting MediaStatus = "converting"
	MediaStatusDone       MediaStatus = "done"
	MediaStatusFailed     MediaStatus = "failed"
)

// Media is the bookkeeping row for one uploaded file. It carries the
// raw probe JSON so the media page can re-derive properties on every
// render; the derived record itself is never stored.
type Media struct {
	ID            string      `json:"id"`
	OriginalName  string      `json:"original_name"`
	OriginalPath  string      `json:"original_path"`
	ConvertedPath string      `json:"converted_path"`
	Status        MediaStatus `json:"status"`
	ErrorMessage  string      `json:"error_message"`
	FileSize      int64       `json:"file_size"`
	ProbeJSON     string      `json:"probe_json"`
	CreatedAt     time.Time   `json:"created_at"`
}

func NewMedia(originalName, originalPath string, fileSize int64) *Media {
	return &Media{
		ID:           generateID(),
		OriginalName: originalName,
		OriginalPath: originalPath,
		Status:       MediaStatusUploaded,
		FileSize:     fileSize,
		CreatedAt:    time.Now(),
	}
}

func generateID() string {
	b := make([]byte, 5)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return strings.ToLower(base32.StdEncoding.EncodeToString(b)[:8])
}

func (m *Media) MarkConverting() {
	m.Status = MediaStatusConverting
	m.ErrorMessage = ""
}

func (m *Media) MarkDone(convertedPath string) {
	m.Status = MediaStatusDone
	m.ConvertedPath = convertedPath
	m.ErrorMessage = ""
}

func (m *Media) MarkFailed(err error) {
	m.Status = MediaStatusFailed
	m.ErrorMessage = err.Error()
}

// ParseProbe decodes the stored raw probe output, or returns nil when
// no probe has run yet.
func (m *Media) ParseProbe() (*ProbeResult, error) {
	if m.ProbeJSON == "" {
		return nil, nil
	}
	var result ProbeResult
	if err := json.Unmarshal([]byte(m.ProbeJSON), &result); err != nil {
		return nil, err
	}
	result.RawJSON = m.ProbeJSON
	return &result, nil
}

// DownloadName is the fixed delivery filename offered for the converted
// file.
const DownloadName = "output.mxf"

// DownloadMIME is the MIME label used when serving the converted file.
const DownloadMIME = "video/mxf"

var videoExts = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true,
	".mxf": true, ".m2ts": true, ".mts": true, ".ts": true,
	".webm": true, ".wmv": true,
}

// IsVideoFilename reports whether the extension is one the upload form
// accepts.
func IsVideoFilename(name string) bool {
	return videoExts[strings.ToLower(filepath.Ext(name))]
}
