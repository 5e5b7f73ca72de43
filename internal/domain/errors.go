package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("resource not found")

	// ErrNoVideoStream is returned when the probe output contains no
	// video stream to inspect.
	ErrNoVideoStream = errors.New("no video stream found")
)

// ProbeError reports a failed ffprobe invocation or output that could
// not be parsed as JSON.
type ProbeError struct {
	Path string
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s: %v", e.Path, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// FieldError reports a stream field that is absent or not in the shape
// the extractor expects, e.g. r_frame_rate without a "num/den" form.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("field %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("field %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// ConversionError reports a failed ffmpeg invocation. Stderr holds the
// transcoder's captured error text.
type ConversionError struct {
	Stderr string
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("conversion failed: %s", e.Stderr)
	}
	return fmt.Sprintf("conversion failed: %v", e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }
