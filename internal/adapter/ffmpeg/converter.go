package ffmpeg

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"videoqc/internal/domain"
	"videoqc/internal/port"
)

const defaultConvertBinary = "ffmpeg"

var (
	ErrEmptyPath   = errors.New("path is empty")
	ErrInvalidPath = errors.New("path contains invalid characters")
)

func validatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if strings.ContainsRune(path, 0) {
		return ErrInvalidPath
	}
	return nil
}

// Converter shells out to ffmpeg with a delivery profile's argument
// vector. The call blocks until the process exits; stderr is captured
// and carried on failure.
type Converter struct {
	runner  Runner
	binary  string
	profile Profile
}

func NewConverter(runner Runner, binary string) *Converter {
	if binary == "" {
		binary = defaultConvertBinary
	}
	return &Converter{runner: runner, binary: binary, profile: XDCAMHD422}
}

func (c *Converter) Convert(ctx context.Context, req domain.ConversionRequest) error {
	req.Normalize()

	if err := validatePath(req.InputPath); err != nil {
		return &domain.ConversionError{Err: err}
	}
	if err := validatePath(req.OutputPath); err != nil {
		return &domain.ConversionError{Err: err}
	}

	args := c.profile.Args(req)

	_, stderr, err := c.runner.Run(ctx, c.binary, args...)
	if err != nil {
		return &domain.ConversionError{Stderr: strings.TrimSpace(string(stderr)), Err: err}
	}
	return nil
}

// ConvertWithProgress runs the same conversion with ffmpeg's -progress
// output parsed off stdout. onProgress receives the output timestamp
// reached so far; callers that know the input duration can turn it into
// a percentage. Used by the CLI.
func (c *Converter) ConvertWithProgress(ctx context.Context, req domain.ConversionRequest, onProgress func(time.Duration)) error {
	req.Normalize()

	if err := validatePath(req.InputPath); err != nil {
		return &domain.ConversionError{Err: err}
	}
	if err := validatePath(req.OutputPath); err != nil {
		return &domain.ConversionError{Err: err}
	}

	args := append([]string{"-progress", "pipe:1", "-nostats"}, c.profile.Args(req)...)

	stderr, err := c.runner.RunStream(ctx, c.binary, args, func(line string) {
		if d, ok := parseProgressLine(line); ok && onProgress != nil {
			onProgress(d)
		}
	})
	if err != nil {
		return &domain.ConversionError{Stderr: strings.TrimSpace(string(stderr)), Err: err}
	}
	return nil
}

// parseProgressLine extracts the reached output timestamp from one
// "key=value" line of ffmpeg -progress output.
func parseProgressLine(line string) (time.Duration, bool) {
	key, val, found := strings.Cut(strings.TrimSpace(line), "=")
	if !found || key != "out_time_us" {
		return 0, false
	}
	us, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
	if err != nil || us < 0 {
		return 0, false
	}
	return time.Duration(us) * time.Microsecond, true
}

var _ port.Converter = (*Converter)(nil)
