package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"videoqc/internal/domain"
	"videoqc/internal/port"
)

const defaultProbeBinary = "ffprobe"

// Prober shells out to ffprobe and parses its JSON output.
type Prober struct {
	runner Runner
	binary string
}

func NewProber(runner Runner, binary string) *Prober {
	if binary == "" {
		binary = defaultProbeBinary
	}
	return &Prober{runner: runner, binary: binary}
}

// Probe runs ffprobe against the first video stream only, with errors
// suppressed to minimal verbosity, and returns the parsed output.
func (p *Prober) Probe(ctx context.Context, path string) (*domain.ProbeResult, error) {
	if err := validatePath(path); err != nil {
		return nil, &domain.ProbeError{Path: path, Err: err}
	}

	args := []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream",
		"-of", "json",
		path,
	}

	stdout, stderr, err := p.runner.Run(ctx, p.binary, args...)
	if err != nil {
		if msg := strings.TrimSpace(string(stderr)); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return nil, &domain.ProbeError{Path: path, Err: err}
	}

	var result domain.ProbeResult
	if err := json.Unmarshal(stdout, &result); err != nil {
		return nil, &domain.ProbeError{Path: path, Err: fmt.Errorf("parse output: %w", err)}
	}
	result.RawJSON = string(stdout)

	return &result, nil
}

// Inspect probes the file and derives the normalized property record.
func (p *Prober) Inspect(ctx context.Context, path string) (domain.VideoProperties, error) {
	result, err := p.Probe(ctx, path)
	if err != nil {
		return domain.VideoProperties{}, err
	}
	return result.Properties()
}

var _ port.Prober = (*Prober)(nil)
