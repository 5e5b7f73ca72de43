package port

import (
	"context"

	"videoqc/internal/domain"
)

// Prober extracts technical properties from a media file. Inspect
// derives the normalized record; Probe exposes the raw parsed output
// for callers that store or re-render it.
type Prober interface {
	Inspect(ctx context.Context, path string) (domain.VideoProperties, error)
	Probe(ctx context.Context, path string) (*domain.ProbeResult, error)
}
