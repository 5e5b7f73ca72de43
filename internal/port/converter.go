package port

import (
	"context"

	"videoqc/internal/domain"
)

// Converter transcodes a file to the broadcast delivery profile. The
// call blocks until the external process exits.
type Converter interface {
	Convert(ctx context.Context, req domain.ConversionRequest) error
}
