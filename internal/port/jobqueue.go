package port

import "videoqc/internal/domain"

type JobQueue interface {
	Enqueue(mediaID string, req domain.ConversionRequest) (*domain.Job, error)
	Claim() (*domain.Job, error)
	Complete(jobID int64) error
	Fail(jobID int64, errMsg string) error
	LatestByMedia(mediaID string) (*domain.Job, error)
	ResetStalled() error
}
