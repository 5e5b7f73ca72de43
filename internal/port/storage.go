package port

import "videoqc/internal/domain"

type MediaStore interface {
	Save(m *domain.Media) error
	Get(id string) (*domain.Media, error)
	Delete(id string) error
	ListAll() ([]*domain.Media, error)
	UpdateStatus(id string, status domain.MediaStatus, errMsg string) error
	UpdateDone(id string, convertedPath string) error
	UpdateProbeJSON(id string, probeJSON string) error
}
