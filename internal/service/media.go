package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"videoqc/internal/domain"
	"videoqc/internal/infrastructure/logger"
	"videoqc/internal/port"
)

// MediaService owns the upload → inspect → convert flow. Each uploaded
// file is probed once at upload time; the raw probe JSON is stored and
// the normalized property record is re-derived on every render.
type MediaService struct {
	store  port.MediaStore
	queue  port.JobQueue
	prober port.Prober

	uploadDir    string
	convertedDir string
}

func NewMediaService(store port.MediaStore, queue port.JobQueue, prober port.Prober, dataDir string) *MediaService {
	return &MediaService{
		store:        store,
		queue:        queue,
		prober:       prober,
		uploadDir:    filepath.Join(dataDir, "uploads"),
		convertedDir: filepath.Join(dataDir, "converted"),
	}
}

// Upload moves the received temp file into the upload directory, probes
// it and records the media row. Probe failures are not recovered: the
// file is removed and the raw error returned.
func (s *MediaService) Upload(ctx context.Context, filename string, file *os.File) (*domain.Media, error) {
	if err := os.MkdirAll(s.uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat upload: %w", err)
	}

	media := domain.NewMedia(filename, "", info.Size())
	uploadPath := filepath.Join(s.uploadDir, media.ID+filepath.Ext(filename))
	if err := moveFile(file.Name(), uploadPath); err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}
	media.OriginalPath = uploadPath

	result, err := s.prober.Probe(ctx, uploadPath)
	if err != nil {
		_ = os.Remove(uploadPath)
		return nil, err
	}
	media.ProbeJSON = result.RawJSON

	if err := s.store.Save(media); err != nil {
		_ = os.Remove(uploadPath)
		return nil, fmt.Errorf("save media metadata: %w", err)
	}

	logger.Info.Printf("media uploaded: id=%s, filename=%s, size=%d", media.ID, logger.Sanitize(filename), media.FileSize)
	return media, nil
}

// moveFile renames when possible and falls back to copy+remove when
// the temp spool lives on a different filesystem than the data dir.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return os.Remove(src)
}

func (s *MediaService) Get(id string) (*domain.Media, error) {
	return s.store.Get(id)
}

func (s *MediaService) ListAll() ([]*domain.Media, error) {
	return s.store.ListAll()
}

func (s *MediaService) Delete(id string) error {
	media, err := s.store.Get(id)
	if err != nil {
		return err
	}
	if media.OriginalPath != "" {
		_ = os.Remove(media.OriginalPath)
	}
	if media.ConvertedPath != "" {
		_ = os.Remove(media.ConvertedPath)
	}
	return s.store.Delete(id)
}

// Properties re-derives the normalized record from the stored probe
// output.
func (s *MediaService) Properties(m *domain.Media) (domain.VideoProperties, error) {
	result, err := m.ParseProbe()
	if err != nil {
		return domain.VideoProperties{}, err
	}
	if result == nil {
		return domain.VideoProperties{}, domain.ErrNoVideoStream
	}
	return result.Properties()
}

// Reprobe runs ffprobe again on the stored file and replaces the raw
// probe JSON. Useful after a probe failure or when the file on disk
// was replaced out of band.
func (s *MediaService) Reprobe(ctx context.Context, id string) (*domain.Media, error) {
	media, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	result, err := s.prober.Probe(ctx, media.OriginalPath)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateProbeJSON(media.ID, result.RawJSON); err != nil {
		return nil, fmt.Errorf("update probe data: %w", err)
	}
	media.ProbeJSON = result.RawJSON

	logger.Info.Printf("media re-probed: id=%s", media.ID)
	return media, nil
}

// RequestConversion enqueues a conversion job for the media and marks
// it converting. Empty knobs fall back to the delivery defaults.
func (s *MediaService) RequestConversion(id string, req domain.ConversionRequest) (*domain.Job, error) {
	media, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if media.Status == domain.MediaStatusConverting {
		return nil, fmt.Errorf("media %s is already converting", id)
	}

	if err := os.MkdirAll(s.convertedDir, 0755); err != nil {
		return nil, fmt.Errorf("create converted directory: %w", err)
	}

	req.InputPath = media.OriginalPath
	req.OutputPath = filepath.Join(s.convertedDir, media.ID+".mxf")
	req.Normalize()

	job, err := s.queue.Enqueue(media.ID, req)
	if err != nil {
		return nil, fmt.Errorf("enqueue conversion: %w", err)
	}

	if err := s.store.UpdateStatus(media.ID, domain.MediaStatusConverting, ""); err != nil {
		return nil, err
	}

	logger.Info.Printf("conversion queued: media=%s, job=%d, codec=%s", media.ID, job.ID, req.VideoCodec)
	return job, nil
}

// LatestJob returns the most recent conversion job for the media, or
// nil when none was ever requested.
func (s *MediaService) LatestJob(id string) (*domain.Job, error) {
	job, err := s.queue.LatestByMedia(id)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return job, nil
}

// OutputPath returns the delivery path a conversion of this media
// writes to.
func (s *MediaService) OutputPath(id string) string {
	return filepath.Join(s.convertedDir, id+".mxf")
}
