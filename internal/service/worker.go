package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"videoqc/internal/domain"
	"videoqc/internal/infrastructure/logger"
	"videoqc/internal/port"
)

// WorkerPool claims queued conversion jobs and runs them. Each convert
// call is synchronous and blocking; the pool only moves that blocking
// call off the request path. Conversion failures are absorbed here and
// reported through media status, never raised further.
type WorkerPool struct {
	jobQueue  port.JobQueue
	store     port.MediaStore
	converter port.Converter
	eventBus  EventPublisher
	dataDir   string
	workers   int
}

func NewWorkerPool(
	jobQueue port.JobQueue,
	store port.MediaStore,
	converter port.Converter,
	eventBus EventPublisher,
	dataDir string,
	workers int,
) *WorkerPool {
	return &WorkerPool{
		jobQueue:  jobQueue,
		store:     store,
		converter: converter,
		eventBus:  eventBus,
		dataDir:   dataDir,
		workers:   workers,
	}
}

func (wp *WorkerPool) Start(ctx context.Context) {
	// Jobs left running by a previous process go back to pending.
	if err := wp.jobQueue.ResetStalled(); err != nil {
		logger.Error.Printf("failed to reset stalled jobs: %v", err)
	}

	for i := range wp.workers {
		go wp.runWorker(ctx, i)
	}
	logger.Info.Printf("started %d workers", wp.workers)
}

func (wp *WorkerPool) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			logger.Info.Printf("worker %d shutting down", id)
			return
		default:
		}

		job, err := wp.jobQueue.Claim()
		if err != nil {
			logger.Error.Printf("worker %d: failed to claim job: %v", id, err)
			time.Sleep(2 * time.Second)
			continue
		}

		if job == nil {
			// No pending jobs, wait before polling again
			time.Sleep(500 * time.Millisecond)
			continue
		}

		logger.Info.Printf("worker %d: processing job %d (media=%s, codec=%s)", id, job.ID, job.MediaID, job.VideoCodec)
		wp.processJob(ctx, job)
	}
}

func (wp *WorkerPool) processJob(ctx context.Context, job *domain.Job) {
	if err := wp.handleConvert(ctx, job); err != nil {
		logger.Error.Printf("job %d failed: %v", job.ID, err)
		_ = wp.jobQueue.Fail(job.ID, err.Error())
		_ = wp.store.UpdateStatus(job.MediaID, domain.MediaStatusFailed, err.Error())
		wp.publish(job.MediaID, string(domain.MediaStatusFailed), err.Error())
		return
	}

	_ = wp.jobQueue.Complete(job.ID)
	logger.Info.Printf("job %d completed", job.ID)
}

func (wp *WorkerPool) handleConvert(ctx context.Context, job *domain.Job) error {
	media, err := wp.store.Get(job.MediaID)
	if err != nil {
		return fmt.Errorf("get media: %w", err)
	}

	outputPath := filepath.Join(wp.dataDir, "converted", media.ID+".mxf")
	req := job.Request(media.OriginalPath, outputPath)

	if err := wp.converter.Convert(ctx, req); err != nil {
		return err
	}

	if err := wp.store.UpdateDone(media.ID, outputPath); err != nil {
		return fmt.Errorf("update media done: %w", err)
	}

	wp.publish(media.ID, string(domain.MediaStatusDone), "")
	return nil
}

func (wp *WorkerPool) publish(mediaID, status, message string) {
	if wp.eventBus == nil {
		return
	}
	wp.eventBus.Publish(mediaID, Event{Type: "status", Status: status, Message: message})
}
