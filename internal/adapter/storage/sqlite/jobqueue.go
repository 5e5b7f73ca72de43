package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"videoqc/internal/domain"
	"videoqc/internal/port"
)

type JobQueue struct {
	db *sql.DB
}

func NewJobQueue(store *Store) *JobQueue {
	return &JobQueue{db: store.db}
}

const jobColumns = `id, media_id, type, video_codec, resolution, bitrate, audio_codec,
	status, error_message, attempts, created_at, started_at, completed_at`

func (q *JobQueue) Enqueue(mediaID string, req domain.ConversionRequest) (*domain.Job, error) {
	req.Normalize()
	res, err := q.db.Exec(
		`INSERT INTO jobs (media_id, type, video_codec, resolution, bitrate, audio_codec, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		mediaID, string(domain.JobTypeConvert),
		req.VideoCodec, req.Resolution, req.Bitrate, req.AudioCodec,
		time.Now(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return q.getByID(id)
}

// Claim atomically takes the oldest pending job and marks it running.
// Returns nil without error when the queue is empty.
func (q *JobQueue) Claim() (*domain.Job, error) {
	row := q.db.QueryRow(
		`UPDATE jobs SET status = ?, started_at = ?, attempts = attempts + 1
		 WHERE id = (
		     SELECT id FROM jobs WHERE status = ? ORDER BY created_at, id LIMIT 1
		 )
		 RETURNING `+jobColumns,
		string(domain.JobStatusRunning), time.Now(), string(domain.JobStatusPending),
	)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return job, nil
}

func (q *JobQueue) Complete(jobID int64) error {
	_, err := q.db.Exec(
		`UPDATE jobs SET status = ?, completed_at = ? WHERE id = ?`,
		string(domain.JobStatusDone), time.Now(), jobID,
	)
	return err
}

func (q *JobQueue) Fail(jobID int64, errMsg string) error {
	_, err := q.db.Exec(
		`UPDATE jobs SET status = ?, error_message = ?, completed_at = ? WHERE id = ?`,
		string(domain.JobStatusFailed), errMsg, time.Now(), jobID,
	)
	return err
}

func (q *JobQueue) LatestByMedia(mediaID string) (*domain.Job, error) {
	row := q.db.QueryRow(
		`SELECT `+jobColumns+` FROM jobs WHERE media_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		mediaID,
	)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

// ResetStalled returns jobs left running by a previous process to the
// pending state so they are picked up again.
func (q *JobQueue) ResetStalled() error {
	_, err := q.db.Exec(
		`UPDATE jobs SET status = ?, started_at = NULL WHERE status = ?`,
		string(domain.JobStatusPending), string(domain.JobStatusRunning),
	)
	return err
}

func scanJob(row rowScanner) (*domain.Job, error) {
	var j domain.Job
	var jobType, status string
	err := row.Scan(
		&j.ID, &j.MediaID, &jobType, &j.VideoCodec, &j.Resolution, &j.Bitrate, &j.AudioCodec,
		&status, &j.ErrorMessage, &j.Attempts, &j.CreatedAt, &j.StartedAt, &j.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	j.Type = domain.JobType(jobType)
	j.Status = domain.JobStatus(status)
	return &j, nil
}

func (q *JobQueue) getByID(id int64) (*domain.Job, error) {
	row := q.db.QueryRow(`SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	return scanJob(row)
}

var _ port.JobQueue = (*JobQueue)(nil)
