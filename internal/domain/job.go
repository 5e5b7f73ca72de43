package domain

import (
	"database/sql"
	"time"
)

type JobType string

const (
	JobTypeConvert JobType = "convert"
)

type JobStatus string

const (
	JobStatusPending JobStatus = "pending"
	JobStatusRunning JobStatus = "running"
	JobStatusDone    JobStatus = "done"
	JobStatusFailed  JobStatus = "failed"
)

// Job is one queued conversion. The four knobs snapshot the request at
// enqueue time so a later default change cannot alter a pending job.
type Job struct {
	ID           int64
	MediaID      string
	Type         JobType
	VideoCodec   string
	Resolution   string
	Bitrate      string
	AudioCodec   string
	Status       JobStatus
	ErrorMessage string
	Attempts     int64
	CreatedAt    time.Time
	StartedAt    sql.NullTime
	CompletedAt  sql.NullTime
}

// Request reconstructs the conversion request this job carries.
func (j *Job) Request(inputPath, outputPath string) ConversionRequest {
	req := ConversionRequest{
		InputPath:  inputPath,
		OutputPath: outputPath,
		VideoCodec: j.VideoCodec,
		Resolution: j.Resolution,
		Bitrate:    j.Bitrate,
		AudioCodec: j.AudioCodec,
	}
	req.Normalize()
	return req
}
