package job

import (
	"context"
	"encoding/json"
	"time"
)

// JobType represents the kind of job
type JobType string

const (
	JobTranscribe JobType = "transcribe"
)

// JobStatus represents the current state of a job
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusCancelled JobStatus = "cancelled"
)

// Job represents a queued task (one video URL through the transcription pipeline)
type Job struct {
	ID          string          `json:"id"`
	Type        JobType         `json:"type"`
	Status      JobStatus       `json:"status"`
	SourceURL   string          `json:"source_url"`
	Params      json.RawMessage `json:"params"`
	Progress    float64         `json:"progress"`
	Result      json.RawMessage `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// TranscribeParams are parameters for a transcription job
type TranscribeParams struct {
	Language       string `json:"language"`         // "auto", "zh", "en", etc.
	ModelGroup     string `json:"model_group"`      // "paraformer", "sensevoice"
	MinMergeLength int    `json:"min_merge_length"` // default subtitle merge threshold
}

// TranscribeResult is the output of a successful transcription
type TranscribeResult struct {
	TranscriptID string  `json:"transcript_id"`
	Language     string  `json:"language"`
	Characters   int     `json:"characters"`   // content characters recognized
	DurationSec  float64 `json:"duration_sec"` // audio duration
}

// JobHandler processes a job. Implementations are provided by the transcribe package.
type JobHandler func(ctx context.Context, job *Job, updateProgress func(float64)) error
