package job

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/video2text/backend/internal/db"
)

func newTestQueue(t *testing.T) *JobQueue {
	t.Helper()
	database, err := db.NewSQLite(filepath.Join(t.TempDir(), "queue.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	q := NewJobQueue(database.DB())
	t.Cleanup(q.Stop)
	return q
}

func waitForStatus(t *testing.T, q *JobQueue, id string, want JobStatus) *Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		j, err := q.GetJob(id)
		if err != nil {
			t.Fatalf("GetJob: %v", err)
		}
		if j.Status == want {
			return j
		}
		time.Sleep(10 * time.Millisecond)
	}
	j, _ := q.GetJob(id)
	t.Fatalf("job %s never reached %s, last status %s (error %q)", id, want, j.Status, j.Error)
	return nil
}

func TestQueueRunsRegisteredHandler(t *testing.T) {
	q := newTestQueue(t)

	q.RegisterHandler(JobTranscribe, func(ctx context.Context, j *Job, updateProgress func(float64)) error {
		var params TranscribeParams
		if err := json.Unmarshal(j.Params, &params); err != nil {
			return err
		}
		updateProgress(0.5)
		j.Result = json.RawMessage(`{"transcript_id":"t-1"}`)
		return nil
	})

	j, err := q.Enqueue(JobTranscribe, "https://example.com/v", TranscribeParams{Language: "zh", MinMergeLength: 15})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	done := waitForStatus(t, q, j.ID, StatusCompleted)
	if done.Progress != 1.0 {
		t.Errorf("progress: %v", done.Progress)
	}
	var result map[string]string
	if err := json.Unmarshal(done.Result, &result); err != nil {
		t.Fatalf("result not persisted: %v", err)
	}
	if result["transcript_id"] != "t-1" {
		t.Errorf("result: %v", result)
	}
}

func TestQueueFailsJobOnHandlerError(t *testing.T) {
	q := newTestQueue(t)

	q.RegisterHandler(JobTranscribe, func(ctx context.Context, j *Job, updateProgress func(float64)) error {
		return context.DeadlineExceeded
	})

	j, err := q.Enqueue(JobTranscribe, "https://example.com/v", TranscribeParams{MinMergeLength: 15})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	failed := waitForStatus(t, q, j.ID, StatusFailed)
	if failed.Error == "" {
		t.Error("expected error message on failed job")
	}
}

func TestQueueRetry(t *testing.T) {
	q := newTestQueue(t)

	fail := true
	q.RegisterHandler(JobTranscribe, func(ctx context.Context, j *Job, updateProgress func(float64)) error {
		if fail {
			return context.DeadlineExceeded
		}
		return nil
	})

	j, err := q.Enqueue(JobTranscribe, "https://example.com/v", TranscribeParams{MinMergeLength: 15})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	waitForStatus(t, q, j.ID, StatusFailed)

	fail = false
	if err := q.RetryJob(j.ID); err != nil {
		t.Fatalf("RetryJob: %v", err)
	}
	waitForStatus(t, q, j.ID, StatusCompleted)

	// Retrying a completed job is rejected.
	if err := q.RetryJob(j.ID); err == nil {
		t.Fatal("expected retry of completed job to fail")
	}
}

func TestQueueListNewestFirst(t *testing.T) {
	q := newTestQueue(t)
	q.RegisterHandler(JobTranscribe, func(ctx context.Context, j *Job, updateProgress func(float64)) error {
		return nil
	})

	first, err := q.Enqueue(JobTranscribe, "https://example.com/1", TranscribeParams{MinMergeLength: 15})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	second, err := q.Enqueue(JobTranscribe, "https://example.com/2", TranscribeParams{MinMergeLength: 15})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	waitForStatus(t, q, first.ID, StatusCompleted)
	waitForStatus(t, q, second.ID, StatusCompleted)

	jobs, err := q.ListJobs()
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("jobs: %d", len(jobs))
	}
	if jobs[0].ID != second.ID {
		t.Errorf("expected newest first, got %s", jobs[0].ID)
	}
}
