package thumbnail

import (
	"context"
	"errors"
	"log"
	"time"

	"filebox/internal/blob"
	"filebox/internal/domain/files"
	"filebox/internal/queue"
)

type FileStore interface {
	GetByIDAndOwner(ctx context.Context, id string, userID int64) (*files.File, error)
}

type BlobStore interface {
	Read(locator string) ([]byte, error)
	Write(locator string, data []byte) error
}

type JobQueue interface {
	Dequeue(ctx context.Context) (*queue.Job, error)
	Ack(ctx context.Context, j *queue.Job) error
	Retry(ctx context.Context, j *queue.Job, reason string) error
	Kill(ctx context.Context, j *queue.Job, reason string) error
}

// Worker consumes derivative jobs and writes the three fixed-width
// renditions next to each original. Missing metadata and non-image targets
// are permanent failures; store hiccups are retried by redelivery. One width
// failing never aborts the remaining widths.
type Worker struct {
	jobs  JobQueue
	files FileStore
	blobs BlobStore
	poll  time.Duration
}

func NewWorker(jobs JobQueue, fileStore FileStore, blobs BlobStore, poll time.Duration) *Worker {
	return &Worker{jobs: jobs, files: fileStore, blobs: blobs, poll: poll}
}

// errRetryLater tells the run loop a job was put back for redelivery, so
// the worker must wait a poll interval instead of re-grabbing it instantly.
var errRetryLater = errors.New("job scheduled for retry")

// Run consumes jobs until ctx is cancelled. A job in flight is finished
// before the loop observes the cancellation.
func (w *Worker) Run(ctx context.Context) error {
	log.Println("thumbnail worker started")
	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()

	for {
		err := w.processOne(ctx)
		if err == nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !errors.Is(err, queue.ErrEmpty) && !errors.Is(err, errRetryLater) {
			log.Printf("worker: %v", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *Worker) processOne(ctx context.Context) error {
	j, err := w.jobs.Dequeue(ctx)
	if err != nil {
		return err
	}

	f, err := w.files.GetByIDAndOwner(ctx, j.FileID, j.UserID)
	if err != nil {
		if errors.Is(err, files.ErrNotFound) {
			log.Printf("job %s: file %s not found, dead-lettering", j.ID, j.FileID)
			return w.jobs.Kill(ctx, j, "file not found")
		}
		log.Printf("job %s: metadata lookup failed, will retry: %v", j.ID, err)
		if retryErr := w.jobs.Retry(ctx, j, err.Error()); retryErr != nil {
			return retryErr
		}
		return errRetryLater
	}

	if f.Kind != files.KindImage {
		log.Printf("job %s: file %s is not an image, dead-lettering", j.ID, j.FileID)
		return w.jobs.Kill(ctx, j, "file is not an image")
	}

	original, err := w.blobs.Read(f.Locator)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			log.Printf("job %s: original content %s missing, dead-lettering", j.ID, f.Locator)
			return w.jobs.Kill(ctx, j, "original content missing")
		}
		log.Printf("job %s: content read failed, will retry: %v", j.ID, err)
		if retryErr := w.jobs.Retry(ctx, j, err.Error()); retryErr != nil {
			return retryErr
		}
		return errRetryLater
	}

	for _, width := range Widths {
		thumb, err := Resize(original, width)
		if err != nil {
			log.Printf("job %s: failed to generate %d thumbnail for file %s: %v", j.ID, width, j.FileID, err)
			continue
		}
		if err := w.blobs.Write(blob.DerivativeLocator(f.Locator, width), thumb); err != nil {
			log.Printf("job %s: failed to store %d thumbnail for file %s: %v", j.ID, width, j.FileID, err)
			continue
		}
	}

	return w.jobs.Ack(ctx, j)
}
