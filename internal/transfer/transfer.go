// Package transfer runs upload batches against the CloudBox API. Files
// are sent strictly one at a time; a failure marks its own task failed
// and the queue moves on to the next file.
package transfer

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/cloudbox/cloudbox-cli/internal/api"
	"github.com/cloudbox/cloudbox-cli/internal/events"
	"github.com/cloudbox/cloudbox-cli/internal/logging"
	"github.com/cloudbox/cloudbox-cli/internal/progress"
)

// Status is the lifecycle state of one upload task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusUploading Status = "uploading"
	StatusSuccess   Status = "success"
	StatusFailed    Status = "failed"
)

// Source describes one file to upload. Open is called when the task
// becomes active, so queued files hold no open handles.
type Source struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// Task tracks one file through the batch.
type Task struct {
	ID     string
	Name   string
	Size   int64
	Status Status
	Err    error
	Result *api.UploadResponse
}

// Batch is the outcome of one Run call.
type Batch struct {
	ID    string
	Tasks []*Task
}

// Failed returns the number of tasks that did not complete.
func (b *Batch) Failed() int {
	n := 0
	for _, t := range b.Tasks {
		if t.Status == StatusFailed {
			n++
		}
	}
	return n
}

// Succeeded returns the number of completed tasks.
func (b *Batch) Succeeded() int {
	n := 0
	for _, t := range b.Tasks {
		if t.Status == StatusSuccess {
			n++
		}
	}
	return n
}

// Queue uploads batches sequentially. A Queue is stateless between Run
// calls and safe to reuse.
type Queue struct {
	files    *api.FilesClient
	bus      *events.EventBus
	logger   *logging.Logger
	reporter progress.Reporter
}

// NewQueue creates an upload queue. The bus, logger and reporter may be
// nil; the reporter, when set, renders one bar per task since the queue
// is strictly sequential.
func NewQueue(files *api.FilesClient, bus *events.EventBus, logger *logging.Logger, reporter progress.Reporter) *Queue {
	return &Queue{files: files, bus: bus, logger: logger, reporter: reporter}
}

// Run uploads the sources into folderID (the root container when
// empty), one at a time and in order. The batch always runs to the end:
// a failing task is recorded and the next source is attempted. Context
// cancellation marks all remaining tasks failed.
func (q *Queue) Run(ctx context.Context, folderID string, sources []Source) *Batch {
	batch := &Batch{ID: uuid.NewString()}
	for _, src := range sources {
		task := &Task{
			ID:     uuid.NewString(),
			Name:   src.Name,
			Size:   src.Size,
			Status: StatusPending,
		}
		batch.Tasks = append(batch.Tasks, task)
		q.publish(events.EventUploadQueued, batch.ID, task, 0, nil)
	}

	for i, task := range batch.Tasks {
		if err := ctx.Err(); err != nil {
			task.Status = StatusFailed
			task.Err = err
			q.publish(events.EventUploadFailed, batch.ID, task, 0, err)
			continue
		}

		task.Status = StatusUploading
		q.publish(events.EventUploadStarted, batch.ID, task, 0, nil)
		if q.reporter != nil {
			q.reporter.Start(task.Size, task.Name)
		}

		resp, err := q.uploadOne(ctx, folderID, sources[i], batch.ID, task)
		if err != nil {
			task.Status = StatusFailed
			task.Err = err
			if q.logger != nil {
				q.logger.Warn().Str("file", task.Name).Err(err).Msg("upload failed")
			}
			if q.reporter != nil {
				q.reporter.Error(err)
			}
			q.publish(events.EventUploadFailed, batch.ID, task, 0, err)
			continue
		}

		task.Status = StatusSuccess
		task.Result = resp
		if q.logger != nil {
			q.logger.Info().Str("file", task.Name).Str("id", resp.ID).Msg("uploaded")
		}
		if q.reporter != nil {
			q.reporter.Finish()
		}
		q.publish(events.EventUploadCompleted, batch.ID, task, 1, nil)
	}
	return batch
}

func (q *Queue) uploadOne(ctx context.Context, folderID string, src Source, batchID string, task *Task) (*api.UploadResponse, error) {
	r, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", src.Name, err)
	}
	defer r.Close()

	report := func(n int64) {
		if q.reporter != nil {
			q.reporter.Update(n)
		}
		if task.Size > 0 {
			q.publish(events.EventUploadProgress, batchID, task, float64(n)/float64(task.Size), nil)
		}
	}
	return q.files.Upload(ctx, src.Name, r, folderID, report)
}

func (q *Queue) publish(t events.EventType, batchID string, task *Task, progress float64, err error) {
	if q.bus == nil {
		return
	}
	q.bus.Publish(&events.UploadEvent{
		BaseEvent: events.BaseEvent{EventType: t, Time: time.Now()},
		TaskID:    task.ID,
		BatchID:   batchID,
		Name:      task.Name,
		Size:      task.Size,
		Progress:  progress,
		Error:     err,
	})
}
