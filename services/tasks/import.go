package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"viyarschedule/models"

	"github.com/hibiken/asynq"
)

const (
	TypeRosterImport = "roster:import"
	ImportQueue      = "imports"
)

func NewImportTask(payload models.ImportTaskPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeRosterImport, b)
	opts := []asynq.Option{
		asynq.Queue(ImportQueue),
		asynq.TaskID(payload.BatchID),
		asynq.MaxRetry(3),
		asynq.Timeout(30 * time.Minute),
	}
	return task, opts, nil
}

// ParseImportTask decodes the payload of a roster import task.
func ParseImportTask(task *asynq.Task) (models.ImportTaskPayload, error) {
	var p models.ImportTaskPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid import payload: %w", err)
	}
	if p.BatchID == "" || len(p.Paths) == 0 {
		return p, fmt.Errorf("invalid import payload: batch id and paths are required")
	}
	return p, nil
}

// Queue enqueues imports for the worker.
type Queue struct {
	client *asynq.Client
}

// NewQueue connects an asynq client to redis.
func NewQueue(opt asynq.RedisClientOpt) *Queue {
	return &Queue{client: asynq.NewClient(opt)}
}

// Enqueue schedules payload for immediate processing.
func (q *Queue) Enqueue(ctx context.Context, payload models.ImportTaskPayload) error {
	task, opts, err := NewImportTask(payload)
	if err != nil {
		return err
	}
	if _, err := q.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("enqueue import %s: %w", payload.BatchID, err)
	}
	return nil
}

func (q *Queue) Close() error {
	return q.client.Close()
}
