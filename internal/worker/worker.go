package worker

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/notifications"
	"github.com/bobcodebuilderai/eldoradokonferansehub/pkg/queue"
)

const sendTimeout = 30 * time.Second

// Worker drains the notification queue and delivers messages. Failed jobs go
// back through the queue's retry path and land in the DLQ after exhaustion.
type Worker struct {
	queue  *queue.Queue
	sender notifications.Sender
	logger *zap.Logger
}

// New creates a notification worker.
func New(q *queue.Queue, sender notifications.Sender, logger *zap.Logger) *Worker {
	return &Worker{queue: q, sender: sender, logger: logger}
}

// Run processes jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("notification worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("notification worker stopping")
			return ctx.Err()
		default:
		}

		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.logger.Error("dequeue failed", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		if err := w.process(ctx, job); err != nil {
			w.logger.Warn("job failed",
				zap.String("job_id", job.ID),
				zap.Int("attempt", job.Attempt),
				zap.Error(err))
			if err := w.queue.Retry(ctx, job); err != nil {
				w.logger.Error("retry failed", zap.String("job_id", job.ID), zap.Error(err))
			}
		}
	}
}

func (w *Worker) process(ctx context.Context, job *queue.Job) error {
	switch job.Type {
	case queue.JobTypeBlockStatus:
		return w.processBlockStatus(ctx, job)
	default:
		w.logger.Warn("unknown job type dropped",
			zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		return nil
	}
}

func (w *Worker) processBlockStatus(ctx context.Context, job *queue.Job) error {
	var p queue.BlockStatusPayload
	if err := json.Unmarshal(job.Payload, &p); err != nil {
		w.logger.Warn("invalid block status payload dropped",
			zap.String("job_id", job.ID), zap.Error(err))
		return nil
	}

	if p.Phone == "" {
		w.logger.Info("block status change without phone, logged only",
			zap.Int64("block_id", p.BlockID),
			zap.String("status", p.Status),
			zap.String("responsible", p.Responsible))
		return nil
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := w.sender.Send(sendCtx, p.Phone, notifications.StatusMessage(p)); err != nil {
		return err
	}
	w.logger.Info("block status notification sent",
		zap.Int64("block_id", p.BlockID),
		zap.String("status", p.Status))
	return nil
}
