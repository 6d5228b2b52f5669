package notification

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/repositories"

	"github.com/google/uuid"
)

// OutboxWorker pulls pending notifications and hands them to a Sender.
type OutboxWorker struct {
	logger     *slog.Logger
	outbox     repositories.OutboxRepository
	sender     Sender
	interval   time.Duration
	batchSize  int
	claimTTL   time.Duration
	maxRetries int
}

func NewOutboxWorker(
	logger *slog.Logger,
	outbox repositories.OutboxRepository,
	sender Sender,
	interval time.Duration,
	batchSize int,
	claimTTL time.Duration,
	maxRetries int,
) *OutboxWorker {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	if claimTTL <= 0 {
		claimTTL = 30 * time.Second
	}
	if maxRetries <= 0 {
		maxRetries = 5
	}
	return &OutboxWorker{
		logger:     logger,
		outbox:     outbox,
		sender:     sender,
		interval:   interval,
		batchSize:  batchSize,
		claimTTL:   claimTTL,
		maxRetries: maxRetries,
	}
}

// Run polls the outbox until ctx is cancelled.
func (w *OutboxWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, err := w.ProcessOnce(ctx); err != nil {
			w.logger.ErrorContext(ctx, "outbox iteration failed",
				"module", "notification.outbox_worker",
				"operation", "outbox_process_once",
				"outcome", "failure",
				"error", err,
			)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// BatchResult counts what happened to one claimed batch.
type BatchResult struct {
	Claimed      int
	Sent         int
	Failed       int
	DeadLettered int
	// MarkErrors counts records whose outcome could not be stored. They stay
	// claimed and are picked up again once the claim expires.
	MarkErrors int
}

func (w *OutboxWorker) checkMark(ctx context.Context, res *BatchResult, op string, id uuid.UUID, err error) {
	if err == nil {
		return
	}
	res.MarkErrors++
	w.logger.ErrorContext(ctx, "failed to record notification outcome",
		"module", "notification.outbox_worker",
		"operation", op,
		"outcome", "failure",
		"outbox_id", id,
		"error", err,
	)
}

func (w *OutboxWorker) ProcessOnce(ctx context.Context) (BatchResult, error) {
	var res BatchResult
	claimToken := uuid.NewString()
	records, err := w.outbox.ClaimUnpublished(ctx, w.batchSize, claimToken, time.Now().UTC().Add(w.claimTTL))
	if err != nil {
		return res, err
	}
	res.Claimed = len(records)

	now := time.Now().UTC()
	for _, rec := range records {
		if rec.RetryCount >= w.maxRetries {
			res.DeadLettered++
			w.checkMark(ctx, &res, "mark_dead_lettered", rec.ID, w.outbox.MarkDeadLettered(ctx, rec.ID, claimToken, "retry threshold reached before send", now))
			continue
		}

		if err := w.sender.Send(ctx, rec.Recipient, rec.Subject, rec.Body); err != nil {
			res.Failed++
			retries := rec.RetryCount + 1
			if retries >= w.maxRetries {
				res.DeadLettered++
				w.logger.ErrorContext(ctx, "notification moved to dead letter",
					"module", "notification.outbox_worker",
					"operation", "send",
					"outcome", "failure",
					"outbox_id", rec.ID,
					"event_type", rec.EventType,
					"retry_count", retries,
					"error", err,
				)
				w.checkMark(ctx, &res, "mark_dead_lettered", rec.ID, w.outbox.MarkDeadLettered(ctx, rec.ID, claimToken, err.Error(), now))
				continue
			}

			w.logger.WarnContext(ctx, "notification send failed; retry scheduled",
				"module", "notification.outbox_worker",
				"operation", "send",
				"outcome", "failure",
				"outbox_id", rec.ID,
				"event_type", rec.EventType,
				"retry_count", retries,
				"error", err,
			)
			w.checkMark(ctx, &res, "mark_failed", rec.ID, w.outbox.MarkFailed(ctx, rec.ID, claimToken, err.Error(), now))
			continue
		}
		res.Sent++
		w.checkMark(ctx, &res, "mark_published", rec.ID, w.outbox.MarkPublished(ctx, rec.ID, claimToken, now))
	}

	if res.Claimed > 0 {
		w.logger.InfoContext(ctx, "outbox batch processed",
			"module", "notification.outbox_worker",
			"operation", "outbox_process_once",
			"outcome", "success",
			"batch_size", res.Claimed,
			"sent_count", res.Sent,
			"failed_count", res.Failed,
			"dead_lettered_count", res.DeadLettered,
			"mark_error_count", res.MarkErrors,
		)
	}
	return res, nil
}
