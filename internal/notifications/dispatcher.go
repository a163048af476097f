package notifications

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/models"
	"github.com/bobcodebuilderai/eldoradokonferansehub/pkg/queue"
)

const enqueueTimeout = 5 * time.Second

// phonePattern matches a phone number inside the responsible-person field,
// e.g. "Kari Nordmann 99887766" or "Ola +47 988 77 665".
var phonePattern = regexp.MustCompile(`(?:\+?\d[\d ]{7,})`)

// Dispatcher turns block status transitions into queued notification jobs.
// Dispatch is fire and forget: a full queue or dead Redis never blocks or
// fails the status endpoint.
type Dispatcher struct {
	queue  *queue.Queue
	logger *zap.Logger
}

// NewDispatcher creates a notification dispatcher.
func NewDispatcher(q *queue.Queue, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{queue: q, logger: logger}
}

// BlockStatusChanged enqueues a notification for a block transition.
func (d *Dispatcher) BlockStatusChanged(block *models.RunOfShowBlock) {
	payload := queue.BlockStatusPayload{
		ConferenceID: block.ConferenceID,
		BlockID:      block.ID,
		BlockTitle:   block.Title,
		Status:       block.Status,
		Responsible:  block.ResponsiblePerson,
		Phone:        extractPhone(block.ResponsiblePerson),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), enqueueTimeout)
		defer cancel()
		if err := d.queue.EnqueueBlockStatus(ctx, payload); err != nil {
			d.logger.Warn("notification enqueue failed",
				zap.Int64("block_id", block.ID),
				zap.String("status", block.Status),
				zap.Error(err))
		}
	}()
}

// StatusMessage renders the SMS text for a block transition.
func StatusMessage(p queue.BlockStatusPayload) string {
	switch p.Status {
	case models.BlockStatusActive:
		return fmt.Sprintf("Programposten %q er i gang.", p.BlockTitle)
	case models.BlockStatusCompleted:
		return fmt.Sprintf("Programposten %q er ferdig.", p.BlockTitle)
	default:
		return fmt.Sprintf("Programposten %q har status %s.", p.BlockTitle, p.Status)
	}
}

// extractPhone pulls a phone number out of free text, empty when none found.
func extractPhone(s string) string {
	m := phonePattern.FindString(s)
	if m == "" {
		return ""
	}
	normalized, err := NormalizePhone(m)
	if err != nil {
		return ""
	}
	return normalized
}
