// Package notification delivers e-mail style notifications through a
// transactional outbox. Callers enqueue inside their own transaction and the
// OutboxWorker hands rows to a Sender afterwards, so a delivery failure never
// rolls back the state change that caused it.
package notification

import (
	"context"
	"errors"
	"strings"

	"marketplace/internal/models"
	"marketplace/internal/repositories"
)

const (
	EventComplaintFiled       = "dmca.complaint_filed"
	EventComplaintAutoFlagged = "dmca.complaint_auto_flagged"
	EventComplaintResolved    = "dmca.complaint_resolved"
	EventCounterNoticeFiled   = "dmca.counter_notice_filed"
	EventCounterNoticeReview  = "dmca.counter_notice_reviewed"
	EventListingStatus        = "listing.status_changed"
	EventStrikeIssued         = "strike.issued"
	EventStrikeAppealed       = "strike.appealed"
	EventStrikeReviewed       = "strike.reviewed"
	EventSellerSuspended      = "seller.suspended"
	EventOrderPaid            = "order.paid"
	EventOrderSold            = "order.sold"
	EventRefundRequested      = "order.refund_requested"
	EventRefundProcessed      = "order.refund_processed"
)

var ErrNoRecipient = errors.New("notification has no recipient")

type Message struct {
	To        string
	Subject   string
	Body      string
	EventType string
}

// Sender delivers one message. It is the only place that talks to the outside.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Enqueue writes msg to the outbox. Pass the transaction's OutboxRepository to
// make the notification part of the caller's unit of work.
func Enqueue(ctx context.Context, outbox repositories.OutboxRepository, msg Message) error {
	to := strings.TrimSpace(msg.To)
	if to == "" {
		return ErrNoRecipient
	}
	return outbox.Enqueue(ctx, &models.NotificationOutbox{
		EventType: msg.EventType,
		Recipient: to,
		Subject:   msg.Subject,
		Body:      msg.Body,
	})
}
