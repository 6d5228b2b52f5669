package copyright

import (
	"context"
	"errors"
	"fmt"
	"log"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/repositories"
	"marketplace/internal/services/notification"
)

// notifyUser queues a message for a user inside tx. A user without an e-mail
// address is skipped; only storage errors abort the transition.
func (s *Service) notifyUser(ctx context.Context, tx repositories.Store, userID uint, event, subject, body string) error {
	user, err := tx.Users().FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("⚠️ Skipping %s notification: user %d not found", event, userID)
			return nil
		}
		return err
	}
	return s.enqueue(ctx, tx, notification.Message{To: user.Email, Subject: subject, Body: body, EventType: event})
}

func (s *Service) notifyAdmins(ctx context.Context, tx repositories.Store, event, subject, body string) error {
	return s.enqueue(ctx, tx, notification.Message{To: s.cfg.AdminEmail, Subject: subject, Body: body, EventType: event})
}

func (s *Service) notifyAddress(ctx context.Context, tx repositories.Store, to, event, subject, body string) error {
	return s.enqueue(ctx, tx, notification.Message{To: to, Subject: subject, Body: body, EventType: event})
}

func (s *Service) enqueue(ctx context.Context, tx repositories.Store, msg notification.Message) error {
	err := notification.Enqueue(ctx, tx.Outbox(), msg)
	if errors.Is(err, notification.ErrNoRecipient) {
		log.Printf("⚠️ Skipping %s notification: no recipient", msg.EventType)
		return nil
	}
	if err != nil {
		return fmt.Errorf("queue %s notification: %w", msg.EventType, err)
	}
	return nil
}
