package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationOutbox is a pending notification written in the same
// transaction as the state change that caused it.
type NotificationOutbox struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventType      string    `gorm:"index;not null"`
	Recipient      string    `gorm:"not null"`
	Subject        string    `gorm:"not null"`
	Body           string    `gorm:"type:text;not null"`
	RetryCount     int       `gorm:"default:0"`
	LastError      *string
	LastErrorAt    *time.Time
	ClaimToken     *string
	ClaimUntil     *time.Time
	PublishedAt    *time.Time `gorm:"index"`
	DeadLetteredAt *time.Time
	CreatedAt      time.Time
}

func (NotificationOutbox) TableName() string { return "notification_outbox" }
