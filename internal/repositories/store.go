package repositories

import (
	"context"
	"errors"
	"fmt"

	apperrors "marketplace/internal/errors"

	"gorm.io/gorm"
)

// Store groups the repositories so a service can run a multi-step change
// inside one database transaction.
type Store interface {
	ExecuteInTransaction(ctx context.Context, fn func(tx Store) error) error

	Users() UserRepository
	Listings() ListingRepository
	Orders() OrderRepository
	Complaints() ComplaintRepository
	CounterNotices() CounterNoticeRepository
	Strikes() StrikeRepository
	BannedWords() BannedWordRepository
	Settings() SettingsRepository
	Outbox() OutboxRepository
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) ExecuteInTransaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func (s *gormStore) Users() UserRepository                   { return &userRepository{db: s.db} }
func (s *gormStore) Listings() ListingRepository             { return &listingRepository{db: s.db} }
func (s *gormStore) Orders() OrderRepository                 { return &orderRepository{db: s.db} }
func (s *gormStore) Complaints() ComplaintRepository         { return &complaintRepository{db: s.db} }
func (s *gormStore) CounterNotices() CounterNoticeRepository { return &counterNoticeRepository{db: s.db} }
func (s *gormStore) Strikes() StrikeRepository               { return &strikeRepository{db: s.db} }
func (s *gormStore) BannedWords() BannedWordRepository       { return &bannedWordRepository{db: s.db} }
func (s *gormStore) Settings() SettingsRepository            { return &settingsRepository{db: s.db} }
func (s *gormStore) Outbox() OutboxRepository                { return &outboxRepository{db: s.db} }

// notFound converts gorm's not-found error into the domain error.
func notFound(err error, entity string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %v: %w", entity, id, apperrors.ErrNotFound)
	}
	return err
}

// checkSwapped turns a zero-row compare-and-swap update into a conflict.
func checkSwapped(res *gorm.DB, entity string, id uint) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, apperrors.ErrConcurrentUpdate)
	}
	return nil
}
