package memory

import (
	"context"
	"errors"
	"testing"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/models"
	"marketplace/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteInTransaction_Commits(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	var id uint
	err := s.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		l := &models.Listing{SellerID: 1, Title: "Mug", PriceCents: 100, IsActive: true}
		if err := tx.Listings().Create(ctx, l); err != nil {
			return err
		}
		id = l.ID
		return nil
	})
	require.NoError(t, err)

	got, err := s.Listings().FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Mug", got.Title)
}

func TestExecuteInTransaction_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	boom := errors.New("boom")

	var id uint
	err := s.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		l := &models.Listing{SellerID: 1, Title: "Mug", PriceCents: 100}
		require.NoError(t, tx.Listings().Create(ctx, l))
		id = l.ID
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.Listings().FindByID(ctx, id)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestExecuteInTransaction_RollsBackWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewStore()

	var id uint
	err := s.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		l := &models.Listing{SellerID: 1, Title: "Mug", PriceCents: 100}
		require.NoError(t, tx.Listings().Create(ctx, l))
		id = l.ID
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.Listings().FindByID(context.Background(), id)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListingCreate_KeepsInactive(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	l := &models.Listing{SellerID: 1, Title: "Draft", PriceCents: 100, IsActive: false}
	require.NoError(t, s.Listings().Create(ctx, l))

	got, err := s.Listings().FindByID(ctx, l.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.False(t, got.Purchasable())
}
