package copyright

import (
	"context"
	"testing"

	"marketplace/internal/models"
	"marketplace/internal/repositories/memory"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	ctx     context.Context
	store   *memory.Store
	svc     *Service
	admin   models.Actor
	seller  models.Actor
	buyer   models.Actor
	listing *models.Listing
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	words, err := DefaultWords()
	require.NoError(t, err)

	f := &fixture{
		ctx:   ctx,
		store: store,
		svc:   NewService(store, NewStaticSource(words), Config{AdminEmail: "copyright@example.com", StrikeReviewThreshold: 2}),
	}
	f.admin = f.addUser(t, "admin@example.com", models.RoleAdmin)
	f.seller = f.addUser(t, "seller@example.com", models.RoleSeller)
	f.buyer = f.addUser(t, "buyer@example.com", models.RoleBuyer)
	f.listing = f.addListing(t, "Hand-thrown ceramic mug", "Stoneware, glazed in deep blue.")
	return f
}

func (f *fixture) addUser(t *testing.T, email, role string) models.Actor {
	t.Helper()
	u := &models.User{Email: email, Name: email, Role: role, Password: "x"}
	require.NoError(t, f.store.Users().Create(f.ctx, u))
	return models.Actor{UserID: u.ID, Role: role}
}

func (f *fixture) addListing(t *testing.T, title, description string) *models.Listing {
	t.Helper()
	l := &models.Listing{
		SellerID:    f.seller.UserID,
		Title:       title,
		Description: description,
		PriceCents:  2500,
		IsActive:    true,
	}
	require.NoError(t, f.store.Listings().Create(f.ctx, l))
	return l
}

func (f *fixture) reload(t *testing.T, id uint) *models.Listing {
	t.Helper()
	l, err := f.store.Listings().FindByID(f.ctx, id)
	require.NoError(t, err)
	return l
}

func (f *fixture) complaintInput(listingID uint, description string) ComplaintInput {
	return ComplaintInput{
		ListingID:          listingID,
		ComplainantName:    "Rights Holder LLC",
		ComplainantEmail:   "legal@rights.example",
		CopyrightedWork:    "Original ceramic glaze pattern",
		Description:        description,
		GoodFaithStatement: true,
		Signature:          "R. Holder",
	}
}

func (f *fixture) counterNoticeInput() CounterNoticeInput {
	return CounterNoticeInput{
		Statement:             "The design is my own original work.",
		Signature:             "S. Eller",
		ConsentToJurisdiction: true,
	}
}

func recipients(msgs []models.NotificationOutbox) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Recipient)
	}
	return out
}
