package copyright

import (
	"testing"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/models"
	"marketplace/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileComplaint_BannedTermAutoApproves(t *testing.T) {
	f := newFixture(t)

	complaint, err := f.svc.FileComplaint(f.ctx, models.Actor{}, f.complaintInput(f.listing.ID, "This copies the Nike swoosh."))
	require.NoError(t, err)

	assert.Equal(t, models.ComplaintValid, complaint.Status)
	assert.True(t, complaint.AutoFlagged)
	assert.Contains(t, []string(complaint.MatchedTerms), "nike")
	assert.NotNil(t, complaint.ResolvedAt)
	assert.Nil(t, complaint.ResolvedBy, "no admin was involved")
	assert.Nil(t, complaint.ComplainantID, "public filing")

	listing := f.reload(t, f.listing.ID)
	assert.Equal(t, models.CopyrightDisabled, listing.CopyrightStatus)
	assert.False(t, listing.IsActive)

	assert.ElementsMatch(t,
		[]string{"seller@example.com", "legal@rights.example", "copyright@example.com"},
		recipients(f.store.Messages()))
}

func TestFileComplaint_WithoutMatchWaitsForReview(t *testing.T) {
	f := newFixture(t)

	complaint, err := f.svc.FileComplaint(f.ctx, f.buyer, f.complaintInput(f.listing.ID, "The glaze pattern is copied from my catalogue."))
	require.NoError(t, err)

	assert.Equal(t, models.ComplaintPending, complaint.Status)
	assert.False(t, complaint.AutoFlagged)
	require.NotNil(t, complaint.ComplainantID)
	assert.Equal(t, f.buyer.UserID, *complaint.ComplainantID)

	listing := f.reload(t, f.listing.ID)
	assert.Equal(t, models.CopyrightFlagged, listing.CopyrightStatus)
	assert.True(t, listing.IsActive, "visibility is unchanged until an admin decides")
}

func TestFileComplaint_Validation(t *testing.T) {
	f := newFixture(t)

	in := f.complaintInput(f.listing.ID, "copied")
	in.GoodFaithStatement = false
	_, err := f.svc.FileComplaint(f.ctx, models.Actor{}, in)
	assert.ErrorIs(t, err, ErrMissingField)

	in = f.complaintInput(f.listing.ID, "copied")
	in.ComplainantEmail = "not-an-email"
	_, err = f.svc.FileComplaint(f.ctx, models.Actor{}, in)
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = f.svc.FileComplaint(f.ctx, models.Actor{}, f.complaintInput(9999, "copied"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.Empty(t, f.store.Messages(), "rejected complaints send nothing")
	assert.Equal(t, models.CopyrightClear, f.reload(t, f.listing.ID).CopyrightStatus)
}

func TestFileCounterNotice_OnlyOnce(t *testing.T) {
	f := newFixture(t)
	complaint, err := f.svc.FileComplaint(f.ctx, models.Actor{}, f.complaintInput(f.listing.ID, "copied glaze"))
	require.NoError(t, err)

	first, err := f.svc.FileCounterNotice(f.ctx, f.seller, complaint.ID, f.counterNoticeInput())
	require.NoError(t, err)
	assert.Equal(t, models.CounterNoticePending, first.Status)

	second := f.counterNoticeInput()
	second.Statement = "Trying again with different words."
	_, err = f.svc.FileCounterNotice(f.ctx, f.seller, complaint.ID, second)
	assert.ErrorIs(t, err, ErrCounterNoticeExists)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	stored, err := f.store.CounterNotices().FindByComplaintID(f.ctx, complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assert.Equal(t, "The design is my own original work.", stored.Statement)

	got, err := f.store.Complaints().FindByID(f.ctx, complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ComplaintCounterNoticed, got.Status)
	require.NotNil(t, got.CounterNotice)
	assert.Equal(t, first.ID, got.CounterNotice.ID)
	assert.Equal(t, models.CopyrightFlagged, f.reload(t, f.listing.ID).CopyrightStatus)
}

func TestFileCounterNotice_OnlyBySeller(t *testing.T) {
	f := newFixture(t)
	complaint, err := f.svc.FileComplaint(f.ctx, models.Actor{}, f.complaintInput(f.listing.ID, "copied glaze"))
	require.NoError(t, err)

	_, err = f.svc.FileCounterNotice(f.ctx, f.buyer, complaint.ID, f.counterNoticeInput())
	assert.ErrorIs(t, err, ErrNotListingSeller)

	_, err = f.svc.FileCounterNotice(f.ctx, models.Actor{}, complaint.ID, f.counterNoticeInput())
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestFileCounterNotice_ReopensAutoDisabledListingForReview(t *testing.T) {
	f := newFixture(t)
	complaint, err := f.svc.FileComplaint(f.ctx, models.Actor{}, f.complaintInput(f.listing.ID, "nike logo"))
	require.NoError(t, err)
	require.Equal(t, models.ComplaintValid, complaint.Status)

	_, err = f.svc.FileCounterNotice(f.ctx, f.seller, complaint.ID, f.counterNoticeInput())
	require.NoError(t, err)

	listing := f.reload(t, f.listing.ID)
	assert.Equal(t, models.CopyrightFlagged, listing.CopyrightStatus)
	assert.False(t, listing.IsActive)
}

func TestResolveComplaint_InvalidWithCounterNoticeKeepsListingFlagged(t *testing.T) {
	f := newFixture(t)
	complaint, err := f.svc.FileComplaint(f.ctx, models.Actor{}, f.complaintInput(f.listing.ID, "copied glaze"))
	require.NoError(t, err)
	_, err = f.svc.FileCounterNotice(f.ctx, f.seller, complaint.ID, f.counterNoticeInput())
	require.NoError(t, err)

	resolved, err := f.svc.ResolveComplaint(f.ctx, f.admin, complaint.ID, ResolveInput{Decision: DecisionInvalid})
	require.NoError(t, err)
	assert.Equal(t, models.ComplaintInvalid, resolved.Status)

	listing := f.reload(t, f.listing.ID)
	assert.Equal(t, models.CopyrightFlagged, listing.CopyrightStatus, "counter-noticed listing stays under review")
}

func TestResolveComplaint_InvalidWithoutCounterNoticeRestores(t *testing.T) {
	f := newFixture(t)
	complaint, err := f.svc.FileComplaint(f.ctx, models.Actor{}, f.complaintInput(f.listing.ID, "copied glaze"))
	require.NoError(t, err)

	_, err = f.svc.ResolveComplaint(f.ctx, f.admin, complaint.ID, ResolveInput{Decision: DecisionInvalid, Notes: "no evidence"})
	require.NoError(t, err)

	listing := f.reload(t, f.listing.ID)
	assert.Equal(t, models.CopyrightClear, listing.CopyrightStatus)
	assert.True(t, listing.IsActive)
	assert.Empty(t, listing.FlaggedReason)
}

func TestResolveComplaint_InvalidKeepsListingFlaggedWhileAnotherComplaintIsOpen(t *testing.T) {
	f := newFixture(t)
	first, err := f.svc.FileComplaint(f.ctx, models.Actor{}, f.complaintInput(f.listing.ID, "copied glaze"))
	require.NoError(t, err)
	second, err := f.svc.FileComplaint(f.ctx, models.Actor{}, f.complaintInput(f.listing.ID, "copied handle shape"))
	require.NoError(t, err)

	_, err = f.svc.ResolveComplaint(f.ctx, f.admin, first.ID, ResolveInput{Decision: DecisionInvalid})
	require.NoError(t, err)

	listing := f.reload(t, f.listing.ID)
	assert.Equal(t, models.CopyrightFlagged, listing.CopyrightStatus)

	_, err = f.svc.ResolveComplaint(f.ctx, f.admin, second.ID, ResolveInput{Decision: DecisionInvalid})
	require.NoError(t, err)

	listing = f.reload(t, f.listing.ID)
	assert.Equal(t, models.CopyrightClear, listing.CopyrightStatus, "restored once the last open complaint is dismissed")
	assert.True(t, listing.IsActive)
}

func TestReviewCounterNotice_ApprovalWaitsForOtherOpenComplaints(t *testing.T) {
	f := newFixture(t)
	first, err := f.svc.FileComplaint(f.ctx, models.Actor{}, f.complaintInput(f.listing.ID, "copied glaze"))
	require.NoError(t, err)
	_, err = f.svc.FileComplaint(f.ctx, models.Actor{}, f.complaintInput(f.listing.ID, "copied handle shape"))
	require.NoError(t, err)
	notice, err := f.svc.FileCounterNotice(f.ctx, f.seller, first.ID, f.counterNoticeInput())
	require.NoError(t, err)

	_, err = f.svc.ReviewCounterNotice(f.ctx, f.admin, notice.ID, ReviewInput{Approve: true})
	require.NoError(t, err)

	listing := f.reload(t, f.listing.ID)
	assert.Equal(t, models.CopyrightFlagged, listing.CopyrightStatus, "second complaint is still open")
}

func TestResolveComplaint_ValidDisablesAndIssuesStrike(t *testing.T) {
	f := newFixture(t)
	complaint, err := f.svc.FileComplaint(f.ctx, models.Actor{}, f.complaintInput(f.listing.ID, "copied glaze"))
	require.NoError(t, err)

	resolved, err := f.svc.ResolveComplaint(f.ctx, f.admin, complaint.ID, ResolveInput{Decision: DecisionValid, IssueStrike: true})
	require.NoError(t, err)
	require.NotNil(t, resolved.ResolvedBy)
	assert.Equal(t, f.admin.UserID, *resolved.ResolvedBy)

	listing := f.reload(t, f.listing.ID)
	assert.Equal(t, models.CopyrightDisabled, listing.CopyrightStatus)
	assert.False(t, listing.IsActive)

	strikes, err := f.svc.ListStrikes(f.ctx, f.seller, f.seller.UserID)
	require.NoError(t, err)
	require.Len(t, strikes, 1)
	require.NotNil(t, strikes[0].ComplaintID)
	assert.Equal(t, complaint.ID, *strikes[0].ComplaintID)
	assert.Equal(t, models.StrikeActive, strikes[0].Status)

	_, err = f.svc.ResolveComplaint(f.ctx, f.admin, complaint.ID, ResolveInput{Decision: DecisionInvalid})
	assert.ErrorIs(t, err, ErrInvalidTransition, "a decided complaint cannot be decided again")
}

func TestResolveComplaint_RequiresAdminAndDecision(t *testing.T) {
	f := newFixture(t)
	complaint, err := f.svc.FileComplaint(f.ctx, models.Actor{}, f.complaintInput(f.listing.ID, "copied glaze"))
	require.NoError(t, err)

	_, err = f.svc.ResolveComplaint(f.ctx, f.seller, complaint.ID, ResolveInput{Decision: DecisionValid})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.svc.ResolveComplaint(f.ctx, f.admin, complaint.ID, ResolveInput{Decision: "MAYBE"})
	assert.ErrorIs(t, err, ErrInvalidDecision)
}

func TestReviewCounterNotice(t *testing.T) {
	t.Run("approve restores listing", func(t *testing.T) {
		f := newFixture(t)
		complaint, err := f.svc.FileComplaint(f.ctx, models.Actor{}, f.complaintInput(f.listing.ID, "nike"))
		require.NoError(t, err)
		notice, err := f.svc.FileCounterNotice(f.ctx, f.seller, complaint.ID, f.counterNoticeInput())
		require.NoError(t, err)

		reviewed, err := f.svc.ReviewCounterNotice(f.ctx, f.admin, notice.ID, ReviewInput{Approve: true})
		require.NoError(t, err)
		assert.Equal(t, models.CounterNoticeApproved, reviewed.Status)

		listing := f.reload(t, f.listing.ID)
		assert.Equal(t, models.CopyrightClear, listing.CopyrightStatus)
		assert.True(t, listing.IsActive)

		got, err := f.store.Complaints().FindByID(f.ctx, complaint.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ComplaintResolved, got.Status)

		_, err = f.svc.ReviewCounterNotice(f.ctx, f.admin, notice.ID, ReviewInput{Approve: false})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("reject disables listing with strike", func(t *testing.T) {
		f := newFixture(t)
		complaint, err := f.svc.FileComplaint(f.ctx, models.Actor{}, f.complaintInput(f.listing.ID, "copied glaze"))
		require.NoError(t, err)
		notice, err := f.svc.FileCounterNotice(f.ctx, f.seller, complaint.ID, f.counterNoticeInput())
		require.NoError(t, err)

		_, err = f.svc.ReviewCounterNotice(f.ctx, f.admin, notice.ID, ReviewInput{Approve: false, IssueStrike: true})
		require.NoError(t, err)

		listing := f.reload(t, f.listing.ID)
		assert.Equal(t, models.CopyrightDisabled, listing.CopyrightStatus)
		assert.False(t, listing.IsActive)

		count, err := f.svc.ActiveStrikeCount(f.ctx, f.admin, f.seller.UserID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestApplyListingAction(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ApplyListingAction(f.ctx, f.admin, f.listing.ID, ListingActionInput{Action: ActionDisable})
	assert.ErrorIs(t, err, ErrInvalidTransition, "a CLEAR listing must be flagged before it can be disabled")

	hidden, err := f.svc.ApplyListingAction(f.ctx, f.admin, f.listing.ID, ListingActionInput{Action: "hide", Reason: "trademark review"})
	require.NoError(t, err)
	assert.Equal(t, models.CopyrightHidden, hidden.CopyrightStatus)
	assert.False(t, hidden.IsActive)
	assert.Equal(t, "trademark review", hidden.FlaggedReason)

	restored, err := f.svc.ApplyListingAction(f.ctx, f.admin, f.listing.ID, ListingActionInput{Action: ActionRestore})
	require.NoError(t, err)
	assert.Equal(t, models.CopyrightClear, restored.CopyrightStatus)
	assert.True(t, restored.IsActive)

	_, err = f.svc.ApplyListingAction(f.ctx, f.admin, f.listing.ID, ListingActionInput{Action: "DELETE"})
	assert.ErrorIs(t, err, ErrInvalidAction)

	_, err = f.svc.ApplyListingAction(f.ctx, f.seller, f.listing.ID, ListingActionInput{Action: ActionHide})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestScanListing(t *testing.T) {
	f := newFixture(t)

	hide := f.addListing(t, "Vintage Disney mug", "")
	res, err := f.svc.ScanListing(f.ctx, f.seller, hide.ID)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, models.CopyrightHidden, res.Listing.CopyrightStatus)
	assert.False(t, f.reload(t, hide.ID).IsActive)

	flag := f.addListing(t, "Marvel inspired keychain", "")
	res, err = f.svc.ScanListing(f.ctx, f.seller, flag.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CopyrightFlagged, f.reload(t, flag.ID).CopyrightStatus)
	assert.Equal(t, models.SeverityAutoFlag, Strongest(res.Matches))

	warn := f.addListing(t, "Supreme quality hoodie", "")
	res, err = f.svc.ScanListing(f.ctx, f.seller, warn.ID)
	require.NoError(t, err)
	got := f.reload(t, warn.ID)
	assert.Equal(t, models.CopyrightClear, got.CopyrightStatus)
	assert.True(t, got.IsActive)
	assert.Equal(t, []string{"supreme"}, []string(got.FlaggedWords))

	res, err = f.svc.ScanListing(f.ctx, f.seller, f.listing.ID)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Empty(t, res.Matches)

	_, err = f.svc.ScanListing(f.ctx, f.buyer, f.listing.ID)
	assert.ErrorIs(t, err, ErrNotListingSeller)
}

func TestStrikeAppealLifecycle(t *testing.T) {
	f := newFixture(t)
	strike, err := f.svc.IssueStrike(f.ctx, f.admin, StrikeInput{SellerID: f.seller.UserID, Reason: "Repeated trademark use"})
	require.NoError(t, err)

	_, err = f.svc.AppealStrike(f.ctx, f.buyer, strike.ID, "not mine")
	assert.ErrorIs(t, err, ErrNotStrikeOwner)

	_, err = f.svc.ReviewAppeal(f.ctx, f.admin, strike.ID, true)
	assert.ErrorIs(t, err, ErrInvalidTransition, "only appealed strikes can be reviewed")

	appealed, err := f.svc.AppealStrike(f.ctx, f.seller, strike.ID, "The logo is licensed.")
	require.NoError(t, err)
	assert.Equal(t, models.StrikeAppealed, appealed.Status)

	_, err = f.svc.AppealStrike(f.ctx, f.seller, strike.ID, "again")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	overturned, err := f.svc.ReviewAppeal(f.ctx, f.admin, strike.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.StrikeOverturned, overturned.Status)

	count, err := f.svc.ActiveStrikeCount(f.ctx, f.seller, f.seller.UserID)
	require.NoError(t, err)
	assert.Zero(t, count, "overturned strikes no longer count")
}

func TestIssueStrike_ThresholdNotifiesAdminsWithoutSuspending(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 2; i++ {
		_, err := f.svc.IssueStrike(f.ctx, f.admin, StrikeInput{SellerID: f.seller.UserID, Reason: "infringement"})
		require.NoError(t, err)
	}

	var adminNotices int
	for _, m := range f.store.Messages() {
		if m.Recipient == "copyright@example.com" {
			adminNotices++
			assert.Contains(t, m.Body, "suspension review is recommended")
		}
	}
	assert.Equal(t, 1, adminNotices)

	seller, err := f.store.Users().FindByID(f.ctx, f.seller.UserID)
	require.NoError(t, err)
	assert.False(t, seller.IsSuspended())

	_, err = f.svc.IssueStrike(f.ctx, f.admin, StrikeInput{SellerID: 4242, Reason: "x"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSuspendSeller(t *testing.T) {
	f := newFixture(t)
	f.addListing(t, "Second listing", "")
	inactive := f.addListing(t, "Draft", "")
	inactive.IsActive = false
	require.NoError(t, f.store.Listings().Update(f.ctx, inactive))

	res, err := f.svc.SuspendSeller(f.ctx, f.admin, f.seller.UserID, SuspendInput{Reason: "repeat infringer", IssueStrike: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.DisabledListings)
	require.NotNil(t, res.Strike)

	listing := f.reload(t, f.listing.ID)
	assert.Equal(t, models.CopyrightDisabled, listing.CopyrightStatus)
	assert.False(t, listing.IsActive)

	seller, err := f.store.Users().FindByID(f.ctx, f.seller.UserID)
	require.NoError(t, err)
	assert.True(t, seller.IsSuspended())
	assert.Equal(t, 2, seller.TokenVersion, "existing tokens are revoked")

	_, err = f.svc.SuspendSeller(f.ctx, f.admin, f.seller.UserID, SuspendInput{Reason: "again"})
	assert.ErrorIs(t, err, ErrAlreadySuspended)
}

func TestListingUpdate_StaleVersionIsRejected(t *testing.T) {
	f := newFixture(t)

	a := f.reload(t, f.listing.ID)
	b := f.reload(t, f.listing.ID)

	a.CopyrightStatus = models.CopyrightFlagged
	require.NoError(t, f.store.Listings().Update(f.ctx, a))

	b.CopyrightStatus = models.CopyrightHidden
	b.IsActive = false
	err := f.store.Listings().Update(f.ctx, b)
	assert.ErrorIs(t, err, apperrors.ErrConcurrentUpdate)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.Equal(t, models.CopyrightFlagged, f.reload(t, f.listing.ID).CopyrightStatus)
}

func TestListComplaints(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.FileComplaint(f.ctx, models.Actor{}, f.complaintInput(f.listing.ID, "nike"))
	require.NoError(t, err)
	other := f.addListing(t, "Blue bowl", "")
	_, err = f.svc.FileComplaint(f.ctx, models.Actor{}, f.complaintInput(other.ID, "copied"))
	require.NoError(t, err)

	pending, total, err := f.svc.ListComplaints(f.ctx, f.admin, repositories.ComplaintFilter{Status: models.ComplaintPending, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, pending, 1)
	assert.Equal(t, other.ID, pending[0].ListingID)

	_, _, err = f.svc.ListComplaints(f.ctx, f.seller, repositories.ComplaintFilter{})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestBannedWordAdmin(t *testing.T) {
	f := newFixture(t)

	v1, err := f.svc.UpsertBannedWord(f.ctx, f.admin, models.BannedWord{Term: " Totoro ", Category: "franchise", Severity: "auto_flag"})
	require.NoError(t, err)

	list, err := f.svc.ListBannedWords(f.ctx, f.admin)
	require.NoError(t, err)
	assert.Equal(t, v1, list.Version)
	require.Len(t, list.Words, 1)
	assert.Equal(t, "totoro", list.Words[0].Term)
	assert.Equal(t, models.SeverityAutoFlag, list.Words[0].Severity)

	_, err = f.svc.UpsertBannedWord(f.ctx, f.admin, models.BannedWord{Term: "x", Category: "BRAND", Severity: "BAN"})
	assert.ErrorIs(t, err, ErrInvalidWord)

	v2, err := f.svc.DeleteBannedWord(f.ctx, f.admin, "TOTORO")
	require.NoError(t, err)
	assert.Greater(t, v2, v1)

	_, err = f.svc.DeleteBannedWord(f.ctx, f.admin, "totoro")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCreateListing_ScreensOnCreate(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.CreateListing(f.ctx, f.seller, ListingInput{Title: "Stoneware bowl", PriceCents: 3000, ShippingCents: 500})
	require.NoError(t, err)
	got := f.reload(t, res.Listing.ID)
	assert.Equal(t, f.seller.UserID, got.SellerID)
	assert.Equal(t, models.CopyrightClear, got.CopyrightStatus)
	assert.True(t, got.IsActive)
	assert.True(t, got.Purchasable())

	res, err = f.svc.CreateListing(f.ctx, f.seller, ListingInput{Title: "Vintage Disney mug", PriceCents: 3000})
	require.NoError(t, err)
	got = f.reload(t, res.Listing.ID)
	assert.Equal(t, models.CopyrightHidden, got.CopyrightStatus)
	assert.False(t, got.IsActive)
}

func TestCreateListing_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateListing(f.ctx, f.seller, ListingInput{Title: "  ", PriceCents: 100})
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = f.svc.CreateListing(f.ctx, f.seller, ListingInput{Title: "Mug", PriceCents: -1})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = f.svc.CreateListing(f.ctx, f.seller, ListingInput{Title: "Mug", PriceCents: 1 << 62})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	require.NoError(t, f.store.Users().UpdateStatus(f.ctx, f.seller.UserID, models.UserStatusSuspended, "strikes"))
	_, err = f.svc.CreateListing(f.ctx, f.seller, ListingInput{Title: "Mug", PriceCents: 100})
	assert.ErrorIs(t, err, ErrSellerSuspended)
}
