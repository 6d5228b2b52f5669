// Package copyright runs the listing moderation workflow: banned-word
// pre-screening, DMCA complaints and counter-notices, seller strikes and
// suspensions. Every multi-record change happens in one store transaction and
// queues its notifications in the same transaction.
package copyright

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/models"
	"marketplace/internal/repositories"
	"marketplace/internal/services/notification"
)

type Config struct {
	// AdminEmail receives moderation notifications meant for the admin team.
	AdminEmail string
	// StrikeReviewThreshold is the active strike count at which admins are told
	// to review a seller for suspension. Suspension itself stays manual.
	StrikeReviewThreshold int
}

type Service struct {
	store  repositories.Store
	source ScannerSource
	cfg    Config
}

func NewService(store repositories.Store, source ScannerSource, cfg Config) *Service {
	if cfg.StrikeReviewThreshold <= 0 {
		cfg.StrikeReviewThreshold = 3
	}
	return &Service{store: store, source: source, cfg: cfg}
}

func requireAdmin(actor models.Actor) error {
	if !actor.IsAdmin() {
		return apperrors.ErrForbidden
	}
	return nil
}

func missing(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, field)
}

// ScanResult is the outcome of pre-screening a listing.
type ScanResult struct {
	Listing *models.Listing `json:"listing"`
	Matches []Match         `json:"matches"`
	Changed bool            `json:"changed"`
}

// ScanListing screens a listing's title and description. Only CLEAR listings
// are moved: AUTO_HIDE hides, AUTO_FLAG flags, WARNING terms are recorded in
// FlaggedWords without a status change.
func (s *Service) ScanListing(ctx context.Context, actor models.Actor, listingID uint) (*ScanResult, error) {
	scanner, err := s.source.Scanner(ctx)
	if err != nil {
		return nil, err
	}

	var res *ScanResult
	err = s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		listing, err := tx.Listings().FindByID(ctx, listingID)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && listing.SellerID != actor.UserID {
			return ErrNotListingSeller
		}

		matches := scanner.Scan(listing.Title + "\n" + listing.Description)
		res = &ScanResult{Listing: listing, Matches: matches}
		if listing.CopyrightStatus != models.CopyrightClear {
			return nil
		}

		terms := Terms(matches)
		from := listing.CopyrightStatus
		switch Strongest(matches) {
		case models.SeverityAutoHide:
			if err := applyEvent(listing, EventScanAutoHide); err != nil {
				return err
			}
		case models.SeverityAutoFlag:
			if err := applyEvent(listing, EventScanAutoFlag); err != nil {
				return err
			}
		}
		if from == listing.CopyrightStatus && slices.Equal([]string(listing.FlaggedWords), terms) {
			return nil
		}

		listing.FlaggedWords = terms
		if from != listing.CopyrightStatus {
			listing.FlaggedReason = "Automatic screening matched: " + strings.Join(BlockingTerms(matches), ", ")
		}
		if err := tx.Listings().Update(ctx, listing); err != nil {
			return err
		}
		res.Changed = true

		if from == listing.CopyrightStatus {
			return nil
		}
		return s.notifyUser(ctx, tx, listing.SellerID, notification.EventListingStatus,
			fmt.Sprintf("Your listing %q is now %s", listing.Title, listing.CopyrightStatus),
			fmt.Sprintf("Automatic screening found protected terms (%s) in your listing. "+
				"It is no longer visible to buyers. Contact support if you believe this is a mistake.",
				strings.Join(terms, ", ")))
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

type ComplaintInput struct {
	ListingID          uint   `json:"listing_id"`
	ComplainantName    string `json:"complainant_name"`
	ComplainantEmail   string `json:"complainant_email"`
	CopyrightedWork    string `json:"copyrighted_work"`
	Description        string `json:"description"`
	InfringingURL      string `json:"infringing_url"`
	GoodFaithStatement bool   `json:"good_faith_statement"`
	Signature          string `json:"signature"`
}

func (in ComplaintInput) validate() error {
	switch {
	case in.ListingID == 0:
		return missing("listing_id")
	case strings.TrimSpace(in.ComplainantName) == "":
		return missing("complainant_name")
	case !strings.Contains(in.ComplainantEmail, "@"):
		return missing("complainant_email")
	case strings.TrimSpace(in.CopyrightedWork) == "":
		return missing("copyrighted_work")
	case strings.TrimSpace(in.Description) == "":
		return missing("description")
	case strings.TrimSpace(in.Signature) == "":
		return missing("signature")
	case !in.GoodFaithStatement:
		return missing("good_faith_statement")
	}
	return nil
}

// FileComplaint records a takedown claim. The complaint text and the listing
// text are screened first: any AUTO_FLAG or AUTO_HIDE term approves the
// complaint immediately and disables the listing with no admin involved.
// Otherwise the complaint waits for review and the listing is FLAGGED.
func (s *Service) FileComplaint(ctx context.Context, actor models.Actor, in ComplaintInput) (*models.DMCAComplaint, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	scanner, err := s.source.Scanner(ctx)
	if err != nil {
		return nil, err
	}

	var complaint *models.DMCAComplaint
	err = s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		listing, err := tx.Listings().FindByID(ctx, in.ListingID)
		if err != nil {
			return err
		}

		complaint = &models.DMCAComplaint{
			ListingID:          listing.ID,
			SellerID:           listing.SellerID,
			ComplainantName:    strings.TrimSpace(in.ComplainantName),
			ComplainantEmail:   strings.TrimSpace(in.ComplainantEmail),
			CopyrightedWork:    in.CopyrightedWork,
			Description:        in.Description,
			InfringingURL:      in.InfringingURL,
			GoodFaithStatement: in.GoodFaithStatement,
			Signature:          in.Signature,
			Status:             models.ComplaintPending,
		}
		if !actor.IsAnonymous() {
			id := actor.UserID
			complaint.ComplainantID = &id
		}

		matches := scanner.Scan(strings.Join([]string{
			in.CopyrightedWork, in.Description, listing.Title, listing.Description,
		}, "\n"))
		complaint.MatchedTerms = Terms(matches)

		if CanApply(listing.CopyrightStatus, EventComplaintReceived) {
			if err := applyEvent(listing, EventComplaintReceived); err != nil {
				return err
			}
			if err := tx.Listings().Update(ctx, listing); err != nil {
				return err
			}
		}
		if err := tx.Complaints().Create(ctx, complaint); err != nil {
			return err
		}

		blocking := BlockingTerms(matches)
		if len(blocking) > 0 {
			now := time.Now()
			complaint.Status = models.ComplaintValid
			complaint.AutoFlagged = true
			complaint.ResolvedAt = &now
			complaint.AdminNotes = "Automatically approved: matched " + strings.Join(blocking, ", ")
			if err := tx.Complaints().Update(ctx, complaint); err != nil {
				return err
			}
			if CanApply(listing.CopyrightStatus, EventComplaintAutoApproved) {
				if err := applyEvent(listing, EventComplaintAutoApproved); err != nil {
					return err
				}
				listing.FlaggedWords = complaint.MatchedTerms
				listing.FlaggedReason = fmt.Sprintf("DMCA complaint #%d automatically approved", complaint.ID)
				if err := tx.Listings().Update(ctx, listing); err != nil {
					return err
				}
			}
		} else if listing.CopyrightStatus == models.CopyrightDMCAComplaint {
			if err := applyEvent(listing, EventComplaintQueued); err != nil {
				return err
			}
			listing.FlaggedReason = fmt.Sprintf("DMCA complaint #%d under review", complaint.ID)
			if err := tx.Listings().Update(ctx, listing); err != nil {
				return err
			}
		}

		return s.notifyComplaintFiled(ctx, tx, complaint, listing)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("✅ DMCA complaint %d filed against listing %d (status %s)", complaint.ID, complaint.ListingID, complaint.Status)
	return complaint, nil
}

func (s *Service) notifyComplaintFiled(ctx context.Context, tx repositories.Store, c *models.DMCAComplaint, listing *models.Listing) error {
	event := notification.EventComplaintFiled
	sellerBody := fmt.Sprintf("A copyright complaint (#%d) was filed against your listing %q. "+
		"The listing is under review. You may submit one counter-notice.", c.ID, listing.Title)
	if c.AutoFlagged {
		event = notification.EventComplaintAutoFlagged
		sellerBody = fmt.Sprintf("A copyright complaint (#%d) against your listing %q matched protected terms (%s). "+
			"The listing has been disabled. You may submit one counter-notice.",
			c.ID, listing.Title, strings.Join(c.MatchedTerms, ", "))
	}

	if err := s.notifyUser(ctx, tx, c.SellerID, event,
		fmt.Sprintf("Copyright complaint against %q", listing.Title), sellerBody); err != nil {
		return err
	}
	if err := s.notifyAddress(ctx, tx, c.ComplainantEmail, event,
		fmt.Sprintf("We received your copyright complaint #%d", c.ID),
		fmt.Sprintf("Your complaint about listing %q has been recorded with status %s.", listing.Title, c.Status)); err != nil {
		return err
	}
	return s.notifyAdmins(ctx, tx, event,
		fmt.Sprintf("DMCA complaint #%d (%s)", c.ID, c.Status),
		fmt.Sprintf("Listing %d by seller %d. Auto-flagged: %t. Matched terms: %s.",
			c.ListingID, c.SellerID, c.AutoFlagged, strings.Join(c.MatchedTerms, ", ")))
}

type CounterNoticeInput struct {
	Statement             string `json:"statement"`
	Signature             string `json:"signature"`
	ConsentToJurisdiction bool   `json:"consent_to_jurisdiction"`
}

// FileCounterNotice lets the listing's seller rebut a complaint once.
func (s *Service) FileCounterNotice(ctx context.Context, actor models.Actor, complaintID uint, in CounterNoticeInput) (*models.CounterNotice, error) {
	if actor.IsAnonymous() {
		return nil, apperrors.ErrUnauthorized
	}
	switch {
	case strings.TrimSpace(in.Statement) == "":
		return nil, missing("statement")
	case strings.TrimSpace(in.Signature) == "":
		return nil, missing("signature")
	case !in.ConsentToJurisdiction:
		return nil, missing("consent_to_jurisdiction")
	}

	var notice *models.CounterNotice
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		complaint, err := tx.Complaints().FindByID(ctx, complaintID)
		if err != nil {
			return err
		}
		if complaint.SellerID != actor.UserID {
			return ErrNotListingSeller
		}

		exists, err := tx.CounterNotices().ExistsForComplaint(ctx, complaint.ID)
		if err != nil {
			return err
		}
		if exists {
			return ErrCounterNoticeExists
		}
		if complaint.Status != models.ComplaintPending && complaint.Status != models.ComplaintValid {
			return fmt.Errorf("%w: complaint %d is %s", ErrInvalidTransition, complaint.ID, complaint.Status)
		}

		notice = &models.CounterNotice{
			ComplaintID:           complaint.ID,
			ListingID:             complaint.ListingID,
			SellerID:              complaint.SellerID,
			Statement:             in.Statement,
			Signature:             in.Signature,
			ConsentToJurisdiction: in.ConsentToJurisdiction,
			Status:                models.CounterNoticePending,
		}
		if err := tx.CounterNotices().Create(ctx, notice); err != nil {
			return err
		}

		complaint.Status = models.ComplaintCounterNoticed
		if err := tx.Complaints().Update(ctx, complaint); err != nil {
			return err
		}

		listing, err := tx.Listings().FindByID(ctx, complaint.ListingID)
		if err != nil {
			return err
		}
		if CanApply(listing.CopyrightStatus, EventCounterNoticeFiled) {
			from := listing.CopyrightStatus
			if err := applyEvent(listing, EventCounterNoticeFiled); err != nil {
				return err
			}
			if from != listing.CopyrightStatus {
				listing.FlaggedReason = fmt.Sprintf("Counter-notice #%d under review", notice.ID)
				if err := tx.Listings().Update(ctx, listing); err != nil {
					return err
				}
			}
		}

		if err := s.notifyAddress(ctx, tx, complaint.ComplainantEmail, notification.EventCounterNoticeFiled,
			fmt.Sprintf("Counter-notice filed for complaint #%d", complaint.ID),
			"The seller has disputed your copyright complaint. An administrator will review both sides."); err != nil {
			return err
		}
		return s.notifyAdmins(ctx, tx, notification.EventCounterNoticeFiled,
			fmt.Sprintf("Counter-notice #%d needs review", notice.ID),
			fmt.Sprintf("Seller %d disputed complaint #%d on listing %d.", notice.SellerID, complaint.ID, complaint.ListingID))
	})
	if err != nil {
		return nil, err
	}
	return notice, nil
}

const (
	DecisionValid   = models.ComplaintValid
	DecisionInvalid = models.ComplaintInvalid
)

type ResolveInput struct {
	Decision    string `json:"decision"`
	IssueStrike bool   `json:"issue_strike"`
	Notes       string `json:"notes"`
}

// ResolveComplaint records an admin decision. VALID disables the listing and
// may issue a strike. INVALID restores the listing only when no counter-notice
// exists and no other complaint on the listing is still open; otherwise the
// listing stays under review.
func (s *Service) ResolveComplaint(ctx context.Context, admin models.Actor, complaintID uint, in ResolveInput) (*models.DMCAComplaint, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	if in.Decision != DecisionValid && in.Decision != DecisionInvalid {
		return nil, ErrInvalidDecision
	}

	var complaint *models.DMCAComplaint
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		var err error
		complaint, err = tx.Complaints().FindByID(ctx, complaintID)
		if err != nil {
			return err
		}
		if complaint.Status != models.ComplaintPending && complaint.Status != models.ComplaintCounterNoticed {
			return fmt.Errorf("%w: complaint %d is %s", ErrInvalidTransition, complaint.ID, complaint.Status)
		}

		now := time.Now()
		adminID := admin.UserID
		complaint.Status = in.Decision
		complaint.AdminNotes = in.Notes
		complaint.ResolvedBy = &adminID
		complaint.ResolvedAt = &now
		if err := tx.Complaints().Update(ctx, complaint); err != nil {
			return err
		}

		listing, err := tx.Listings().FindByID(ctx, complaint.ListingID)
		if err != nil {
			return err
		}

		if in.Decision == DecisionValid {
			if CanApply(listing.CopyrightStatus, EventComplaintUpheld) {
				if err := applyEvent(listing, EventComplaintUpheld); err != nil {
					return err
				}
				listing.FlaggedReason = fmt.Sprintf("DMCA complaint #%d upheld", complaint.ID)
				if err := tx.Listings().Update(ctx, listing); err != nil {
					return err
				}
			}
			if in.IssueStrike {
				if _, err := s.issueStrike(ctx, tx, admin, listing.SellerID,
					fmt.Sprintf("Valid DMCA complaint #%d on listing %q", complaint.ID, listing.Title),
					&complaint.ID, nil); err != nil {
					return err
				}
			}
		} else {
			hasNotice, err := tx.CounterNotices().ExistsForComplaint(ctx, complaint.ID)
			if err != nil {
				return err
			}
			open, err := tx.Complaints().CountOpenForListing(ctx, listing.ID)
			if err != nil {
				return err
			}
			if !hasNotice && open == 0 && CanApply(listing.CopyrightStatus, EventComplaintDismissed) {
				if err := applyEvent(listing, EventComplaintDismissed); err != nil {
					return err
				}
				listing.FlaggedWords = nil
				listing.FlaggedReason = ""
				if err := tx.Listings().Update(ctx, listing); err != nil {
					return err
				}
			}
		}

		if err := s.notifyUser(ctx, tx, complaint.SellerID, notification.EventComplaintResolved,
			fmt.Sprintf("Copyright complaint #%d resolved as %s", complaint.ID, complaint.Status),
			fmt.Sprintf("Your listing %q is now %s.", listing.Title, listing.CopyrightStatus)); err != nil {
			return err
		}
		return s.notifyAddress(ctx, tx, complaint.ComplainantEmail, notification.EventComplaintResolved,
			fmt.Sprintf("Your copyright complaint #%d was resolved", complaint.ID),
			fmt.Sprintf("The complaint was found %s.", strings.ToLower(complaint.Status)))
	})
	if err != nil {
		return nil, err
	}
	return complaint, nil
}

type ReviewInput struct {
	Approve     bool   `json:"approve"`
	IssueStrike bool   `json:"issue_strike"`
	Notes       string `json:"notes"`
}

// ReviewCounterNotice decides a pending counter-notice. Approval restores the
// listing; rejection disables it and may issue a strike. The complaint is
// RESOLVED either way.
func (s *Service) ReviewCounterNotice(ctx context.Context, admin models.Actor, noticeID uint, in ReviewInput) (*models.CounterNotice, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}

	var notice *models.CounterNotice
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		var err error
		notice, err = tx.CounterNotices().FindByID(ctx, noticeID)
		if err != nil {
			return err
		}
		if notice.Status != models.CounterNoticePending {
			return fmt.Errorf("%w: counter-notice %d is %s", ErrInvalidTransition, notice.ID, notice.Status)
		}

		now := time.Now()
		adminID := admin.UserID
		notice.Status = models.CounterNoticeRejected
		if in.Approve {
			notice.Status = models.CounterNoticeApproved
		}
		notice.AdminNotes = in.Notes
		notice.ReviewedBy = &adminID
		notice.ReviewedAt = &now
		if err := tx.CounterNotices().Update(ctx, notice); err != nil {
			return err
		}

		complaint, err := tx.Complaints().FindByID(ctx, notice.ComplaintID)
		if err != nil {
			return err
		}
		complaint.Status = models.ComplaintResolved
		complaint.ResolvedBy = &adminID
		complaint.ResolvedAt = &now
		if in.Notes != "" {
			complaint.AdminNotes = in.Notes
		}
		if err := tx.Complaints().Update(ctx, complaint); err != nil {
			return err
		}

		listing, err := tx.Listings().FindByID(ctx, notice.ListingID)
		if err != nil {
			return err
		}
		event := EventCounterNoticeRejected
		if in.Approve {
			event = EventCounterNoticeApproved
		}
		open, err := tx.Complaints().CountOpenForListing(ctx, listing.ID)
		if err != nil {
			return err
		}
		// Another open complaint keeps an approved listing under review.
		if (!in.Approve || open == 0) && CanApply(listing.CopyrightStatus, event) {
			if err := applyEvent(listing, event); err != nil {
				return err
			}
			if in.Approve {
				listing.FlaggedWords = nil
				listing.FlaggedReason = ""
			} else {
				listing.FlaggedReason = fmt.Sprintf("Counter-notice #%d rejected", notice.ID)
			}
			if err := tx.Listings().Update(ctx, listing); err != nil {
				return err
			}
		}

		if !in.Approve && in.IssueStrike {
			if _, err := s.issueStrike(ctx, tx, admin, notice.SellerID,
				fmt.Sprintf("Counter-notice #%d rejected for complaint #%d", notice.ID, complaint.ID),
				&complaint.ID, nil); err != nil {
				return err
			}
		}

		if err := s.notifyUser(ctx, tx, notice.SellerID, notification.EventCounterNoticeReview,
			fmt.Sprintf("Your counter-notice #%d was %s", notice.ID, strings.ToLower(notice.Status)),
			fmt.Sprintf("Your listing %q is now %s.", listing.Title, listing.CopyrightStatus)); err != nil {
			return err
		}
		return s.notifyAddress(ctx, tx, complaint.ComplainantEmail, notification.EventCounterNoticeReview,
			fmt.Sprintf("Copyright complaint #%d resolved", complaint.ID),
			fmt.Sprintf("The seller's counter-notice was %s.", strings.ToLower(notice.Status)))
	})
	if err != nil {
		return nil, err
	}
	return notice, nil
}

const (
	ActionDisable = "DISABLE"
	ActionRestore = "RESTORE"
	ActionHide    = "HIDE"
)

var actionEvents = map[string]ListingEvent{
	ActionDisable: EventAdminDisable,
	ActionRestore: EventAdminRestore,
	ActionHide:    EventAdminHide,
}

type ListingActionInput struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}

// ApplyListingAction performs a direct admin moderation action on a listing.
func (s *Service) ApplyListingAction(ctx context.Context, admin models.Actor, listingID uint, in ListingActionInput) (*models.Listing, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	event, ok := actionEvents[strings.ToUpper(strings.TrimSpace(in.Action))]
	if !ok {
		return nil, ErrInvalidAction
	}

	var listing *models.Listing
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		var err error
		listing, err = tx.Listings().FindByID(ctx, listingID)
		if err != nil {
			return err
		}
		if err := applyEvent(listing, event); err != nil {
			return err
		}
		if event == EventAdminRestore {
			listing.FlaggedWords = nil
			listing.FlaggedReason = ""
		} else {
			listing.FlaggedReason = in.Reason
		}
		if err := tx.Listings().Update(ctx, listing); err != nil {
			return err
		}

		body := fmt.Sprintf("An administrator changed your listing %q to %s.", listing.Title, listing.CopyrightStatus)
		if in.Reason != "" {
			body += " Reason: " + in.Reason
		}
		return s.notifyUser(ctx, tx, listing.SellerID, notification.EventListingStatus,
			fmt.Sprintf("Listing %q is now %s", listing.Title, listing.CopyrightStatus), body)
	})
	if err != nil {
		return nil, err
	}
	return listing, nil
}

// ListComplaints returns a page of complaints for the admin queue.
func (s *Service) ListComplaints(ctx context.Context, admin models.Actor, filter repositories.ComplaintFilter) ([]models.DMCAComplaint, int64, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, 0, err
	}
	return s.store.Complaints().List(ctx, filter)
}

// GetComplaint is visible to admins, the listing's seller and the complainant.
func (s *Service) GetComplaint(ctx context.Context, actor models.Actor, complaintID uint) (*models.DMCAComplaint, error) {
	complaint, err := s.store.Complaints().FindByID(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() || (!actor.IsAnonymous() && complaint.SellerID == actor.UserID) {
		return complaint, nil
	}
	if complaint.ComplainantID != nil && *complaint.ComplainantID == actor.UserID && !actor.IsAnonymous() {
		return complaint, nil
	}
	return nil, apperrors.ErrForbidden
}
