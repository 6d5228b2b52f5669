package copyright

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"marketplace/internal/models"
	"marketplace/internal/repositories"
	"marketplace/internal/services/notification"
)

type StrikeInput struct {
	SellerID    uint   `json:"seller_id"`
	Reason      string `json:"reason"`
	ComplaintID *uint  `json:"complaint_id"`
	ReportID    *uint  `json:"report_id"`
}

// IssueStrike records a strike issued directly by an admin.
func (s *Service) IssueStrike(ctx context.Context, admin models.Actor, in StrikeInput) (*models.SellerStrike, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	if in.SellerID == 0 {
		return nil, missing("seller_id")
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, missing("reason")
	}

	var strike *models.SellerStrike
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		if _, err := tx.Users().FindByID(ctx, in.SellerID); err != nil {
			return err
		}
		var err error
		strike, err = s.issueStrike(ctx, tx, admin, in.SellerID, in.Reason, in.ComplaintID, in.ReportID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return strike, nil
}

// issueStrike creates the strike and notifies the seller. When the seller
// reaches the review threshold the admin team is told; nothing is suspended
// automatically.
func (s *Service) issueStrike(ctx context.Context, tx repositories.Store, admin models.Actor, sellerID uint, reason string, complaintID, reportID *uint) (*models.SellerStrike, error) {
	strike := &models.SellerStrike{
		SellerID:    sellerID,
		Reason:      reason,
		ComplaintID: complaintID,
		ReportID:    reportID,
		Status:      models.StrikeActive,
		IssuedBy:    admin.UserID,
	}
	if err := tx.Strikes().Create(ctx, strike); err != nil {
		return nil, err
	}

	active, err := tx.Strikes().CountActive(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Strike %d issued to seller %d (%d active)", strike.ID, sellerID, active)

	if err := s.notifyUser(ctx, tx, sellerID, notification.EventStrikeIssued,
		"A copyright strike was added to your account",
		fmt.Sprintf("Reason: %s\nYou now have %d active strike(s). You may appeal this strike once.", reason, active)); err != nil {
		return nil, err
	}
	if active >= int64(s.cfg.StrikeReviewThreshold) {
		return strike, s.notifyAdmins(ctx, tx, notification.EventStrikeIssued,
			fmt.Sprintf("Seller %d reached %d active strikes", sellerID, active),
			fmt.Sprintf("Seller %d has %d active strikes (threshold %d). A suspension review is recommended.",
				sellerID, active, s.cfg.StrikeReviewThreshold))
	}
	return strike, nil
}

// AppealStrike lets the penalized seller contest an ACTIVE strike.
func (s *Service) AppealStrike(ctx context.Context, actor models.Actor, strikeID uint, reason string) (*models.SellerStrike, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, missing("reason")
	}

	var strike *models.SellerStrike
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		var err error
		strike, err = tx.Strikes().FindByID(ctx, strikeID)
		if err != nil {
			return err
		}
		if actor.IsAnonymous() || strike.SellerID != actor.UserID {
			return ErrNotStrikeOwner
		}
		if strike.Status != models.StrikeActive {
			return fmt.Errorf("%w: strike %d is %s", ErrInvalidTransition, strike.ID, strike.Status)
		}

		strike.Status = models.StrikeAppealed
		strike.AppealReason = reason
		if err := tx.Strikes().Update(ctx, strike); err != nil {
			return err
		}
		return s.notifyAdmins(ctx, tx, notification.EventStrikeAppealed,
			fmt.Sprintf("Strike %d appealed", strike.ID),
			fmt.Sprintf("Seller %d appealed strike %d: %s", strike.SellerID, strike.ID, reason))
	})
	if err != nil {
		return nil, err
	}
	return strike, nil
}

// ReviewAppeal settles an appealed strike as UPHELD or OVERTURNED.
func (s *Service) ReviewAppeal(ctx context.Context, admin models.Actor, strikeID uint, uphold bool) (*models.SellerStrike, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}

	var strike *models.SellerStrike
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		var err error
		strike, err = tx.Strikes().FindByID(ctx, strikeID)
		if err != nil {
			return err
		}
		if strike.Status != models.StrikeAppealed {
			return fmt.Errorf("%w: strike %d is %s", ErrInvalidTransition, strike.ID, strike.Status)
		}

		now := time.Now()
		adminID := admin.UserID
		strike.Status = models.StrikeOverturned
		if uphold {
			strike.Status = models.StrikeUpheld
		}
		strike.ReviewedBy = &adminID
		strike.ReviewedAt = &now
		if err := tx.Strikes().Update(ctx, strike); err != nil {
			return err
		}
		return s.notifyUser(ctx, tx, strike.SellerID, notification.EventStrikeReviewed,
			"Your strike appeal was reviewed",
			fmt.Sprintf("Strike %d is now %s.", strike.ID, strike.Status))
	})
	if err != nil {
		return nil, err
	}
	return strike, nil
}

type SuspendInput struct {
	Reason      string `json:"reason"`
	IssueStrike bool   `json:"issue_strike"`
}

type SuspendResult struct {
	SellerID         uint                 `json:"seller_id"`
	DisabledListings int64                `json:"disabled_listings"`
	Strike           *models.SellerStrike `json:"strike,omitempty"`
}

// SuspendSeller suspends the account and disables all its active listings in
// one bulk update.
func (s *Service) SuspendSeller(ctx context.Context, admin models.Actor, sellerID uint, in SuspendInput) (*SuspendResult, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, missing("reason")
	}

	res := &SuspendResult{SellerID: sellerID}
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		seller, err := tx.Users().FindByID(ctx, sellerID)
		if err != nil {
			return err
		}
		if seller.IsSuspended() {
			return ErrAlreadySuspended
		}
		if err := tx.Users().UpdateStatus(ctx, sellerID, models.UserStatusSuspended, in.Reason); err != nil {
			return err
		}
		res.DisabledListings, err = tx.Listings().DeactivateBySeller(ctx, sellerID, "Seller suspended: "+in.Reason)
		if err != nil {
			return err
		}
		if in.IssueStrike {
			res.Strike, err = s.issueStrike(ctx, tx, admin, sellerID, in.Reason, nil, nil)
			if err != nil {
				return err
			}
		}
		return s.notifyAddress(ctx, tx, seller.Email, notification.EventSellerSuspended,
			"Your seller account has been suspended",
			fmt.Sprintf("Reason: %s\n%d listing(s) were disabled.", in.Reason, res.DisabledListings))
	})
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Seller %d suspended, %d listings disabled", sellerID, res.DisabledListings)
	return res, nil
}

// ListStrikes is available to admins and to the seller themself.
func (s *Service) ListStrikes(ctx context.Context, actor models.Actor, sellerID uint) ([]models.SellerStrike, error) {
	if !actor.IsAdmin() && actor.UserID != sellerID {
		return nil, ErrNotStrikeOwner
	}
	return s.store.Strikes().FindBySellerID(ctx, sellerID)
}

func (s *Service) ActiveStrikeCount(ctx context.Context, actor models.Actor, sellerID uint) (int64, error) {
	if !actor.IsAdmin() && actor.UserID != sellerID {
		return 0, ErrNotStrikeOwner
	}
	return s.store.Strikes().CountActive(ctx, sellerID)
}
