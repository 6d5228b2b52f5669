package repositories

import (
	"context"
	"errors"
	"time"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/models"

	"gorm.io/gorm"
)

var ErrCounterNoticeExists = apperrors.Conflict("COUNTER_NOTICE_EXISTS", "a counter-notice was already filed for this complaint")

type ComplaintFilter struct {
	Status   string
	SellerID uint
	Limit    int
	Offset   int
}

type ComplaintRepository interface {
	Create(ctx context.Context, complaint *models.DMCAComplaint) error
	FindByID(ctx context.Context, id uint) (*models.DMCAComplaint, error)
	List(ctx context.Context, filter ComplaintFilter) ([]models.DMCAComplaint, int64, error)
	Update(ctx context.Context, complaint *models.DMCAComplaint) error
	// CountOpenForListing counts complaints on the listing that still await a
	// decision (PENDING or COUNTER_NOTICED).
	CountOpenForListing(ctx context.Context, listingID uint) (int64, error)
}

type CounterNoticeRepository interface {
	Create(ctx context.Context, notice *models.CounterNotice) error
	FindByID(ctx context.Context, id uint) (*models.CounterNotice, error)
	FindByComplaintID(ctx context.Context, complaintID uint) (*models.CounterNotice, error)
	ExistsForComplaint(ctx context.Context, complaintID uint) (bool, error)
	Update(ctx context.Context, notice *models.CounterNotice) error
}

type complaintRepository struct {
	db *gorm.DB
}

func (r *complaintRepository) Create(ctx context.Context, complaint *models.DMCAComplaint) error {
	complaint.Version = 1
	return r.db.WithContext(ctx).Omit("CounterNotice").Create(complaint).Error
}

func (r *complaintRepository) FindByID(ctx context.Context, id uint) (*models.DMCAComplaint, error) {
	var complaint models.DMCAComplaint
	err := r.db.WithContext(ctx).Preload("CounterNotice").First(&complaint, id).Error
	if err != nil {
		return nil, notFound(err, "complaint", id)
	}
	return &complaint, nil
}

func (r *complaintRepository) List(ctx context.Context, filter ComplaintFilter) ([]models.DMCAComplaint, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.DMCAComplaint{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.SellerID != 0 {
		query = query.Where("seller_id = ?", filter.SellerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	var complaints []models.DMCAComplaint
	err := query.Preload("CounterNotice").
		Order("created_at DESC").
		Find(&complaints).Error
	return complaints, total, err
}

func (r *complaintRepository) Update(ctx context.Context, complaint *models.DMCAComplaint) error {
	res := r.db.WithContext(ctx).Model(&models.DMCAComplaint{}).
		Where("id = ? AND version = ?", complaint.ID, complaint.Version).
		Updates(map[string]interface{}{
			"status":        complaint.Status,
			"auto_flagged":  complaint.AutoFlagged,
			"matched_terms": complaint.MatchedTerms,
			"admin_notes":   complaint.AdminNotes,
			"resolved_by":   complaint.ResolvedBy,
			"resolved_at":   complaint.ResolvedAt,
			"version":       complaint.Version + 1,
			"updated_at":    time.Now(),
		})
	if err := checkSwapped(res, "complaint", complaint.ID); err != nil {
		return err
	}
	complaint.Version++
	return nil
}

func (r *complaintRepository) CountOpenForListing(ctx context.Context, listingID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.DMCAComplaint{}).
		Where("listing_id = ? AND status IN ?", listingID,
			[]string{models.ComplaintPending, models.ComplaintCounterNoticed}).
		Count(&n).Error
	return n, err
}

type counterNoticeRepository struct {
	db *gorm.DB
}

// Create relies on the unique complaint_id index to reject a second notice
// that slipped past the service's existence check.
func (r *counterNoticeRepository) Create(ctx context.Context, notice *models.CounterNotice) error {
	notice.Version = 1
	err := r.db.WithContext(ctx).Create(notice).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrCounterNoticeExists
	}
	return err
}

func (r *counterNoticeRepository) FindByID(ctx context.Context, id uint) (*models.CounterNotice, error) {
	var notice models.CounterNotice
	if err := r.db.WithContext(ctx).First(&notice, id).Error; err != nil {
		return nil, notFound(err, "counter-notice", id)
	}
	return &notice, nil
}

func (r *counterNoticeRepository) FindByComplaintID(ctx context.Context, complaintID uint) (*models.CounterNotice, error) {
	var notice models.CounterNotice
	err := r.db.WithContext(ctx).Where("complaint_id = ?", complaintID).First(&notice).Error
	if err != nil {
		return nil, notFound(err, "counter-notice for complaint", complaintID)
	}
	return &notice, nil
}

func (r *counterNoticeRepository) ExistsForComplaint(ctx context.Context, complaintID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CounterNotice{}).
		Where("complaint_id = ?", complaintID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *counterNoticeRepository) Update(ctx context.Context, notice *models.CounterNotice) error {
	res := r.db.WithContext(ctx).Model(&models.CounterNotice{}).
		Where("id = ? AND version = ?", notice.ID, notice.Version).
		Updates(map[string]interface{}{
			"status":      notice.Status,
			"admin_notes": notice.AdminNotes,
			"reviewed_by": notice.ReviewedBy,
			"reviewed_at": notice.ReviewedAt,
			"version":     notice.Version + 1,
			"updated_at":  time.Now(),
		})
	if err := checkSwapped(res, "counter-notice", notice.ID); err != nil {
		return err
	}
	notice.Version++
	return nil
}
