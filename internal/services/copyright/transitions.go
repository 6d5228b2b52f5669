package copyright

import (
	"fmt"

	"marketplace/internal/models"
)

// ListingEvent is something that can move a listing's copyright status.
type ListingEvent string

const (
	EventScanAutoFlag          ListingEvent = "SCAN_AUTO_FLAG"
	EventScanAutoHide          ListingEvent = "SCAN_AUTO_HIDE"
	EventComplaintReceived     ListingEvent = "COMPLAINT_RECEIVED"
	EventComplaintQueued       ListingEvent = "COMPLAINT_QUEUED"
	EventComplaintAutoApproved ListingEvent = "COMPLAINT_AUTO_APPROVED"
	EventComplaintUpheld       ListingEvent = "COMPLAINT_UPHELD"
	EventComplaintDismissed    ListingEvent = "COMPLAINT_DISMISSED"
	EventCounterNoticeFiled    ListingEvent = "COUNTER_NOTICE_FILED"
	EventCounterNoticeApproved ListingEvent = "COUNTER_NOTICE_APPROVED"
	EventCounterNoticeRejected ListingEvent = "COUNTER_NOTICE_REJECTED"
	EventAdminDisable          ListingEvent = "ADMIN_DISABLE"
	EventAdminRestore          ListingEvent = "ADMIN_RESTORE"
	EventAdminHide             ListingEvent = "ADMIN_HIDE"
)

type visibility int

const (
	keepActive visibility = iota
	activate
	deactivate
)

type transition struct {
	to     string
	active visibility
}

const anyStatus = "*"

var listingTransitions = map[ListingEvent]map[string]transition{
	EventScanAutoFlag: {
		models.CopyrightClear: {models.CopyrightFlagged, deactivate},
	},
	EventScanAutoHide: {
		models.CopyrightClear: {models.CopyrightHidden, deactivate},
	},
	EventComplaintReceived: {
		models.CopyrightClear:   {models.CopyrightDMCAComplaint, keepActive},
		models.CopyrightFlagged: {models.CopyrightDMCAComplaint, keepActive},
	},
	EventComplaintQueued: {
		models.CopyrightDMCAComplaint: {models.CopyrightFlagged, keepActive},
	},
	EventComplaintAutoApproved: {
		models.CopyrightDMCAComplaint: {models.CopyrightDisabled, deactivate},
		models.CopyrightDisabled:      {models.CopyrightDisabled, deactivate},
	},
	EventComplaintUpheld: {
		models.CopyrightClear:         {models.CopyrightDisabled, deactivate},
		models.CopyrightFlagged:       {models.CopyrightDisabled, deactivate},
		models.CopyrightDMCAComplaint: {models.CopyrightDisabled, deactivate},
		models.CopyrightDisabled:      {models.CopyrightDisabled, deactivate},
	},
	EventComplaintDismissed: {
		models.CopyrightFlagged:       {models.CopyrightClear, activate},
		models.CopyrightDMCAComplaint: {models.CopyrightClear, activate},
	},
	EventCounterNoticeFiled: {
		models.CopyrightClear:         {models.CopyrightFlagged, deactivate},
		models.CopyrightFlagged:       {models.CopyrightFlagged, keepActive},
		models.CopyrightDMCAComplaint: {models.CopyrightFlagged, deactivate},
		models.CopyrightDisabled:      {models.CopyrightFlagged, deactivate},
	},
	EventCounterNoticeApproved: {
		models.CopyrightFlagged:  {models.CopyrightClear, activate},
		models.CopyrightDisabled: {models.CopyrightClear, activate},
	},
	EventCounterNoticeRejected: {
		models.CopyrightClear:         {models.CopyrightDisabled, deactivate},
		models.CopyrightFlagged:       {models.CopyrightDisabled, deactivate},
		models.CopyrightDMCAComplaint: {models.CopyrightDisabled, deactivate},
		models.CopyrightDisabled:      {models.CopyrightDisabled, deactivate},
	},
	EventAdminDisable: {
		models.CopyrightFlagged:       {models.CopyrightDisabled, deactivate},
		models.CopyrightDMCAComplaint: {models.CopyrightDisabled, deactivate},
	},
	EventAdminRestore: {
		models.CopyrightFlagged:  {models.CopyrightClear, activate},
		models.CopyrightDisabled: {models.CopyrightClear, activate},
		models.CopyrightHidden:   {models.CopyrightClear, activate},
	},
	EventAdminHide: {
		anyStatus: {models.CopyrightHidden, deactivate},
	},
}

// CanApply reports whether event is defined for the status.
func CanApply(status string, event ListingEvent) bool {
	_, ok := lookup(status, event)
	return ok
}

func lookup(status string, event ListingEvent) (transition, bool) {
	table := listingTransitions[event]
	if t, ok := table[status]; ok {
		return t, true
	}
	t, ok := table[anyStatus]
	return t, ok
}

// applyEvent mutates listing in memory. The caller persists it.
func applyEvent(listing *models.Listing, event ListingEvent) error {
	t, ok := lookup(listing.CopyrightStatus, event)
	if !ok {
		return fmt.Errorf("%w: listing %d is %s, cannot apply %s",
			ErrInvalidTransition, listing.ID, listing.CopyrightStatus, event)
	}
	listing.CopyrightStatus = t.to
	switch t.active {
	case activate:
		listing.IsActive = true
	case deactivate:
		listing.IsActive = false
	}
	return nil
}
