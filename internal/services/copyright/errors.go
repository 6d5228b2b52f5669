package copyright

import (
	apperrors "marketplace/internal/errors"
	"marketplace/internal/repositories"
)

var (
	ErrInvalidTransition   = apperrors.Conflict("INVALID_TRANSITION", "action is not allowed in the current state")
	ErrCounterNoticeExists = repositories.ErrCounterNoticeExists
	ErrAlreadySuspended    = apperrors.Conflict("ALREADY_SUSPENDED", "seller is already suspended")

	ErrMissingField    = apperrors.Validation("MISSING_FIELD", "a required field is missing")
	ErrInvalidAmount   = apperrors.Validation("INVALID_AMOUNT", "listing amounts must be between 0 and 10000000000 cents")
	ErrInvalidDecision = apperrors.Validation("INVALID_DECISION", "decision must be VALID or INVALID")
	ErrInvalidAction   = apperrors.Validation("INVALID_ACTION", "action must be DISABLE, RESTORE or HIDE")
	ErrInvalidWord     = apperrors.Validation("INVALID_BANNED_WORD", "banned word needs a term, a known category and a known severity")

	ErrNotListingSeller = apperrors.Forbidden("NOT_LISTING_SELLER", "only the listing's seller may do this")
	ErrNotStrikeOwner   = apperrors.Forbidden("NOT_STRIKE_OWNER", "only the penalized seller may appeal a strike")
	ErrSellerSuspended  = apperrors.Forbidden("SELLER_SUSPENDED", "suspended sellers cannot publish listings")
)
