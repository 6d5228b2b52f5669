package checkout

import apperrors "marketplace/internal/errors"

var (
	ErrEmptyCart          = apperrors.Validation("EMPTY_CART", "cart has no items")
	ErrInvalidQuantity    = apperrors.Validation("INVALID_QUANTITY", "quantity must be between 1 and 10000")
	ErrListingNotFound    = apperrors.NotFound("LISTING_NOT_FOUND", "listing not found")
	ErrListingUnavailable = apperrors.Conflict("LISTING_UNAVAILABLE", "listing is not available for purchase")
	ErrBuyerSuspended     = apperrors.Forbidden("BUYER_SUSPENDED", "suspended accounts cannot check out")

	ErrNotOrderOwner      = apperrors.Forbidden("NOT_ORDER_OWNER", "order belongs to another buyer")
	ErrOrderNotPaid       = apperrors.Conflict("ORDER_NOT_PAID", "order has not been paid")
	ErrInvalidRefundType  = apperrors.Validation("INVALID_REFUND_TYPE", "refund type must be CREDIT or CASH")
	ErrRefundExists       = apperrors.Conflict("REFUND_EXISTS", "a refund was already requested for this order")
	ErrRefundNotRequested = apperrors.Conflict("REFUND_NOT_REQUESTED", "order has no pending refund request")
	ErrMissingPayment     = apperrors.Conflict("MISSING_PAYMENT_INTENT", "order has no payment to refund")
)
