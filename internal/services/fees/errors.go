package fees

import apperrors "marketplace/internal/errors"

var (
	ErrNegativeAmount = apperrors.Validation("NEGATIVE_AMOUNT", "monetary amounts must not be negative")
	ErrInvalidItem    = apperrors.Validation("INVALID_LINE_ITEM", "invalid line item")
	ErrNoItems        = apperrors.Validation("EMPTY_ORDER", "order has no line items")

	// Configuration errors. These indicate a broken fee setup rather than bad input.
	ErrInvalidRates   = apperrors.Internal("INVALID_FEE_RATES", "fee rates are misconfigured")
	ErrNegativePayout = apperrors.Internal("NEGATIVE_PAYOUT", "fees exceed the order subtotal")
)
