package desk

import "errors"

// Validation and invariant errors are raised before any remote call;
// conflict errors are recoverable by a user decision (force-create or
// merge). Remote failures pass through as *remote.Error with the
// backend message intact.
var (
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation failed")
	ErrDuplicateContact    = errors.New("an identical contact already exists")
	ErrDuplicateCouponCode = errors.New("coupon code already in use")
	ErrEventHasTickets     = errors.New("event still has active tickets")
	ErrServiceInUse        = errors.New("service has ticket types referenced by tickets")
	ErrContactNotShared    = errors.New("contact is not shared, edit it directly")
	ErrCouponInvalid       = errors.New("coupon is expired or spent")
	ErrMergeTargetIsSource = errors.New("merge target is listed among sources")
)
