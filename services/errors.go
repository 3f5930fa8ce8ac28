// services/errors.go
package services

import "errors"

var (
	ErrBookingNotFound    = errors.New("booking not found")
	ErrServiceNotFound    = errors.New("service not found or unavailable")
	ErrInvalidTransition  = errors.New("booking status does not allow this action")
	ErrNotAuthorized      = errors.New("actor is not allowed to act on this booking")
	ErrDuplicatePayment   = errors.New("a payment already exists for this booking")
	ErrDuplicateEarnings  = errors.New("earnings already recorded for this booking")
	ErrPaymentMissing     = errors.New("no completed payment found for this booking")
	ErrDuplicateReview    = errors.New("a review already exists for this booking")
	ErrBookingNotComplete = errors.New("booking is not completed")
)
