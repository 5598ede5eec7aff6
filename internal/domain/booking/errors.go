package booking

import "errors"

var (
	ErrInvalidDate             = errors.New("invalid date, expected YYYY-MM-DD")
	ErrClientNotFound          = errors.New("client not found")
	ErrNotClient               = errors.New("only clients can book")
	ErrUserNotFound            = errors.New("user not found")
	ErrProfileNotFound         = errors.New("pilot profile not found")
	ErrServiceNotFound         = errors.New("service not found for this pilot")
	ErrDateUnavailable         = errors.New("date is not available")
	ErrBookingNotFound         = errors.New("booking not found")
	ErrNotBookingPilot         = errors.New("only the booked pilot can respond")
	ErrInvalidStatusTransition = errors.New("booking can no longer change status")
	ErrReleaseUnsupported      = errors.New("releasing a booked date is not supported")
)
