package availability

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidDate       = errors.New("invalid date, expected YYYY-MM-DD")
	ErrBookedDateRemoval = errors.New("booked dates cannot be removed from availability")
)

// InvalidDateError names the malformed value
type InvalidDateError struct {
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", e.Value)
}

func (e *InvalidDateError) Unwrap() error { return ErrInvalidDate }

// BookedDateRemovalError lists the booked dates a publish tried to drop
type BookedDateRemovalError struct {
	Dates []string
}

func (e *BookedDateRemovalError) Error() string {
	return "booked dates cannot be removed from availability: " + strings.Join(e.Dates, ", ")
}

func (e *BookedDateRemovalError) Unwrap() error { return ErrBookedDateRemoval }
