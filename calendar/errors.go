package calendar

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPeriod is returned when a period ends before it starts.
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrInvalidDate is returned for date strings that are not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")
)

// InvalidDateError carries the rejected input.
type InvalidDateError struct {
	Value string
	Err   error
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q (use YYYY-MM-DD): %v", e.Value, e.Err)
}

func (e *InvalidDateError) Unwrap() error {
	return ErrInvalidDate
}
