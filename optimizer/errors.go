package optimizer

import (
	"errors"
	"fmt"
)

var (
	// ErrNoHolidaySource is returned by New when no holiday source is given.
	ErrNoHolidaySource = errors.New("optimizer requires a holiday source")

	// ErrPlanFailed is the generic failure callers surface to users.
	ErrPlanFailed = errors.New("could not generate a plan")
)

// PlanError reports which pipeline stage failed. No partial result is ever
// returned alongside it.
type PlanError struct {
	Stage string
	Err   error
}

func (e *PlanError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrPlanFailed, e.Stage, e.Err)
}

func (e *PlanError) Unwrap() []error {
	return []error{ErrPlanFailed, e.Err}
}
