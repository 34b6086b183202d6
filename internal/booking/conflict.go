package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/DesignByOnyx/curbee-coding-exercise/internal/domain"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/store"
)

// OverlapRule decides when a proposed interval collides with a booked one.
type OverlapRule int

const (
	// OverlapInterval reports a conflict when the two intervals share any
	// instant other than a common boundary.
	OverlapInterval OverlapRule = iota
	// OverlapEndpoints reports a conflict only when the proposed start or end
	// falls strictly inside a booked interval. A proposed interval that
	// brackets a booking is not a conflict under this rule.
	OverlapEndpoints
)

func ParseOverlapRule(s string) (OverlapRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "interval":
		return OverlapInterval, nil
	case "endpoints", "endpoint", "legacy":
		return OverlapEndpoints, nil
	default:
		return 0, fmt.Errorf("unknown overlap rule %q", s)
	}
}

func (r OverlapRule) String() string {
	if r == OverlapEndpoints {
		return "endpoints"
	}
	return "interval"
}

func (r OverlapRule) Conflicts(start, end time.Time, booked domain.Appointment) bool {
	bs := booked.AppointmentStartTime
	be := booked.AppointmentEndTime
	if r == OverlapEndpoints {
		return strictlyInside(start, bs, be) || strictlyInside(end, bs, be)
	}
	return start.Before(be) && bs.Before(end)
}

func strictlyInside(t, from, to time.Time) bool {
	return from.Before(t) && t.Before(to)
}

type ConflictError struct {
	AppointmentID string
}

func (e *ConflictError) Error() string {
	if e.AppointmentID == "" {
		return "Appointment conflicts with existing appointment"
	}
	return fmt.Sprintf("Appointment conflicts with existing appointment %s", e.AppointmentID)
}

func (e *ConflictError) Unwrap() error {
	return store.ErrConflict
}

// EnsureNoConflicts returns a *ConflictError naming the first booked
// appointment that collides with [start, end] under rule.
func EnsureNoConflicts(start, end time.Time, booked []domain.Appointment, rule OverlapRule) error {
	for _, b := range booked {
		if rule.Conflicts(start, end, b) {
			return &ConflictError{AppointmentID: b.ID}
		}
	}
	return nil
}
