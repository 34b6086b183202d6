// Package booking holds the scheduling rules applied before an appointment
// is written: the business-hours check, the overlap check and the lock that
// serializes bookings for one civil day.
package booking

import (
	"fmt"
	"strings"
	"time"
)

// TimeRangeReason identifies which time-of-day rule rejected an interval.
type TimeRangeReason string

const (
	ReasonInvalidOrder         TimeRangeReason = "invalid_order"
	ReasonCrossesDayBoundary   TimeRangeReason = "crosses_day_boundary"
	ReasonOutsideBusinessHours TimeRangeReason = "outside_business_hours"
)

type TimeRangeError struct {
	Reason TimeRangeReason
	msg    string
}

func (e *TimeRangeError) Error() string {
	return e.msg
}

// Clock is a wall-clock time of day, minute precision.
type Clock struct {
	Hour   int
	Minute int
}

func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return Clock{}, fmt.Errorf("invalid time of day %q: want HH:MM", s)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c Clock) kitchen() string {
	return time.Date(2000, 1, 1, c.Hour, c.Minute, 0, 0, time.UTC).Format("3:04 PM")
}

func (c Clock) on(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, c.Hour, c.Minute, 0, 0, day.Location())
}

// BusinessHours is the daily window appointments must fit in, evaluated in
// Location.
type BusinessHours struct {
	Location *time.Location
	Open     Clock
	Close    Clock
}

func DefaultBusinessHours() BusinessHours {
	return BusinessHours{
		Location: time.Local,
		Open:     Clock{Hour: 9},
		Close:    Clock{Hour: 17},
	}
}

// NewBusinessHours builds business hours from a timezone name and HH:MM
// opening and closing times. An empty timezone means the process local zone.
func NewBusinessHours(timezone, open, close string) (BusinessHours, error) {
	loc := time.Local
	if tz := strings.TrimSpace(timezone); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return BusinessHours{}, fmt.Errorf("invalid timezone %q: %w", tz, err)
		}
		loc = l
	}
	o, err := ParseClock(open)
	if err != nil {
		return BusinessHours{}, err
	}
	c, err := ParseClock(close)
	if err != nil {
		return BusinessHours{}, err
	}
	if c.Hour*60+c.Minute <= o.Hour*60+o.Minute {
		return BusinessHours{}, fmt.Errorf("closing time %s must be after opening time %s", c, o)
	}
	return BusinessHours{Location: loc, Open: o, Close: c}, nil
}

func (h BusinessHours) location() *time.Location {
	if h.Location == nil {
		return time.Local
	}
	return h.Location
}

// Validate checks that [start, end] is a non-empty interval on a single civil
// day that lies inside the opening hours of that day. The ordering rule is
// checked first, then the day boundary, then the hours. Both bounds are taken
// from start's civil date.
func (h BusinessHours) Validate(start, end time.Time) error {
	loc := h.location()
	s := start.In(loc)
	e := end.In(loc)

	if !s.Before(e) {
		return &TimeRangeError{
			Reason: ReasonInvalidOrder,
			msg:    "Appointment start time must be before end time",
		}
	}

	if !SameDay(s, e) {
		return &TimeRangeError{
			Reason: ReasonCrossesDayBoundary,
			msg:    "Appointment start and end times must be on the same day",
		}
	}

	openAt := h.Open.on(s)
	closeAt := h.Close.on(s)
	if s.Before(openAt) || e.After(closeAt) {
		return &TimeRangeError{
			Reason: ReasonOutsideBusinessHours,
			msg:    fmt.Sprintf("Appointment time must be between %s and %s", h.Open.kitchen(), h.Close.kitchen()),
		}
	}
	return nil
}

// Day returns the civil date of t in the business-hours zone, formatted as
// YYYY-MM-DD.
func (h BusinessHours) Day(t time.Time) string {
	return t.In(h.location()).Format(time.DateOnly)
}

// DayWindow returns the instants bounding the civil day containing t.
func (h BusinessHours) DayWindow(t time.Time) (time.Time, time.Time) {
	local := t.In(h.location())
	y, m, d := local.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, local.Location())
	return from, from.AddDate(0, 0, 1)
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
