// Package week resolves ISO-8601 week identifiers and their boundaries.
// Nothing in here reads the wall clock: callers pass the reference instant
// and the platform timezone explicitly.
package week

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidWeek = errors.New("invalid iso week")

// ID identifies an ISO week, e.g. 2026-W42.
type ID struct {
	Year int
	Week int
}

// Of returns the ISO week containing t, as observed in loc.
func Of(t time.Time, loc *time.Location) ID {
	year, w := t.In(loc).ISOWeek()
	return ID{Year: year, Week: w}
}

// Parse accepts the canonical "2006-W01" form.
func Parse(s string) (ID, error) {
	var id ID
	if _, err := fmt.Sscanf(s, "%4d-W%2d", &id.Year, &id.Week); err != nil {
		return ID{}, fmt.Errorf("%w: %q: %w", ErrInvalidWeek, s, err)
	}
	if s != id.String() {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidWeek, s)
	}
	if id.Week < 1 || id.Week > weeksInYear(id.Year) {
		return ID{}, fmt.Errorf("%w: %q has no week %d", ErrInvalidWeek, s, id.Week)
	}
	return id, nil
}

func (id ID) String() string {
	return fmt.Sprintf("%04d-W%02d", id.Year, id.Week)
}

func (id ID) IsZero() bool {
	return id.Year == 0 && id.Week == 0
}

// Bounds returns [start, end): Monday 00:00 of the week up to the following
// Monday 00:00, both in loc.
func (id ID) Bounds(loc *time.Location) (start, end time.Time) {
	start = mondayOfWeekOne(id.Year, loc).AddDate(0, 0, (id.Week-1)*7)
	return start, start.AddDate(0, 0, 7)
}

// Add moves n weeks forward (or backward for negative n).
func (id ID) Add(n int) ID {
	start, _ := id.Bounds(time.UTC)
	return Of(start.AddDate(0, 0, 7*n), time.UTC)
}

func (id ID) Prev() ID {
	return id.Add(-1)
}

func (id ID) Before(other ID) bool {
	if id.Year != other.Year {
		return id.Year < other.Year
	}
	return id.Week < other.Week
}

// CivilDay truncates t to midnight of its calendar date in loc. The result is
// expressed in UTC so that day arithmetic is never affected by DST shifts.
func CivilDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Jan 4th is always in ISO week 1.
func mondayOfWeekOne(year int, loc *time.Location) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, loc)
	offset := (int(jan4.Weekday()) + 6) % 7 // days since Monday
	return jan4.AddDate(0, 0, -offset)
}

func weeksInYear(year int) int {
	// Dec 28th is always in the last ISO week of its year
	_, w := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return w
}
