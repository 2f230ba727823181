// Package streak tracks consecutive calendar days with qualifying workouts.
//
// Days are calendar dates in the platform reference timezone, represented as
// midnight UTC values (see week.CivilDay). A streak continues when the next
// active date is exactly one day after the previous one; a gap of two or more
// days breaks it. The current streak is only held while the last active date
// is today or yesterday.
package streak

import (
	"sort"
	"time"

	"github.com/2beens/gymprogress/internal/progression/week"
)

type Result struct {
	Current    int        `json:"current"`
	Longest    int        `json:"longest"`
	LastActive *time.Time `json:"lastActive,omitempty"`
}

// State is the persisted streak of a single user, updated incrementally
// on the live path.
type State struct {
	Current    int
	Longest    int
	LastActive *time.Time
}

// Compute walks the distinct activity days and returns the current and the
// longest streak as of today. Input order does not matter, duplicates count once.
func Compute(days []time.Time, today time.Time) Result {
	distinct := dedupe(days)
	if len(distinct) == 0 {
		return Result{}
	}

	longest, run := 1, 1
	for i := 1; i < len(distinct); i++ {
		if daysBetween(distinct[i-1], distinct[i]) == 1 {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}

	last := distinct[len(distinct)-1]
	res := Result{
		Longest:    longest,
		LastActive: &last,
	}
	if holds(last, civil(today)) {
		res.Current = run
	}
	return res
}

// Advance applies one activity day to the state. Days older than the last
// active day leave the state untouched, a full Compute is needed to account
// for back-filled history.
func Advance(s State, day time.Time) State {
	day = civil(day)
	if s.LastActive == nil {
		return State{Current: 1, Longest: max(s.Longest, 1), LastActive: &day}
	}

	switch gap := daysBetween(*s.LastActive, day); {
	case gap <= 0:
		return s
	case gap == 1:
		s.Current++
	default:
		s.Current = 1
	}
	s.LastActive = &day
	s.Longest = max(s.Longest, s.Current)
	return s
}

// Effective returns the streak to display today: the stored current streak
// lapses once a full day without activity has passed.
func Effective(s State, today time.Time) int {
	if s.LastActive == nil || !holds(civil(*s.LastActive), civil(today)) {
		return 0
	}
	return s.Current
}

// DistinctDays maps instants to their sorted distinct calendar days in loc.
func DistinctDays(instants []time.Time, loc *time.Location) []time.Time {
	days := make([]time.Time, 0, len(instants))
	for _, t := range instants {
		days = append(days, week.CivilDay(t, loc))
	}
	return dedupe(days)
}

func holds(last, today time.Time) bool {
	gap := daysBetween(last, today)
	return gap == 0 || gap == 1
}

func dedupe(days []time.Time) []time.Time {
	if len(days) == 0 {
		return nil
	}
	sorted := make([]time.Time, 0, len(days))
	for _, d := range days {
		sorted = append(sorted, civil(d))
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Before(sorted[j])
	})

	out := sorted[:1]
	for _, d := range sorted[1:] {
		if !d.Equal(out[len(out)-1]) {
			out = append(out, d)
		}
	}
	return out
}

// civil keeps the calendar date as observed in t's own location.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
